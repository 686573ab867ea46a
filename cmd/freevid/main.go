package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/internal/server"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/cache"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/catalog"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/config"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/logging"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/pexels"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/prefetch"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	store, cleanup, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up cache store")
	}
	defer cleanup()

	client, err := pexels.New(pexels.Config{
		APIKey:  cfg.Pexels.APIKey,
		BaseURL: cfg.Pexels.BaseURL,
		Timeout: cfg.Pexels.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create upstream client")
	}

	cat := catalog.New(store)

	warmCache(cat, client, cfg.Warm.Queries)

	srv := server.New(cat, client, server.Config{
		AdminSecret: cfg.Admin.Secret,
		WebDir:      cfg.Server.WebDir,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Str("backend", cfg.Cache.Backend).
			Dur("ttl", cfg.Cache.TTL).
			Msg("Starting FreeVid server")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newStore builds the configured cache backend. The returned cleanup
// stops background work and closes connections.
func newStore(cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

		store := cache.NewRedis(redisClient, cfg.Cache.TTL, logging.NewLogger("cache"))
		return store, func() { redisClient.Close() }, nil

	default:
		store := cache.NewMemory(cfg.Cache.TTL)
		if cfg.Cache.SweepInterval > 0 {
			store.StartSweeper(cfg.Cache.SweepInterval)
		}
		return store, store.Close, nil
	}
}

// warmCache primes the cache with the configured popular searches.
func warmCache(cat *catalog.Service, client *pexels.Client, queries []string) {
	if len(queries) == 0 {
		return
	}

	jobs := make([]prefetch.Job, 0, len(queries))
	for _, query := range queries {
		params := url.Values{}
		params.Set("query", query)

		key := cache.NewKey("search", map[string]string{"query": query})
		jobs = append(jobs, prefetch.Job{
			Name: "search:" + query,
			Run: func(ctx context.Context) error {
				_, _, err := cat.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
					return client.SearchVideos(ctx, params)
				})
				return err
			},
		})
	}

	warmer := prefetch.NewWarmer(prefetch.DefaultConfig())
	warmer.Run(context.Background(), jobs)
}
