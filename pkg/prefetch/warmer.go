// Package prefetch primes the response cache at startup with a set of
// configured requests, so the first page loads hit warm entries. It is
// purely an optimization: failed jobs are logged and skipped.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds warmer configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel jobs.
	MaxConcurrency int

	// Timeout per job.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// Job is a single warm-up request.
type Job struct {
	// Name identifies the job in logs.
	Name string

	// Run performs the request; the cache is populated as a side
	// effect of the normal fetch-on-miss flow.
	Run func(ctx context.Context) error
}

// Warmer executes warm-up jobs with a bounded worker pool.
type Warmer struct {
	config Config
}

// NewWarmer creates a new warmer.
func NewWarmer(config Config) *Warmer {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Warmer{config: config}
}

// Run executes all jobs and returns the number that succeeded.
// It blocks until every job has finished or ctx is cancelled.
func (w *Warmer) Run(ctx context.Context, jobs []Job) int {
	if len(jobs) == 0 {
		return 0
	}

	start := time.Now()

	queue := make(chan Job, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	var warmed int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < w.config.MaxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for job := range queue {
				select {
				case <-ctx.Done():
					return
				default:
				}

				jobCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
				err := job.Run(jobCtx)
				cancel()

				if err != nil {
					log.Warn().
						Err(err).
						Str("job", job.Name).
						Msg("Warm-up job failed")
					continue
				}

				mu.Lock()
				warmed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	log.Info().
		Int("warmed", warmed).
		Int("total", len(jobs)).
		Dur("duration", time.Since(start)).
		Msg("Cache warm-up complete")

	return warmed
}
