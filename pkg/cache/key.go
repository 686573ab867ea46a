package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key is the fingerprint of a cacheable upstream request.
type Key struct {
	// Op is the logical operation name (e.g. "search", "popular").
	Op string

	// Params are the normalized query parameters of the request.
	Params url.Values
}

// NewKey builds a Key from an operation name and a flat parameter map.
func NewKey(op string, params map[string]string) Key {
	values := url.Values{}
	for name, value := range params {
		values.Set(name, value)
	}
	return Key{Op: op, Params: values}
}

// String generates a deterministic cache key string.
// Format: freevid:op:param1=val1:param2=val2
//
// Parameter names are sorted so that two requests with identical
// key-value pairs derive the same key regardless of insertion order.
//
// Example:
//
//	freevid:search:page=1:query=sunset
func (k Key) String() string {
	parts := []string{"freevid"}

	op := strings.Trim(k.Op, "/")
	if op != "" {
		parts = append(parts, op)
	}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params.Get(name)))
		}
	}

	return strings.Join(parts, ":")
}
