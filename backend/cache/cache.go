// Package cache is a read-through byte cache for search results.
// Mutations never invalidate it; entries simply age out after their TTL.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

type Cache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ReadThrough serves key from c when it holds a decodable value. Otherwise it
// calls load, stores the fresh value and returns it. Cache failures are logged
// and never fail the request.
func ReadThrough[T any](ctx context.Context, c Cache, logger *log.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Printf("cache: get %s: %v", key, err)
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.Printf("cache: discarding undecodable entry %s", key)
	}

	fresh, err := load(ctx)
	if err != nil {
		return fresh, err
	}

	data, err := json.Marshal(fresh)
	if err != nil {
		logger.Printf("cache: encode %s: %v", key, err)
		return fresh, nil
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		logger.Printf("cache: set %s: %v", key, err)
	}
	return fresh, nil
}
