// Package cache provides the injectable memoization layer for schedule
// generation: a small key/value contract with a bounded in-memory
// implementation and a Redis-backed one for shared deployments.
package cache

import "context"

// Cache is the key/value contract the memoizer depends on. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
