// Package cache provides the cache type constants.
package cache

// Type represents the type of cache.
type Type string

const (
	// TypeMemory represents an in-process memory cache.
	TypeMemory Type = "memory"
	// TypeRedis represents a Redis cache.
	TypeRedis Type = "redis"
)
