package cache

import (
	"context"
	"strconv"
	"time"
)

// Cache is a string key/value store with per-entry TTL.
// Get returns domain.ErrCacheMiss when the key is absent or expired.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// LocationKey holds the caller's current grid token.
func LocationKey(userID int) string {
	return "loc:user:" + strconv.Itoa(userID)
}

// MapCardKey holds the rendered map card for a user.
func MapCardKey(userID int) string {
	return "map:user:" + strconv.Itoa(userID)
}
