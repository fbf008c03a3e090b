// Package cache stores successful image resolutions keyed by gender and
// tier-1 query. Entries never expire; only successes are ever written.
package cache

import (
	"context"
	"strings"

	"kfit/internal/models"
)

// Cache is the resolution cache contract. Implementations are safe for
// concurrent use. A backend failure reads as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, url string)
}

// Key builds the cache key for a gender and tier-1 query.
func Key(gender models.Gender, query string) string {
	return strings.ToLower(strings.TrimSpace(string(gender) + ":" + query))
}
