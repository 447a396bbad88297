// Package cache memoizes merged geocoding results by rounded coordinate
// key. Addresses are effectively static, so entries only leave the cache
// through TTL expiry or capacity eviction.
package cache

import (
	"context"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// Cache stores merged geocoding results keyed by rounded coordinates.
// Implementations are safe for concurrent use. A cache never fails a
// lookup: backend errors degrade to a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*models.GeocodingResult, bool)
	Set(ctx context.Context, key string, result *models.GeocodingResult)
}
