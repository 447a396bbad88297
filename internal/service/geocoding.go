package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/UnknownOlympus/gazetteer/internal/cache"
	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/UnknownOlympus/gazetteer/internal/repository"
	"golang.org/x/sync/singleflight"
)

// GeocodingService orchestrates reverse-geocoding requests: cache lookup,
// concurrent provider fan-out, scoring and merging of provider results, and
// fallback synthesis when every provider fails. It never returns an error to
// its caller; degraded outcomes are signalled through the result's Success
// and Confidence fields.
type GeocodingService struct {
	log       *slog.Logger         // Logger for logging service activities
	providers []geocoding.Provider // Ordered provider registry for the fan-out
	cache     cache.Cache          // Memoizes merged results by rounded coordinate key
	repo      repository.Interface // Lookup log, nil when disabled
	metrics   *metrics.Metrics     // Metrics for tracking service performance
	timeout   time.Duration        // Per-request fan-out deadline
	group     singleflight.Group   // Deduplicates concurrent fan-outs per coordinate key
}

// NewGeocodingService creates a new instance of GeocodingService.
// The repo may be nil, in which case served lookups are not recorded.
func NewGeocodingService(
	log *slog.Logger,
	providers []geocoding.Provider,
	resultCache cache.Cache,
	repo repository.Interface,
	appMetrics *metrics.Metrics,
	timeout time.Duration,
) *GeocodingService {
	return &GeocodingService{
		log:       log,
		providers: providers,
		cache:     resultCache,
		repo:      repo,
		metrics:   appMetrics,
		timeout:   timeout,
	}
}

// ReverseGeocode resolves a coordinate pair into a merged address. The cache
// is consulted first; on a miss, concurrent callers for the same rounded
// coordinate share a single provider fan-out. The returned result is never
// nil: when no provider yields usable data a synthesized fallback address is
// returned instead.
func (gs *GeocodingService) ReverseGeocode(ctx context.Context, lat, lng float64) *models.GeocodingResult {
	key := models.Coordinates{Latitude: lat, Longitude: lng}.Key()

	if result, ok := gs.cache.Get(ctx, key); ok {
		gs.metrics.CacheHits.Inc()
		gs.log.DebugContext(ctx, "Cache hit", "key", key, "provider", result.Provider)
		return result
	}
	gs.metrics.CacheMisses.Inc()

	value, _, shared := gs.group.Do(key, func() (any, error) {
		start := time.Now()
		result := gs.resolve(ctx, lat, lng)
		gs.cache.Set(ctx, key, result)
		gs.recordLookup(result, time.Since(start))
		return result, nil
	})
	if shared {
		gs.log.DebugContext(ctx, "Joined in-flight lookup", "key", key)
	}

	result, ok := value.(*models.GeocodingResult)
	if !ok {
		// Unreachable: the singleflight closure always returns a result.
		return fallbackResult(lat, lng)
	}
	return result
}

// resolve fans out to every registered provider concurrently and merges
// whatever they produced before the deadline. Provider failures are logged
// and counted, never propagated.
func (gs *GeocodingService) resolve(ctx context.Context, lat, lng float64) *models.GeocodingResult {
	fanCtx, cancel := context.WithTimeout(ctx, gs.timeout)
	defer cancel()

	type providerResult struct {
		idx    int
		result *models.GeocodingResult
	}

	responses := make(chan providerResult, len(gs.providers))
	for idx, provider := range gs.providers {
		go func(idx int, provider geocoding.Provider) {
			start := time.Now()
			result, err := provider.ReverseGeocode(fanCtx, lat, lng)
			gs.metrics.RequestSeconds.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())

			if err != nil {
				gs.log.WarnContext(ctx, "Provider abstained", "provider", provider.Name(), "error", err)
				gs.metrics.ProviderRequests.WithLabelValues(provider.Name(), "failure").Inc()
				responses <- providerResult{idx: idx, result: nil}
				return
			}

			gs.metrics.ProviderRequests.WithLabelValues(provider.Name(), "success").Inc()
			responses <- providerResult{idx: idx, result: result}
		}(idx, provider)
	}

	// Collect in invocation order so equal scores keep a stable tie-break.
	ordered := make([]*models.GeocodingResult, len(gs.providers))
collect:
	for range gs.providers {
		select {
		case response := <-responses:
			ordered[response.idx] = response.result
		case <-fanCtx.Done():
			gs.log.WarnContext(ctx, "Fan-out deadline reached, ignoring pending providers")
			break collect
		}
	}

	results := make([]*models.GeocodingResult, 0, len(ordered))
	for _, result := range ordered {
		if result != nil {
			results = append(results, result)
		}
	}

	return gs.selectBest(ctx, results, lat, lng)
}

// selectBest ranks provider results by score and merges the best one with
// details from the alternatives. With no results at all it synthesizes a
// low-confidence fallback address.
func (gs *GeocodingService) selectBest(
	ctx context.Context,
	results []*models.GeocodingResult,
	lat, lng float64,
) *models.GeocodingResult {
	if len(results) == 0 {
		gs.metrics.Fallbacks.Inc()
		gs.log.InfoContext(ctx, "All providers abstained, synthesizing fallback address", "lat", lat, "lng", lng)
		return fallbackResult(lat, lng)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return resultScore(results[i]) > resultScore(results[j])
	})

	return enhanceResult(results[0], results[1:])
}

// resultScore computes the ranking score for a provider result: the
// provider-assigned confidence plus completeness bonuses and a capped bonus
// for longer formatted addresses. The score is a relative-ranking heuristic
// only and may exceed 1.0.
func resultScore(result *models.GeocodingResult) float64 {
	score := result.Confidence

	if result.Detailed.HouseNumber != "" {
		score += 0.2
	}
	if result.Detailed.Street != "" {
		score += 0.2
	}
	if result.Detailed.Ward != "" {
		score += 0.1
	}
	if result.Detailed.District != "" {
		score += 0.1
	}

	// Longer formatted addresses carry more detail. Count runes so that
	// Vietnamese diacritics are not weighted double.
	score += math.Min(float64(utf8.RuneCountInString(result.Address))/100, 0.2)

	return score
}

// enhanceResult fills absent fine-grained fields of the primary result from
// the ranked alternatives, first found wins. District, city and country are
// never taken from alternatives: the primary provider's notion of the
// administrative boundary is preserved. Provider and confidence stay those
// of the primary.
func enhanceResult(primary *models.GeocodingResult, alternatives []*models.GeocodingResult) *models.GeocodingResult {
	enhanced := *primary

	for _, alt := range alternatives {
		if enhanced.Detailed.HouseNumber == "" && alt.Detailed.HouseNumber != "" {
			enhanced.Detailed.HouseNumber = alt.Detailed.HouseNumber
		}
		if enhanced.Detailed.Street == "" && alt.Detailed.Street != "" {
			enhanced.Detailed.Street = alt.Detailed.Street
		}
		if enhanced.Detailed.Ward == "" && alt.Detailed.Ward != "" {
			enhanced.Detailed.Ward = alt.Detailed.Ward
		}
	}

	enhanced.Detailed.Formatted = geocoding.FormatAddress(enhanced.Detailed)
	enhanced.Address = enhanced.Detailed.Formatted

	return &enhanced
}

// recordLookup appends the served result to the lookup log, if configured.
// Logging is best effort and runs detached from the request.
func (gs *GeocodingService) recordLookup(result *models.GeocodingResult, duration time.Duration) {
	if gs.repo == nil {
		return
	}

	go func() {
		const saveTimeout = 5 * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		lookup := repository.Lookup{
			Latitude:   result.Coordinates.Latitude,
			Longitude:  result.Coordinates.Longitude,
			Address:    result.Address,
			District:   result.District,
			City:       result.City,
			Provider:   result.Provider,
			Confidence: result.Confidence,
			Success:    result.Success,
			DurationMS: duration.Milliseconds(),
		}
		if err := gs.repo.SaveLookup(ctx, lookup); err != nil {
			gs.log.ErrorContext(ctx, "Failed to record lookup", "error", err)
		}
	}()
}
