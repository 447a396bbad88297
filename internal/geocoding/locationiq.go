package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"golang.org/x/time/rate"
)

// LocationIQBaseURL -- LocationIQ reverse-geocoding endpoint (US region).
const LocationIQBaseURL = "https://us1.locationiq.com/v1/reverse.php"

// locationIQConfidence is the fixed confidence assigned to LocationIQ
// results. The commercial tier is generally more accurate than the open
// providers, so it ranks above Photon by default.
const locationIQConfidence = 0.8

// LocationIQProvider implements reverse geocoding using the LocationIQ API.
type LocationIQProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the LocationIQ API
	apiKey  string        // API key with reverse-geocoding access
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// Common errors for LocationIQ provider.
var (
	ErrLocationIQNoAddress    = errors.New("locationiq API returned no address data")
	ErrLocationIQUnauthorized = errors.New("locationiq API unauthorized (invalid API key)")
)

// LocationIQ reverse response (simplified, same lineage as Nominatim).
type locationIQResponse struct {
	Address struct {
		HouseNumber   string `json:"house_number"`
		Road          string `json:"road"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		CityDistrict  string `json:"city_district"`
		County        string `json:"county"`
		City          string `json:"city"`
		Town          string `json:"town"`
		State         string `json:"state"`
		Country       string `json:"country"`
	} `json:"address"`
}

// NewLocationIQProvider creates a new LocationIQ reverse-geocoding provider.
func NewLocationIQProvider(apiKey string, rateLimit int, log *slog.Logger) *LocationIQProvider {
	const timeout = 10

	return NewLocationIQProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		apiKey,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewLocationIQProviderWithClient allows injecting custom HTTP client.
func NewLocationIQProviderWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *LocationIQProvider {
	return &LocationIQProvider{
		client:  client,
		baseURL: LocationIQBaseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// Name returns the provider name used for ranking and metrics labels.
func (lp *LocationIQProvider) Name() string { return "LocationIQ" }

// ReverseGeocode converts coordinates into an address using the LocationIQ
// reverse API with Vietnamese-language results.
func (lp *LocationIQProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.GeocodingResult, error) {
	if err := lp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	lp.log.DebugContext(ctx, "Reverse geocoding using LocationIQ", "lat", lat, "lng", lng)

	reqURL, err := url.Parse(lp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("key", lp.apiKey)
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lng))
	query.Set("format", "json")
	query.Set("addressdetails", "1")
	query.Set("accept-language", "vi")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := lp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrLocationIQUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		lp.log.ErrorContext(ctx, "LocationIQ API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("locationiq API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	lp.log.DebugContext(ctx, "LocationIQ raw response", "body", string(body))

	var result locationIQResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode locationiq response: %w", err)
	}

	addr := result.Address
	if addr == (locationIQResponse{}.Address) {
		return nil, ErrLocationIQNoAddress
	}

	detailed := models.DetailedAddress{
		HouseNumber: addr.HouseNumber,
		Street:      addr.Road,
		Ward:        firstNonEmpty(addr.Suburb, addr.Neighbourhood),
		District:    firstNonEmpty(addr.CityDistrict, addr.County),
		City:        firstNonEmpty(addr.City, addr.Town),
		Province:    addr.State,
		Country:     addr.Country,
		Confidence:  locationIQConfidence,
	}

	return newResult(lp.Name(), detailed, lat, lng), nil
}
