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

// NominatimBaseURL -- OpenStreetMap Nominatim reverse-geocoding endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"

// NominatimProvider implements the Provider interface using OpenStreetMap's
// Nominatim API. This is a free geocoding service with usage limits
// (1 request/second for fair use).
type NominatimProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Nominatim API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter per Nominatim fair-use policy
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// nominatimResponse represents the JSON response from the Nominatim reverse API.
type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// nominatimAddress carries the provider-specific address breakdown.
// Nominatim spreads equivalent concepts over several keys depending on the
// OSM tagging of the area.
type nominatimAddress struct {
	HouseNumber   string `json:"house_number"`
	Road          string `json:"road"`
	Pedestrian    string `json:"pedestrian"`
	Footway       string `json:"footway"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	Quarter       string `json:"quarter"`
	Village       string `json:"village"`
	CityDistrict  string `json:"city_district"`
	County        string `json:"county"`
	Municipality  string `json:"municipality"`
	Town          string `json:"town"`
	City          string `json:"city"`
	State         string `json:"state"`
	Province      string `json:"province"`
	Country       string `json:"country"`
}

// Common errors for Nominatim provider.
var ErrNominatimNoAddress = errors.New("nominatim API returned no address data")

// NewNominatimProvider creates a new Nominatim reverse-geocoding provider.
// Uses the public Nominatim API endpoint by default.
func NewNominatimProvider(log *slog.Logger) *NominatimProvider {
	const timeout = 10
	return NewNominatimProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		rate.NewLimiter(rate.Limit(1), 1),
		log,
	)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom
// HTTP client and rate limiter. Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:  client,
		baseURL: NominatimBaseURL,
		log:     log,
		limiter: limiter,
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: "Gazetteer-Geocoding-Service/1.0 (https://github.com/UnknownOlympus/gazetteer)",
	}
}

// Name returns the provider name used for ranking and metrics labels.
func (np *NominatimProvider) Name() string { return "Nominatim" }

// ReverseGeocode converts coordinates into an address using the Nominatim
// reverse API, requesting Vietnamese-language results. Confidence reflects
// how many of the fine-grained components the provider resolved.
func (np *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.GeocodingResult, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim", "lat", lat, "lng", lng)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("format", "json")
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lng))
	query.Set("zoom", "18")               // Building-level detail
	query.Set("addressdetails", "1")      // Include detailed address breakdown
	query.Set("accept-language", "vi,en") // Prefer Vietnamese, fallback to English
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers per Nominatim usage policy
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept-Language", "vi,en")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	np.log.DebugContext(ctx, "Nominatim raw response", "body", string(body))

	var result nominatimResponse
	if err = json.Unmarshal(body, &result); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	addr := result.Address
	if addr == (nominatimAddress{}) {
		return nil, ErrNominatimNoAddress
	}

	detailed := models.DetailedAddress{
		HouseNumber: addr.HouseNumber,
		Street:      firstNonEmpty(addr.Road, addr.Pedestrian, addr.Footway),
		Ward:        firstNonEmpty(addr.Suburb, addr.Neighbourhood, addr.Quarter, addr.Village),
		District:    firstNonEmpty(addr.CityDistrict, addr.County, addr.Municipality, addr.Town),
		City:        firstNonEmpty(addr.City, addr.State),
		Province:    firstNonEmpty(addr.State, addr.Province),
		Country:     addr.Country,
		Confidence:  nominatimConfidence(addr),
	}

	return newResult(np.Name(), detailed, lat, lng), nil
}

// nominatimConfidence computes the initial confidence from the completeness
// of the fine-grained components: 0.5 base, +0.2 house number, +0.2 road,
// +0.1 ward-level match, capped at 1.0.
func nominatimConfidence(addr nominatimAddress) float64 {
	confidence := 0.5
	if addr.HouseNumber != "" {
		confidence += 0.2
	}
	if addr.Road != "" {
		confidence += 0.2
	}
	if addr.Suburb != "" || addr.Neighbourhood != "" {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
