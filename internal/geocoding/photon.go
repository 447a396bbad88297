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

// PhotonBaseURL -- komoot Photon reverse-geocoding endpoint.
const PhotonBaseURL = "https://photon.komoot.io/reverse"

// photonConfidence is the fixed confidence assigned to Photon results.
// Photon returns coarser data than Nominatim, so the score is constant
// rather than completeness-based.
const photonConfidence = 0.7

// PhotonProvider implements reverse geocoding using the free Photon API.
type PhotonProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Photon API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// Common errors for Photon provider.
var ErrPhotonEmptyResponse = errors.New("photon API returned no features")

// Photon API response (GeoJSON feature collection, simplified).
type photonResponse struct {
	Features []struct {
		Properties photonProperties `json:"properties"`
	} `json:"features"`
}

type photonProperties struct {
	HouseNumber string `json:"housenumber"`
	Street      string `json:"street"`
	District    string `json:"district"`
	Suburb      string `json:"suburb"`
	City        string `json:"city"`
	County      string `json:"county"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// NewPhotonProvider creates a new Photon reverse-geocoding provider.
func NewPhotonProvider(rateLimit int, log *slog.Logger) *PhotonProvider {
	const timeout = 10

	return NewPhotonProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewPhotonProviderWithClient allows injecting custom HTTP client.
func NewPhotonProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *PhotonProvider {
	return &PhotonProvider{
		client:  client,
		baseURL: PhotonBaseURL,
		log:     log,
		limiter: limiter,
	}
}

// Name returns the provider name used for ranking and metrics labels.
func (pp *PhotonProvider) Name() string { return "Photon" }

// ReverseGeocode converts coordinates into an address using the Photon API.
// Photon names administrative levels one step coarser than Nominatim: its
// "district" maps to our ward and its "city" to our district.
func (pp *PhotonProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.GeocodingResult, error) {
	if err := pp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Reverse geocoding using Photon", "lat", lat, "lng", lng)

	reqURL, err := url.Parse(pp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lng))
	query.Set("lang", "vi")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		pp.log.ErrorContext(ctx, "Photon API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("photon API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	pp.log.DebugContext(ctx, "Photon raw response", "body", string(body))

	var result photonResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode photon response: %w", err)
	}

	if len(result.Features) == 0 {
		return nil, ErrPhotonEmptyResponse
	}

	props := result.Features[0].Properties
	detailed := models.DetailedAddress{
		HouseNumber: props.HouseNumber,
		Street:      props.Street,
		Ward:        firstNonEmpty(props.District, props.Suburb),
		District:    firstNonEmpty(props.City, props.County),
		City:        props.State,
		Country:     props.Country,
		Confidence:  photonConfidence,
	}

	return newResult(pp.Name(), detailed, lat, lng), nil
}
