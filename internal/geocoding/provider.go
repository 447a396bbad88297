package geocoding

import (
	"context"
	"net/http"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// Provider is the contract implemented by every reverse-geocoding backend.
// ReverseGeocode converts a coordinate pair into an address-bearing result.
// A provider that cannot resolve the coordinates returns an error; the
// caller treats any error as "this provider abstained" and never surfaces
// it to the end user.
type Provider interface {
	Name() string
	ReverseGeocode(ctx context.Context, lat, lng float64) (*models.GeocodingResult, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
