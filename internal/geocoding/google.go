package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"googlemaps.github.io/maps"
)

// googleConfidence is the fixed confidence assigned to Google results.
// The commercial API is the most accurate of the registered providers.
const googleConfidence = 0.9

// GoogleProvider implements reverse geocoding using the Google Maps
// Geocoding API. It is optional and only registered when an API key is
// configured.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of the Google Maps client used by the
// provider, extracted for mocking in tests.
type GoogleAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrGoogleEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrGoogleEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Name returns the provider name used for ranking and metrics labels.
func (gp *GoogleProvider) Name() string { return "Google" }

// ReverseGeocode converts coordinates into an address using the Google Maps
// Geocoding API, requesting Vietnamese-language results. Components are
// mapped from Google place types onto the common address shape.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.GeocodingResult, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "lat", lat, "lng", lng)

	req := maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: "vi",
	}
	response, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode coordinates: %w", err)
	}

	if len(response) == 0 {
		return nil, ErrGoogleEmptyResponse
	}

	detailed := parseGoogleComponents(response[0].AddressComponents)
	detailed.Confidence = googleConfidence

	return newResult(gp.Name(), detailed, lat, lng), nil
}

// parseGoogleComponents maps Google address component types onto the common
// detailed address shape.
func parseGoogleComponents(components []maps.AddressComponent) models.DetailedAddress {
	var detailed models.DetailedAddress

	for _, component := range components {
		for _, ctype := range component.Types {
			switch ctype {
			case "street_number":
				detailed.HouseNumber = component.LongName
			case "route":
				detailed.Street = component.LongName
			case "sublocality", "sublocality_level_1", "neighborhood":
				if detailed.Ward == "" {
					detailed.Ward = component.LongName
				}
			case "administrative_area_level_2":
				detailed.District = component.LongName
			case "locality":
				detailed.City = component.LongName
			case "administrative_area_level_1":
				detailed.Province = component.LongName
				if detailed.City == "" {
					detailed.City = component.LongName
				}
			case "country":
				detailed.Country = component.LongName
			}
		}
	}

	return detailed
}
