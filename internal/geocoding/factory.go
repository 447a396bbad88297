package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of reverse-geocoding provider.
type ProviderType string

const (
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypePhoton represents the komoot Photon geocoding provider.
	ProviderTypePhoton ProviderType = "photon"
	// ProviderTypeLocationIQ represents the LocationIQ geocoding provider.
	ProviderTypeLocationIQ ProviderType = "locationiq"
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
)

// ProviderConfig holds configuration for creating a reverse-geocoding provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (used by LocationIQ and Google providers)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// defaultRateLimit is applied when a provider config leaves RateLimit unset.
const defaultRateLimit = 5

// NewProvider creates a reverse-geocoding provider based on the provided
// configuration. It applies the Factory pattern to decouple provider
// instantiation from business logic.
//
// Supported provider types:
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
// - "photon": komoot Photon API (free, no API key required)
// - "locationiq": LocationIQ API (requires API key)
// - "google": Google Maps Geocoding API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeNominatim:
		// Nominatim fair-use policy caps anonymous clients at 1 req/s,
		// regardless of the configured rate limit.
		return NewNominatimProvider(config.Logger), nil
	case ProviderTypePhoton:
		return NewPhotonProvider(rateLimitOrDefault(config), config.Logger), nil
	case ProviderTypeLocationIQ:
		if config.APIKey == "" {
			return nil, errors.New("API key is required for LocationIQ provider")
		}
		return NewLocationIQProvider(config.APIKey, rateLimitOrDefault(config), config.Logger), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// NewRegistry builds the ordered provider list the orchestrator fans out to.
// Order is preserved: it is the tie-break for equally scored results.
func NewRegistry(configs []ProviderConfig) ([]Provider, error) {
	providers := make([]Provider, 0, len(configs))
	for _, config := range configs {
		provider, err := NewProvider(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider %q: %w", config.Type, err)
		}
		providers = append(providers, provider)
	}
	if len(providers) == 0 {
		return nil, errors.New("no geocoding providers configured")
	}
	return providers, nil
}

// newGoogleProvider creates a Google Maps reverse-geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

func rateLimitOrDefault(config ProviderConfig) int {
	if config.RateLimit > 0 {
		return config.RateLimit
	}
	return defaultRateLimit
}
