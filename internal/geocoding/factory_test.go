package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create Nominatim provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeNominatim,
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		// Verify it's a NominatimProvider by type assertion
		_, ok := provider.(*geocoding.NominatimProvider)
		assert.True(t, ok, "expected provider to be *NominatimProvider")
	})

	t.Run("create Photon provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:      geocoding.ProviderTypePhoton,
			RateLimit: 10,
			Logger:    logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		_, ok := provider.(*geocoding.PhotonProvider)
		assert.True(t, ok, "expected provider to be *PhotonProvider")
	})

	t.Run("create LocationIQ provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeLocationIQ,
			APIKey: "test-api-key",
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		_, ok := provider.(*geocoding.LocationIQProvider)
		assert.True(t, ok, "expected provider to be *LocationIQProvider")
	})

	t.Run("create LocationIQ provider without API key fails", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeLocationIQ,
			APIKey: "",
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "API key is required for LocationIQ provider")
	})

	t.Run("create Google provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:      geocoding.ProviderTypeGoogle,
			APIKey:    "test-api-key",
			RateLimit: 10,
			Logger:    logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		_, ok := provider.(*geocoding.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("create Google provider without API key fails", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeGoogle,
			APIKey: "",
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "API key is required for Google provider")
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderType("unsupported"),
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type: unsupported")
	})
}

func TestNewRegistry(t *testing.T) {
	logger := slog.Default()

	t.Run("registry preserves order", func(t *testing.T) {
		providers, err := geocoding.NewRegistry([]geocoding.ProviderConfig{
			{Type: geocoding.ProviderTypeNominatim, Logger: logger},
			{Type: geocoding.ProviderTypePhoton, Logger: logger},
			{Type: geocoding.ProviderTypeLocationIQ, APIKey: "demo", Logger: logger},
		})

		require.NoError(t, err)
		require.Len(t, providers, 3)
		assert.Equal(t, "Nominatim", providers[0].Name())
		assert.Equal(t, "Photon", providers[1].Name())
		assert.Equal(t, "LocationIQ", providers[2].Name())
	})

	t.Run("registry fails on invalid provider", func(t *testing.T) {
		providers, err := geocoding.NewRegistry([]geocoding.ProviderConfig{
			{Type: geocoding.ProviderTypeNominatim, Logger: logger},
			{Type: geocoding.ProviderType("bogus"), Logger: logger},
		})

		require.Error(t, err)
		require.Nil(t, providers)
		assert.Contains(t, err.Error(), `failed to create provider "bogus"`)
	})

	t.Run("empty registry fails", func(t *testing.T) {
		providers, err := geocoding.NewRegistry(nil)

		require.Error(t, err)
		require.Nil(t, providers)
		assert.Contains(t, err.Error(), "no geocoding providers configured")
	})
}

func TestProviderType_Constants(t *testing.T) {
	// Verify that provider type constants are correctly defined
	assert.Equal(t, "nominatim", string(geocoding.ProviderTypeNominatim))
	assert.Equal(t, "photon", string(geocoding.ProviderTypePhoton))
	assert.Equal(t, "locationiq", string(geocoding.ProviderTypeLocationIQ))
	assert.Equal(t, "google", string(geocoding.ProviderTypeGoogle))
}
