package geocoding_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

// mockGoogleClient is a mock implementation of GoogleAPIClient for testing.
type mockGoogleClient struct {
	reverseFunc func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

func (m *mockGoogleClient) ReverseGeocode(
	ctx context.Context,
	r *maps.GeocodingRequest,
) ([]maps.GeocodingResult, error) {
	return m.reverseFunc(ctx, r)
}

func TestGoogleProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			reverseFunc: func(_ context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				require.NotNil(t, r.LatLng)
				assert.InEpsilon(t, 21.0287, r.LatLng.Lat, 0.0001)
				assert.InEpsilon(t, 105.8522, r.LatLng.Lng, 0.0001)
				assert.Equal(t, "vi", r.Language)

				return []maps.GeocodingResult{{
					AddressComponents: []maps.AddressComponent{
						{LongName: "15", Types: []string{"street_number"}},
						{LongName: "Hàng Khay", Types: []string{"route"}},
						{LongName: "Tràng Tiền", Types: []string{"sublocality_level_1", "sublocality"}},
						{LongName: "Hoàn Kiếm", Types: []string{"administrative_area_level_2"}},
						{LongName: "Hà Nội", Types: []string{"locality"}},
						{LongName: "Việt Nam", Types: []string{"country"}},
					},
				}}, nil
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "Google", result.Provider)
		assert.Equal(t, "15", result.Detailed.HouseNumber)
		assert.Equal(t, "Hàng Khay", result.Detailed.Street)
		assert.Equal(t, "Tràng Tiền", result.Detailed.Ward)
		assert.Equal(t, "Hoàn Kiếm", result.District)
		assert.Equal(t, "Hà Nội", result.City)
		assert.Equal(t, "Việt Nam", result.Detailed.Country)
		assert.InEpsilon(t, 0.9, result.Confidence, 0.0001)
	})

	t.Run("province fills missing city", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			reverseFunc: func(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return []maps.GeocodingResult{{
					AddressComponents: []maps.AddressComponent{
						{LongName: "Hà Nội", Types: []string{"administrative_area_level_1"}},
					},
				}}, nil
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.NoError(t, err)
		assert.Equal(t, "Hà Nội", result.Detailed.City)
		assert.Equal(t, "Hà Nội", result.Detailed.Province)
	})

	t.Run("empty response", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			reverseFunc: func(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return nil, nil
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.Error(t, err)
		require.Nil(t, result)
		assert.ErrorIs(t, err, geocoding.ErrGoogleEmptyResponse)
	})

	t.Run("client returns error", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			reverseFunc: func(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.Error(t, err)
		require.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to reverse geocode coordinates")
	})
}
