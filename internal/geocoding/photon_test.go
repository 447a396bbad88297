package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotonProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "photon.komoot.io")
				assert.Equal(t, "21.028700", req.URL.Query().Get("lat"))
				assert.Equal(t, "105.852200", req.URL.Query().Get("lon"))
				assert.Equal(t, "vi", req.URL.Query().Get("lang"))

				responseBody := `{
					"features": [{
						"properties": {
							"housenumber": "12",
							"street": "Hàng Bài",
							"district": "Phường Hàng Bài",
							"city": "Quận Hoàn Kiếm",
							"state": "Hà Nội",
							"country": "Việt Nam"
						}
					}]
				}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Success)
		assert.Equal(t, "Photon", result.Provider)
		assert.Equal(t, "12", result.Detailed.HouseNumber)
		assert.Equal(t, "Hàng Bài", result.Detailed.Street)
		// Photon levels are shifted: district -> ward, city -> district, state -> city.
		assert.Equal(t, "Phường Hàng Bài", result.Detailed.Ward)
		assert.Equal(t, "Quận Hoàn Kiếm", result.District)
		assert.Equal(t, "Hà Nội", result.City)
		assert.InEpsilon(t, 0.7, result.Confidence, 0.0001)
	})

	t.Run("suburb and county fill missing levels", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{
					"features": [{
						"properties": {
							"suburb": "Hàng Trống",
							"county": "Hoàn Kiếm"
						}
					}]
				}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.NoError(t, err)
		assert.Equal(t, "Hàng Trống", result.Detailed.Ward)
		assert.Equal(t, "Hoàn Kiếm", result.Detailed.District)
	})

	t.Run("empty features", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`{"features": []}`)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.Error(t, err)
		require.Nil(t, result)
		assert.ErrorIs(t, err, geocoding.ErrPhotonEmptyResponse)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusBadGateway,
					Body:       io.NopCloser(bytes.NewBufferString(`upstream error`)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.Error(t, err)
		require.Nil(t, result)
		assert.Contains(t, err.Error(), "photon API returned status 502")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`not json`)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.Error(t, err)
		require.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to decode photon response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, unlimited(), logger)
		result, err := provider.ReverseGeocode(ctx, 21.0287, 105.8522)

		require.Error(t, err)
		require.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to execute reverse geocoding request")
	})
}
