package geocoding_test

import (
	"testing"

	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatAddress(t *testing.T) {
	t.Run("full address in display order", func(t *testing.T) {
		addr := models.DetailedAddress{
			HouseNumber: "25",
			Street:      "Phố Huế",
			Ward:        "Phường Hàng Bài",
			District:    "Quận Hoàn Kiếm",
			City:        "Hà Nội",
		}

		formatted := geocoding.FormatAddress(addr)

		assert.Equal(t, "25, Phố Huế, Phường Hàng Bài, Quận Hoàn Kiếm, Hà Nội", formatted)
	})

	t.Run("ward without type token gets prefixed", func(t *testing.T) {
		formatted := geocoding.FormatAddress(models.DetailedAddress{Ward: "Ba Đình"})

		assert.Equal(t, "Phường Ba Đình", formatted)
	})

	t.Run("ward with type token is unchanged", func(t *testing.T) {
		formatted := geocoding.FormatAddress(models.DetailedAddress{Ward: "Phường Ba Đình"})

		assert.Equal(t, "Phường Ba Đình", formatted)
	})

	t.Run("commune ward is unchanged", func(t *testing.T) {
		formatted := geocoding.FormatAddress(models.DetailedAddress{Ward: "Xã Đông Anh"})

		assert.Equal(t, "Xã Đông Anh", formatted)
	})

	t.Run("street without road token gets prefixed", func(t *testing.T) {
		formatted := geocoding.FormatAddress(models.DetailedAddress{Street: "Tràng Tiền"})

		assert.Equal(t, "Phố Tràng Tiền", formatted)
	})

	t.Run("street named duong is unchanged", func(t *testing.T) {
		formatted := geocoding.FormatAddress(models.DetailedAddress{Street: "Đường Láng"})

		assert.Equal(t, "Đường Láng", formatted)
	})

	t.Run("city equal to district is skipped", func(t *testing.T) {
		addr := models.DetailedAddress{
			District: "Hà Nội",
			City:     "Hà Nội",
		}

		formatted := geocoding.FormatAddress(addr)

		assert.Equal(t, "Hà Nội", formatted)
	})

	t.Run("empty address yields empty string", func(t *testing.T) {
		assert.Empty(t, geocoding.FormatAddress(models.DetailedAddress{}))
	})

	t.Run("absent fields are skipped", func(t *testing.T) {
		addr := models.DetailedAddress{
			Street: "Phố Lê Duẩn",
			City:   "Hà Nội",
		}

		formatted := geocoding.FormatAddress(addr)

		assert.Equal(t, "Phố Lê Duẩn, Hà Nội", formatted)
	})
}
