package geocoding

import (
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// FormatAddress renders a detailed address into a single Vietnamese display
// string. Components are assembled in the order house number, street, ward,
// district, city; absent components are skipped, and the city is skipped
// when it duplicates the district. Street and ward names that lack a
// Vietnamese road/ward type token get one prefixed.
func FormatAddress(addr models.DetailedAddress) string {
	parts := make([]string, 0, 5)

	if addr.HouseNumber != "" {
		parts = append(parts, addr.HouseNumber)
	}
	if addr.Street != "" {
		parts = append(parts, normalizeStreet(addr.Street))
	}
	if addr.Ward != "" {
		parts = append(parts, normalizeWard(addr.Ward))
	}
	if addr.District != "" {
		parts = append(parts, addr.District)
	}
	if addr.City != "" && addr.City != addr.District {
		parts = append(parts, addr.City)
	}

	return strings.Join(parts, ", ")
}

// normalizeStreet prefixes the street with "Phố " unless it already carries
// a road-type token ("phố" or "đường").
func normalizeStreet(street string) string {
	lower := strings.ToLower(street)
	if strings.Contains(lower, "phố") || strings.Contains(lower, "đường") {
		return street
	}
	return "Phố " + street
}

// normalizeWard prefixes the ward with "Phường " unless it already carries
// a ward-type token ("phường" or "xã").
func normalizeWard(ward string) string {
	lower := strings.ToLower(ward)
	if strings.Contains(lower, "phường") || strings.Contains(lower, "xã") {
		return ward
	}
	return "Phường " + ward
}

// newResult assembles a provider result from a parsed detailed address.
// The formatted string is regenerated, and district/city fall back to the
// default labels when the provider returned none.
func newResult(provider string, detailed models.DetailedAddress, lat, lng float64) *models.GeocodingResult {
	detailed.Formatted = FormatAddress(detailed)

	district := detailed.District
	if district == "" {
		district = models.DefaultDistrict
	}
	city := detailed.City
	if city == "" {
		city = models.DefaultCity
	}

	return &models.GeocodingResult{
		Success:     true,
		Address:     detailed.Formatted,
		Detailed:    detailed,
		District:    district,
		City:        city,
		Coordinates: models.Coordinates{Latitude: lat, Longitude: lng},
		Provider:    provider,
		Confidence:  detailed.Confidence,
	}
}

// firstNonEmpty returns the first non-empty string among the candidates.
// Providers name equivalent address concepts differently, so parsers probe
// several response fields in preference order.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
