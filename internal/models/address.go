package models

// Default labels used when a provider could not resolve the administrative
// subdivision of an address.
const (
	DefaultDistrict = "Không xác định"
	DefaultCity     = "Việt Nam"
)

// FallbackProvider is the provider name reported on synthesized results.
const FallbackProvider = "Fallback"

// DetailedAddress holds the individual components of a resolved address.
// All components are optional; Formatted is the display string derived from
// them and must be regenerated whenever a component changes.
type DetailedAddress struct {
	HouseNumber string  `json:"houseNumber,omitempty"`
	Street      string  `json:"street,omitempty"`
	Ward        string  `json:"ward,omitempty"`
	District    string  `json:"district,omitempty"`
	City        string  `json:"city,omitempty"`
	Province    string  `json:"province,omitempty"`
	Country     string  `json:"country,omitempty"`
	Formatted   string  `json:"formatted"`
	Confidence  float64 `json:"confidence"`
}

// GeocodingResult is the outcome of a reverse-geocoding request, either from
// a single provider or merged from several. Success is false only on
// synthesized fallback results.
type GeocodingResult struct {
	Success     bool            `json:"success"`
	Address     string          `json:"address"` // Mirrors Detailed.Formatted.
	Detailed    DetailedAddress `json:"detailedAddress"`
	District    string          `json:"district"` // Detailed.District or DefaultDistrict.
	City        string          `json:"city"`     // Detailed.City or DefaultCity.
	Coordinates Coordinates     `json:"coordinates"`
	Provider    string          `json:"provider"`
	Confidence  float64         `json:"confidence"`
}
