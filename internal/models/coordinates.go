package models

import "fmt"

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point, range [-90, 90].
	Longitude float64 `json:"lng"` // Longitude of the geographical point, range [-180, 180].
}

// Key returns the cache key for the coordinates, rounded to six decimal
// places (roughly 0.11m of precision). Two points that round to the same
// key are treated as the same location.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Valid reports whether the coordinates fall within the valid WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
