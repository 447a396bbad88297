package service

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// fallbackCity is the fixed city label on synthesized results.
const fallbackCity = "Hà Nội"

// fallbackConfidence marks synthesized results so callers can prompt the
// user for manual correction.
const fallbackConfidence = 0.3

// earthRadiusKm is the Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// boundingBox is an approximate rectangular lat/lng envelope of a district.
type boundingBox struct {
	north, south, east, west float64
}

func (b boundingBox) contains(lat, lng float64) bool {
	return lat >= b.south && lat <= b.north && lng >= b.west && lng <= b.east
}

// hanoiDistrict pairs a district name with its center point and envelope.
type hanoiDistrict struct {
	name     string
	lat, lng float64
	bounds   boundingBox
}

// hanoiDistricts is the fixed district-boundary table used when every
// provider fails. Envelopes overlap; the first match wins, so the order is
// part of the contract.
var hanoiDistricts = []hanoiDistrict{
	{"Quận Ba Đình", 21.0337, 105.814, boundingBox{21.045, 21.02, 105.83, 105.8}},
	{"Quận Hoàn Kiếm", 21.0287, 105.8522, boundingBox{21.04, 21.015, 105.865, 105.84}},
	{"Quận Tây Hồ", 21.0712, 105.823, boundingBox{21.09, 21.05, 105.84, 105.8}},
	{"Quận Long Biên", 21.0501, 105.8868, boundingBox{21.07, 21.03, 105.91, 105.86}},
	{"Quận Cầu Giấy", 21.0359, 105.7946, boundingBox{21.055, 21.015, 105.815, 105.775}},
	{"Quận Đống Đa", 21.0141, 105.8302, boundingBox{21.035, 20.995, 105.85, 105.81}},
	{"Quận Hai Bà Trưng", 21.0094, 105.8516, boundingBox{21.03, 20.99, 105.875, 105.83}},
	{"Quận Hoàng Mai", 20.9804, 105.8573, boundingBox{21.0, 20.96, 105.88, 105.835}},
	{"Quận Thanh Xuân", 20.9961, 105.8054, boundingBox{21.015, 20.975, 105.825, 105.785}},
	{"Quận Bắc Từ Liêm", 21.052, 105.765, boundingBox{21.08, 21.025, 105.79, 105.74}},
	{"Quận Nam Từ Liêm", 21.013, 105.758, boundingBox{21.04, 20.985, 105.785, 105.73}},
	{"Quận Hà Đông", 20.972, 105.769, boundingBox{21.0, 20.945, 105.795, 105.74}},
}

// fallbackStreets are common Hanoi street names used for the synthetic
// street component. Display only, never authoritative.
var fallbackStreets = []string{
	"Phố Trần Hưng Đạo", "Phố Lê Duẩn", "Phố Điện Biên Phủ", "Phố Nguyễn Huệ",
	"Phố Lý Thường Kiệt", "Phố Phan Đình Phùng", "Phố Nguyễn Thái Học", "Phố Bà Triệu",
	"Phố Hàng Bài", "Phố Tràng Tiền", "Phố Hàng Đào", "Phố Hàng Bông",
	"Phố Hàng Gai", "Phố Huế", "Phố Lê Thái Tổ", "Phố Hàng Khay",
	"Phố Tràng Thi", "Phố Hàng Trống", "Phố Láng", "Phố Giải Phóng",
	"Phố Nguyễn Trãi", "Phố Cầu Giấy", "Phố Kim Mã", "Phố Thái Hà",
}

// fallbackWardsByDistrict maps district names to real ward names within
// them, for more believable synthetic addresses.
var fallbackWardsByDistrict = map[string][]string{
	"Quận Ba Đình":      {"Phường Phúc Xá", "Phường Trúc Bạch", "Phường Vĩnh Phúc", "Phường Cống Vị", "Phường Liễu Giai"},
	"Quận Hoàn Kiếm":    {"Phường Phan Chu Trinh", "Phường Hàng Trống", "Phường Tràng Tiền", "Phường Hàng Bài", "Phường Cửa Nam"},
	"Quận Tây Hồ":       {"Phường Phú Thượng", "Phường Nhật Tân", "Phường Tứ Liên", "Phường Quảng An", "Phường Xuân La"},
	"Quận Long Biên":    {"Phường Thượng Thanh", "Phường Ngọc Lâm", "Phường Gia Thụy", "Phường Ngọc Thụy", "Phường Sài Đồng"},
	"Quận Cầu Giấy":     {"Phường Nghĩa Đô", "Phường Nghĩa Tân", "Phường Mai Dịch", "Phường Dịch Vọng", "Phường Quan Hoa"},
	"Quận Đống Đa":      {"Phường Cát Linh", "Phường Văn Miếu", "Phường Quốc Tử Giám", "Phường Láng Thượng", "Phường Ô Chợ Dừa"},
	"Quận Hai Bà Trưng": {"Phường Nguyễn Du", "Phường Bạch Đằng", "Phường Phạm Đình Hổ", "Phường Lê Đại Hành", "Phường Đống Mác"},
	"Quận Hoàng Mai":    {"Phường Hoàng Văn Thụ", "Phường Hoàng Liệt", "Phường Tân Mai", "Phường Vĩnh Hưng", "Phường Đại Kim"},
	"Quận Thanh Xuân":   {"Phường Nhân Chính", "Phường Thượng Đình", "Phường Khương Trung", "Phường Khương Mai", "Phường Thanh Xuân Bắc"},
}

// fallbackDefaultWards is used for districts without a ward list.
var fallbackDefaultWards = []string{"Phường Trung Tâm", "Phường An Bình", "Phường Thành Công"}

// fallbackResult synthesizes a best-effort address when no provider yields
// usable data. District resolution is deterministic; the street, ward and
// house number are randomized and illustrative only.
func fallbackResult(lat, lng float64) *models.GeocodingResult {
	district := guessDistrict(lat, lng)

	wards, ok := fallbackWardsByDistrict[district]
	if !ok {
		wards = fallbackDefaultWards
	}

	detailed := models.DetailedAddress{
		HouseNumber: strconv.Itoa(rand.IntN(200) + 1),
		Street:      fallbackStreets[rand.IntN(len(fallbackStreets))],
		Ward:        wards[rand.IntN(len(wards))],
		District:    district,
		City:        fallbackCity,
		Confidence:  fallbackConfidence,
	}
	detailed.Formatted = geocoding.FormatAddress(detailed)

	return &models.GeocodingResult{
		Success:     false,
		Address:     detailed.Formatted,
		Detailed:    detailed,
		District:    district,
		City:        fallbackCity,
		Coordinates: models.Coordinates{Latitude: lat, Longitude: lng},
		Provider:    models.FallbackProvider,
		Confidence:  fallbackConfidence,
	}
}

// guessDistrict resolves the district for a point: the first district whose
// bounding box contains it, otherwise the district with the nearest center
// by great-circle distance.
func guessDistrict(lat, lng float64) string {
	for _, district := range hanoiDistricts {
		if district.bounds.contains(lat, lng) {
			return district.name
		}
	}

	nearest := hanoiDistricts[0]
	minDistance := haversine(lat, lng, nearest.lat, nearest.lng)
	for _, district := range hanoiDistricts[1:] {
		if distance := haversine(lat, lng, district.lat, district.lng); distance < minDistance {
			minDistance = distance
			nearest = district
		}
	}

	return nearest.name
}

// haversine returns the great-circle distance between two points in
// kilometers.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLng := degToRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
