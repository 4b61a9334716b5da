package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultPoint is used whenever a profile has not shared a location (Istanbul city centre).
var DefaultPoint = Point{Lat: 41.0082, Lon: 28.9784}

// PointOrDefault returns the given coordinates, or DefaultPoint if either one is missing.
func PointOrDefault(lat, lon *float64) Point {
	if lat == nil || lon == nil {
		return DefaultPoint
	}
	return Point{Lat: *lat, Lon: *lon}
}

// DistanceKm returns the great-circle distance between two coordinates in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	// rounding can push a slightly outside [0, 1] near antipodes
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Distance is DistanceKm over points.
func Distance(from, to Point) float64 {
	return DistanceKm(from.Lat, from.Lon, to.Lat, to.Lon)
}

// WithinRadius reports whether candidate lies no further than radiusKm from origin.
func WithinRadius(candidate, origin Point, radiusKm float64) bool {
	return Distance(origin, candidate) <= radiusKm
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
