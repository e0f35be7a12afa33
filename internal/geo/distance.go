package geo

import "math"

// earthRadiusMiles is the great-circle radius used for distance math.
const earthRadiusMiles = 3956

// Distance returns the great-circle distance in miles between two points
// using the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlng1 := lng1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlng2 := lng2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlng := rlng2 - rlng1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusMiles
}

// WithinRadius reports whether the two points are at most radiusMiles
// apart. The boundary is inclusive.
func WithinRadius(lat1, lng1, lat2, lng2, radiusMiles float64) bool {
	return Distance(lat1, lng1, lat2, lng2) <= radiusMiles
}
