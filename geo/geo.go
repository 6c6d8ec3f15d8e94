// Package geo holds the small amount of spherical geometry gpxannotate needs.
package geo

import (
	"fmt"
	"math"
)

// Distance returns the great-circle distance in meters between two
// latitude/longitude pairs given in degrees, using the haversine formula on
// a spherical earth (R = 6371 km). Inputs outside geographic ranges are not
// rejected; they simply produce the corresponding numeric result.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := (lat2 - lat1) * math.Pi / 180
	Δλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*
			math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// FormatDistance renders meters as "123.45 m" below one kilometer and as
// "1.23 km" from there on. The decimal point is locale-independent.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return fmt.Sprintf("%.2f m", meters)
}
