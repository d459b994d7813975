// Package geo provides geographic coordinate types and great-circle
// distance computation. It is a pure leaf package with no I/O.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees (WGS 84).
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point is a usable coordinate:
// -90 <= Lat <= 90, -180 <= Lon <= 180, and neither component is NaN.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceKm returns the great-circle distance between a and b in
// kilometers, computed with the haversine formula on a sphere of radius
// 6371 km.
//
// DistanceKm does not validate its input. NaN components propagate to a
// NaN result and out-of-range coordinates produce a meaningless value;
// callers are expected to gate input with Point.Valid.
func DistanceKm(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
