package ownkml

import "math"

// EarthRadiusKm is the mean earth radius used for all derived metrics
const EarthRadiusKm = 6371

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Distance returns the great-circle (haversine) distance between two points, in km
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	sinHalfDeltaLat := math.Sin(deltaLat / 2)
	sinHalfDeltaLon := math.Sin(deltaLon / 2)

	a := sinHalfDeltaLat*sinHalfDeltaLat +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*sinHalfDeltaLon*sinHalfDeltaLon

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// LineLength sums the distance between each consecutive pair of coordinates, in km
func LineLength(coordinates []Coordinate) float64 {
	var total float64
	for i := 1; i < len(coordinates); i++ {
		previous := coordinates[i-1]
		current := coordinates[i]
		total += Distance(previous.Lat, previous.Lon, current.Lat, current.Lon)
	}

	return total
}

// PolygonArea approximates the area enclosed by a ring on a sphere, in km².
// The ring is closed implicitly (last vertex to first). Fewer than 3 vertices have no area.
func PolygonArea(ring []Coordinate) float64 {
	if len(ring) < 3 {
		return 0
	}

	var sum float64
	for i := range ring {
		p1 := ring[i]
		p2 := ring[(i+1)%len(ring)]

		sum += degreesToRadians(p2.Lon-p1.Lon) *
			(2 + math.Sin(degreesToRadians(p1.Lat)) + math.Sin(degreesToRadians(p2.Lat)))
	}

	return math.Abs(sum) * EarthRadiusKm * EarthRadiusKm / 2
}
