package geospatial

import "math"

const (
	EarthRadiusKm = 6371.0
	milesPerKm    = 0.621371
)

// HaversineKm calculates the great-circle distance in kilometres between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// KmToMiles converts kilometres to statute miles.
func KmToMiles(km float64) float64 {
	return km * milesPerKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
