package service

import (
	"math"
	"strconv"
	"strings"
)

// Average city speed assumed when deriving ETA from distance.
const avgSpeedKmh = 30.0

// HaversineDistance calculates the great-circle distance in km between
// two points on Earth.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371 // km

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// EtaMinutes derives an ETA from a distance at city speed, floored at one
// minute for any non-zero distance.
func EtaMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	mins := int(math.Round(distanceKm / avgSpeedKmh * 60))
	if mins < 1 {
		mins = 1
	}
	return mins
}

// ParseCoordinates parses a "lat,lon" encoded location string. Free-text
// locations return ok=false.
func ParseCoordinates(location string) (lat, lng float64, ok bool) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}

	return lat, lng, true
}
