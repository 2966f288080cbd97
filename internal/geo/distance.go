// Package geo computes great-circle distances between airports from a static
// coordinate table.
package geo

import (
	"math"
	"strings"

	"award-monitor/internal/common/errors"
)

// earthRadiusMiles is the mean earth radius in statute miles.
const earthRadiusMiles = 3958.8

// Lookup returns the coordinates for an IATA code.
func Lookup(code string) (Coordinate, bool) {
	c, ok := airportCoordinates[strings.ToUpper(code)]
	return c, ok
}

// Known reports whether an airport code is present in the coordinate table.
func Known(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Distance returns the great-circle distance in statute miles between two
// airports. An unknown code is an error, never a silent zero: a zero distance
// would corrupt award chart band lookup downstream.
func Distance(codeA, codeB string) (float64, error) {
	a, ok := Lookup(codeA)
	if !ok {
		return 0, errors.NewUnknownAirportError(codeA)
	}
	b, ok := Lookup(codeB)
	if !ok {
		return 0, errors.NewUnknownAirportError(codeB)
	}
	if strings.EqualFold(codeA, codeB) {
		return 0, nil
	}
	return haversine(a.Lat, a.Lon, b.Lat, b.Lon), nil
}

// haversine computes the great-circle distance on a spherical earth.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}
