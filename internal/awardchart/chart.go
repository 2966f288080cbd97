// Package awardchart holds distance-banded award pricing tables and the
// registry that makes them addressable by name.
package awardchart

import (
	"math"
	"strings"
)

// CabinClass identifies a fare cabin.
type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// LookupCabinClass maps a cabin class string to its CabinClass, reporting
// whether the value is known. Chart files must use known cabins only.
func LookupCabinClass(s string) (CabinClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy":
		return CabinEconomy, true
	case "premium_economy", "premium economy":
		return CabinPremiumEconomy, true
	case "business":
		return CabinBusiness, true
	case "first":
		return CabinFirst, true
	}
	return "", false
}

// ParseCabinClass normalizes a cabin class string. Unknown values fall back
// to economy, matching upstream sources that only distinguish paid cabins.
func ParseCabinClass(s string) CabinClass {
	if c, ok := LookupCabinClass(s); ok {
		return c
	}
	return CabinEconomy
}

// Rating is a deal quality rating with a total order:
// EXCEPTIONAL > GREAT > GOOD > FAIR > POOR.
type Rating int

const (
	RatingPoor Rating = iota
	RatingFair
	RatingGood
	RatingGreat
	RatingExceptional
)

func (r Rating) String() string {
	switch r {
	case RatingExceptional:
		return "exceptional"
	case RatingGreat:
		return "great"
	case RatingGood:
		return "good"
	case RatingFair:
		return "fair"
	default:
		return "poor"
	}
}

// AtLeast reports whether r is at or above min in quality.
func (r Rating) AtLeast(min Rating) bool {
	return r >= min
}

// ParseRating maps a configuration string to a Rating.
func ParseRating(s string) (Rating, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exceptional":
		return RatingExceptional, true
	case "great":
		return RatingGreat, true
	case "good":
		return RatingGood, true
	case "fair":
		return RatingFair, true
	case "poor":
		return RatingPoor, true
	}
	return RatingPoor, false
}

// PointRange is the expected point cost interval for one cabin in one band.
type PointRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DistanceBand is one contiguous distance interval within a chart.
// MinMiles is inclusive, MaxMiles exclusive; the top band uses +Inf.
type DistanceBand struct {
	MinMiles float64
	MaxMiles float64
	Ranges   map[CabinClass]PointRange
}

// Unbounded reports whether the band's upper bound is the +Inf sentinel.
func (b DistanceBand) Unbounded() bool {
	return math.IsInf(b.MaxMiles, 1)
}

// Contains reports whether a distance falls within the band.
func (b DistanceBand) Contains(distance float64) bool {
	return distance >= b.MinMiles && distance < b.MaxMiles
}

// Range returns the expected point range for a cabin class.
func (b DistanceBand) Range(cabin CabinClass) (PointRange, bool) {
	r, ok := b.Ranges[cabin]
	return r, ok
}

// Chart is a named award chart: an ordered sequence of distance bands
// covering [0, +Inf). Charts are immutable once registered.
type Chart struct {
	Name  string
	Bands []DistanceBand
}

// Band resolves the distance band containing the given distance.
func (c Chart) Band(distance float64) (DistanceBand, bool) {
	for _, b := range c.Bands {
		if b.Contains(distance) {
			return b, true
		}
	}
	return DistanceBand{}, false
}
