// Package models holds the flight offer types shared by the search,
// evaluation, and notification layers.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"award-monitor/internal/awardchart"
)

// SourceKind distinguishes the two tiers of flight data.
type SourceKind string

const (
	// SourceFast is a quick, API-backed screen with estimated award pricing.
	SourceFast SourceKind = "fast"
	// SourceAccurate is a slow, portal-backed lookup with real award pricing.
	SourceAccurate SourceKind = "accurate"
)

// Route is a one-way origin/destination pair of IATA airport codes.
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (r Route) String() string {
	return r.Origin + "-" + r.Destination
}

// FlightOffer is a single priced itinerary from one source.
type FlightOffer struct {
	ID              string                `json:"id"`
	Origin          string                `json:"origin"`
	Destination     string                `json:"destination"`
	DepartureDate   string                `json:"departureDate"`
	ReturnDate      string                `json:"returnDate,omitempty"`
	CabinClass      awardchart.CabinClass `json:"cabinClass"`
	Airline         string                `json:"airline"`
	Stops           int                   `json:"stops"`
	PriceUSD        float64               `json:"priceUsd"`
	Currency        string                `json:"currency"`
	Points          int                   `json:"points"`
	PointsEstimated bool                  `json:"pointsEstimated"`
	BookingURL      string                `json:"bookingUrl,omitempty"`
	Source          SourceKind            `json:"source"`
	FetchedAt       time.Time             `json:"fetchedAt"`
}

// NewOfferID returns a fresh offer identifier.
func NewOfferID() string {
	return uuid.New().String()
}

// Identity returns the merge key for an offer. Two offers with the same
// identity describe the same flight and are deduplicated, with accurate
// data winning over estimates.
func (o FlightOffer) Identity() string {
	return strings.ToUpper(o.Origin) + "|" + strings.ToUpper(o.Destination) + "|" +
		o.DepartureDate + "|" + strings.ToUpper(o.Airline) + "|" +
		string(o.CabinClass) + "|" + fmt.Sprintf("%d", o.Stops)
}

// Direct reports whether the offer is a nonstop flight.
func (o FlightOffer) Direct() bool {
	return o.Stops == 0
}

// SearchKey identifies one route/date search unit. It is the caching and
// deepening granularity: a cache entry holds all offers for one key.
type SearchKey struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
}

// Key returns the storage key string for a search unit.
func (k SearchKey) Key() string {
	return strings.ToUpper(k.Origin) + "|" + strings.ToUpper(k.Destination) + "|" + k.DepartureDate
}

// KeyOf returns the search key an offer belongs to.
func KeyOf(o FlightOffer) SearchKey {
	return SearchKey{
		Origin:        strings.ToUpper(o.Origin),
		Destination:   strings.ToUpper(o.Destination),
		DepartureDate: o.DepartureDate,
	}
}
