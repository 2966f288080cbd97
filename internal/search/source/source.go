// Package source implements the upstream flight data providers. Two kinds
// exist behind one interface: a fast API-backed screen with estimated award
// pricing and a slow portal-backed lookup with exact pricing.
package source

import (
	"context"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/models"
)

// Query is one search request: every route is searched for every departure
// date in Dates.
type Query struct {
	Routes     []models.Route
	Dates      []string
	ReturnDate string
	CabinClass awardchart.CabinClass
	Adults     int
}

// Keys expands the query into its route and date search units.
func (q Query) Keys() []models.SearchKey {
	keys := make([]models.SearchKey, 0, len(q.Routes)*len(q.Dates))
	for _, r := range q.Routes {
		for _, d := range q.Dates {
			keys = append(keys, models.SearchKey{
				Origin:        r.Origin,
				Destination:   r.Destination,
				DepartureDate: d,
			})
		}
	}
	return keys
}

// ForKey narrows the query to a single route and date unit.
func (q Query) ForKey(key models.SearchKey) Query {
	narrowed := q
	narrowed.Routes = []models.Route{{Origin: key.Origin, Destination: key.Destination}}
	narrowed.Dates = []string{key.DepartureDate}
	return narrowed
}

// Source is a flight data provider. The orchestrator depends only on this
// interface and the fast/accurate distinction reported by Kind.
type Source interface {
	Name() string
	Kind() models.SourceKind
	Search(ctx context.Context, q Query) ([]models.FlightOffer, error)
}
