// Package deal scores flight offers against award charts.
package deal

import (
	"fmt"
	"math"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/errors"
	"award-monitor/internal/geo"
	"award-monitor/internal/models"
)

// Thresholds are the upper position bounds for each rating tier. Position 0
// is the bottom of the expected range and 1 the top; below 0 is always
// EXCEPTIONAL and above Fair always POOR.
type Thresholds struct {
	Great float64
	Good  float64
	Fair  float64
}

// DefaultThresholds splits the expected range into thirds.
var DefaultThresholds = Thresholds{
	Great: 1.0 / 3.0,
	Good:  2.0 / 3.0,
	Fair:  1.0,
}

// Evaluation is the derived quality assessment for one offer. It is computed
// fresh per call and never cached apart from the offer it describes.
type Evaluation struct {
	ChartName   string                  `json:"chartName"`
	Distance    float64                 `json:"distance"`
	Band        awardchart.DistanceBand `json:"-"`
	Rating      awardchart.Rating       `json:"rating"`
	Position    float64                 `json:"position"`
	Efficiency  float64                 `json:"efficiency"`
	CPP         float64                 `json:"cpp"`
	Explanation string                  `json:"explanation"`
}

// Evaluator rates offers against a chart from the registry. Evaluate is pure:
// no I/O and no registry mutation, so results are deterministic for a given
// offer and chart.
type Evaluator struct {
	registry   *awardchart.Registry
	thresholds Thresholds
}

func NewEvaluator(registry *awardchart.Registry) *Evaluator {
	return &Evaluator{registry: registry, thresholds: DefaultThresholds}
}

// NewEvaluatorWithThresholds overrides the rating tier boundaries.
func NewEvaluatorWithThresholds(registry *awardchart.Registry, t Thresholds) *Evaluator {
	return &Evaluator{registry: registry, thresholds: t}
}

// Evaluate scores an offer against the named chart.
func (e *Evaluator) Evaluate(offer models.FlightOffer, chartName string) (Evaluation, error) {
	chart, err := e.registry.Get(chartName)
	if err != nil {
		return Evaluation{}, err
	}

	distance, err := geo.Distance(offer.Origin, offer.Destination)
	if err != nil {
		return Evaluation{}, err
	}

	band, ok := chart.Band(distance)
	if !ok {
		// Unreachable for a registered chart; kept as a guard against a
		// registry bypass.
		return Evaluation{}, errors.NewDistanceOutOfChartRangeError(chart.Name, distance)
	}

	pr, ok := band.Range(offer.CabinClass)
	if !ok {
		return Evaluation{}, errors.NewUnsupportedCabinClassError(chart.Name, string(offer.CabinClass))
	}

	if offer.Points <= 0 {
		return Evaluation{}, errors.NewInvalidPointCostError(offer.Points)
	}

	position := positionInRange(offer.Points, pr)
	rating := e.rate(position)

	return Evaluation{
		ChartName:   chart.Name,
		Distance:    distance,
		Band:        band,
		Rating:      rating,
		Position:    position,
		Efficiency:  distance / float64(offer.Points),
		CPP:         offer.PriceUSD * 100 / float64(offer.Points),
		Explanation: explain(rating, offer.Points, pr),
	}, nil
}

// EvaluateBasic derives only the chart-independent metrics: distance, cents
// per point and distance efficiency. Used when chart evaluation is disabled;
// the resulting Evaluation carries no chart name, band, rating or
// explanation.
func (e *Evaluator) EvaluateBasic(offer models.FlightOffer) (Evaluation, error) {
	distance, err := geo.Distance(offer.Origin, offer.Destination)
	if err != nil {
		return Evaluation{}, err
	}
	if offer.Points <= 0 {
		return Evaluation{}, errors.NewInvalidPointCostError(offer.Points)
	}
	return Evaluation{
		Distance:   distance,
		Efficiency: distance / float64(offer.Points),
		CPP:        offer.PriceUSD * 100 / float64(offer.Points),
	}, nil
}

// positionInRange maps a point cost onto the expected range: 0 at the range
// minimum, 1 at the maximum, negative below, above 1 past the top. A
// degenerate single-point range yields 0 at the point and a signed infinity
// either side.
func positionInRange(points int, pr awardchart.PointRange) float64 {
	if pr.Max == pr.Min {
		switch {
		case points == pr.Min:
			return 0
		case points < pr.Min:
			return math.Inf(-1)
		default:
			return math.Inf(1)
		}
	}
	return float64(points-pr.Min) / float64(pr.Max-pr.Min)
}

func (e *Evaluator) rate(position float64) awardchart.Rating {
	switch {
	case position < 0:
		return awardchart.RatingExceptional
	case position < e.thresholds.Great:
		return awardchart.RatingGreat
	case position < e.thresholds.Good:
		return awardchart.RatingGood
	case position <= e.thresholds.Fair:
		return awardchart.RatingFair
	default:
		return awardchart.RatingPoor
	}
}

func explain(rating awardchart.Rating, points int, pr awardchart.PointRange) string {
	switch rating {
	case awardchart.RatingExceptional:
		pct := float64(pr.Min-points) / float64(pr.Min) * 100
		return fmt.Sprintf("%.0f%% below standard minimum (%d pts)", pct, pr.Min)
	case awardchart.RatingGreat:
		return fmt.Sprintf("Low end of range (%d-%d pts)", pr.Min, pr.Max)
	case awardchart.RatingGood:
		return fmt.Sprintf("Mid-range pricing (%d-%d pts)", pr.Min, pr.Max)
	case awardchart.RatingFair:
		return fmt.Sprintf("High end of range (%d-%d pts)", pr.Min, pr.Max)
	default:
		pct := float64(points-pr.Max) / float64(pr.Max) * 100
		return fmt.Sprintf("%.0f%% above standard maximum (%d pts)", pct, pr.Max)
	}
}
