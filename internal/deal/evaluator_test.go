package deal

import (
	"math"
	"testing"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/errors"
	"award-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transpacificOffer(points int) models.FlightOffer {
	return models.FlightOffer{
		ID:            models.NewOfferID(),
		Origin:        "JFK",
		Destination:   "NRT",
		DepartureDate: "2026-10-01",
		CabinClass:    awardchart.CabinEconomy,
		Airline:       "NH",
		PriceUSD:      1200,
		Currency:      "USD",
		Points:        points,
		Source:        models.SourceFast,
	}
}

// JFK-NRT sits in the 5000-7500 mile band of the standard chart, where
// economy runs 75000-90000 points.
func TestEvaluate_RatingTiers(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())

	tests := []struct {
		name     string
		points   int
		rating   awardchart.Rating
		position float64
		posDelta float64
		contains string
	}{
		{name: "well below minimum", points: 45000, rating: awardchart.RatingExceptional, position: -2, posDelta: 0.01, contains: "below standard minimum"},
		{name: "lower third", points: 78000, rating: awardchart.RatingGreat, position: 0.2, posDelta: 0.001, contains: "Low end of range"},
		{name: "middle third", points: 82000, rating: awardchart.RatingGood, position: 0.467, posDelta: 0.001, contains: "Mid-range pricing"},
		{name: "upper third", points: 88000, rating: awardchart.RatingFair, position: 0.867, posDelta: 0.001, contains: "High end of range"},
		{name: "above maximum", points: 110000, rating: awardchart.RatingPoor, position: 2.333, posDelta: 0.001, contains: "above standard maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := ev.Evaluate(transpacificOffer(tt.points), "standard")
			require.NoError(t, err)

			assert.Equal(t, tt.rating, eval.Rating)
			assert.InDelta(t, tt.position, eval.Position, tt.posDelta)
			assert.Contains(t, eval.Explanation, tt.contains)
			assert.Equal(t, float64(5000), eval.Band.MinMiles)
		})
	}
}

func TestEvaluate_PositionBelowMinimumIsNegative(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())

	eval, err := ev.Evaluate(transpacificOffer(45000), "standard")
	require.NoError(t, err)
	assert.Less(t, eval.Position, 0.0)
}

func TestEvaluate_EfficiencyAndCPP(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())

	eval, err := ev.Evaluate(transpacificOffer(80000), "standard")
	require.NoError(t, err)

	assert.InDelta(t, eval.Distance/80000, eval.Efficiency, 1e-9)
	assert.InDelta(t, 1200*100.0/80000, eval.CPP, 1e-9)
	assert.Greater(t, eval.Distance, 6500.0)
	assert.Less(t, eval.Distance, 7000.0)
}

func TestEvaluate_ShortHaulBand(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())

	offer := transpacificOffer(50000)
	offer.Destination = "LAX"

	eval, err := ev.Evaluate(offer, "standard")
	require.NoError(t, err)
	assert.Equal(t, float64(0), eval.Band.MinMiles)
	assert.Equal(t, awardchart.RatingExceptional, eval.Rating)
}

func TestEvaluate_Errors(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())

	t.Run("unknown chart", func(t *testing.T) {
		_, err := ev.Evaluate(transpacificOffer(80000), "nope")
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownChart))
	})

	t.Run("unknown airport", func(t *testing.T) {
		offer := transpacificOffer(80000)
		offer.Destination = "XXX"
		_, err := ev.Evaluate(offer, "standard")
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownAirport))
	})

	t.Run("unsupported cabin class", func(t *testing.T) {
		offer := transpacificOffer(80000)
		offer.CabinClass = awardchart.CabinFirst
		_, err := ev.Evaluate(offer, "ana")
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedCabinClass))
	})

	t.Run("non-positive point cost", func(t *testing.T) {
		_, err := ev.Evaluate(transpacificOffer(0), "standard")
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPointCost))
	})
}

func TestEvaluateBasic(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())

	eval, err := ev.EvaluateBasic(transpacificOffer(80000))
	require.NoError(t, err)

	assert.Empty(t, eval.ChartName)
	assert.Empty(t, eval.Explanation)
	assert.InDelta(t, eval.Distance/80000, eval.Efficiency, 1e-9)
	assert.InDelta(t, 1200*100.0/80000, eval.CPP, 1e-9)

	t.Run("unknown airport", func(t *testing.T) {
		offer := transpacificOffer(80000)
		offer.Origin = "XXX"
		_, err := ev.EvaluateBasic(offer)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownAirport))
	})

	t.Run("non-positive point cost", func(t *testing.T) {
		_, err := ev.EvaluateBasic(transpacificOffer(0))
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPointCost))
	})
}

func TestPositionInRange_DegenerateRange(t *testing.T) {
	pr := awardchart.PointRange{Min: 50000, Max: 50000}

	assert.Equal(t, 0.0, positionInRange(50000, pr))
	assert.True(t, math.IsInf(positionInRange(40000, pr), -1))
	assert.True(t, math.IsInf(positionInRange(60000, pr), 1))
}

func TestEvaluate_Deterministic(t *testing.T) {
	ev := NewEvaluator(awardchart.NewDefaultRegistry())
	offer := transpacificOffer(82000)

	first, err := ev.Evaluate(offer, "standard")
	require.NoError(t, err)
	second, err := ev.Evaluate(offer, "standard")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
