package awardchart

import (
	"math"
	"testing"

	"award-monitor/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestChart(name string) Chart {
	return Chart{
		Name: name,
		Bands: []DistanceBand{
			{
				MinMiles: 0, MaxMiles: 5000,
				Ranges: map[CabinClass]PointRange{
					CabinEconomy: {Min: 50000, Max: 70000},
				},
			},
			{
				MinMiles: 5000, MaxMiles: math.Inf(1),
				Ranges: map[CabinClass]PointRange{
					CabinEconomy: {Min: 75000, Max: 90000},
				},
			},
		},
	}
}

func TestRegistry_DefaultCharts(t *testing.T) {
	r := NewDefaultRegistry()

	for _, name := range []string{"standard", "ana", "delta"} {
		c, err := r.Get(name)
		require.NoError(t, err, "chart %s", name)
		assert.Equal(t, name, c.Name)
		assert.True(t, c.Bands[len(c.Bands)-1].Unbounded())
	}

	assert.Len(t, r.Names(), 3)
}

func TestRegistry_GetIsCaseInsensitive(t *testing.T) {
	r := NewDefaultRegistry()

	c, err := r.Get("STANDARD")
	require.NoError(t, err)
	assert.Equal(t, "standard", c.Name)
}

func TestRegistry_GetUnknownChart(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Get("virgin")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownChart))
}

func TestRegistry_RegisterReplacesExisting(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(validTestChart("custom")))

	replacement := validTestChart("custom")
	replacement.Bands[0].Ranges[CabinEconomy] = PointRange{Min: 10000, Max: 20000}
	require.NoError(t, r.Register(replacement))

	c, err := r.Get("custom")
	require.NoError(t, err)
	assert.Equal(t, PointRange{Min: 10000, Max: 20000}, c.Bands[0].Ranges[CabinEconomy])
	assert.Len(t, r.Names(), 1)
}

func TestRegistry_RegisterRejectsInvalidCharts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Chart)
	}{
		{
			name:   "empty name",
			mutate: func(c *Chart) { c.Name = "" },
		},
		{
			name:   "no bands",
			mutate: func(c *Chart) { c.Bands = nil },
		},
		{
			name:   "first band does not start at zero",
			mutate: func(c *Chart) { c.Bands[0].MinMiles = 100 },
		},
		{
			name:   "gap between bands",
			mutate: func(c *Chart) { c.Bands[1].MinMiles = 5001 },
		},
		{
			name:   "overlapping bands",
			mutate: func(c *Chart) { c.Bands[1].MinMiles = 4000 },
		},
		{
			name:   "final band bounded",
			mutate: func(c *Chart) { c.Bands[1].MaxMiles = 11000 },
		},
		{
			name:   "unbounded band before final",
			mutate: func(c *Chart) { c.Bands[0].MaxMiles = math.Inf(1) },
		},
		{
			name:   "empty interval",
			mutate: func(c *Chart) { c.Bands[0].MaxMiles = 0 },
		},
		{
			name:   "band without cabin ranges",
			mutate: func(c *Chart) { c.Bands[0].Ranges = nil },
		},
		{
			name: "range min above max",
			mutate: func(c *Chart) {
				c.Bands[0].Ranges[CabinEconomy] = PointRange{Min: 90000, Max: 50000}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestChart("bad")
			tt.mutate(&c)

			err := NewRegistry().Register(c)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidChart))
		})
	}
}

func TestChart_BandResolution(t *testing.T) {
	r := NewDefaultRegistry()
	standard, err := r.Get("standard")
	require.NoError(t, err)

	tests := []struct {
		name     string
		distance float64
		wantMin  float64
	}{
		{name: "short haul", distance: 2470, wantMin: 0},
		{name: "boundary is exclusive on the left band", distance: 5000, wantMin: 5000},
		{name: "transpacific", distance: 6730, wantMin: 5000},
		{name: "ultra long haul", distance: 9500, wantMin: 7500},
		{name: "beyond the last bounded band", distance: 20000, wantMin: 11000},
		{name: "zero distance", distance: 0, wantMin: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, ok := standard.Band(tt.distance)
			require.True(t, ok)
			assert.Equal(t, tt.wantMin, band.MinMiles)
		})
	}
}

func TestChart_BandRejectsNegativeDistance(t *testing.T) {
	r := NewDefaultRegistry()
	standard, err := r.Get("standard")
	require.NoError(t, err)

	_, ok := standard.Band(-1)
	assert.False(t, ok)
}

func TestRating_Ordering(t *testing.T) {
	assert.True(t, RatingExceptional.AtLeast(RatingGood))
	assert.True(t, RatingGood.AtLeast(RatingGood))
	assert.False(t, RatingFair.AtLeast(RatingGood))
	assert.False(t, RatingPoor.AtLeast(RatingFair))
}

func TestParseRating(t *testing.T) {
	r, ok := ParseRating("Great")
	require.True(t, ok)
	assert.Equal(t, RatingGreat, r)

	_, ok = ParseRating("amazing")
	assert.False(t, ok)
}

func TestParseCabinClass(t *testing.T) {
	assert.Equal(t, CabinBusiness, ParseCabinClass("BUSINESS"))
	assert.Equal(t, CabinPremiumEconomy, ParseCabinClass("premium economy"))
	assert.Equal(t, CabinEconomy, ParseCabinClass("coach"))
}
