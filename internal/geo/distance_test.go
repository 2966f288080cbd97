package geo

import (
	"testing"

	"award-monitor/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownRoutes(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected float64
		delta    float64
	}{
		{name: "new york to tokyo", from: "JFK", to: "NRT", expected: 6730, delta: 40},
		{name: "new york to los angeles", from: "JFK", to: "LAX", expected: 2470, delta: 30},
		{name: "new york to london", from: "JFK", to: "LHR", expected: 3450, delta: 40},
		{name: "san francisco to singapore", from: "SFO", to: "SIN", expected: 8440, delta: 60},
		{name: "miami to sao paulo", from: "MIA", to: "GRU", expected: 4070, delta: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Distance(tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, d, tt.delta)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{{"JFK", "NRT"}, {"LAX", "HKG"}, {"ORD", "CDG"}, {"SYD", "LHR"}}

	for _, p := range pairs {
		ab, err := Distance(p[0], p[1])
		require.NoError(t, err)
		ba, err := Distance(p[1], p[0])
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-9, "distance(%s,%s) must equal distance(%s,%s)", p[0], p[1], p[1], p[0])
	}
}

func TestDistance_SameAirportIsZero(t *testing.T) {
	d, err := Distance("JFK", "JFK")
	require.NoError(t, err)
	assert.Zero(t, d)

	// Case-insensitive code handling
	d, err = Distance("jfk", "JFK")
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestDistance_UnknownAirport(t *testing.T) {
	_, err := Distance("JFK", "XXX")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownAirport))

	_, err = Distance("YYY", "NRT")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownAirport))
}

func TestExpandCountries(t *testing.T) {
	t.Run("countries expand to airports", func(t *testing.T) {
		airports := ExpandCountries([]string{"JP", "KR"}, nil)
		assert.Equal(t, []string{"NRT", "HND", "KIX", "ICN"}, airports)
	})

	t.Run("explicit airports come first and deduplicate", func(t *testing.T) {
		airports := ExpandCountries([]string{"JP"}, []string{"HND", "SIN"})
		assert.Equal(t, []string{"HND", "SIN", "NRT", "KIX"}, airports)
	})

	t.Run("unknown country yields nothing", func(t *testing.T) {
		assert.Empty(t, ExpandCountries([]string{"ZZ"}, nil))
	})
}
