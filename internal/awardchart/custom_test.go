package awardchart

import (
	"os"
	"path/filepath"
	"testing"

	"award-monitor/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChartFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCustomChart(t *testing.T) {
	path := writeChartFile(t, `{
		"name": "virgin",
		"bands": [
			{
				"min_miles": 0,
				"max_miles": 3000,
				"ranges": {
					"economy": {"min": 10000, "max": 20000},
					"business": {"min": 30000, "max": 50000}
				}
			},
			{
				"min_miles": 3000,
				"max_miles": null,
				"ranges": {
					"economy": {"min": 25000, "max": 40000},
					"business": {"min": 60000, "max": 95000}
				}
			}
		]
	}`)

	r := NewDefaultRegistry()
	name, err := LoadCustomChart(r, path)
	require.NoError(t, err)
	assert.Equal(t, "virgin", name)

	c, err := r.Get("virgin")
	require.NoError(t, err)
	require.Len(t, c.Bands, 2)
	assert.True(t, c.Bands[1].Unbounded())

	band, ok := c.Band(4500)
	require.True(t, ok)
	pr, ok := band.Range(CabinBusiness)
	require.True(t, ok)
	assert.Equal(t, PointRange{Min: 60000, Max: 95000}, pr)
}

func TestLoadCustomChart_OmittedMaxMilesIsUnbounded(t *testing.T) {
	path := writeChartFile(t, `{
		"name": "simple",
		"bands": [
			{"min_miles": 0, "ranges": {"economy": {"min": 5000, "max": 9000}}}
		]
	}`)

	r := NewRegistry()
	_, err := LoadCustomChart(r, path)
	require.NoError(t, err)

	c, err := r.Get("simple")
	require.NoError(t, err)
	assert.True(t, c.Bands[0].Unbounded())
}

func TestLoadCustomChart_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not json",
			content: `{"name": "broken"`,
		},
		{
			name:    "missing bands",
			content: `{"name": "empty"}`,
		},
		{
			name:    "negative min miles",
			content: `{"name": "neg", "bands": [{"min_miles": -1, "ranges": {"economy": {"min": 1, "max": 2}}}]}`,
		},
		{
			name: "misspelled cabin class",
			content: `{"name": "typo", "bands": [{"min_miles": 0, "ranges": {
				"economy": {"min": 10000, "max": 20000},
				"bizness": {"min": 90000, "max": 99000}
			}}]}`,
		},
		{
			name: "schema valid but bands not contiguous",
			content: `{"name": "gap", "bands": [
				{"min_miles": 0, "max_miles": 2000, "ranges": {"economy": {"min": 1000, "max": 2000}}},
				{"min_miles": 3000, "ranges": {"economy": {"min": 3000, "max": 4000}}}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			_, err := LoadCustomChart(r, writeChartFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidChart))
		})
	}
}

func TestLoadCustomChart_MissingFile(t *testing.T) {
	r := NewRegistry()
	_, err := LoadCustomChart(r, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidChart))
}
