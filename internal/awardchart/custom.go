package awardchart

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"award-monitor/internal/common/errors"
)

// customChartSchema validates chart files before conversion. A missing or
// null max_miles marks the unbounded top band.
var customChartSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "bands"},
	"properties": map[string]interface{}{
		"name": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"bands": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"min_miles", "ranges"},
				"properties": map[string]interface{}{
					"min_miles": map[string]interface{}{
						"type":    "number",
						"minimum": 0,
					},
					"max_miles": map[string]interface{}{
						"type": []interface{}{"number", "null"},
					},
					"ranges": map[string]interface{}{
						"type":          "object",
						"minProperties": 1,
						"additionalProperties": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"min", "max"},
							"properties": map[string]interface{}{
								"min": map[string]interface{}{"type": "integer", "minimum": 0},
								"max": map[string]interface{}{"type": "integer", "minimum": 0},
							},
						},
					},
				},
			},
		},
	},
}

type customChartFile struct {
	Name  string `json:"name"`
	Bands []struct {
		MinMiles float64               `json:"min_miles"`
		MaxMiles *float64              `json:"max_miles"`
		Ranges   map[string]PointRange `json:"ranges"`
	} `json:"bands"`
}

// LoadCustomChart parses and validates a chart definition file and registers
// it. Registration enforces the band invariants, so a file that passes the
// schema can still be rejected.
func LoadCustomChart(r *Registry, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewInvalidChartError(path, fmt.Sprintf("read chart file: %v", err))
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", errors.NewInvalidChartError(path, fmt.Sprintf("parse chart file: %v", err))
	}

	schemaLoader := gojsonschema.NewGoLoader(customChartSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return "", errors.NewInvalidChartError(path, fmt.Sprintf("schema validation: %v", err))
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return "", errors.NewInvalidChartError(path, strings.Join(errs, "; "))
	}

	var file customChartFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", errors.NewInvalidChartError(path, fmt.Sprintf("decode chart file: %v", err))
	}

	chart := Chart{Name: file.Name}
	for _, b := range file.Bands {
		band := DistanceBand{
			MinMiles: b.MinMiles,
			MaxMiles: math.Inf(1),
			Ranges:   make(map[CabinClass]PointRange, len(b.Ranges)),
		}
		if b.MaxMiles != nil {
			band.MaxMiles = *b.MaxMiles
		}
		for cabin, pr := range b.Ranges {
			cc, ok := LookupCabinClass(cabin)
			if !ok {
				return "", errors.NewInvalidChartError(path, fmt.Sprintf("unknown cabin class %q", cabin))
			}
			band.Ranges[cc] = pr
		}
		chart.Bands = append(chart.Bands, band)
	}

	if err := r.Register(chart); err != nil {
		return "", err
	}
	return chart.Name, nil
}

// LoadCustomCharts registers every chart file in paths, stopping at the
// first failure.
func LoadCustomCharts(r *Registry, paths []string) ([]string, error) {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		name, err := LoadCustomChart(r, p)
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}
