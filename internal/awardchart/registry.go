package awardchart

import (
	"fmt"
	"strings"
	"sync"

	"award-monitor/internal/common/errors"
)

// Registry holds named award charts. Charts are registered once at startup
// and looked up by name afterwards; registration is idempotent and
// last-write-wins.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]Chart
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]Chart)}
}

// NewDefaultRegistry returns a registry pre-populated with the built-in
// charts (standard, ana, delta).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range builtinCharts() {
		// Built-ins are known-valid; a panic here means a broken table.
		if err := r.Register(c); err != nil {
			panic(fmt.Sprintf("built-in award chart %q invalid: %v", c.Name, err))
		}
	}
	return r
}

// Get returns the chart registered under name.
func (r *Registry) Get(name string) (Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.charts[strings.ToLower(name)]
	if !ok {
		return Chart{}, errors.NewUnknownChartError(name)
	}
	return c, nil
}

// Names returns the registered chart names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.charts))
	for n := range r.charts {
		names = append(names, n)
	}
	return names
}

// Register validates and inserts a chart, replacing any chart with the same
// name. Validation is eager: a bad chart is rejected at startup rather than
// producing wrong ratings silently at evaluation time.
func (r *Registry) Register(c Chart) error {
	if err := validateChart(c); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts[strings.ToLower(c.Name)] = c
	return nil
}

// validateChart enforces the band invariants: sorted ascending, contiguous
// over [0, +Inf), final band unbounded, every point range well-formed.
func validateChart(c Chart) error {
	if c.Name == "" {
		return errors.NewInvalidChartError(c.Name, "chart name is empty")
	}
	if len(c.Bands) == 0 {
		return errors.NewInvalidChartError(c.Name, "chart has no distance bands")
	}

	if c.Bands[0].MinMiles != 0 {
		return errors.NewInvalidChartError(c.Name,
			fmt.Sprintf("first band starts at %.0f miles, must start at 0", c.Bands[0].MinMiles))
	}

	for i, b := range c.Bands {
		if len(b.Ranges) == 0 {
			return errors.NewInvalidChartError(c.Name,
				fmt.Sprintf("band %d has no cabin ranges", i))
		}
		for cabin, pr := range b.Ranges {
			if pr.Min < 0 || pr.Min > pr.Max {
				return errors.NewInvalidChartError(c.Name,
					fmt.Sprintf("band %d cabin %s has invalid range [%d, %d]", i, cabin, pr.Min, pr.Max))
			}
		}

		if !b.Unbounded() && b.MaxMiles <= b.MinMiles {
			return errors.NewInvalidChartError(c.Name,
				fmt.Sprintf("band %d has empty interval [%.0f, %.0f)", i, b.MinMiles, b.MaxMiles))
		}

		if i < len(c.Bands)-1 {
			if b.Unbounded() {
				return errors.NewInvalidChartError(c.Name,
					fmt.Sprintf("band %d is unbounded but is not the final band", i))
			}
			next := c.Bands[i+1]
			if next.MinMiles != b.MaxMiles {
				return errors.NewInvalidChartError(c.Name,
					fmt.Sprintf("band %d ends at %.0f miles but band %d starts at %.0f: bands must be contiguous",
						i, b.MaxMiles, i+1, next.MinMiles))
			}
		}
	}

	if !c.Bands[len(c.Bands)-1].Unbounded() {
		return errors.NewInvalidChartError(c.Name, "final band must be unbounded")
	}

	return nil
}
