// Package monitor runs the scheduled deal checks: it expands the configured
// route universe, drives the search orchestrator, and fans found deals out
// to the notifiers.
package monitor

import (
	"context"
	"fmt"
	"time"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/config"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/common/observability"
	"award-monitor/internal/geo"
	"award-monitor/internal/models"
	"award-monitor/internal/notify"
	"award-monitor/internal/search"
)

const dateLayout = "2006-01-02"

// defaultHorizonDays is the search window when no date ranges are configured.
const defaultHorizonDays = 180

// Monitor owns the periodic check loop.
type Monitor struct {
	cfg          config.SearchConfig
	mode         search.Mode
	orchestrator *search.Orchestrator
	notifiers    []notify.Notifier
	obs          *observability.Observability
	forceDeepen  bool
	log          logger.Logger
	now          func() time.Time
}

func New(cfg config.SearchConfig, mode search.Mode, o *search.Orchestrator, notifiers []notify.Notifier, log logger.Logger) *Monitor {
	return &Monitor{
		cfg:          cfg,
		mode:         mode,
		orchestrator: o,
		notifiers:    notifiers,
		log:          log,
		now:          time.Now,
	}
}

// SetObservability attaches the otel metrics recorder.
func (m *Monitor) SetObservability(obs *observability.Observability) {
	m.obs = obs
}

// SetForceDeepen makes every check verify keys with the accurate source even
// when a valid cache entry exists.
func (m *Monitor) SetForceDeepen(force bool) {
	m.forceDeepen = force
}

// Routes expands the configured countries and explicit airports into the
// full origin and destination matrix.
func (m *Monitor) Routes() ([]models.Route, error) {
	origins := geo.ExpandCountries(m.cfg.DepartureCountries, m.cfg.DepartureAirports)
	destinations := geo.ExpandCountries(m.cfg.ArrivalCountries, m.cfg.ArrivalAirports)
	if len(origins) == 0 || len(destinations) == 0 {
		return nil, fmt.Errorf("route universe is empty: %d origins, %d destinations",
			len(origins), len(destinations))
	}

	routes := make([]models.Route, 0, len(origins)*len(destinations))
	for _, o := range origins {
		for _, d := range destinations {
			routes = append(routes, models.Route{Origin: o, Destination: d})
		}
	}
	return routes, nil
}

// SearchDates generates the departure dates to check. Configured ranges are
// stepped weekly; without ranges every day over the default horizon is used.
func (m *Monitor) SearchDates() ([]string, error) {
	if len(m.cfg.DateRanges) == 0 {
		start := m.now()
		dates := make([]string, 0, defaultHorizonDays)
		for i := 0; i < defaultHorizonDays; i++ {
			dates = append(dates, start.AddDate(0, 0, i).Format(dateLayout))
		}
		return dates, nil
	}

	var dates []string
	for _, r := range m.cfg.DateRanges {
		start, err := time.Parse(dateLayout, r.Start)
		if err != nil {
			return nil, fmt.Errorf("parse date range start %q: %w", r.Start, err)
		}
		end, err := time.Parse(dateLayout, r.End)
		if err != nil {
			return nil, fmt.Errorf("parse date range end %q: %w", r.End, err)
		}

		for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 7) {
			dates = append(dates, cur.Format(dateLayout))
		}
	}
	return dates, nil
}

// CheckOnce runs a single end-to-end deal check and notifies on any deals.
func (m *Monitor) CheckOnce(ctx context.Context) error {
	start := m.now()
	err := m.checkOnce(ctx)

	if m.obs != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.obs.RecordSearch(ctx, status)
		m.obs.RecordSearchDuration(ctx, time.Since(start), status)
	}
	return err
}

func (m *Monitor) checkOnce(ctx context.Context) error {
	routes, err := m.Routes()
	if err != nil {
		return err
	}
	dates, err := m.SearchDates()
	if err != nil {
		return err
	}

	m.log.Info("checking for deals", map[string]interface{}{
		"routes": len(routes),
		"dates":  len(dates),
		"mode":   string(m.mode),
	})

	result, err := m.orchestrator.Search(ctx, search.Request{
		Routes:      routes,
		Dates:       dates,
		CabinClass:  awardchart.ParseCabinClass(m.cfg.CabinClass),
		Adults:      m.cfg.Adults,
		Mode:        m.mode,
		ForceDeepen: m.forceDeepen,
	})
	if err != nil {
		return err
	}

	for _, f := range result.Failures {
		m.log.Warn("key degraded to fast data", map[string]interface{}{
			"key":   f.Key.Key(),
			"error": f.Err.Error(),
		})
	}

	if len(result.Offers) == 0 {
		m.log.Info("no deals found in this check", nil)
		return nil
	}

	m.log.Info("deals found", map[string]interface{}{"count": len(result.Offers)})
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, result.Offers); err != nil {
			// A broken notifier must not stop the remaining channels.
			m.log.WithError(err).Error("alert delivery failed", map[string]interface{}{
				"notifier": n.Name(),
			})
		}
	}
	return nil
}

// Run checks immediately and then on every interval tick until the context
// is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	interval := time.Duration(m.cfg.CheckInterval) * time.Minute

	m.log.Info("starting flight monitor", map[string]interface{}{
		"check_interval": interval.String(),
	})

	if err := m.CheckOnce(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.WithError(err).Error("deal check failed", nil)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopping", nil)
			return ctx.Err()
		case <-ticker.C:
			if err := m.CheckOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.log.WithError(err).Error("deal check failed", nil)
			}
		}
	}
}
