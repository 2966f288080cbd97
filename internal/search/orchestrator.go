package search

import (
	"context"
	"sync"
	"time"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/errors"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/common/metrics"
	"award-monitor/internal/deal"
	"award-monitor/internal/models"
	"award-monitor/internal/search/cache"
	"award-monitor/internal/search/source"
)

// Mode selects which sources a search run uses.
type Mode string

const (
	// ModeHybrid screens with the fast source and deepens selectively.
	ModeHybrid Mode = "hybrid"
	// ModeFast uses only the fast source.
	ModeFast Mode = "fast"
	// ModeAccurate uses only the accurate source, still honoring the cache.
	ModeAccurate Mode = "accurate"
)

// Request is one search run.
type Request struct {
	Routes      []models.Route
	Dates       []string
	ReturnDate  string
	CabinClass  awardchart.CabinClass
	Adults      int
	Mode        Mode
	ForceDeepen bool
}

// KeyFailure records a non-fatal accurate-source failure for one key.
type KeyFailure struct {
	Key models.SearchKey
	Err error
}

// Result is the ranked outcome of a search run. Failures lists keys that
// degraded to fast-only data.
type Result struct {
	Offers   []RatedOffer
	Failures []KeyFailure
}

// Options configures an Orchestrator.
type Options struct {
	Fast          source.Source
	Accurate      source.Source
	Cache         cache.Store
	Evaluator     *deal.Evaluator
	Chart         string
	// DisableChart turns off chart evaluation: offers keep only their
	// chart-independent metrics, the rating deepen trigger is skipped and no
	// rating filter is applied.
	DisableChart  bool
	MinRating     awardchart.Rating
	MaxCashPrice  float64
	CacheTTL      time.Duration
	DeepenWorkers int
	Weights       RankWeights
	Logger        logger.Logger
}

// Orchestrator runs the screen, decide, deepen pipeline. The fast source
// covers the full route and date matrix; the accurate source is invoked only
// for keys that look promising, lack cached data, or are forced.
type Orchestrator struct {
	fast         source.Source
	accurate     source.Source
	cache        cache.Store
	evaluator    *deal.Evaluator
	chart        string
	useChart     bool
	minRating    awardchart.Rating
	maxCashPrice float64
	ttl          time.Duration
	workers      int
	weights      RankWeights
	log          logger.Logger
}

func NewOrchestrator(opts Options) *Orchestrator {
	workers := opts.DeepenWorkers
	if workers <= 0 {
		workers = 1
	}
	weights := opts.Weights
	if weights == (RankWeights{}) {
		weights = DefaultRankWeights
	}
	return &Orchestrator{
		fast:         opts.Fast,
		accurate:     opts.Accurate,
		cache:        opts.Cache,
		evaluator:    opts.Evaluator,
		chart:        opts.Chart,
		useChart:     !opts.DisableChart,
		minRating:    opts.MinRating,
		maxCashPrice: opts.MaxCashPrice,
		ttl:          opts.CacheTTL,
		workers:      workers,
		weights:      weights,
		log:          opts.Logger,
	}
}

// Search runs one full search. Per-key accurate-source failures degrade that
// key to fast-only data; only a total fast-source failure (or cancellation)
// fails the run.
func (o *Orchestrator) Search(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	metrics.SearchesTotal.WithLabelValues(string(req.Mode)).Inc()
	defer func() {
		metrics.SearchDuration.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())
	}()

	q := source.Query{
		Routes:     req.Routes,
		Dates:      req.Dates,
		ReturnDate: req.ReturnDate,
		CabinClass: req.CabinClass,
		Adults:     req.Adults,
	}

	var rated []RatedOffer
	var failures []KeyFailure

	switch req.Mode {
	case ModeFast:
		offers, err := o.screen(ctx, q)
		if err != nil {
			return nil, err
		}
		rated = offers

	case ModeAccurate:
		rated, failures = o.accurateOnly(ctx, q)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

	default:
		fastOffers, err := o.screen(ctx, q)
		if err != nil {
			return nil, err
		}
		rated = fastOffers

		cached, toDeepen := o.decide(ctx, q, fastOffers, req.ForceDeepen)
		rated = append(rated, cached...)

		accurate, deepenFailures := o.deepen(ctx, q, toDeepen)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rated = append(rated, accurate...)
		failures = deepenFailures
	}

	final := Rank(Merge(rated), o.weights)
	if o.useChart {
		final = FilterByRating(final, o.minRating)
	}
	for _, r := range final {
		metrics.DealsFound.WithLabelValues(r.Eval.Rating.String()).Inc()
	}

	o.log.Info("search complete", map[string]interface{}{
		"mode":     string(req.Mode),
		"offers":   len(final),
		"failures": len(failures),
		"duration": time.Since(start).String(),
	})
	return &Result{Offers: final, Failures: failures}, nil
}

// screen queries the fast source for the full matrix and evaluates every
// returned offer. Offers that fail evaluation are dropped and counted.
func (o *Orchestrator) screen(ctx context.Context, q source.Query) ([]RatedOffer, error) {
	offers, err := o.fast.Search(ctx, q)
	if err != nil {
		metrics.SourceQueries.WithLabelValues(o.fast.Name(), "error").Inc()
		return nil, err
	}
	metrics.SourceQueries.WithLabelValues(o.fast.Name(), "ok").Inc()
	return o.evaluate(offers), nil
}

func (o *Orchestrator) evaluate(offers []models.FlightOffer) []RatedOffer {
	rated := make([]RatedOffer, 0, len(offers))
	for _, offer := range offers {
		var eval deal.Evaluation
		var err error
		if o.useChart {
			eval, err = o.evaluator.Evaluate(offer, o.chart)
		} else {
			eval, err = o.evaluator.EvaluateBasic(offer)
		}
		if err != nil {
			metrics.EvaluationFailures.WithLabelValues(string(errors.CodeOf(err))).Inc()
			o.log.Warn("offer evaluation failed", map[string]interface{}{
				"route": offer.Origin + "-" + offer.Destination,
				"error": err.Error(),
			})
			continue
		}
		rated = append(rated, RatedOffer{Offer: offer, Eval: eval})
	}
	return rated
}

// decide partitions the request's keys: keys with a valid cached entry and
// no deepen trigger reuse the cached offers; the rest are selected for
// deepening. Cache errors degrade to a miss.
func (o *Orchestrator) decide(ctx context.Context, q source.Query, fast []RatedOffer, force bool) (cached []RatedOffer, toDeepen []models.SearchKey) {
	promising := make(map[string]bool)
	for _, r := range fast {
		if (o.useChart && r.Eval.Rating.AtLeast(awardchart.RatingGood)) || r.Offer.PriceUSD < o.maxCashPrice {
			promising[models.KeyOf(r.Offer).Key()] = true
		}
	}

	for _, key := range q.Keys() {
		entry := o.cacheGet(ctx, key)

		switch {
		case force || promising[key.Key()]:
			metrics.DeepenDecisions.WithLabelValues("deepen").Inc()
			toDeepen = append(toDeepen, key)
		case entry == nil:
			metrics.DeepenDecisions.WithLabelValues("deepen").Inc()
			toDeepen = append(toDeepen, key)
		default:
			metrics.DeepenDecisions.WithLabelValues("cached").Inc()
			cached = append(cached, o.evaluate(entry.Offers)...)
		}
	}
	return cached, toDeepen
}

// accurateOnly serves every key from cache when possible and deepens the
// rest, without any fast screen.
func (o *Orchestrator) accurateOnly(ctx context.Context, q source.Query) ([]RatedOffer, []KeyFailure) {
	var rated []RatedOffer
	var toDeepen []models.SearchKey

	for _, key := range q.Keys() {
		if entry := o.cacheGet(ctx, key); entry != nil {
			metrics.DeepenDecisions.WithLabelValues("cached").Inc()
			rated = append(rated, o.evaluate(entry.Offers)...)
			continue
		}
		metrics.DeepenDecisions.WithLabelValues("deepen").Inc()
		toDeepen = append(toDeepen, key)
	}

	accurate, failures := o.deepen(ctx, q, toDeepen)
	return append(rated, accurate...), failures
}

func (o *Orchestrator) cacheGet(ctx context.Context, key models.SearchKey) *cache.Entry {
	entry, err := o.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheOps.WithLabelValues("get", "error").Inc()
		o.log.Warn("cache read failed, treating as miss", map[string]interface{}{
			"key":   key.Key(),
			"error": err.Error(),
		})
		return nil
	}
	if entry == nil {
		metrics.CacheOps.WithLabelValues("get", "miss").Inc()
		return nil
	}
	metrics.CacheOps.WithLabelValues("get", "hit").Inc()
	return entry
}

// deepen queries the accurate source for the selected keys with a bounded
// worker pool. Each key is handled by exactly one worker, which serializes
// cache writes per key. A key's entry is written only on full success, so a
// cancelled run never leaves partial results behind.
func (o *Orchestrator) deepen(ctx context.Context, q source.Query, keys []models.SearchKey) ([]RatedOffer, []KeyFailure) {
	if len(keys) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		rated    []RatedOffer
		failures []KeyFailure
	)

	work := make(chan models.SearchKey)
	var wg sync.WaitGroup

	workers := o.workers
	if workers > len(keys) {
		workers = len(keys)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range work {
				offers, err := o.accurate.Search(ctx, q.ForKey(key))
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					metrics.SourceQueries.WithLabelValues(o.accurate.Name(), "error").Inc()
					o.log.Warn("deepen failed, keeping fast data for key", map[string]interface{}{
						"key":   key.Key(),
						"error": err.Error(),
					})
					mu.Lock()
					failures = append(failures, KeyFailure{Key: key, Err: err})
					mu.Unlock()
					continue
				}
				metrics.SourceQueries.WithLabelValues(o.accurate.Name(), "ok").Inc()

				if err := o.cache.Put(ctx, key, offers, o.ttl); err != nil {
					metrics.CacheOps.WithLabelValues("put", "error").Inc()
					o.log.Warn("cache write failed", map[string]interface{}{
						"key":   key.Key(),
						"error": err.Error(),
					})
				} else {
					metrics.CacheOps.WithLabelValues("put", "ok").Inc()
				}

				evaluated := o.evaluate(offers)
				mu.Lock()
				rated = append(rated, evaluated...)
				mu.Unlock()
			}
		}()
	}

	for _, key := range keys {
		select {
		case work <- key:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return rated, failures
		}
	}
	close(work)
	wg.Wait()
	return rated, failures
}
