package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"award-monitor/internal/awardchart"
	awsclients "award-monitor/internal/common/aws"
	"award-monitor/internal/common/config"
	"award-monitor/internal/common/database"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/common/observability"
	"award-monitor/internal/deal"
	"award-monitor/internal/monitor"
	"award-monitor/internal/notify"
	"award-monitor/internal/search"
	"award-monitor/internal/search/cache"
	"award-monitor/internal/search/source"
)

func main() {
	var (
		once        bool
		startDate   string
		endDate     string
		modeFlag    string
		forceDeepen bool
	)

	root := &cobra.Command{
		Use:   "award-monitor",
		Short: "Monitors award flight pricing and alerts on good redemptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(once, startDate, endDate, modeFlag, forceDeepen)
		},
	}

	root.Flags().BoolVar(&once, "once", false, "Run a single check and exit")
	root.Flags().StringVar(&startDate, "start-date", "", "Override search window start (YYYY-MM-DD)")
	root.Flags().StringVar(&endDate, "end-date", "", "Override search window end (YYYY-MM-DD)")
	root.Flags().StringVar(&modeFlag, "mode", "", "Override source mode: hybrid, fast, accurate")
	root.Flags().BoolVar(&forceDeepen, "force-deepen", false, "Deepen every key regardless of screening results")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(once bool, startDate, endDate, modeFlag string, forceDeepen bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if (startDate == "") != (endDate == "") {
		return fmt.Errorf("--start-date and --end-date must be set together")
	}
	if startDate != "" {
		cfg.Search.DateRanges = []config.DateRange{{Start: startDate, End: endDate}}
	}
	if modeFlag != "" {
		if err := config.ValidateMode(modeFlag); err != nil {
			return err
		}
		cfg.Sources.Mode = modeFlag
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()
	log := logger.NewZapAdapter(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.App.MetricsAddr != "" {
		go serveMetrics(cfg.App.MetricsAddr, zlog)
	}

	registry := awardchart.NewDefaultRegistry()
	if names, err := awardchart.LoadCustomCharts(registry, cfg.Charts.CustomFiles); err != nil {
		return fmt.Errorf("load custom charts: %w", err)
	} else if len(names) > 0 {
		log.Info("custom charts registered", map[string]interface{}{"charts": names})
	}

	store, err := newCacheStore(cfg.Cache)
	if err != nil {
		return fmt.Errorf("init cache backend %q: %w", cfg.Cache.Backend, err)
	}
	defer store.Close()

	minRating, ok := awardchart.ParseRating(cfg.Deals.MinRating)
	if !ok {
		return fmt.Errorf("unknown minimum rating %q", cfg.Deals.MinRating)
	}

	orchestrator := search.NewOrchestrator(search.Options{
		Fast:          source.NewAmadeusSource(cfg.Sources.Fast, log),
		Accurate:      source.NewPortalSource(cfg.Sources.Accurate, log),
		Cache:         store,
		Evaluator:     deal.NewEvaluator(registry),
		Chart:         cfg.Deals.Chart,
		DisableChart:  !cfg.Deals.UseChart,
		MinRating:     minRating,
		MaxCashPrice:  cfg.Deals.MaxCashPrice,
		CacheTTL:      cfg.Cache.TTLDuration(),
		DeepenWorkers: cfg.Sources.DeepenWorkers,
		Weights:       search.DefaultRankWeights,
		Logger:        log,
	})

	notifiers, err := newNotifiers(ctx, cfg.Notifications, log)
	if err != nil {
		return fmt.Errorf("init notifiers: %w", err)
	}

	m := monitor.New(cfg.Search, search.Mode(cfg.Sources.Mode), orchestrator, notifiers, log)
	m.SetObservability(obs)
	m.SetForceDeepen(forceDeepen)

	if once {
		return m.CheckOnce(ctx)
	}
	if err := m.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func newCacheStore(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		client, err := database.NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client.GetClient()), nil
	case "bolt":
		return cache.NewBoltStore(cfg.Bolt.Path)
	default:
		return cache.NewMemoryStore(), nil
	}
}

func newNotifiers(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier

	if cfg.Email.Enabled {
		ses, err := awsclients.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, notify.NewEmailNotifier(ses, cfg, log))
	}
	if cfg.SMS.Enabled {
		sns, err := awsclients.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, notify.NewSMSNotifier(sns, cfg, log))
	}
	return notifiers, nil
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Info("metrics server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("metrics server stopped", zap.Error(err))
	}
}
