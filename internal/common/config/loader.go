// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like CACHE_REDIS_ADDRESS
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Bool defaults live on viper so an explicit false survives unmarshal.
	viper.SetDefault("deals.use_chart", true)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overrides, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "award-monitor"
	}
	if cfg.App.MetricsAddr == "" {
		cfg.App.MetricsAddr = ":9102"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Search.Adults <= 0 {
		cfg.Search.Adults = 1
	}
	if cfg.Search.CabinClass == "" {
		cfg.Search.CabinClass = "economy"
	}
	if cfg.Search.CheckInterval <= 0 {
		cfg.Search.CheckInterval = 360
	}
	if cfg.Sources.Mode == "" {
		cfg.Sources.Mode = "hybrid"
	}
	if cfg.Sources.Fast.Timeout <= 0 {
		cfg.Sources.Fast.Timeout = 15000
	}
	if cfg.Sources.Fast.RequestSpacing <= 0 {
		cfg.Sources.Fast.RequestSpacing = 100
	}
	if cfg.Sources.Fast.MaxResults <= 0 {
		cfg.Sources.Fast.MaxResults = 50
	}
	if cfg.Sources.Accurate.Timeout <= 0 {
		cfg.Sources.Accurate.Timeout = 180000
	}
	if cfg.Sources.DeepenWorkers <= 0 {
		cfg.Sources.DeepenWorkers = 4
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 360 // 6 hours
	}
	if cfg.Deals.Chart == "" {
		cfg.Deals.Chart = "standard"
	}
	if cfg.Deals.MinRating == "" {
		cfg.Deals.MinRating = "good"
	}
	if cfg.Deals.MaxCashPrice <= 0 {
		cfg.Deals.MaxCashPrice = 1000
	}
}

// ValidateMode checks a source mode value. Shared by config validation and
// the CLI override, which is applied after Load.
func ValidateMode(mode string) error {
	switch mode {
	case "hybrid", "fast", "accurate":
		return nil
	}
	return fmt.Errorf("sources.mode must be hybrid, fast or accurate, got %q", mode)
}

func validateConfig(cfg *Config) error {
	if err := ValidateMode(cfg.Sources.Mode); err != nil {
		return err
	}

	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required for the redis backend")
		}
	case "bolt":
		if cfg.Cache.Bolt.Path == "" {
			return fmt.Errorf("cache.bolt.path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("cache.backend must be memory, redis or bolt, got %q", cfg.Cache.Backend)
	}

	hasAirports := len(cfg.Search.DepartureAirports) > 0 || len(cfg.Search.DepartureCountries) > 0
	if !hasAirports {
		return fmt.Errorf("search.departure_airports or search.departure_countries must be set")
	}
	hasArrivals := len(cfg.Search.ArrivalAirports) > 0 || len(cfg.Search.ArrivalCountries) > 0
	if !hasArrivals {
		return fmt.Errorf("search.arrival_airports or search.arrival_countries must be set")
	}

	return nil
}
