// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Search        SearchConfig       `mapstructure:"search"`
	Sources       SourcesConfig      `mapstructure:"sources"`
	Cache         CacheConfig        `mapstructure:"cache"`
	Deals         DealsConfig        `mapstructure:"deals"`
	Charts        ChartsConfig       `mapstructure:"charts"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// SearchConfig describes the route/date universe to monitor.
type SearchConfig struct {
	DepartureCountries []string    `mapstructure:"departure_countries"`
	ArrivalCountries   []string    `mapstructure:"arrival_countries"`
	DepartureAirports  []string    `mapstructure:"departure_airports"`
	ArrivalAirports    []string    `mapstructure:"arrival_airports"`
	DateRanges         []DateRange `mapstructure:"date_ranges"`
	Adults             int         `mapstructure:"adults"`
	CabinClass         string      `mapstructure:"cabin_class"`
	CheckInterval      int         `mapstructure:"check_interval"` // minutes
}

type DateRange struct {
	Start string `mapstructure:"start"` // YYYY-MM-DD
	End   string `mapstructure:"end"`
}

// SourcesConfig holds settings for the two upstream flight sources.
type SourcesConfig struct {
	Mode string `mapstructure:"mode"` // hybrid, fast, accurate

	Fast     FastSourceConfig     `mapstructure:"fast"`
	Accurate AccurateSourceConfig `mapstructure:"accurate"`

	DeepenWorkers int `mapstructure:"deepen_workers"`
}

// FastSourceConfig configures the API-backed screening source.
type FastSourceConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	APISecret      string `mapstructure:"api_secret"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestSpacing int    `mapstructure:"request_spacing"` // milliseconds between calls
	MaxResults     int    `mapstructure:"max_results"`
}

// AccurateSourceConfig configures the portal-backed pricing source.
type AccurateSourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// CacheConfig holds settings for the accurate-source result cache.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // memory, redis, bolt
	TTL     int    `mapstructure:"ttl"`     // minutes

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Bolt struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"bolt"`
}

// TTLDuration returns the configured TTL as a time.Duration.
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Minute
}

// DealsConfig holds deal detection thresholds.
type DealsConfig struct {
	Chart        string  `mapstructure:"chart"`
	UseChart     bool    `mapstructure:"use_chart"`
	MinRating    string  `mapstructure:"min_rating"`
	MaxCashPrice float64 `mapstructure:"max_cash_price"`
}

// ChartsConfig holds custom award chart definitions.
type ChartsConfig struct {
	CustomFiles []string `mapstructure:"custom_files"` // JSON chart definitions
}

// NotificationConfig holds settings for deal alerts.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
