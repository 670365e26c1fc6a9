package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Google    GoogleConfig    `mapstructure:"google"`
	Unsplash  UnsplashConfig  `mapstructure:"unsplash"`
	News      NewsConfig      `mapstructure:"news"`
	Search    SearchConfig    `mapstructure:"search"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Site      SiteConfig      `mapstructure:"site"`
	Log       LogConfig       `mapstructure:"log"`

	skipGoogle bool
}

// LoadOption adjusts Load for a particular binary.
type LoadOption func(*Config)

// WithoutGoogle skips the Google key check for binaries that never call the
// Maps APIs.
func WithoutGoogle() LoadOption {
	return func(c *Config) { c.skipGoogle = true }
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// GoogleConfig covers the geocoding, places, autocomplete and static map APIs,
// which all share one key.
type GoogleConfig struct {
	APIKey  string  `mapstructure:"api_key"`
	BaseURL string  `mapstructure:"base_url"`
	QPS     float64 `mapstructure:"qps"`
	Burst   int     `mapstructure:"burst"`
}

type UnsplashConfig struct {
	AccessKey   string `mapstructure:"access_key"`
	BaseURL     string `mapstructure:"base_url"`
	FallbackURL string `mapstructure:"fallback_url"`
}

type NewsConfig struct {
	FeedURL             string `mapstructure:"feed_url"`
	Limit               int    `mapstructure:"limit"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	CacheTTLSeconds     int    `mapstructure:"cache_ttl_seconds"`
}

// PollInterval returns the news worker polling period.
func (n NewsConfig) PollInterval() time.Duration {
	return time.Duration(n.PollIntervalSeconds) * time.Second
}

type SearchConfig struct {
	DefaultRadius      int    `mapstructure:"default_radius"`
	DefaultKeyword     string `mapstructure:"default_keyword"`
	CallTimeoutSeconds int    `mapstructure:"call_timeout_seconds"`
	CacheTTLSeconds    int    `mapstructure:"cache_ttl_seconds"`
}

// CallTimeout bounds every outbound provider call.
func (s SearchConfig) CallTimeout() time.Duration {
	return time.Duration(s.CallTimeoutSeconds) * time.Second
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string, opts ...LoadOption) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("google.qps", 10.0)
	v.SetDefault("google.burst", 5)
	v.SetDefault("unsplash.access_key", "")
	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("unsplash.fallback_url", "https://images.unsplash.com/photo-1501785888041-af3ef285b470?w=1600")
	v.SetDefault("news.feed_url", "https://www.outsideonline.com/feed/")
	v.SetDefault("news.limit", 5)
	v.SetDefault("news.poll_interval_seconds", 900)
	v.SetDefault("news.cache_ttl_seconds", 1800)
	v.SetDefault("search.default_radius", 20000)
	v.SetDefault("search.default_keyword", "trail")
	v.SetDefault("search.call_timeout_seconds", 10)
	v.SetDefault("search.cache_ttl_seconds", 300)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("site.base_url", "https://matchtrail.com")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRAILMATCH_GOOGLE_API_KEY → google.api_key
	v.SetEnvPrefix("TRAILMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if !c.skipGoogle && c.Google.APIKey == "" {
		errs = append(errs, "google.api_key is required")
	}
	if c.Google.BaseURL == "" {
		errs = append(errs, "google.base_url is required")
	}
	if c.Google.QPS <= 0 {
		errs = append(errs, "google.qps must be positive")
	}
	if c.Google.Burst <= 0 {
		errs = append(errs, "google.burst must be positive")
	}
	if c.News.FeedURL == "" {
		errs = append(errs, "news.feed_url is required")
	}
	if c.News.Limit <= 0 {
		errs = append(errs, "news.limit must be positive")
	}
	if c.News.PollIntervalSeconds <= 0 {
		errs = append(errs, "news.poll_interval_seconds must be positive")
	}
	if c.Search.DefaultRadius <= 0 {
		errs = append(errs, fmt.Sprintf("search.default_radius must be positive, got %d", c.Search.DefaultRadius))
	}
	if c.Search.DefaultKeyword == "" {
		errs = append(errs, "search.default_keyword is required")
	}
	if c.Search.CallTimeoutSeconds <= 0 {
		errs = append(errs, "search.call_timeout_seconds must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
