package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable, e.g. DASHBOARD_SERVER_PORT.
const EnvPrefix = "DASHBOARD"

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Assets   AssetConfig
	Logger   LoggerConfig `envconfig:"LOG"`
	Security SecurityConfig
	Metrics  MetricsConfig
}

// Leaf fields carry no envconfig tag: a tag also makes envconfig fall back to
// the bare name (PATH, PORT) when the prefixed variable is unset.
type ServerConfig struct {
	Host            string        `default:"localhost"`
	Port            int           `default:"8084"`
	ReadTimeout     time.Duration `split_words:"true" default:"10s"`
	WriteTimeout    time.Duration `split_words:"true" default:"10s"`
	IdleTimeout     time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
}

type DatasetConfig struct {
	Path        string        `default:"data_sales_dash.snap"`
	LoadTimeout time.Duration `split_words:"true" default:"30s"`
	PreviewRows int           `split_words:"true" default:"50"`
	// ServeErrorPage keeps the process up after a failed load, answering
	// every route with 503 instead of exiting.
	ServeErrorPage bool `split_words:"true" default:"false"`
}

type AssetConfig struct {
	Dir           string `default:"asset"`
	BrandingImage string `split_words:"true" default:"data-science.png"`
}

type LoggerConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"`
}

type SecurityConfig struct {
	RateLimitEnabled bool     `split_words:"true" default:"true"`
	RateLimitRPS     int      `split_words:"true" default:"100"`
	RateLimitBurst   int      `split_words:"true" default:"10"`
	AllowedOrigins   []string `split_words:"true" default:"http://localhost:8084"`
	TrustedProxies   []string `split_words:"true" default:"127.0.0.1"`
}

type MetricsConfig struct {
	Enabled bool `default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path cannot be empty")
	}

	if c.Dataset.LoadTimeout <= 0 {
		return fmt.Errorf("dataset load timeout must be positive")
	}

	if c.Dataset.PreviewRows < 0 {
		return fmt.Errorf("dataset preview rows cannot be negative")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
