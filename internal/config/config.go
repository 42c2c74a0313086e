// Package config loads runtime configuration from an optional config
// file and ORTHOPRICE_* environment variables, env taking precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/orthoprice/orthoprice/internal/store"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Strategy picks the data-access strategy: "remote" or "local".
	Strategy string `mapstructure:"STRATEGY"`
	// BaseURL is the collection API root for the remote strategy.
	BaseURL string `mapstructure:"BASE_URL"`
	// DBPath is the SQLite file backing the local strategy.
	DBPath string `mapstructure:"DB_PATH"`
	// LatencyMS delays every local operation, for exercising the UI
	// against realistic response times. Zero disables it.
	LatencyMS int `mapstructure:"LATENCY_MS"`
	// PageSize is the default table page size.
	PageSize int `mapstructure:"PAGE_SIZE"`
	// Port is where the dev server listens.
	Port string `mapstructure:"PORT"`
}

var keys = []string{"STRATEGY", "BASE_URL", "DB_PATH", "LATENCY_MS", "PAGE_SIZE", "PORT"}

// Load reads configuration, merging defaults, the optional file at
// path (YAML; skipped when empty or absent), and ORTHOPRICE_* env.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ORTHOPRICE")
	v.AutomaticEnv()

	v.SetDefault("STRATEGY", store.StrategyLocal)
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_PATH", "orthoprice.db")
	v.SetDefault("LATENCY_MS", 0)
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("PORT", "8080")

	// Bind explicitly so Unmarshal sees the env values.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can actually open a store.
func (c *Config) Validate() error {
	switch c.Strategy {
	case store.StrategyRemote:
		if c.BaseURL == "" {
			return fmt.Errorf("BASE_URL is required when STRATEGY is %q", store.StrategyRemote)
		}
	case store.StrategyLocal:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required when STRATEGY is %q", store.StrategyLocal)
		}
	default:
		return fmt.Errorf("STRATEGY must be %q or %q, got %q", store.StrategyRemote, store.StrategyLocal, c.Strategy)
	}
	if c.LatencyMS < 0 {
		return fmt.Errorf("LATENCY_MS must not be negative, got %d", c.LatencyMS)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

// StoreOptions maps the configuration to store options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Strategy: c.Strategy,
		BaseURL:  c.BaseURL,
		Path:     c.DBPath,
		Latency:  time.Duration(c.LatencyMS) * time.Millisecond,
	}
}
