// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Audit   AuditConfig   `mapstructure:"audit"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AuditConfig governs the fetcher and batch behavior of audit runs.
type AuditConfig struct {
	TimeoutSeconds   float64 `mapstructure:"timeout_seconds"`
	UserAgent        string  `mapstructure:"user_agent"`
	BatchConcurrency int     `mapstructure:"batch_concurrency"`
	MaxBatchURLs     int     `mapstructure:"max_batch_urls"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional file plus environment variables
// (prefix SITEAUDIT, dots replaced with underscores).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITEAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("audit.timeout_seconds", 12.0)
	v.SetDefault("audit.user_agent", "FlowOptSiteAudit/0.1 (+https://www.flowopt.nl)")
	v.SetDefault("audit.batch_concurrency", 4)
	v.SetDefault("audit.max_batch_urls", 25)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Audit.TimeoutSeconds <= 0 {
		return fmt.Errorf("audit.timeout_seconds must be > 0")
	}
	if c.Audit.UserAgent == "" {
		return fmt.Errorf("audit.user_agent must be set")
	}
	if c.Audit.BatchConcurrency <= 0 {
		return fmt.Errorf("audit.batch_concurrency must be > 0")
	}
	if c.Audit.MaxBatchURLs <= 0 {
		return fmt.Errorf("audit.max_batch_urls must be > 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// Timeout converts the configured per-request timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Audit.TimeoutSeconds * float64(time.Second))
}
