package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 12.0, cfg.Audit.TimeoutSeconds)
	require.Equal(t, "FlowOptSiteAudit/0.1 (+https://www.flowopt.nl)", cfg.Audit.UserAgent)
	require.Equal(t, 4, cfg.Audit.BatchConcurrency)
	require.Equal(t, 25, cfg.Audit.MaxBatchURLs)
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Logging.Development)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
audit:
  timeout_seconds: 3.5
  user_agent: custom-agent/1.0
server:
  port: 9090
logging:
  development: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3.5, cfg.Audit.TimeoutSeconds)
	require.Equal(t, "custom-agent/1.0", cfg.Audit.UserAgent)
	require.Equal(t, 9090, cfg.Server.Port)
	require.False(t, cfg.Logging.Development)
	// Untouched keys keep their defaults.
	require.Equal(t, 4, cfg.Audit.BatchConcurrency)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Audit: AuditConfig{
			TimeoutSeconds:   12,
			UserAgent:        "ua",
			BatchConcurrency: 4,
			MaxBatchURLs:     25,
		},
		Server: ServerConfig{Port: 8080},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero timeout", mutate: func(c *Config) { c.Audit.TimeoutSeconds = 0 }},
		{name: "empty user agent", mutate: func(c *Config) { c.Audit.UserAgent = "" }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Audit.BatchConcurrency = 0 }},
		{name: "zero batch limit", mutate: func(c *Config) { c.Audit.MaxBatchURLs = 0 }},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestTimeout(t *testing.T) {
	cfg := Config{Audit: AuditConfig{TimeoutSeconds: 2.5}}
	require.Equal(t, 2500*time.Millisecond, cfg.Timeout())
}
