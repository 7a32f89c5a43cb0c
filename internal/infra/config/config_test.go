package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 14, cfg.Personalization.LookbackDays)
	require.Equal(t, 6, cfg.Personalization.ProductLimit)
	require.Equal(t, "/mcp", cfg.MCP.EndpointPath)
	require.Equal(t, CatalogSourceStatic, cfg.Catalog.Source)
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  address: ":9090"
  publicHost: "skin.example.com"
personalization:
  lookbackDays: 21
valkey:
  enabled: true
  addr: "localhost:6379"
  productCacheTtl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("PORT", "")
	t.Setenv("PERSONALIZATION_PRODUCT_LIMIT", "3")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://chatgpt.com, https://claude.ai")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "skin.example.com", cfg.HTTP.PublicHost)
	require.Equal(t, 21, cfg.Personalization.LookbackDays)
	require.Equal(t, 3, cfg.Personalization.ProductLimit)
	require.Equal(t, time.Minute, cfg.Valkey.ProductCacheTTL)
	require.Equal(t, []string{"https://chatgpt.com", "https://claude.ai"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestPortOverride(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("PORT", "3000")
	applyEnvOverrides(cfg)
	require.Equal(t, ":3000", cfg.HTTP.Address)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":         func(c *Config) { c.HTTP.Address = "" },
		"zero lookback":         func(c *Config) { c.Personalization.LookbackDays = 0 },
		"negative product cap":  func(c *Config) { c.Personalization.ProductLimit = -1 },
		"valkey without addr":   func(c *Config) { c.Valkey.Enabled = true },
		"unknown catalog":       func(c *Config) { c.Catalog.Source = "csv" },
		"postgres catalog only": func(c *Config) { c.Catalog.Source = CatalogSourcePostgres },
		"relative mcp path":     func(c *Config) { c.MCP.EndpointPath = "mcp" },
		"zero rate limit":       func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
