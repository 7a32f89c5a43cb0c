package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	CatalogSourceStatic   = "static"
	CatalogSourcePostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP            HTTPConfig            `yaml:"http"`
	Auth            AuthConfig            `yaml:"auth"`
	Postgres        PostgresConfig        `yaml:"postgres"`
	Valkey          ValkeyConfig          `yaml:"valkey"`
	Personalization PersonalizationConfig `yaml:"personalization"`
	Catalog         CatalogConfig         `yaml:"catalog"`
	MCP             MCPConfig             `yaml:"mcp"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	PublicHost     string          `yaml:"publicHost"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for REST writes that hit a transient store failure.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig lists the bearer token verifiers to enable.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwtSecret"`
	JWTIssuer      string        `yaml:"jwtIssuer"`
	GoogleClientID string        `yaml:"googleClientId"`
	TokenInfoURL   string        `yaml:"tokenInfoUrl"`
	HTTPTimeout    time.Duration `yaml:"httpTimeout"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects in-memory storage.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the product search cache.
type ValkeyConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Addr            string        `yaml:"addr"`
	ProductCacheTTL time.Duration `yaml:"productCacheTtl"`
}

// PersonalizationConfig tunes the routine generator.
type PersonalizationConfig struct {
	LookbackDays int `yaml:"lookbackDays"`
	ProductLimit int `yaml:"productLimit"`
}

// CatalogConfig selects where product search reads from.
type CatalogConfig struct {
	Source string `yaml:"source"`
}

// MCPConfig describes the MCP server identity and mount point.
type MCPConfig struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	EndpointPath string `yaml:"endpointPath"`
	Stateless    bool   `yaml:"stateless"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	// PORT applies only when HTTP_ADDRESS is unset.
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("PUBLIC_HOST"); v != "" {
		cfg.HTTP.PublicHost = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_JWT_ISSUER"); v != "" {
		cfg.Auth.JWTIssuer = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_TOKENINFO_URL"); v != "" {
		cfg.Auth.TokenInfoURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("PRODUCT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Valkey.ProductCacheTTL = parsed
		}
	}
	if v := os.Getenv("PERSONALIZATION_LOOKBACK_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Personalization.LookbackDays = parsed
		}
	}
	if v := os.Getenv("PERSONALIZATION_PRODUCT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Personalization.ProductLimit = parsed
		}
	}
	if v := os.Getenv("CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("MCP_ENDPOINT_PATH"); v != "" {
		cfg.MCP.EndpointPath = v
	}
	if v := os.Getenv("MCP_STATELESS"); v != "" {
		cfg.MCP.Stateless = parseBool(v)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/mcp",
				},
			},
		},
		Auth: AuthConfig{
			TokenInfoURL: "https://oauth2.googleapis.com/tokeninfo",
			HTTPTimeout:  5 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled:         false,
			ProductCacheTTL: 10 * time.Minute,
		},
		Personalization: PersonalizationConfig{
			LookbackDays: 14,
			ProductLimit: 6,
		},
		Catalog: CatalogConfig{
			Source: CatalogSourceStatic,
		},
		MCP: MCPConfig{
			Name:         "kbeauty-skin-guide",
			Version:      "1.0.0",
			EndpointPath: "/mcp",
			Stateless:    true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Auth.HTTPTimeout < 0 {
		return errors.New("auth.httpTimeout cannot be negative")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when the product cache is enabled")
	}
	if c.Valkey.ProductCacheTTL < 0 {
		return errors.New("valkey.productCacheTtl cannot be negative")
	}
	if c.Personalization.LookbackDays <= 0 {
		return errors.New("personalization.lookbackDays must be positive")
	}
	if c.Personalization.ProductLimit < 0 {
		return errors.New("personalization.productLimit cannot be negative")
	}
	switch c.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourcePostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("postgres.dsn is required when catalog.source is postgres")
		}
	default:
		return fmt.Errorf("catalog.source must be %q or %q", CatalogSourceStatic, CatalogSourcePostgres)
	}
	if strings.TrimSpace(c.MCP.Name) == "" {
		return errors.New("mcp.name cannot be empty")
	}
	if !strings.HasPrefix(c.MCP.EndpointPath, "/") {
		return errors.New("mcp.endpointPath must start with /")
	}
	return nil
}
