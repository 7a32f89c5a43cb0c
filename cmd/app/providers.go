package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/skinguide/internal/domain/auth"
	"github.com/yanqian/skinguide/internal/domain/catalog"
	"github.com/yanqian/skinguide/internal/domain/personalization"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	"github.com/yanqian/skinguide/internal/infra/config"
	"github.com/yanqian/skinguide/internal/infra/productcache"
	"github.com/yanqian/skinguide/internal/infra/productrepo"
	"github.com/yanqian/skinguide/internal/infra/skinlogrepo"
	"github.com/yanqian/skinguide/internal/interface/mcpserver"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		JWTSecret:      cfg.Auth.JWTSecret,
		JWTIssuer:      cfg.Auth.JWTIssuer,
		GoogleClientID: cfg.Auth.GoogleClientID,
		TokenInfoURL:   cfg.Auth.TokenInfoURL,
		HTTPTimeout:    cfg.Auth.HTTPTimeout,
	}
}

func providePersonalizationConfig(cfg *config.Config) personalization.Config {
	return personalization.Config{
		LookbackDays: cfg.Personalization.LookbackDays,
		ProductLimit: cfg.Personalization.ProductLimit,
	}
}

func provideMCPConfig(cfg *config.Config) mcpserver.Config {
	return mcpserver.Config{
		Name:         cfg.MCP.Name,
		Version:      cfg.MCP.Version,
		EndpointPath: cfg.MCP.EndpointPath,
		Stateless:    cfg.MCP.Stateless,
		PublicHost:   cfg.HTTP.PublicHost,
	}
}

// providePostgresPool returns nil when no DSN is configured or the database is unreachable,
// which selects the in-memory repositories.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, noop
	}
	logger.Info("postgres enabled")
	return pool, pool.Close
}

func provideSkinLogRepository(pool *pgxpool.Pool) skinlog.Repository {
	if pool == nil {
		return skinlogrepo.NewMemoryRepository()
	}
	return skinlogrepo.NewPostgresRepository(pool)
}

func provideCatalogData() (*catalog.Data, error) {
	return catalog.LoadStatic()
}

// provideProductCache prefers Valkey and falls back to process memory; the cleanup closes the client.
func provideProductCache(cfg *config.Config, logger *slog.Logger) (productcache.Cache, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		return productcache.NewMemoryCache(), noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return productcache.NewMemoryCache(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return productcache.NewMemoryCache(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return productcache.NewMemoryCache(), noop
	}
	logger.Info("product valkey cache enabled", "addr", cfg.Valkey.Addr)
	return productcache.NewValkeyCache(client, ""), client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

// provideProductRepository picks the product source and puts the cache in front of it.
func provideProductRepository(cfg *config.Config, pool *pgxpool.Pool, data *catalog.Data, cache productcache.Cache, logger *slog.Logger) catalog.ProductRepository {
	var repo catalog.ProductRepository = productrepo.NewMemoryRepository(data.Products)
	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		if pool == nil {
			logger.Warn("postgres catalog requested but unavailable, serving the embedded catalog")
		} else {
			repo = productrepo.NewPostgresRepository(pool)
		}
	}
	if cfg.Valkey.ProductCacheTTL <= 0 {
		return repo
	}
	return productcache.NewCachedRepository(repo, cache, cfg.Valkey.ProductCacheTTL, logger)
}

// provideVerifier chains every configured verifier, cheapest first.
func provideVerifier(cfg auth.Config, logger *slog.Logger) auth.Verifier {
	var verifiers []auth.Verifier
	if v := auth.NewJWTVerifier(cfg); v != nil {
		verifiers = append(verifiers, v)
	}
	if v := auth.NewOIDCVerifier(cfg); v != nil {
		verifiers = append(verifiers, v)
	}
	if strings.TrimSpace(cfg.TokenInfoURL) != "" {
		verifiers = append(verifiers, auth.NewTokenInfoVerifier(cfg, nil))
	}
	if len(verifiers) == 0 {
		logger.Warn("no token verifiers configured, skin diary tools will reject every caller")
	}
	return auth.NewChainVerifier(logger, verifiers...)
}
