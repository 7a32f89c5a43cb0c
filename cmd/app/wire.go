//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/skinguide/internal/bootstrap"
	"github.com/yanqian/skinguide/internal/domain/catalog"
	"github.com/yanqian/skinguide/internal/domain/personalization"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	"github.com/yanqian/skinguide/internal/infra/config"
	httpiface "github.com/yanqian/skinguide/internal/interface/http"
	"github.com/yanqian/skinguide/internal/interface/mcpserver"
	"github.com/yanqian/skinguide/pkg/logger"
	"github.com/yanqian/skinguide/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRecorder,
		provideAuthConfig,
		providePersonalizationConfig,
		provideMCPConfig,
		providePostgresPool,
		provideSkinLogRepository,
		provideCatalogData,
		provideProductCache,
		provideProductRepository,
		provideVerifier,
		catalog.NewService,
		skinlog.NewService,
		personalization.NewService,
		wire.Bind(new(personalization.LogStore), new(skinlog.Service)),
		wire.Bind(new(personalization.ProductCatalog), new(catalog.Service)),
		mcpserver.NewServer,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
