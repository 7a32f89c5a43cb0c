package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skinguide/internal/domain/auth"
	"github.com/yanqian/skinguide/internal/infra/config"
	"github.com/yanqian/skinguide/internal/interface/mcpserver"
	"github.com/yanqian/skinguide/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(
	cfg *config.Config,
	handler *Handler,
	mcp *mcpserver.Server,
	verifier auth.Verifier,
	recorder *metrics.Recorder,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	router.GET("/.well-known/oauth-protected-resource", handler.ResourceMetadata)
	router.GET("/metrics", gin.WrapH(recorder.Handler()))

	limited := router.Group("", rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))

	mcpHandler := gin.WrapH(mcp.Handler())
	mcpGroup := limited.Group("", optionalIdentity(verifier, handler.logger))
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		mcpGroup.Handle(method, mcp.EndpointPath(), mcpHandler)
	}

	api := limited.Group("/api/v1", requireIdentity(verifier, handler.resourceMetadataURL))
	{
		api.POST("/skin-logs", handler.LogSkin)
		api.GET("/skin-logs", handler.SkinHistory)
		api.POST("/routines/personalized", handler.PersonalizedRoutine)
	}

	retryCfg := cfg.HTTP.Retry
	retryCfg.Exclude = append(append([]string(nil), retryCfg.Exclude...), mcp.EndpointPath())

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, retryCfg, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
