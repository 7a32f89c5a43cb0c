package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skinguide/internal/domain/auth"
	"github.com/yanqian/skinguide/internal/domain/personalization"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	"github.com/yanqian/skinguide/internal/infra/config"
)

const banner = "K-Beauty Skin Guide MCP Server"

// Handler wires the REST transport to domain services.
type Handler struct {
	skinLogs        skinlog.Service
	personalization personalization.Service
	publicHost      string
	logger          *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, skinLogs skinlog.Service, personalizationSvc personalization.Service, logger *slog.Logger) *Handler {
	return &Handler{
		skinLogs:        skinLogs,
		personalization: personalizationSvc,
		publicHost:      cfg.HTTP.PublicHost,
		logger:          logger.With("component", "http.handler"),
	}
}

// Root answers the plain text liveness banner.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, banner)
}

// Health reports readiness for load balancers.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ResourceMetadata serves the OAuth protected resource document.
func (h *Handler) ResourceMetadata(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, auth.NewResourceMetadata(h.origin(c)))
}

// LogSkin records today's skin condition for the caller.
func (h *Handler) LogSkin(c *gin.Context) {
	var req skinlog.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.skinLogs.Log(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

type historyQuery struct {
	Days  int `form:"days"`
	Limit int `form:"limit"`
}

// SkinHistory lists the caller's recent logs.
func (h *Handler) SkinHistory(c *gin.Context) {
	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.skinLogs.History(c.Request.Context(), currentUserID(c), skinlog.HistoryRequest{
		Days:  query.Days,
		Limit: query.Limit,
	})
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PersonalizedRoutine builds routines from the caller's diary.
func (h *Handler) PersonalizedRoutine(c *gin.Context) {
	var req personalization.Request
	// An empty body asks for the defaults.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.personalization.Generate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) origin(c *gin.Context) string {
	host := strings.TrimSuffix(h.publicHost, "/")
	if host == "" {
		host = c.Request.Host
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

func (h *Handler) resourceMetadataURL(c *gin.Context) string {
	return h.origin(c) + "/.well-known/oauth-protected-resource"
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
