package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skinguide/internal/domain/auth"
	"github.com/yanqian/skinguide/internal/domain/catalog"
	"github.com/yanqian/skinguide/internal/domain/personalization"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	"github.com/yanqian/skinguide/internal/infra/config"
	"github.com/yanqian/skinguide/internal/infra/productrepo"
	"github.com/yanqian/skinguide/internal/infra/skinlogrepo"
	"github.com/yanqian/skinguide/internal/interface/mcpserver"
	apperrors "github.com/yanqian/skinguide/pkg/errors"
	"github.com/yanqian/skinguide/pkg/metrics"
)

const testSecret = "router-test-secret"

func TestRouter_PublicEndpoints(t *testing.T) {
	env := newRouterUnderTest(t, nil)

	rec := env.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "K-Beauty Skin Guide MCP Server", rec.Body.String())

	rec = env.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ResourceMetadata(t *testing.T) {
	env := newRouterUnderTest(t, nil)

	rec := env.do(http.MethodGet, "/.well-known/oauth-protected-resource", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var got auth.ResourceMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "https://skin.example.com", got.Resource)
	require.Equal(t, []string{"https://accounts.google.com"}, got.AuthorizationServers)
	require.Equal(t, []string{"openid", "email", "profile"}, got.ScopesSupported)
}

func TestRouter_Preflight(t *testing.T) {
	env := newRouterUnderTest(t, nil)

	rec := env.do(http.MethodOptions, "/mcp", "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "mcp-session-id")
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRouter_RESTRequiresIdentity(t *testing.T) {
	env := newRouterUnderTest(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/skin-logs", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `resource_metadata="https://skin.example.com/.well-known/oauth-protected-resource"`)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, apperrors.CodeAuthRequired, errBody["error"]["code"])

	rec = env.do(http.MethodGet, "/api/v1/skin-logs", "", "not-a-jwt")
	require.Equal(t, http.StatusForbidden, rec.Code)
	errBody = decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, apperrors.CodeInvalidToken, errBody["error"]["code"])
}

func TestRouter_SkinDiaryFlow(t *testing.T) {
	env := newRouterUnderTest(t, nil)
	token := env.token(t, "user-1")

	rec := env.do(http.MethodPost, "/api/v1/skin-logs", `{"hydration":2,"oiliness":4,"has_breakouts":true,"breakout_areas":[" Chin "]}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var logged skinlog.LogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	require.True(t, logged.Success)
	require.Equal(t, "user-1", logged.Log.UserID)
	require.Equal(t, []string{"chin"}, logged.Log.BreakoutAreas)

	rec = env.do(http.MethodGet, "/api/v1/skin-logs?days=3&limit=5", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var history skinlog.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Equal(t, 1, history.TotalCount)
	require.Equal(t, 3, history.PeriodDays)

	rec = env.do(http.MethodGet, "/api/v1/skin-logs", "", env.token(t, "user-2"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Zero(t, history.TotalCount)
}

func TestRouter_SkinLogInvalidRating(t *testing.T) {
	env := newRouterUnderTest(t, nil)

	rec := env.do(http.MethodPost, "/api/v1/skin-logs", `{"hydration":9}`, env.token(t, "user-1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, apperrors.CodeInvalidInput, errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "hydration")
}

func TestRouter_SkinLogInvalidJSON(t *testing.T) {
	env := newRouterUnderTest(t, nil)

	rec := env.do(http.MethodPost, "/api/v1/skin-logs", `{"hydration":"high"}`, env.token(t, "user-1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_PersonalizedRoutine(t *testing.T) {
	env := newRouterUnderTest(t, nil)
	token := env.token(t, "user-1")

	rec := env.do(http.MethodPost, "/api/v1/routines/personalized", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp personalization.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PersonalizedRoutines, 2)
	require.Zero(t, resp.UserSkinAnalysis.DataQuality.TotalLogs)

	rec = env.do(http.MethodPost, "/api/v1/routines/personalized", `{"routine_type":"evening","include_products":false}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PersonalizedRoutines, 1)
	require.Equal(t, personalization.Evening, resp.PersonalizedRoutines[0].Type)
	require.Empty(t, resp.ProductRecommendations)

	rec = env.do(http.MethodPost, "/api/v1/routines/personalized", `{"focus":"glow"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RetriesStoreOutage(t *testing.T) {
	stub := &flakySkinLogs{failures: 1}
	env := newRouterUnderTest(t, stub)

	rec := env.do(http.MethodPost, "/api/v1/skin-logs", `{"hydration":3}`, env.token(t, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, stub.calls)
	require.Equal(t, 3, *stub.last.Hydration)
}

func TestRouter_RetryGivesUpAfterMaxAttempts(t *testing.T) {
	stub := &flakySkinLogs{failures: 10}
	env := newRouterUnderTest(t, stub)

	rec := env.do(http.MethodPost, "/api/v1/skin-logs", `{"hydration":3}`, env.token(t, "user-1"))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, 3, stub.calls)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, apperrors.CodeStore, errBody["error"]["code"])
}

func TestRouter_MCPIdentityReachesTools(t *testing.T) {
	env := newRouterUnderTest(t, nil)
	token := env.token(t, "user-1")

	rec := env.do(http.MethodPost, "/api/v1/skin-logs", `{"hydration":4}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	call := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_skin_history","arguments":{}}}`

	rec = env.do(http.MethodPost, "/mcp", call, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Please sign in to access your skin diary.")

	rec = env.do(http.MethodPost, "/mcp", call, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_count":1`)
}

type routerEnv struct {
	server   *http.Server
	verifier *auth.JWTVerifier
}

func (e routerEnv) token(t *testing.T, subject string) string {
	t.Helper()
	token, err := e.verifier.Issue(subject, subject+"@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

func (e routerEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, skinLogs skinlog.Service) routerEnv {
	t.Helper()
	logger := newTestLogger()
	data, err := catalog.LoadStatic()
	require.NoError(t, err)

	catalogSvc := catalog.NewService(data, productrepo.NewMemoryRepository(data.Products), logger)
	if skinLogs == nil {
		skinLogs = skinlog.NewService(skinlogrepo.NewMemoryRepository(), logger)
	}
	recorder := metrics.NewRecorder()
	personalizationSvc := personalization.NewService(personalization.Config{}, skinLogs, catalogSvc, recorder, logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			PublicHost:   "skin.example.com",
			Retry: config.RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: time.Millisecond,
			},
		},
	}
	mcpSrv := mcpserver.NewServer(mcpserver.Config{PublicHost: cfg.HTTP.PublicHost, Stateless: true}, catalogSvc, skinLogs, personalizationSvc, recorder, logger)
	verifier := auth.NewJWTVerifier(auth.Config{JWTSecret: testSecret})
	handler := NewHandler(cfg, skinLogs, personalizationSvc, logger)

	return routerEnv{
		server:   NewRouter(cfg, handler, mcpSrv, auth.NewChainVerifier(logger, verifier), recorder),
		verifier: verifier,
	}
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

// flakySkinLogs fails Log with a store error a fixed number of times.
type flakySkinLogs struct {
	failures int
	calls    int
	last     skinlog.LogRequest
}

func (f *flakySkinLogs) Log(_ context.Context, userID string, req skinlog.LogRequest) (skinlog.LogResponse, error) {
	f.calls++
	f.last = req
	if f.calls <= f.failures {
		return skinlog.LogResponse{}, apperrors.Wrap(apperrors.CodeStore, "failed to save skin log", io.ErrUnexpectedEOF)
	}
	return skinlog.LogResponse{Success: true, Log: skinlog.Log{UserID: userID, Hydration: req.Hydration}}, nil
}

func (f *flakySkinLogs) History(context.Context, string, skinlog.HistoryRequest) (skinlog.HistoryResponse, error) {
	return skinlog.HistoryResponse{SkinLogs: []skinlog.Log{}}, nil
}

func (f *flakySkinLogs) FetchSince(context.Context, string, time.Time) ([]skinlog.Log, error) {
	return nil, nil
}
