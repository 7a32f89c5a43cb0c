package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/skinguide/internal/domain/auth"
	"github.com/yanqian/skinguide/internal/infra/config"
	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2}, func() time.Time { return now })

	_, ok := limiter.allow("10.0.0.1")
	require.True(t, ok)
	_, ok = limiter.allow("10.0.0.1")
	require.True(t, ok)
	wait, ok := limiter.allow("10.0.0.1")
	require.False(t, ok)
	require.InDelta(t, float64(time.Second), float64(wait), float64(time.Millisecond))

	_, ok = limiter.allow("10.0.0.2")
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = limiter.allow("10.0.0.1")
	require.True(t, ok)

	now = now.Add(10 * time.Minute)
	_, ok = limiter.allow("10.0.0.3")
	require.True(t, ok)
	require.NotContains(t, limiter.visitors, "10.0.0.1")
}

func TestRateLimitMiddlewareSetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(errorHandlingMiddleware(newTestLogger()), rateLimitMiddleware(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}, newTestLogger()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.NotEmpty(t, second.Header().Get("Retry-After"))
	errBody := decodeErrorBody(t, second.Body.Bytes())
	require.Equal(t, "rate_limit_exceeded", errBody["error"]["code"])
}

func TestRequireIdentityReportsVerifierOutage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	outage := verifierFunc(func(context.Context, string) (auth.Identity, error) {
		return auth.Identity{}, apperrors.Wrap(apperrors.CodeAuth, "token verification unavailable", errors.New("tokeninfo 502"))
	})
	router.Use(errorHandlingMiddleware(newTestLogger()), requireIdentity(outage, func(*gin.Context) string { return "" }))
	router.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, currentUserID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer opaque")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, apperrors.CodeAuth, errBody["error"]["code"])
}

type verifierFunc func(ctx context.Context, token string) (auth.Identity, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (auth.Identity, error) {
	return f(ctx, token)
}

func TestDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.Wrap(apperrors.CodeInvalidInput, "bad focus", nil), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{apperrors.Wrap(apperrors.CodeAuthRequired, "sign in", nil), http.StatusUnauthorized, apperrors.CodeAuthRequired},
		{apperrors.Wrap(apperrors.CodeStore, "failed to fetch skin logs", errors.New("conn refused")), http.StatusServiceUnavailable, apperrors.CodeStore},
		{apperrors.Wrap(apperrors.CodeNotFound, "unknown tool", nil), http.StatusNotFound, apperrors.CodeNotFound},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		got := asHTTPError(tc.err)
		require.Equal(t, tc.status, got.Status, tc.err.Error())
		require.Equal(t, tc.code, got.Code)
	}

	storeErr := domainError(apperrors.Wrap(apperrors.CodeStore, "failed to fetch skin logs", errors.New("conn refused")))
	require.Equal(t, "failed to fetch skin logs", storeErr.Message)
}
