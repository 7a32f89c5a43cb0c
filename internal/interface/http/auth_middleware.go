package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skinguide/internal/domain/auth"
	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

// optionalIdentity attaches the caller identity when a valid bearer token is present.
// Anonymous or unverifiable requests pass through so public tools keep working.
func optionalIdentity(verifier auth.Verifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || verifier == nil {
			c.Next()
			return
		}
		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("ignoring unverified bearer token", "path", c.Request.URL.Path, "error", err)
			c.Next()
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}

// requireIdentity rejects requests without a verifiable bearer token.
func requireIdentity(verifier auth.Verifier, metadataURL func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			challenge(c, metadataURL(c))
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeAuthRequired, "missing authorization header", nil))
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			challenge(c, metadataURL(c))
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeAuthRequired, "invalid authorization header", nil))
			return
		}
		if verifier == nil {
			abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, apperrors.CodeAuth, "no token verifier configured", nil))
			return
		}
		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			status := http.StatusForbidden
			code := apperrors.CodeInvalidToken
			if !apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				status = http.StatusInternalServerError
				code = apperrors.CodeAuth
			}
			abortWithError(c, NewHTTPError(status, code, apperrors.MessageOf(err), err))
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func challenge(c *gin.Context, metadataURL string) {
	c.Header("WWW-Authenticate", fmt.Sprintf(`Bearer resource_metadata=%q, error="insufficient_scope", error_description="Sign in required to continue"`, metadataURL))
}
