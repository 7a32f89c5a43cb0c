package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

func TestJWTVerifierRoundTrip(t *testing.T) {
	verifier := NewJWTVerifier(Config{JWTSecret: "test-secret", JWTIssuer: "skinguide"})
	require.NotNil(t, verifier)

	token, err := verifier.Issue("user-42", "user@example.com", time.Hour)
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, Identity{Subject: "user-42", Email: "user@example.com", Provider: ProviderLocal}, identity)
	require.Equal(t, "user-42", identity.UserID())
}

func TestJWTVerifierRejectsExpiredAndForeignTokens(t *testing.T) {
	verifier := NewJWTVerifier(Config{JWTSecret: "test-secret"})
	issuedAt := time.Now().Add(-2 * time.Hour)
	verifier.now = func() time.Time { return issuedAt }
	expired, err := verifier.Issue("user-1", "", time.Hour)
	require.NoError(t, err)
	verifier.now = time.Now

	_, err = verifier.Verify(context.Background(), expired)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	other := NewJWTVerifier(Config{JWTSecret: "other-secret"})
	foreign, err := other.Issue("user-1", "", time.Hour)
	require.NoError(t, err)
	_, err = verifier.Verify(context.Background(), foreign)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	require.Nil(t, NewJWTVerifier(Config{}))
}

func TestTokenInfoVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("access_token") {
		case "good":
			_, _ = w.Write([]byte(`{"sub":"1234","email":"a@b.com","aud":"client-1"}`))
		case "other-client":
			_, _ = w.Write([]byte(`{"sub":"1234","aud":"client-2"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid Value"}`))
		}
	}))
	defer server.Close()

	verifier := NewTokenInfoVerifier(Config{TokenInfoURL: server.URL, GoogleClientID: "client-1"}, server.Client())

	identity, err := verifier.Verify(context.Background(), "good")
	require.NoError(t, err)
	require.Equal(t, Identity{Subject: "1234", Email: "a@b.com", Provider: ProviderGoogle}, identity)

	_, err = verifier.Verify(context.Background(), "other-client")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = verifier.Verify(context.Background(), "bad")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestChainVerifierFallsThrough(t *testing.T) {
	jwtVerifier := NewJWTVerifier(Config{JWTSecret: "test-secret"})
	google := stubVerifier{identity: Identity{Subject: "g-1", Provider: ProviderGoogle}}
	chain := NewChainVerifier(newTestLogger(), jwtVerifier, google)

	identity, err := chain.Verify(context.Background(), "opaque-google-token")
	require.NoError(t, err)
	require.Equal(t, "g-1", identity.Subject)

	token, err := jwtVerifier.Issue("local-1", "", time.Minute)
	require.NoError(t, err)
	identity, err = chain.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, ProviderLocal, identity.Provider)

	rejecting := NewChainVerifier(newTestLogger(), stubVerifier{err: apperrors.Wrap(apperrors.CodeInvalidToken, "nope", nil)})
	_, err = rejecting.Verify(context.Background(), "x")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = chain.Verify(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = NewChainVerifier(newTestLogger()).Verify(context.Background(), "x")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuth))
}

func TestChainVerifierReportsOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	jwtVerifier := NewJWTVerifier(Config{JWTSecret: "test-secret"})
	tokenInfo := NewTokenInfoVerifier(Config{TokenInfoURL: server.URL}, server.Client())
	chain := NewChainVerifier(newTestLogger(), jwtVerifier, tokenInfo)

	_, err := chain.Verify(context.Background(), "opaque-google-token")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuth), "got %v", err)

	token, err := jwtVerifier.Issue("local-1", "", time.Minute)
	require.NoError(t, err)
	identity, err := chain.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "local-1", identity.Subject)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	require.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{Subject: "u1"})
	identity, ok := IdentityFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", identity.Subject)
}

func TestResourceMetadata(t *testing.T) {
	meta := NewResourceMetadata("https://skin.example.com")
	require.Equal(t, []string{"https://accounts.google.com"}, meta.AuthorizationServers)
	require.Equal(t, []string{"openid", "email", "profile"}, meta.ScopesSupported)
}

type stubVerifier struct {
	identity Identity
	err      error
}

func (s stubVerifier) Verify(context.Context, string) (Identity, error) {
	if s.err != nil {
		return Identity{}, s.err
	}
	if s.identity.Subject == "" {
		return Identity{}, errors.New("unexpected call")
	}
	return s.identity, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
