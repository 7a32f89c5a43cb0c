package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2/google"

	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

const (
	googleIssuerURL     = "https://accounts.google.com"
	defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

// SupportedScopes are advertised in the protected resource metadata.
var SupportedScopes = []string{"openid", "email", "profile"}

// ResourceMetadata is the OAuth protected resource document.
type ResourceMetadata struct {
	Resource             string   `json:"resource"`
	AuthorizationServers []string `json:"authorization_servers"`
	ScopesSupported      []string `json:"scopes_supported"`
}

// NewResourceMetadata describes resource as protected by Google sign-in.
func NewResourceMetadata(resource string) ResourceMetadata {
	return ResourceMetadata{
		Resource:             resource,
		AuthorizationServers: []string{GoogleAuthorizationServer()},
		ScopesSupported:      append([]string(nil), SupportedScopes...),
	}
}

// GoogleAuthorizationServer is the issuer origin of Google's OAuth endpoint.
func GoogleAuthorizationServer() string {
	u, err := url.Parse(google.Endpoint.AuthURL)
	if err != nil || u.Host == "" {
		return googleIssuerURL
	}
	return u.Scheme + "://" + u.Host
}

// OIDCVerifier accepts Google ID tokens issued to the configured client.
type OIDCVerifier struct {
	clientID string
	issuer   string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier returns nil when no Google client id is configured.
func NewOIDCVerifier(cfg Config) *OIDCVerifier {
	if strings.TrimSpace(cfg.GoogleClientID) == "" {
		return nil
	}
	return &OIDCVerifier{clientID: cfg.GoogleClientID, issuer: googleIssuerURL}
}

type googleClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func (v *OIDCVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	verifier, err := v.idTokenVerifier(ctx)
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "failed to initialize oidc provider", err)
	}
	idToken, err := verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "failed to verify id token", err)
	}
	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "failed to parse id token claims", err)
	}
	if claims.Subject == "" {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "missing subject in id token", nil)
	}
	return Identity{Subject: claims.Subject, Email: claims.Email, Provider: ProviderGoogle}, nil
}

// idTokenVerifier discovers the provider on first use and retries after a failed discovery.
func (v *OIDCVerifier) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.verifier != nil {
		return v.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return nil, err
	}
	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.clientID})
	return v.verifier, nil
}

// TokenInfoVerifier validates opaque Google access tokens with the tokeninfo endpoint.
type TokenInfoVerifier struct {
	endpoint string
	clientID string
	client   *http.Client
}

// NewTokenInfoVerifier builds a verifier against cfg.TokenInfoURL, defaulting to Google's.
func NewTokenInfoVerifier(cfg Config, client *http.Client) *TokenInfoVerifier {
	endpoint := strings.TrimSpace(cfg.TokenInfoURL)
	if endpoint == "" {
		endpoint = defaultTokenInfoURL
	}
	if client == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &TokenInfoVerifier{endpoint: endpoint, clientID: cfg.GoogleClientID, client: client}
}

type tokenInfo struct {
	Subject          string `json:"sub"`
	Email            string `json:"email"`
	Audience         string `json:"aud"`
	ErrorDescription string `json:"error_description"`
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	endpoint, err := url.Parse(v.endpoint)
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "invalid tokeninfo url", err)
	}
	query := endpoint.Query()
	query.Set("access_token", token)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "failed to build tokeninfo request", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "tokeninfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, fmt.Sprintf("tokeninfo returned status %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, fmt.Sprintf("tokeninfo rejected token with status %d", resp.StatusCode), nil)
	}
	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "failed to decode tokeninfo response", err)
	}
	if info.ErrorDescription != "" {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, info.ErrorDescription, nil)
	}
	if info.Subject == "" {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "tokeninfo response missing subject", nil)
	}
	if v.clientID != "" && info.Audience != "" && info.Audience != v.clientID {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token issued to another client", nil)
	}
	return Identity{Subject: info.Subject, Email: info.Email, Provider: ProviderGoogle}, nil
}

var (
	_ Verifier = (*OIDCVerifier)(nil)
	_ Verifier = (*TokenInfoVerifier)(nil)
)
