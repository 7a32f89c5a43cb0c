package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// ChainVerifier tries each verifier in order and returns the first identity accepted.
// The token is rejected as invalid only when every verifier rejected it outright.
type ChainVerifier struct {
	verifiers []Verifier
	logger    *slog.Logger
}

// NewChainVerifier builds a chain over verifiers in priority order.
func NewChainVerifier(logger *slog.Logger, verifiers ...Verifier) *ChainVerifier {
	chain := &ChainVerifier{logger: logger.With("component", "auth.verifier")}
	for _, v := range verifiers {
		if v != nil {
			chain.verifiers = append(chain.verifiers, v)
		}
	}
	return chain
}

func (c *ChainVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	if len(c.verifiers) == 0 {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "no token verifier configured", nil)
	}
	var (
		errs        []error
		unavailable bool
	)
	for _, v := range c.verifiers {
		identity, err := v.Verify(ctx, token)
		if err == nil {
			c.logger.Debug("token verified", "provider", identity.Provider, "subject", identity.Subject)
			return identity, nil
		}
		if !apperrors.IsCode(err, apperrors.CodeInvalidToken) {
			c.logger.Warn("token verifier failed", "error", err)
			unavailable = true
		}
		errs = append(errs, err)
	}
	// A verifier that could not answer might have accepted the token.
	if unavailable {
		return Identity{}, apperrors.Wrap(apperrors.CodeAuth, "token verification unavailable", errors.Join(errs...))
	}
	return Identity{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token rejected", errors.Join(errs...))
}

var _ Verifier = (*ChainVerifier)(nil)
