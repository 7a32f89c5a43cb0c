package auth

import "time"

// Config drives bearer token verification.
type Config struct {
	JWTSecret      string
	JWTIssuer      string
	GoogleClientID string
	TokenInfoURL   string
	HTTPTimeout    time.Duration
}

// Provider names recorded on an Identity.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// Identity is the authenticated caller behind a bearer token.
type Identity struct {
	Subject  string `json:"sub"`
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider"`
}

// UserID is the stable key under which the caller's data is stored.
func (i Identity) UserID() string {
	return i.Subject
}
