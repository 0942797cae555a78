// Package auth resolves credential contexts for Atlassian services and
// caches the per-context API fetchers.
//
// A credential context is scoped to one request (multi-tenant HTTP) or to
// the whole process (stdio). It is never persisted.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"mcpatlassian/internal/tools"
)

// Mode identifies how a credential context authenticates.
type Mode int

const (
	// ModePersonalToken authenticates with a personal access token sent
	// as a Bearer header (Jira/Confluence Server and Data Center).
	ModePersonalToken Mode = iota
	// ModeBasicToken authenticates with username + API token via HTTP
	// basic auth (Atlassian Cloud).
	ModeBasicToken
	// ModeOAuth authenticates with an OAuth 2.0 access token.
	ModeOAuth
)

func (m Mode) String() string {
	switch m {
	case ModePersonalToken:
		return "personal_token"
	case ModeBasicToken:
		return "basic"
	case ModeOAuth:
		return "oauth"
	default:
		return "unknown"
	}
}

// Context is one resolved credential context: everything needed to build an
// authenticated client for one service on behalf of one identity.
type Context struct {
	Service  tools.Service
	Mode     Mode
	BaseURL  string
	Username string // basic auth only
	Secret   string // API token, PAT, or OAuth access token
	CloudID  string // optional X-Atlassian-Cloud-Id forwarded by the client
}

// Fingerprint returns a stable cache key derived from the full credential
// context. Two contexts share a fetcher only if every field matches;
// keying by service name alone would leak one tenant's client to another.
func (c Context) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s",
		c.Service, c.Mode, c.BaseURL, c.Username, c.Secret, c.CloudID)
	return hex.EncodeToString(h.Sum(nil))
}

// HTTPClient returns an http.Client whose transport injects this context's
// authentication headers into every request.
func (c Context) HTTPClient() *http.Client {
	return &http.Client{
		Transport: &authenticatedTransport{
			base:  http.DefaultTransport,
			creds: c,
		},
	}
}

// authenticatedTransport adds authentication headers without mutating the
// caller's request.
type authenticatedTransport struct {
	base  http.RoundTripper
	creds Context
}

func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())

	switch t.creds.Mode {
	case ModeBasicToken:
		cloned.SetBasicAuth(t.creds.Username, t.creds.Secret)
	case ModePersonalToken, ModeOAuth:
		cloned.Header.Set("Authorization", "Bearer "+t.creds.Secret)
	}
	if t.creds.CloudID != "" {
		cloned.Header.Set("X-Atlassian-Cloud-Id", t.creds.CloudID)
	}

	return t.base.RoundTrip(cloned)
}

// AuthConfigurationError reports that no valid credential combination is
// available for a service. It is fatal at startup in single-tenant mode
// and fatal to the individual request in multi-tenant mode.
type AuthConfigurationError struct {
	Service tools.Service
	Reason  string
}

func (e *AuthConfigurationError) Error() string {
	return fmt.Sprintf("auth configuration error for %s: %s", e.Service, e.Reason)
}
