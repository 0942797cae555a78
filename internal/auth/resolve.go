package auth

import (
	"mcpatlassian/internal/config"
	"mcpatlassian/internal/tools"
)

// RequestScope carries credentials forwarded by a single HTTP request.
// It overrides process-wide configuration for that request only.
type RequestScope struct {
	// Mode is how the forwarded token authenticates: ModePersonalToken
	// for "Authorization: Token <pat>", ModeOAuth for
	// "Authorization: Bearer <token>".
	Mode Mode
	// Token is the forwarded secret. Empty means the request carried no
	// credentials and the process configuration applies.
	Token string
	// CloudID is the optional X-Atlassian-Cloud-Id header value.
	CloudID string
}

// Resolve derives the credential context for one service invocation.
//
// Request-scoped credentials, when present, always win. Otherwise the
// configured modes apply with a fixed precedence:
//
//	personal access token > username + API token (basic) > OAuth
//
// The precedence is deliberate and load-bearing: when several modes are
// configured at once, picking the wrong one would silently authenticate as
// a different identity. Changing this order is a breaking change.
//
// Returns *AuthConfigurationError when no usable combination exists.
func Resolve(service tools.Service, svc config.ServiceConfig, scope *RequestScope) (Context, error) {
	if svc.URL == "" {
		return Context{}, &AuthConfigurationError{Service: service, Reason: "no base URL configured"}
	}

	if scope != nil && scope.Token != "" {
		return Context{
			Service: service,
			Mode:    scope.Mode,
			BaseURL: svc.URL,
			Secret:  scope.Token,
			CloudID: scope.CloudID,
		}, nil
	}

	switch {
	case svc.PersonalToken != "":
		return Context{
			Service: service,
			Mode:    ModePersonalToken,
			BaseURL: svc.URL,
			Secret:  svc.PersonalToken,
		}, nil
	case svc.Username != "" && svc.APIToken != "":
		return Context{
			Service:  service,
			Mode:     ModeBasicToken,
			BaseURL:  svc.URL,
			Username: svc.Username,
			Secret:   svc.APIToken,
		}, nil
	case svc.OAuthToken != "":
		return Context{
			Service: service,
			Mode:    ModeOAuth,
			BaseURL: svc.URL,
			Secret:  svc.OAuthToken,
		}, nil
	}

	return Context{}, &AuthConfigurationError{
		Service: service,
		Reason:  "no credentials configured (set a personal token, username + API token, or OAuth token)",
	}
}
