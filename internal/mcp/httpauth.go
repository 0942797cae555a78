package mcp

import (
	"context"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"mcpatlassian/internal/auth"
	"mcpatlassian/internal/logging"
)

const cloudIDHeader = "X-Atlassian-Cloud-Id"

// RequestContextFunc extracts per-request Atlassian credentials from HTTP
// headers into the request context. "Bearer <token>" carries an OAuth
// access token, "Token <token>" a personal access token; either may be
// combined with X-Atlassian-Cloud-Id. Requests without an Authorization
// header fall through to the server's environment credentials.
func RequestContextFunc(logger *logging.AppLogger) server.HTTPContextFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		scope := scopeFromRequest(r)
		if scope == nil {
			return ctx
		}
		logger.Debug("Request carries its own credentials",
			"mode", scope.Mode.String(),
			"cloud_id", scope.CloudID,
		)
		return auth.WithScope(ctx, scope)
	}
}

func scopeFromRequest(r *http.Request) *auth.RequestScope {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil
	}

	var mode auth.Mode
	var token string
	switch {
	case strings.HasPrefix(header, "Bearer "):
		mode = auth.ModeOAuth
		token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	case strings.HasPrefix(header, "Token "):
		mode = auth.ModePersonalToken
		token = strings.TrimSpace(strings.TrimPrefix(header, "Token "))
	default:
		return nil
	}

	if token == "" {
		return nil
	}

	return &auth.RequestScope{
		Mode:    mode,
		Token:   token,
		CloudID: strings.TrimSpace(r.Header.Get(cloudIDHeader)),
	}
}

// RequireValidAuthHeader rejects requests whose Authorization header uses
// a recognized scheme with an empty token. A missing header is allowed,
// since the server may hold environment credentials of its own.
func RequireValidAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if hasEmptyToken(header, "Bearer ") || hasEmptyToken(header, "Token ") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized","message":"Empty token provided in Authorization header"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hasEmptyToken(header, scheme string) bool {
	if !strings.HasPrefix(header, scheme) {
		// A bare scheme with no trailing space is also an empty token.
		return header == strings.TrimSpace(scheme)
	}
	return strings.TrimSpace(strings.TrimPrefix(header, scheme)) == ""
}
