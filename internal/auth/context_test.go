package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpatlassian/internal/tools"
)

// captureHeaders runs one request through the context's client against a
// local test server and returns the headers the server saw.
func captureHeaders(t *testing.T, creds Context) http.Header {
	t.Helper()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := creds.HTTPClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	return got
}

func TestHTTPClientBasicAuth(t *testing.T) {
	creds := Context{
		Service:  tools.ServiceJira,
		Mode:     ModeBasicToken,
		Username: "user@example.com",
		Secret:   "api-token",
	}

	headers := captureHeaders(t, creds)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("user@example.com:api-token"))
	assert.Equal(t, want, headers.Get("Authorization"))
}

func TestHTTPClientBearerModes(t *testing.T) {
	for _, mode := range []Mode{ModePersonalToken, ModeOAuth} {
		t.Run(mode.String(), func(t *testing.T) {
			creds := Context{Service: tools.ServiceJira, Mode: mode, Secret: "tok-123"}

			headers := captureHeaders(t, creds)
			assert.Equal(t, "Bearer tok-123", headers.Get("Authorization"))
		})
	}
}

func TestHTTPClientCloudIDHeader(t *testing.T) {
	creds := Context{
		Service: tools.ServiceConfluence,
		Mode:    ModeOAuth,
		Secret:  "tok",
		CloudID: "cloud-abc",
	}

	headers := captureHeaders(t, creds)
	assert.Equal(t, "cloud-abc", headers.Get("X-Atlassian-Cloud-Id"))
}

func TestHTTPClientDoesNotMutateOriginalRequest(t *testing.T) {
	creds := Context{Service: tools.ServiceJira, Mode: ModeOAuth, Secret: "tok"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := creds.HTTPClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}
