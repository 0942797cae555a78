package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpatlassian/internal/auth"
	"mcpatlassian/internal/config"
	"mcpatlassian/internal/logging"
	"mcpatlassian/internal/tools"
)

func findDef(t *testing.T, name string) toolDef {
	t.Helper()
	for _, def := range append(jiraToolDefs(), confluenceToolDefs()...) {
		if def.desc.Name == name {
			return def
		}
	}
	t.Fatalf("no tool definition named %s", name)
	return toolDef{}
}

func callRequest(name string, args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestCheckAvailableDistinguishesMissingFromFiltered(t *testing.T) {
	cfg := &config.Config{EnabledTools: []string{"jira_get_issue"}}
	s := newTestServer(t, cfg, bothServices())
	ctx := context.Background()

	// Registered but filtered out by the allow-list.
	err := s.CheckAvailable(ctx, "jira_search")
	assert.ErrorIs(t, err, tools.ErrToolNotAvailable)

	// Never registered at all.
	err = s.CheckAvailable(ctx, "jira_frobnicate")
	assert.ErrorIs(t, err, tools.ErrNotFound)
	assert.False(t, errors.Is(err, tools.ErrToolNotAvailable))

	assert.NoError(t, s.CheckAvailable(ctx, "jira_get_issue"))
}

func TestDispatchFilteredToolReturnsErrorResult(t *testing.T) {
	cfg := &config.Config{ReadOnly: true}
	s := newTestServer(t, cfg, bothServices())

	def := findDef(t, "jira_delete_issue")
	handler := s.dispatch(def.desc)

	result, err := handler(context.Background(), callRequest("jira_delete_issue", map[string]any{"issue_key": "PROJ-1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not available")
}

func TestDispatchMissingCredentialsReturnsAuthError(t *testing.T) {
	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: "https://jira.example.com"},
	}
	s := newTestServer(t, cfg, bothServices())

	def := findDef(t, "jira_get_issue")
	handler := s.dispatch(def.desc)

	result, err := handler(context.Background(), callRequest("jira_get_issue", map[string]any{"issue_key": "PROJ-1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "jira")
}

func TestDispatchJiraGetIssue(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/rest/api/2/issue/PROJ-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":  10001,
			"key": "PROJ-1",
			"fields": map[string]any{
				"summary": "Fix the flaky login test",
				"status":  map[string]any{"name": "In Progress"},
			},
		})
	}))
	defer backend.Close()

	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: backend.URL, PersonalToken: "pat-secret"},
	}
	s := newTestServer(t, cfg, bothServices())

	def := findDef(t, "jira_get_issue")
	handler := s.dispatch(def.desc)

	result, err := handler(context.Background(), callRequest("jira_get_issue", map[string]any{"issue_key": "PROJ-1"}))
	require.NoError(t, err)
	assert.False(t, result.IsError, "unexpected error result: %s", resultText(t, result))

	text := resultText(t, result)
	assert.Contains(t, text, "PROJ-1")
	assert.Contains(t, text, "Fix the flaky login test")
	assert.Equal(t, "Bearer pat-secret", gotAuth)
}

func TestDispatchUpstreamFailureReturnsAPIError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	}))
	defer backend.Close()

	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: backend.URL, PersonalToken: "pat-secret"},
	}
	s := newTestServer(t, cfg, bothServices())

	def := findDef(t, "jira_get_issue")
	handler := s.dispatch(def.desc)

	result, err := handler(context.Background(), callRequest("jira_get_issue", map[string]any{"issue_key": "NOPE-1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "404")
}

func TestDispatchRequestScopeOverridesEnvCredentials(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "key": "PROJ-2", "fields": map[string]any{}})
	}))
	defer backend.Close()

	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: backend.URL, PersonalToken: "env-secret"},
	}
	s := newTestServer(t, cfg, bothServices())

	ctx := auth.WithScope(context.Background(), &auth.RequestScope{
		Mode:  auth.ModeOAuth,
		Token: "scope-secret",
	})

	def := findDef(t, "jira_get_issue")
	handler := s.dispatch(def.desc)

	result, err := handler(ctx, callRequest("jira_get_issue", map[string]any{"issue_key": "PROJ-2"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Bearer scope-secret", gotAuth)
}

func TestDispatchConfluenceCreatePage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/api/content", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "Release notes", payload["title"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "98765",
			"type":  "page",
			"title": "Release notes",
		})
	}))
	defer backend.Close()

	cfg := &config.Config{
		Confluence: config.ServiceConfig{
			URL:      backend.URL,
			Username: "bot@example.com",
			APIToken: "api-secret",
		},
	}
	s := newTestServer(t, cfg, bothServices())

	def := findDef(t, "confluence_create_page")
	handler := s.dispatch(def.desc)

	result, err := handler(context.Background(), callRequest("confluence_create_page", map[string]any{
		"space_key": "DOCS",
		"title":     "Release notes",
		"body":      "<p>hello</p>",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError, "unexpected error result: %s", resultText(t, result))
	assert.Contains(t, resultText(t, result), "98765")
}

func TestDispatchReusesCachedFetcher(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "key": "PROJ-1", "fields": map[string]any{}})
	}))
	defer backend.Close()

	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: backend.URL, PersonalToken: "pat-secret"},
	}
	s := newTestServer(t, cfg, bothServices())

	def := findDef(t, "jira_get_issue")
	handler := s.dispatch(def.desc)
	req := callRequest("jira_get_issue", map[string]any{"issue_key": "PROJ-1"})

	for i := 0; i < 3; i++ {
		_, err := handler(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, s.jiraFetchers.Len())
}

func TestDetectServicesPingSuccess(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/2/myself", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"displayName": "Bot"})
	}))
	defer backend.Close()

	logger, _ := logging.NewTestLogger()
	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: backend.URL, PersonalToken: "pat-secret"},
	}

	services := DetectServices(context.Background(), cfg, logger)
	assert.True(t, services[tools.ServiceJira])
}

func TestDetectServicesPingFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer backend.Close()

	logger, _ := logging.NewTestLogger()
	cfg := &config.Config{
		Jira: config.ServiceConfig{URL: backend.URL, PersonalToken: "bad-secret"},
	}

	services := DetectServices(context.Background(), cfg, logger)
	assert.False(t, services[tools.ServiceJira])
}
