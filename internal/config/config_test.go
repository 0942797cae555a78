package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearAtlassianEnv unsets every variable this package reads so tests are
// isolated from the developer's shell.
func clearAtlassianEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvJiraURL, EnvJiraUsername, EnvJiraAPIToken, EnvJiraPersonalToken,
		EnvJiraProjectsFilter, EnvConfluenceURL, EnvConfluenceUsername,
		EnvConfluenceAPIToken, EnvConfluencePersonal, EnvOAuthAccessToken,
		EnvEnabledTools, EnvReadOnlyMode,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnvMinimalJira(t *testing.T) {
	clearAtlassianEnv(t)
	t.Setenv(EnvJiraURL, "https://jira.example.com")
	t.Setenv(EnvJiraUsername, "user@example.com")
	t.Setenv(EnvJiraAPIToken, "api-token")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Jira.URL != "https://jira.example.com" {
		t.Errorf("wrong Jira URL: %q", cfg.Jira.URL)
	}
	if !cfg.Jira.HasCredentials() {
		t.Error("expected Jira credentials to be detected")
	}
	if cfg.Confluence.HasCredentials() {
		t.Error("Confluence should have no credentials")
	}
}

func TestFromEnvNoServices(t *testing.T) {
	clearAtlassianEnv(t)

	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error when no service URL is set")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
}

func TestFromEnvInvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing scheme", "jira.example.com"},
		{"bad scheme", "ftp://jira.example.com"},
		{"missing host", "https://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearAtlassianEnv(t)
			t.Setenv(EnvJiraURL, tt.url)

			_, err := FromEnv()
			if err == nil {
				t.Fatalf("expected error for URL %q", tt.url)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigurationError, got %T", err)
			}
		})
	}
}

func TestEnabledToolsParsing(t *testing.T) {
	clearAtlassianEnv(t)
	t.Setenv(EnvJiraURL, "https://jira.example.com")
	t.Setenv(EnvEnabledTools, "jira_search, jira_get_issue ,,confluence_search")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"jira_search", "jira_get_issue", "confluence_search"}
	if len(cfg.EnabledTools) != len(want) {
		t.Fatalf("got %d tools, want %d: %v", len(cfg.EnabledTools), len(want), cfg.EnabledTools)
	}
	for i, name := range want {
		if cfg.EnabledTools[i] != name {
			t.Errorf("tool[%d] = %q, want %q", i, cfg.EnabledTools[i], name)
		}
	}
}

func TestReadOnlyModeParsing(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"1", true, false},
		{"false", false, false},
		{"0", false, false},
		{"definitely", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			clearAtlassianEnv(t)
			t.Setenv(EnvJiraURL, "https://jira.example.com")
			t.Setenv(EnvReadOnlyMode, tt.raw)

			cfg, err := FromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected *ConfigurationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.ReadOnly != tt.want {
				t.Errorf("ReadOnly = %v, want %v", cfg.ReadOnly, tt.want)
			}
		})
	}
}

func TestOAuthTokenCoversBothServices(t *testing.T) {
	clearAtlassianEnv(t)
	t.Setenv(EnvJiraURL, "https://example.atlassian.net")
	t.Setenv(EnvConfluenceURL, "https://example.atlassian.net/wiki")
	t.Setenv(EnvOAuthAccessToken, "oauth-tok")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.OAuthToken != "oauth-tok" || cfg.Confluence.OAuthToken != "oauth-tok" {
		t.Error("OAuth token should apply to both services")
	}
	if !cfg.Jira.HasCredentials() || !cfg.Confluence.HasCredentials() {
		t.Error("OAuth token alone should count as credentials")
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearAtlassianEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `jira:
  url: https://file.example.com
  username: file-user
  api_token: file-token
read_only: true
`
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Environment beats the file.
	t.Setenv(EnvJiraURL, "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.URL != "https://env.example.com" {
		t.Errorf("env should override file, got %q", cfg.Jira.URL)
	}
	if cfg.Jira.Username != "file-user" {
		t.Errorf("file value should survive when env is unset, got %q", cfg.Jira.Username)
	}
	if !cfg.ReadOnly {
		t.Error("read_only from file should be honored")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearAtlassianEnv(t)

	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	withSetting := &ConfigurationError{Setting: EnvReadOnlyMode, Reason: `invalid boolean "definitely"`}
	if got := withSetting.Error(); got != `configuration error for READ_ONLY_MODE: invalid boolean "definitely"` {
		t.Errorf("unexpected message: %q", got)
	}

	withoutSetting := &ConfigurationError{Reason: "no services configured"}
	if got := withoutSetting.Error(); got != "configuration error: no services configured" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestPersonalTokenCountsAsCredentials(t *testing.T) {
	clearAtlassianEnv(t)
	t.Setenv(EnvJiraURL, "https://jira.internal.example.com")
	t.Setenv(EnvJiraPersonalToken, "pat-value")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Jira.HasCredentials() {
		t.Error("personal token alone should count as credentials")
	}
}
