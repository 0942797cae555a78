// Package config loads server configuration from the environment, with an
// optional YAML file as a base layer. Environment variables always win so
// that container deployments can override a checked-in config file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names. These are the stable external interface of
// the server; renaming any of them breaks existing deployments.
const (
	EnvJiraURL             = "JIRA_URL"
	EnvJiraUsername        = "JIRA_USERNAME"
	EnvJiraAPIToken        = "JIRA_API_TOKEN"
	EnvJiraPersonalToken   = "JIRA_PERSONAL_TOKEN"
	EnvJiraProjectsFilter  = "JIRA_PROJECTS_FILTER"
	EnvConfluenceURL       = "CONFLUENCE_URL"
	EnvConfluenceUsername  = "CONFLUENCE_USERNAME"
	EnvConfluenceAPIToken  = "CONFLUENCE_API_TOKEN"
	EnvConfluencePersonal  = "CONFLUENCE_PERSONAL_TOKEN"
	EnvOAuthAccessToken    = "ATLASSIAN_OAUTH_ACCESS_TOKEN"
	EnvEnabledTools        = "ENABLED_TOOLS"
	EnvReadOnlyMode        = "READ_ONLY_MODE"
)

// ConfigurationError reports an invalid or inconsistent setting. Setting
// names the offending field or environment variable when one is known.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error for %s: %s", e.Setting, e.Reason)
}

// ServiceConfig holds the connection settings for one Atlassian product.
type ServiceConfig struct {
	URL           string `yaml:"url"`
	Username      string `yaml:"username"`
	APIToken      string `yaml:"api_token"`
	PersonalToken string `yaml:"personal_token"`
	OAuthToken    string `yaml:"oauth_token"`
}

// HasCredentials reports whether at least one usable credential
// combination is present.
func (s ServiceConfig) HasCredentials() bool {
	if s.PersonalToken != "" {
		return true
	}
	if s.Username != "" && s.APIToken != "" {
		return true
	}
	return s.OAuthToken != ""
}

// Config is the full server configuration.
type Config struct {
	Jira       ServiceConfig `yaml:"jira"`
	Confluence ServiceConfig `yaml:"confluence"`

	// EnabledTools is the explicit tool allow-list; empty means all.
	EnabledTools []string `yaml:"enabled_tools"`

	// ReadOnly suppresses every mutating tool.
	ReadOnly bool `yaml:"read_only"`

	// JiraProjectsFilter restricts Jira searches to these project keys
	// (comma-separated) unless a call overrides it.
	JiraProjectsFilter string `yaml:"jira_projects_filter"`
}

// Load builds the configuration. If path is non-empty the YAML file at that
// location is read first; environment variables are then applied on top.
// The result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	return Load("")
}

func (c *Config) applyEnv() error {
	setIf(&c.Jira.URL, EnvJiraURL)
	setIf(&c.Jira.Username, EnvJiraUsername)
	setIf(&c.Jira.APIToken, EnvJiraAPIToken)
	setIf(&c.Jira.PersonalToken, EnvJiraPersonalToken)
	setIf(&c.Confluence.URL, EnvConfluenceURL)
	setIf(&c.Confluence.Username, EnvConfluenceUsername)
	setIf(&c.Confluence.APIToken, EnvConfluenceAPIToken)
	setIf(&c.Confluence.PersonalToken, EnvConfluencePersonal)
	setIf(&c.JiraProjectsFilter, EnvJiraProjectsFilter)

	// A single OAuth token covers both products on an Atlassian Cloud site.
	if tok := os.Getenv(EnvOAuthAccessToken); tok != "" {
		c.Jira.OAuthToken = tok
		c.Confluence.OAuthToken = tok
	}

	if raw := os.Getenv(EnvEnabledTools); raw != "" {
		c.EnabledTools = splitTools(raw)
	}

	if raw := os.Getenv(EnvReadOnlyMode); raw != "" {
		readOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return &ConfigurationError{
				Setting: EnvReadOnlyMode,
				Reason:  fmt.Sprintf("invalid boolean %q", raw),
			}
		}
		c.ReadOnly = readOnly
	}

	return nil
}

func setIf(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// splitTools splits a comma-separated tool list, trimming whitespace and
// dropping empty entries.
func splitTools(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks the configuration for correctness. At least one service
// URL must be present; configured URLs must parse as absolute http(s) URLs.
func (c *Config) Validate() error {
	if c.Jira.URL == "" && c.Confluence.URL == "" {
		return &ConfigurationError{
			Reason: fmt.Sprintf("no services configured: set %s and/or %s", EnvJiraURL, EnvConfluenceURL),
		}
	}

	if err := validateURL("jira", c.Jira.URL); err != nil {
		return err
	}
	if err := validateURL("confluence", c.Confluence.URL); err != nil {
		return err
	}
	return nil
}

func validateURL(service, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ConfigurationError{
			Setting: service + " URL",
			Reason:  fmt.Sprintf("cannot parse %q: %v", raw, err),
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigurationError{
			Setting: service + " URL",
			Reason:  fmt.Sprintf("%q: scheme must be http or https", raw),
		}
	}
	if u.Host == "" {
		return &ConfigurationError{
			Setting: service + " URL",
			Reason:  fmt.Sprintf("%q: missing host", raw),
		}
	}
	return nil
}
