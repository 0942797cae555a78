package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mcpatlassian/internal/auth"
	"mcpatlassian/internal/config"
	"mcpatlassian/internal/confluence"
	"mcpatlassian/internal/jira"
	"mcpatlassian/internal/logging"
	"mcpatlassian/internal/tools"
)

const (
	serverName    = "mcp-atlassian"
	serverVersion = "1.0.0"

	// pingTimeout bounds the startup capability check per service.
	pingTimeout = 10 * time.Second
)

// Server binds the registry, filter engine, credential resolver, and
// fetcher caches to an mcp-go server instance.
type Server struct {
	cfg      *config.Config
	logger   *logging.AppLogger
	registry *tools.Registry

	// filterCfg is immutable after New. In multi-tenant HTTP mode the
	// effective set is recomputed from it per request; in stdio mode the
	// precomputed effective map is used.
	filterCfg tools.FilterConfig
	effective map[string]tools.Descriptor

	jiraFetchers       *auth.FetcherCache[*jira.Client]
	confluenceFetchers *auth.FetcherCache[*confluence.Client]

	mcpServer *server.MCPServer
}

// DetectServices decides which services count as configured.
//
// A service is configured when its URL is set and either (a) env
// credentials are present and a capability check against the instance
// succeeds, or (b) no env credentials exist but the deployment expects
// per-request header credentials, in which case URL presence is enough
// and each request's own credentials are verified upstream.
func DetectServices(ctx context.Context, cfg *config.Config, logger *logging.AppLogger) map[tools.Service]bool {
	services := make(map[tools.Service]bool)

	services[tools.ServiceJira] = detectService(ctx, logger, tools.ServiceJira, cfg.Jira, func(c auth.Context) pinger {
		return jira.NewClient(c.BaseURL, c.HTTPClient(), cfg.JiraProjectsFilter)
	})
	services[tools.ServiceConfluence] = detectService(ctx, logger, tools.ServiceConfluence, cfg.Confluence, func(c auth.Context) pinger {
		return confluence.NewClient(c.BaseURL, c.HTTPClient())
	})

	return services
}

type pinger interface {
	Ping(ctx context.Context) error
}

func detectService(ctx context.Context, logger *logging.AppLogger, service tools.Service, svc config.ServiceConfig, build func(auth.Context) pinger) bool {
	if svc.URL == "" {
		return false
	}
	if !svc.HasCredentials() {
		// Header-auth deployment: availability is decided per request.
		logger.Info("Service configured for per-request credentials", "service", service.String())
		return true
	}

	creds, err := auth.Resolve(service, svc, nil)
	if err != nil {
		logger.Warn("Service credentials invalid", "service", service.String(), "error", err)
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := build(creds).Ping(pingCtx); err != nil {
		logger.Warn("Service capability check failed", "service", service.String(), "error", err)
		return false
	}

	logger.Info("Service available", "service", service.String(), "url", svc.URL)
	return true
}

// New constructs a fully registered server. The services map comes from
// DetectServices (or directly from tests).
func New(cfg *config.Config, logger *logging.AppLogger, services map[tools.Service]bool) (*Server, error) {
	jiraCache, err := auth.NewFetcherCache[*jira.Client](auth.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira fetcher cache: %w", err)
	}
	confluenceCache, err := auth.NewFetcherCache[*confluence.Client](auth.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create confluence fetcher cache: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: tools.NewRegistry(),
		filterCfg: tools.FilterConfig{
			Enabled:  cfg.EnabledTools,
			ReadOnly: cfg.ReadOnly,
			Services: services,
		},
		jiraFetchers:       jiraCache,
		confluenceFetchers: confluenceCache,
	}

	// The registry must be fully populated before the first effective-set
	// computation; nothing registers after this point. The definitions are
	// static, so a duplicate name is a programming error.
	for _, def := range jiraToolDefs() {
		s.registry.MustRegister(def.desc, def.handler)
	}
	for _, def := range confluenceToolDefs() {
		s.registry.MustRegister(def.desc, def.handler)
	}

	for _, name := range cfg.EnabledTools {
		if _, err := s.registry.Lookup(name); err != nil {
			logger.Debug("Enabled tool name matches no registered tool", "name", name)
		}
	}

	s.effective = tools.EffectiveSet(s.registry.All(), s.filterCfg)
	if len(s.effective) == 0 {
		// Valid but almost certainly a misconfiguration; serve anyway.
		logger.Warn("No tools available with the current configuration",
			"registered", s.registry.Len(),
			"read_only", cfg.ReadOnly,
			"enabled_tools", cfg.EnabledTools,
		)
	} else {
		logger.Info("Tool set computed",
			"registered", s.registry.Len(),
			"exposed", len(s.effective),
			"read_only", cfg.ReadOnly,
		)
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithToolFilter(s.filterToolList),
		server.WithInstructions("Tools for searching and managing Jira issues and Confluence pages."),
	)

	for _, def := range jiraToolDefs() {
		s.mcpServer.AddTool(def.tool, s.dispatch(def.desc))
	}
	for _, def := range confluenceToolDefs() {
		s.mcpServer.AddTool(def.tool, s.dispatch(def.desc))
	}

	return s, nil
}

// EffectiveSet returns the tool set exposed for the given request context.
// Stdio mode reuses the startup computation; requests carrying their own
// credential scope get a fresh computation so per-session configuration
// stays isolated.
func (s *Server) EffectiveSet(ctx context.Context) map[string]tools.Descriptor {
	if auth.ScopeFromContext(ctx) == nil {
		return s.effective
	}
	return tools.EffectiveSet(s.registry.All(), s.filterCfg)
}

// filterToolList trims tools/list responses to the effective set.
func (s *Server) filterToolList(ctx context.Context, all []mcplib.Tool) []mcplib.Tool {
	effective := s.EffectiveSet(ctx)

	filtered := make([]mcplib.Tool, 0, len(effective))
	for _, tool := range all {
		if _, ok := effective[tool.Name]; ok {
			filtered = append(filtered, tool)
		}
	}
	return filtered
}

// ServeStdio runs the single-tenant stdio transport until EOF.
func (s *Server) ServeStdio() error {
	s.logger.Info("Starting MCP server", "transport", "stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP runs the multi-tenant streamable HTTP transport on addr.
// Every request may carry its own credentials; see RequestContextFunc.
func (s *Server) ServeHTTP(addr string) error {
	streamable := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithHTTPContextFunc(RequestContextFunc(s.logger)),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/mcp", RequireValidAuthHeader(streamable))

	s.logger.Info("Starting MCP server", "transport", "http", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}
