package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mcpatlassian/internal/atlassian"
	"mcpatlassian/internal/auth"
	"mcpatlassian/internal/confluence"
	"mcpatlassian/internal/jira"
	"mcpatlassian/internal/tools"
)

// jiraHandler and confluenceHandler are the two closed handler variants a
// tool can register. The dispatcher switches exhaustively on the
// descriptor's service to pick which fetcher to resolve.
type jiraHandler func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error)

type confluenceHandler func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error)

// toolDef couples one MCP tool schema with its registry descriptor and
// handler.
type toolDef struct {
	tool    mcplib.Tool
	desc    tools.Descriptor
	handler any
}

// CheckAvailable reports whether a tool may be invoked in the given
// request context. The two failure modes stay distinguishable:
// tools.ErrNotFound for names that were never registered,
// tools.ErrToolNotAvailable for registered tools the configuration
// filtered out.
func (s *Server) CheckAvailable(ctx context.Context, name string) error {
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	if _, ok := s.EffectiveSet(ctx)[name]; !ok {
		return fmt.Errorf("%w: %s", tools.ErrToolNotAvailable, name)
	}
	return nil
}

// dispatch wraps a registered tool into an mcp-go handler that enforces
// filtering, resolves credentials, obtains the cached fetcher, invokes
// the handler, and serializes the result. Every failure comes back as a
// structured error result on the normal response channel.
func (s *Server) dispatch(desc tools.Descriptor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		start := time.Now()
		log := s.logger.With("request_id", uuid.NewString(), "tool", desc.Name, "tags", desc.Tags())

		if err := s.CheckAvailable(ctx, desc.Name); err != nil {
			log.Warn("Tool rejected by filter", "error", err)
			return mcplib.NewToolResultError(err.Error()), nil
		}

		entry, err := s.registry.Lookup(desc.Name)
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}

		scope := auth.ScopeFromContext(ctx)

		var out any
		switch desc.Service {
		case tools.ServiceJira:
			out, err = s.invokeJira(ctx, entry, scope, req)
		case tools.ServiceConfluence:
			out, err = s.invokeConfluence(ctx, entry, scope, req)
		default:
			err = fmt.Errorf("unknown service for tool %s", desc.Name)
		}

		if err != nil {
			log.Warn("Tool call failed", "error", err)
			return mcplib.NewToolResultError(classifyError(desc, err)), nil
		}

		payload, err := serializeResult(out)
		if err != nil {
			log.Error("Failed to serialize tool result", "error", err)
			return mcplib.NewToolResultError(fmt.Sprintf("failed to serialize result for %s: %v", desc.Name, err)), nil
		}

		log.Debug("Tool call completed", "duration", time.Since(start))
		return mcplib.NewToolResultText(payload), nil
	}
}

func (s *Server) invokeJira(ctx context.Context, entry tools.Registered, scope *auth.RequestScope, req mcplib.CallToolRequest) (any, error) {
	handler, ok := entry.Handler.(jiraHandler)
	if !ok {
		return nil, fmt.Errorf("tool %s has wrong handler type", entry.Descriptor.Name)
	}

	creds, err := auth.Resolve(tools.ServiceJira, s.cfg.Jira, scope)
	if err != nil {
		return nil, err
	}

	client, err := s.jiraFetchers.GetOrCreate(creds, func(c auth.Context) (*jira.Client, error) {
		return jira.NewClient(c.BaseURL, c.HTTPClient(), s.cfg.JiraProjectsFilter), nil
	})
	if err != nil {
		return nil, err
	}

	return handler(ctx, client, req)
}

func (s *Server) invokeConfluence(ctx context.Context, entry tools.Registered, scope *auth.RequestScope, req mcplib.CallToolRequest) (any, error) {
	handler, ok := entry.Handler.(confluenceHandler)
	if !ok {
		return nil, fmt.Errorf("tool %s has wrong handler type", entry.Descriptor.Name)
	}

	creds, err := auth.Resolve(tools.ServiceConfluence, s.cfg.Confluence, scope)
	if err != nil {
		return nil, err
	}

	client, err := s.confluenceFetchers.GetOrCreate(creds, func(c auth.Context) (*confluence.Client, error) {
		return confluence.NewClient(c.BaseURL, c.HTTPClient()), nil
	})
	if err != nil {
		return nil, err
	}

	return handler(ctx, client, req)
}

// classifyError turns internal errors into the message the caller sees,
// keeping the taxonomy visible: auth configuration problems, upstream API
// failures with status, and plain invocation errors.
func classifyError(desc tools.Descriptor, err error) string {
	var authErr *auth.AuthConfigurationError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}

	var apiErr *atlassian.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsAuthError() {
			return fmt.Sprintf("%s authentication rejected by upstream (status %d) during %s",
				apiErr.Service, apiErr.StatusCode, apiErr.Operation)
		}
		return apiErr.Error()
	}

	return fmt.Sprintf("%s failed: %v", desc.Name, err)
}

// serializeResult renders a handler result as the tool's text payload.
// Strings pass through; everything else is JSON-encoded.
func serializeResult(out any) (string, error) {
	if s, ok := out.(string); ok {
		return s, nil
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
