// Package mcp wires the tool registry, filter engine, and credential
// resolver into a Model Context Protocol server using the mcp-go library.
//
// The server exposes Jira and Confluence operations as MCP tools. Which
// tools are visible is decided by the filter engine from the active
// configuration: an explicit allow-list, read-only mode, and per-service
// availability. Tool calls are dispatched through a wrapper that resolves
// the credential context for the request (per-request headers in HTTP
// mode, process configuration otherwise), obtains a cached fetcher for
// that context, and serializes the handler's result as JSON text content.
//
// Two transports are supported: stdio for single-tenant subprocess use,
// and streamable HTTP for multi-tenant deployments where each request may
// carry its own credentials in the Authorization header.
package mcp
