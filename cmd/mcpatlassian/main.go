// Package main is the entry point for the mcp-atlassian server.
//
// The binary exposes Jira and Confluence operations to AI assistants
// through the Model Context Protocol. It supports two transports:
// stdio for single-tenant desktop clients, and streamable HTTP for
// multi-tenant deployments where each request may carry its own
// Atlassian credentials.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcpatlassian/internal/config"
	"mcpatlassian/internal/logging"
	"mcpatlassian/internal/mcp"
)

var version = "1.0.0"

var (
	flagTransport string
	flagHost      string
	flagPort      int
	flagConfig    string
)

var rootCmd = &cobra.Command{
	Use:   "mcpatlassian",
	Short: "MCP server for Atlassian Jira and Confluence",
	Long: `mcpatlassian exposes Jira and Confluence tools over the Model
Context Protocol. Configuration comes from environment variables
(JIRA_URL, CONFLUENCE_URL, credentials) or an optional YAML file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Start the MCP server on the chosen transport.

stdio serves a single client over stdin/stdout using the environment
credentials. http serves many clients on /mcp; each request may
authenticate itself with an Authorization header ("Bearer <oauth>" or
"Token <pat>") plus an optional X-Atlassian-Cloud-Id.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mcpatlassian %s\n", version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagTransport, "transport", "stdio", "transport to serve on: stdio or http")
	serveCmd.Flags().StringVar(&flagHost, "host", "127.0.0.1", "bind address for the http transport")
	serveCmd.Flags().IntVar(&flagPort, "port", 8080, "listen port for the http transport")
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "path to an optional YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(ctx context.Context) error {
	// Logs go to stderr; stdout is reserved for the stdio transport's
	// JSON-RPC stream.
	logger := logging.GetDefault()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	services := mcp.DetectServices(ctx, cfg, logger)

	srv, err := mcp.New(cfg, logger, services)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	switch flagTransport {
	case "stdio":
		return srv.ServeStdio()
	case "http":
		return srv.ServeHTTP(fmt.Sprintf("%s:%d", flagHost, flagPort))
	default:
		return fmt.Errorf("unknown transport %q (expected stdio or http)", flagTransport)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.GetDefault().Error("Command failed", "error", err)
		os.Exit(1)
	}
}
