// Package mcp exposes the rule engine to AI agents over the Model
// Context Protocol, so generation pipelines can screen their own drafts
// before publishing.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/engine"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
}

// Server wraps the MCP SDK server around the rule engine.
type Server struct {
	mcpServer *mcpsdk.Server
	eng       *engine.Engine
}

// New loads configuration, assembles the engine, and registers tools.
func New(ctx context.Context, cfg Config) (*Server, error) {
	engineCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	eng, err := engine.Open(ctx, engineCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}

	s := &Server{eng: eng}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "copywatch",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the engine's storage backend.
func (s *Server) Close() error {
	return s.eng.Close()
}

// registerTools adds all copywatch tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "copywatch_check",
		Description: "Check a text against the local content-policy rules. Fast and deterministic; no AI pass.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "copywatch_recheck",
		Description: "Check a text against the content-policy rules with an AI second opinion for paraphrased violations. Falls back to the local result when the AI judge is unavailable.",
	}, s.handleRecheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "copywatch_rules",
		Description: "List the content-policy rules, optionally filtered by category or search query.",
	}, s.handleRules)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "copywatch_brief",
		Description: "Render the active rules as a policy brief to embed in a generation prompt.",
	}, s.handleBrief)
}
