package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	copymcp "github.com/ppiankov/copywatch/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs copywatch as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes tools: copywatch_check, copywatch_recheck, copywatch_rules, copywatch_brief.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := copymcp.New(ctx, copymcp.Config{ConfigPath: cfgPath})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "copywatch MCP server running on stdio")
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx)
}
