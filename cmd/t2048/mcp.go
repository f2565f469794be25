package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the game as MCP tools on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so an agent can
play. Tools: new_game, move, get_state, share_links.

Logs go to stderr; stdout carries the protocol.

Example client configuration:
  {"command": "t2048", "args": ["mcp"]}`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, os.Stderr, "t2048-mcp")

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcp.NewServer(cfg, store, logger).ServeStdio(ctx, os.Stdin, os.Stdout)
}
