package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/power2048/internal/platform/mcp"
	"github.com/vovakirdan/power2048/internal/platform/web"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so agents can
play. Tools: new_game, move, game_state, reset_game, list_sessions.

Logs go to stderr; stdout carries the protocol.

Example client entry:
  {"command": "power2048", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger("power2048-mcp")
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	manager := web.NewManager(web.ManagerOptions{
		Store:  store,
		Logger: logger,
		Seed:   cfg.Game.Seed,
		Base:   cfg.Game.Base,
		Mode:   cfg.Mode(),
	})
	defer manager.Close()

	logger.Info("MCP stdio server ready")
	if err := mcp.NewServer(manager, version, logger).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
