package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/power2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own setup menu and game.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.power2048/host_key

Examples:
  power2048 serve                           # Listen on :23234 with auto-generated key
  power2048 serve --ssh :2222               # Listen on port 2222
  power2048 serve --host-key ./my_host_key  # Use specific host key
  power2048 serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config, 30)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeoutMinutes = flagIdleTimeout
	}

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = cfg.SSH.Address
	sshCfg.HostKeyPath = cfg.SSH.HostKey
	sshCfg.DBPath = cfg.Storage.Path
	sshCfg.IdleTimeout = cfg.SSH.IdleTimeout()
	sshCfg.Game.Base = cfg.Game.Base
	sshCfg.Game.Mode = cfg.Game.Mode
	sshCfg.Game.Seed = cfg.Game.Seed
	sshCfg.Logger = newLogger("power2048-ssh")

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting Power 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
