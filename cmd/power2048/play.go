package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/platform/tui"
)

var (
	flagBase   int
	flagMode   string
	flagSelect bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game in the terminal.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  R                - Restart
  B                - Next base (restarts)
  M                - Next mode (restarts)
  Esc/Q/Ctrl+C     - Quit

Modes:
  classic - No timer
  30      - 30 second countdown
  60      - 1 minute countdown
  300     - 5 minute countdown

Examples:
  power2048 play
  power2048 play --base 3
  power2048 play --base 5 --mode 60
  power2048 play --select`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagBase, "base", 0, "Merge base: 2, 3, 4 or 5 (default from config)")
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Timer mode: classic, 30, 60 or 300 (default from config)")
	playCmd.Flags().BoolVar(&flagSelect, "select", false, "Choose base and mode in a setup menu first")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagBase != 0 {
		if err := power2048.ValidateBase(flagBase); err != nil {
			return err
		}
		cfg.Game.Base = flagBase
	}
	if flagMode != "" {
		mode, err := power2048.ParseMode(flagMode)
		if err != nil {
			return err
		}
		cfg.Game.Mode = string(mode)
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	rcfg := runtimeConfig(cfg)
	logger := newLogger("power2048")

	if flagSelect {
		selection, updated, err := tui.RunSetup(store, rcfg)
		if err != nil {
			return fmt.Errorf("setup menu: %w", err)
		}
		// User quit or asked for the scoreboard
		if selection == nil {
			return nil
		}
		rcfg = updated
	}

	if err := tui.RunGame(store, rcfg, playerName(), logger); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
