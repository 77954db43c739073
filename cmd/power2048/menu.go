package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/power2048/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the setup menu",
	Long: `Start in interactive menu mode.

Pick a base and a mode, play, and come back to the menu with Esc.
The scoreboard shows the best games of every base and mode.

Controls:
  Up/Down/j/k     - Choose row
  Left/Right/h/l  - Change base or mode
  Enter/Space     - Start game or open scoreboard
  Tab             - Scoreboard
  Q               - Quit

Examples:
  power2048 menu
  power2048 menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	if err := tui.RunSession(store, runtimeConfig(cfg), playerName(), newLogger("power2048")); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
