// power2048 is a generalized 2048 for the terminal, SSH, HTTP and MCP.
// Tiles merge in powers of a chosen base (2 to 5), optionally against a
// countdown.
//
// Usage:
//
//	power2048 play              - Play in the terminal
//	power2048 menu              - Setup menu, game and scoreboard loop
//	power2048 scores            - Show best and recent scores
//	power2048 serve             - Start SSH server for remote play
//	power2048 http              - Start the REST and websocket API
//	power2048 mcp               - Serve MCP tools on stdio
//
// Global flags:
//
//	--config <path> - Config file (default: search ~/.power2048, ./configs)
//	--db <path>     - Scores database (default: ~/.power2048/scores.db)
//	--seed <value>  - RNG seed for reproducible games
//	--debug         - Verbose logging
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/power2048/internal/config"
	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/storage"
)

// version is reported by the MCP server.
var version = "dev"

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "power2048",
	Short: "Power 2048 - 2048 in any base, in your terminal",
	Long: `Power 2048 is the sliding tile game with a twist: tiles merge in
powers of 2, 3, 4 or 5, and timed modes race a countdown.

Available commands:
  play     - Play a game directly
  menu     - Interactive setup menu with scoreboard
  scores   - View best and recent scores
  serve    - Start SSH server for remote play
  http     - Start the REST and websocket API
  mcp      - Serve MCP tools on stdio

Examples:
  power2048 play --base 3 --mode 60
  power2048 menu
  power2048 serve --ssh :2222
  power2048 http --addr :8080
  power2048 scores --base 5 --mode classic`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(mcpCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	return cfg, nil
}

// newLogger returns a stderr logger honoring --debug.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openStore opens the scores database, or returns nil with a warning so
// games still run without persistence.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// runtimeConfig builds the TUI runtime config for the current terminal.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    seed,
		Base:    cfg.Game.Base,
		Mode:    cfg.Game.Mode,
	}
}

func playerName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "player"
}
