package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/platform/tui"
	"github.com/vovakirdan/power2048/internal/storage"
)

var (
	flagScoresBase  int
	flagScoresMode  string
	flagScoresLimit int
	flagBrowse      bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best and recent scores",
	Long: `Display the high score, the top games and the most recent games
for one base and mode. Without --base and --mode, every variant with
recorded games is listed.

Examples:
  power2048 scores
  power2048 scores --base 3 --mode 60
  power2048 scores --base 2 --mode classic --limit 20
  power2048 scores --browse
  power2048 scores --base 4 --mode 30 --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresBase, "base", 0, "Merge base: 2, 3, 4 or 5")
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", "", "Timer mode: classic, 30, 60 or 300")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of games to list")
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse all tables in the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history and high score of --base/--mode")
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear && (flagScoresBase == 0 || flagScoresMode == "") {
		return fmt.Errorf("--clear needs both --base and --mode")
	}
	if flagScoresBase == 0 && flagScoresMode == "" && !flagBrowse {
		return printSummary(store)
	}

	base := cfg.Game.Base
	if flagScoresBase != 0 {
		base = flagScoresBase
	}
	if err := power2048.ValidateBase(base); err != nil {
		return err
	}
	mode := cfg.Mode()
	if flagScoresMode != "" {
		if mode, err = power2048.ParseMode(flagScoresMode); err != nil {
			return err
		}
	}

	if flagClear {
		return clearVariant(store, base, mode)
	}
	if flagBrowse {
		rc := runtimeConfig(cfg)
		return tui.RunScoreboard(store, tui.Variant{Base: base, Mode: mode}, rc.ScreenW, rc.ScreenH)
	}
	return printVariant(store, base, mode, flagScoresLimit)
}

// printSummary lists the record of every variant that has one.
func printSummary(store *storage.Store) error {
	fmt.Println("High Scores")
	fmt.Println()
	fmt.Printf("  %-6s  %-8s  %-10s  %-8s  %s\n", "Base", "Mode", "Best", "Games", "Best tile")
	fmt.Printf("  %-6s  %-8s  %-10s  %-8s  %s\n", "----", "----", "----", "-----", "---------")

	printed := 0
	for _, base := range engine.Bases {
		for _, mode := range power2048.Modes {
			best := storedBest(store, base, mode)
			stats, err := store.Stats(base, string(mode))
			if err != nil {
				return fmt.Errorf("reading stats: %w", err)
			}
			if best == 0 && stats.GamesCount == 0 {
				continue
			}
			fmt.Printf("  %-6d  %-8s  %-10d  %-8d  %d\n", base, mode.Label(), best, stats.GamesCount, stats.BestTile)
			printed++
		}
	}

	if printed == 0 {
		fmt.Println("  No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'power2048 play' to set the first high score!")
	}
	return nil
}

// printVariant prints the record plus top and recent games of one variant.
func printVariant(store *storage.Store, base int, mode power2048.Mode, limit int) error {
	top, err := store.TopScores(base, string(mode), limit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	recent, err := store.RecentScores(base, string(mode), limit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - Base %d, %s (target %d)\n", base, mode.Label(), engine.TargetTile(base))
	fmt.Println()
	fmt.Printf("Best: %d\n", storedBest(store, base, mode))
	fmt.Println()

	if len(top) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'power2048 play --base %d --mode %s' to set the first high score!\n", base, mode)
		return nil
	}

	fmt.Println("Top games:")
	printEntries(top)
	fmt.Println()
	fmt.Println("Recent games:")
	printEntries(recent)
	return nil
}

func printEntries(entries []storage.ScoreEntry) {
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %-10s  %-12s  %s\n", "Rank", "Score", "Tile", "Moves", "Result", "Player", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %-10s  %-12s  %s\n", "----", "-----", "----", "-----", "------", "------", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-10d  %-8d  %-6d  %-10s  %-12s  %s\n",
			i+1, e.Score, e.MaxTile, e.Moves, e.Status, e.Player, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// storedBest returns the persisted high score, which survives even when
// the game history has been cleared.
func storedBest(store *storage.Store, base int, mode power2048.Mode) int {
	raw, err := store.Get(power2048.HighScoreKey(base, mode))
	if err != nil {
		return 0
	}
	best, _ := power2048.ParseHighScore(raw)
	return best
}

// clearVariant removes both the game history and the stored best.
func clearVariant(store *storage.Store, base int, mode power2048.Mode) error {
	if err := store.ClearScores(base, string(mode)); err != nil {
		return err
	}
	if err := store.Delete(power2048.HighScoreKey(base, mode)); err != nil {
		return err
	}
	fmt.Printf("Cleared scores for base %d, %s.\n", base, mode.Label())
	return nil
}
