package storage

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/vovakirdan/power2048/internal/core"
)

var _ core.KeyValueStore = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreKeyValue(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get("power2048_highscore_base_2")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}

	if err := store.Set("power2048_highscore_base_2", "128"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("power2048_highscore_base_2", "256"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	if err := store.Set("power2048_highscore_base_3", "81"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"power2048_highscore_base_2", "256"},
		{"power2048_highscore_base_3", "81"},
		{"power2048_highscore_base_2_time_60", ""},
	}
	for _, tc := range tests {
		got, err := store.Get(tc.key)
		if err != nil || got != tc.want {
			t.Errorf("Get(%q) = %q, %v, want %q", tc.key, got, err, tc.want)
		}
	}

	if err := store.Delete("power2048_highscore_base_3"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if got, _ := store.Get("power2048_highscore_base_3"); got != "" {
		t.Errorf("Get after Delete = %q, want empty", got)
	}
}

func TestStoreKeyValuePersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if got, _ := store.Get("k"); got != "v" {
		t.Errorf("Get() after reopen = %q, want %q", got, "v")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []ScoreEntry{
		{Base: 2, Mode: "classic", Score: 100, MaxTile: 16, Moves: 20, Status: "no_moves"},
		{Base: 2, Mode: "classic", Score: 50, MaxTile: 8, Moves: 12, Status: "no_moves"},
		{Base: 2, Mode: "classic", Score: 200, MaxTile: 32, Moves: 40, Status: "no_moves", Player: "alice"},
		{Base: 2, Mode: "60", Score: 500, MaxTile: 64, Moves: 80, Status: "time_up"},
		{Base: 3, Mode: "classic", Score: 900, MaxTile: 81, Moves: 60, Status: "no_moves"},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(2, "classic", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Player != "alice" || scores[0].MaxTile != 32 || scores[0].Moves != 40 {
		t.Errorf("Top entry fields = %+v", scores[0])
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}

	timed, err := store.TopScores(2, "60", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(timed) != 1 || timed[0].Status != "time_up" {
		t.Errorf("timed scores = %v, want one time_up entry", timed)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore(ScoreEntry{Base: 4, Mode: "30", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores(4, "30", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreRecentScores(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{300, 100, 200} {
		store.SaveScore(ScoreEntry{Base: 2, Mode: "classic", Score: score})
	}

	recent, err := store.RecentScores(2, "classic", 2)
	if err != nil {
		t.Fatalf("RecentScores() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 200 || recent[1].Score != 100 {
		t.Errorf("RecentScores() = %v, want 200 then 100", recent)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore(5, "classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty variant, got %d", high)
	}

	store.SaveScore(ScoreEntry{Base: 5, Mode: "classic", Score: 100})
	store.SaveScore(ScoreEntry{Base: 5, Mode: "classic", Score: 300})
	store.SaveScore(ScoreEntry{Base: 5, Mode: "300", Score: 900})

	high, err = store.HighScore(5, "classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{Base: 2, Mode: "classic", Score: 100})
	store.SaveScore(ScoreEntry{Base: 2, Mode: "classic", Score: 200})
	store.SaveScore(ScoreEntry{Base: 3, Mode: "classic", Score: 300})

	if err := store.ClearScores(2, "classic"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	cleared, _ := store.TopScores(2, "classic", 10)
	if len(cleared) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(cleared))
	}

	kept, _ := store.TopScores(3, "classic", 10)
	if len(kept) != 1 {
		t.Errorf("Base 3 scores should not be affected by clearing base 2")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats(2, "classic")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	for i := range 4 {
		store.SaveScore(ScoreEntry{Base: 2, Mode: "classic", Score: (i + 1) * 10, MaxTile: 1 << (i + 2)})
	}

	stats, err := store.Stats(2, "classic")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 4 || stats.HighScore != 40 || stats.BestTile != 32 || stats.AvgScore != 25 {
		t.Errorf("Stats() = %+v, want 4 games, high 40, best tile 32, avg 25", stats)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreManyKeys(t *testing.T) {
	store := openTestStore(t)

	for i := range 20 {
		if err := store.Set("key_"+strconv.Itoa(i), strconv.Itoa(i*i)); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
	}
	if got, _ := store.Get("key_7"); got != "49" {
		t.Errorf("Get(key_7) = %q, want 49", got)
	}
}
