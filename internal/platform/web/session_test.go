package web

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

func newTestManager(t *testing.T, opts ManagerOptions) *Manager {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	m := NewManager(opts)
	t.Cleanup(m.Close)
	return m
}

func countTiles(b engine.Board) int {
	n := 0
	for _, row := range b {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestManagerCreateDefaults(t *testing.T) {
	m := newTestManager(t, ManagerOptions{Base: 3, Mode: power2048.Mode60})

	view, err := m.Create(0, "", "alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if view.ID == "" {
		t.Error("Create() returned empty ID")
	}
	if view.Base != 3 || view.Mode != power2048.Mode60 {
		t.Errorf("Create() variant = (%d, %q), want (3, 60)", view.Base, view.Mode)
	}
	if view.TimeRemaining != 60 {
		t.Errorf("TimeRemaining = %d, want 60", view.TimeRemaining)
	}
	if got := countTiles(view.Board); got != 2 {
		t.Errorf("new board has %d tiles, want 2", got)
	}
	if view.Player != "alice" {
		t.Errorf("Player = %q, want alice", view.Player)
	}
}

func TestManagerCreateRejectsBadVariant(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	if _, err := m.Create(6, power2048.ModeClassic, ""); !errors.Is(err, power2048.ErrInvalidBase) {
		t.Errorf("Create(base 6) error = %v, want ErrInvalidBase", err)
	}
	if _, err := m.Create(2, power2048.Mode("90"), ""); !errors.Is(err, power2048.ErrInvalidMode) {
		t.Errorf("Create(mode 90) error = %v, want ErrInvalidMode", err)
	}
	if got := len(m.List()); got != 0 {
		t.Errorf("List() has %d sessions after failed creates, want 0", got)
	}
}

func TestManagerUnknownSession(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	if _, err := m.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Move("missing", engine.DirLeft); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Move() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Reset("missing", nil, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Reset() error = %v, want ErrSessionNotFound", err)
	}
	if err := m.Delete("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Delete() error = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerMoveNotifies(t *testing.T) {
	var changes []SessionView
	m := newTestManager(t, ManagerOptions{OnChange: func(v SessionView) {
		changes = append(changes, v)
	}})

	view, err := m.Create(2, power2048.ModeClassic, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	moved := 0
	for _, dir := range engine.Directions {
		res, err := m.Move(view.ID, dir)
		if err != nil {
			t.Fatalf("Move(%v) error = %v", dir, err)
		}
		if res.Moved {
			moved++
			if res.State.Moves != moved {
				t.Errorf("Moves = %d, want %d", res.State.Moves, moved)
			}
		}
	}

	if moved == 0 {
		t.Fatal("no direction moved on a two-tile board")
	}
	if len(changes) != moved {
		t.Errorf("OnChange called %d times, want %d", len(changes), moved)
	}
}

func TestManagerResetValidatesFirst(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})
	view, err := m.Create(2, power2048.ModeClassic, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	badBase := 7
	mode := power2048.Mode30
	if _, err := m.Reset(view.ID, &badBase, &mode); !errors.Is(err, power2048.ErrInvalidBase) {
		t.Fatalf("Reset() error = %v, want ErrInvalidBase", err)
	}
	got, _ := m.Get(view.ID)
	if got.Generation != view.Generation || got.Mode != power2048.ModeClassic {
		t.Error("failed reset changed the session")
	}

	base := 5
	got, err = m.Reset(view.ID, &base, &mode)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got.Base != 5 || got.Mode != power2048.Mode30 || got.TimeRemaining != 30 {
		t.Errorf("Reset() = base %d mode %q time %d, want 5, 30, 30", got.Base, got.Mode, got.TimeRemaining)
	}
	if got.Generation <= view.Generation {
		t.Errorf("Generation = %d, want > %d", got.Generation, view.Generation)
	}
}

func TestManagerCountdownTicks(t *testing.T) {
	m := newTestManager(t, ManagerOptions{TickInterval: 5 * time.Millisecond})
	view, err := m.Create(2, power2048.Mode30, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ok := waitFor(t, 2*time.Second, func() bool {
		v, _ := m.Get(view.ID)
		return v.Status == power2048.StatusLostTimeUp
	})
	if !ok {
		t.Fatal("timed session never ran out of time")
	}

	v, _ := m.Get(view.ID)
	if v.TimeRemaining != 0 {
		t.Errorf("TimeRemaining = %d, want 0", v.TimeRemaining)
	}
	if res, _ := m.Move(view.ID, engine.DirLeft); res.Moved {
		t.Error("move after time up should be ignored")
	}
}

func TestManagerResetToClassicStopsCountdown(t *testing.T) {
	m := newTestManager(t, ManagerOptions{TickInterval: 5 * time.Millisecond})
	view, err := m.Create(2, power2048.Mode300, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	waitFor(t, time.Second, func() bool {
		v, _ := m.Get(view.ID)
		return v.TimeRemaining < 300
	})

	classic := power2048.ModeClassic
	if _, err := m.Reset(view.ID, nil, &classic); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	v, _ := m.Get(view.ID)
	if v.Status != power2048.StatusInProgress {
		t.Errorf("Status = %v, want in_progress", v.Status)
	}
	if v.TimeRemaining != 0 {
		t.Errorf("classic TimeRemaining = %d, want 0", v.TimeRemaining)
	}
}

func TestManagerDeleteStopsCountdown(t *testing.T) {
	ticks := make(chan SessionView, 1024)
	m := newTestManager(t, ManagerOptions{
		TickInterval: 5 * time.Millisecond,
		OnChange:     func(v SessionView) { ticks <- v },
	})
	view, err := m.Create(2, power2048.Mode60, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := m.Delete(view.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Drain anything that raced the delete, then expect silence.
	time.Sleep(20 * time.Millisecond)
	for len(ticks) > 0 {
		<-ticks
	}
	time.Sleep(50 * time.Millisecond)
	if n := len(ticks); n != 0 {
		t.Errorf("%d ticks after delete, want 0", n)
	}
	if got := len(m.List()); got != 0 {
		t.Errorf("List() has %d sessions, want 0", got)
	}
}

func TestManagerRecordsFinishedGame(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	m := newTestManager(t, ManagerOptions{Store: store, TickInterval: 20 * time.Millisecond})
	view, err := m.Create(2, power2048.Mode30, "bob")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	score := 0
	for i := 0; score == 0 && i < 200; i++ {
		res, err := m.Move(view.ID, engine.Directions[i%len(engine.Directions)])
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		score = res.State.Score
	}
	if score == 0 {
		t.Fatal("no merge after 200 moves")
	}

	ok := waitFor(t, 3*time.Second, func() bool {
		v, _ := m.Get(view.ID)
		return v.Status.Terminal()
	})
	if !ok {
		t.Fatal("game did not finish")
	}

	final, _ := m.Get(view.ID)
	scores, err := store.RecentScores(2, "30", 10)
	if err != nil {
		t.Fatalf("RecentScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("recorded %d games, want 1", len(scores))
	}
	if scores[0].Score != final.Score || scores[0].Player != "bob" {
		t.Errorf("recorded %+v, want score %d by bob", scores[0], final.Score)
	}
	if final.HighScore < final.Score {
		t.Errorf("HighScore = %d, want >= %d", final.HighScore, final.Score)
	}
}
