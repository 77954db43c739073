package power2048

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/engine"
)

// firstEmpty always spawns into the first empty cell in row-major order.
type firstEmpty struct{}

func (firstEmpty) Intn(int) int { return 0 }

type memStore struct {
	values map[string]string
	writes int
	err    error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *memStore) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.values[key] = value
	return nil
}

var _ core.KeyValueStore = (*memStore)(nil)

func newTestState(t *testing.T, base int, mode Mode, store core.KeyValueStore) *State {
	t.Helper()
	s, err := New(Options{Base: base, Mode: mode, Rand: firstEmpty{}, Store: store})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func countTiles(b engine.Board) int {
	n := 0
	for r := range engine.Size {
		for c := range engine.Size {
			if b[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{"base too small", Options{Base: 1, Mode: ModeClassic}, ErrInvalidBase},
		{"base too large", Options{Base: 6, Mode: ModeClassic}, ErrInvalidBase},
		{"unknown mode", Options{Base: 2, Mode: "45"}, ErrInvalidMode},
		{"empty mode", Options{Base: 2}, ErrInvalidMode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestResetStartsFreshGame(t *testing.T) {
	for _, base := range engine.Bases {
		s := newTestState(t, base, ModeClassic, nil)
		snap := s.Snapshot()

		if got := countTiles(snap.Board); got != 2 {
			t.Errorf("base %d: tiles after reset = %d, want 2", base, got)
		}
		for _, cell := range snap.Spawned {
			if v := snap.Board[cell.Row][cell.Col]; v != base {
				t.Errorf("base %d: spawned value = %d, want %d", base, v, base)
			}
		}
		if len(snap.Spawned) != 2 {
			t.Errorf("base %d: spawned cells = %d, want 2", base, len(snap.Spawned))
		}
		if snap.Score != 0 || snap.Status != StatusInProgress || snap.Moves != 0 {
			t.Errorf("base %d: unexpected fresh snapshot %+v", base, snap)
		}
		if snap.Target != engine.TargetTile(base) {
			t.Errorf("base %d: target = %d, want %d", base, snap.Target, engine.TargetTile(base))
		}
	}
}

func TestResetIncrementsGeneration(t *testing.T) {
	s := newTestState(t, 2, Mode60, nil)
	gen := s.Generation()

	s.Reset()
	if s.Generation() != gen+1 {
		t.Errorf("Generation() = %d, want %d", s.Generation(), gen+1)
	}
	if s.Snapshot().TimeRemaining != 60 {
		t.Errorf("TimeRemaining = %d, want 60", s.Snapshot().TimeRemaining)
	}
}

func TestMoveMergesAndSpawns(t *testing.T) {
	store := newMemStore()
	s := newTestState(t, 2, ModeClassic, store)
	s.board = engine.Board{{2, 2, 4, 0}}

	res := s.Move(engine.DirLeft)

	if !res.Moved || res.Gained != 4 {
		t.Fatalf("Move() = %+v, want moved with gained 4", res)
	}
	if len(res.Merged) != 1 || res.Merged[0] != (engine.Cell{Row: 0, Col: 0}) {
		t.Errorf("Merged = %v, want [{0 0}]", res.Merged)
	}
	if res.Spawned == nil || *res.Spawned != (engine.Cell{Row: 0, Col: 2}) {
		t.Errorf("Spawned = %v, want {0 2}", res.Spawned)
	}

	want := engine.Board{{4, 4, 2, 0}}
	if s.board != want {
		t.Errorf("board = %v, want %v", s.board, want)
	}
	if s.Score() != 4 || s.HighScore() != 4 {
		t.Errorf("Score() = %d, HighScore() = %d, want 4 and 4", s.Score(), s.HighScore())
	}
	if got := store.values[HighScoreKey(2, ModeClassic)]; got != "4" {
		t.Errorf("stored high score = %q, want %q", got, "4")
	}
}

func TestMoveWithoutChangeHasNoSideEffects(t *testing.T) {
	store := newMemStore()
	s := newTestState(t, 2, ModeClassic, store)
	s.board = engine.Board{{2, 4, 0, 0}}
	before := s.Snapshot()

	res := s.Move(engine.DirLeft)

	if res.Moved || res.Gained != 0 || len(res.Merged) != 0 || res.Spawned != nil {
		t.Errorf("Move() = %+v, want zero result", res)
	}
	after := s.Snapshot()
	if after.Board != before.Board || after.Score != before.Score || after.Moves != before.Moves {
		t.Errorf("state changed on a no-op move: before %+v, after %+v", before, after)
	}
	if store.writes != 0 {
		t.Errorf("store writes = %d, want 0", store.writes)
	}
}

func TestMoveClearsPreviousMerges(t *testing.T) {
	s := newTestState(t, 2, ModeClassic, nil)
	s.board = engine.Board{{2, 2, 0, 0}, {4, 0, 0, 0}}

	s.Move(engine.DirLeft)
	if len(s.Snapshot().Merged) != 1 {
		t.Fatalf("Merged after merge = %v, want one cell", s.Snapshot().Merged)
	}

	s.Move(engine.DirLeft)
	if got := s.Snapshot().Merged; len(got) != 0 {
		t.Errorf("Merged after no-op move = %v, want empty", got)
	}
}

func TestMoveReachingTargetWins(t *testing.T) {
	tests := []struct {
		base  int
		board engine.Board
	}{
		{2, engine.Board{{1024, 1024, 0, 0}}},
		{3, engine.Board{{2187, 2187, 2187, 0}}},
		{4, engine.Board{{16384, 0, 16384, 0}}},
		{5, engine.Board{{15625, 15625, 15625, 15625}, {625, 0, 0, 0}}},
	}

	for _, tc := range tests {
		s := newTestState(t, tc.base, ModeClassic, nil)
		s.board = tc.board

		res := s.Move(engine.DirLeft)
		if !res.Moved {
			t.Fatalf("base %d: Move() did not move", tc.base)
		}
		if s.Status() != StatusWon {
			t.Errorf("base %d: Status() = %v, want won", tc.base, s.Status())
		}

		board := s.board
		if res := s.Move(engine.DirRight); res.Moved {
			t.Errorf("base %d: move after win = %+v, want no-op", tc.base, res)
		}
		if s.board != board || s.Status() != StatusWon {
			t.Errorf("base %d: state changed after win", tc.base)
		}
	}
}

func TestMoveDetectsNoMoves(t *testing.T) {
	s := newTestState(t, 2, ModeClassic, nil)
	s.board = engine.Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{0, 8, 16, 32},
	}

	res := s.Move(engine.DirLeft)

	if !res.Moved {
		t.Fatal("Move() did not move")
	}
	if s.Status() != StatusLostNoMoves {
		t.Errorf("Status() = %v, want no_moves; board:\n%s", s.Status(), s.board)
	}
	if res := s.Move(engine.DirUp); res.Moved {
		t.Errorf("move after loss = %+v, want no-op", res)
	}
}

func TestHighScoreRequiresStrictImprovement(t *testing.T) {
	store := newMemStore()
	key := HighScoreKey(2, ModeClassic)
	store.values[key] = "4"

	s := newTestState(t, 2, ModeClassic, store)
	if s.HighScore() != 4 {
		t.Fatalf("HighScore() = %d, want 4 loaded from store", s.HighScore())
	}

	s.board = engine.Board{{2, 2, 0, 0}}
	s.Move(engine.DirLeft) // score 4 ties the record
	if store.writes != 0 {
		t.Errorf("store writes after tie = %d, want 0", store.writes)
	}

	s.board = engine.Board{{2, 2, 0, 0}}
	s.Move(engine.DirLeft) // score 8
	if store.values[key] != "8" || store.writes != 1 {
		t.Errorf("stored = %q after %d writes, want \"8\" after 1", store.values[key], store.writes)
	}
}

func TestHighScoreIsScopedPerBaseAndMode(t *testing.T) {
	store := newMemStore()
	store.values[HighScoreKey(2, ModeClassic)] = "100"
	store.values[HighScoreKey(2, Mode60)] = "60"
	store.values[HighScoreKey(3, ModeClassic)] = "300"

	s := newTestState(t, 2, ModeClassic, store)
	checks := []struct {
		base int
		mode Mode
		want int
	}{
		{2, ModeClassic, 100},
		{2, Mode60, 60},
		{3, Mode60, 0},
		{3, ModeClassic, 300},
	}
	for _, c := range checks {
		if err := s.SetBase(c.base); err != nil {
			t.Fatalf("SetBase(%d) error = %v", c.base, err)
		}
		if err := s.SetMode(c.mode); err != nil {
			t.Fatalf("SetMode(%q) error = %v", c.mode, err)
		}
		if s.HighScore() != c.want {
			t.Errorf("HighScore() for base %d mode %s = %d, want %d", c.base, c.mode, s.HighScore(), c.want)
		}
	}
}

func TestMalformedHighScoreReadsZero(t *testing.T) {
	store := newMemStore()
	store.values[HighScoreKey(2, ModeClassic)] = "not a number"

	s := newTestState(t, 2, ModeClassic, store)
	if s.HighScore() != 0 {
		t.Errorf("HighScore() = %d, want 0", s.HighScore())
	}
}

func TestStoreFailuresAreNotFatal(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk full")

	s := newTestState(t, 2, ModeClassic, store)
	s.board = engine.Board{{2, 2, 0, 0}}
	res := s.Move(engine.DirLeft)

	if !res.Moved || s.HighScore() != 4 {
		t.Errorf("Move() = %+v, HighScore() = %d, want moved and in-memory high score 4", res, s.HighScore())
	}
}

func TestSetBaseAndSetModeValidate(t *testing.T) {
	s := newTestState(t, 2, ModeClassic, nil)
	gen := s.Generation()

	if err := s.SetBase(7); !errors.Is(err, ErrInvalidBase) {
		t.Errorf("SetBase(7) error = %v, want ErrInvalidBase", err)
	}
	if err := s.SetMode("90"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SetMode(90) error = %v, want ErrInvalidMode", err)
	}
	if s.Generation() != gen {
		t.Errorf("rejected changes reset the game")
	}

	if err := s.SetBase(5); err != nil {
		t.Fatalf("SetBase(5) error = %v", err)
	}
	for _, cell := range s.Snapshot().Spawned {
		if v := s.board[cell.Row][cell.Col]; v != 5 {
			t.Errorf("spawned %d after SetBase(5), want 5", v)
		}
	}
	if s.Generation() != gen+1 {
		t.Errorf("Generation() = %d, want %d", s.Generation(), gen+1)
	}
}

func TestTickCountsDownToTimeUp(t *testing.T) {
	store := newMemStore()
	s := newTestState(t, 2, Mode30, store)
	s.score = 12
	gen := s.Generation()

	for i := range 29 {
		if !s.Tick(gen) {
			t.Fatalf("tick %d ignored", i)
		}
	}
	if s.Status() != StatusInProgress || s.Snapshot().TimeRemaining != 1 {
		t.Fatalf("after 29 ticks: status %v, remaining %d", s.Status(), s.Snapshot().TimeRemaining)
	}

	s.Tick(gen)
	if s.Status() != StatusLostTimeUp {
		t.Errorf("Status() = %v, want time_up", s.Status())
	}
	if s.Snapshot().TimeRemaining != 0 {
		t.Errorf("TimeRemaining = %d, want 0", s.Snapshot().TimeRemaining)
	}
	if store.values[HighScoreKey(2, Mode30)] != "12" {
		t.Errorf("high score not saved on time up: %v", store.values)
	}
	if s.Tick(gen) {
		t.Error("Tick() after time up = true, want false")
	}
}

func TestTickIgnoresStaleGenerationAndClassic(t *testing.T) {
	s := newTestState(t, 2, Mode60, nil)
	stale := s.Generation()
	s.Reset()

	if s.Tick(stale) {
		t.Error("stale Tick() = true, want false")
	}
	if s.Snapshot().TimeRemaining != 60 {
		t.Errorf("TimeRemaining = %d after stale tick, want 60", s.Snapshot().TimeRemaining)
	}

	classic := newTestState(t, 2, ModeClassic, nil)
	if classic.Tick(classic.Generation()) {
		t.Error("classic Tick() = true, want false")
	}
}

func TestExpireTimeOnlyFromInProgress(t *testing.T) {
	s := newTestState(t, 2, Mode60, nil)
	s.status = StatusWon

	s.ExpireTime()
	if s.Status() != StatusWon {
		t.Errorf("Status() = %v, want won to be kept", s.Status())
	}
}

func TestApplyActions(t *testing.T) {
	s := newTestState(t, 2, ModeClassic, nil)

	if _, ok := s.Apply(core.ActionQuit); ok {
		t.Error("Apply(Quit) handled, want unhandled")
	}

	s.Apply(core.ActionNextBase)
	if s.Base() != 3 {
		t.Errorf("Base() = %d after NextBase, want 3", s.Base())
	}
	s.Apply(core.ActionNextMode)
	if s.Mode() != Mode30 {
		t.Errorf("Mode() = %q after NextMode, want 30", s.Mode())
	}

	s.board = engine.Board{{3, 3, 3, 0}}
	res, ok := s.Apply(core.ActionLeft)
	if !ok || !res.Moved || res.Gained != 9 {
		t.Errorf("Apply(Left) = %+v, %v, want moved with gained 9", res, ok)
	}

	gen := s.Generation()
	s.Apply(core.ActionRestart)
	if s.Generation() != gen+1 || s.Score() != 0 {
		t.Errorf("Apply(Restart) did not reset")
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for _, base := range engine.Bases {
		s, err := New(Options{Base: base, Mode: ModeClassic, Rand: rand.New(rand.NewSource(int64(base)))})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		rng := rand.New(rand.NewSource(42))

		lastScore := 0
		for range 500 {
			before := countTiles(s.board)
			res := s.Move(engine.Directions[rng.Intn(len(engine.Directions))])

			if s.Score() < lastScore {
				t.Fatalf("base %d: score decreased from %d to %d", base, lastScore, s.Score())
			}
			lastScore = s.Score()

			if res.Moved {
				merges := len(res.Merged)
				if got := countTiles(s.board); got != before-merges+1 {
					t.Fatalf("base %d: tiles = %d, want %d", base, got, before-merges+1)
				}
			}
			for r := range engine.Size {
				for c := range engine.Size {
					if v := s.board[r][c]; v != 0 {
						if _, ok := engine.Exponent(v, base); !ok {
							t.Fatalf("base %d: %d is not a power of the base", base, v)
						}
					}
				}
			}
			if s.Status().Terminal() {
				break
			}
		}
	}
}
