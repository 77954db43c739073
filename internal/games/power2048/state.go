// Package power2048 implements the Power 2048 game session: a generalized
// 2048 with merge bases 2 to 5, optional countdown modes and persistent
// high scores per (base, mode).
package power2048

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/engine"
)

// Status is the lifecycle state of a game. Transitions out of
// StatusInProgress are one-way until the next reset.
type Status int

const (
	StatusInProgress Status = iota
	StatusWon
	StatusLostTimeUp
	StatusLostNoMoves
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusWon:
		return "won"
	case StatusLostTimeUp:
		return "time_up"
	case StatusLostNoMoves:
		return "no_moves"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further moves are accepted.
func (s Status) Terminal() bool {
	return s != StatusInProgress
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*s = StatusInProgress
	case "won":
		*s = StatusWon
	case "time_up":
		*s = StatusLostTimeUp
	case "no_moves":
		*s = StatusLostNoMoves
	default:
		*s = StatusInProgress
	}
	return nil
}

// Options configures a new State.
type Options struct {
	Base   int
	Mode   Mode
	Rand   engine.Intn        // nil uses a time-seeded source
	Store  core.KeyValueStore // nil keeps high scores in memory only
	Logger *log.Logger        // nil disables persistence warnings
}

// MoveResult describes the outcome of one move attempt.
type MoveResult struct {
	Moved   bool          `json:"moved"`
	Gained  int           `json:"gained"`
	Merged  []engine.Cell `json:"merged"`
	Spawned *engine.Cell  `json:"spawned,omitempty"`
}

// State is a single game session. It is not safe for concurrent use;
// hosts serialize access.
type State struct {
	base   int
	mode   Mode
	rng    engine.Intn
	store  core.KeyValueStore
	logger *log.Logger

	board         engine.Board
	score         int
	highScore     int
	moves         int
	status        Status
	timeRemaining int
	spawned       []engine.Cell
	merged        []engine.Cell
	generation    uint64
}

// New validates opts and returns a started game.
func New(opts Options) (*State, error) {
	if err := ValidateBase(opts.Base); err != nil {
		return nil, err
	}
	if !opts.Mode.Valid() {
		return nil, ErrInvalidMode
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &State{
		base:   opts.Base,
		mode:   opts.Mode,
		rng:    rng,
		store:  opts.Store,
		logger: opts.Logger,
	}
	s.Reset()
	return s, nil
}

// Reset starts a fresh game with the current base and mode.
// Pending timer ticks from the previous game become stale.
func (s *State) Reset() {
	s.board = engine.Board{}
	s.score = 0
	s.moves = 0
	s.status = StatusInProgress
	s.merged = nil
	s.spawned = s.spawned[:0]
	s.highScore = s.loadHighScore()
	s.timeRemaining = s.mode.Seconds()
	s.generation++

	for range 2 {
		if cell, ok := engine.Spawn(&s.board, s.base, s.rng); ok {
			s.spawned = append(s.spawned, cell)
		}
	}
}

// SetBase switches the merge base and resets the game.
func (s *State) SetBase(base int) error {
	if err := ValidateBase(base); err != nil {
		return err
	}
	s.base = base
	s.Reset()
	return nil
}

// SetMode switches the timer mode and resets the game.
func (s *State) SetMode(mode Mode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	s.mode = mode
	s.Reset()
	return nil
}

// Move applies one directional move. Moves in a terminal state and moves
// that change nothing return a zero result and have no side effects.
func (s *State) Move(dir engine.Direction) MoveResult {
	if s.status.Terminal() {
		return MoveResult{}
	}
	s.merged = nil

	res := engine.ApplyMove(s.board, dir, s.base)
	if !res.Moved {
		return MoveResult{}
	}

	s.board = res.Board
	s.score += res.Gained
	s.moves++
	s.merged = res.Merged
	s.saveHighScore()

	out := MoveResult{
		Moved:  true,
		Gained: res.Gained,
		Merged: res.Merged,
	}

	s.spawned = s.spawned[:0]
	if cell, ok := engine.Spawn(&s.board, s.base, s.rng); ok {
		s.spawned = append(s.spawned, cell)
		out.Spawned = &cell
	}

	if engine.CheckWin(s.board, engine.TargetTile(s.base)) {
		s.status = StatusWon
	} else if !engine.HasAnyMove(s.board) {
		s.status = StatusLostNoMoves
	}

	return out
}

// Tick consumes one elapsed second of a timed game. Ticks scheduled for an
// earlier generation, classic games and finished games are ignored.
// Returns true if the state changed.
func (s *State) Tick(generation uint64) bool {
	if generation != s.generation || !s.mode.Timed() || s.status.Terminal() {
		return false
	}
	s.timeRemaining--
	if s.timeRemaining <= 0 {
		s.ExpireTime()
	}
	return true
}

// ExpireTime ends an in-progress game because the countdown reached zero.
func (s *State) ExpireTime() {
	if s.status != StatusInProgress {
		return
	}
	s.status = StatusLostTimeUp
	s.timeRemaining = 0
	s.saveHighScore()
}

// Generation returns the reset counter used to tag timer ticks.
func (s *State) Generation() uint64 { return s.generation }

// Status returns the current lifecycle state.
func (s *State) Status() Status { return s.status }

// Score returns the current score.
func (s *State) Score() int { return s.score }

// HighScore returns the best score for the current (base, mode).
func (s *State) HighScore() int { return s.highScore }

// Base returns the merge base.
func (s *State) Base() int { return s.base }

// Mode returns the timer mode.
func (s *State) Mode() Mode { return s.mode }

func (s *State) loadHighScore() int {
	if s.store == nil {
		return 0
	}
	key := HighScoreKey(s.base, s.mode)
	raw, err := s.store.Get(key)
	if err != nil {
		s.warn("could not load high score", "key", key, "error", err)
		return 0
	}
	score, ok := ParseHighScore(raw)
	if !ok && s.logger != nil {
		s.logger.Debug("ignoring malformed high score", "key", key, "value", raw)
	}
	return score
}

// saveHighScore persists the score when it beats the stored record.
// Write failures are logged and otherwise ignored.
func (s *State) saveHighScore() {
	if s.score <= s.highScore {
		return
	}
	s.highScore = s.score
	if s.store == nil {
		return
	}
	key := HighScoreKey(s.base, s.mode)
	if err := s.store.Set(key, strconv.Itoa(s.score)); err != nil {
		s.warn("could not save high score", "key", key, "error", err)
	}
}

func (s *State) warn(msg string, keyvals ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, keyvals...)
	}
}
