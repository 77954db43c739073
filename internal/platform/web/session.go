// Package web serves Power 2048 over HTTP: a REST API for sessions and
// moves, and a websocket feed that pushes a snapshot after every change.
package web

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

// ErrSessionNotFound is returned for unknown or deleted session IDs.
var ErrSessionNotFound = errors.New("web: session not found")

// SessionView is a session snapshot as sent to API clients.
type SessionView struct {
	ID        string    `json:"id"`
	Player    string    `json:"player,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	power2048.Snapshot
}

// MoveResponse is the outcome of one move plus the resulting state.
type MoveResponse struct {
	power2048.MoveResult
	State SessionView `json:"state"`
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Store        *storage.Store         // Shared high scores and history; nil keeps them in memory
	Logger       *log.Logger            // Optional
	Seed         int64                  // Non-zero makes tile spawns reproducible
	TickInterval time.Duration          // Countdown period, one second by default
	Base         int                    // Base for sessions created without one
	Mode         power2048.Mode         // Mode for sessions created without one
	OnChange     func(view SessionView) // Called after moves, ticks and resets
}

// session is one game owned by the manager. mu serializes moves, resets
// and countdown ticks.
type session struct {
	id        string
	player    string
	createdAt time.Time

	mu        sync.Mutex
	state     *power2048.State
	countdown *power2048.Countdown
	recorded  bool
	closed    bool
}

func (s *session) view() SessionView {
	return SessionView{
		ID:        s.id,
		Player:    s.player,
		CreatedAt: s.createdAt,
		Snapshot:  s.state.Snapshot(),
	}
}

// Manager owns the live sessions of the HTTP and MCP front ends.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	created  int64

	store    *storage.Store
	logger   *log.Logger
	seed     int64
	interval time.Duration
	base     int
	mode     power2048.Mode
	onChange func(SessionView)

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates an empty session manager.
func NewManager(opts ManagerOptions) *Manager {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if !engine.ValidBase(opts.Base) {
		opts.Base = engine.Bases[0]
	}
	if !opts.Mode.Valid() {
		opts.Mode = power2048.ModeClassic
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions: make(map[string]*session),
		store:    opts.Store,
		logger:   opts.Logger,
		seed:     opts.Seed,
		interval: opts.TickInterval,
		base:     opts.Base,
		mode:     opts.Mode,
		onChange: opts.OnChange,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnChange replaces the change callback. Call it before serving.
func (m *Manager) SetOnChange(fn func(SessionView)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Create starts a new session. A zero base or empty mode selects the
// manager defaults.
func (m *Manager) Create(base int, mode power2048.Mode, player string) (SessionView, error) {
	if base == 0 {
		base = m.base
	}
	if mode == "" {
		mode = m.mode
	}

	m.mu.Lock()
	m.created++
	seed := m.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += m.created
	}
	m.mu.Unlock()

	opts := power2048.Options{
		Base:   base,
		Mode:   mode,
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: m.logger,
	}
	if m.store != nil {
		opts.Store = m.store
	}
	state, err := power2048.New(opts)
	if err != nil {
		return SessionView{}, err
	}

	sess := &session{
		id:        uuid.NewString(),
		player:    player,
		createdAt: time.Now().UTC(),
		state:     state,
	}

	sess.mu.Lock()
	m.startCountdown(sess)
	view := sess.view()
	sess.mu.Unlock()

	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	m.debug("session created", "id", sess.id, "base", base, "mode", mode)
	return view, nil
}

// Get returns the current state of a session.
func (m *Manager) Get(id string) (SessionView, error) {
	sess, err := m.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// List returns all sessions, newest first.
func (m *Manager) List() []SessionView {
	m.mu.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.mu.RUnlock()

	views := make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		sess.mu.Lock()
		views = append(views, sess.view())
		sess.mu.Unlock()
	}
	slices.SortFunc(views, func(a, b SessionView) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return views
}

// Delete removes a session and stops its countdown.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.closed = true
	sess.countdown.Stop()
	sess.countdown = nil
	sess.mu.Unlock()

	m.debug("session deleted", "id", id)
	return nil
}

// Move applies one move to a session.
func (m *Manager) Move(id string, dir engine.Direction) (MoveResponse, error) {
	sess, err := m.lookup(id)
	if err != nil {
		return MoveResponse{}, err
	}

	sess.mu.Lock()
	res := sess.state.Move(dir)
	if sess.state.Status().Terminal() {
		sess.countdown.Stop()
		m.recordFinished(sess)
	}
	view := sess.view()
	sess.mu.Unlock()

	if res.Moved {
		m.notify(view)
	}
	return MoveResponse{MoveResult: res, State: view}, nil
}

// Reset restarts a session, optionally switching base and mode first.
// Both values are validated before anything changes.
func (m *Manager) Reset(id string, base *int, mode *power2048.Mode) (SessionView, error) {
	if base != nil {
		if err := power2048.ValidateBase(*base); err != nil {
			return SessionView{}, err
		}
	}
	if mode != nil && !mode.Valid() {
		return SessionView{}, fmt.Errorf("%w: %q", power2048.ErrInvalidMode, *mode)
	}

	sess, err := m.lookup(id)
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	sess.countdown.Stop()
	switch {
	case base != nil && mode != nil:
		_ = sess.state.SetMode(*mode)
		_ = sess.state.SetBase(*base)
	case base != nil:
		_ = sess.state.SetBase(*base)
	case mode != nil:
		_ = sess.state.SetMode(*mode)
	default:
		sess.state.Reset()
	}
	sess.recorded = false
	m.startCountdown(sess)
	view := sess.view()
	sess.mu.Unlock()

	m.notify(view)
	return view, nil
}

// Close stops every countdown. The manager must not be used afterwards.
func (m *Manager) Close() {
	m.cancel()
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// startCountdown runs a countdown for the current generation of a timed
// game. Callers hold sess.mu.
func (m *Manager) startCountdown(sess *session) {
	sess.countdown = nil
	if !sess.state.Mode().Timed() || sess.state.Status().Terminal() {
		return
	}
	sess.countdown = power2048.StartCountdown(m.ctx, m.interval, sess.state.Generation(), func(gen uint64) {
		m.tick(sess, gen)
	})
}

// tick delivers one countdown second. Ticks that lose a race with a reset
// carry an old generation and are dropped by State.Tick.
func (m *Manager) tick(sess *session, gen uint64) {
	sess.mu.Lock()
	if sess.closed || !sess.state.Tick(gen) {
		sess.mu.Unlock()
		return
	}
	if sess.state.Status().Terminal() {
		sess.countdown.Stop()
		m.recordFinished(sess)
	}
	view := sess.view()
	sess.mu.Unlock()

	m.notify(view)
}

// recordFinished adds a finished game to the score history once per
// generation. Callers hold sess.mu.
func (m *Manager) recordFinished(sess *session) {
	if sess.recorded {
		return
	}
	sess.recorded = true

	snap := sess.state.Snapshot()
	if m.store == nil || snap.Score == 0 {
		return
	}
	_, err := m.store.SaveScore(storage.ScoreEntry{
		Base:    snap.Base,
		Mode:    string(snap.Mode),
		Score:   snap.Score,
		MaxTile: snap.MaxTile,
		Moves:   snap.Moves,
		Status:  snap.Status.String(),
		Player:  sess.player,
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("could not record score", "session", sess.id, "error", err)
	}
}

func (m *Manager) notify(view SessionView) {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn(view)
	}
}

func (m *Manager) debug(msg string, keyvals ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, keyvals...)
	}
}
