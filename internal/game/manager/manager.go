package manager

import (
	"math/rand"
	"sync"

	"Blackjack/internal/game/engine"
	"Blackjack/internal/game/rules"
)

// GameManager keeps at most one active session per player and every
// player's stats for the life of the process.
type GameManager struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session // player → active round
	stats    map[string]*PlayerStats    // player → stats
	cfg      rules.Config
	opts     []engine.Option
	seeds    *rand.Rand // nil: each session seeds itself from the clock
}

// EndResult is what a settled round contributes to the player's record.
type EndResult struct {
	Result    engine.Result `json:"result"`
	WinStreak int           `json:"winStreak"`
}

func NewGameManager(cfg rules.Config, opts ...engine.Option) (*GameManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GameManager{
		sessions: make(map[string]*engine.Session),
		stats:    make(map[string]*PlayerStats),
		cfg:      cfg,
		opts:     opts,
	}, nil
}

// Seed makes every later round's shuffle derive from seed, so a run of
// rounds can be replayed. Consecutive rounds still deal differently.
func (m *GameManager) Seed(seed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeds = rand.New(rand.NewSource(seed))
}

func (m *GameManager) Config() rules.Config {
	return m.cfg
}

// StartGame deals a new round for the player, replacing any previous
// session without settling it.
func (m *GameManager) StartGame(playerID string) (*engine.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	opts := m.opts
	if m.seeds != nil {
		opts = append(opts[:len(opts):len(opts)], engine.WithSeed(m.seeds.Int63()))
	}
	s, err := engine.NewSession(playerID, m.cfg, opts...)
	if err != nil {
		return nil, err
	}
	m.sessions[playerID] = s
	return s, nil
}

func (m *GameManager) Get(playerID string) (*engine.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[playerID]
	return s, ok
}

func (m *GameManager) Has(playerID string) bool {
	_, ok := m.Get(playerID)
	return ok
}

func (m *GameManager) ActiveGameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EndGame removes the player's session. If the round was settled its
// result is recorded; an unsettled round is dropped and ok is false.
func (m *GameManager) EndGame(playerID string) (EndResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[playerID]
	if !ok {
		return EndResult{}, false
	}
	delete(m.sessions, playerID)

	r, ok := s.Result()
	if !ok {
		return EndResult{}, false
	}
	streak := m.statsLocked(playerID).RecordResult(r)
	return EndResult{Result: r, WinStreak: streak}, true
}

// Stats returns a copy of the player's stats, creating them on first use.
func (m *GameManager) Stats(playerID string) PlayerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.statsLocked(playerID)
}

func (m *GameManager) statsLocked(playerID string) *PlayerStats {
	st, ok := m.stats[playerID]
	if !ok {
		st = &PlayerStats{}
		m.stats[playerID] = st
	}
	return st
}
