package services

import (
	"sync"

	"gorm.io/gorm"
)

// SessionRegistry maps game IDs to their live sessions. At most one session
// exists per game; concurrent lookups for the same unseen game resolve to a
// single instance.
type SessionRegistry struct {
	mu       sync.Mutex
	store    Store
	bus      Broadcaster
	sessions map[uint]*GameSession
}

func NewSessionRegistry(store Store, bus Broadcaster) *SessionRegistry {
	return &SessionRegistry{
		store:    store,
		bus:      bus,
		sessions: make(map[uint]*GameSession),
	}
}

// GetOrCreate returns the live session for a game, loading it from the store
// on first access.
func (r *SessionRegistry) GetOrCreate(gameID uint) (*GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[gameID]; ok {
		return s, nil
	}
	g, err := r.store.GameByID(gameID)
	if err != nil {
		return nil, err
	}
	s := newGameSession(g, r.store, r.bus)
	s.onFinished = func() { r.Evict(gameID) }
	r.sessions[gameID] = s
	return s, nil
}

// Evict drops a session that is finished and has no running timer. Live
// sessions are never evicted. Sessions call it through their finish hook,
// so a finished game does not linger in the map.
func (r *SessionRegistry) Evict(gameID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[gameID]
	if !ok {
		return false
	}
	s.mu.Lock()
	idle := s.game.IsFinished && s.stopAuto == nil
	s.mu.Unlock()
	if !idle {
		return false
	}
	delete(r.sessions, gameID)
	return true
}

// Package-level engine handles, set once at startup.
var (
	Sessions *SessionRegistry
	Raffles  *RaffleEngine
	Bus      *Hub
	Accounts Store
)

// Init wires the engine onto a database handle. Call once after the schema
// is migrated, before serving requests.
func Init(db *gorm.DB) {
	store := NewGormStore(db)
	Accounts = store
	Bus = NewHub()
	Sessions = NewSessionRegistry(store, Bus)
	Raffles = NewRaffleEngine(store, Bus)
}
