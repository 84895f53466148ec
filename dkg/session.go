package dkg

import (
	"sync"

	"github.com/arcana-network/frostsigner/frost"
)

// state is one of idle, round1Pending or round2Pending. Only this package
// can construct or inspect it.
type state interface {
	stage() string
}

type idle struct{}

type round1Pending struct {
	identifier frost.Identifier
	secrets    []*frost.Round1SecretPackage
}

type round2Pending struct {
	identifier frost.Identifier
	secrets    []*frost.Round2SecretPackage
}

func (idle) stage() string { return "idle" }
func (round1Pending) stage() string { return "round1" }
func (round2Pending) stage() string { return "round2" }

// Session is the node's key generation session.
type Session struct {
	state state
}

func (s *Session) current() state {
	if s.state == nil {
		return idle{}
	}
	return s.state
}

// Stage names the current state for diagnostics.
func (s *Session) Stage() string {
	return s.current().stage()
}

func (s *Session) set(st state) {
	s.state = st
}

// SessionStore owns a session and serializes access to it. fn runs with
// exclusive access; its changes are kept only if it returns nil.
type SessionStore interface {
	WithSession(fn func(s *Session) error) error
}

// MemorySessionStore keeps a single session in process memory.
type MemorySessionStore struct {
	mu      sync.Mutex
	session Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) WithSession(fn func(s *Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	working := m.session
	if err := fn(&working); err != nil {
		return err
	}
	m.session = working
	return nil
}
