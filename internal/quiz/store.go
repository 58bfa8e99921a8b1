package quiz

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists sessions. Save must reject a session whose Version does not
// match the stored one with *ConflictError, then bump the stored version.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	RecordResult(ctx context.Context, r Result) error
}

// MemoryStore keeps sessions in process and forgets them after ttl of inactivity.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID][]byte
	results  []Result
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore; ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID][]byte),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Sessions are stored encoded so callers never share state with the store.
func (m *MemoryStore) put(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.sessions[s.ID] = data
	return nil
}

func (m *MemoryStore) load(id uuid.UUID) (*Session, bool) {
	data, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		delete(m.sessions, id)
		return nil, false
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	return &s, true
}

// Create stores a new session.
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(s)
}

// Get returns a copy of the session.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.load(id)
	if !ok {
		return nil, &NotFoundError{What: "session", ID: id.String()}
	}
	return s, nil
}

// Save replaces the session if its version is current.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.load(s.ID)
	if !ok {
		return &NotFoundError{What: "session", ID: s.ID.String()}
	}
	if current.Version != s.Version {
		return &ConflictError{SessionID: s.ID.String()}
	}
	s.Version++
	return m.put(s)
}

// RecordResult appends a finished result.
func (m *MemoryStore) RecordResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

// Results returns the recorded results.
func (m *MemoryStore) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Result(nil), m.results...)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id := range m.sessions {
		if _, ok := m.load(id); !ok {
			removed++
		}
	}
	return removed
}
