package storage

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dkeye/Arena/internal/domain"
)

// MemoryStore keeps records in-process. Used when no database is
// configured (dev mode) and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	debates map[domain.DebateID]*domain.Debate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{debates: make(map[domain.DebateID]*domain.Debate)}
}

func (s *MemoryStore) Create(d *domain.Debate) error {
	if d.ID == "" {
		d.ID = domain.DebateID(uuid.NewString())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debates[d.ID] = clone(d)
	return nil
}

func (s *MemoryStore) FindByID(id domain.DebateID) (*domain.Debate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.debates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(d), nil
}

func (s *MemoryStore) Save(d *domain.Debate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debates[d.ID]; !ok {
		return domain.ErrNotFound
	}
	s.debates[d.ID] = clone(d)
	return nil
}

func (s *MemoryStore) Available() bool { return true }

// clone keeps callers from mutating stored state through shared slices.
func clone(d *domain.Debate) *domain.Debate {
	cp := *d
	cp.ParticipantA.Arguments = append([]domain.Argument(nil), d.ParticipantA.Arguments...)
	cp.ParticipantB.Arguments = append([]domain.Argument(nil), d.ParticipantB.Arguments...)
	cp.Votes.Voters = append([]domain.SessionID(nil), d.Votes.Voters...)
	return &cp
}
