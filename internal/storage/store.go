// Package storage provides the engine's narrow durability contract and
// its implementations. The store is externally synchronized; the engine
// fails fast instead of buffering writes when it is unreachable.
package storage

import "github.com/dkeye/Arena/internal/domain"

// DebateStore durably saves and loads debate records.
type DebateStore interface {
	// Create persists a new record and assigns d.ID.
	Create(d *domain.Debate) error
	// FindByID returns domain.ErrNotFound when no record exists.
	FindByID(id domain.DebateID) (*domain.Debate, error)
	Save(d *domain.Debate) error
	Available() bool
}

// Unavailable stands in when the configured store cannot be reached.
// Every durable operation fails fast with domain.ErrStoreUnavailable.
type Unavailable struct{}

func (Unavailable) Create(*domain.Debate) error { return domain.ErrStoreUnavailable }

func (Unavailable) FindByID(domain.DebateID) (*domain.Debate, error) {
	return nil, domain.ErrStoreUnavailable
}

func (Unavailable) Save(*domain.Debate) error { return domain.ErrStoreUnavailable }

func (Unavailable) Available() bool { return false }
