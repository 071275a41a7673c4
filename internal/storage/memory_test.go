package storage

import (
	"errors"
	"testing"

	"github.com/dkeye/Arena/internal/domain"
)

func newStoredDebate(t *testing.T, s *MemoryStore) *domain.Debate {
	t.Helper()
	d := domain.NewDebate("cats vs dogs",
		domain.Participant{SessionID: "alice", DisplayName: "Alice", Side: domain.SideFor},
		domain.Participant{SessionID: "bob", DisplayName: "Bob", Side: domain.SideAgainst},
	)
	if err := s.Create(d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == "" {
		t.Fatal("create must assign an id")
	}
	return d
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	d := newStoredDebate(t, s)

	got, err := s.FindByID(d.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Topic != d.Topic || got.ParticipantA.SessionID != "alice" {
		t.Fatalf("loaded record differs: %+v", got)
	}

	got.Votes.A = 3
	if err := s.Save(got); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, _ := s.FindByID(d.ID)
	if reloaded.Votes.A != 3 {
		t.Fatalf("save must persist changes, got tally %d", reloaded.Votes.A)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.FindByID("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	d := &domain.Debate{ID: "ghost"}
	if err := s.Save(d); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("save of unknown record: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	s := NewMemoryStore()
	d := newStoredDebate(t, s)

	loaded, _ := s.FindByID(d.ID)
	loaded.Votes.Voters = append(loaded.Votes.Voters, "v1")
	if _, err := loaded.AppendArgument("alice", "first"); err != nil {
		t.Fatalf("append: %v", err)
	}

	// nothing changed in the store until Save
	stored, _ := s.FindByID(d.ID)
	if len(stored.Votes.Voters) != 0 || len(stored.ParticipantA.Arguments) != 0 {
		t.Fatal("mutating a loaded record must not leak into the store")
	}
}

func TestUnavailableStoreFailsFast(t *testing.T) {
	var s DebateStore = Unavailable{}
	if s.Available() {
		t.Fatal("Unavailable must report unavailable")
	}
	if err := s.Create(&domain.Debate{}); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
	if _, err := s.FindByID("x"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
	if err := s.Save(&domain.Debate{}); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}
