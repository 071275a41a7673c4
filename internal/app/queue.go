package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
)

// QueueEntry is one participant waiting for an opponent.
type QueueEntry struct {
	ConnID      core.SessionID
	SessionID   domain.SessionID
	DisplayName string
	Topic       string // original spelling, kept for display
	Session     core.MemberSession
	EnqueuedAt  time.Time
}

// MatchQueue holds waiting participants and pairs them by normalized
// topic. The scan and the removal of both matched entries happen under
// one lock, so no entry can be matched twice and two back-to-back
// joins for the same topic cannot both decide "no match".
type MatchQueue struct {
	mu      sync.Mutex
	entries map[domain.SessionID]*QueueEntry
	order   []domain.SessionID // insertion order, earliest first
}

func NewMatchQueue() *MatchQueue {
	return &MatchQueue{entries: make(map[domain.SessionID]*QueueEntry)}
}

// Enqueue inserts or replaces the waiting entry for e.SessionID, then
// tries to match. A replaced entry keeps its queue position. On match
// both entries are removed atomically and the opponent is returned;
// otherwise the caller stays queued.
func (q *MatchQueue) Enqueue(e *QueueEntry) (opponent *QueueEntry, matched bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.entries[e.SessionID]; !ok {
		q.order = append(q.order, e.SessionID)
	}
	e.EnqueuedAt = time.Now()
	q.entries[e.SessionID] = e

	want := domain.NormalizeTopic(e.Topic)
	// Earliest waiter with the same normalized topic wins the tie-break.
	for _, sid := range q.order {
		if sid == e.SessionID {
			continue
		}
		other, ok := q.entries[sid]
		if !ok {
			continue
		}
		if domain.NormalizeTopic(other.Topic) != want {
			continue
		}
		if !other.Session.Signal().Alive() {
			// Stale waiter; disconnect handling removes it for real.
			continue
		}
		q.removeLocked(e.SessionID)
		q.removeLocked(sid)
		log.Info().Str("module", "app.queue").
			Str("session", string(e.SessionID)).
			Str("opponent", string(sid)).
			Str("topic", want).
			Msg("matched")
		return other, true
	}

	log.Info().Str("module", "app.queue").Str("session", string(e.SessionID)).Str("topic", want).Int("waiting", len(q.entries)).Msg("queued")
	return nil, false
}

// Dequeue removes the entry for sid. Removing an absent entry is a
// no-op.
func (q *MatchQueue) Dequeue(sid domain.SessionID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(sid)
}

// DequeueConn removes whatever entry belongs to a disconnecting
// channel, regardless of the self-asserted session id it used.
func (q *MatchQueue) DequeueConn(connID core.SessionID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for sid, e := range q.entries {
		if e.ConnID == connID {
			q.removeLocked(sid)
			return
		}
	}
}

func (q *MatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *MatchQueue) removeLocked(sid domain.SessionID) {
	if _, ok := q.entries[sid]; !ok {
		return
	}
	delete(q.entries, sid)
	for i, id := range q.order {
		if id == sid {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}
