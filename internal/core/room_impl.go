package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	id domain.DebateID

	mu           sync.RWMutex
	participants map[SessionID]MemberSession
	spectators   map[SessionID]MemberSession
	voters       map[domain.SessionID]struct{}
}

func NewDebateRoom(id domain.DebateID) DebateRoom {
	return &roomImpl{
		id:           id,
		participants: make(map[SessionID]MemberSession),
		spectators:   make(map[SessionID]MemberSession),
		voters:       make(map[domain.SessionID]struct{}),
	}
}

func (r *roomImpl) ID() domain.DebateID { return r.id }

func (r *roomImpl) AddParticipant(sid SessionID, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spectators, sid)
	r.participants[sid] = ms
	log.Info().Str("module", "core.room").Str("debate", string(r.id)).Str("sid", string(sid)).Msg("participant added")
}

func (r *roomImpl) AddSpectator(sid SessionID, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[sid]; ok {
		return
	}
	r.spectators[sid] = ms
	log.Info().Str("module", "core.room").Str("debate", string(r.id)).Str("sid", string(sid)).Msg("spectator added")
}

func (r *roomImpl) Remove(sid SessionID) (wasSpectator, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.spectators[sid]; found {
		delete(r.spectators, sid)
		log.Info().Str("module", "core.room").Str("debate", string(r.id)).Str("sid", string(sid)).Msg("spectator removed")
		return true, true
	}
	if _, found := r.participants[sid]; found {
		delete(r.participants, sid)
		log.Info().Str("module", "core.room").Str("debate", string(r.id)).Str("sid", string(sid)).Msg("participant removed")
		return false, true
	}
	return false, false
}

func (r *roomImpl) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// SpectatorCount is the live count of joined spectator channels,
// never a cumulative counter.
func (r *roomImpl) SpectatorCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spectators)
}

func (r *roomImpl) Participants() []MemberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSnap, 0, len(r.participants))
	for sid, ms := range r.participants {
		out = append(out, MemberSnap{SID: sid, Session: ms})
	}
	return out
}

func (r *roomImpl) Spectators() []MemberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSnap, 0, len(r.spectators))
	for sid, ms := range r.spectators {
		out = append(out, MemberSnap{SID: sid, Session: ms})
	}
	return out
}

func (r *roomImpl) OtherParticipants(from SessionID) []MemberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSnap, 0, len(r.participants))
	for sid, ms := range r.participants {
		if sid == from {
			continue
		}
		out = append(out, MemberSnap{SID: sid, Session: ms})
	}
	return out
}

func (r *roomImpl) MarkVoted(voter domain.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.voters[voter]; ok {
		return false
	}
	r.voters[voter] = struct{}{}
	return true
}

func (r *roomImpl) Broadcast(data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for sid, ms := range r.participants {
		if err := ms.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	for sid, ms := range r.spectators {
		if err := ms.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("debate", string(r.id)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
