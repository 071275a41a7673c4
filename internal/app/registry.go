package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
)

type sessionEntry struct {
	Session   core.MemberSession
	DebateID  domain.DebateID
	Spectator bool
	Cancel    context.CancelFunc
}

// Registry binds live connections to their session, identity and
// current debate room. All mutation is synchronous so a disconnecting
// connection is fully gone before its next event could be processed.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

func (r *Registry) Bind(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
}

// SetIdentity records the self-asserted identity a client sent with its
// first queue or room event.
func (r *Registry) SetIdentity(sid core.SessionID, selfID domain.SessionID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return
	}
	meta := entry.Session.Meta()
	meta.SessionID = selfID
	if displayName != "" {
		meta.DisplayName = domain.ClampDisplayName(displayName)
	}
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) BindRoom(sid core.SessionID, debateID domain.DebateID, spectator bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return
	}
	entry.DebateID = debateID
	entry.Spectator = spectator
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("debate", string(debateID)).Bool("spectator", spectator).Msg("bound room")
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.DebateID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.DebateID == "" {
		return "", false
	}
	return entry.DebateID, true
}

func (r *Registry) ClearRoom(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[sid]; ok {
		entry.DebateID = ""
		entry.Spectator = false
	}
}

// Unbind drops the connection entry and cancels its context, so both
// pumps stop even when only one side noticed the close.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	entry, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.mu.Unlock()
	if ok && entry.Cancel != nil {
		entry.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}
