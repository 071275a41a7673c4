package core

import "github.com/dkeye/Arena/internal/domain"

// Frame is one encoded event on the wire.
type Frame []byte

// SessionID identifies one live connection (the anonymous client
// token), as opposed to domain.SessionID which is self-asserted in
// event payloads.
type SessionID string

// SignalConnection abstracts a duplex messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Alive() bool
	Close()
}

// MemberSession binds domain.Member and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Meta() *domain.Member
	Signal() SignalConnection
}

// PublishResult reports delivery stats to the coordinator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// MemberSnap pairs a connection with its session for iteration.
type MemberSnap struct {
	SID     SessionID
	Session MemberSession
}

// DebateRoom is the broadcast scope of one debate: up to two
// participant channels, a spectator set and the distinct-voter set.
// It owns membership but never touches transport resources.
type DebateRoom interface {
	ID() domain.DebateID

	AddParticipant(sid SessionID, ms MemberSession)
	AddSpectator(sid SessionID, ms MemberSession)
	// Remove drops sid from whichever set holds it and reports which
	// one that was.
	Remove(sid SessionID) (wasSpectator, ok bool)

	ParticipantCount() int
	SpectatorCount() int
	Participants() []MemberSnap
	Spectators() []MemberSnap
	// OtherParticipants returns the participant channels except from,
	// the relay's fan-out target.
	OtherParticipants(from SessionID) []MemberSnap

	// MarkVoted records a distinct voter; false if already present.
	MarkVoted(voter domain.SessionID) bool

	// Broadcast sends a frame to every channel in the room,
	// participants and spectators alike.
	Broadcast(data Frame) PublishResult
}

type RoomInfo struct {
	ID           domain.DebateID `json:"id"`
	Participants int             `json:"participants"`
	Spectators   int             `json:"spectators"`
}

// RoomManager owns the registry of live rooms. Operations on distinct
// rooms never contend on a shared lock beyond the map access itself.
type RoomManager interface {
	Create(id domain.DebateID) DebateRoom
	GetOrCreate(id domain.DebateID) DebateRoom
	Get(id domain.DebateID) (DebateRoom, bool)
	Stop(id domain.DebateID)
	List() []RoomInfo
}

// NewMemberSession pairs meta with its transport endpoint.
func NewMemberSession(meta *domain.Member, conn SignalConnection) MemberSession {
	return &memberSession{meta: meta, conn: conn}
}

type memberSession struct {
	meta *domain.Member
	conn SignalConnection
}

func (m *memberSession) Meta() *domain.Member     { return m.meta }
func (m *memberSession) Signal() SignalConnection { return m.conn }
