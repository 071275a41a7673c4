// Package protocol defines the closed event vocabulary spoken over the
// signal socket, one tagged struct per event and direction. Unknown
// types are rejected by the dispatcher, never silently dropped.
package protocol

import (
	"encoding/json"

	"github.com/dkeye/Arena/internal/domain"
)

// Client -> server event types.
const (
	TypeJoinQueue      = "join-queue"
	TypeLeaveQueue     = "leave-queue"
	TypeJoinRoom       = "join-room"
	TypeSubmitArgument = "submit-argument"
	TypeCastVote       = "cast-vote"
	TypeEndDebate      = "end-debate"
	TypeRelayOffer     = "relay-offer"
	TypeRelayAnswer    = "relay-answer"
	TypeRelayICE       = "relay-ice"
	TypePing           = "ping"
)

// Server -> client event types.
const (
	TypeQueueStatus     = "queue-status"
	TypeMatchFound      = "match-found"
	TypeRoomError       = "room-error"
	TypeSessionSnapshot = "session-snapshot"
	TypeNewArgument     = "new-argument"
	TypeVotesUpdated    = "votes-updated"
	TypeSpectatorCount  = "spectator-count"
	TypeDebateEnded     = "debate-ended"
	TypePong            = "pong"
)

// room-error reasons.
const (
	ReasonBadPayload       = "bad_payload"
	ReasonValidation       = "validation"
	ReasonNotFound         = "not_found"
	ReasonNotParticipant   = "not_participant"
	ReasonNotAuthorized    = "not_authorized"
	ReasonInvalidState     = "invalid_state"
	ReasonStoreUnavailable = "store_unavailable"
	ReasonRateLimited      = "rate_limited"
	ReasonUnknownEvent     = "unknown_event"
)

// Envelope carries only the tag; handlers re-decode the full payload.
type Envelope struct {
	Type string `json:"type"`
}

type JoinQueue struct {
	Type        string `json:"type"`
	SessionID   string `json:"sessionId"`
	DisplayName string `json:"displayName"`
	Topic       string `json:"topic"`
}

type LeaveQueue struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

type JoinRoom struct {
	Type          string `json:"type"`
	DebateID      string `json:"debateId"`
	SessionID     string `json:"sessionId"`
	DisplayName   string `json:"displayName"`
	AsParticipant bool   `json:"asParticipant"`
}

type SubmitArgument struct {
	Type      string `json:"type"`
	DebateID  string `json:"debateId"`
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type CastVote struct {
	Type      string `json:"type"`
	DebateID  string `json:"debateId"`
	SessionID string `json:"sessionId"`
	Target    string `json:"target"`
}

type EndDebate struct {
	Type      string `json:"type"`
	DebateID  string `json:"debateId"`
	SessionID string `json:"sessionId"`
}

// RelaySignal covers relay-offer, relay-answer and relay-ice. Payload
// is opaque connection-setup metadata, forwarded untouched.
type RelaySignal struct {
	Type      string          `json:"type"`
	DebateID  string          `json:"debateId"`
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload"`
}

type QueueStatus struct {
	Type  string `json:"type"`
	State string `json:"state"`
}

type MatchFound struct {
	Type         string          `json:"type"`
	DebateID     domain.DebateID `json:"debateId"`
	Topic        string          `json:"topic"`
	Side         domain.Side     `json:"side"`
	OpponentSide domain.Side     `json:"opponentSide"`
}

type RoomError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type SessionSnapshot struct {
	Type   string         `json:"type"`
	Debate *domain.Debate `json:"debate"`
}

type NewArgument struct {
	Type     string          `json:"type"`
	DebateID domain.DebateID `json:"debateId"`
	Entry    domain.Argument `json:"entry"`
}

type VotesUpdated struct {
	Type           string       `json:"type"`
	Tally          domain.Votes `json:"tally"`
	SpectatorCount int          `json:"spectatorCount"`
}

type SpectatorCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type DebateEnded struct {
	Type   string        `json:"type"`
	Winner domain.Winner `json:"winner"`
	Tally  domain.Votes  `json:"tally"`
}

// RelayForward is the server-side mirror of RelaySignal, addressed to
// the other participant.
type RelayForward struct {
	Type          string           `json:"type"`
	Payload       json.RawMessage  `json:"payload"`
	FromSessionID domain.SessionID `json:"fromSessionId"`
}

type Pong struct {
	Type string `json:"type"`
}

func NewQueueStatusWaiting() QueueStatus {
	return QueueStatus{Type: TypeQueueStatus, State: "waiting"}
}

func NewRoomError(reason string) RoomError {
	return RoomError{Type: TypeRoomError, Reason: reason}
}

func NewSessionSnapshot(d *domain.Debate) SessionSnapshot {
	return SessionSnapshot{Type: TypeSessionSnapshot, Debate: d}
}

func NewSpectatorCount(count int) SpectatorCount {
	return SpectatorCount{Type: TypeSpectatorCount, Count: count}
}

// Marshal encodes an event for the wire. Event structs contain only
// marshalable fields, so failures indicate a programming error and are
// reported rather than panicking.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
