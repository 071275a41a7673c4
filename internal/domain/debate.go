// Package domain contains the debate entities and their small invariants,
// no transport or storage logic.
package domain

import (
	"strings"
	"time"
)

type (
	// DebateID addresses one debate record and its live room.
	DebateID string
	// SessionID is the self-asserted anonymous identity of one browser.
	// It survives reconnects and is never authenticated.
	SessionID string
)

const (
	MaxTopicLen       = 200
	MaxDisplayNameLen = 36
	MaxArgumentLen    = 2000
)

// Side is the stance a participant argues, fixed once assigned.
type Side string

const (
	SideFor     Side = "for"
	SideAgainst Side = "against"
)

func (s Side) Opposite() Side {
	if s == SideFor {
		return SideAgainst
	}
	return SideFor
}

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

type Winner string

const (
	WinnerA    Winner = "participantA"
	WinnerB    Winner = "participantB"
	WinnerTie  Winner = "tie"
	WinnerNone Winner = ""
)

// VoteTarget names the participant a vote is cast for.
type VoteTarget string

const (
	TargetA VoteTarget = "participantA"
	TargetB VoteTarget = "participantB"
)

type Argument struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Participant struct {
	SessionID   SessionID  `json:"sessionId"`
	DisplayName string     `json:"displayName"`
	Side        Side       `json:"side"`
	Arguments   []Argument `json:"arguments"`
}

// Votes tallies one count per participant plus the set of sessions
// that already voted. A session appears in Voters at most once.
type Votes struct {
	A      int         `json:"participantA"`
	B      int         `json:"participantB"`
	Voters []SessionID `json:"voters"`
}

func (v *Votes) HasVoted(sid SessionID) bool {
	for _, voter := range v.Voters {
		if voter == sid {
			return true
		}
	}
	return false
}

// Debate is the durable record. The authoritative copy lives in the
// store; rooms only cache the ID.
type Debate struct {
	ID              DebateID    `json:"id"`
	Topic           string      `json:"topic"`
	ParticipantA    Participant `json:"participantA"`
	ParticipantB    Participant `json:"participantB"`
	Status          Status      `json:"status"`
	Votes           Votes       `json:"votes"`
	SpectatorCount  int         `json:"spectatorCount"`
	Winner          Winner      `json:"winner,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	StartedAt       time.Time   `json:"startedAt"`
	FinishedAt      time.Time   `json:"finishedAt,omitzero"`
	DurationSeconds int         `json:"durationSeconds"`
}

// NewDebate builds an active debate between two matched participants.
// Callers assign complementary sides before passing the participants in.
func NewDebate(topic string, a, b Participant) *Debate {
	now := time.Now()
	return &Debate{
		Topic:        topic,
		ParticipantA: a,
		ParticipantB: b,
		Status:       StatusActive,
		CreatedAt:    now,
		StartedAt:    now,
	}
}

func (d *Debate) IsParticipant(sid SessionID) bool {
	return d.ParticipantA.SessionID == sid || d.ParticipantB.SessionID == sid
}

// AppendArgument adds a timestamped entry to the matching side's
// sequence. Arguments are append-only and ordered by submission.
func (d *Debate) AppendArgument(sid SessionID, text string) (Argument, error) {
	if d.Status != StatusActive {
		return Argument{}, ErrInvalidState
	}
	entry := Argument{Text: text, Timestamp: time.Now()}
	switch sid {
	case d.ParticipantA.SessionID:
		d.ParticipantA.Arguments = append(d.ParticipantA.Arguments, entry)
	case d.ParticipantB.SessionID:
		d.ParticipantB.Arguments = append(d.ParticipantB.Arguments, entry)
	default:
		return Argument{}, ErrNotParticipant
	}
	return entry, nil
}

// CastVote records one vote for target. Participants may never vote,
// and a session votes at most once; repeats report ErrAlreadyVoted so
// the caller can treat them as a no-op.
func (d *Debate) CastVote(sid SessionID, target VoteTarget) error {
	if d.Status != StatusActive {
		return ErrInvalidState
	}
	if d.IsParticipant(sid) {
		return ErrParticipantVote
	}
	if d.Votes.HasVoted(sid) {
		return ErrAlreadyVoted
	}
	switch target {
	case TargetA:
		d.Votes.A++
	case TargetB:
		d.Votes.B++
	default:
		return ErrBadVoteTarget
	}
	d.Votes.Voters = append(d.Votes.Voters, sid)
	return nil
}

// ResolveWinner picks the participant with strictly more votes.
// Equal tallies, zero-zero included, resolve to a tie.
func (d *Debate) ResolveWinner() Winner {
	switch {
	case d.Votes.A > d.Votes.B:
		return WinnerA
	case d.Votes.B > d.Votes.A:
		return WinnerB
	default:
		return WinnerTie
	}
}

// Finish moves the debate to its terminal state. No transition leaves
// finished.
func (d *Debate) Finish(now time.Time) error {
	if d.Status != StatusActive {
		return ErrInvalidState
	}
	d.Winner = d.ResolveWinner()
	d.Status = StatusFinished
	d.FinishedAt = now
	d.DurationSeconds = int(now.Sub(d.StartedAt) / time.Second)
	return nil
}

// NormalizeTopic folds a topic for matching. The original spelling is
// kept for display.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
