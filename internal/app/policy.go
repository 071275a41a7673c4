package app

import "github.com/dkeye/Arena/internal/domain"

type DisconnectAction int

const (
	KeepOpen DisconnectAction = iota
	ForceEnd
)

// Policy decides what happens to a debate when one of its participants
// drops. The engine itself never forces an end; that call belongs here.
type Policy interface {
	OnParticipantDisconnect(d *domain.Debate) DisconnectAction
}

// KeepOpenPolicy leaves the debate active so the participant can
// reconnect and spectators can keep voting.
type KeepOpenPolicy struct{}

func (KeepOpenPolicy) OnParticipantDisconnect(*domain.Debate) DisconnectAction {
	return KeepOpen
}
