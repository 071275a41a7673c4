package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

// SignalRelay forwards opaque offer/answer/ICE payloads between the
// participant channels of a debate room. It never inspects payloads,
// never sends to spectators, and holds no state beyond room membership.
type SignalRelay struct {
	Rooms core.RoomManager
}

func NewSignalRelay(rooms core.RoomManager) *SignalRelay {
	return &SignalRelay{Rooms: rooms}
}

// Relay forwards one signaling event to the other participant
// channel(s). Send failures are swallowed and logged; a dead peer must
// not become a room-level error.
func (r *SignalRelay) Relay(debateID domain.DebateID, from core.SessionID, fromSession domain.SessionID, eventType string, payload json.RawMessage) error {
	room, ok := r.Rooms.Get(debateID)
	if !ok {
		return domain.ErrNotFound
	}

	data, err := protocol.Marshal(protocol.RelayForward{
		Type:          eventType,
		Payload:       payload,
		FromSessionID: fromSession,
	})
	if err != nil {
		return err
	}

	for _, snap := range room.OtherParticipants(from) {
		if err := snap.Session.Signal().TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "app.relay").
				Str("debate", string(debateID)).
				Str("dst", string(snap.SID)).
				Str("event", eventType).
				Msg("relay send dropped")
		}
	}
	return nil
}
