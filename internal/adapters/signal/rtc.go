package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

// handleRelay forwards audio-connection signaling between the two
// debaters. Payloads stay opaque end to end.
func (ctl *WSController) handleRelay(sid core.SessionID, c *wsConn, eventType string, data []byte) {
	var p protocol.RelaySignal
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad relay payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}
	if p.DebateID == "" {
		ctl.sendError(c, protocol.ReasonValidation)
		return
	}

	err := ctl.Relay.Relay(domain.DebateID(p.DebateID), sid, domain.SessionID(p.SessionID), eventType, p.Payload)
	if err != nil {
		ctl.sendError(c, reasonFor(err))
	}
}
