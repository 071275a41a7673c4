package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

func (ctl *WSController) handleJoinQueue(sid core.SessionID, c *wsConn, data []byte) {
	var p protocol.JoinQueue
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-queue payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}

	sess, ok := ctl.Coord.Registry.GetSession(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("session", p.SessionID).Str("topic", p.Topic).Msg("join queue")
	if err := ctl.Coord.JoinQueue(sid, sess, domain.SessionID(p.SessionID), p.DisplayName, p.Topic); err != nil {
		ctl.sendError(c, reasonFor(err))
	}
}

func (ctl *WSController) handleLeaveQueue(sid core.SessionID, c *wsConn, data []byte) {
	var p protocol.LeaveQueue
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave-queue payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}
	// Leaving an empty queue slot is a no-op, not an error.
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("session", p.SessionID).Msg("leave queue")
	ctl.Coord.LeaveQueue(domain.SessionID(p.SessionID))
}
