package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

func (ctl *WSController) handleJoinRoom(sid core.SessionID, c *wsConn, data []byte) {
	var p protocol.JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}
	if p.DebateID == "" {
		ctl.sendError(c, protocol.ReasonValidation)
		return
	}

	sess, ok := ctl.Coord.Registry.GetSession(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("debate", p.DebateID).Bool("participant", p.AsParticipant).Msg("join room")
	err := ctl.Coord.JoinRoom(sid, sess, domain.SessionID(p.SessionID), p.DisplayName, domain.DebateID(p.DebateID), p.AsParticipant)
	if err != nil {
		ctl.sendError(c, reasonFor(err))
	}
}

func (ctl *WSController) handleSubmitArgument(sid core.SessionID, c *wsConn, data []byte) {
	var p protocol.SubmitArgument
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad submit-argument payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
		ctl.sendError(c, protocol.ReasonRateLimited)
		return
	}

	err := ctl.Coord.SubmitArgument(domain.DebateID(p.DebateID), domain.SessionID(p.SessionID), p.Text)
	if err != nil {
		ctl.sendError(c, reasonFor(err))
	}
}

func (ctl *WSController) handleCastVote(sid core.SessionID, c *wsConn, data []byte) {
	var p protocol.CastVote
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad cast-vote payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}

	err := ctl.Coord.CastVote(domain.DebateID(p.DebateID), domain.SessionID(p.SessionID), domain.VoteTarget(p.Target))
	if errors.Is(err, domain.ErrAlreadyVoted) {
		// At most one effect per session; repeats are silent no-ops.
		return
	}
	if err != nil {
		ctl.sendError(c, reasonFor(err))
	}
}

func (ctl *WSController) handleEndDebate(sid core.SessionID, c *wsConn, data []byte) {
	var p protocol.EndDebate
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad end-debate payload")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("debate", p.DebateID).Msg("end debate requested")
	err := ctl.Coord.EndDebate(domain.DebateID(p.DebateID), domain.SessionID(p.SessionID))
	if err != nil {
		ctl.sendError(c, reasonFor(err))
	}
}
