package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

func (ctl *WSController) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *WSController) readPump(ctx context.Context, sid core.SessionID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		c.Close()
		// Membership cleanup must finish before anything else can run
		// on behalf of this connection.
		ctl.Coord.OnDisconnect(sid)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(sid, c, data)
		}
	}
}

// dispatch routes one client event. The vocabulary is closed; unknown
// types are rejected, not ignored.
func (ctl *WSController) dispatch(sid core.SessionID, c *wsConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, protocol.ReasonBadPayload)
		return
	}

	switch env.Type {
	case protocol.TypeJoinQueue:
		ctl.handleJoinQueue(sid, c, data)
	case protocol.TypeLeaveQueue:
		ctl.handleLeaveQueue(sid, c, data)
	case protocol.TypeJoinRoom:
		ctl.handleJoinRoom(sid, c, data)
	case protocol.TypeSubmitArgument:
		ctl.handleSubmitArgument(sid, c, data)
	case protocol.TypeCastVote:
		ctl.handleCastVote(sid, c, data)
	case protocol.TypeEndDebate:
		ctl.handleEndDebate(sid, c, data)
	case protocol.TypeRelayOffer, protocol.TypeRelayAnswer, protocol.TypeRelayICE:
		ctl.handleRelay(sid, c, env.Type, data)
	case protocol.TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(c, protocol.ReasonUnknownEvent)
	}
}

func (ctl *WSController) sendJSON(c *wsConn, v any) {
	b, err := protocol.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *WSController) sendError(c *wsConn, reason string) {
	ctl.sendJSON(c, protocol.NewRoomError(reason))
}

// reasonFor maps engine errors onto wire reasons. Errors surface to
// the caller only; broadcasts never carry them.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return protocol.ReasonNotFound
	case errors.Is(err, domain.ErrNotParticipant):
		return protocol.ReasonNotParticipant
	case errors.Is(err, domain.ErrNotAuthorized), errors.Is(err, domain.ErrParticipantVote):
		return protocol.ReasonNotAuthorized
	case errors.Is(err, domain.ErrInvalidState):
		return protocol.ReasonInvalidState
	case errors.Is(err, domain.ErrStoreUnavailable):
		return protocol.ReasonStoreUnavailable
	default:
		return protocol.ReasonValidation
	}
}
