package signal

import "github.com/dkeye/Arena/internal/protocol"

func (ctl *WSController) handlePing(c *wsConn) {
	ctl.sendJSON(c, protocol.Pong{Type: protocol.TypePong})
}
