package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/app"
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type WSController struct {
	Coord     *app.Coordinator
	Relay     *app.SignalRelay
	Limiter   *RateLimiter
	ReadLimit int64
	SendBuf   int
}

func NewWSController(coord *app.Coordinator, relay *app.SignalRelay, limiter *RateLimiter, readLimit int64, sendBuf int) *WSController {
	if sendBuf <= 0 {
		sendBuf = 32
	}
	return &WSController{Coord: coord, Relay: relay, Limiter: limiter, ReadLimit: readLimit, SendBuf: sendBuf}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Alive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the connection and starts the pumps. The
// client token cookie is the connection identity; the self-asserted
// session id arrives later inside event payloads.
func (ctl *WSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.SendBuf),
	}

	sess := core.NewMemberSession(domain.NewMember("", ""), conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Coord.Registry.Bind(sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}
