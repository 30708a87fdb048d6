package signal

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/app/orch"
	"github.com/dkeye/labwatch/internal/config"
	"github.com/dkeye/labwatch/internal/core"
)

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Cfg     *config.Config
	limiter *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		Cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateInterval),
	}
}

// WsSignalConn is one signaling client. Frames queued with TrySend are
// written by a single writePump in FIFO order.
type WsSignalConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) ID() core.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

// Close stops accepting frames. writePump flushes what is queued and then
// closes the socket, which ends readPump.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		id:   core.NewConnID(),
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("remote", c.ClientIP()).Msg("new WS connection")

	ctl.Orch.OnConnect(conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, conn)
}
