package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeWait))
			return
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if !ok {
				log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump channel closed")
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ping")
				return
			}
		}
	}
}

// readPump owns the disconnect path: whatever ends the loop, the connection
// leaves the registry exactly once.
func (ctl *SignalWSController) readPump(ctx context.Context, c *WsSignalConn) {
	defer func() {
		c.Close()
		ctl.limiter.Forget(c.id)
		ctl.Orch.OnDisconnect(c)
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
	}()

	pongWait := ctl.Cfg.PongWait()
	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleSignal(ctx, c, data)
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, c *WsSignalConn, data []byte) {
	if !ctl.limiter.Allow(c.id) {
		log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("rate limited")
		ctl.sendError(c, core.ErrCodeRateLimited)
		return
	}

	in, err := core.DecodeInbound(data)
	if err != nil || in.Type == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad json")
		ctl.sendError(c, core.ErrCodeBadPayload)
		return
	}

	switch in.Type {
	case core.EventRegisterKiosk:
		ctl.Orch.RegisterKiosk(in.SessionID, c)
	case core.EventRegisterAdmin:
		ctl.Orch.RegisterAdmin(in.SessionID, c)
	case core.EventOffer:
		ctl.Orch.Offer(in.SessionID, in.Offer, c)
	case core.EventAnswer:
		ctl.Orch.Answer(in.SessionID, in.Answer, c, in.TargetAdminID)
	case core.EventIceCandidate:
		ctl.Orch.IceCandidate(in.SessionID, in.Candidate, c)
	case core.EventKioskScreenReady:
		ctl.Orch.KioskReady(in.SessionID, in.HasVideo, c)
	case core.EventGetActiveSessions:
		ctl.handleActiveSessions(ctx, c, in.LabID)
	case core.EventPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", string(in.Type)).Msg("unknown signal")
		ctl.sendError(c, core.ErrCodeUnknownType)
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	ctl.Orch.Router.SendJSON(c, v)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, code string) {
	ctl.Orch.Router.Send(c, core.Outbound{Type: core.EventError, Error: code})
}
