package signal

import "github.com/dkeye/labwatch/internal/core"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.Orch.Router.Send(conn, core.Outbound{Type: core.EventPong})
}
