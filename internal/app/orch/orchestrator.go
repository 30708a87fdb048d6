// Package orch keeps the connection registry consistent with session
// lifecycle events and transport disconnects.
package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/app"
	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/metrics"
)

type Orchestrator struct {
	Registry *app.Registry
	Router   *app.Router
	Store    core.SessionStore
	Labs     core.LabStore
	Metrics  *metrics.Metrics
}

func New(reg *app.Registry, router *app.Router, store core.SessionStore, labs core.LabStore, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{Registry: reg, Router: router, Store: store, Labs: labs, Metrics: m}
}

// OnConnect makes a fresh transport connection addressable and tells it its id.
func (o *Orchestrator) OnConnect(conn core.SignalConnection) {
	o.Registry.Attach(conn)
	o.Metrics.ConnOpened()
	o.Router.Send(conn, core.Outbound{Type: core.EventWelcome, ConnectionID: conn.ID()})
	log.Info().Str("module", "orch").Str("conn", string(conn.ID())).Msg("connected")
}

// OnDisconnect must run exactly once per connection, from the transport's
// own disconnect path.
func (o *Orchestrator) OnDisconnect(conn core.SignalConnection) {
	res := o.Registry.RemoveConnection(conn)
	o.Metrics.ConnClosed()
	log.Info().
		Str("module", "orch").
		Str("conn", string(conn.ID())).
		Int("kiosk_of", len(res.KioskOf)).
		Int("admin_of", len(res.AdminOf)).
		Msg("disconnected")
}
