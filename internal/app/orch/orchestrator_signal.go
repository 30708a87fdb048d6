package orch

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

// RegisterKiosk binds conn as the streaming side of sid. Admins already
// watching sid are told the kiosk is back so they can send a fresh offer.
func (o *Orchestrator) RegisterKiosk(sid core.SessionID, conn core.SignalConnection) {
	if sid == "" {
		log.Warn().Str("module", "orch").Str("conn", string(conn.ID())).Msg("register-kiosk without session id")
		return
	}
	if prev := o.Registry.RegisterKiosk(sid, conn); prev != nil {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("stale", string(prev.ID())).Msg("kiosk replaced")
	}
	o.Router.Broadcast(o.Registry.LookupAdmins(sid), core.Outbound{
		Type:         core.EventKioskAvailable,
		SessionID:    sid,
		ConnectionID: conn.ID(),
	})
}

// RegisterAdmin subscribes conn to session notifications and, when sid is
// set, makes it an observer of that session.
func (o *Orchestrator) RegisterAdmin(sid core.SessionID, conn core.SignalConnection) {
	o.Registry.JoinAdminGroup(conn)
	if sid == "" {
		return
	}
	o.Registry.RegisterAdmin(sid, conn)
}

// Offer registers the sender as an observer of sid and forwards its offer.
func (o *Orchestrator) Offer(sid core.SessionID, offer json.RawMessage, conn core.SignalConnection) {
	if sid != "" {
		o.Registry.RegisterAdmin(sid, conn)
	}
	o.Router.RouteOffer(sid, offer, conn)
}

func (o *Orchestrator) Answer(sid core.SessionID, answer json.RawMessage, conn core.SignalConnection, target core.ConnID) {
	o.Router.RouteAnswer(sid, answer, conn, target)
}

func (o *Orchestrator) IceCandidate(sid core.SessionID, candidate json.RawMessage, conn core.SignalConnection) {
	o.Router.RouteIceCandidate(sid, candidate, conn)
}

// KioskReady tells every subscribed admin that a kiosk started capturing.
func (o *Orchestrator) KioskReady(sid core.SessionID, hasVideo bool, conn core.SignalConnection) {
	o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{
		Type:         core.EventKioskScreenReady,
		SessionID:    sid,
		ConnectionID: conn.ID(),
		HasVideo:     &hasVideo,
	})
}

// ActiveSessions lists active sessions of one lab; "all" or "" means every lab.
func (o *Orchestrator) ActiveSessions(ctx context.Context, labID string) ([]*domain.Session, error) {
	if strings.EqualFold(labID, "all") {
		labID = ""
	}
	return o.Store.ListActive(ctx, labID)
}
