package app

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/metrics"
)

// Router forwards signaling messages between the kiosk and the admins of a
// session. It keeps no state of its own; every decision is a registry lookup
// made at forward time.
type Router struct {
	Registry *Registry
	Policy   Policy
	Metrics  *metrics.Metrics
}

func NewRouter(reg *Registry, policy Policy, m *metrics.Metrics) *Router {
	return &Router{Registry: reg, Policy: policy, Metrics: m}
}

// RouteOffer forwards an admin's offer to the session kiosk, tagged with the
// admin's connection id. Without a kiosk the origin alone gets target-unavailable.
func (rt *Router) RouteOffer(sid core.SessionID, offer json.RawMessage, origin core.SignalConnection) bool {
	kiosk, ok := rt.Registry.LookupKiosk(sid)
	if !ok {
		rt.Metrics.Miss(string(core.EventOffer))
		log.Debug().Str("module", "app.router").Str("sid", string(sid)).Str("conn", string(origin.ID())).Msg("offer: kiosk not connected")
		rt.Send(origin, core.Outbound{
			Type:      core.EventTargetUnavailable,
			SessionID: sid,
			Reason:    core.ReasonStudentNotConnected,
		})
		return false
	}

	delivered := rt.Send(kiosk, core.Outbound{
		Type:          core.EventOffer,
		SessionID:     sid,
		Offer:         offer,
		OriginAdminID: origin.ID(),
	})
	if delivered {
		rt.Metrics.Routed(string(core.EventOffer))
	}
	return delivered
}

// RouteAnswer forwards the kiosk's answer to the one admin it addresses.
// Only the current kiosk of sid may answer, and only to an admin of sid;
// anything else is dropped.
func (rt *Router) RouteAnswer(sid core.SessionID, answer json.RawMessage, sender core.SignalConnection, target core.ConnID) bool {
	kiosk, ok := rt.Registry.LookupKiosk(sid)
	if !ok || kiosk.ID() != sender.ID() {
		rt.Metrics.Miss(string(core.EventAnswer))
		log.Debug().Str("module", "app.router").Str("sid", string(sid)).Str("conn", string(sender.ID())).Msg("answer: sender is not the kiosk")
		return false
	}
	admin, ok := rt.Registry.AdminOf(sid, target)
	if !ok {
		rt.Metrics.Miss(string(core.EventAnswer))
		log.Debug().Str("module", "app.router").Str("sid", string(sid)).Str("target", string(target)).Msg("answer: target is not an admin of the session")
		return false
	}
	delivered := rt.Send(admin, core.Outbound{
		Type:      core.EventAnswer,
		SessionID: sid,
		Answer:    answer,
	})
	if delivered {
		rt.Metrics.Routed(string(core.EventAnswer))
	}
	return delivered
}

// RouteIceCandidate picks the direction by comparing sender with the current
// kiosk of sid: kiosk candidates fan out to every admin, anything else goes
// to the kiosk. It returns how many connections accepted the frame.
func (rt *Router) RouteIceCandidate(sid core.SessionID, candidate json.RawMessage, sender core.SignalConnection) int {
	msg := core.Outbound{
		Type:      core.EventIceCandidate,
		SessionID: sid,
		Candidate: candidate,
	}

	kiosk, hasKiosk := rt.Registry.LookupKiosk(sid)
	var sent int
	if hasKiosk && kiosk.ID() == sender.ID() {
		sent = rt.Broadcast(rt.Registry.LookupAdmins(sid), msg)
	} else if hasKiosk {
		if rt.Send(kiosk, msg) {
			sent = 1
		}
	}

	if sent == 0 {
		rt.Metrics.Miss(string(core.EventIceCandidate))
		log.Debug().Str("module", "app.router").Str("sid", string(sid)).Str("conn", string(sender.ID())).Msg("ice-candidate: no recipient")
	} else {
		rt.Metrics.Routed(string(core.EventIceCandidate))
	}
	return sent
}

// Send encodes msg and queues it on conn.
func (rt *Router) Send(conn core.SignalConnection, msg core.Outbound) bool {
	frame, err := core.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Str("type", string(msg.Type)).Msg("encode")
		return false
	}
	return rt.deliver(conn, frame)
}

// SendJSON queues a reply that is not a plain Outbound envelope.
func (rt *Router) SendJSON(conn core.SignalConnection, v any) bool {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("encode reply")
		return false
	}
	return rt.deliver(conn, frame)
}

// Broadcast encodes msg once and queues it on every conn, in order.
func (rt *Router) Broadcast(conns []core.SignalConnection, msg core.Outbound) int {
	if len(conns) == 0 {
		return 0
	}
	frame, err := core.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Str("type", string(msg.Type)).Msg("encode")
		return 0
	}
	sent := 0
	for _, c := range conns {
		if rt.deliver(c, frame) {
			sent++
		}
	}
	return sent
}

func (rt *Router) deliver(conn core.SignalConnection, frame core.Frame) bool {
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}

	reason := metrics.ReasonClosed
	if errors.Is(err, core.ErrBackpressure) {
		reason = metrics.ReasonBackpressure
	}
	rt.Metrics.SendFailed(reason)
	log.Debug().Err(err).Str("module", "app.router").Str("conn", string(conn.ID())).Msg("send dropped")

	if rt.Policy != nil && rt.Policy.OnSendFailure(conn, err) == CloseConnection {
		log.Warn().Str("module", "app.router").Str("conn", string(conn.ID())).Msg("closing slow connection")
		conn.Close()
	}
	return false
}
