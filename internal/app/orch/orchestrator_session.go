package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

// Login persists a new session and announces it to the admin group. The
// registry is untouched until the kiosk's own connection registers.
func (o *Orchestrator) Login(ctx context.Context, info domain.LoginInfo) (*domain.Session, error) {
	created, superseded, err := o.Store.Create(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	for _, s := range superseded {
		o.endSession(ctx, core.SessionID(s.ID), s)
	}
	if err := o.Labs.RecordLogin(ctx, created); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", created.ID).Msg("lab attendance not recorded")
	}

	o.Metrics.Lifecycle("login")
	o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{
		Type:      core.EventSessionStarted,
		SessionID: core.SessionID(created.ID),
		Session:   created,
	})
	log.Info().Str("module", "orch").Str("sid", created.ID).Str("student", created.StudentID).Msg("session started")
	return created, nil
}

// Logout completes sid in the store and tears down its signaling state.
// An id the store does not know still has its registry entry cleared.
func (o *Orchestrator) Logout(ctx context.Context, sid core.SessionID) error {
	sess, err := o.Store.End(ctx, sid)
	if err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		return fmt.Errorf("end session: %w", err)
	}
	o.Metrics.Lifecycle("logout")
	o.endSession(ctx, sid, sess)
	return nil
}

// ClearAll ends every active session and drops every registry entry.
func (o *Orchestrator) ClearAll(ctx context.Context) (int, error) {
	count, err := o.endAll(ctx)
	if err != nil {
		return 0, err
	}

	o.Metrics.Lifecycle("clear_all")
	o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{
		Type:  core.EventSessionsCleared,
		Count: &count,
	})
	log.Warn().Str("module", "orch").Int("ended", count).Msg("all sessions cleared")
	return count, nil
}

// endAll completes every stored session and sweeps registry entries the
// store never knew about.
func (o *Orchestrator) endAll(ctx context.Context) (int, error) {
	ended, err := o.Store.EndAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("end all sessions: %w", err)
	}

	done := make(map[core.SessionID]struct{}, len(ended))
	for _, s := range ended {
		sid := core.SessionID(s.ID)
		o.endSession(ctx, sid, s)
		done[sid] = struct{}{}
	}
	for _, live := range o.Registry.Snapshot() {
		if _, ok := done[live.SessionID]; !ok {
			o.endSession(ctx, live.SessionID, nil)
		}
	}
	return len(ended), nil
}

func (o *Orchestrator) endSession(ctx context.Context, sid core.SessionID, sess *domain.Session) {
	kiosk, admins := o.Registry.ClearSession(sid)
	targets := admins
	if kiosk != nil {
		targets = append([]core.SignalConnection{kiosk}, admins...)
	}
	o.Router.Broadcast(targets, core.Outbound{Type: core.EventStopStream, SessionID: sid})

	if sess != nil {
		if err := o.Labs.RecordLogout(ctx, sess); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("lab attendance not closed")
		}
		o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{
			Type:      core.EventSessionEnded,
			SessionID: sid,
			Session:   sess,
		})
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("notified", len(targets)).Msg("session ended")
}
