package orch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

// StartLab opens a lab session. A lab session still running is completed
// first and announced as ended.
func (o *Orchestrator) StartLab(ctx context.Context, info domain.LabInfo) (*domain.LabSession, error) {
	started, closed, err := o.Labs.Start(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("start lab session: %w", err)
	}
	for _, lab := range closed {
		o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{Type: core.EventLabSessionEnded, LabSession: lab})
	}

	o.Metrics.Lifecycle("lab_start")
	o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{Type: core.EventLabSessionStarted, LabSession: started})
	log.Info().
		Str("module", "orch").
		Str("lab", started.ID).
		Str("subject", started.Subject).
		Str("faculty", started.Faculty).
		Msg("lab session started")
	return started, nil
}

// EndLab completes the lab session and every student session still active,
// the way a logout would.
func (o *Orchestrator) EndLab(ctx context.Context, id string) (*domain.LabSession, int, error) {
	lab, err := o.Labs.End(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("end lab session: %w", err)
	}
	count, err := o.endAll(ctx)
	if err != nil {
		return lab, 0, err
	}

	o.Metrics.Lifecycle("lab_end")
	o.Router.Broadcast(o.Registry.AdminGroup(), core.Outbound{
		Type:       core.EventLabSessionEnded,
		LabSession: lab,
		Count:      &count,
	})
	log.Info().Str("module", "orch").Str("lab", lab.ID).Int("ended", count).Msg("lab session ended")
	return lab, count, nil
}

// ForceClearAll drops every lab session and ends every student session.
func (o *Orchestrator) ForceClearAll(ctx context.Context) (labs, sessions int, err error) {
	labs, err = o.Labs.DeleteAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("delete lab sessions: %w", err)
	}
	sessions, err = o.ClearAll(ctx)
	if err != nil {
		return labs, 0, err
	}
	o.Metrics.Lifecycle("force_clear")
	log.Warn().Str("module", "orch").Int("labs", labs).Int("sessions", sessions).Msg("force clear")
	return labs, sessions, nil
}

// ActiveLab returns core.ErrLabNotFound when no lab session is running.
func (o *Orchestrator) ActiveLab(ctx context.Context) (*domain.LabSession, error) {
	return o.Labs.Active(ctx)
}

func (o *Orchestrator) History(ctx context.Context, q core.HistoryQuery) ([]*domain.Session, int, error) {
	sessions, total, err := o.Store.History(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("session history: %w", err)
	}
	return sessions, total, nil
}
