package signal

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

const storeTimeout = 5 * time.Second

func (ctl *SignalWSController) handleActiveSessions(ctx context.Context, conn *WsSignalConn, labID string) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	sessions, err := ctl.Orch.ActiveSessions(ctx, labID)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("lab", labID).Msg("active sessions")
		ctl.sendError(conn, core.ErrCodeInternal)
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}

	resp := struct {
		Type     core.EventType    `json:"type"`
		LabID    string            `json:"labId,omitempty"`
		Sessions []*domain.Session `json:"sessions"`
	}{
		Type:     core.EventActiveSessions,
		LabID:    labID,
		Sessions: sessions,
	}
	ctl.sendJSON(conn, resp)
}
