package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/app/orch"
	"github.com/dkeye/labwatch/internal/config"
	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

const sessionKey = "sessionId"

type handlers struct {
	orch *orch.Orchestrator
	cfg  *config.Config
}

type LogoutRequest struct {
	SessionID string `json:"sessionId"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (h *handlers) studentLogin(c *gin.Context) {
	var req domain.LoginInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.orch.Login(c.Request.Context(), req)
	switch {
	case errors.Is(err, domain.ErrFieldEmpty), errors.Is(err, domain.ErrFieldTooLong):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Msg("student login")
		fail(c, http.StatusInternalServerError, "could not start session")
		return
	}

	s := sessions.Default(c)
	s.Set(sessionKey, sess.ID)
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("save cookie session")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sessionId": sess.ID, "session": sess})
}

// studentLogout ends the session named in the body, or the one remembered
// in the cookie when the body has none.
func (h *handlers) studentLogout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s := sessions.Default(c)
	sid := req.SessionID
	if sid == "" {
		if v, ok := s.Get(sessionKey).(string); ok {
			sid = v
		}
	}
	if sid == "" {
		fail(c, http.StatusBadRequest, "no active session")
		return
	}

	if err := h.orch.Logout(c.Request.Context(), core.SessionID(sid)); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("sid", sid).Msg("student logout")
		fail(c, http.StatusInternalServerError, "could not end session")
		return
	}

	s.Delete(sessionKey)
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("save cookie session")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) activeSessions(c *gin.Context) {
	list, err := h.orch.ActiveSessions(c.Request.Context(), c.Param("labId"))
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("active sessions")
		fail(c, http.StatusInternalServerError, "could not list sessions")
		return
	}
	if list == nil {
		list = []*domain.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": list})
}

func (h *handlers) clearAllSessions(c *gin.Context) {
	n, err := h.orch.ClearAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("clear all sessions")
		fail(c, http.StatusInternalServerError, "could not clear sessions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": n})
}

func (h *handlers) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.orch.Registry.Snapshot()})
}

func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.cfg.WebRTCICEServers()})
}
