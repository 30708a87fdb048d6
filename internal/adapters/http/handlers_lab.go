package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

const dateLayout = "2006-01-02"

// Lab ids that make end-lab-session behave like force-clear-all.
var forceClearIDs = map[string]bool{"force-clear": true, "clear-all": true}

type EndLabRequest struct {
	SessionID string `json:"sessionId"`
}

type historyParams struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	LabID     string `form:"labId"`
	Status    string `form:"status"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

func (p historyParams) query() (core.HistoryQuery, error) {
	q := core.HistoryQuery{Page: p.Page, Limit: p.Limit}
	if p.Page < 0 || p.Limit < 0 {
		return q, errors.New("page and limit must not be negative")
	}
	if p.LabID != "all" {
		q.LabID = p.LabID
	}
	switch s := domain.SessionStatus(p.Status); s {
	case "", "all":
	case domain.StatusActive, domain.StatusCompleted:
		q.Status = s
	default:
		return q, errors.New("status must be active, completed or all")
	}
	if p.StartDate != "" {
		from, err := time.Parse(dateLayout, p.StartDate)
		if err != nil {
			return q, errors.New("startDate must be YYYY-MM-DD")
		}
		q.From = from
	}
	if p.EndDate != "" {
		to, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return q, errors.New("endDate must be YYYY-MM-DD")
		}
		q.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	return q.Normalize(), nil
}

func (h *handlers) startLabSession(c *gin.Context) {
	var req domain.LabInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	lab, err := h.orch.StartLab(c.Request.Context(), req)
	switch {
	case errors.Is(err, domain.ErrFieldEmpty), errors.Is(err, domain.ErrFieldTooLong), errors.Is(err, domain.ErrInvalidValue):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Msg("start lab session")
		fail(c, http.StatusInternalServerError, "could not start lab session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": lab})
}

func (h *handlers) endLabSession(c *gin.Context) {
	var req EndLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		fail(c, http.StatusBadRequest, "sessionId is required")
		return
	}
	if forceClearIDs[req.SessionID] {
		h.forceClearAll(c)
		return
	}

	lab, n, err := h.orch.EndLab(c.Request.Context(), req.SessionID)
	switch {
	case errors.Is(err, core.ErrLabNotFound):
		fail(c, http.StatusNotFound, "lab session not found")
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Str("lab", req.SessionID).Msg("end lab session")
		fail(c, http.StatusInternalServerError, "could not end lab session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": lab, "clearedSessions": n})
}

func (h *handlers) forceClearAll(c *gin.Context) {
	labs, sessions, err := h.orch.ForceClearAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("force clear all")
		fail(c, http.StatusInternalServerError, "could not clear")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                     true,
		"labSessionsDeleted":          labs,
		"individualSessionsCompleted": sessions,
	})
}

func (h *handlers) activeLabSession(c *gin.Context) {
	lab, err := h.orch.ActiveLab(c.Request.Context())
	switch {
	case errors.Is(err, core.ErrLabNotFound):
		c.JSON(http.StatusOK, gin.H{"success": true, "session": nil})
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Msg("active lab session")
		fail(c, http.StatusInternalServerError, "could not load lab session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": lab})
}

func (h *handlers) sessionHistory(c *gin.Context) {
	var p historyParams
	if err := c.ShouldBindQuery(&p); err != nil {
		fail(c, http.StatusBadRequest, "invalid query")
		return
	}
	q, err := p.query()
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := h.orch.History(c.Request.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session history")
		fail(c, http.StatusInternalServerError, "could not load history")
		return
	}
	if list == nil {
		list = []*domain.Session{}
	}

	pages := (total + q.Limit - 1) / q.Limit
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sessions": list,
		"pagination": gin.H{
			"currentPage":   q.Page,
			"totalPages":    pages,
			"totalSessions": total,
			"hasNext":       q.Page < pages,
			"hasPrev":       q.Page > 1,
		},
	})
}
