// Package store keeps lab session records. Memory is the only backend; the
// relay talks to it through core.SessionStore.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

var ErrSessionNotFound = core.ErrSessionNotFound

type Memory struct {
	mu        sync.RWMutex
	sessions  map[core.SessionID]*domain.Session
	now       func() time.Time
	retention time.Duration
}

type Option func(*Memory)

// WithRetention drops completed sessions whose logout is older than d.
// Zero keeps history forever.
func WithRetention(d time.Duration) Option {
	return func(m *Memory) { m.retention = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		sessions: make(map[core.SessionID]*domain.Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ core.SessionStore = (*Memory)(nil)

func (m *Memory) Create(ctx context.Context, info domain.LoginInfo) (*domain.Session, []*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := info.Validate(); err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneLocked(now)

	var superseded []*domain.Session
	for _, s := range m.sessions {
		if s.IsActive() && s.ComputerName == info.ComputerName {
			s.Complete(now)
			cp := *s
			superseded = append(superseded, &cp)
		}
	}

	s := domain.NewSession(uuid.NewString(), info, now)
	m.sessions[core.SessionID(s.ID)] = s
	log.Info().Str("module", "app.store").Str("sid", s.ID).Str("computer", s.ComputerName).Int("superseded", len(superseded)).Msg("session created")

	cp := *s
	return &cp, superseded, nil
}

func (m *Memory) End(ctx context.Context, sid core.SessionID) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Complete(m.now())
	log.Info().Str("module", "app.store").Str("sid", string(sid)).Int64("duration", s.Duration).Msg("session ended")
	cp := *s
	return &cp, nil
}

func (m *Memory) EndAll(ctx context.Context) ([]*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	out := make([]*domain.Session, 0)
	for _, s := range m.sessions {
		if !s.IsActive() {
			continue
		}
		s.Complete(now)
		cp := *s
		out = append(out, &cp)
	}
	log.Info().Str("module", "app.store").Int("ended", len(out)).Msg("all sessions ended")
	return out, nil
}

func (m *Memory) Get(ctx context.Context, sid core.SessionID) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) ListActive(ctx context.Context, labID string) ([]*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labID = strings.ToUpper(strings.TrimSpace(labID))
	m.mu.RLock()
	out := make([]*domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if !s.IsActive() {
			continue
		}
		if labID != "" && s.LabID != labID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].LoginTime.After(out[j].LoginTime) })
	return out, nil
}

func (m *Memory) History(ctx context.Context, q core.HistoryQuery) ([]*domain.Session, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	q = q.Normalize()
	labID := strings.ToUpper(strings.TrimSpace(q.LabID))

	m.mu.Lock()
	m.pruneLocked(m.now())
	matched := make([]*domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		switch {
		case labID != "" && s.LabID != labID:
		case q.Status != "" && s.Status != q.Status:
		case !q.From.IsZero() && s.LoginTime.Before(q.From):
		case !q.To.IsZero() && s.LoginTime.After(q.To):
		default:
			cp := *s
			matched = append(matched, &cp)
		}
	}
	m.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].LoginTime.After(matched[j].LoginTime) })

	total := len(matched)
	from := (q.Page - 1) * q.Limit
	if from >= total {
		return []*domain.Session{}, total, nil
	}
	to := min(from+q.Limit, total)
	return matched[from:to], total, nil
}

func (m *Memory) pruneLocked(now time.Time) {
	if m.retention <= 0 {
		return
	}
	cutoff := now.Add(-m.retention)
	var dropped int
	for sid, s := range m.sessions {
		if s.LogoutTime != nil && s.LogoutTime.Before(cutoff) {
			delete(m.sessions, sid)
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("module", "app.store").Int("dropped", dropped).Dur("retention", m.retention).Msg("expired sessions pruned")
	}
}
