package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

// Labs keeps lab sessions in memory. Callers only ever see clones.
type Labs struct {
	mu     sync.RWMutex
	labs   map[string]*domain.LabSession
	active string
	now    func() time.Time
}

func NewLabs() *Labs {
	return &Labs{
		labs: make(map[string]*domain.LabSession),
		now:  time.Now,
	}
}

func (l *Labs) Start(ctx context.Context, info domain.LabInfo) (*domain.LabSession, []*domain.LabSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := info.Validate(); err != nil {
		return nil, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()

	var closed []*domain.LabSession
	if prev, ok := l.labs[l.active]; ok && prev.IsActive() {
		prev.Complete(now)
		closed = append(closed, prev.Clone())
		log.Info().Str("module", "app.store").Str("lab", prev.ID).Msg("lab session auto-ended")
	}

	lab := domain.NewLabSession(uuid.NewString(), info, now)
	l.labs[lab.ID] = lab
	l.active = lab.ID
	return lab.Clone(), closed, nil
}

func (l *Labs) End(ctx context.Context, id string) (*domain.LabSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	lab, ok := l.labs[id]
	if !ok {
		return nil, core.ErrLabNotFound
	}
	lab.Complete(l.now())
	if l.active == id {
		l.active = ""
	}
	return lab.Clone(), nil
}

func (l *Labs) Active(ctx context.Context) (*domain.LabSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	lab, ok := l.labs[l.active]
	if !ok || !lab.IsActive() {
		return nil, core.ErrLabNotFound
	}
	return lab.Clone(), nil
}

func (l *Labs) RecordLogin(ctx context.Context, s *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if lab, ok := l.labs[l.active]; ok && lab.IsActive() {
		lab.AddStudent(s)
	}
	return nil
}

func (l *Labs) RecordLogout(ctx context.Context, s *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if lab, ok := l.labs[l.active]; ok && lab.IsActive() {
		lab.RecordLogout(s)
	}
	return nil
}

func (l *Labs) DeleteAll(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.labs)
	l.labs = make(map[string]*domain.LabSession)
	l.active = ""
	return n, nil
}

var _ core.LabStore = (*Labs)(nil)
