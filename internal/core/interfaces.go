package core

import (
	"context"
	"time"

	"github.com/dkeye/labwatch/internal/domain"
)

// SessionID is the opaque key of one kiosk login session.
type SessionID string

//go:generate mockgen -source=interfaces.go -destination=mock/store_mock.go -package=mock

// SessionStore persists lab sessions. The relay reads and writes through it
// but never owns the records.
type SessionStore interface {
	// Create opens a session. Any active session on the same computer is
	// completed first and returned as superseded.
	Create(ctx context.Context, info domain.LoginInfo) (created *domain.Session, superseded []*domain.Session, err error)
	// End completes one session and returns its final state.
	End(ctx context.Context, sid SessionID) (*domain.Session, error)
	// EndAll completes every active session.
	EndAll(ctx context.Context) ([]*domain.Session, error)
	Get(ctx context.Context, sid SessionID) (*domain.Session, error)
	// ListActive returns active sessions, newest login first. Empty labID means every lab.
	ListActive(ctx context.Context, labID string) ([]*domain.Session, error)
	// History pages through sessions of any status, newest login first, and
	// reports how many match in total.
	History(ctx context.Context, q HistoryQuery) ([]*domain.Session, int, error)
}

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// HistoryQuery filters session history. Zero values mean no filter; From and
// To bound the login time, both inclusive.
type HistoryQuery struct {
	LabID  string
	Status domain.SessionStatus
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

// Normalize clamps paging to sane values.
func (q HistoryQuery) Normalize() HistoryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	return q
}

// LabStore keeps class-period lab sessions and the attendance recorded in them.
// At most one lab session is active at a time.
type LabStore interface {
	// Start completes any active lab session and opens a new one.
	Start(ctx context.Context, info domain.LabInfo) (started *domain.LabSession, closed []*domain.LabSession, err error)
	End(ctx context.Context, id string) (*domain.LabSession, error)
	// Active returns ErrLabNotFound when no lab session is running.
	Active(ctx context.Context) (*domain.LabSession, error)
	// RecordLogin and RecordLogout update the active lab session, if any.
	RecordLogin(ctx context.Context, s *domain.Session) error
	RecordLogout(ctx context.Context, s *domain.Session) error
	DeleteAll(ctx context.Context) (int, error)
}

// LiveSession is the public view of one registry entry. Connection ids stay
// private: they are what answers are addressed by.
type LiveSession struct {
	SessionID      SessionID `json:"sessionId"`
	KioskConnected bool      `json:"kioskConnected"`
	AdminCount     int       `json:"adminCount"`
}
