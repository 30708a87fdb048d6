package core

import (
	"github.com/goccy/go-json"

	"github.com/dkeye/labwatch/internal/domain"
)

type EventType string

// Inbound events.
const (
	EventRegisterKiosk     EventType = "register-kiosk"
	EventRegisterAdmin     EventType = "register-admin"
	EventKioskScreenReady  EventType = "kiosk-screen-ready"
	EventGetActiveSessions EventType = "get-active-sessions"
	EventPing              EventType = "ping"
)

// Events that travel both ways.
const (
	EventOffer        EventType = "offer"
	EventAnswer       EventType = "answer"
	EventIceCandidate EventType = "ice-candidate"
)

// Outbound events.
const (
	EventWelcome           EventType = "welcome"
	EventTargetUnavailable EventType = "target-unavailable"
	EventStopStream        EventType = "stop-stream"
	EventSessionStarted    EventType = "session-started"
	EventSessionEnded      EventType = "session-ended"
	EventSessionsCleared   EventType = "sessions-cleared"
	EventKioskAvailable    EventType = "kiosk-available"
	EventLabSessionStarted EventType = "lab-session-started"
	EventLabSessionEnded   EventType = "lab-session-ended"
	EventActiveSessions    EventType = "active-sessions"
	EventPong              EventType = "pong"
	EventError             EventType = "error"
)

const ReasonStudentNotConnected = "Student not connected"

// Error codes carried by EventError.
const (
	ErrCodeBadPayload  = "bad_payload"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeUnknownType = "unknown_type"
	ErrCodeInternal    = "internal"
)

// Inbound is the envelope every client message is decoded into.
// Offer, Answer and Candidate are forwarded byte for byte.
type Inbound struct {
	Type          EventType       `json:"type"`
	SessionID     SessionID       `json:"sessionId,omitempty"`
	Offer         json.RawMessage `json:"offer,omitempty"`
	Answer        json.RawMessage `json:"answer,omitempty"`
	Candidate     json.RawMessage `json:"candidate,omitempty"`
	OriginAdminID ConnID          `json:"originAdminId,omitempty"`
	TargetAdminID ConnID          `json:"targetAdminId,omitempty"`
	HasVideo      bool            `json:"hasVideo,omitempty"`
	LabID         string          `json:"labId,omitempty"`
}

// Outbound is the envelope the relay emits.
type Outbound struct {
	Type          EventType          `json:"type"`
	SessionID     SessionID          `json:"sessionId,omitempty"`
	Offer         json.RawMessage    `json:"offer,omitempty"`
	Answer        json.RawMessage    `json:"answer,omitempty"`
	Candidate     json.RawMessage    `json:"candidate,omitempty"`
	OriginAdminID ConnID             `json:"originAdminId,omitempty"`
	ConnectionID  ConnID             `json:"connectionId,omitempty"`
	Reason        string             `json:"reason,omitempty"`
	HasVideo      *bool              `json:"hasVideo,omitempty"`
	Session       *domain.Session    `json:"session,omitempty"`
	LabSession    *domain.LabSession `json:"labSession,omitempty"`
	Count         *int               `json:"count,omitempty"`
	Error         string             `json:"error,omitempty"`
}

func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	err := json.Unmarshal(data, &in)
	return in, err
}

func Encode(v any) (Frame, error) {
	return json.Marshal(v)
}
