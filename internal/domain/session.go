// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxFieldLen = 64

var (
	ErrFieldEmpty   = errors.New("field empty")
	ErrFieldTooLong = errors.New("field too long")
)

type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// LoginInfo is what a kiosk submits after the student authenticated.
type LoginInfo struct {
	StudentName  string `json:"studentName"`
	StudentID    string `json:"studentId"`
	ComputerName string `json:"computerName"`
	LabID        string `json:"labId"`
	SystemNumber string `json:"systemNumber"`
}

// Validate trims every field, upper-cases the lab id and checks lengths.
func (l *LoginInfo) Validate() error {
	l.StudentName = strings.TrimSpace(l.StudentName)
	l.StudentID = strings.TrimSpace(l.StudentID)
	l.ComputerName = strings.TrimSpace(l.ComputerName)
	l.LabID = strings.ToUpper(strings.TrimSpace(l.LabID))
	l.SystemNumber = strings.TrimSpace(l.SystemNumber)

	required := []struct {
		name, value string
	}{
		{"studentName", l.StudentName},
		{"studentId", l.StudentID},
		{"computerName", l.ComputerName},
		{"labId", l.LabID},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%s: %w", f.name, ErrFieldEmpty)
		}
		if len(f.value) > MaxFieldLen {
			return fmt.Errorf("%s: %w", f.name, ErrFieldTooLong)
		}
	}
	if len(l.SystemNumber) > MaxFieldLen {
		return fmt.Errorf("systemNumber: %w", ErrFieldTooLong)
	}
	return nil
}

// Session is one kiosk login. The id is the correlation key for signaling.
type Session struct {
	ID           string        `json:"sessionId"`
	StudentName  string        `json:"studentName"`
	StudentID    string        `json:"studentId"`
	ComputerName string        `json:"computerName"`
	LabID        string        `json:"labId"`
	SystemNumber string        `json:"systemNumber,omitempty"`
	LoginTime    time.Time     `json:"loginTime"`
	LogoutTime   *time.Time    `json:"logoutTime,omitempty"`
	Duration     int64         `json:"duration,omitempty"` // seconds
	Status       SessionStatus `json:"status"`
}

// NewSession builds an active session from validated login info.
func NewSession(id string, info LoginInfo, now time.Time) *Session {
	return &Session{
		ID:           id,
		StudentName:  info.StudentName,
		StudentID:    info.StudentID,
		ComputerName: info.ComputerName,
		LabID:        info.LabID,
		SystemNumber: info.SystemNumber,
		LoginTime:    now,
		Status:       StatusActive,
	}
}

// Complete marks the session finished at now. Completing twice keeps the first logout.
func (s *Session) Complete(now time.Time) {
	if s.Status == StatusCompleted {
		return
	}
	s.Status = StatusCompleted
	s.LogoutTime = &now
	s.Duration = int64(now.Sub(s.LoginTime) / time.Second)
}

func (s *Session) IsActive() bool { return s.Status == StatusActive }
