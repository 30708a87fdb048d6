package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidValue = errors.New("invalid value")

const (
	defaultDepartment = "Computer Science"
	defaultSection    = "None"
)

// LabInfo describes one class period in a lab, as entered by faculty.
type LabInfo struct {
	Subject          string     `json:"subject"`
	Faculty          string     `json:"faculty"`
	Year             int        `json:"year"`
	Department       string     `json:"department"`
	Section          string     `json:"section"`
	Periods          int        `json:"periods"`
	ExpectedDuration int        `json:"expectedDuration"` // minutes
	StartTime        *time.Time `json:"startTime,omitempty"`
}

// Validate trims text fields and fills the optional ones with their defaults.
func (l *LabInfo) Validate() error {
	l.Subject = strings.TrimSpace(l.Subject)
	l.Faculty = strings.TrimSpace(l.Faculty)
	l.Department = strings.TrimSpace(l.Department)
	l.Section = strings.TrimSpace(l.Section)

	for _, f := range []struct{ name, value string }{
		{"subject", l.Subject},
		{"faculty", l.Faculty},
	} {
		if f.value == "" {
			return fmt.Errorf("%s: %w", f.name, ErrFieldEmpty)
		}
		if len(f.value) > MaxFieldLen {
			return fmt.Errorf("%s: %w", f.name, ErrFieldTooLong)
		}
	}
	if len(l.Department) > MaxFieldLen || len(l.Section) > MaxFieldLen {
		return fmt.Errorf("department/section: %w", ErrFieldTooLong)
	}
	if l.Periods <= 0 {
		return fmt.Errorf("periods: %w", ErrInvalidValue)
	}
	if l.ExpectedDuration <= 0 {
		return fmt.Errorf("expectedDuration: %w", ErrInvalidValue)
	}
	if l.Year < 0 {
		return fmt.Errorf("year: %w", ErrInvalidValue)
	}

	if l.Year == 0 {
		l.Year = 1
	}
	if l.Department == "" {
		l.Department = defaultDepartment
	}
	if l.Section == "" {
		l.Section = defaultSection
	}
	return nil
}

// StudentRecord is one student's attendance inside a lab session.
type StudentRecord struct {
	SessionID    string        `json:"sessionId"`
	StudentName  string        `json:"studentName"`
	StudentID    string        `json:"studentId"`
	ComputerName string        `json:"computerName"`
	SystemNumber string        `json:"systemNumber,omitempty"`
	LoginTime    time.Time     `json:"loginTime"`
	LogoutTime   *time.Time    `json:"logoutTime,omitempty"`
	Duration     int64         `json:"duration,omitempty"`
	Status       SessionStatus `json:"status"`
}

// seat identifies the machine a record belongs to.
func (r StudentRecord) seat() string {
	if r.SystemNumber != "" {
		return r.SystemNumber
	}
	return r.ComputerName
}

type LabSession struct {
	ID               string          `json:"id"`
	Subject          string          `json:"subject"`
	Faculty          string          `json:"faculty"`
	Year             int             `json:"year"`
	Department       string          `json:"department"`
	Section          string          `json:"section"`
	Periods          int             `json:"periods"`
	ExpectedDuration int             `json:"expectedDuration"`
	StartTime        time.Time       `json:"startTime"`
	EndTime          *time.Time      `json:"endTime,omitempty"`
	Status           SessionStatus   `json:"status"`
	StudentRecords   []StudentRecord `json:"studentRecords"`
}

// NewLabSession builds an active lab session from validated info. It starts
// at info.StartTime when given, now otherwise.
func NewLabSession(id string, info LabInfo, now time.Time) *LabSession {
	start := now
	if info.StartTime != nil && !info.StartTime.IsZero() {
		start = *info.StartTime
	}
	return &LabSession{
		ID:               id,
		Subject:          info.Subject,
		Faculty:          info.Faculty,
		Year:             info.Year,
		Department:       info.Department,
		Section:          info.Section,
		Periods:          info.Periods,
		ExpectedDuration: info.ExpectedDuration,
		StartTime:        start,
		Status:           StatusActive,
		StudentRecords:   []StudentRecord{},
	}
}

func (l *LabSession) IsActive() bool { return l.Status == StatusActive }

// AddStudent records a login. A previous record on the same seat is replaced.
func (l *LabSession) AddStudent(s *Session) {
	rec := StudentRecord{
		SessionID:    s.ID,
		StudentName:  s.StudentName,
		StudentID:    s.StudentID,
		ComputerName: s.ComputerName,
		SystemNumber: s.SystemNumber,
		LoginTime:    s.LoginTime,
		Status:       StatusActive,
	}
	kept := l.StudentRecords[:0]
	for _, r := range l.StudentRecords {
		if r.seat() != rec.seat() {
			kept = append(kept, r)
		}
	}
	l.StudentRecords = append(kept, rec)
}

// RecordLogout copies the logout of s into its record, if it has one.
func (l *LabSession) RecordLogout(s *Session) bool {
	for i := range l.StudentRecords {
		r := &l.StudentRecords[i]
		if r.SessionID != s.ID || r.Status != StatusActive {
			continue
		}
		r.Status = StatusCompleted
		r.LogoutTime = s.LogoutTime
		r.Duration = s.Duration
		return true
	}
	return false
}

// Complete ends the lab session and closes every record still open.
func (l *LabSession) Complete(now time.Time) {
	if l.Status == StatusCompleted {
		return
	}
	l.Status = StatusCompleted
	l.EndTime = &now
	for i := range l.StudentRecords {
		r := &l.StudentRecords[i]
		if r.Status != StatusActive {
			continue
		}
		r.Status = StatusCompleted
		t := now
		r.LogoutTime = &t
		r.Duration = int64(now.Sub(r.LoginTime) / time.Second)
	}
}

// Clone returns a copy that shares no slices or pointers with l.
func (l *LabSession) Clone() *LabSession {
	cp := *l
	if l.EndTime != nil {
		t := *l.EndTime
		cp.EndTime = &t
	}
	cp.StudentRecords = make([]StudentRecord, len(l.StudentRecords))
	copy(cp.StudentRecords, l.StudentRecords)
	for i := range cp.StudentRecords {
		if lt := cp.StudentRecords[i].LogoutTime; lt != nil {
			t := *lt
			cp.StudentRecords[i].LogoutTime = &t
		}
	}
	return &cp
}
