package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/domain"
)

func newTestStore() (*Memory, *time.Time) {
	m := NewMemory()
	now := time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func login(name, computer, lab string) domain.LoginInfo {
	return domain.LoginInfo{StudentName: name, StudentID: name + "-id", ComputerName: computer, LabID: lab}
}

func TestMemory_CreateSupersedesSameComputer(t *testing.T) {
	m, now := newTestStore()
	ctx := context.Background()

	first, superseded, err := m.Create(ctx, login("asha", "PC1", "lab1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(superseded) != 0 {
		t.Fatalf("expected nothing superseded, got %d", len(superseded))
	}

	*now = now.Add(time.Minute)
	second, superseded, err := m.Create(ctx, login("ravi", "PC1", "lab1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(superseded) != 1 || superseded[0].ID != first.ID {
		t.Fatalf("expected first session superseded, got %+v", superseded)
	}
	if superseded[0].Duration != 60 {
		t.Errorf("expected duration 60, got %d", superseded[0].Duration)
	}

	active, _ := m.ListActive(ctx, "")
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("expected only second session active, got %+v", active)
	}
}

func TestMemory_CreateRejectsInvalid(t *testing.T) {
	m, _ := newTestStore()
	_, _, err := m.Create(context.Background(), domain.LoginInfo{StudentName: "x"})
	if !errors.Is(err, domain.ErrFieldEmpty) {
		t.Fatalf("expected ErrFieldEmpty, got %v", err)
	}
}

func TestMemory_EndUnknown(t *testing.T) {
	m, _ := newTestStore()
	if _, err := m.End(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemory_ListActiveFiltersAndSorts(t *testing.T) {
	m, now := newTestStore()
	ctx := context.Background()

	a, _, _ := m.Create(ctx, login("a", "PC1", "lab1"))
	*now = now.Add(time.Second)
	b, _, _ := m.Create(ctx, login("b", "PC2", "lab1"))
	*now = now.Add(time.Second)
	_, _, _ = m.Create(ctx, login("c", "PC3", "lab2"))

	got, err := m.ListActive(ctx, "lab1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("expected [b a], got %+v", got)
	}

	if _, err := m.End(ctx, core.SessionID(b.ID)); err != nil {
		t.Fatalf("end: %v", err)
	}
	got, _ = m.ListActive(ctx, "LAB1")
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected [a] after ending b, got %+v", got)
	}
}

func TestMemory_EndAll(t *testing.T) {
	m, _ := newTestStore()
	ctx := context.Background()
	_, _, _ = m.Create(ctx, login("a", "PC1", "lab1"))
	_, _, _ = m.Create(ctx, login("b", "PC2", "lab2"))

	ended, err := m.EndAll(ctx)
	if err != nil {
		t.Fatalf("end all: %v", err)
	}
	if len(ended) != 2 {
		t.Fatalf("expected 2 ended, got %d", len(ended))
	}
	for _, s := range ended {
		if s.IsActive() {
			t.Errorf("session %s still active", s.ID)
		}
	}

	ended, _ = m.EndAll(ctx)
	if len(ended) != 0 {
		t.Errorf("second EndAll must end nothing, got %d", len(ended))
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	m, _ := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.ListActive(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMemory_HistoryFiltersAndPages(t *testing.T) {
	m, now := newTestStore()
	ctx := context.Background()
	day1 := *now

	var ids []string
	for i, computer := range []string{"PC1", "PC2", "PC3", "PC4"} {
		lab := "lab1"
		if i == 3 {
			lab = "lab2"
		}
		s, _, err := m.Create(ctx, login("s"+computer, computer, lab))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, s.ID)
		*now = now.Add(time.Hour)
	}
	if _, err := m.End(ctx, core.SessionID(ids[0])); err != nil {
		t.Fatalf("end: %v", err)
	}

	tests := []struct {
		name  string
		q     core.HistoryQuery
		want  []string
		total int
	}{
		{"all newest first", core.HistoryQuery{}, []string{ids[3], ids[2], ids[1], ids[0]}, 4},
		{"lab filter case-insensitive", core.HistoryQuery{LabID: "Lab1"}, []string{ids[2], ids[1], ids[0]}, 3},
		{"completed only", core.HistoryQuery{Status: domain.StatusCompleted}, []string{ids[0]}, 1},
		{"active in lab1", core.HistoryQuery{LabID: "lab1", Status: domain.StatusActive}, []string{ids[2], ids[1]}, 2},
		{"date range inclusive", core.HistoryQuery{From: day1.Add(time.Hour), To: day1.Add(2 * time.Hour)}, []string{ids[2], ids[1]}, 2},
		{"second page", core.HistoryQuery{Page: 2, Limit: 3}, []string{ids[0]}, 4},
		{"page past the end", core.HistoryQuery{Page: 5, Limit: 3}, nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := m.History(ctx, tt.q)
			if err != nil {
				t.Fatalf("history: %v", err)
			}
			if total != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, total)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d sessions, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], got[i].ID)
				}
			}
		})
	}
}

func TestMemory_RetentionDropsOldCompleted(t *testing.T) {
	now := time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC)
	m := NewMemory(WithRetention(24*time.Hour), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	old, _, err := m.Create(ctx, login("asha", "PC1", "lab1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.End(ctx, core.SessionID(old.ID)); err != nil {
		t.Fatalf("end: %v", err)
	}
	open, _, err := m.Create(ctx, login("ravi", "PC2", "lab1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(23 * time.Hour)
	if _, total, _ := m.History(ctx, core.HistoryQuery{}); total != 2 {
		t.Fatalf("expected both sessions kept inside retention, got %d", total)
	}

	now = now.Add(2 * time.Hour)
	got, total, err := m.History(ctx, core.HistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 1 || got[0].ID != open.ID {
		t.Fatalf("expected only the active session left, got %+v", got)
	}
	if _, err := m.Get(ctx, core.SessionID(old.ID)); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session gone, got %v", err)
	}
}

func TestMemory_NoRetentionKeepsHistory(t *testing.T) {
	m, now := newTestStore()
	ctx := context.Background()

	s, _, _ := m.Create(ctx, login("asha", "PC1", "lab1"))
	_, _ = m.End(ctx, core.SessionID(s.ID))
	*now = now.Add(365 * 24 * time.Hour)

	if _, total, _ := m.History(ctx, core.HistoryQuery{}); total != 1 {
		t.Errorf("expected history kept, got %d", total)
	}
}
