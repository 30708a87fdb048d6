package app

import (
	"sync"
	"testing"

	"github.com/dkeye/labwatch/internal/core"
	"github.com/dkeye/labwatch/internal/core/coretest"
)

func ids(conns []core.SignalConnection) []core.ConnID {
	out := make([]core.ConnID, 0, len(conns))
	for _, c := range conns {
		out = append(out, c.ID())
	}
	return out
}

func TestRegistry_RegisterKioskReplaces(t *testing.T) {
	r := NewRegistry()
	k1 := coretest.NewConn("k1")
	k2 := coretest.NewConn("k2")

	if prev := r.RegisterKiosk("S1", k1); prev != nil {
		t.Fatalf("expected no previous kiosk, got %s", prev.ID())
	}
	prev := r.RegisterKiosk("S1", k2)
	if prev == nil || prev.ID() != "k1" {
		t.Fatalf("expected k1 replaced, got %v", prev)
	}
	if k1.Closed() {
		t.Error("replaced kiosk must not be closed by the registry")
	}

	got, ok := r.LookupKiosk("S1")
	if !ok || got.ID() != "k2" {
		t.Fatalf("expected k2 as kiosk, got %v %v", got, ok)
	}
}

func TestRegistry_RegisterKioskSameHandleTwice(t *testing.T) {
	r := NewRegistry()
	k := coretest.NewConn("k")
	r.RegisterKiosk("S1", k)
	if prev := r.RegisterKiosk("S1", k); prev != nil {
		t.Fatalf("re-registering the same kiosk must not report a replacement")
	}
}

func TestRegistry_RegisterAdminIdempotent(t *testing.T) {
	r := NewRegistry()
	a := coretest.NewConn("a")
	b := coretest.NewConn("b")

	if !r.RegisterAdmin("S1", a) {
		t.Fatal("first registration must report added")
	}
	if r.RegisterAdmin("S1", a) {
		t.Fatal("second registration must be a no-op")
	}
	r.RegisterAdmin("S1", b)

	got := ids(r.LookupAdmins("S1"))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.LookupKiosk("nope"); ok {
		t.Error("unknown session must have no kiosk")
	}
	if admins := r.LookupAdmins("nope"); len(admins) != 0 {
		t.Errorf("unknown session must have no admins, got %v", ids(admins))
	}
}

func TestRegistry_RemoveConnectionAllRoles(t *testing.T) {
	r := NewRegistry()
	h := coretest.NewConn("h")
	other := coretest.NewConn("o")

	r.RegisterKiosk("S1", h)
	r.RegisterAdmin("S2", h)
	r.RegisterAdmin("S3", other)
	r.RegisterAdmin("S3", h)
	r.JoinAdminGroup(h)

	res := r.RemoveConnection(h)
	if len(res.KioskOf) != 1 || res.KioskOf[0] != "S1" {
		t.Errorf("expected kiosk removal from S1, got %v", res.KioskOf)
	}
	if len(res.AdminOf) != 2 {
		t.Errorf("expected admin removal from 2 sessions, got %v", res.AdminOf)
	}

	if _, ok := r.LookupKiosk("S1"); ok {
		t.Error("S1 kiosk must be gone")
	}
	if got := ids(r.LookupAdmins("S2")); len(got) != 0 {
		t.Errorf("S2 admins must be empty, got %v", got)
	}
	if got := ids(r.LookupAdmins("S3")); len(got) != 1 || got[0] != "o" {
		t.Errorf("S3 admins must be [o], got %v", got)
	}
	if _, ok := r.Conn("h"); ok {
		t.Error("removed connection must not be addressable")
	}
	if len(r.AdminGroup()) != 0 {
		t.Error("removed connection must leave the admin group")
	}

	_, sessions := r.Counts()
	if sessions != 1 {
		t.Errorf("only S3 should remain tracked, got %d sessions", sessions)
	}
}

func TestRegistry_RemoveStaleKioskKeepsReplacement(t *testing.T) {
	r := NewRegistry()
	old := coretest.NewConn("old")
	fresh := coretest.NewConn("fresh")
	r.RegisterKiosk("S1", old)
	r.RegisterKiosk("S1", fresh)

	r.RemoveConnection(old)

	got, ok := r.LookupKiosk("S1")
	if !ok || got.ID() != "fresh" {
		t.Fatalf("late disconnect of a replaced kiosk must not evict the new one, got %v", got)
	}
}

func TestRegistry_AdminOnlyEntryPersists(t *testing.T) {
	r := NewRegistry()
	k := coretest.NewConn("k")
	a := coretest.NewConn("a")
	r.RegisterKiosk("S1", k)
	r.RegisterAdmin("S1", a)

	r.RemoveConnection(k)
	if got := ids(r.LookupAdmins("S1")); len(got) != 1 {
		t.Fatalf("admin must stay registered after kiosk leaves, got %v", got)
	}

	r.RemoveConnection(a)
	if _, sessions := r.Counts(); sessions != 0 {
		t.Fatalf("entry must be dropped once empty, got %d", sessions)
	}
}

func TestRegistry_ClearSession(t *testing.T) {
	r := NewRegistry()
	k := coretest.NewConn("k")
	a := coretest.NewConn("a")
	b := coretest.NewConn("b")
	r.RegisterKiosk("S1", k)
	r.RegisterAdmin("S1", a)
	r.RegisterAdmin("S1", b)

	kiosk, admins := r.ClearSession("S1")
	if kiosk == nil || kiosk.ID() != "k" || len(admins) != 2 {
		t.Fatalf("unexpected cleared contents: %v %v", kiosk, ids(admins))
	}
	if _, ok := r.LookupKiosk("S1"); ok {
		t.Error("kiosk must be gone after clear")
	}
	if len(r.LookupAdmins("S1")) != 0 {
		t.Error("admins must be gone after clear")
	}
	if k.Closed() || a.Closed() {
		t.Error("clear must not close transports")
	}

	kiosk, admins = r.ClearSession("S1")
	if kiosk != nil || admins != nil {
		t.Error("clearing an unknown session must be a no-op")
	}
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.RegisterAdmin("S2", coretest.NewConn("a"))
	r.RegisterKiosk("S1", coretest.NewConn("k"))

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].SessionID != "S1" || snap[1].SessionID != "S2" {
		t.Fatalf("unexpected snapshot order: %+v", snap)
	}
	if !snap[0].KioskConnected || snap[0].AdminCount != 0 {
		t.Errorf("S1 kiosk not reported: %+v", snap[0])
	}
	if snap[1].KioskConnected || snap[1].AdminCount != 1 {
		t.Errorf("S2 should be admin-only: %+v", snap[1])
	}
}

func TestRegistry_ConcurrentSameSession(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		k := coretest.NewConn("k")
		a := coretest.NewConn(string(rune('a' + i%26)))
		wg.Add(3)
		go func() { defer wg.Done(); r.RegisterKiosk("S1", k) }()
		go func() { defer wg.Done(); r.RegisterAdmin("S1", a) }()
		go func() { defer wg.Done(); r.RemoveConnection(k) }()
	}
	wg.Wait()

	seen := map[core.ConnID]bool{}
	for _, id := range ids(r.LookupAdmins("S1")) {
		if seen[id] {
			t.Fatalf("duplicate admin %s", id)
		}
		seen[id] = true
	}
}

func TestRegistry_AdminOf(t *testing.T) {
	r := NewRegistry()
	k := coretest.NewConn("k")
	a := coretest.NewConn("a")
	other := coretest.NewConn("other")
	r.Attach(k)
	r.Attach(a)
	r.Attach(other)
	r.RegisterKiosk("S1", k)
	r.RegisterAdmin("S1", a)
	r.RegisterAdmin("S2", other)

	tests := []struct {
		name string
		sid  core.SessionID
		id   core.ConnID
		ok   bool
	}{
		{"admin of the session", "S1", "a", true},
		{"kiosk is not an admin", "S1", "k", false},
		{"admin of another session", "S1", "other", false},
		{"unknown session", "S9", "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.AdminOf(tt.sid, tt.id)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got.ID() != tt.id {
				t.Errorf("expected %s, got %s", tt.id, got.ID())
			}
		})
	}
}
