package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/core"
)

type sessionEntry struct {
	kiosk  core.SignalConnection
	admins []core.SignalConnection
}

func (e *sessionEntry) empty() bool { return e.kiosk == nil && len(e.admins) == 0 }

func (e *sessionEntry) adminIndex(id core.ConnID) int {
	for i, a := range e.admins {
		if a.ID() == id {
			return i
		}
	}
	return -1
}

// Registry maps session ids to the live kiosk and admin connections.
// One RWMutex guards every map, so a disconnect and a concurrent registration
// for the same session are serialized.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	conns    map[core.ConnID]core.SignalConnection
	group    map[core.ConnID]core.SignalConnection
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		conns:    make(map[core.ConnID]core.SignalConnection),
		group:    make(map[core.ConnID]core.SignalConnection),
	}
}

// Attach makes conn addressable by its id.
func (r *Registry) Attach(conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachLocked(conn)
}

func (r *Registry) attachLocked(conn core.SignalConnection) {
	id := conn.ID()
	if existing, ok := r.conns[id]; ok && existing != conn {
		log.Error().Str("module", "app.registry").Str("conn", string(id)).Msg("two live handles share one connection id")
	}
	r.conns[id] = conn
}

// Conn resolves a connection id to its live handle.
func (r *Registry) Conn(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// RegisterKiosk installs conn as the kiosk of sid and returns the handle it
// replaced, if any. The replaced handle is not closed here.
func (r *Registry) RegisterKiosk(sid core.SessionID, conn core.SignalConnection) core.SignalConnection {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachLocked(conn)

	for other, e := range r.sessions {
		if other != sid && e.kiosk != nil && e.kiosk.ID() == conn.ID() {
			log.Warn().Str("module", "app.registry").Str("conn", string(conn.ID())).Str("sid", string(sid)).Str("other_sid", string(other)).Msg("connection is already kiosk of another session")
		}
	}

	e, ok := r.sessions[sid]
	if !ok {
		e = &sessionEntry{}
		r.sessions[sid] = e
	}
	prev := e.kiosk
	e.kiosk = conn
	if prev != nil && prev.ID() == conn.ID() {
		prev = nil
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("conn", string(conn.ID())).Bool("replaced", prev != nil).Msg("kiosk registered")
	return prev
}

// RegisterAdmin adds conn to the observers of sid. It reports false when conn
// was already observing.
func (r *Registry) RegisterAdmin(sid core.SessionID, conn core.SignalConnection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachLocked(conn)

	e, ok := r.sessions[sid]
	if !ok {
		e = &sessionEntry{}
		r.sessions[sid] = e
	}
	if e.adminIndex(conn.ID()) >= 0 {
		return false
	}
	e.admins = append(e.admins, conn)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("conn", string(conn.ID())).Int("admins", len(e.admins)).Msg("admin registered")
	return true
}

func (r *Registry) LookupKiosk(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.kiosk == nil {
		return nil, false
	}
	return e.kiosk, true
}

// LookupAdmins returns a copy of the observers of sid in registration order.
func (r *Registry) LookupAdmins(sid core.SessionID) []core.SignalConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make([]core.SignalConnection, len(e.admins))
	copy(out, e.admins)
	return out
}

// AdminOf resolves id only if it currently observes sid.
func (r *Registry) AdminOf(sid core.SessionID, id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	if i := e.adminIndex(id); i >= 0 {
		return e.admins[i], true
	}
	return nil, false
}

// JoinAdminGroup subscribes conn to global session notifications.
func (r *Registry) JoinAdminGroup(conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachLocked(conn)
	r.group[conn.ID()] = conn
}

func (r *Registry) AdminGroup() []core.SignalConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.SignalConnection, 0, len(r.group))
	for _, c := range r.group {
		out = append(out, c)
	}
	return out
}

// Removal lists the sessions a removed connection was vacated from.
type Removal struct {
	KioskOf []core.SessionID
	AdminOf []core.SessionID
}

// RemoveConnection drops conn from every role it holds in one critical section.
func (r *Registry) RemoveConnection(conn core.SignalConnection) Removal {
	id := conn.ID()
	var res Removal

	r.mu.Lock()
	defer r.mu.Unlock()

	for sid, e := range r.sessions {
		if e.kiosk != nil && e.kiosk.ID() == id {
			e.kiosk = nil
			res.KioskOf = append(res.KioskOf, sid)
		}
		if i := e.adminIndex(id); i >= 0 {
			e.admins = append(e.admins[:i], e.admins[i+1:]...)
			res.AdminOf = append(res.AdminOf, sid)
		}
		if e.empty() {
			delete(r.sessions, sid)
		}
	}
	if c, ok := r.conns[id]; ok && c == conn {
		delete(r.conns, id)
	}
	delete(r.group, id)

	log.Info().Str("module", "app.registry").Str("conn", string(id)).Int("kiosk_of", len(res.KioskOf)).Int("admin_of", len(res.AdminOf)).Msg("connection removed")
	return res
}

// ClearSession drops the whole entry for sid and returns what it held.
// Transports are left open.
func (r *Registry) ClearSession(sid core.SessionID) (core.SignalConnection, []core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, nil
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Bool("kiosk", e.kiosk != nil).Int("admins", len(e.admins)).Msg("session cleared")
	return e.kiosk, e.admins
}

// Snapshot returns every entry sorted by session id.
func (r *Registry) Snapshot() []core.LiveSession {
	r.mu.RLock()
	out := make([]core.LiveSession, 0, len(r.sessions))
	for sid, e := range r.sessions {
		out = append(out, core.LiveSession{
			SessionID:      sid,
			KioskConnected: e.kiosk != nil,
			AdminCount:     len(e.admins),
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Counts reports attached connections and tracked sessions.
func (r *Registry) Counts() (conns, sessions int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns), len(r.sessions)
}
