// Package broadcast serializes a prebuilt packet once and sends it to a
// filtered subset of connections, isolating per-connection failures from
// each other.
package broadcast

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/session"
)

// Registry tracks every connected session, keyed by player UUID. It is the
// lookup the VisibilityManager uses to resolve other players and the
// iteration source for Bus.Broadcast.
type Registry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]session.Sender
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]session.Sender)}
}

func (r *Registry) Add(s session.Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[s.Player().UUID] = s
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

func (r *Registry) Get(id uuid.UUID) (session.Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.conns[id]
	return s, ok
}

// Snapshot copies the connection list once so broadcast never holds the
// registry lock while writing sockets.
func (r *Registry) Snapshot() []session.Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]session.Sender, 0, len(r.conns))
	for _, s := range r.conns {
		out = append(out, s)
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Bus is the Broadcast Bus: stateless beyond the registry it reads from.
type Bus struct {
	reg *Registry
	log *slog.Logger
}

func NewBus(reg *Registry, log *slog.Logger) *Bus {
	return &Bus{reg: reg, log: log}
}

// Filter decides whether a given connection should receive a broadcast.
type Filter func(session.Sender) bool

// Broadcast sends p to every connection in the snapshot passing filter.
// Each send is attempted independently; a failure is logged and does not
// stop the remaining sends.
func (b *Bus) Broadcast(p protocol.Packet, filter Filter) {
	for _, s := range b.reg.Snapshot() {
		if s.Closed() {
			continue
		}
		if filter != nil && !filter(s) {
			continue
		}
		if err := s.Send(p); err != nil {
			b.log.Warn("broadcast send failed", "player", s.Player().Username, "error", err)
		}
	}
}

// ChunkLoaded filters to connections whose player currently has (cx,cz) in
// its loaded set.
func ChunkLoaded(cx, cz int32) Filter {
	pos := player.ChunkPos{X: cx, Z: cz}
	return func(s session.Sender) bool {
		return s.Player().HasLoadedChunk(pos)
	}
}

// AllExcept filters out a single player UUID (e.g. the digger's own
// destroy-stage animation).
func AllExcept(id uuid.UUID) Filter {
	return func(s session.Sender) bool {
		return s.Player().UUID != id
	}
}

// All matches every connection, the same as passing a nil filter.
func All() Filter {
	return func(session.Sender) bool { return true }
}

// And composes filters with logical AND.
func And(filters ...Filter) Filter {
	return func(s session.Sender) bool {
		for _, f := range filters {
			if !f(s) {
				return false
			}
		}
		return true
	}
}
