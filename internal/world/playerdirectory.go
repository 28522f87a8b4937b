package world

import (
	"sync"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/player"
)

// PlayerDirectory keeps one *player.Player per UUID for the process
// lifetime, so a reconnecting client resumes its inventory and position
// instead of starting fresh. In-memory only — there is no disk-backed
// persistence across process restarts.
type PlayerDirectory struct {
	mu      sync.Mutex
	players map[uuid.UUID]*player.Player
}

func NewPlayerDirectory() *PlayerDirectory {
	return &PlayerDirectory{players: make(map[uuid.UUID]*player.Player)}
}

// Exists reports whether id has been seen before this process lifetime,
// distinguishing a fresh join from a reconnect.
func (d *PlayerDirectory) Exists(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.players[id]
	return ok
}

// Resolve returns the existing Player record for id, creating and seeding
// one with a default survival loadout on first sight.
func (d *PlayerDirectory) Resolve(id uuid.UUID, username string, viewDistance int) *player.Player {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.players[id]; ok {
		return p
	}
	p := player.New(id, username, viewDistance)
	p.Inventory.DefaultLoadout()
	d.players[id] = p
	return p
}

// Count returns the number of distinct players ever seen this process.
func (d *PlayerDirectory) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.players)
}
