// Package visibility is the VisibilityManager: each player's view of other
// entities, emitting spawn/despawn/move/rotate/sneak deltas as positions
// and states change.
package visibility

import (
	"bytes"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/broadcast"
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/session"
)

// viewDistanceBlocks bounds visibility independent of the chunk-streamer's
// view distance in chunks — the two are independent parameters.
const viewDistanceBlocks = 128

// headYawThreshold is the smallest head-yaw delta, in angle-byte units
// (256 = full turn), that triggers a RotateHead packet.
const headYawThreshold = 1

// teleportThreshold is the move distance, in blocks, beyond which a full
// TeleportEntity replaces the short-form UpdateEntityPosition.
const teleportThreshold = 8.0

// Manager tracks, for every player, the set of other players currently
// visible to them, and computes the delta packets a position/rotation/
// sneak change requires.
type Manager struct {
	reg *broadcast.Registry
	bus *broadcast.Bus

	mu      sync.Mutex
	visible map[uuid.UUID]map[uuid.UUID]int32 // observer -> (observed uuid -> observed entity id)
}

func NewManager(reg *broadcast.Registry, bus *broadcast.Bus) *Manager {
	return &Manager{
		reg:     reg,
		bus:     bus,
		visible: make(map[uuid.UUID]map[uuid.UUID]int32),
	}
}

// Forget drops every visibility relationship involving id (both directions)
// and tells every player who still had id visible to despawn it. Called on
// disconnect; entityID is the departing player's session-scoped id, since
// by the time observers are notified the player record may already be
// gone from the registry.
func (m *Manager) Forget(id uuid.UUID, entityID int32) {
	m.mu.Lock()
	var observers []uuid.UUID
	for observer, set := range m.visible {
		if _, ok := set[id]; ok {
			observers = append(observers, observer)
			delete(set, id)
		}
	}
	delete(m.visible, id)
	m.mu.Unlock()

	for _, observer := range observers {
		if s, ok := m.reg.Get(observer); ok {
			sendDespawn(s, entityID)
		}
	}
}

// Refresh recomputes observer's visible set against every currently
// connected player and emits the necessary spawn/despawn packets. Called
// whenever observer moves into or out of another player's view distance.
func (m *Manager) Refresh(observer session.Sender) {
	self := observer.Player()
	selfPos := self.Position()

	nowVisible := make(map[uuid.UUID]int32)
	for _, other := range m.reg.Snapshot() {
		op := other.Player()
		if op.UUID == self.UUID || other.Closed() {
			continue
		}
		d := distance(selfPos, op.Position())
		if d <= viewDistanceBlocks {
			nowVisible[op.UUID] = op.EntityID()
		}
	}

	m.mu.Lock()
	prev, ok := m.visible[self.UUID]
	if !ok {
		prev = make(map[uuid.UUID]int32)
	}
	m.visible[self.UUID] = nowVisible
	m.mu.Unlock()

	for id := range nowVisible {
		if _, already := prev[id]; already {
			continue
		}
		if other, ok := m.reg.Get(id); ok {
			sendSpawn(observer, other)
		}
	}
	for id, entityID := range prev {
		if _, still := nowVisible[id]; !still {
			sendDespawn(observer, entityID)
		}
	}
}

// BroadcastMove emits position/rotation deltas for mover to every observer
// who has mover visible, sending any position update before a rotation
// update in the same frame.
func (m *Manager) BroadcastMove(mover session.Sender, prev, next player.Position) {
	p := mover.Player()
	moved := prev.X != next.X || prev.Y != next.Y || prev.Z != next.Z
	rotated := prev.Yaw != next.Yaw || prev.Pitch != next.Pitch

	filter := m.visibleToFilter(p.UUID)

	if moved {
		d := distance(prev, next)
		if d > teleportThreshold {
			m.bus.Broadcast(&packet.TeleportEntity{
				EntityID: p.EntityID(),
				X:        next.X, Y: next.Y, Z: next.Z,
				Yaw: angleByte(next.Yaw), Pitch: angleByte(next.Pitch),
				OnGround: next.OnGround,
			}, filter)
		} else {
			dx := deltaFixed(next.X - prev.X)
			dy := deltaFixed(next.Y - prev.Y)
			dz := deltaFixed(next.Z - prev.Z)
			if rotated {
				m.bus.Broadcast(&packet.UpdateEntityPositionAndRotation{
					EntityID: p.EntityID(),
					DX: dx, DY: dy, DZ: dz,
					Yaw: angleByte(next.Yaw), Pitch: angleByte(next.Pitch),
					OnGround: next.OnGround,
				}, filter)
			} else {
				m.bus.Broadcast(&packet.UpdateEntityPosition{
					EntityID: p.EntityID(),
					DX: dx, DY: dy, DZ: dz,
					OnGround: next.OnGround,
				}, filter)
			}
		}
	} else if rotated {
		m.bus.Broadcast(&packet.UpdateEntityRotation{
			EntityID: p.EntityID(),
			Yaw:      angleByte(next.Yaw),
			Pitch:    angleByte(next.Pitch),
			OnGround: next.OnGround,
		}, filter)
	}

	if rotated {
		lastHeadYaw := p.LastHeadYaw()
		headYaw := angleByte(next.Yaw)
		if absByteDelta(headYaw, angleByte(lastHeadYaw)) >= headYawThreshold {
			m.bus.Broadcast(&packet.RotateHead{EntityID: p.EntityID(), HeadYaw: headYaw}, filter)
			p.SetLastHeadYaw(next.Yaw)
		}
	}
}

// BroadcastSneak emits a SetEntityMetadata delta when a player's sneaking
// state toggles, filtered to observers who have it visible.
func (m *Manager) BroadcastSneak(mover session.Sender, sneaking bool) {
	p := mover.Player()
	data, err := packet.BuildSneakMetadata(sneaking)
	if err != nil {
		return
	}
	m.bus.Broadcast(&packet.SetEntityMetadata{EntityID: p.EntityID(), Data: data}, m.visibleToFilter(p.UUID))
}

func (m *Manager) visibleToFilter(id uuid.UUID) broadcast.Filter {
	return func(s session.Sender) bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		set, ok := m.visible[s.Player().UUID]
		if !ok {
			return false
		}
		_, visible := set[id]
		return visible
	}
}

func sendSpawn(to session.Sender, of session.Sender) {
	op := of.Player()
	pos := op.Position()
	_ = to.Send(&packet.SpawnEntity{
		EntityID:   op.EntityID(),
		EntityUUID: op.UUID,
		EntityType: packet.EntityTypePlayer,
		X: pos.X, Y: pos.Y, Z: pos.Z,
		Pitch: angleByte(pos.Pitch), Yaw: angleByte(pos.Yaw), HeadYaw: angleByte(op.LastHeadYaw()),
	})
	if eq, err := packet.BuildEquipmentEntry(packet.EquipmentSlotMainHand, op.HeldItem()); err == nil {
		_ = to.Send(&packet.SetEquipment{EntityID: op.EntityID(), Data: eq})
	}
}

func sendDespawn(to session.Sender, entityID int32) {
	var buf bytes.Buffer
	if _, err := protocol.WriteVarInt(&buf, 1); err != nil {
		return
	}
	if _, err := protocol.WriteVarInt(&buf, entityID); err != nil {
		return
	}
	_ = to.Send(&packet.RemoveEntities{Data: buf.Bytes()})
}

func distance(a, b player.Position) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func deltaFixed(v float64) int16 {
	return int16(v * 4096)
}

func angleByte(deg float32) uint8 {
	return uint8(int32(deg*256/360) & 0xFF)
}

func absByteDelta(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	if d > 128 {
		d = 256 - d
	}
	return d
}
