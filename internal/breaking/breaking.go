// Package breaking is the BlockBreakingScheduler: up to one tick-paced
// mining session per player, with destroy-stage broadcast and
// cancellation.
package breaking

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/broadcast"
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/protoerr"
	"github.com/blockcraft/server/internal/world"
)

// tick is the scheduler's wall-clock grain.
const tick = 50 * time.Millisecond

// Session is one active mine. Only the Scheduler mutates it; reads by
// other goroutines go through the fields copied out at session-start, so
// no lock is needed on the struct itself beyond the cancellation flag.
type Session struct {
	PlayerID    uuid.UUID
	EntityID    int32
	Pos         world.BlockPos
	OrigState   int32
	TotalTicks  int
	currentTick int

	mu        sync.Mutex
	cancelled bool
	done      chan struct{}
}

func (s *Session) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

func (s *Session) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Scheduler owns the UUID→Session map behind a single mutex, kept brief
// since every operation under it is O(1), plus the collaborators it needs
// to mutate the world and broadcast animation/result packets.
type Scheduler struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	store *world.WorldStore
	reg   world.Registry
	bus   *broadcast.Bus
}

func NewScheduler(store *world.WorldStore, reg world.Registry, bus *broadcast.Bus) *Scheduler {
	return &Scheduler{
		sessions: make(map[uuid.UUID]*Session),
		store:    store,
		reg:      reg,
		bus:      bus,
	}
}

// StartSession begins mining pos for p. Creative mode short-circuits to an
// immediate break. Survival computes total_ticks from the registry's
// hardness/material data and the player's held item; an unbreakable block
// (nil hardness) returns ErrUnbreakableBlock and starts no session.
func (sch *Scheduler) StartSession(p *player.Player, pos world.BlockPos) error {
	stateID := sch.store.BlockAt(pos)
	block, ok := sch.reg.BlockByState(stateID)
	if !ok || !block.Diggable {
		return protoerr.ErrUnbreakableBlock
	}

	if p.GameMode() == player.GameModeCreative {
		sch.finishBreak(p, pos, stateID)
		return nil
	}

	if block.Hardness == nil {
		return protoerr.ErrUnbreakableBlock
	}

	totalTicks := breakTicks(block, sch.material(block), p.HeldItem().ItemID)

	sch.mu.Lock()
	if existing, ok := sch.sessions[p.UUID]; ok {
		if existing.Pos == pos {
			// Same block already being mined: keep the existing session.
			sch.mu.Unlock()
			return nil
		}
		existing.cancel()
		delete(sch.sessions, p.UUID)
		sch.broadcastStage(p, existing.Pos, packet.StageClear)
	}

	if totalTicks == 0 {
		sch.mu.Unlock()
		sch.finishBreak(p, pos, stateID)
		return nil
	}

	s := &Session{
		PlayerID:   p.UUID,
		EntityID:   p.EntityID(),
		Pos:        pos,
		OrigState:  stateID,
		TotalTicks: totalTicks,
		done:       make(chan struct{}),
	}
	sch.sessions[p.UUID] = s
	sch.mu.Unlock()

	sch.broadcastStage(p, pos, 0)
	go sch.run(p, s)

	return nil
}

// run paces through stages 1..9 at ticks floor(k/10 * total_ticks), then
// marks the session complete and waits for FinishedDigging.
func (sch *Scheduler) run(p *player.Player, s *Session) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	nextStage := int8(1)
	for s.currentTick < s.TotalTicks {
		select {
		case <-ticker.C:
		case <-s.done:
			return
		}
		if s.isCancelled() {
			return
		}
		s.currentTick++
		for nextStage <= 9 && s.currentTick >= int(nextStage)*s.TotalTicks/10 {
			sch.broadcastStage(p, s.Pos, nextStage)
			nextStage++
		}
	}
	// Session complete: stays in sch.sessions awaiting the client's
	// FinishedDigging confirmation.
}

// CancelSession sets the cancellation flag and clears the animation for
// every observer.
func (sch *Scheduler) CancelSession(p *player.Player, pos world.BlockPos) {
	sch.mu.Lock()
	s, ok := sch.sessions[p.UUID]
	if !ok || s.Pos != pos {
		sch.mu.Unlock()
		return
	}
	delete(sch.sessions, p.UUID)
	sch.mu.Unlock()

	s.cancel()
	close(s.done)
	sch.broadcastStage(p, pos, packet.StageClear)
}

// FinishedDigging handles the client's digging-finished confirmation: if
// the session is complete (or within one tick of it), mutate the world
// and broadcast the result; otherwise the mining task keeps running
// uninterrupted.
func (sch *Scheduler) FinishedDigging(p *player.Player, pos world.BlockPos) {
	sch.mu.Lock()
	s, ok := sch.sessions[p.UUID]
	if !ok || s.Pos != pos {
		sch.mu.Unlock()
		return
	}
	complete := s.currentTick >= s.TotalTicks-1
	if complete {
		delete(sch.sessions, p.UUID)
	}
	sch.mu.Unlock()

	if !complete {
		return
	}

	close(s.done)
	sch.finishBreak(p, pos, s.OrigState)
}

// finishBreak applies the block removal and broadcasts BlockUpdate plus the
// break sound/particle WorldEvent to every observer with the chunk loaded.
func (sch *Scheduler) finishBreak(p *player.Player, pos world.BlockPos, origState int32) {
	sch.store.SetBlock(pos, world.BlockStateAir)

	loc := protocol.EncodePosition(int64(pos.X), int64(pos.Y), int64(pos.Z))
	c := pos.ChunkPos()
	filter := broadcast.ChunkLoaded(c.X, c.Z)

	sch.bus.Broadcast(&packet.BlockUpdate{Location: loc, BlockID: world.BlockStateAir}, filter)
	sch.bus.Broadcast(&packet.WorldEvent{
		EventID:  packet.WorldEventBlockBreak,
		Location: loc,
		Data:     origState,
	}, filter)
}

func (sch *Scheduler) broadcastStage(p *player.Player, pos world.BlockPos, stage int8) {
	c := pos.ChunkPos()
	filter := broadcast.And(broadcast.ChunkLoaded(c.X, c.Z), broadcast.AllExcept(p.UUID))
	loc := protocol.EncodePosition(int64(pos.X), int64(pos.Y), int64(pos.Z))
	sch.bus.Broadcast(&packet.SetBlockDestroyStage{
		EntityID: p.EntityID(),
		Location: loc,
		Stage:    stage,
	}, filter)
}

func (sch *Scheduler) material(block world.Block) world.Material {
	if block.Material == "" {
		return world.Material{}
	}
	mat, ok := sch.reg.Material(block.Material)
	if !ok {
		return world.Material{}
	}
	return mat
}

// breakTicks derives total_ticks from hardness and tool speed. The base
// divisor (50) reproduces the canonical hardness-1.5/tool_speed-1.0 case
// as total_ticks 75. The harvest-vs-no-harvest ratio (100/30) matches the
// client's own damage-per-tick formula for an unsuitable tool.
func breakTicks(block world.Block, material world.Material, heldItemID int32) int {
	hardness := *block.Hardness
	if hardness == 0 {
		return 0
	}

	toolSpeed := 1.0
	if material.ToolSpeeds != nil {
		if speed, ok := material.ToolSpeeds[heldItemID]; ok {
			toolSpeed = speed
		}
	}

	canHarvest := block.HarvestTools == nil || block.HarvestTools[heldItemID]

	divisor := 50.0
	if !canHarvest {
		divisor = 50.0 * (100.0 / 30.0)
	}

	damagePerTick := toolSpeed / (hardness * divisor)
	if damagePerTick >= 1.0 {
		return 0
	}
	return int(math.Ceil(1.0 / damagePerTick))
}
