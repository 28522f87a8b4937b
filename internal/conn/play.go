package conn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blockcraft/server/internal/inventory"
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protoerr"
	"github.com/blockcraft/server/internal/streamer"
	"github.com/blockcraft/server/internal/world"
)

// spawnForceLoadTimeout bounds the join sequence's 3×3 force-load step.
const spawnForceLoadTimeout = 5 * time.Second

// startPlay runs the join sequence: resolve player state already bound by
// handleLoginStart, announce it to the client, bring up its chunk stream,
// synchronize its own position, make it visible (and others visible to
// it), then announce it to everyone else.
func (c *Connection) startPlay() error {
	p := c.Player()
	if p == nil {
		return protoerr.ErrUnexpectedPacket
	}

	entityID := c.deps.nextEntityID()
	p.BindEntityID(entityID)

	if err := c.Send(&packet.LoginPlay{
		EntityID:      entityID,
		GameMode:      uint8(p.GameMode()),
		DimensionName: "minecraft:overworld",
		ViewDistance:  int32(p.ViewDistance()),
		SimulationDist: int32(p.ViewDistance()),
	}); err != nil {
		return err
	}

	c.mu.Lock()
	reconnect := c.reconnect
	c.mu.Unlock()
	if reconnect {
		content, err := packet.BuildContainerContent(int32(p.InventoryStateID()), p.Inventory.Snapshot(), p.CursorItem())
		if err != nil {
			return err
		}
		if err := c.Send(&content); err != nil {
			return err
		}
	}

	if p.Position() == (player.Position{}) {
		p.SetPosition(player.Position{X: 8, Y: 1, Z: 8, OnGround: true})
	}

	st := streamer.New(c, c.deps.World.Store, c.deps.World.Index)
	c.mu.Lock()
	c.streamer = st
	c.mu.Unlock()
	st.Start()

	if err := c.Send(&packet.UpdateTime{
		WorldAge:  c.deps.World.Time.WorldAge(),
		TimeOfDay: c.deps.World.Time.DayTime(),
	}); err != nil {
		return err
	}
	if err := c.Send(&packet.GameEvent{Event: packet.GameEventStartWaitingForChunks}); err != nil {
		return err
	}
	center := p.ChunkPos()
	if err := c.Send(&packet.SetCenterChunk{ChunkX: center.X, ChunkZ: center.Z}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.ctx, spawnForceLoadTimeout)
	err := st.ForceLoad(ctx, spawnSquare(center))
	cancel()
	if err != nil {
		c.log.Warn("spawn force-load incomplete", "error", err)
	}

	pos := p.Position()
	if err := c.Send(&packet.SynchronizePlayerPosition{
		X: pos.X, Y: pos.Y, Z: pos.Z,
		Yaw: pos.Yaw, Pitch: pos.Pitch,
	}); err != nil {
		return err
	}

	c.deps.Conns.Add(c)
	if err := c.sendTabListJoin(p); err != nil {
		return err
	}
	c.deps.Vis.Refresh(c)
	for _, other := range c.deps.Conns.Snapshot() {
		if other.Player().UUID != p.UUID {
			c.deps.Vis.Refresh(other)
		}
	}
	c.broadcastJoinMessage(p)
	c.broadcastEquipmentJoin(p)

	st.UpdateDesiredChunks(desiredSquare(center, p.ViewDistance()))

	go c.keepAliveLoop()

	c.log.Info("join sequence complete", "entity_id", entityID)
	return nil
}

// sendTabListJoin adds p to its own tab list and every other connected
// player's, and adds every other connected player to p's.
func (c *Connection) sendTabListJoin(p *player.Player) error {
	selfEntry, err := packet.BuildPlayerInfoAddPlayer(p.UUID, p.Username, 0)
	if err != nil {
		return err
	}
	if err := c.Send(&packet.PlayerInfoUpdate{Data: selfEntry}); err != nil {
		return err
	}

	for _, other := range c.deps.Conns.Snapshot() {
		if other.Player().UUID == p.UUID {
			continue
		}
		// Announce the new player to everyone already connected...
		_ = other.Send(&packet.PlayerInfoUpdate{Data: selfEntry})

		// ...and every already-connected player to the new player.
		if data, err := packet.BuildPlayerInfoAddPlayer(other.Player().UUID, other.Player().Username, 0); err == nil {
			_ = c.Send(&packet.PlayerInfoUpdate{Data: data})
		}
	}
	return nil
}

func (c *Connection) broadcastJoinMessage(p *player.Player) {
	msg := fmt.Sprintf(`{"text":"%s joined the game"}`, jsonEscapeText(p.Username))
	c.deps.Bus.Broadcast(&packet.SystemChatMessage{JSONData: msg}, nil)
}

// broadcastEquipmentJoin announces p's held item to every connected player
// (p included), and sends every other connected player's held item to p.
func (c *Connection) broadcastEquipmentJoin(p *player.Player) {
	if eq, err := packet.BuildEquipmentEntry(packet.EquipmentSlotMainHand, p.HeldItem()); err == nil {
		c.deps.Bus.Broadcast(&packet.SetEquipment{EntityID: p.EntityID(), Data: eq}, nil)
	}
	for _, other := range c.deps.Conns.Snapshot() {
		op := other.Player()
		if op.UUID == p.UUID {
			continue
		}
		if eq, err := packet.BuildEquipmentEntry(packet.EquipmentSlotMainHand, op.HeldItem()); err == nil {
			_ = c.Send(&packet.SetEquipment{EntityID: op.EntityID(), Data: eq})
		}
	}
}

func spawnSquare(center player.ChunkPos) []player.ChunkPos {
	out := make([]player.ChunkPos, 0, 9)
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			out = append(out, player.ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
	return out
}

func desiredSquare(center player.ChunkPos, viewDistance int) map[player.ChunkPos]struct{} {
	out := make(map[player.ChunkPos]struct{})
	r := int32(viewDistance)
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			out[player.ChunkPos{X: center.X + dx, Z: center.Z + dz}] = struct{}{}
		}
	}
	return out
}

func jsonEscapeText(s string) string {
	b, _ := json.Marshal(s)
	// Marshal returns a quoted JSON string literal; strip the surrounding
	// quotes since the caller embeds it inside its own "text" quotes.
	if len(b) >= 2 {
		return string(b[1 : len(b)-1])
	}
	return s
}

// dispatchPlay routes every serverbound Play packet to its handler.
func (c *Connection) dispatchPlay(packetID int32, payload []byte) error {
	switch packetID {
	case (packet.KeepAliveServerbound{}).PacketID():
		var ka packet.KeepAliveServerbound
		if err := decode(payload, &ka); err != nil {
			return protoerr.ErrMalformed
		}
		c.handleKeepAliveServerbound(ka)
		return nil

	case (packet.SetPlayerPosition{}).PacketID():
		var m packet.SetPlayerPosition
		if err := decode(payload, &m); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleMove(player.Position{X: m.X, Y: m.Y, Z: m.Z, OnGround: m.OnGround}, false)

	case (packet.SetPlayerPositionAndRotation{}).PacketID():
		var m packet.SetPlayerPositionAndRotation
		if err := decode(payload, &m); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleMove(player.Position{X: m.X, Y: m.Y, Z: m.Z, Yaw: m.Yaw, Pitch: m.Pitch, OnGround: m.OnGround}, true)

	case (packet.SetPlayerRotation{}).PacketID():
		var m packet.SetPlayerRotation
		if err := decode(payload, &m); err != nil {
			return protoerr.ErrMalformed
		}
		prev := c.Player().Position()
		return c.handleMove(player.Position{X: prev.X, Y: prev.Y, Z: prev.Z, Yaw: m.Yaw, Pitch: m.Pitch, OnGround: m.OnGround}, true)

	case (packet.PlayerInput{}).PacketID():
		var in packet.PlayerInput
		if err := decode(payload, &in); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handlePlayerInput(in)

	case (packet.PlayerAction{}).PacketID():
		var pa packet.PlayerAction
		if err := decode(payload, &pa); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handlePlayerAction(pa)

	case (packet.SwingArm{}).PacketID():
		var sa packet.SwingArm
		if err := decode(payload, &sa); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleSwingArm(sa)

	case (packet.UseItemOn{}).PacketID():
		var u packet.UseItemOn
		if err := decode(payload, &u); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleUseItemOn(u)

	case (packet.SetHeldItem{}).PacketID():
		var h packet.SetHeldItem
		if err := decode(payload, &h); err != nil {
			return protoerr.ErrMalformed
		}
		c.Player().SetHeldSlot(int32(h.Slot))
		return nil

	case (packet.ClickContainer{}).PacketID():
		var cl packet.ClickContainer
		if err := decode(payload, &cl); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleClickContainer(cl)

	case (packet.SetCreativeModeSlot{}).PacketID():
		var cs packet.SetCreativeModeSlot
		if err := decode(payload, &cs); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleSetCreativeModeSlot(cs)

	case (packet.CloseContainer{}).PacketID():
		return nil

	case (packet.ClickContainerButton{}).PacketID():
		return nil

	case (packet.ChatMessageServerbound{}).PacketID():
		var chat packet.ChatMessageServerbound
		if err := decode(payload, &chat); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleChatMessage(chat)

	default:
		return protoerr.ErrUnexpectedPacket
	}
}

// handleMove applies a position/rotation update, driving both the chunk
// streamer's desired set and the visibility manager's move broadcast.
func (c *Connection) handleMove(next player.Position, rotated bool) error {
	p := c.Player()
	prev := p.SetPosition(next)

	if prev.ChunkPos() != next.ChunkPos() {
		c.mu.Lock()
		st := c.streamer
		c.mu.Unlock()
		if st != nil {
			st.UpdateDesiredChunks(desiredSquare(next.ChunkPos(), p.ViewDistance()))
		}
	}

	c.deps.Vis.BroadcastMove(c, prev, next)
	if next.ChunkPos() != prev.ChunkPos() {
		c.deps.Vis.Refresh(c)
	}
	return nil
}

func (c *Connection) handlePlayerInput(in packet.PlayerInput) error {
	sneaking := in.Flags&packet.PlayerInputSneakingBit != 0
	if c.Player().SetSneaking(sneaking) {
		c.deps.Vis.BroadcastSneak(c, sneaking)
	}
	return nil
}

func (c *Connection) handleSwingArm(sa packet.SwingArm) error {
	p := c.Player()
	anim := packet.AnimationSwingMainHand
	if sa.Hand == packet.HandOff {
		anim = packet.AnimationSwingOffHand
	}
	c.deps.Bus.Broadcast(&packet.EntityAnimation{EntityID: p.EntityID(), Animation: anim}, nil)
	return nil
}

// handlePlayerAction drives the breaking scheduler from PlayerAction's dig
// lifecycle.
func (c *Connection) handlePlayerAction(pa packet.PlayerAction) error {
	p := c.Player()
	x, y, z := decodePosition(pa.Location)
	pos := world.BlockPos{X: int32(x), Y: int32(y), Z: int32(z)}

	switch pa.Status {
	case packet.PlayerActionStartDigging:
		if err := c.deps.Breaker.StartSession(p, pos); err != nil {
			c.log.Debug("start digging rejected", "error", err)
		}
	case packet.PlayerActionCancelDigging:
		c.deps.Breaker.CancelSession(p, pos)
	case packet.PlayerActionFinishDigging:
		c.deps.Breaker.FinishedDigging(p, pos)
	}
	return nil
}

// handleUseItemOn resolves a block placement against the held item.
func (c *Connection) handleUseItemOn(u packet.UseItemOn) error {
	p := c.Player()
	x, y, z := decodePosition(u.Location)
	target := world.BlockPos{X: int32(x), Y: int32(y), Z: int32(z)}
	placeAt := offsetByFace(target, u.Face)

	state, err := inventory.ResolvePlacement(p, c.deps.World.Registry.BlockStateForItem)
	if err != nil {
		return nil // a no-op placement attempt is not a protocol error
	}

	c.deps.World.Store.SetBlock(placeAt, state)
	loc := encodePosition(placeAt)
	cp := placeAt.ChunkPos()
	c.deps.Bus.Broadcast(&packet.BlockUpdate{Location: loc, BlockID: state}, chunkLoadedFilter(cp))
	return nil
}

func (c *Connection) handleClickContainer(cl packet.ClickContainer) error {
	p := c.Player()
	result := c.deps.Inv.Click(p, cl.StateID, cl.Slot, cl.Button, cl.Mode)

	if result.Resynced {
		content, err := packet.BuildContainerContent(int32(p.InventoryStateID()), p.Inventory.Snapshot(), p.CursorItem())
		if err != nil {
			return err
		}
		return c.Send(&content)
	}

	for _, sr := range result.Changed {
		cs, err := packet.BuildContainerSlot(int32(p.InventoryStateID()), sr.Slot, sr.Stack)
		if err != nil {
			continue
		}
		_ = c.Send(&cs)
	}
	if result.HeldChanged {
		if eq, err := packet.BuildEquipmentEntry(packet.EquipmentSlotMainHand, p.HeldItem()); err == nil {
			c.deps.Bus.Broadcast(&packet.SetEquipment{EntityID: p.EntityID(), Data: eq}, nil)
		}
	}
	return nil
}

func (c *Connection) handleSetCreativeModeSlot(cs packet.SetCreativeModeSlot) error {
	stack, err := packet.ParseCreativeSlotTail(cs.Tail)
	if err != nil {
		return protoerr.ErrMalformed
	}
	p := c.Player()
	if err := inventory.SetCreativeModeSlot(p, cs.Slot, stack); err != nil {
		return nil // rejected outside creative: no-op, not a fatal error
	}
	if cs.Slot == int16(player.SlotHotbarStart)+int16(p.HeldSlot()) {
		if eq, err := packet.BuildEquipmentEntry(packet.EquipmentSlotMainHand, p.HeldItem()); err == nil {
			c.deps.Bus.Broadcast(&packet.SetEquipment{EntityID: p.EntityID(), Data: eq}, nil)
		}
	}
	return nil
}

// handleChatMessage relays a chat message to every Play-phase connection,
// JSON-escaping both the sender name and the message text.
func (c *Connection) handleChatMessage(chat packet.ChatMessageServerbound) error {
	p := c.Player()
	msg := fmt.Sprintf(`{"text":"<%s> %s"}`, jsonEscapeText(p.Username), jsonEscapeText(chat.Message))
	c.deps.Bus.Broadcast(&packet.SystemChatMessage{JSONData: msg}, nil)
	return nil
}
