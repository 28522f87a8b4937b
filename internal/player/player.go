// Package player holds the data model for a connected player: position,
// inventory, and the book-keeping (loaded/loading chunk sets, held slot,
// cursor item, monotonic inventory state id) every other component reads
// or mutates across the play session.
package player

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ChunkPos identifies a 16×16 column by its chunk coordinates.
type ChunkPos struct {
	X, Z int32
}

// ManhattanDistance returns the Manhattan distance between two chunk
// positions, used by the streamer to order its load batch.
func (c ChunkPos) ManhattanDistance(o ChunkPos) int32 {
	dx := c.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dz := c.Z - o.Z
	if dz < 0 {
		dz = -dz
	}
	return dx + dz
}

// Position is a player's world position and orientation.
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

// ChunkPos returns the chunk column containing this position.
func (p Position) ChunkPos() ChunkPos {
	return ChunkPos{
		X: int32(math.Floor(p.X)) >> 4,
		Z: int32(math.Floor(p.Z)) >> 4,
	}
}

// GameMode mirrors the wire game mode values.
type GameMode uint8

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// Player is durable across disconnects: the PlayerDirectory keeps one
// Player per UUID for the process lifetime; only the entity id is
// re-issued per session.
type Player struct {
	UUID     uuid.UUID
	Username string

	mu           sync.RWMutex
	entityID     int32
	gameMode     GameMode
	pos          Position
	lastHeadYaw  float32
	sneaking     bool
	viewDistance int

	loadedChunks  map[ChunkPos]struct{}
	loadingChunks map[ChunkPos]struct{}

	Inventory     *Inventory
	heldSlot      int32
	cursorItem    ItemStack
	inventoryState atomic.Uint32
}

// New creates a fresh Player record for a first-time UUID.
func New(id uuid.UUID, username string, viewDistance int) *Player {
	return &Player{
		UUID:          id,
		Username:      username,
		gameMode:      GameModeSurvival,
		viewDistance:  viewDistance,
		loadedChunks:  make(map[ChunkPos]struct{}),
		loadingChunks: make(map[ChunkPos]struct{}),
		Inventory:     NewInventory(),
	}
}

// BindEntityID assigns a fresh session-scoped entity id on (re)join.
func (p *Player) BindEntityID(id int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entityID = id
}

func (p *Player) EntityID() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.entityID
}

func (p *Player) GameMode() GameMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gameMode
}

func (p *Player) SetGameMode(mode GameMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gameMode = mode
}

func (p *Player) ViewDistance() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewDistance
}

func (p *Player) SetViewDistance(chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewDistance = chunks
}

// Position returns a copy of the player's current position.
func (p *Player) Position() Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos
}

// SetPosition updates position/orientation and returns the previous value,
// so callers (movement handlers) can diff old vs. new for C4/C5.
func (p *Player) SetPosition(pos Position) (prev Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev = p.pos
	p.pos = pos
	return prev
}

// LastHeadYaw/SetLastHeadYaw track the last broadcast head yaw so the
// visibility manager can threshold rotation deltas.
func (p *Player) LastHeadYaw() float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastHeadYaw
}

func (p *Player) SetLastHeadYaw(yaw float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastHeadYaw = yaw
}

func (p *Player) Sneaking() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sneaking
}

// SetSneaking updates the sneaking flag, returning whether it changed.
func (p *Player) SetSneaking(sneaking bool) (changed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	changed = p.sneaking != sneaking
	p.sneaking = sneaking
	return changed
}

// ChunkPos is a convenience wrapper over Position().ChunkPos().
func (p *Player) ChunkPos() ChunkPos {
	return p.Position().ChunkPos()
}

// LoadedChunks returns a snapshot of the confirmed-loaded chunk set.
func (p *Player) LoadedChunks() map[ChunkPos]struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[ChunkPos]struct{}, len(p.loadedChunks))
	for c := range p.loadedChunks {
		out[c] = struct{}{}
	}
	return out
}

func (p *Player) HasLoadedChunk(c ChunkPos) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.loadedChunks[c]
	return ok
}

func (p *Player) MarkLoaded(c ChunkPos) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadedChunks[c] = struct{}{}
	delete(p.loadingChunks, c)
}

func (p *Player) MarkUnloaded(c ChunkPos) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loadedChunks, c)
}

func (p *Player) MarkLoading(c ChunkPos) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingChunks[c] = struct{}{}
}

func (p *Player) ClearLoading(c ChunkPos) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loadingChunks, c)
}

func (p *Player) IsLoadingOrLoaded(c ChunkPos) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.loadedChunks[c]; ok {
		return true
	}
	_, ok := p.loadingChunks[c]
	return ok
}

// HeldSlot returns the selected hotbar slot (0-8).
func (p *Player) HeldSlot() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.heldSlot
}

func (p *Player) SetHeldSlot(slot int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.heldSlot = slot
}

// HeldItem returns the item stack in the currently selected hotbar slot.
func (p *Player) HeldItem() ItemStack {
	return p.Inventory.Slot(SlotHotbarStart + int(p.HeldSlot()))
}

func (p *Player) CursorItem() ItemStack {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursorItem
}

func (p *Player) SetCursorItem(stack ItemStack) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursorItem = stack
}

// InventoryStateID returns the current monotonic state id.
func (p *Player) InventoryStateID() uint32 {
	return p.inventoryState.Load()
}

// BumpInventoryState increments and returns the new state id; called by
// every server-initiated inventory mutation.
func (p *Player) BumpInventoryState() uint32 {
	return p.inventoryState.Add(1)
}
