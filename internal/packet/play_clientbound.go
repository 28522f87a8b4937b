package packet

import "github.com/google/uuid"

// LoginPlay initializes the client's Play-phase world state (clientbound
// 0x30).
type LoginPlay struct {
	EntityID         int32  `mc:"i32"`
	IsHardcore       bool   `mc:"bool"`
	GameMode         uint8  `mc:"u8"`
	PreviousGameMode int8   `mc:"i8"`
	DimensionName    string `mc:"string"`
	ViewDistance     int32  `mc:"varint"`
	SimulationDist   int32  `mc:"varint"`
	ReducedDebugInfo bool   `mc:"bool"`
	RespawnScreen    bool   `mc:"bool"`
	IsDebug          bool   `mc:"bool"`
	IsFlat           bool   `mc:"bool"`
}

func (LoginPlay) PacketID() int32 { return 0x30 }

// EntityAnimation broadcasts a one-shot animation such as a swing
// (clientbound 0x02).
type EntityAnimation struct {
	EntityID  int32 `mc:"varint"`
	Animation uint8 `mc:"u8"`
}

func (EntityAnimation) PacketID() int32 { return 0x02 }

// EntityAnimation ids used by the SwingArm relay.
const (
	AnimationSwingMainHand uint8 = 0
	AnimationSwingOffHand  uint8 = 3
)

// SetBlockDestroyStage broadcasts the current crack-overlay stage for one
// in-progress mining session (clientbound 0x05). Stage 10 clears it.
type SetBlockDestroyStage struct {
	EntityID int32 `mc:"varint"`
	Location int64 `mc:"position"`
	Stage    int8  `mc:"i8"`
}

func (SetBlockDestroyStage) PacketID() int32 { return 0x05 }

// StageClear is the sentinel stage value that removes the crack overlay.
const StageClear int8 = 10

// BlockUpdate notifies observers of a single block-state change
// (clientbound 0x08).
type BlockUpdate struct {
	Location int64 `mc:"position"`
	BlockID  int32 `mc:"varint"`
}

func (BlockUpdate) PacketID() int32 { return 0x08 }

// GameEvent signals a miscellaneous world-level event, e.g. the "start
// waiting for chunks" gate used by the join sequence (clientbound 0x26).
type GameEvent struct {
	Event uint8   `mc:"u8"`
	Value float32 `mc:"f32"`
}

func (GameEvent) PacketID() int32 { return 0x26 }

const (
	GameEventStartWaitingForChunks uint8 = 13
)

// KeepAliveClientbound carries an opaque id the client must echo within the
// configured timeout (clientbound 0x2B).
type KeepAliveClientbound struct {
	ID int64 `mc:"i64"`
}

func (KeepAliveClientbound) PacketID() int32 { return 0x2B }

// ChunkDataAndUpdateLight carries one column's full payload: heightmap,
// per-section paletted block/biome containers, and sky/block light arrays
// (clientbound 0x2C). Data is assembled by internal/streamer from a
// world.ChunkPayload and treated as an opaque tail here.
type ChunkDataAndUpdateLight struct {
	ChunkX int32  `mc:"i32"`
	ChunkZ int32  `mc:"i32"`
	Data   []byte `mc:"rest"`
}

func (ChunkDataAndUpdateLight) PacketID() int32 { return 0x2C }

// WorldEvent plays a sound/particle effect at a location, e.g. block break
// (2001) (clientbound 0x2D).
type WorldEvent struct {
	EventID               int32 `mc:"i32"`
	Location              int64 `mc:"position"`
	Data                  int32 `mc:"i32"`
	DisableRelativeVolume bool  `mc:"bool"`
}

func (WorldEvent) PacketID() int32 { return 0x2D }

const WorldEventBlockBreak int32 = 2001

// PlayerInfoRemove drops entries from every receiver's tab list
// (clientbound 0x43). Data is a count-prefixed UUID array assembled by the
// caller.
type PlayerInfoRemove struct {
	Data []byte `mc:"rest"`
}

func (PlayerInfoRemove) PacketID() int32 { return 0x43 }

// PlayerInfoUpdate adds or updates tab-list entries (clientbound 0x44).
// The action-bitset + per-player field layout is assembled by the caller;
// see BuildPlayerInfoAddPlayer for the encoder.
type PlayerInfoUpdate struct {
	Data []byte `mc:"rest"`
}

func (PlayerInfoUpdate) PacketID() int32 { return 0x44 }

// SynchronizePlayerPosition authoritatively teleports the receiving
// client's own view (clientbound 0x46).
type SynchronizePlayerPosition struct {
	X, Y, Z    float64 `mc:"f64"`
	Yaw, Pitch float32 `mc:"f32"`
	Flags      int8    `mc:"i8"`
	TeleportID int32   `mc:"varint"`
}

func (SynchronizePlayerPosition) PacketID() int32 { return 0x46 }

// RotateHead updates another entity's head yaw independent of body
// rotation (clientbound 0x51), encoded as an angle byte (256 = full turn).
type RotateHead struct {
	EntityID int32 `mc:"varint"`
	HeadYaw  uint8 `mc:"u8"`
}

func (RotateHead) PacketID() int32 { return 0x51 }

// SetCenterChunk tells the client which column is now the center of its
// view, driving client-side chunk unload decisions (clientbound 0x5C).
type SetCenterChunk struct {
	ChunkX int32 `mc:"varint"`
	ChunkZ int32 `mc:"varint"`
}

func (SetCenterChunk) PacketID() int32 { return 0x5C }

// SetEntityMetadata carries a tracked-entity metadata delta, e.g. the
// sneaking pose bit (clientbound 0x61). Data is the encoded metadata
// entry list assembled by the caller.
type SetEntityMetadata struct {
	EntityID int32  `mc:"varint"`
	Data     []byte `mc:"rest"`
}

func (SetEntityMetadata) PacketID() int32 { return 0x61 }

// SetEquipment carries one or more equipment-slot updates for an entity
// (clientbound 0x64). Data is the encoded slot-list assembled by the
// caller.
type SetEquipment struct {
	EntityID int32  `mc:"varint"`
	Data     []byte `mc:"rest"`
}

func (SetEquipment) PacketID() int32 { return 0x64 }

const (
	EquipmentSlotMainHand int8 = 0
	EquipmentSlotOffHand  int8 = 1
)

// UpdateTime synchronizes world age and time-of-day (clientbound 0x6F).
type UpdateTime struct {
	WorldAge  int64 `mc:"i64"`
	TimeOfDay int64 `mc:"i64"`
}

func (UpdateTime) PacketID() int32 { return 0x6F }

// SystemChatMessage delivers a chat-component JSON payload (clientbound
// 0x77).
type SystemChatMessage struct {
	JSONData string `mc:"string"`
	Overlay  bool   `mc:"bool"`
}

func (SystemChatMessage) PacketID() int32 { return 0x77 }

// The following packets are required by the visibility broadcast matrix;
// their ids are chosen in the gaps between the packets listed above so
// they cannot collide.

// SpawnEntity introduces a newly visible entity to the receiver
// (clientbound 0x01).
type SpawnEntity struct {
	EntityID   int32     `mc:"varint"`
	EntityUUID uuid.UUID `mc:"uuid"`
	EntityType int32     `mc:"varint"`
	X, Y, Z    float64   `mc:"f64"`
	Pitch      uint8     `mc:"u8"`
	Yaw        uint8     `mc:"u8"`
	HeadYaw    uint8     `mc:"u8"`
	Data       int32     `mc:"varint"`
}

func (SpawnEntity) PacketID() int32 { return 0x01 }

const EntityTypePlayer int32 = 128

// RemoveEntities despawns entities for the receiver (clientbound 0x42).
// Data is a count-prefixed varint entity-id array.
type RemoveEntities struct {
	Data []byte `mc:"rest"`
}

func (RemoveEntities) PacketID() int32 { return 0x42 }

// UpdateEntityPosition relays a small (≤8 block) relative move, encoded as
// fixed-point ×4096 shorts (clientbound 0x2F).
type UpdateEntityPosition struct {
	EntityID int32 `mc:"varint"`
	DX       int16 `mc:"i16"`
	DY       int16 `mc:"i16"`
	DZ       int16 `mc:"i16"`
	OnGround bool  `mc:"bool"`
}

func (UpdateEntityPosition) PacketID() int32 { return 0x2F }

// UpdateEntityPositionAndRotation is UpdateEntityPosition plus yaw/pitch in
// the same frame (clientbound 0x31).
type UpdateEntityPositionAndRotation struct {
	EntityID   int32 `mc:"varint"`
	DX         int16 `mc:"i16"`
	DY         int16 `mc:"i16"`
	DZ         int16 `mc:"i16"`
	Yaw, Pitch uint8 `mc:"u8"`
	OnGround   bool  `mc:"bool"`
}

func (UpdateEntityPositionAndRotation) PacketID() int32 { return 0x31 }

// UpdateEntityRotation relays a yaw/pitch-only change (clientbound 0x33).
type UpdateEntityRotation struct {
	EntityID   int32 `mc:"varint"`
	Yaw, Pitch uint8 `mc:"u8"`
	OnGround   bool  `mc:"bool"`
}

func (UpdateEntityRotation) PacketID() int32 { return 0x33 }

// TeleportEntity relays an absolute move (used when Δ>8 blocks), clientbound
// 0x1F.
type TeleportEntity struct {
	EntityID   int32   `mc:"varint"`
	X, Y, Z    float64 `mc:"f64"`
	Yaw, Pitch uint8   `mc:"u8"`
	OnGround   bool    `mc:"bool"`
}

func (TeleportEntity) PacketID() int32 { return 0x1F }

// SetContainerContent replaces every slot in a window, sent after a
// state-id mismatch forces a resync (clientbound 0x13).
type SetContainerContent struct {
	WindowID int8   `mc:"i8"`
	StateID  int32  `mc:"varint"`
	Data     []byte `mc:"rest"` // slot count + slot array + carried item
}

func (SetContainerContent) PacketID() int32 { return 0x13 }

// SetContainerSlot updates a single slot (or the cursor, slot=-1),
// clientbound 0x14.
type SetContainerSlot struct {
	WindowID int8   `mc:"i8"`
	StateID  int32  `mc:"varint"`
	Slot     int16  `mc:"i16"`
	Data     []byte `mc:"rest"` // encoded ItemStack
}

func (SetContainerSlot) PacketID() int32 { return 0x14 }

// LoginDisconnect, ConfigurationDisconnect, and PlayDisconnect terminate the
// connection with a chat-component reason; each protocol phase has its own
// packet id on the wire even though the payload shape is identical.
type LoginDisconnect struct {
	Reason string `mc:"string"`
}

func (LoginDisconnect) PacketID() int32 { return 0x00 }

type ConfigurationDisconnect struct {
	Reason string `mc:"string"`
}

func (ConfigurationDisconnect) PacketID() int32 { return 0x02 }

type PlayDisconnect struct {
	Reason string `mc:"string"`
}

func (PlayDisconnect) PacketID() int32 { return 0x1D }
