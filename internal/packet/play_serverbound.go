package packet

// ChatMessageServerbound is a chat send request (serverbound 0x08). Salt/
// Timestamp/Signature fields the real protocol carries for message signing
// are out of scope and simply discarded via the Rest tail.
type ChatMessageServerbound struct {
	Message string `mc:"string"`
	Rest    []byte `mc:"rest"`
}

func (ChatMessageServerbound) PacketID() int32 { return 0x08 }

// ClickContainerButton handles button-only containers (e.g. enchanting);
// out of this spec's scope beyond being decodable (serverbound 0x10).
type ClickContainerButton struct {
	WindowID int8 `mc:"i8"`
	ButtonID int8 `mc:"i8"`
}

func (ClickContainerButton) PacketID() int32 { return 0x10 }

// ClickContainer is the general inventory click packet (serverbound 0x11).
// Tail carries the changed-slots array and carried item; ParseClickTail
// decodes it, and the click handler does not read it.
type ClickContainer struct {
	WindowID int8   `mc:"i8"`
	StateID  int32  `mc:"varint"`
	Slot     int16  `mc:"i16"`
	Button   int8   `mc:"i8"`
	Mode     int32  `mc:"varint"`
	Tail     []byte `mc:"rest"`
}

func (ClickContainer) PacketID() int32 { return 0x11 }

// Click modes.
const (
	ClickModePickup     int32 = 0
	ClickModeShift      int32 = 1
	ClickModeNumberKey  int32 = 2
	ClickModeMiddle     int32 = 3
	ClickModeDrop       int32 = 4
	ClickModeDrag       int32 = 5
	ClickModeDoubleClick int32 = 6
)

// CloseContainer tells the server the client closed a window (serverbound
// 0x12).
type CloseContainer struct {
	WindowID uint8 `mc:"u8"`
}

func (CloseContainer) PacketID() int32 { return 0x12 }

// SetPlayerPosition is a movement-only update (serverbound 0x1D).
type SetPlayerPosition struct {
	X, Y, Z  float64 `mc:"f64"`
	OnGround bool    `mc:"bool"`
}

func (SetPlayerPosition) PacketID() int32 { return 0x1D }

// SetPlayerPositionAndRotation moves and rotates in one frame (serverbound
// 0x1E).
type SetPlayerPositionAndRotation struct {
	X, Y, Z    float64 `mc:"f64"`
	Yaw, Pitch float32 `mc:"f32"`
	OnGround   bool    `mc:"bool"`
}

func (SetPlayerPositionAndRotation) PacketID() int32 { return 0x1E }

// SetPlayerRotation is a rotation-only update (serverbound 0x1F).
type SetPlayerRotation struct {
	Yaw, Pitch float32 `mc:"f32"`
	OnGround   bool    `mc:"bool"`
}

func (SetPlayerRotation) PacketID() int32 { return 0x1F }

// PlayerAction reports a dig-related intent: start/cancel/finish digging,
// drop item, etc. (serverbound 0x28).
type PlayerAction struct {
	Status   int32 `mc:"varint"`
	Location int64 `mc:"position"`
	Face     int8  `mc:"i8"`
	Sequence int32 `mc:"varint"`
}

func (PlayerAction) PacketID() int32 { return 0x28 }

// PlayerAction.Status values.
const (
	PlayerActionStartDigging    int32 = 0
	PlayerActionCancelDigging   int32 = 1
	PlayerActionFinishDigging   int32 = 2
	PlayerActionDropItemStack   int32 = 3
	PlayerActionDropItem        int32 = 4
	PlayerActionSwapItemInHand  int32 = 6
)

// PlayerInput carries the current movement/sneak input bitset (serverbound
// 0x2A).
type PlayerInput struct {
	Flags uint8 `mc:"u8"`
}

func (PlayerInput) PacketID() int32 { return 0x2A }

const PlayerInputSneakingBit uint8 = 0x02

// SetHeldItem selects the active hotbar slot (serverbound 0x34).
type SetHeldItem struct {
	Slot int16 `mc:"i16"`
}

func (SetHeldItem) PacketID() int32 { return 0x34 }

// SetCreativeModeSlot writes a slot directly; only valid in Creative mode
// (serverbound 0x37).
type SetCreativeModeSlot struct {
	Slot int16  `mc:"i16"`
	Tail []byte `mc:"rest"` // encoded ItemStack via packet.ReadItemStack
}

func (SetCreativeModeSlot) PacketID() int32 { return 0x37 }

// SwingArm reports a hand swing, relayed to observers as EntityAnimation
// (serverbound 0x3C).
type SwingArm struct {
	Hand int32 `mc:"varint"`
}

func (SwingArm) PacketID() int32 { return 0x3C }

const (
	HandMain int32 = 0
	HandOff  int32 = 1
)

// UseItemOn is a right-click-on-block placement attempt (serverbound
// 0x3F).
type UseItemOn struct {
	Hand                         int32   `mc:"varint"`
	Location                     int64   `mc:"position"`
	Face                         int32   `mc:"varint"`
	CursorX, CursorY, CursorZ    float32 `mc:"f32"`
	InsideBlock                  bool    `mc:"bool"`
	Sequence                     int32   `mc:"varint"`
}

func (UseItemOn) PacketID() int32 { return 0x3F }

// Block faces, matching the six cardinal directions a placement or dig can
// target.
const (
	FaceBottom int32 = 0
	FaceTop    int32 = 1
	FaceNorth  int32 = 2
	FaceSouth  int32 = 3
	FaceWest   int32 = 4
	FaceEast   int32 = 5
)

// KeepAliveServerbound echoes the id from KeepAliveClientbound (serverbound
// 0x1A), closing the keepalive round trip.
type KeepAliveServerbound struct {
	ID int64 `mc:"i64"`
}

func (KeepAliveServerbound) PacketID() int32 { return 0x1A }
