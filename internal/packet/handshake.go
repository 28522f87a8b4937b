// Package packet defines every wire packet struct the core sends or
// receives, grouped by protocol phase: Handshaking, Status, Login,
// Configuration, Play.
package packet

// NextState values carried by the Handshake packet.
const (
	NextStateStatus = 1
	NextStateLogin  = 2
)

// Handshake is the single Handshaking-phase packet (serverbound 0x00).
type Handshake struct {
	ProtocolVersion int32  `mc:"varint"`
	ServerAddress   string `mc:"string"`
	ServerPort      uint16 `mc:"u16"`
	NextState       int32  `mc:"varint"`
}

func (Handshake) PacketID() int32 { return 0x00 }
