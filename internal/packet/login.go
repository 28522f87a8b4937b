package packet

import "github.com/google/uuid"

// LoginStart begins authentication (serverbound 0x00). Offline mode: the
// client-supplied UUID is trusted verbatim.
type LoginStart struct {
	Name string    `mc:"string"`
	UUID uuid.UUID `mc:"uuid"`
}

func (LoginStart) PacketID() int32 { return 0x00 }

// LoginSuccess confirms the session with the (offline-mode) identity the
// server will use for the rest of the connection (clientbound 0x02).
type LoginSuccess struct {
	UUID       uuid.UUID `mc:"uuid"`
	Username   string    `mc:"string"`
	NumProps   int32     `mc:"varint"` // always 0: property entries are out of scope
}

func (LoginSuccess) PacketID() int32 { return 0x02 }

// LoginAcknowledged has no body; receiving it transitions Login→
// Configuration (serverbound 0x03).
type LoginAcknowledged struct{}

func (LoginAcknowledged) PacketID() int32 { return 0x03 }
