package conn

import (
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protoerr"
)

func (c *Connection) dispatchHandshaking(packetID int32, payload []byte) error {
	if packetID != (packet.Handshake{}).PacketID() {
		return protoerr.ErrUnexpectedPacket
	}
	var hs packet.Handshake
	if err := decode(payload, &hs); err != nil {
		return protoerr.ErrMalformed
	}

	switch hs.NextState {
	case packet.NextStateStatus:
		c.setPhase(PhaseStatus)
	case packet.NextStateLogin:
		c.setPhase(PhaseLogin)
	default:
		return protoerr.ErrMalformed
	}
	return nil
}
