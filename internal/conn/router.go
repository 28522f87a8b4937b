package conn

import (
	"fmt"

	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/protoerr"
)

// dispatch decodes payload against the packet type legal for (phase,
// packetID) and calls its handler.
func (c *Connection) dispatch(packetID int32, payload []byte) error {
	switch c.Phase() {
	case PhaseHandshaking:
		return c.dispatchHandshaking(packetID, payload)
	case PhaseStatus:
		return c.dispatchStatus(packetID, payload)
	case PhaseLogin:
		return c.dispatchLogin(packetID, payload)
	case PhaseConfiguration:
		return c.dispatchConfiguration(packetID, payload)
	case PhasePlay:
		return c.dispatchPlay(packetID, payload)
	default:
		return protoerr.ErrUnexpectedPacket
	}
}

// decode unmarshals payload into p or returns ErrMalformed, wrapping the
// codec error so every handler reports failures uniformly.
func decode(payload []byte, p protocol.Packet) error {
	if err := protocol.DecodeInto(payload, p); err != nil {
		return fmt.Errorf("%w: %w", protoerr.ErrMalformed, err)
	}
	return nil
}
