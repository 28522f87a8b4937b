package conn

import (
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protoerr"
)

func (c *Connection) dispatchLogin(packetID int32, payload []byte) error {
	switch packetID {
	case (packet.LoginStart{}).PacketID():
		var login packet.LoginStart
		if err := decode(payload, &login); err != nil {
			return protoerr.ErrMalformed
		}
		return c.handleLoginStart(login)

	case (packet.LoginAcknowledged{}).PacketID():
		c.setPhase(PhaseConfiguration)
		return c.sendConfigurationSequence()

	default:
		return protoerr.ErrUnexpectedPacket
	}
}

// handleLoginStart trusts the client-supplied UUID verbatim (offline mode)
// and resolves or creates the durable Player record for it.
func (c *Connection) handleLoginStart(login packet.LoginStart) error {
	c.log.Info("login start", "username", login.Name, "uuid", login.UUID)

	reconnect := c.deps.World.Players.Exists(login.UUID)
	p := c.deps.World.Players.Resolve(login.UUID, login.Name, c.deps.Cfg.ViewDistance)
	c.bindPlayer(p)
	c.mu.Lock()
	c.reconnect = reconnect
	c.mu.Unlock()

	return c.Send(&packet.LoginSuccess{UUID: login.UUID, Username: login.Name})
}
