package conn

import (
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protoerr"
)

func (c *Connection) dispatchConfiguration(packetID int32, payload []byte) error {
	switch packetID {
	case (packet.ClientInformation{}).PacketID():
		var info packet.ClientInformation
		if err := decode(payload, &info); err != nil {
			return protoerr.ErrMalformed
		}
		if info.ViewDistance > 0 {
			if p := c.Player(); p != nil {
				p.SetViewDistance(int(info.ViewDistance))
			}
		}
		return nil

	case (packet.ServerboundKnownPacks{}).PacketID():
		return nil

	case (packet.AcknowledgeFinishConfiguration{}).PacketID():
		c.setPhase(PhasePlay)
		return c.startPlay()

	default:
		return protoerr.ErrUnexpectedPacket
	}
}

// sendConfigurationSequence emits the registry/known-packs exchange
// required before FinishConfiguration, sourcing the registry id list from
// world.Registry rather than a hardcoded table.
func (c *Connection) sendConfigurationSequence() error {
	packsData, err := packet.BuildKnownPacksEmpty()
	if err != nil {
		return err
	}
	if err := c.Send(&packet.ClientboundKnownPacks{Data: packsData}); err != nil {
		return err
	}

	for _, id := range c.deps.World.Registry.KnownRegistries() {
		reg, err := packet.BuildRegistryData(id)
		if err != nil {
			return err
		}
		if err := c.Send(&reg); err != nil {
			return err
		}
	}

	return c.Send(&packet.FinishConfiguration{})
}
