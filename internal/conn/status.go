package conn

import (
	"encoding/json"
	"fmt"

	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protoerr"
)

// statusResponse is the JSON body of a Status Response packet.
type statusResponse struct {
	Version     statusVersion `json:"version"`
	Players     statusPlayers `json:"players"`
	Description statusDesc    `json:"description"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusDesc struct {
	Text string `json:"text"`
}

func (c *Connection) dispatchStatus(packetID int32, payload []byte) error {
	switch packetID {
	case (packet.StatusRequest{}).PacketID():
		resp := statusResponse{
			Version: statusVersion{Name: "blockcraft-1.21", Protocol: 767},
			Players: statusPlayers{Max: c.deps.Cfg.MaxPlayers, Online: c.deps.Conns.Count()},
			Description: statusDesc{Text: c.deps.Cfg.MOTD},
		}
		body, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshal status response: %w", err)
		}
		return c.Send(&packet.StatusResponse{JSON: string(body)})

	case (packet.PingRequest{}).PacketID():
		var ping packet.PingRequest
		if err := decode(payload, &ping); err != nil {
			return protoerr.ErrMalformed
		}
		return c.Send(&packet.PongResponse{Payload: ping.Payload})

	default:
		return protoerr.ErrUnexpectedPacket
	}
}
