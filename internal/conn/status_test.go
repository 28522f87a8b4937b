package conn

import (
	"encoding/json"
	"testing"

	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protoerr"
)

func TestDispatchStatus_Request(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.setPhase(PhaseStatus)

	req := packet.StatusRequest{}
	if err := c.dispatchStatus(req.PacketID(), encodeFor(t, &req)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	select {
	case p := <-c.outbound:
		resp, ok := p.(*packet.StatusResponse)
		if !ok {
			t.Fatalf("got %T, want *packet.StatusResponse", p)
		}
		var parsed statusResponse
		if err := json.Unmarshal([]byte(resp.JSON), &parsed); err != nil {
			t.Fatalf("unmarshal status JSON: %v", err)
		}
		if parsed.Players.Max != c.deps.Cfg.MaxPlayers {
			t.Errorf("Players.Max = %d, want %d", parsed.Players.Max, c.deps.Cfg.MaxPlayers)
		}
		if parsed.Description.Text != c.deps.Cfg.MOTD {
			t.Errorf("Description.Text = %q, want %q", parsed.Description.Text, c.deps.Cfg.MOTD)
		}
	default:
		t.Fatal("expected a queued status response")
	}
}

func TestDispatchStatus_Ping(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.setPhase(PhaseStatus)

	ping := packet.PingRequest{Payload: 42}
	if err := c.dispatchStatus(ping.PacketID(), encodeFor(t, &ping)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	select {
	case p := <-c.outbound:
		pong, ok := p.(*packet.PongResponse)
		if !ok {
			t.Fatalf("got %T, want *packet.PongResponse", p)
		}
		if pong.Payload != 42 {
			t.Errorf("Payload = %d, want 42", pong.Payload)
		}
	default:
		t.Fatal("expected a queued pong response")
	}
}

func TestDispatchStatus_Unexpected(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.setPhase(PhaseStatus)
	if err := c.dispatchStatus(0x7F, nil); err != protoerr.ErrUnexpectedPacket {
		t.Errorf("err = %v, want ErrUnexpectedPacket", err)
	}
}
