package conn

import (
	"testing"

	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/protoerr"
)

func encodeFor(t *testing.T, p protocol.Packet) []byte {
	t.Helper()
	data, err := protocol.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestDispatchHandshaking_Status(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	hs := packet.Handshake{ProtocolVersion: 767, ServerAddress: "localhost", ServerPort: 25565, NextState: packet.NextStateStatus}
	if err := c.dispatchHandshaking(hs.PacketID(), encodeFor(t, &hs)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if c.Phase() != PhaseStatus {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseStatus)
	}
}

func TestDispatchHandshaking_Login(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	hs := packet.Handshake{NextState: packet.NextStateLogin}
	if err := c.dispatchHandshaking(hs.PacketID(), encodeFor(t, &hs)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if c.Phase() != PhaseLogin {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseLogin)
	}
}

func TestDispatchHandshaking_UnknownNextState(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	hs := packet.Handshake{NextState: 99}
	err := c.dispatchHandshaking(hs.PacketID(), encodeFor(t, &hs))
	if err != protoerr.ErrMalformed {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestDispatchHandshaking_WrongPacketID(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	if err := c.dispatchHandshaking(0x99, nil); err != protoerr.ErrUnexpectedPacket {
		t.Errorf("err = %v, want ErrUnexpectedPacket", err)
	}
}
