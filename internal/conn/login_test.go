package conn

import (
	"testing"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/packet"
)

func TestHandleLoginStart_FirstJoinIsNotReconnect(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	id := uuid.New()

	if err := c.handleLoginStart(packet.LoginStart{Name: "Steve", UUID: id}); err != nil {
		t.Fatalf("handleLoginStart: %v", err)
	}

	p := c.Player()
	if p == nil {
		t.Fatal("expected a bound player")
	}
	if p.UUID != id || p.Username != "Steve" {
		t.Errorf("player = %+v, want UUID=%v Username=Steve", p, id)
	}
	c.mu.Lock()
	reconnect := c.reconnect
	c.mu.Unlock()
	if reconnect {
		t.Error("first join should not be a reconnect")
	}

	select {
	case sent := <-c.outbound:
		success, ok := sent.(*packet.LoginSuccess)
		if !ok {
			t.Fatalf("got %T, want *packet.LoginSuccess", sent)
		}
		if success.UUID != id {
			t.Errorf("LoginSuccess.UUID = %v, want %v", success.UUID, id)
		}
	default:
		t.Fatal("expected a queued LoginSuccess")
	}
}

func TestHandleLoginStart_SecondJoinIsReconnect(t *testing.T) {
	deps := newTestDeps()
	id := uuid.New()

	first, _ := newTestConn(t, deps)
	if err := first.handleLoginStart(packet.LoginStart{Name: "Steve", UUID: id}); err != nil {
		t.Fatalf("first handleLoginStart: %v", err)
	}

	second, _ := newTestConn(t, deps)
	if err := second.handleLoginStart(packet.LoginStart{Name: "Steve", UUID: id}); err != nil {
		t.Fatalf("second handleLoginStart: %v", err)
	}

	second.mu.Lock()
	reconnect := second.reconnect
	second.mu.Unlock()
	if !reconnect {
		t.Error("second join for the same uuid should be a reconnect")
	}
	if second.Player() != first.Player() {
		t.Error("reconnect should resolve the same durable Player record")
	}
}

func TestDispatchLogin_AcknowledgedAdvancesToConfiguration(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.setPhase(PhaseLogin)
	id := uuid.New()
	if err := c.handleLoginStart(packet.LoginStart{Name: "Alex", UUID: id}); err != nil {
		t.Fatalf("handleLoginStart: %v", err)
	}
	// Drain the LoginSuccess queued above so the configuration sequence's
	// own sends aren't mistaken for it.
	<-c.outbound

	ack := packet.LoginAcknowledged{}
	if err := c.dispatchLogin(ack.PacketID(), encodeFor(t, &ack)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if c.Phase() != PhaseConfiguration {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseConfiguration)
	}
}
