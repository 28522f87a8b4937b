package conn

import (
	"testing"

	"github.com/blockcraft/server/internal/packet"
)

func TestDispatchConfiguration_ClientInformationSetsViewDistance(t *testing.T) {
	c, _ := newJoinedPlayer(t, newTestDeps(), "Steve")
	c.setPhase(PhaseConfiguration)

	info := packet.ClientInformation{ViewDistance: 6}
	if err := c.dispatchConfiguration(info.PacketID(), encodeFor(t, &info)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := c.Player().ViewDistance(); got != 6 {
		t.Errorf("ViewDistance() = %d, want 6", got)
	}
}

func TestDispatchConfiguration_IgnoresNonPositiveViewDistance(t *testing.T) {
	deps := newTestDeps()
	c, _ := newJoinedPlayer(t, deps, "Steve")
	c.setPhase(PhaseConfiguration)
	want := c.Player().ViewDistance()

	info := packet.ClientInformation{ViewDistance: 0}
	if err := c.dispatchConfiguration(info.PacketID(), encodeFor(t, &info)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := c.Player().ViewDistance(); got != want {
		t.Errorf("ViewDistance() = %d, want unchanged %d", got, want)
	}
}

func TestSendConfigurationSequence_EndsWithFinishConfiguration(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())

	if err := c.sendConfigurationSequence(); err != nil {
		t.Fatalf("sendConfigurationSequence: %v", err)
	}

	var last any
	drained := 0
	for {
		select {
		case p := <-c.outbound:
			last = p
			drained++
			continue
		default:
		}
		break
	}
	if drained == 0 {
		t.Fatal("expected at least one queued packet")
	}
	if _, ok := last.(*packet.FinishConfiguration); !ok {
		t.Errorf("last queued packet = %T, want *packet.FinishConfiguration", last)
	}
}

func TestDispatchConfiguration_AcknowledgeWithoutPlayerErrors(t *testing.T) {
	// Guards against regressing startPlay's nil-player early return: the
	// Configuration->Play transition must not panic when somehow reached
	// without a login first.
	c, _ := newTestConn(t, newTestDeps())
	c.setPhase(PhaseConfiguration)

	ack := packet.AcknowledgeFinishConfiguration{}
	err := c.dispatchConfiguration(ack.PacketID(), encodeFor(t, &ack))
	if err == nil {
		t.Fatal("expected an error when Play starts without a bound player")
	}
}

func TestDispatchConfiguration_Unexpected(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.setPhase(PhaseConfiguration)
	if err := c.dispatchConfiguration(0x7F, nil); err == nil {
		t.Error("expected an error for an unrouted configuration packet id")
	}
}
