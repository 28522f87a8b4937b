package conn

import (
	"testing"
	"time"

	"github.com/blockcraft/server/internal/packet"
)

func TestHandleKeepAliveServerbound_MatchingIDAcks(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.mu.Lock()
	c.lastKeepAliveID = 7
	c.keepAliveAcked = false
	c.mu.Unlock()

	c.handleKeepAliveServerbound(packet.KeepAliveServerbound{ID: 7})

	c.mu.Lock()
	acked := c.keepAliveAcked
	c.mu.Unlock()
	if !acked {
		t.Error("expected keepAliveAcked to be true after a matching id")
	}
}

func TestHandleKeepAliveServerbound_MismatchedIDIgnored(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	c.mu.Lock()
	c.lastKeepAliveID = 7
	c.keepAliveAcked = false
	c.mu.Unlock()

	c.handleKeepAliveServerbound(packet.KeepAliveServerbound{ID: 8})

	c.mu.Lock()
	acked := c.keepAliveAcked
	c.mu.Unlock()
	if acked {
		t.Error("expected keepAliveAcked to remain false for a mismatched id")
	}
}

func TestKeepAliveLoop_StopsOnContextCancel(t *testing.T) {
	c, _ := newTestConn(t, newTestDeps())
	done := make(chan struct{})
	go func() {
		c.keepAliveLoop()
		close(done)
	}()

	c.cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("keepAliveLoop did not exit after context cancellation")
	}
}
