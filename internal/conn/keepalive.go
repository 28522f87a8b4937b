package conn

import (
	"time"

	"github.com/blockcraft/server/internal/packet"
)

// keepAliveInterval/keepAliveTimeout: ping every 15s; no response within
// 30s is a fatal timeout.
const (
	keepAliveInterval = 15 * time.Second
	keepAliveTimeout  = 30 * time.Second
)

func (c *Connection) keepAliveLoop() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.keepAliveAcked {
				if time.Since(c.lastKeepAliveSent) > keepAliveTimeout {
					c.mu.Unlock()
					c.log.Info("keepalive timeout")
					c.close()
					return
				}
				// Still waiting on the previous ping: keep its send time.
				c.mu.Unlock()
				continue
			}
			c.lastKeepAliveID++
			id := c.lastKeepAliveID
			c.lastKeepAliveSent = time.Now()
			c.keepAliveAcked = false
			c.mu.Unlock()

			if err := c.Send(&packet.KeepAliveClientbound{ID: id}); err != nil {
				return
			}
		}
	}
}

func (c *Connection) handleKeepAliveServerbound(p packet.KeepAliveServerbound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.ID == c.lastKeepAliveID {
		c.keepAliveAcked = true
	} else {
		c.log.Warn("keepalive id mismatch", "got", p.ID, "want", c.lastKeepAliveID)
	}
}
