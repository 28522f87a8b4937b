// Package session defines the narrow interface the protocol-core
// components (streamer, visibility, inventory, breaking, broadcast) use to
// address a connected client, without importing the conn package itself —
// conn is the one component that depends on all of these, so the
// dependency has to point inward.
package session

import (
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
)

// Sender is implemented by *conn.Connection. Send must be safe for
// concurrent use: the implementation serializes writes on a single-writer
// task so concurrent callers never interleave frames.
type Sender interface {
	Send(p protocol.Packet) error
	Player() *player.Player
	Closed() bool
}
