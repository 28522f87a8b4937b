package conn

import (
	"context"
	"log/slog"
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/breaking"
	"github.com/blockcraft/server/internal/broadcast"
	"github.com/blockcraft/server/internal/config"
	"github.com/blockcraft/server/internal/inventory"
	"github.com/blockcraft/server/internal/visibility"
	"github.com/blockcraft/server/internal/world"
)

// newTestDeps builds a Deps bundle wired the same way NewDeps does, minus
// the background TimeManager goroutine, so tests stay deterministic.
func newTestDeps() *Deps {
	cfg := config.DefaultConfig()
	w := world.New()
	conns := broadcast.NewRegistry()
	bus := broadcast.NewBus(conns, discardLogger())
	return &Deps{
		Cfg:     cfg,
		World:   w,
		Conns:   conns,
		Bus:     bus,
		Vis:     visibility.NewManager(conns, bus),
		Breaker: breaking.NewScheduler(w.Store, w.Registry, bus),
		Inv:     inventory.New(),
		Log:     discardLogger(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// newTestConn wires a Connection over an in-memory net.Pipe, going through
// NewConnection/Deps rather than constructing the player/world bundle
// field by field.
func newTestConn(t *testing.T, deps *Deps) (*Connection, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })

	c := NewConnection(context.Background(), server, deps)
	return c, client
}

func newJoinedPlayer(t *testing.T, deps *Deps, username string) (*Connection, net.Conn) {
	t.Helper()
	c, client := newTestConn(t, deps)
	id := uuid.New()
	p := deps.World.Players.Resolve(id, username, deps.Cfg.ViewDistance)
	c.bindPlayer(p)
	return c, client
}
