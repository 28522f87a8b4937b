// Package conn is the connection and state machine core: one Connection
// per accepted socket, a single-writer bounded send queue, and a (phase,
// packet id) → handler dispatch table. It is the one package that depends
// on every other protocol-core component.
package conn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blockcraft/server/internal/breaking"
	"github.com/blockcraft/server/internal/broadcast"
	"github.com/blockcraft/server/internal/config"
	"github.com/blockcraft/server/internal/inventory"
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/protoerr"
	"github.com/blockcraft/server/internal/streamer"
	"github.com/blockcraft/server/internal/visibility"
	"github.com/blockcraft/server/internal/world"
)

// Phase is one state in the connection's lifecycle.
type Phase int

const (
	PhaseHandshaking Phase = iota
	PhaseStatus
	PhaseLogin
	PhaseConfiguration
	PhasePlay
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshaking:
		return "handshaking"
	case PhaseStatus:
		return "status"
	case PhaseLogin:
		return "login"
	case PhaseConfiguration:
		return "configuration"
	case PhasePlay:
		return "play"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// sendQueueSize is the bounded outbound queue's capacity.
const sendQueueSize = 256

// sendTimeout is how long Send blocks against a full queue before the
// connection is dropped: block within the bounded queue, then give up and
// drop the connection if it stalls beyond this timeout.
const sendTimeout = 5 * time.Second

// idlePrePlayTimeout closes a connection that has sent nothing for this
// long while still outside the Play phase.
const idlePrePlayTimeout = 60 * time.Second

// Deps bundles the shared, server-wide collaborators every Connection
// needs; one Deps is constructed once at startup and handed to every
// accepted connection.
type Deps struct {
	Cfg     *config.Config
	World   *world.World
	Conns   *broadcast.Registry
	Bus     *broadcast.Bus
	Vis     *visibility.Manager
	Breaker *breaking.Scheduler
	Inv     *inventory.Engine
	Log     *slog.Logger

	entityIDs atomic.Int32
}

func NewDeps(cfg *config.Config, log *slog.Logger) *Deps {
	reg := defaultOrFixtureRegistry(cfg, log)
	w := world.NewWithRegistry(reg)
	conns := broadcast.NewRegistry()
	bus := broadcast.NewBus(conns, log)
	go w.Time.Run()
	return &Deps{
		Cfg:     cfg,
		World:   w,
		Conns:   conns,
		Bus:     bus,
		Vis:     visibility.NewManager(conns, bus),
		Breaker: breaking.NewScheduler(w.Store, w.Registry, bus),
		Inv:     inventory.New(),
		Log:     log,
	}
}

func (d *Deps) nextEntityID() int32 { return d.entityIDs.Add(1) }

// defaultOrFixtureRegistry loads cfg.RegistryFixturePath if set, falling
// back to the bundled hardcoded palette on any error (logged, not fatal —
// an operator-supplied fixture is a convenience, not a hard requirement).
func defaultOrFixtureRegistry(cfg *config.Config, log *slog.Logger) world.Registry {
	if cfg.RegistryFixturePath == "" {
		return world.NewDefaultRegistry()
	}
	data, err := os.ReadFile(cfg.RegistryFixturePath)
	if err != nil {
		log.Warn("registry fixture unreadable, using defaults", "path", cfg.RegistryFixturePath, "error", err)
		return world.NewDefaultRegistry()
	}
	reg, err := world.LoadRegistryFixture(data)
	if err != nil {
		log.Warn("registry fixture invalid, using defaults", "path", cfg.RegistryFixturePath, "error", err)
		return world.NewDefaultRegistry()
	}
	return reg
}

// Connection is one accepted socket walking the phase state machine.
type Connection struct {
	deps *Deps
	log  *slog.Logger

	netConn net.Conn
	rw      io.ReadWriter

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	phase       Phase
	closed      atomic.Bool
	lastActive  atomic.Int64 // UnixNano
	player    *player.Player
	streamer  *streamer.Streamer
	reconnect bool

	outbound chan protocol.Packet

	lastKeepAliveID   int64
	lastKeepAliveSent time.Time
	keepAliveAcked    bool
}

// NewConnection wraps an accepted socket in a fresh, pre-Handshaking
// Connection.
func NewConnection(ctx context.Context, nc net.Conn, deps *Deps) *Connection {
	ctx, cancel := context.WithCancel(ctx)
	c := &Connection{
		deps:           deps,
		log:            deps.Log.With("addr", nc.RemoteAddr().String()),
		netConn:        nc,
		rw:             nc,
		ctx:            ctx,
		cancel:         cancel,
		phase:          PhaseHandshaking,
		outbound:       make(chan protocol.Packet, sendQueueSize),
		keepAliveAcked: true,
	}
	c.lastActive.Store(time.Now().UnixNano())
	return c
}

// Handle runs the connection's full lifecycle: the writer goroutine, the
// pre-Play idle watchdog, and the blocking reader/dispatch loop. It
// returns once the socket closes or a fatal protocol error occurs.
func (c *Connection) Handle() {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writeLoop()
	}()

	go c.idleWatchdog()

	defer func() {
		c.close()
		wg.Wait()
		c.log.Info("connection closed")
	}()

	c.log.Info("connection accepted")

	for {
		if c.closed.Load() {
			return
		}
		packetID, payload, err := protocol.ReadRawPacket(c.rw)
		if err != nil {
			if c.ctx.Err() != nil || err == io.EOF {
				return
			}
			c.log.Debug("read frame", "phase", c.Phase(), "error", err)
			return
		}
		c.lastActive.Store(time.Now().UnixNano())

		if err := c.dispatch(packetID, payload); err != nil {
			c.log.Warn("dispatch", "phase", c.Phase(), "packet_id", fmt.Sprintf("0x%02X", packetID), "error", err)
			if err == protoerr.ErrUnexpectedPacket || err == protoerr.ErrMalformed {
				return
			}
		}
	}
}

func (c *Connection) writeLoop() {
	for p := range c.outbound {
		if err := protocol.WritePacket(c.rw, p); err != nil {
			c.log.Debug("write packet failed", "error", err)
			c.close()
			return
		}
	}
}

func (c *Connection) idleWatchdog() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if c.Phase() == PhasePlay {
				continue
			}
			idleSince := time.Unix(0, c.lastActive.Load())
			if time.Since(idleSince) > idlePrePlayTimeout {
				c.log.Info("idle timeout in pre-play phase")
				c.close()
				return
			}
		}
	}
}

// Send implements session.Sender: it enqueues p on the bounded outbound
// queue, blocking the caller up to sendTimeout before giving up and
// dropping the connection.
func (c *Connection) Send(p protocol.Packet) error {
	if c.closed.Load() {
		return protoerr.ErrSendFailed
	}
	select {
	case c.outbound <- p:
		return nil
	case <-time.After(sendTimeout):
		c.log.Warn("send queue stalled, dropping connection")
		c.close()
		return protoerr.ErrSendFailed
	case <-c.ctx.Done():
		return protoerr.ErrSendFailed
	}
}

// Player implements session.Sender.
func (c *Connection) Player() *player.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// Closed implements session.Sender.
func (c *Connection) Closed() bool { return c.closed.Load() }

func (c *Connection) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Connection) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

func (c *Connection) bindPlayer(p *player.Player) {
	c.mu.Lock()
	c.player = p
	c.mu.Unlock()
}

// close tears the connection down exactly once: stops the streamer,
// removes tab-list/visibility state, closes the socket, and unblocks the
// writer goroutine. A breaking session the player has in progress is not
// cancelled here.
func (c *Connection) close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.setPhase(PhaseClosed)
	c.cancel()

	p := c.Player()
	if p != nil {
		c.deps.Conns.Remove(p.UUID)
		c.mu.Lock()
		st := c.streamer
		c.mu.Unlock()
		if st != nil {
			st.Stop()
		}
		c.deps.Vis.Forget(p.UUID, p.EntityID())
		if data, err := packet.BuildPlayerInfoRemove(p.UUID); err == nil {
			c.deps.Bus.Broadcast(&packet.PlayerInfoRemove{Data: data}, broadcast.AllExcept(p.UUID))
		}
	}

	close(c.outbound)
	_ = c.netConn.Close()
}
