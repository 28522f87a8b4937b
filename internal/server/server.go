// Package server owns the TCP accept loop and the process-lifetime Deps
// bundle on top of internal/conn's connection/session core.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/blockcraft/server/internal/config"
	"github.com/blockcraft/server/internal/conn"
)

// Server accepts TCP connections and hands each to a fresh conn.Connection.
type Server struct {
	cfg  *config.Config
	log  *slog.Logger
	deps *conn.Deps
}

// New builds a Server and its shared Deps bundle: one World, broadcast
// Registry/Bus, VisibilityManager, breaking Scheduler, and inventory Engine
// for the whole process lifetime.
func New(cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		cfg:  cfg,
		log:  log,
		deps: conn.NewDeps(cfg, log),
	}
}

// Start listens on cfg.Port and blocks, spawning one goroutine per accepted
// connection, until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.log.Info("server started", "port", s.cfg.Port, "motd", s.cfg.MOTD, "view_distance", s.cfg.ViewDistance)

	for {
		nc, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server shutting down")
				return nil
			}
			s.log.Error("accept connection", "error", err)
			continue
		}

		c := conn.NewConnection(ctx, nc, s.deps)
		go c.Handle()
	}
}
