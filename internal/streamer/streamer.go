// Package streamer is the ChunkStreamer: per-connection desired/loaded/
// loading chunk-set bookkeeping with debounced, ordered, cancellation-safe
// loading.
package streamer

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/session"
	"github.com/blockcraft/server/internal/world"
)

// debounce coalesces rapid movement updates into one processing pass.
const debounce = 50 * time.Millisecond

// Streamer owns one connection's chunk-loading state machine.
type Streamer struct {
	conn  session.Sender
	store *world.WorldStore
	index *world.ChunkIndex

	mu       sync.Mutex
	desired  map[player.ChunkPos]struct{}
	loading  map[player.ChunkPos]struct{}
	center   player.ChunkPos
	pending  bool
	lastRun  time.Time

	tick   chan struct{}
	stopC  chan struct{}
	wg     sync.WaitGroup
}

func New(conn session.Sender, store *world.WorldStore, index *world.ChunkIndex) *Streamer {
	s := &Streamer{
		conn:    conn,
		store:   store,
		index:   index,
		desired: make(map[player.ChunkPos]struct{}),
		loading: make(map[player.ChunkPos]struct{}),
		tick:    make(chan struct{}, 1),
		stopC:   make(chan struct{}),
	}
	return s
}

// Start launches the streamer's dedicated processing task.
func (s *Streamer) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop cancels the processing task; pending sends are abandoned and every
// currently-loaded chunk is dropped from the index.
func (s *Streamer) Stop() {
	close(s.stopC)
	s.wg.Wait()

	p := s.conn.Player()
	for c := range p.LoadedChunks() {
		s.index.MarkUnobserving(c, p.UUID)
		p.MarkUnloaded(c)
	}
}

func (s *Streamer) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopC:
			return
		case <-s.tick:
			s.process()
		}
	}
}

// UpdateDesiredChunks atomically replaces desired and schedules a debounced
// processing pass.
func (s *Streamer) UpdateDesiredChunks(newSet map[player.ChunkPos]struct{}) {
	s.mu.Lock()
	s.desired = newSet
	needsSchedule := !s.pending
	s.pending = true
	since := time.Since(s.lastRun)
	s.mu.Unlock()

	if !needsSchedule {
		return
	}
	if since >= debounce {
		s.signal()
		return
	}
	time.AfterFunc(debounce-since, s.signal)
}

// ProcessUpdatesImmediately bypasses the debounce window.
func (s *Streamer) ProcessUpdatesImmediately() {
	s.signal()
}

// ForceLoad generates and sends the given chunks concurrently, bounded by
// ctx, and marks them loaded on success. Used for the spawn force-load at
// join time, which can't wait for the regular debounced pipeline since
// SynchronizePlayerPosition must follow it. Generation fan-out uses
// errgroup so one slow/failed chunk doesn't serialize the rest.
func (s *Streamer) ForceLoad(ctx context.Context, chunks []player.ChunkPos) error {
	p := s.conn.Player()

	s.mu.Lock()
	if s.desired == nil {
		s.desired = make(map[player.ChunkPos]struct{})
	}
	for _, c := range chunks {
		s.desired[c] = struct{}{}
		s.loading[c] = struct{}{}
	}
	s.mu.Unlock()
	for _, c := range chunks {
		p.MarkLoading(c)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			payload, err := s.store.Chunk(gctx, world.ChunkPos{X: c.X, Z: c.Z})

			s.mu.Lock()
			delete(s.loading, c)
			s.mu.Unlock()
			p.ClearLoading(c)

			if err != nil {
				return err
			}
			if err := s.conn.Send(buildChunkPacket(payload)); err != nil {
				return err
			}
			p.MarkLoaded(c)
			s.index.MarkObserving(c, p.UUID)
			return nil
		})
	}
	return g.Wait()
}

func (s *Streamer) signal() {
	select {
	case s.tick <- struct{}{}:
	default:
	}
}

// process reconciles desired vs. loaded chunks: unloads what fell out of
// range, queues what's missing in distance order, and recenters the client
// if it crossed into a new chunk.
func (s *Streamer) process() {
	s.mu.Lock()
	s.pending = false
	s.lastRun = time.Now()
	desired := make(map[player.ChunkPos]struct{}, len(s.desired))
	for c := range s.desired {
		desired[c] = struct{}{}
	}
	s.mu.Unlock()

	p := s.conn.Player()
	center := p.ChunkPos()

	loaded := p.LoadedChunks()

	var toUnload []player.ChunkPos
	for c := range loaded {
		if _, want := desired[c]; !want {
			toUnload = append(toUnload, c)
		}
	}
	for _, c := range toUnload {
		p.MarkUnloaded(c)
		s.index.MarkUnobserving(c, p.UUID)
	}

	var toLoad []player.ChunkPos
	s.mu.Lock()
	for c := range desired {
		if _, isLoaded := loaded[c]; isLoaded {
			continue
		}
		if _, isLoading := s.loading[c]; isLoading {
			continue
		}
		if p.IsLoadingOrLoaded(c) {
			continue
		}
		s.loading[c] = struct{}{}
		p.MarkLoading(c)
		toLoad = append(toLoad, c)
	}
	s.mu.Unlock()

	sort.Slice(toLoad, func(i, j int) bool {
		return toLoad[i].ManhattanDistance(center) < toLoad[j].ManhattanDistance(center)
	})

	ctx := context.Background()
	for _, c := range toLoad {
		s.loadOne(ctx, c, center)
	}

	if center != s.currentCenter() {
		s.setCenter(center)
		_ = s.conn.Send(&packet.SetCenterChunk{ChunkX: center.X, ChunkZ: center.Z})
	}
}

func (s *Streamer) loadOne(ctx context.Context, c player.ChunkPos, centerAtDispatch player.ChunkPos) {
	p := s.conn.Player()
	payload, err := s.store.Chunk(ctx, world.ChunkPos{X: c.X, Z: c.Z})

	s.mu.Lock()
	delete(s.loading, c)
	s.mu.Unlock()
	p.ClearLoading(c)

	if err != nil {
		return
	}

	if err := s.conn.Send(buildChunkPacket(payload)); err != nil {
		return
	}

	// Re-check view membership after the (possibly slow) send: if the
	// player moved and this chunk fell outside the new desired set, drop
	// it instead of marking loaded, so it is re-attempted from the new
	// position.
	s.mu.Lock()
	_, stillDesired := s.desired[c]
	s.mu.Unlock()
	if !stillDesired {
		return
	}

	p.MarkLoaded(c)
	s.index.MarkObserving(c, p.UUID)
}

func (s *Streamer) currentCenter() player.ChunkPos {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.center
}

func (s *Streamer) setCenter(c player.ChunkPos) {
	s.mu.Lock()
	s.center = c
	s.mu.Unlock()
}

func buildChunkPacket(payload world.ChunkPayload) *packet.ChunkDataAndUpdateLight {
	return &packet.ChunkDataAndUpdateLight{
		ChunkX: payload.ChunkX,
		ChunkZ: payload.ChunkZ,
		Data:   encodeChunkPayload(payload),
	}
}
