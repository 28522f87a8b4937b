package streamer

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/world"
)

type fakeSender struct {
	p *player.Player

	mu    sync.Mutex
	sent  []protocol.Packet
	closed bool
}

func (f *fakeSender) Send(p protocol.Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeSender) Player() *player.Player { return f.p }
func (f *fakeSender) Closed() bool           { return f.closed }

func (f *fakeSender) chunkSendCount() map[player.ChunkPos]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[player.ChunkPos]int)
	for _, p := range f.sent {
		if cd, ok := p.(*packet.ChunkDataAndUpdateLight); ok {
			counts[player.ChunkPos{X: cd.ChunkX, Z: cd.ChunkZ}]++
		}
	}
	return counts
}

func newTestStreamer() (*Streamer, *fakeSender) {
	p := player.New(uuid.New(), "Steve", 10)
	sender := &fakeSender{p: p}
	ws := world.NewWorldStore(world.NewDefaultRegistry())
	s := New(sender, ws, world.NewChunkIndex())
	return s, sender
}

func TestStreamerConvergesToDesiredSet(t *testing.T) {
	s, sender := newTestStreamer()
	s.Start()
	defer s.Stop()

	desired := map[player.ChunkPos]struct{}{
		{X: 0, Z: 0}: {}, {X: 1, Z: 0}: {}, {X: 0, Z: 1}: {}, {X: -1, Z: 0}: {},
	}
	s.UpdateDesiredChunks(desired)
	s.ProcessUpdatesImmediately()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		loaded := sender.Player().LoadedChunks()
		if len(loaded) == len(desired) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	loaded := sender.Player().LoadedChunks()
	if len(loaded) != len(desired) {
		t.Fatalf("loaded = %v, want all of %v", loaded, desired)
	}
	for c := range desired {
		if _, ok := loaded[c]; !ok {
			t.Errorf("chunk %v desired but not loaded", c)
		}
	}

	counts := sender.chunkSendCount()
	for c, n := range counts {
		if n != 1 {
			t.Errorf("chunk %v sent %d times, want exactly 1", c, n)
		}
	}
}

func TestStreamerUnloadsChunksNoLongerDesired(t *testing.T) {
	s, sender := newTestStreamer()
	s.Start()
	defer s.Stop()

	first := map[player.ChunkPos]struct{}{{X: 0, Z: 0}: {}}
	s.UpdateDesiredChunks(first)
	s.ProcessUpdatesImmediately()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && len(sender.Player().LoadedChunks()) == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	second := map[player.ChunkPos]struct{}{{X: 5, Z: 5}: {}}
	s.UpdateDesiredChunks(second)
	s.ProcessUpdatesImmediately()

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		loaded := sender.Player().LoadedChunks()
		if _, stillThere := loaded[player.ChunkPos{X: 0, Z: 0}]; !stillThere {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	loaded := sender.Player().LoadedChunks()
	if _, ok := loaded[player.ChunkPos{X: 0, Z: 0}]; ok {
		t.Errorf("chunk (0,0) still loaded after it left the desired set")
	}
}
