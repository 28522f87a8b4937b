package breaking

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/broadcast"
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/world"
)

type fakeSender struct {
	p *player.Player

	mu   sync.Mutex
	sent []protocol.Packet
}

func (f *fakeSender) Send(p protocol.Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	return nil
}
func (f *fakeSender) Player() *player.Player { return f.p }
func (f *fakeSender) Closed() bool           { return false }

func (f *fakeSender) stagesReceived() []int8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stages []int8
	for _, pkt := range f.sent {
		if s, ok := pkt.(*packet.SetBlockDestroyStage); ok {
			stages = append(stages, s.Stage)
		}
	}
	return stages
}

func newTestScheduler() (*Scheduler, *broadcast.Registry) {
	reg := world.NewDefaultRegistry()
	store := world.NewWorldStore(reg)
	breg := broadcast.NewRegistry()
	bus := broadcast.NewBus(breg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewScheduler(store, reg, bus), breg
}

func TestStartSessionCreativeBreaksImmediately(t *testing.T) {
	sch, breg := newTestScheduler()
	digger := player.New(uuid.New(), "Digger", 10)
	digger.SetGameMode(player.GameModeCreative)
	digger.BindEntityID(1)
	breg.Add(&fakeSender{p: digger})

	pos := world.BlockPos{X: 0, Y: 0, Z: 0}
	if err := sch.StartSession(digger, pos); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if got := sch.store.BlockAt(pos); got != world.BlockStateAir {
		t.Errorf("block = %d, want air after creative break", got)
	}
}

func TestStartSessionUnbreakableBlockReturnsError(t *testing.T) {
	sch, breg := newTestScheduler()
	digger := player.New(uuid.New(), "Digger", 10)
	digger.BindEntityID(1)
	breg.Add(&fakeSender{p: digger})

	// y=1 is above the flat-world's stone layer (y=0), so the reference
	// generator reports air there, which the registry marks non-diggable.
	pos := world.BlockPos{X: 0, Y: 1, Z: 0}
	err := sch.StartSession(digger, pos)
	if err == nil {
		t.Fatalf("expected an error for a non-diggable block")
	}
}

func TestStartSessionSurvivalSchedulesStagesAndBreaks(t *testing.T) {
	sch, breg := newTestScheduler()
	digger := player.New(uuid.New(), "Digger", 10)
	digger.BindEntityID(1)
	digger.Inventory.SetSlot(player.SlotHotbarStart, player.ItemStack{ItemID: player.ItemDiamondPickaxe, Count: 1})
	breg.Add(&fakeSender{p: digger})

	observer := player.New(uuid.New(), "Observer", 10)
	observer.BindEntityID(2)
	observerSender := &fakeSender{p: observer}
	breg.Add(observerSender)
	observer.MarkLoaded(player.ChunkPos{X: 0, Z: 0})

	pos := world.BlockPos{X: 0, Y: 0, Z: 0}
	if err := sch.StartSession(digger, pos); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	sch.mu.Lock()
	s := sch.sessions[digger.UUID]
	sch.mu.Unlock()
	if s == nil {
		t.Fatalf("expected a session to be tracked")
	}
	total := s.TotalTicks
	if total <= 0 {
		t.Fatalf("expected a positive total_ticks for a diamond pickaxe on stone, got %d", total)
	}

	deadline := time.Now().Add(time.Duration(total+5) * tick)
	for time.Now().Before(deadline) {
		stages := observerSender.stagesReceived()
		if len(stages) > 0 && stages[0] == 0 {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	if stages := observerSender.stagesReceived(); len(stages) == 0 {
		t.Fatalf("observer never received a destroy-stage broadcast")
	}

	time.Sleep(time.Duration(total+3) * tick)
	sch.FinishedDigging(digger, pos)

	if got := sch.store.BlockAt(pos); got != world.BlockStateAir {
		t.Errorf("block = %d, want air after finished digging", got)
	}
}

func TestStartSessionUniquenessReplacesPreviousSession(t *testing.T) {
	sch, breg := newTestScheduler()
	digger := player.New(uuid.New(), "Digger", 10)
	digger.BindEntityID(1)
	breg.Add(&fakeSender{p: digger})

	a := world.BlockPos{X: 0, Y: 0, Z: 0}
	b := world.BlockPos{X: 1, Y: 0, Z: 0}

	if err := sch.StartSession(digger, a); err != nil {
		t.Fatalf("StartSession(a): %v", err)
	}
	sch.mu.Lock()
	sessionA := sch.sessions[digger.UUID]
	sch.mu.Unlock()

	if err := sch.StartSession(digger, b); err != nil {
		t.Fatalf("StartSession(b): %v", err)
	}

	sch.mu.Lock()
	sessionB, ok := sch.sessions[digger.UUID]
	sch.mu.Unlock()
	if !ok || sessionB.Pos != b {
		t.Fatalf("expected exactly one session, on b")
	}
	if !sessionA.isCancelled() {
		t.Errorf("expected session a to be cancelled once replaced")
	}
}

func TestCancelSessionBroadcastsStageClear(t *testing.T) {
	sch, breg := newTestScheduler()
	digger := player.New(uuid.New(), "Digger", 10)
	digger.BindEntityID(1)
	breg.Add(&fakeSender{p: digger})

	observer := player.New(uuid.New(), "Observer", 10)
	observer.BindEntityID(2)
	observerSender := &fakeSender{p: observer}
	breg.Add(observerSender)
	observer.MarkLoaded(player.ChunkPos{X: 0, Z: 0})

	pos := world.BlockPos{X: 0, Y: 0, Z: 0}
	if err := sch.StartSession(digger, pos); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	sch.CancelSession(digger, pos)

	deadline := time.Now().Add(200 * time.Millisecond)
	found := false
	for time.Now().Before(deadline) {
		for _, s := range observerSender.stagesReceived() {
			if s == packet.StageClear {
				found = true
			}
		}
		if found {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !found {
		t.Errorf("expected a stage-clear broadcast after cancellation")
	}

	sch.mu.Lock()
	_, stillTracked := sch.sessions[digger.UUID]
	sch.mu.Unlock()
	if stillTracked {
		t.Errorf("expected session to be removed after cancellation")
	}
}
