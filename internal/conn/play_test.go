package conn

import (
	"testing"

	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/world"
)

func TestSpawnSquare_Is3x3AroundCenter(t *testing.T) {
	center := player.ChunkPos{X: 5, Z: -2}
	got := spawnSquare(center)
	if len(got) != 9 {
		t.Fatalf("len = %d, want 9", len(got))
	}
	seen := make(map[player.ChunkPos]bool, len(got))
	for _, c := range got {
		seen[c] = true
	}
	if !seen[center] {
		t.Error("spawnSquare must include the center chunk")
	}
	if !seen[(player.ChunkPos{X: 4, Z: -3})] || !seen[(player.ChunkPos{X: 6, Z: -1})] {
		t.Error("spawnSquare must cover every corner of the 3x3 grid")
	}
}

func TestDesiredSquare_CoversFullViewDistance(t *testing.T) {
	center := player.ChunkPos{X: 0, Z: 0}
	got := desiredSquare(center, 2)
	if len(got) != 25 {
		t.Fatalf("len = %d, want 25 (5x5 for view distance 2)", len(got))
	}
	if _, ok := got[player.ChunkPos{X: 2, Z: 2}]; !ok {
		t.Error("expected the farthest corner chunk to be included")
	}
	if _, ok := got[player.ChunkPos{X: 3, Z: 0}]; ok {
		t.Error("chunk beyond view distance should not be included")
	}
}

func TestJSONEscapeText_EscapesQuotesAndBackslashes(t *testing.T) {
	got := jsonEscapeText(`say "hi" \ bye`)
	want := `say \"hi\" \\ bye`
	if got != want {
		t.Errorf("jsonEscapeText = %q, want %q", got, want)
	}
}

func TestHandleUseItemOn_PlacesBlockFromHeldItem(t *testing.T) {
	deps := newTestDeps()
	c, _ := newJoinedPlayer(t, deps, "Steve")
	p := c.Player()
	p.SetGameMode(player.GameModeSurvival)
	p.Inventory.SetSlot(player.SlotHotbarStart, player.ItemStack{ItemID: player.ItemStone, Count: 5})

	target := world.BlockPos{X: 0, Y: 0, Z: 0}
	use := packet.UseItemOn{
		Location: encodePosition(target),
		Face:     packet.FaceTop,
	}
	if err := c.handleUseItemOn(use); err != nil {
		t.Fatalf("handleUseItemOn: %v", err)
	}

	placeAt := world.BlockPos{X: 0, Y: 1, Z: 0}
	if got := deps.World.Store.BlockAt(placeAt); got != world.BlockStateStone {
		t.Errorf("BlockAt(placeAt) = %d, want %d (stone)", got, world.BlockStateStone)
	}
	if got := p.Inventory.Slot(player.SlotHotbarStart).Count; got != 4 {
		t.Errorf("held stack count = %d, want 4 after placement", got)
	}
}

func TestHandleUseItemOn_EmptyHandIsNoop(t *testing.T) {
	deps := newTestDeps()
	c, _ := newJoinedPlayer(t, deps, "Steve")

	target := world.BlockPos{X: 10, Y: 10, Z: 10}
	use := packet.UseItemOn{Location: encodePosition(target), Face: packet.FaceTop}
	if err := c.handleUseItemOn(use); err != nil {
		t.Fatalf("handleUseItemOn: %v", err)
	}
	if got := deps.World.Store.BlockAt(world.BlockPos{X: 10, Y: 11, Z: 10}); got != world.BlockStateAir {
		t.Errorf("BlockAt = %d, want unchanged air", got)
	}
}

func TestHandleSetHeldItem_UpdatesHeldSlot(t *testing.T) {
	c, _ := newJoinedPlayer(t, newTestDeps(), "Steve")
	h := packet.SetHeldItem{Slot: 3}
	if err := c.dispatchPlay(h.PacketID(), encodeFor(t, &h)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := c.Player().HeldSlot(); got != 3 {
		t.Errorf("HeldSlot() = %d, want 3", got)
	}
}

func TestHandleChatMessage_BroadcastsEscapedText(t *testing.T) {
	deps := newTestDeps()
	c, _ := newJoinedPlayer(t, deps, `Ste"ve`)
	deps.Conns.Add(c)

	if err := c.handleChatMessage(packet.ChatMessageServerbound{Message: `hello "world"`}); err != nil {
		t.Fatalf("handleChatMessage: %v", err)
	}

	select {
	case sent := <-c.outbound:
		msg, ok := sent.(*packet.SystemChatMessage)
		if !ok {
			t.Fatalf("got %T, want *packet.SystemChatMessage", sent)
		}
		want := `{"text":"<Ste\"ve> hello \"world\""}`
		if msg.JSONData != want {
			t.Errorf("JSONData = %q, want %q", msg.JSONData, want)
		}
	default:
		t.Fatal("expected the chat message to be broadcast back to its sender")
	}
}

func TestHandleClickContainer_PickupMovesToCursor(t *testing.T) {
	c, _ := newJoinedPlayer(t, newTestDeps(), "Steve")
	p := c.Player()
	p.Inventory.SetSlot(player.SlotHotbarStart, player.ItemStack{ItemID: player.ItemStone, Count: 10})

	click := packet.ClickContainer{
		StateID: int32(p.InventoryStateID()),
		Slot:    player.SlotHotbarStart,
		Button:  0,
		Mode:    packet.ClickModePickup,
	}
	if err := c.handleClickContainer(click); err != nil {
		t.Fatalf("handleClickContainer: %v", err)
	}
	if !p.Inventory.Slot(player.SlotHotbarStart).Empty() {
		t.Error("slot should be empty after pickup")
	}
	if p.CursorItem().Count != 10 {
		t.Errorf("cursor count = %d, want 10", p.CursorItem().Count)
	}
}

func TestHandleClickContainer_StaleStateIDResyncs(t *testing.T) {
	c, _ := newJoinedPlayer(t, newTestDeps(), "Steve")
	p := c.Player()

	click := packet.ClickContainer{
		StateID: int32(p.InventoryStateID()) + 1,
		Slot:    player.SlotHotbarStart,
		Mode:    packet.ClickModePickup,
	}
	if err := c.handleClickContainer(click); err != nil {
		t.Fatalf("handleClickContainer: %v", err)
	}

	select {
	case sent := <-c.outbound:
		if _, ok := sent.(*packet.SetContainerContent); !ok {
			t.Fatalf("got %T, want *packet.SetContainerContent", sent)
		}
	default:
		t.Fatal("expected a full resync on stale state id")
	}
}
