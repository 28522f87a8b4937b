package world

import (
	"context"
	"sync"
	"testing"
)

func TestBlockStoreOverrideRoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	gen := NewFlatGenerator(reg)
	store := NewBlockStore(gen)

	pos := BlockPos{X: 3, Y: 0, Z: 5}
	if got := store.BlockAt(pos); got != BlockStateStone {
		t.Fatalf("base block = %d, want stone", got)
	}

	store.SetBlock(pos, BlockStateAir)
	if got := store.BlockAt(pos); got != BlockStateAir {
		t.Fatalf("after break, block = %d, want air", got)
	}

	// Setting back to the generator's base value should drop the override.
	store.SetBlock(pos, BlockStateStone)
	overrides := store.OverridesInChunk(pos.ChunkPos())
	if len(overrides) != 0 {
		t.Fatalf("override map = %v, want empty after reverting to base", overrides)
	}
}

func TestWorldStoreChunkCaching(t *testing.T) {
	ws := NewWorldStore(NewDefaultRegistry())
	ctx := context.Background()
	c := ChunkPos{X: 0, Z: 0}

	p1, err := ws.Chunk(ctx, c)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	p2, err := ws.Chunk(ctx, c)
	if err != nil {
		t.Fatalf("Chunk (cached): %v", err)
	}
	if len(p1.SectionsData) != len(p2.SectionsData) {
		t.Fatalf("cached payload length mismatch: %d vs %d", len(p1.SectionsData), len(p2.SectionsData))
	}

	ws.SetBlock(BlockPos{X: 0, Y: 0, Z: 0}, BlockStateAir)
	p3, err := ws.Chunk(ctx, c)
	if err != nil {
		t.Fatalf("Chunk (post-edit): %v", err)
	}
	if len(p3.SectionsData) == 0 {
		t.Fatalf("post-edit payload unexpectedly empty")
	}
}

// TestWorldStoreConcurrentChunkRequestsDedup exercises the singleflight
// path: many goroutines requesting the same uncached chunk concurrently
// must not race on the underlying cache map, and every request must
// succeed.
func TestWorldStoreConcurrentChunkRequestsDedup(t *testing.T) {
	ws := NewWorldStore(NewDefaultRegistry())
	ctx := context.Background()
	c := ChunkPos{X: 7, Z: -3}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ws.Chunk(ctx, c); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Chunk: %v", err)
	}
}

func TestSkyLightFormula(t *testing.T) {
	cases := []struct {
		surface, y, want int32
	}{
		{16, 16, 15},
		{16, 15, 14},
		{16, 1, 15 - (16 - 1)},
		{0, 0, 15},
		{16, 20, 15},
	}
	for _, tc := range cases {
		if got := skyLightAt(tc.surface, tc.y); got != tc.want {
			t.Errorf("skyLightAt(%d,%d) = %d, want %d", tc.surface, tc.y, got, tc.want)
		}
	}
}

func TestChunkIndexObservers(t *testing.T) {
	idx := NewChunkIndex()
	c := ChunkPos{X: 1, Z: 1}
	if idx.IsObserved(c) {
		t.Fatalf("fresh index reports observed")
	}
}
