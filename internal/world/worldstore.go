// Package world is the World façade: block/material registry data, chunk
// generation and caching, player identity persistence across reconnects,
// and the world-age/time-of-day clock.
package world

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// WorldStore produces and caches chunk payloads: generated or loaded on
// first request, cached thereafter. A generator-backed, override-aware,
// concurrency-safe cache.
type WorldStore struct {
	gen   Generator
	store *BlockStore

	mu    sync.RWMutex
	cache map[ChunkPos]ChunkPayload

	group singleflight.Group
}

func NewWorldStore(reg Registry) *WorldStore {
	gen := NewFlatGenerator(reg)
	return &WorldStore{
		gen:   gen,
		store: NewBlockStore(gen),
		cache: make(map[ChunkPos]ChunkPayload),
	}
}

// BlockStore exposes the shared override map, e.g. to the breaking
// scheduler applying a mined block's removal.
func (w *WorldStore) BlockStore() *BlockStore { return w.store }

// Chunk returns the cached payload for c, building and caching it on first
// request. Concurrent requests for the same chunk collapse into one build
// via singleflight, so no chunk is generated twice while one build is in
// flight — at the generation layer, not just the per-player streamer layer
// (see internal/streamer).
func (w *WorldStore) Chunk(ctx context.Context, c ChunkPos) (ChunkPayload, error) {
	w.mu.RLock()
	if p, ok := w.cache[c]; ok {
		w.mu.RUnlock()
		return p, nil
	}
	w.mu.RUnlock()

	key := chunkKey(c)
	v, err, _ := w.group.Do(key, func() (interface{}, error) {
		diffs := w.store.OverridesInChunk(c)
		payload, err := BuildChunkPayload(c, w.gen, diffs)
		if err != nil {
			return ChunkPayload{}, err
		}
		w.mu.Lock()
		w.cache[c] = payload
		w.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		return ChunkPayload{}, err
	}
	return v.(ChunkPayload), nil
}

// Invalidate drops a cached payload so the next Chunk call rebuilds it,
// called after SetBlock changes a position within that column.
func (w *WorldStore) Invalidate(c ChunkPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.cache, c)
}

// SetBlock records an override and invalidates the owning chunk's cache.
func (w *WorldStore) SetBlock(pos BlockPos, stateID int32) {
	w.store.SetBlock(pos, stateID)
	w.Invalidate(pos.ChunkPos())
}

// BlockAt returns the current effective block state at pos.
func (w *WorldStore) BlockAt(pos BlockPos) int32 {
	return w.store.BlockAt(pos)
}

func chunkKey(c ChunkPos) string {
	return fmt.Sprintf("%d:%d", c.X, c.Z)
}
