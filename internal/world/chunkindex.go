package world

import (
	"sync"

	"github.com/google/uuid"
)

// ChunkIndex is the reverse map from a loaded chunk column to the set of
// players currently observing it, letting the broadcast/streamer layers
// answer "who needs to hear about this column" without scanning every
// connected player.
type ChunkIndex struct {
	mu        sync.RWMutex
	observers map[ChunkPos]map[uuid.UUID]struct{}
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{observers: make(map[ChunkPos]map[uuid.UUID]struct{})}
}

// MarkObserving records that player id now has c loaded.
func (idx *ChunkIndex) MarkObserving(c ChunkPos, id uuid.UUID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	set, ok := idx.observers[c]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		idx.observers[c] = set
	}
	set[id] = struct{}{}
}

// MarkUnobserving removes id from c's observer set, pruning the entry
// entirely once empty.
func (idx *ChunkIndex) MarkUnobserving(c ChunkPos, id uuid.UUID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	set, ok := idx.observers[c]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx.observers, c)
	}
}

// Observers returns a snapshot of the players currently observing c.
func (idx *ChunkIndex) Observers(c ChunkPos) []uuid.UUID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := idx.observers[c]
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// IsObserved reports whether any player currently has c loaded.
func (idx *ChunkIndex) IsObserved(c ChunkPos) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.observers[c]) > 0
}
