package world

// World is the single aggregate the rest of the core reaches for world
// state, bundling the WorldStore (chunk cache + BlockStore), ChunkIndex,
// PlayerDirectory, and TimeManager.
type World struct {
	Registry Registry
	Store    *WorldStore
	Index    *ChunkIndex
	Players  *PlayerDirectory
	Time     *TimeManager
}

// New wires the bundled reference implementations of every World
// sub-component. A production deployment would substitute a WorldStore
// backed by real terrain generation and a Registry loaded from game data,
// without the rest of the core changing.
func New() *World {
	return NewWithRegistry(NewDefaultRegistry())
}

// NewWithRegistry wires the same bundle as New, substituting a caller-
// supplied Registry (e.g. one loaded via LoadRegistryFixture from
// config.Config.RegistryFixturePath) for the hardcoded default.
func NewWithRegistry(reg Registry) *World {
	return &World{
		Registry: reg,
		Store:    NewWorldStore(reg),
		Index:    NewChunkIndex(),
		Players:  NewPlayerDirectory(),
		Time:     NewTimeManager(),
	}
}
