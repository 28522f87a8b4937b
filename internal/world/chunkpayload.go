package world

import (
	"bytes"

	"github.com/blockcraft/server/internal/protocol"
)

// Vertical extent of the bundled reference world: one 16-block section,
// expressed through the paletted-container wire format.
const (
	SectionHeight  = 16
	SectionCount   = 1
	blocksPerLayer = 16 * 16
	blocksPerSection = blocksPerLayer * SectionHeight

	// minBlockBitsPerEntry is the protocol floor for block-state paletted
	// containers; biome containers use 0.
	minBlockBitsPerEntry = 4
)

// ChunkPayload is the fully assembled, ready-to-send body of a chunk-data
// packet: per-section paletted block states, a biome container, a
// heightmap, and per-section sky/block light arrays.
type ChunkPayload struct {
	ChunkX, ChunkZ int32
	SectionsData   []byte // concatenated per-section paletted containers
	Heightmap      []int64
	SkyLight       [][]byte // one bitset-backed array per section, 2048 bytes each
	BlockLight     [][]byte
}

// BuildChunkPayload assembles one column's wire payload, overlaying diffs
// on top of the generator's base state and computing the sky-light formula:
// sky_light(y) = max(0, 15 - max(0, h-y)) where h is the column's surface
// height.
func BuildChunkPayload(c ChunkPos, gen Generator, diffs map[BlockPos]int32) (ChunkPayload, error) {
	var buf bytes.Buffer

	heights := make([][16]int32, 16) // heights[x][z]
	for x := int32(0); x < 16; x++ {
		for z := int32(0); z < 16; z++ {
			heights[x][z] = surfaceHeight(c, x, z, gen, diffs)
		}
	}

	for section := 0; section < SectionCount; section++ {
		values := make([]int32, blocksPerSection)
		baseY := int32(section * SectionHeight)
		i := 0
		for y := int32(0); y < SectionHeight; y++ {
			for z := int32(0); z < 16; z++ {
				for x := int32(0); x < 16; x++ {
					pos := BlockPos{X: c.X*16 + x, Y: baseY + y, Z: c.Z*16 + z}
					state := gen.BaseBlockAt(pos)
					if v, ok := diffs[pos]; ok {
						state = v
					}
					values[i] = state
					i++
				}
			}
		}
		if err := protocol.WritePalettedContainer(&buf, values, minBlockBitsPerEntry); err != nil {
			return ChunkPayload{}, err
		}
		// Biome container: single-value shortcut, plains for every column.
		if err := protocol.WritePalettedContainer(&buf, []int32{0}, 0); err != nil {
			return ChunkPayload{}, err
		}
	}

	heightEntries := make([]int64, blocksPerLayer)
	for x := int32(0); x < 16; x++ {
		for z := int32(0); z < 16; z++ {
			heightEntries[z*16+x] = int64(heights[x][z])
		}
	}
	heightBits := protocol.BitsForPaletteSize(int(SectionHeight*SectionCount) + 1)
	if heightBits == 0 {
		heightBits = 1
	}
	heightmap := protocol.PackLongArray(heightEntries, heightBits)

	skyLight := make([][]byte, SectionCount)
	blockLight := make([][]byte, SectionCount)
	for section := 0; section < SectionCount; section++ {
		baseY := int32(section * SectionHeight)
		sky := make([]byte, 2048)
		for x := int32(0); x < 16; x++ {
			for z := int32(0); z < 16; z++ {
				h := heights[x][z]
				for y := int32(0); y < SectionHeight; y++ {
					level := skyLightAt(h, baseY+y)
					idx := z*16*SectionHeight + y*16 + x
					setNibble(sky, int(idx), byte(level))
				}
			}
		}
		skyLight[section] = sky
		blockLight[section] = make([]byte, 2048) // no block-emitted light sources in scope
	}

	return ChunkPayload{
		ChunkX:       c.X,
		ChunkZ:       c.Z,
		SectionsData: buf.Bytes(),
		Heightmap:    heightmap,
		SkyLight:     skyLight,
		BlockLight:   blockLight,
	}, nil
}

// skyLightAt computes sky light: 15 at and above the surface, decreasing
// by 1 per block below it, clamped at 0.
func skyLightAt(surfaceHeight, y int32) int32 {
	below := surfaceHeight - y
	if below < 0 {
		below = 0
	}
	level := 15 - below
	if level < 0 {
		level = 0
	}
	return level
}

// surfaceHeight finds the highest non-air block in the column, scanning
// from the top of the generated world downward, overlaid with diffs.
func surfaceHeight(c ChunkPos, x, z int32, gen Generator, diffs map[BlockPos]int32) int32 {
	top := int32(SectionCount*SectionHeight - 1)
	for y := top; y >= 0; y-- {
		pos := BlockPos{X: c.X*16 + x, Y: y, Z: c.Z*16 + z}
		state := gen.BaseBlockAt(pos)
		if v, ok := diffs[pos]; ok {
			state = v
		}
		if state != BlockStateAir {
			return y + 1
		}
	}
	return 0
}

func setNibble(data []byte, index int, value byte) {
	b := index / 2
	if index%2 == 0 {
		data[b] = (data[b] & 0xF0) | (value & 0x0F)
	} else {
		data[b] = (data[b] & 0x0F) | (value << 4)
	}
}
