package streamer

import (
	"bytes"

	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/world"
)

// encodeChunkPayload assembles ChunkDataAndUpdateLight's tail: the
// heightmap (as a VarInt-counted long array), the concatenated per-section
// paletted containers world.BuildChunkPayload already produced, a VarInt
// block-entity count (always 0 — block entities aren't modeled), then the
// light section: sky/block light bitset masks followed by each present
// section's 2048-byte light array.
func encodeChunkPayload(p world.ChunkPayload) []byte {
	var buf bytes.Buffer

	writeHeightmap(&buf, p.Heightmap)

	_, _ = protocol.WriteVarInt(&buf, int32(len(p.SectionsData)))
	buf.Write(p.SectionsData)

	_, _ = protocol.WriteVarInt(&buf, 0) // block entity count

	writeLightSection(&buf, p.SkyLight)
	writeLightSection(&buf, p.BlockLight)

	return buf.Bytes()
}

func writeHeightmap(buf *bytes.Buffer, words []int64) {
	_, _ = protocol.WriteVarInt(buf, 1) // one heightmap type: MOTION_BLOCKING
	_, _ = protocol.WriteVarInt(buf, 0) // heightmap type id
	_, _ = protocol.WriteVarInt(buf, int32(len(words)))
	for _, w := range words {
		_ = protocol.WriteI64(buf, w)
	}
}

// writeLightSection writes a bitset marking which of the given sections
// actually carry a light array (all of them, in this implementation),
// followed by an empty "no data" bitset and the arrays themselves, in
// the shape the ChunkDataAndUpdateLight light payload expects.
func writeLightSection(buf *bytes.Buffer, sections [][]byte) {
	mask := protocol.NewFixedBitSet(len(sections))
	for i := range sections {
		mask.Set(i)
	}
	maskWords := bitsetAsLongs(mask)
	_, _ = protocol.WriteVarInt(buf, int32(len(maskWords)))
	for _, w := range maskWords {
		_ = protocol.WriteI64(buf, w)
	}

	emptyMask := protocol.NewFixedBitSet(len(sections))
	_, _ = protocol.WriteVarInt(buf, int32(len(bitsetAsLongs(emptyMask))))
	for _, w := range bitsetAsLongs(emptyMask) {
		_ = protocol.WriteI64(buf, w)
	}

	_, _ = protocol.WriteVarInt(buf, int32(len(sections)))
	for _, arr := range sections {
		_, _ = protocol.WriteVarInt(buf, int32(len(arr)))
		buf.Write(arr)
	}
}

func bitsetAsLongs(b *protocol.FixedBitSet) []int64 {
	raw := b.Bytes()
	words := (len(raw) + 7) / 8
	out := make([]int64, words)
	for i, bb := range raw {
		out[i/8] |= int64(bb) << uint((i%8)*8)
	}
	return out
}
