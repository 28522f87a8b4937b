package protocol

import (
	"bytes"
	"io"
)

// PalettedContainer encodes a fixed-size (usually 4096-entry) section of
// paletted values: a single VarInt value when bitsPerEntry is 0, otherwise
// a VarInt palette length, the palette entries as VarInts, then the
// bit-packed long-array data.
//
// minBitsPerEntry is the protocol-defined floor for this container kind
// (block-states default to 4, biomes to 0); the effective width is
// max(minBitsPerEntry, BitsForPaletteSize(len(palette))).
func WritePalettedContainer(w io.Writer, values []int32, minBitsPerEntry int) error {
	palette, indices := buildPalette(values)

	if len(palette) == 1 {
		if _, err := WriteU8(w, 0); err != nil {
			return err
		}
		_, err := WriteVarInt(w, palette[0])
		return err
	}

	bits := BitsForPaletteSize(len(palette))
	if bits < minBitsPerEntry {
		bits = minBitsPerEntry
	}

	if err := WriteU8(w, uint8(bits)); err != nil {
		return err
	}
	if _, err := WriteVarInt(w, int32(len(palette))); err != nil {
		return err
	}
	for _, p := range palette {
		if _, err := WriteVarInt(w, p); err != nil {
			return err
		}
	}

	entries := make([]int64, len(indices))
	for i, idx := range indices {
		entries[i] = int64(idx)
	}
	words := PackLongArray(entries, bits)
	if _, err := WriteVarInt(w, int32(len(words))); err != nil {
		return err
	}
	for _, word := range words {
		if err := WriteI64(w, word); err != nil {
			return err
		}
	}
	return nil
}

// ReadPalettedContainer decodes a container holding count entries.
func ReadPalettedContainer(r io.Reader, count int, minBitsPerEntry int) ([]int32, error) {
	bits, err := ReadU8(r)
	if err != nil {
		return nil, err
	}
	if bits == 0 {
		v, _, err := ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		out := make([]int32, count)
		for i := range out {
			out[i] = v
		}
		return out, nil
	}

	paletteLen, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	palette := make([]int32, paletteLen)
	for i := range palette {
		v, _, err := ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		palette[i] = v
	}

	wordCount, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	words := make([]int64, wordCount)
	for i := range words {
		words[i], err = ReadI64(r)
		if err != nil {
			return nil, err
		}
	}

	indices := UnpackLongArray(words, int(bits), count)
	out := make([]int32, count)
	for i, idx := range indices {
		if int(idx) >= len(palette) {
			return nil, errMalformed
		}
		out[i] = palette[idx]
	}
	return out, nil
}

// buildPalette returns the deduplicated palette (in first-seen order) and
// the per-entry palette index for values.
func buildPalette(values []int32) (palette []int32, indices []int) {
	seen := make(map[int32]int)
	indices = make([]int, len(values))
	for i, v := range values {
		idx, ok := seen[v]
		if !ok {
			idx = len(palette)
			seen[v] = idx
			palette = append(palette, v)
		}
		indices[i] = idx
	}
	if len(palette) == 0 {
		palette = []int32{0}
	}
	return palette, indices
}

// EncodePalettedSection is a convenience that returns the encoded bytes of
// a single section's paletted container (used by world serialization).
func EncodePalettedSection(values []int32, minBitsPerEntry int) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePalettedContainer(&buf, values, minBitsPerEntry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
