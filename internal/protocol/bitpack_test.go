package protocol

import (
	"math/rand"
	"testing"
)

// TestPackedLongArrayRoundTrip checks that for any (bitsPerEntry ∈ [1..32],
// entries ∈ [0..4096]), unpack(pack(entries, bpe)) == entries.
func TestPackedLongArrayRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, bits := range []int{1, 2, 4, 5, 9, 13, 15, 32} {
		for _, count := range []int{0, 1, 7, 37, 256, 4096} {
			entries := make([]int64, count)
			max := int64(1) << uint(bits)
			for i := range entries {
				entries[i] = rng.Int63n(max)
			}

			words := PackLongArray(entries, bits)
			got := UnpackLongArray(words, bits, count)

			for i := range entries {
				if got[i] != entries[i] {
					t.Fatalf("bits=%d count=%d: entry %d = %d, want %d", bits, count, i, got[i], entries[i])
				}
			}
		}
	}
}

func TestPackedLongArrayNoStraddle(t *testing.T) {
	// 5 bits per entry: 12 entries per 64-bit word (60 bits used, 4 padding bits).
	entries := make([]int64, 13)
	for i := range entries {
		entries[i] = int64(i % 32)
	}
	words := PackLongArray(entries, 5)
	if len(words) != 2 {
		t.Fatalf("expected 2 words for 13 entries at 5 bits/entry, got %d", len(words))
	}
}

func TestBitsForPaletteSize(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {16, 4}, {17, 5}, {256, 8},
	}
	for _, tt := range tests {
		if got := BitsForPaletteSize(tt.size); got != tt.want {
			t.Errorf("BitsForPaletteSize(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}
