package protocol

import (
	"bytes"
	"testing"
)

func TestPalettedContainerSingleValue(t *testing.T) {
	values := make([]int32, 4096)
	for i := range values {
		values[i] = 7
	}

	var buf bytes.Buffer
	if err := WritePalettedContainer(&buf, values, 4); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadPalettedContainer(&buf, len(values), 4)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, v := range got {
		if v != 7 {
			t.Fatalf("entry %d = %d, want 7", i, v)
		}
	}
}

func TestPalettedContainerMultiValue(t *testing.T) {
	values := make([]int32, 64)
	for i := range values {
		values[i] = int32(i % 5)
	}

	var buf bytes.Buffer
	if err := WritePalettedContainer(&buf, values, 4); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadPalettedContainer(&buf, len(values), 4)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("entry %d = %d, want %d", i, got[i], values[i])
		}
	}
}

func TestPalettedContainerMinBitsPerEntry(t *testing.T) {
	// Two distinct values need only 1 bit, but block-state containers floor
	// at 4 bits.
	values := []int32{0, 1, 0, 1}

	var buf bytes.Buffer
	if err := WritePalettedContainer(&buf, values, 4); err != nil {
		t.Fatalf("write: %v", err)
	}

	bitsPerEntry, _ := buf.ReadByte()
	if bitsPerEntry != 4 {
		t.Errorf("bits per entry = %d, want 4 (protocol minimum)", bitsPerEntry)
	}
}
