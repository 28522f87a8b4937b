package protocol

import (
	"bytes"
	"math"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		size  int
	}{
		{"zero", 0, 1},
		{"one", 1, 1},
		{"127", 127, 1},
		{"128", 128, 2},
		{"255", 255, 2},
		{"25565", 25565, 3},
		{"max_varint", math.MaxInt32, 5},
		{"negative_one", -1, 5},
		{"min_varint", math.MinInt32, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteVarInt(&buf, tt.value)
			if err != nil {
				t.Fatalf("WriteVarInt(%d): %v", tt.value, err)
			}
			if n != tt.size {
				t.Errorf("WriteVarInt(%d) wrote %d bytes, want %d", tt.value, n, tt.size)
			}
			if VarIntSize(tt.value) != tt.size {
				t.Errorf("VarIntSize(%d) = %d, want %d", tt.value, VarIntSize(tt.value), tt.size)
			}

			got, bytesRead, err := ReadVarInt(&buf)
			if err != nil {
				t.Fatalf("ReadVarInt: %v", err)
			}
			if bytesRead != tt.size {
				t.Errorf("ReadVarInt read %d bytes, want %d", bytesRead, tt.size)
			}
			if got != tt.value {
				t.Errorf("ReadVarInt = %d, want %d", got, tt.value)
			}
		})
	}
}

// TestVarIntRoundTripSampled checks decode(encode(v)) == v across the i32
// range, sampled rather than exhaustive.
func TestVarIntRoundTripSampled(t *testing.T) {
	samples := []int32{math.MinInt32, math.MinInt32 + 1, -1000000, -1, 0, 1, 63, 64, 127, 128,
		16383, 16384, 2097151, 2097152, math.MaxInt32 - 1, math.MaxInt32}
	for _, v := range samples {
		var buf bytes.Buffer
		if _, err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		got, _, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d got %d", v, got)
		}
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	samples := []int64{math.MinInt64, -1, 0, 1, math.MaxInt64}
	for _, v := range samples {
		var buf bytes.Buffer
		if _, err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d): %v", v, err)
		}
		got, _, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatalf("ReadVarLong(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d got %d", v, got)
		}
	}
}

func TestPutVarInt(t *testing.T) {
	var buf [5]byte
	n := PutVarInt(buf[:], 300)
	if n != 2 {
		t.Errorf("PutVarInt(300) = %d bytes, want 2", n)
	}
	// 300 = 0x12C → 0xAC 0x02
	if buf[0] != 0xAC || buf[1] != 0x02 {
		t.Errorf("PutVarInt(300) = %x %x, want AC 02", buf[0], buf[1])
	}
}

func TestVarIntTooLong(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if _, _, err := ReadVarInt(bytes.NewReader(data)); err == nil {
		t.Error("expected error decoding an over-length VarInt")
	}
}

func TestPositionRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z int64
	}{
		{"origin", 0, 0, 0},
		{"positive", 100, 64, 200},
		{"negative", -100, 0, -200},
		{"max_y", 0, 2047, 0},
		{"min_y", 0, -2048, 0},
		{"extreme_xz", -33554432, 0, 33554431},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodePosition(tt.x, tt.y, tt.z)
			x, y, z := DecodePosition(encoded)
			if x != tt.x || y != tt.y || z != tt.z {
				t.Errorf("DecodePosition(EncodePosition(%d,%d,%d)) = (%d,%d,%d)",
					tt.x, tt.y, tt.z, x, y, z)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	samples := []string{"", "a", "Steve", "héllo wörld", string(make([]byte, 1000))}
	for _, s := range samples {
		var buf bytes.Buffer
		if _, err := WriteString(&buf, s); err != nil {
			t.Fatalf("WriteString(%q): %v", s, err)
		}
		got, err := ReadString(&buf)
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if got != s {
			t.Errorf("round trip %q got %q", s, got)
		}
	}
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	_, _ = WriteVarInt(&buf, maxStringBytes+1)
	if _, err := ReadString(&buf); err == nil {
		t.Error("expected error decoding an over-length string")
	}
}
