// Package protocol implements the wire codec: VarInt/VarLong framing,
// typed primitive readers/writers, and the composite encodings (Position,
// FixedBitSet, packed long arrays, paletted containers) the play protocol
// layers on top of them.
package protocol

import (
	"fmt"
	"io"
)

const (
	maxVarIntBytes  = 5
	maxVarLongBytes = 10
)

// ReadVarInt decodes a VarInt from r, returning the value and the number of
// bytes consumed.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var result uint32
	var numRead int
	var buf [1]byte

	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, numRead, err
		}
		numRead++

		result |= uint32(buf[0]&0x7F) << (7 * (numRead - 1))

		if buf[0]&0x80 == 0 {
			break
		}

		if numRead >= maxVarIntBytes {
			return 0, numRead, fmt.Errorf("%w: VarInt exceeds %d bytes", errMalformed, maxVarIntBytes)
		}
	}

	return int32(result), numRead, nil
}

// WriteVarInt encodes value as a VarInt to w.
func WriteVarInt(w io.Writer, value int32) (int, error) {
	var buf [maxVarIntBytes]byte
	n := PutVarInt(buf[:], value)
	return w.Write(buf[:n])
}

// PutVarInt writes value into buf (which must have room for VarIntSize(value)
// bytes) and returns the number of bytes written.
func PutVarInt(buf []byte, value int32) int {
	val := uint32(value)
	n := 0
	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if val == 0 {
			break
		}
	}
	return n
}

// VarIntSize returns the number of bytes needed to encode value as a VarInt.
func VarIntSize(value int32) int {
	val := uint32(value)
	size := 0
	for {
		size++
		val >>= 7
		if val == 0 {
			break
		}
	}
	return size
}

// ReadVarLong decodes a VarLong from r.
func ReadVarLong(r io.Reader) (int64, int, error) {
	var result uint64
	var numRead int
	var buf [1]byte

	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, numRead, err
		}
		numRead++

		result |= uint64(buf[0]&0x7F) << (7 * (numRead - 1))

		if buf[0]&0x80 == 0 {
			break
		}

		if numRead >= maxVarLongBytes {
			return 0, numRead, fmt.Errorf("%w: VarLong exceeds %d bytes", errMalformed, maxVarLongBytes)
		}
	}

	return int64(result), numRead, nil
}

// WriteVarLong encodes value as a VarLong to w.
func WriteVarLong(w io.Writer, value int64) (int, error) {
	var buf [maxVarLongBytes]byte
	val := uint64(value)
	n := 0
	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if val == 0 {
			break
		}
	}
	return w.Write(buf[:n])
}

// VarLongSize returns the number of bytes needed to encode value as a VarLong.
func VarLongSize(value int64) int {
	val := uint64(value)
	size := 0
	for {
		size++
		val >>= 7
		if val == 0 {
			break
		}
	}
	return size
}
