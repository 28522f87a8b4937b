package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// maxStringBytes caps the UTF-8 byte length of a decoded string field.
// The protocol's String field is a VarInt length (characters, historically)
// followed by that many UTF-8 bytes; this codec validates against the byte
// count as the practical wire limit, matching the "max length validated"
// requirement from the framing spec.
const maxStringBytes = 32767 * 4

var errMalformed = fmt.Errorf("malformed")

// ErrMalformed is the sentinel that decode functions wrap when a length or
// value is out of range: an over-long VarInt/VarLong, a string or byte-array
// length out of range, a bad frame length, or a palette index past the
// palette. A truncated read returns the underlying io error instead.
func ErrMalformed() error { return errMalformed }

func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadU8(r)
	return b != 0, err
}

func WriteBool(w io.Writer, v bool) error {
	if v {
		return WriteU8(w, 1)
	}
	return WriteU8(w, 0)
}

func ReadI8(r io.Reader) (int8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int8(buf[0]), nil
}

func WriteI8(w io.Writer, v int8) error {
	_, err := w.Write([]byte{byte(v)})
	return err
}

func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func ReadI16(r io.Reader) (int16, error) {
	var v int16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func WriteI16(w io.Writer, v int16) error {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadU16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func WriteU16(w io.Writer, v uint16) error {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func WriteI32(w io.Writer, v int32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadI64(r io.Reader) (int64, error) {
	var v int64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func WriteI64(w io.Writer, v int64) error {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadF32(r io.Reader) (float32, error) {
	var v float32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func WriteF32(w io.Writer, v float32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadF64(r io.Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func WriteF64(w io.Writer, v float64) error {
	return binary.Write(w, binary.BigEndian, v)
}

// ReadString decodes a VarInt-length-prefixed UTF-8 string, rejecting
// lengths beyond maxStringBytes as Malformed.
func ReadString(r io.Reader) (string, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if length < 0 || length > maxStringBytes {
		return "", fmt.Errorf("%w: string length %d out of range", errMalformed, length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string data: %w", err)
	}
	return string(buf), nil
}

func WriteString(w io.Writer, s string) (int, error) {
	if len(s) > maxStringBytes {
		return 0, fmt.Errorf("%w: string length %d out of range", errMalformed, len(s))
	}
	n1, err := WriteVarInt(w, int32(len(s)))
	if err != nil {
		return n1, err
	}
	n2, err := w.Write([]byte(s))
	return n1 + n2, err
}

// ReadByteArray decodes a VarInt-length-prefixed opaque byte blob.
func ReadByteArray(r io.Reader) ([]byte, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("read byte array length: %w", err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative byte array length %d", errMalformed, length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read byte array data: %w", err)
	}
	return buf, nil
}

func WriteByteArray(w io.Writer, data []byte) (int, error) {
	n1, err := WriteVarInt(w, int32(len(data)))
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(data)
	return n1 + n2, err
}

// ReadUUID decodes a 16-byte big-endian UUID.
func ReadUUID(r io.Reader) (uuid.UUID, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return uuid.UUID{}, err
	}
	return uuid.UUID(buf), nil
}

func WriteUUID(w io.Writer, id uuid.UUID) (int, error) {
	return w.Write(id[:])
}

// EncodePosition packs (x, y, z) into the 64-bit wire Position: x in the
// high 26 bits, z in the next 26 bits, y in the low 12 bits.
func EncodePosition(x, y, z int64) int64 {
	return ((x & 0x3FFFFFF) << 38) | ((z & 0x3FFFFFF) << 12) | (y & 0xFFF)
}

// DecodePosition unpacks a wire Position, sign-extending each field.
func DecodePosition(val int64) (x, y, z int64) {
	x = val >> 38
	y = (val << 52) >> 52
	z = (val << 26) >> 38
	return
}

func ReadPosition(r io.Reader) (x, y, z int64, err error) {
	v, err := ReadI64(r)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z = DecodePosition(v)
	return x, y, z, nil
}

func WritePosition(w io.Writer, x, y, z int64) error {
	return WriteI64(w, EncodePosition(x, y, z))
}

// FixedBitSet is a fixed-length bitset with ⌈n/8⌉ backing bytes, bit i of
// byte ⌊i/8⌋, matching the wire FixedBitSet(n) encoding.
type FixedBitSet struct {
	n    int
	bits []byte
}

func NewFixedBitSet(n int) *FixedBitSet {
	return &FixedBitSet{n: n, bits: make([]byte, (n+7)/8)}
}

func (b *FixedBitSet) Set(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.bits[i/8] |= 1 << uint(i%8)
}

func (b *FixedBitSet) Get(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.bits[i/8]&(1<<uint(i%8)) != 0
}

func (b *FixedBitSet) Bytes() []byte { return b.bits }

func ReadFixedBitSet(r io.Reader, n int) (*FixedBitSet, error) {
	buf := make([]byte, (n+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return &FixedBitSet{n: n, bits: buf}, nil
}
