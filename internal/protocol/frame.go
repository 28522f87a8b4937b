package protocol

import (
	"bytes"
	"fmt"
	"io"
)

// maxFrameLength bounds a single frame's declared length, guarding against a
// hostile or corrupt length prefix forcing an unbounded allocation.
const maxFrameLength = 1 << 21 // 2 MiB

// Packet is implemented by every decoded/encoded packet payload type.
type Packet interface {
	PacketID() int32
}

// ReadRawPacket reads one length-prefixed frame from r and splits out the
// packet id, returning the remaining payload bytes undecoded.
func ReadRawPacket(r io.Reader) (packetID int32, payload []byte, err error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read frame length: %w", err)
	}
	if length < 1 {
		return 0, nil, fmt.Errorf("%w: frame length %d too small", errMalformed, length)
	}
	if length > maxFrameLength {
		return 0, nil, fmt.Errorf("%w: frame length %d exceeds max", errMalformed, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("read frame body: %w", err)
	}

	buf := bytes.NewReader(body)
	packetID, _, err = ReadVarInt(buf)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet id: %w", err)
	}

	payload = make([]byte, buf.Len())
	if _, err := io.ReadFull(buf, payload); err != nil {
		return 0, nil, fmt.Errorf("read packet payload: %w", err)
	}
	return packetID, payload, nil
}

// WriteRawPacket frames packetID||data as a single VarInt-length-prefixed
// write, so concurrent writers never interleave partial frames.
func WriteRawPacket(w io.Writer, packetID int32, data []byte) error {
	idSize := VarIntSize(packetID)
	totalLen := idSize + len(data)

	var buf bytes.Buffer
	buf.Grow(VarIntSize(int32(totalLen)) + totalLen)

	if _, err := WriteVarInt(&buf, int32(totalLen)); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := WriteVarInt(&buf, packetID); err != nil {
		return fmt.Errorf("write packet id: %w", err)
	}
	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write packet payload: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	return nil
}

// WritePacket marshals p and writes it as a framed packet.
func WritePacket(w io.Writer, p Packet) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet 0x%02X: %w", p.PacketID(), err)
	}
	return WriteRawPacket(w, p.PacketID(), data)
}

// DecodeInto unmarshals a raw payload into p, which must already be known
// to match the frame's packet id (the router is responsible for that
// match — see protoerr.ErrUnexpectedPacket).
func DecodeInto(payload []byte, p Packet) error {
	return Unmarshal(payload, p)
}
