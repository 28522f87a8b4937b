package packet

import (
	"bytes"
	"io"

	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
)

// WriteItemStack encodes a slot the way the wire "Slot" structure does:
// a present flag, then (if present) item id, count, damage, and an opaque
// component/NBT blob carried verbatim — never parsed by the core.
func WriteItemStack(w io.Writer, s player.ItemStack) error {
	if s.Empty() {
		return protocol.WriteBool(w, false)
	}
	if err := protocol.WriteBool(w, true); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, s.ItemID); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, int32(s.Count)); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, int32(s.Damage)); err != nil {
		return err
	}
	_, err := protocol.WriteByteArray(w, s.NBT)
	return err
}

// ReadItemStack is the inverse of WriteItemStack.
func ReadItemStack(r io.Reader) (player.ItemStack, error) {
	present, err := protocol.ReadBool(r)
	if err != nil {
		return player.ItemStack{}, err
	}
	if !present {
		return player.ItemStack{}, nil
	}
	itemID, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return player.ItemStack{}, err
	}
	count, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return player.ItemStack{}, err
	}
	damage, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return player.ItemStack{}, err
	}
	nbt, err := protocol.ReadByteArray(r)
	if err != nil {
		return player.ItemStack{}, err
	}
	return player.ItemStack{ItemID: itemID, Count: int8(count), Damage: int16(damage), NBT: nbt}, nil
}

// EncodeItemStack is a convenience returning the encoded bytes directly.
func EncodeItemStack(s player.ItemStack) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteItemStack(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
