package packet

import (
	"bytes"

	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
)

// SlotChange is one entry of a ClickContainer packet's changed-slots array:
// the client's own record of what it expects the slot to hold after the
// click (used only to detect staleness; server state is authoritative).
type SlotChange struct {
	Slot  int16
	Stack player.ItemStack
}

// ParseClickTail decodes ClickContainer's wire tail: a VarInt count, that
// many (i16 slot, Slot) pairs, then the carried (cursor) item.
func ParseClickTail(tail []byte) (changed []SlotChange, carried player.ItemStack, err error) {
	r := bytes.NewReader(tail)
	count, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return nil, player.ItemStack{}, err
	}
	changed = make([]SlotChange, 0, count)
	for i := int32(0); i < count; i++ {
		slot, err := protocol.ReadI16(r)
		if err != nil {
			return nil, player.ItemStack{}, err
		}
		stack, err := ReadItemStack(r)
		if err != nil {
			return nil, player.ItemStack{}, err
		}
		changed = append(changed, SlotChange{Slot: slot, Stack: stack})
	}
	carried, err = ReadItemStack(r)
	return changed, carried, err
}

// ParseCreativeSlotTail decodes SetCreativeModeSlot's tail: a single
// encoded ItemStack.
func ParseCreativeSlotTail(tail []byte) (player.ItemStack, error) {
	return ReadItemStack(bytes.NewReader(tail))
}
