package packet

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protocol"
)

// BuildRegistryData assembles one RegistryData packet's tail: the registry
// id followed by a VarInt-counted, empty entry list. Real entry contents
// (dimension codec, biome parameters, ...) are NBT payloads this core
// treats as opaque; a client only needs a syntactically valid, non-empty
// registry set to complete the Configuration handshake.
func BuildRegistryData(registryID string) (RegistryData, error) {
	var buf bytes.Buffer
	if _, err := protocol.WriteString(&buf, registryID); err != nil {
		return RegistryData{}, err
	}
	if _, err := protocol.WriteVarInt(&buf, 0); err != nil { // entry count
		return RegistryData{}, err
	}
	return RegistryData{Data: buf.Bytes()}, nil
}

// BuildKnownPacksEmpty assembles a KnownPacks packet advertising zero data
// packs, a legal minimal response under the protocol.
func BuildKnownPacksEmpty() ([]byte, error) {
	var buf bytes.Buffer
	_, err := protocol.WriteVarInt(&buf, 0)
	return buf.Bytes(), err
}

// BuildPlayerInfoAddPlayer assembles a PlayerInfoUpdate tail adding exactly
// one player with the "add player" action only (bit 0x01): UUID, name, an
// empty property list, listed=true, ping, no display name, no chat
// signature key. Matches the minimal field set a vanilla client accepts.
func BuildPlayerInfoAddPlayer(id uuid.UUID, username string, ping int32) ([]byte, error) {
	var buf bytes.Buffer
	const actionAddPlayer = 0x01
	if _, err := protocol.WriteU8(&buf, actionAddPlayer); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteVarInt(&buf, 1); err != nil { // player count
		return nil, err
	}
	if _, err := protocol.WriteUUID(&buf, id); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteString(&buf, username); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteVarInt(&buf, 0); err != nil { // property count
		return nil, err
	}
	if err := protocol.WriteBool(&buf, true); err != nil { // listed
		return nil, err
	}
	if _, err := protocol.WriteVarInt(&buf, ping); err != nil {
		return nil, err
	}
	if err := protocol.WriteBool(&buf, false); err != nil { // has display name
		return nil, err
	}
	if err := protocol.WriteBool(&buf, false); err != nil { // has chat session
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPlayerInfoRemove assembles a PlayerInfoRemove tail for exactly one
// UUID.
func BuildPlayerInfoRemove(id uuid.UUID) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := protocol.WriteVarInt(&buf, 1); err != nil {
		return nil, err
	}
	_, err := protocol.WriteUUID(&buf, id)
	return buf.Bytes(), err
}

// BuildSneakMetadata assembles a SetEntityMetadata tail setting the
// shared entity flags byte (bit 0x02 = sneaking) and the pose enum (5 =
// SNEAKING, 0 = STANDING).
func BuildSneakMetadata(sneaking bool) ([]byte, error) {
	var buf bytes.Buffer
	const indexSharedFlags = 0
	const indexPose = 6

	var flags uint8
	pose := int32(0)
	if sneaking {
		flags = 0x02
		pose = 5
	}

	if _, err := protocol.WriteU8(&buf, indexSharedFlags); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteVarInt(&buf, typeByte); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteU8(&buf, flags); err != nil {
		return nil, err
	}

	if _, err := protocol.WriteU8(&buf, indexPose); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteVarInt(&buf, typePose); err != nil {
		return nil, err
	}
	if _, err := protocol.WriteVarInt(&buf, pose); err != nil {
		return nil, err
	}

	if _, err := protocol.WriteU8(&buf, 0xFF); err != nil { // terminator
		return nil, err
	}
	return buf.Bytes(), nil
}

// Entity metadata type ids used above, matching the protocol's metadata
// type registry (only the two this core emits).
const (
	typeByte int32 = 0
	typePose int32 = 20
)

// BuildEquipmentEntry assembles a SetEquipment tail with exactly one
// equipment slot; the terminator bit (top bit of the slot byte) is clear
// since this core never batches multiple slots in one packet.
func BuildEquipmentEntry(slot int8, stack player.ItemStack) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := protocol.WriteI8(&buf, slot); err != nil {
		return nil, err
	}
	if err := WriteItemStack(&buf, stack); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildContainerContent assembles a SetContainerContent packet for the
// player inventory window (window id 0): every slot in order, then the
// carried (cursor) item.
func BuildContainerContent(stateID int32, slots [player.SlotCount]player.ItemStack, carried player.ItemStack) (SetContainerContent, error) {
	var buf bytes.Buffer
	if _, err := protocol.WriteVarInt(&buf, player.SlotCount); err != nil {
		return SetContainerContent{}, err
	}
	for _, s := range slots {
		if err := WriteItemStack(&buf, s); err != nil {
			return SetContainerContent{}, err
		}
	}
	if err := WriteItemStack(&buf, carried); err != nil {
		return SetContainerContent{}, err
	}
	return SetContainerContent{WindowID: 0, StateID: stateID, Data: buf.Bytes()}, nil
}

// BuildContainerSlot assembles a SetContainerSlot packet for a single slot
// update (slot=-1 addresses the cursor).
func BuildContainerSlot(stateID int32, slot int16, stack player.ItemStack) (SetContainerSlot, error) {
	var buf bytes.Buffer
	if err := WriteItemStack(&buf, stack); err != nil {
		return SetContainerSlot{}, err
	}
	return SetContainerSlot{WindowID: 0, StateID: stateID, Slot: slot, Data: buf.Bytes()}, nil
}
