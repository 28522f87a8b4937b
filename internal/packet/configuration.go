package packet

// ClientInformation is the first Configuration-phase packet the client
// sends (serverbound 0x00); view-distance is the only field this core
// acts on, seeding the player's requested view distance.
type ClientInformation struct {
	Locale              string `mc:"string"`
	ViewDistance         int8   `mc:"i8"`
	ChatMode             int32  `mc:"varint"`
	ChatColors           bool   `mc:"bool"`
	DisplayedSkinParts   uint8  `mc:"u8"`
	MainHand             int32  `mc:"varint"`
	EnableTextFiltering  bool   `mc:"bool"`
	AllowServerListings  bool   `mc:"bool"`
}

func (ClientInformation) PacketID() int32 { return 0x00 }

// ServerboundKnownPacks is the client's reply to ClientboundKnownPacks
// (serverbound 0x07); the core does not inspect its contents — any ack,
// empty or not, is accepted and the Configuration sequence proceeds.
type ServerboundKnownPacks struct {
	Data []byte `mc:"rest"`
}

func (ServerboundKnownPacks) PacketID() int32 { return 0x07 }

// RegistryData streams one registry's id+entries as an opaque NBT blob,
// assembled by the caller. One instance is sent per registry named by
// world.Registry.KnownRegistries.
type RegistryData struct {
	Data []byte `mc:"rest"`
}

func (RegistryData) PacketID() int32 { return 0x07 }

// ClientboundKnownPacks advertises the data-pack set backing registry
// contents (clientbound 0x0E); this core always advertises zero packs,
// which is a legal (if minimal) response under the protocol.
type ClientboundKnownPacks struct {
	Data []byte `mc:"rest"`
}

func (ClientboundKnownPacks) PacketID() int32 { return 0x0E }

// FinishConfiguration has no body (clientbound 0x03).
type FinishConfiguration struct{}

func (FinishConfiguration) PacketID() int32 { return 0x03 }

// AcknowledgeFinishConfiguration has no body; receiving it transitions
// Configuration→Play (serverbound 0x03).
type AcknowledgeFinishConfiguration struct{}

func (AcknowledgeFinishConfiguration) PacketID() int32 { return 0x03 }
