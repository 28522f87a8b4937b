package player

import "sync"

// Slot layout constants for window 0 (the player inventory), fixed by the
// wire protocol.
const (
	SlotCraftResult = 0
	SlotCraftStart  = 1
	SlotCraftEnd    = 4

	SlotArmorStart = 5
	SlotArmorEnd   = 8
	SlotHelmet     = 5
	SlotChestplate = 6
	SlotLeggings   = 7
	SlotBoots      = 8

	SlotMainStart = 9
	SlotMainEnd   = 35

	SlotHotbarStart = 36
	SlotHotbarEnd   = 44

	SlotOffhand = 45

	SlotCount = 46

	// SlotOutside is the synthetic slot index a click outside the window
	// bounds reports; it never resolves to a real array index.
	SlotOutside = -999
)

// ItemStack is a non-empty item occupying a slot, or the zero value for an
// empty slot (Count == 0).
type ItemStack struct {
	ItemID int32
	Count  int8
	Damage int16
	// NBT is an opaque component/NBT blob carried verbatim and never parsed
	// by the core, only passed through.
	NBT []byte
}

// Empty reports whether the stack represents an empty slot.
func (s ItemStack) Empty() bool { return s.Count <= 0 }

// MaxStackSize is fixed at 64 for every item; a real registry could vary
// it per item (e.g. tools cap at 1), but this server doesn't distinguish.
const MaxStackSize = 64

// StackableWith reports whether two stacks can be merged (same item, same
// NBT, neither is empty).
func (s ItemStack) StackableWith(o ItemStack) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	if s.ItemID != o.ItemID || s.Damage != o.Damage {
		return false
	}
	return string(s.NBT) == string(o.NBT)
}

// Inventory is the fixed 46-slot array backing window 0: crafting result,
// crafting grid, armor, main, hotbar, offhand.
type Inventory struct {
	mu    sync.RWMutex
	slots [SlotCount]ItemStack
}

func NewInventory() *Inventory {
	return &Inventory{}
}

func (inv *Inventory) Slot(i int) ItemStack {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.slots[i]
}

func (inv *Inventory) SetSlot(i int, s ItemStack) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.slots[i] = s
}

// Snapshot returns a copy of every slot, window-index order.
func (inv *Inventory) Snapshot() [SlotCount]ItemStack {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.slots
}

// ApplyLoadout overwrites every slot with the given contents.
func (inv *Inventory) ApplyLoadout(slots [SlotCount]ItemStack) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.slots = slots
}

// DefaultLoadout seeds a small survival starter kit: a wooden tool and
// nothing else, so a fresh player isn't bare-handed when mining.
func (inv *Inventory) DefaultLoadout() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.slots[SlotHotbarStart] = ItemStack{ItemID: ItemWoodenPickaxe, Count: 1}
}

// Item id constants used by the in-memory registry and tests. Real servers
// source these from registry data; this server hardcodes a small palette
// sufficient to drive its test scenarios.
const (
	ItemStone         int32 = 1
	ItemWoodenPickaxe int32 = 270
	ItemDiamondPickaxe int32 = 278
)
