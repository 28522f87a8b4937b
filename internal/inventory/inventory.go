// Package inventory is the Inventory Engine: server-authoritative slot
// resolution for supported ClickContainer modes, plus creative-mode
// direct writes and hand-placement item resolution.
package inventory

import (
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/player"
	"github.com/blockcraft/server/internal/protoerr"
)

// Engine resolves inventory clicks against a single player's Inventory.
// It holds no state of its own; every call is a pure function of the
// player and the click parameters — the server, not the client, is the
// authority on slot contents.
type Engine struct{}

func New() *Engine { return &Engine{} }

// SlotResult is returned for every modified slot, matching the
// SetContainerSlot packets the caller must emit.
type SlotResult struct {
	Slot  int16 // -1 means the cursor
	Stack player.ItemStack
}

// ClickResult summarizes the effect of one ClickContainer call.
type ClickResult struct {
	Resynced     bool // true: state id mismatch, full SetContainerContent required
	Changed      []SlotResult
	HeldChanged  bool // true: the held hotbar slot's stack changed
}

// Click resolves one ClickContainer invocation. window is assumed to be 0
// (the player inventory) — no other containers are in scope.
func (e *Engine) Click(p *player.Player, stateID int32, slot int16, button int8, mode int32) ClickResult {
	if uint32(stateID) != p.InventoryStateID() {
		return ClickResult{Resynced: true}
	}

	switch mode {
	case packet.ClickModePickup:
		return e.clickPickup(p, slot, button)
	case packet.ClickModeShift:
		return e.clickShift(p, slot)
	case packet.ClickModeNumberKey:
		return e.clickNumberKey(p, slot, button)
	case packet.ClickModeDrop:
		return e.clickDrop(p, slot, button)
	case packet.ClickModeDoubleClick:
		return e.clickDoubleClick(p, slot)
	default:
		// Modes 3 (middle-click pick-block) and 5 (drag) are not
		// implemented; treat as a no-op rather than an error so an
		// unsupported click never desyncs the client.
		return ClickResult{}
	}
}

func (e *Engine) bump(p *player.Player) {
	p.BumpInventoryState()
}

// clickPickup implements mode 0: button=0 left-swap cursor<->slot;
// button=1 right: if cursor non-empty, drop one (or stack by +1), else
// pick up half rounded up.
func (e *Engine) clickPickup(p *player.Player, slot int16, button int8) ClickResult {
	if slot == player.SlotOutside {
		return e.clickOutside(p, button)
	}

	cursor := p.CursorItem()
	target := p.Inventory.Slot(int(slot))

	if button == 0 {
		if cursor.StackableWith(target) {
			merged, leftover := merge(target, cursor)
			p.Inventory.SetSlot(int(slot), merged)
			p.SetCursorItem(leftover)
		} else {
			p.Inventory.SetSlot(int(slot), cursor)
			p.SetCursorItem(target)
		}
	} else {
		if !cursor.Empty() {
			if target.Empty() {
				one := cursor
				one.Count = 1
				p.Inventory.SetSlot(int(slot), one)
				cursor.Count--
				p.SetCursorItem(clampEmpty(cursor))
			} else if cursor.StackableWith(target) && int(target.Count) < player.MaxStackSize {
				target.Count++
				p.Inventory.SetSlot(int(slot), target)
				cursor.Count--
				p.SetCursorItem(clampEmpty(cursor))
			}
		} else if !target.Empty() {
			half := (target.Count + 1) / 2
			p.SetCursorItem(player.ItemStack{ItemID: target.ItemID, Count: half, Damage: target.Damage, NBT: target.NBT})
			target.Count -= half
			p.Inventory.SetSlot(int(slot), clampEmpty(target))
		}
	}

	e.bump(p)
	return e.resultFor(p, slot)
}

// clickOutside handles a click on slot=-999 (outside the window): a left
// click drops the whole cursor stack, a right click drops one.
func (e *Engine) clickOutside(p *player.Player, button int8) ClickResult {
	cursor := p.CursorItem()
	if cursor.Empty() {
		return ClickResult{}
	}
	if button == 0 {
		p.SetCursorItem(player.ItemStack{})
	} else {
		cursor.Count--
		p.SetCursorItem(clampEmpty(cursor))
	}
	e.bump(p)
	return ClickResult{Changed: []SlotResult{{Slot: -1, Stack: p.CursorItem()}}}
}

// clickShift implements mode 1: move the whole slot stack to the opposing
// area (hotbar<->main), filling compatible stacks first then the first
// empty slot.
func (e *Engine) clickShift(p *player.Player, slot int16) ClickResult {
	source := p.Inventory.Slot(int(slot))
	if source.Empty() {
		return ClickResult{}
	}

	var destStart, destEnd int
	if int(slot) >= player.SlotHotbarStart && int(slot) <= player.SlotHotbarEnd {
		destStart, destEnd = player.SlotMainStart, player.SlotMainEnd
	} else {
		destStart, destEnd = player.SlotHotbarStart, player.SlotHotbarEnd
	}

	changed := []SlotResult{}
	remaining := source

	for i := destStart; i <= destEnd && !remaining.Empty(); i++ {
		existing := p.Inventory.Slot(i)
		if existing.StackableWith(remaining) && int(existing.Count) < player.MaxStackSize {
			merged, leftover := merge(existing, remaining)
			p.Inventory.SetSlot(i, merged)
			changed = append(changed, SlotResult{Slot: int16(i), Stack: merged})
			remaining = leftover
		}
	}
	for i := destStart; i <= destEnd && !remaining.Empty(); i++ {
		if p.Inventory.Slot(i).Empty() {
			p.Inventory.SetSlot(i, remaining)
			changed = append(changed, SlotResult{Slot: int16(i), Stack: remaining})
			remaining = player.ItemStack{}
		}
	}

	p.Inventory.SetSlot(int(slot), remaining)
	changed = append(changed, SlotResult{Slot: slot, Stack: remaining})

	e.bump(p)
	return ClickResult{Changed: changed, HeldChanged: affectsHeld(p, slot, destStart, destEnd)}
}

// clickNumberKey implements mode 2: swap target slot with hotbar slot
// `button` (0..8).
func (e *Engine) clickNumberKey(p *player.Player, slot int16, button int8) ClickResult {
	hotbarSlot := player.SlotHotbarStart + int(button)
	if button < 0 || hotbarSlot > player.SlotHotbarEnd {
		return ClickResult{}
	}
	a := p.Inventory.Slot(int(slot))
	b := p.Inventory.Slot(hotbarSlot)
	p.Inventory.SetSlot(int(slot), b)
	p.Inventory.SetSlot(hotbarSlot, a)

	e.bump(p)
	return ClickResult{
		Changed: []SlotResult{
			{Slot: slot, Stack: b},
			{Slot: int16(hotbarSlot), Stack: a},
		},
		HeldChanged: hotbarSlot == player.SlotHotbarStart+int(p.HeldSlot()),
	}
}

// clickDrop implements mode 4: button=0 drop one, button=1 drop the whole
// stack. Dropped items are not modeled as world entities (no item-entity
// physics); only the slot-side bookkeeping is authoritative.
func (e *Engine) clickDrop(p *player.Player, slot int16, button int8) ClickResult {
	stack := p.Inventory.Slot(int(slot))
	if stack.Empty() {
		return ClickResult{}
	}
	if button == 1 {
		p.Inventory.SetSlot(int(slot), player.ItemStack{})
	} else {
		stack.Count--
		p.Inventory.SetSlot(int(slot), clampEmpty(stack))
	}
	e.bump(p)
	return e.resultFor(p, slot)
}

// clickDoubleClick implements mode 6: absorb all stackable matches for the
// cursor's item from the inventory until the cursor reaches 64.
func (e *Engine) clickDoubleClick(p *player.Player, slot int16) ClickResult {
	cursor := p.CursorItem()
	if cursor.Empty() {
		return ClickResult{}
	}
	changed := []SlotResult{}
	for i := player.SlotMainStart; i <= player.SlotHotbarEnd && int(cursor.Count) < player.MaxStackSize; i++ {
		existing := p.Inventory.Slot(i)
		if !existing.StackableWith(cursor) {
			continue
		}
		merged, leftover := merge(cursor, existing)
		cursor = merged
		p.Inventory.SetSlot(i, leftover)
		changed = append(changed, SlotResult{Slot: int16(i), Stack: leftover})
	}
	p.SetCursorItem(cursor)
	changed = append(changed, SlotResult{Slot: -1, Stack: cursor})
	_ = slot

	e.bump(p)
	return ClickResult{Changed: changed}
}

func (e *Engine) resultFor(p *player.Player, slot int16) ClickResult {
	return ClickResult{
		Changed: []SlotResult{
			{Slot: slot, Stack: p.Inventory.Slot(int(slot))},
			{Slot: -1, Stack: p.CursorItem()},
		},
		HeldChanged: int(slot) == player.SlotHotbarStart+int(p.HeldSlot()),
	}
}

func affectsHeld(p *player.Player, slot int16, destStart, destEnd int) bool {
	heldSlot := player.SlotHotbarStart + int(p.HeldSlot())
	return int(slot) == heldSlot || (heldSlot >= destStart && heldSlot <= destEnd)
}

// merge combines src into dst up to MaxStackSize, returning the merged
// destination stack and whatever could not fit back in src.
func merge(dst, src player.ItemStack) (merged, leftover player.ItemStack) {
	total := int(dst.Count) + int(src.Count)
	if total > player.MaxStackSize {
		dst.Count = player.MaxStackSize
		src.Count = int8(total - player.MaxStackSize)
		return dst, src
	}
	dst.Count = int8(total)
	return dst, player.ItemStack{}
}

func clampEmpty(s player.ItemStack) player.ItemStack {
	if s.Count <= 0 {
		return player.ItemStack{}
	}
	return s
}

// SetCreativeModeSlot is the creative-only direct write: writes stack
// verbatim into slot (or the cursor if slot=-1), refusing outside of
// Creative mode.
func SetCreativeModeSlot(p *player.Player, slot int16, stack player.ItemStack) error {
	if p.GameMode() != player.GameModeCreative {
		return protoerr.ErrUnexpectedPacket
	}
	if slot == -1 {
		p.SetCursorItem(stack)
	} else {
		p.Inventory.SetSlot(int(slot), stack)
	}
	p.BumpInventoryState()
	return nil
}

// ResolvePlacement maps the held item to a block state via the world
// registry and decrements the held stack by one in survival mode.
func ResolvePlacement(p *player.Player, stateForItem func(itemID int32) (int32, bool)) (blockState int32, err error) {
	held := p.HeldItem()
	if held.Empty() {
		return 0, protoerr.ErrUnknownItemForPlacement
	}
	state, ok := stateForItem(held.ItemID)
	if !ok {
		return 0, protoerr.ErrUnknownItemForPlacement
	}
	if p.GameMode() != player.GameModeCreative {
		held.Count--
		p.Inventory.SetSlot(player.SlotHotbarStart+int(p.HeldSlot()), clampEmpty(held))
		p.BumpInventoryState()
	}
	return state, nil
}
