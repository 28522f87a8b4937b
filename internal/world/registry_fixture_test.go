package world

import "testing"

func TestLoadRegistryFixtureOverridesDefaults(t *testing.T) {
	doc := []byte(`
blocks:
  - state_id: 0
    name: minecraft:air
    diggable: false
  - state_id: 1
    name: minecraft:stone
    hardness: 1.5
    diggable: true
    material: rock
materials:
  - name: rock
    tool_speeds:
      270: 2
item_to_block:
  - item_id: 1
    block_state: 1
creative_items: [1]
known_registries: ["minecraft:dimension_type"]
`)

	reg, err := LoadRegistryFixture(doc)
	if err != nil {
		t.Fatalf("LoadRegistryFixture: %v", err)
	}

	block, ok := reg.BlockByState(1)
	if !ok || block.Name != "minecraft:stone" || *block.Hardness != 1.5 {
		t.Fatalf("block = %+v, ok=%v", block, ok)
	}

	mat, ok := reg.Material("rock")
	if !ok || mat.ToolSpeeds[270] != 2 {
		t.Fatalf("material = %+v, ok=%v", mat, ok)
	}

	state, ok := reg.BlockStateForItem(1)
	if !ok || state != 1 {
		t.Fatalf("item mapping = %d, ok=%v", state, ok)
	}

	if len(reg.CreativeItemIDs()) != 1 || len(reg.KnownRegistries()) != 1 {
		t.Fatalf("expected fixture's creative items / known registries to be used verbatim")
	}
}
