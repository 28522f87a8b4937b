package world

// Block describes one block state's mining-relevant properties. This is a
// minimal in-memory stand-in for real registry content (biome/terrain
// generation, full block palettes are out of scope) sufficient to drive
// the core end to end.
type Block struct {
	StateID      int32
	Name         string
	Hardness     *float64 // nil = unbreakable (e.g. bedrock)
	Diggable     bool
	Material     string
	HarvestTools map[int32]bool // itemID -> drops on break; nil = any tool works
}

// Material groups per-tool break-speed multipliers.
type Material struct {
	Name       string
	ToolSpeeds map[int32]float64
}

// Registry is the external collaborator that owns block/material/item
// data, assumed preloaded. The core depends only on this interface;
// NewDefaultRegistry below is a reference implementation.
type Registry interface {
	BlockByState(stateID int32) (Block, bool)
	Material(name string) (Material, bool)
	BlockStateForItem(itemID int32) (int32, bool)
	CreativeItemIDs() []int32
	KnownRegistries() []string
}

type defaultRegistry struct {
	blocks         map[int32]Block
	materials      map[string]Material
	itemToBlock    map[int32]int32
	creativeItems  []int32
	knownRegistries []string
}

// NewDefaultRegistry builds the small hardcoded block/material/item palette
// used by the bundled flat-world reference WorldStore: stone, bedrock,
// dirt, a wooden and a diamond pickaxe.
func NewDefaultRegistry() Registry {
	hardnessStone := 1.5
	hardnessDirt := 0.5

	r := &defaultRegistry{
		blocks: map[int32]Block{
			BlockStateAir:    {StateID: BlockStateAir, Name: "minecraft:air", Diggable: false},
			BlockStateStone:  {StateID: BlockStateStone, Name: "minecraft:stone", Hardness: &hardnessStone, Diggable: true, Material: "rock"},
			BlockStateDirt:   {StateID: BlockStateDirt, Name: "minecraft:dirt", Hardness: &hardnessDirt, Diggable: true, Material: "dirt"},
			BlockStateBedrock: {StateID: BlockStateBedrock, Name: "minecraft:bedrock", Hardness: nil, Diggable: false},
		},
		materials: map[string]Material{
			"rock": {Name: "rock", ToolSpeeds: map[int32]float64{
				itemWoodenPickaxe:  2,
				itemDiamondPickaxe: 8,
			}},
			"dirt": {Name: "dirt", ToolSpeeds: map[int32]float64{
				itemWoodenShovel: 2,
			}},
		},
		itemToBlock: map[int32]int32{
			itemStoneBlock: BlockStateStone,
			itemDirtBlock:  BlockStateDirt,
		},
		creativeItems: []int32{itemStoneBlock, itemDirtBlock, itemWoodenPickaxe, itemDiamondPickaxe, itemWoodenShovel},
		knownRegistries: []string{
			"minecraft:dimension_type",
			"minecraft:worldgen/biome",
			"minecraft:chat_type",
			"minecraft:trim_pattern",
			"minecraft:trim_material",
			"minecraft:wolf_variant",
			"minecraft:painting_variant",
			"minecraft:damage_type",
			"minecraft:banner_pattern",
			"minecraft:enchantment",
		},
	}
	return r
}

func (r *defaultRegistry) BlockByState(stateID int32) (Block, bool) {
	b, ok := r.blocks[stateID]
	return b, ok
}

func (r *defaultRegistry) Material(name string) (Material, bool) {
	m, ok := r.materials[name]
	return m, ok
}

func (r *defaultRegistry) BlockStateForItem(itemID int32) (int32, bool) {
	s, ok := r.itemToBlock[itemID]
	return s, ok
}

func (r *defaultRegistry) CreativeItemIDs() []int32 {
	out := make([]int32, len(r.creativeItems))
	copy(out, r.creativeItems)
	return out
}

func (r *defaultRegistry) KnownRegistries() []string {
	out := make([]string, len(r.knownRegistries))
	copy(out, r.knownRegistries)
	return out
}

// Block state and item ids for the bundled reference registry. A real
// deployment sources these from generated game data (see cmd/codegen).
const (
	BlockStateAir     int32 = 0
	BlockStateStone   int32 = 1
	BlockStateDirt    int32 = 2
	BlockStateBedrock int32 = 3

	itemStoneBlock     int32 = 1
	itemDirtBlock       int32 = 2
	itemWoodenPickaxe   int32 = 270
	itemWoodenShovel    int32 = 269
	itemDiamondPickaxe  int32 = 278
)
