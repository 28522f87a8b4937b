package world

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// registryFixture is the YAML shape an operator can ship to replace the
// bundled hardcoded block/material/item palette (NewDefaultRegistry)
// without a code change — grounded on the pack's yaml.v3-backed fixture/
// config loaders (udisondev-la2go, dmitrymodder-minewire).
type registryFixture struct {
	Blocks []struct {
		StateID  int32    `yaml:"state_id"`
		Name     string   `yaml:"name"`
		Hardness *float64 `yaml:"hardness"`
		Diggable bool     `yaml:"diggable"`
		Material string   `yaml:"material"`
	} `yaml:"blocks"`

	Materials []struct {
		Name       string           `yaml:"name"`
		ToolSpeeds map[int32]float64 `yaml:"tool_speeds"`
	} `yaml:"materials"`

	ItemToBlock []struct {
		ItemID     int32 `yaml:"item_id"`
		BlockState int32 `yaml:"block_state"`
	} `yaml:"item_to_block"`

	CreativeItems   []int32  `yaml:"creative_items"`
	KnownRegistries []string `yaml:"known_registries"`
}

// LoadRegistryFixture parses a YAML registry document (config.Config's
// optional RegistryFixturePath) into a Registry, replacing
// NewDefaultRegistry's hardcoded palette entirely.
func LoadRegistryFixture(data []byte) (Registry, error) {
	var fx registryFixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse registry fixture: %w", err)
	}

	r := &defaultRegistry{
		blocks:      make(map[int32]Block, len(fx.Blocks)),
		materials:   make(map[string]Material, len(fx.Materials)),
		itemToBlock: make(map[int32]int32, len(fx.ItemToBlock)),
	}
	for _, b := range fx.Blocks {
		r.blocks[b.StateID] = Block{
			StateID:  b.StateID,
			Name:     b.Name,
			Hardness: b.Hardness,
			Diggable: b.Diggable,
			Material: b.Material,
		}
	}
	for _, m := range fx.Materials {
		r.materials[m.Name] = Material{Name: m.Name, ToolSpeeds: m.ToolSpeeds}
	}
	for _, it := range fx.ItemToBlock {
		r.itemToBlock[it.ItemID] = it.BlockState
	}
	r.creativeItems = append([]int32(nil), fx.CreativeItems...)
	r.knownRegistries = append([]string(nil), fx.KnownRegistries...)

	return r, nil
}
