// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TileId is a compact tile type identifier, an index into the TileRegistry.
type TileId uint16

// Air is the reserved empty tile. It is always id 0.
const Air TileId = 0

// TileDef describes one tile type. Gameplay scalars (hardness, friction,
// damage) are carried for collaborators but not interpreted by this engine.
type TileDef struct {
	Name            string  `json:"name"`
	Autotile        string  `json:"autotile,omitempty"` // empty means the tile renders nothing
	Solid           bool    `json:"solid"`
	Hardness        float32 `json:"hardness"`
	Friction        float32 `json:"friction"`
	DamageOnContact float32 `json:"damage_on_contact,omitempty"`
}

// TileRegistry resolves tile names to dense ids once at load time so the
// per-frame paths never touch strings.
type TileRegistry struct {
	defs   []TileDef
	byName map[string]TileId
}

// NewTileRegistry builds a registry from an ordered definition list.
// The first definition must be the non-solid empty tile.
func NewTileRegistry(defs []TileDef) (*TileRegistry, error) {
	if len(defs) == 0 {
		return nil, errors.New("tile registry: no definitions")
	}
	if defs[0].Solid || defs[0].Autotile != "" {
		return nil, errors.Errorf("tile registry: first tile %q must be empty and non-solid", defs[0].Name)
	}
	byName := make(map[string]TileId, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, errors.Errorf("tile registry: tile %d has no name", i)
		}
		if _, ok := byName[def.Name]; ok {
			return nil, errors.Errorf("tile registry: duplicate tile %q", def.Name)
		}
		byName[def.Name] = TileId(i)
	}
	return &TileRegistry{defs: defs, byName: byName}, nil
}

// LoadTileRegistry parses a JSON definition list.
func LoadTileRegistry(raw []byte) (*TileRegistry, error) {
	var file struct {
		Tiles []TileDef `json:"tiles"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "parse tile registry")
	}
	return NewTileRegistry(file.Tiles)
}

func (r *TileRegistry) Len() int {
	return len(r.defs)
}

func (r *TileRegistry) Get(id TileId) *TileDef {
	return &r.defs[id]
}

func (r *TileRegistry) Solid(id TileId) bool {
	return r.defs[id].Solid
}

// AutotileGroup returns the tile's autotile group name, or "" if the tile
// renders nothing.
func (r *TileRegistry) AutotileGroup(id TileId) string {
	return r.defs[id].Autotile
}

func (r *TileRegistry) ByName(name string) (TileId, bool) {
	id, ok := r.byName[name]
	return id, ok
}
