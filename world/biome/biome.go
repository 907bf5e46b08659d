// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package biome

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/cobblegames/strata/world"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Id is a dense biome identifier, an index into the Registry.
type Id uint8

// Def is the runtime palette of one biome. Tile names from the asset file
// are resolved to ids once at load time.
type Def struct {
	Name            string
	Surface         world.TileId
	Subsurface      world.TileId
	SubsurfaceDepth int
	Fill            world.TileId
	CaveThreshold   float64
}

// asset is the on-disk JSON form of a biome.
type asset struct {
	Name            string  `json:"name"`
	SurfaceBlock    string  `json:"surface_block"`
	SubsurfaceBlock string  `json:"subsurface_block"`
	SubsurfaceDepth int     `json:"subsurface_depth"`
	FillBlock       string  `json:"fill_block"`
	CaveThreshold   float64 `json:"cave_threshold"`
}

// Registry holds all loaded biome definitions.
type Registry struct {
	defs   []Def
	byName map[string]Id
}

// LoadRegistry parses biome assets and resolves their tile names against
// the tile registry.
func LoadRegistry(raw []byte, tiles *world.TileRegistry) (*Registry, error) {
	var file struct {
		Biomes []asset `json:"biomes"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "parse biome registry")
	}
	if len(file.Biomes) == 0 {
		return nil, errors.New("biome registry: no biomes")
	}

	r := &Registry{
		defs:   make([]Def, 0, len(file.Biomes)),
		byName: make(map[string]Id, len(file.Biomes)),
	}
	resolve := func(biome, tile string) (world.TileId, error) {
		id, ok := tiles.ByName(tile)
		if !ok {
			return world.Air, errors.Errorf("biome %q: unknown tile %q", biome, tile)
		}
		return id, nil
	}
	for _, a := range file.Biomes {
		if _, ok := r.byName[a.Name]; ok {
			return nil, errors.Errorf("biome registry: duplicate biome %q", a.Name)
		}
		surface, err := resolve(a.Name, a.SurfaceBlock)
		if err != nil {
			return nil, err
		}
		subsurface, err := resolve(a.Name, a.SubsurfaceBlock)
		if err != nil {
			return nil, err
		}
		fill, err := resolve(a.Name, a.FillBlock)
		if err != nil {
			return nil, err
		}
		r.byName[a.Name] = Id(len(r.defs))
		r.defs = append(r.defs, Def{
			Name:            a.Name,
			Surface:         surface,
			Subsurface:      subsurface,
			SubsurfaceDepth: a.SubsurfaceDepth,
			Fill:            fill,
			CaveThreshold:   a.CaveThreshold,
		})
	}
	return r, nil
}

func (r *Registry) Len() int {
	return len(r.defs)
}

func (r *Registry) Get(id Id) *Def {
	return &r.defs[id]
}

func (r *Registry) ByName(name string) (Id, bool) {
	id, ok := r.byName[name]
	return id, ok
}
