// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package data embeds the default game content and assembles it into the
// runtime registries.
package data

import (
	_ "embed"

	"github.com/pkg/errors"

	"github.com/cobblegames/strata/autotile"
	"github.com/cobblegames/strata/mesh"
	"github.com/cobblegames/strata/world"
	"github.com/cobblegames/strata/world/biome"
)

//go:embed world.yaml
var worldYaml []byte

//go:embed tiles.json
var tilesJson []byte

//go:embed biomes.json
var biomesJson []byte

//go:embed planets.json
var planetsJson []byte

//go:embed autotile/blob47.json
var blob47Json []byte

// Bundle is the fully loaded default content: config, registries and the
// derived biome map, ready to construct a generator and store from.
type Bundle struct {
	Config    world.Config
	Tiles     *world.TileRegistry
	Biomes    *biome.Registry
	Planets   []biome.PlanetConfig
	Planet    *biome.PlanetConfig
	BiomeMap  *biome.Map
	Autotiles *autotile.Registry
	Atlas     mesh.Params
}

// Load parses and cross-resolves all embedded content. Any inconsistency
// (unknown tile name, missing planet, malformed asset) fails loading as a
// whole; partial content is never returned.
func Load() (*Bundle, error) {
	cfg, err := world.LoadConfig(worldYaml)
	if err != nil {
		return nil, err
	}

	tiles, err := world.LoadTileRegistry(tilesJson)
	if err != nil {
		return nil, err
	}
	biomes, err := biome.LoadRegistry(biomesJson, tiles)
	if err != nil {
		return nil, err
	}
	planets, err := biome.LoadPlanets(planetsJson)
	if err != nil {
		return nil, err
	}
	planet, err := biome.PlanetByName(planets, cfg.PlanetType)
	if err != nil {
		return nil, err
	}
	bmap, err := biome.GenerateMap(planet, uint64(cfg.Seed), cfg.WidthTiles, biomes)
	if err != nil {
		return nil, err
	}

	asset, err := autotile.ParseAsset(blob47Json)
	if err != nil {
		return nil, err
	}
	// Every autotile group shares the blob layout; each gets its own atlas
	// column, assigned in tile registry order.
	autotiles := autotile.NewRegistry()
	column := 0
	for id := 0; id < tiles.Len(); id++ {
		group := tiles.AutotileGroup(world.TileId(id))
		if group == "" {
			continue
		}
		if autotiles.Has(group) {
			continue
		}
		entry, err := autotile.NewEntry(asset, column)
		if err != nil {
			return nil, errors.Wrapf(err, "autotile group %q", group)
		}
		autotiles.Add(group, entry)
		column++
	}

	return &Bundle{
		Config:    cfg,
		Tiles:     tiles,
		Biomes:    biomes,
		Planets:   planets,
		Planet:    planet,
		BiomeMap:  bmap,
		Autotiles: autotiles,
		Atlas: mesh.Params{
			TileSize: asset.TileSize,
			Rows:     asset.AtlasRows,
			Columns:  column,
		},
	}, nil
}
