// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gen is the procedural terrain source. Everything here is a pure
// function of (seed, coordinate), so any chunk can be regenerated at any
// time and match what the cache held before.
package gen

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/cobblegames/strata/world"
	"github.com/cobblegames/strata/world/biome"
)

// surfaceBase places the mean surface line as a fraction of world height.
const surfaceBase = 0.70

const (
	perlinAlpha = 2
	perlinBeta  = 2
	perlinN     = 3
)

// Generator produces terrain tiles. It implements world.Source.
type Generator struct {
	cfg    world.Config
	planet *biome.PlanetConfig
	biomes *biome.Registry
	bmap   *biome.Map

	// Noise instances are cached; constructing a perlin permutation table
	// per tile would dominate generation time.
	surface *perlin.Perlin
	cave    *perlin.Perlin
}

// New builds a generator. The cave noise is seeded one off the surface
// noise so the two fields are uncorrelated.
func New(cfg world.Config, planet *biome.PlanetConfig, biomes *biome.Registry, bmap *biome.Map) *Generator {
	return &Generator{
		cfg:     cfg,
		planet:  planet,
		biomes:  biomes,
		bmap:    bmap,
		surface: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, cfg.Seed),
		cave:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, cfg.Seed+1),
	}
}

// cylinderPoint maps a tile x-coordinate onto a circle in noise space.
// Sampling around the circle instead of along a line is what makes the
// terrain wrap seamlessly: x and x+width land on the same point.
func (g *Generator) cylinderPoint(tileX int, frequency float64) (float64, float64) {
	angle := float64(tileX) / float64(g.cfg.WidthTiles) * 2 * math.Pi
	radius := float64(g.cfg.WidthTiles) * frequency / (2 * math.Pi)
	return radius * math.Cos(angle), radius * math.Sin(angle)
}

// SurfaceHeight returns the terrain surface tile y at a column. Exposed so
// spawn placement and the preview renderer can find the ground.
func (g *Generator) SurfaceHeight(tileX int) int {
	p := g.planet.BandParams(biome.BandSurface)
	nx, ny := g.cylinderPoint(tileX, p.Frequency)
	base := surfaceBase * float64(g.cfg.HeightTiles)
	return int(base + g.surface.Noise2D(nx, ny)*p.Amplitude)
}

// TileAt generates the foreground tile at an absolute tile coordinate.
// Vertical out-of-range is air; x wraps.
func (g *Generator) TileAt(tileX, tileY int) world.TileId {
	if tileY < 0 || tileY >= g.cfg.HeightTiles {
		return world.Air
	}
	tileX = g.cfg.WrapTileX(tileX)

	surfaceY := g.SurfaceHeight(tileX)
	if tileY > surfaceY {
		return world.Air
	}

	// Surface and subsurface always come from the surface biome even when
	// the terrain dips below a band boundary, so cliffs do not change
	// material mid-column.
	surfaceBiome := g.biomes.Get(g.bmap.BiomeAt(tileX))
	if tileY == surfaceY {
		return surfaceBiome.Surface
	}
	if tileY > surfaceY-surfaceBiome.SubsurfaceDepth {
		return surfaceBiome.Subsurface
	}

	band := biome.BandFor(tileY, g.cfg.HeightTiles)
	b := g.bandBiome(band, tileX)
	freq := g.planet.BandParams(band).Frequency
	nx, ny := g.cylinderPoint(tileX, freq)
	caveVal := g.cave.Noise3D(nx, ny, float64(tileY)*freq)
	if math.Abs(caveVal) < b.CaveThreshold {
		return world.Air
	}
	return b.Fill
}

// BackgroundAt generates the background tile at an absolute tile
// coordinate. The background is the fill block everywhere at or below the
// surface line, never carved by caves, so open caverns show a wall behind
// them. Air appears only strictly above the surface.
func (g *Generator) BackgroundAt(tileX, tileY int) world.TileId {
	if tileY < 0 || tileY >= g.cfg.HeightTiles {
		return world.Air
	}
	tileX = g.cfg.WrapTileX(tileX)

	if tileY > g.SurfaceHeight(tileX) {
		return world.Air
	}
	band := biome.BandFor(tileY, g.cfg.HeightTiles)
	return g.bandBiome(band, tileX).Fill
}

// bandBiome resolves which biome governs caves and fill at a position: the
// region map on the surface band, the planet's fixed biome below.
func (g *Generator) bandBiome(band biome.Band, tileX int) *biome.Def {
	if band == biome.BandSurface {
		return g.biomes.Get(g.bmap.BiomeAt(tileX))
	}
	id, _ := g.biomes.ByName(g.planet.BandParams(band).PrimaryBiome)
	return g.biomes.Get(id)
}

// Generate produces one chunk layer, row-major. Implements world.Source.
func (g *Generator) Generate(chunkX, chunkY int, layer world.Layer) []world.TileId {
	size := g.cfg.ChunkSize
	baseX := chunkX * size
	baseY := chunkY * size
	tiles := make([]world.TileId, size*size)

	at := g.TileAt
	if layer == world.LayerBg {
		at = g.BackgroundAt
	}
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			tiles[world.LocalIndex(lx, ly, size)] = at(baseX+lx, baseY+ly)
		}
	}
	return tiles
}
