// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package gen

import (
	"testing"

	"github.com/cobblegames/strata/world"
	"github.com/cobblegames/strata/world/biome"
)

func testConfig() world.Config {
	return world.Config{
		WidthTiles:  2048,
		HeightTiles: 1024,
		ChunkSize:   32,
		TileSize:    8,
		LoadRadius:  2,
		Seed:        42,
		PlanetType:  "temperate",
		FloorTile:   "stone",
	}
}

func testGenerator(t *testing.T) (*Generator, *world.TileRegistry, *biome.Registry) {
	t.Helper()
	tiles, err := world.NewTileRegistry([]world.TileDef{
		{Name: "air"},
		{Name: "grass", Autotile: "grass", Solid: true},
		{Name: "dirt", Autotile: "dirt", Solid: true},
		{Name: "stone", Autotile: "stone", Solid: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	biomes, err := biome.LoadRegistry([]byte(`{"biomes": [
		{"name": "meadow", "surface_block": "grass", "subsurface_block": "dirt", "subsurface_depth": 4, "fill_block": "stone", "cave_threshold": 0.3},
		{"name": "forest", "surface_block": "grass", "subsurface_block": "dirt", "subsurface_depth": 5, "fill_block": "stone", "cave_threshold": 0.3},
		{"name": "rocky", "surface_block": "stone", "subsurface_block": "stone", "subsurface_depth": 3, "fill_block": "stone", "cave_threshold": 0.35}
	]}`), tiles)
	if err != nil {
		t.Fatal(err)
	}
	planet := &biome.PlanetConfig{
		Name:               "temperate",
		PrimaryBiome:       "meadow",
		SecondaryBiomes:    []string{"forest", "rocky"},
		RegionWidthMin:     300,
		RegionWidthMax:     600,
		PrimaryRegionRatio: 0.6,
		Surface:            biome.BandParams{Frequency: 0.008, Amplitude: 24},
		Underground:        biome.BandParams{PrimaryBiome: "rocky", Frequency: 0.05},
		DeepUnderground:    biome.BandParams{PrimaryBiome: "rocky", Frequency: 0.06},
		Core:               biome.BandParams{PrimaryBiome: "rocky", Frequency: 0.04},
	}
	cfg := testConfig()
	bmap, err := biome.GenerateMap(planet, uint64(cfg.Seed), cfg.WidthTiles, biomes)
	if err != nil {
		t.Fatal(err)
	}
	return New(cfg, planet, biomes, bmap), tiles, biomes
}

func TestSurfaceHeightDeterministic(t *testing.T) {
	g, _, _ := testGenerator(t)
	if a, b := g.SurfaceHeight(100), g.SurfaceHeight(100); a != b {
		t.Errorf("SurfaceHeight(100) unstable: %d vs %d", a, b)
	}
}

func TestSurfaceHeightWithinBounds(t *testing.T) {
	g, _, _ := testGenerator(t)
	cfg := testConfig()
	for x := 0; x < cfg.WidthTiles; x++ {
		h := g.SurfaceHeight(x)
		if h < 0 || h >= cfg.HeightTiles {
			t.Fatalf("surface at x=%d is %d, outside [0, %d)", x, h, cfg.HeightTiles)
		}
	}
}

func TestSurfaceHeightWrapsSeamlessly(t *testing.T) {
	g, _, _ := testGenerator(t)
	cfg := testConfig()
	if a, b := g.SurfaceHeight(0), g.SurfaceHeight(cfg.WidthTiles); a != b {
		t.Errorf("SurfaceHeight(0) = %d but SurfaceHeight(width) = %d", a, b)
	}
	if a, b := g.SurfaceHeight(-1), g.SurfaceHeight(cfg.WidthTiles-1); a != b {
		t.Errorf("SurfaceHeight(-1) = %d but SurfaceHeight(width-1) = %d", a, b)
	}
}

func TestAboveSurfaceIsAir(t *testing.T) {
	g, _, _ := testGenerator(t)
	h := g.SurfaceHeight(500)
	if got := g.TileAt(500, h+1); got != world.Air {
		t.Errorf("tile just above surface = %d, want air", got)
	}
	if got := g.TileAt(500, h+10); got != world.Air {
		t.Errorf("tile well above surface = %d, want air", got)
	}
}

func TestSurfaceAndSubsurfaceBlocks(t *testing.T) {
	g, _, biomes := testGenerator(t)
	h := g.SurfaceHeight(500)
	b := biomes.Get(g.bmap.BiomeAt(500))
	if got := g.TileAt(500, h); got != b.Surface {
		t.Errorf("surface tile = %d, want %d", got, b.Surface)
	}
	if got := g.TileAt(500, h-1); got != b.Subsurface {
		t.Errorf("subsurface tile = %d, want %d", got, b.Subsurface)
	}
}

func TestDeepTilesAreFillOrCave(t *testing.T) {
	g, _, _ := testGenerator(t)
	stone, _ := g.biomes.ByName("rocky")
	fill := g.biomes.Get(stone).Fill
	for x := 0; x < 64; x++ {
		got := g.TileAt(x, 10)
		if got != fill && got != world.Air {
			t.Errorf("deep tile at x=%d is %d, want fill %d or air", x, got, fill)
		}
	}
}

func TestVerticalOutOfRangeIsAir(t *testing.T) {
	g, _, _ := testGenerator(t)
	cfg := testConfig()
	if got := g.TileAt(500, -1); got != world.Air {
		t.Errorf("TileAt below world = %d, want air", got)
	}
	if got := g.TileAt(500, cfg.HeightTiles); got != world.Air {
		t.Errorf("TileAt above world = %d, want air", got)
	}
}

func TestTileAtWraps(t *testing.T) {
	g, _, _ := testGenerator(t)
	cfg := testConfig()
	for y := 0; y < cfg.HeightTiles; y += 97 {
		if a, b := g.TileAt(-1, y), g.TileAt(cfg.WidthTiles-1, y); a != b {
			t.Errorf("y=%d: TileAt(-1) = %d but TileAt(width-1) = %d", y, a, b)
		}
		if a, b := g.TileAt(cfg.WidthTiles, y), g.TileAt(0, y); a != b {
			t.Errorf("y=%d: TileAt(width) = %d but TileAt(0) = %d", y, a, b)
		}
	}
}

func TestBackgroundFillsBelowSurface(t *testing.T) {
	g, _, biomes := testGenerator(t)
	for x := 0; x < 256; x++ {
		h := g.SurfaceHeight(x)
		fill := biomes.Get(g.bmap.BiomeAt(x)).Fill
		if got := g.BackgroundAt(x, h); got != fill {
			t.Fatalf("background at surface row (%d, %d) = %d, want fill %d", x, h, got, fill)
		}
		if got := g.BackgroundAt(x, h-1); got != fill {
			t.Fatalf("background just below surface (%d, %d) = %d, want fill %d", x, h-1, got, fill)
		}
		if got := g.BackgroundAt(x, h+1); got != world.Air {
			t.Errorf("background above surface (%d, %d) = %d, want air", x, h+1, got)
		}
		for y := 0; y <= h; y += 13 {
			if got := g.BackgroundAt(x, y); got == world.Air {
				t.Fatalf("background at (%d, %d) is air at or below the surface", x, y)
			}
		}
	}
}

func TestGenerateChunk(t *testing.T) {
	g, _, _ := testGenerator(t)
	cfg := testConfig()

	tiles := g.Generate(5, 10, world.LayerFg)
	if len(tiles) != cfg.ChunkSize*cfg.ChunkSize {
		t.Fatalf("chunk has %d tiles, want %d", len(tiles), cfg.ChunkSize*cfg.ChunkSize)
	}
	again := g.Generate(5, 10, world.LayerFg)
	for i := range tiles {
		if tiles[i] != again[i] {
			t.Fatalf("regenerated chunk differs at index %d: %d vs %d", i, tiles[i], again[i])
		}
	}

	// Chunk contents must match per-tile generation.
	baseX, baseY := 5*cfg.ChunkSize, 10*cfg.ChunkSize
	for ly := 0; ly < cfg.ChunkSize; ly++ {
		for lx := 0; lx < cfg.ChunkSize; lx++ {
			want := g.TileAt(baseX+lx, baseY+ly)
			if got := tiles[world.LocalIndex(lx, ly, cfg.ChunkSize)]; got != want {
				t.Fatalf("chunk tile (%d, %d) = %d, want %d", lx, ly, got, want)
			}
		}
	}
}
