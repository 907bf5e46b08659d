// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"testing"

	"github.com/cobblegames/strata/autotile"
)

// stripeSource fills the foreground with stone below groundY and gives
// every below-ground tile a dirt background.
type stripeSource struct {
	chunkSize int
	groundY   int
}

func (s *stripeSource) Generate(chunkX, chunkY int, layer Layer) []TileId {
	tiles := make([]TileId, s.chunkSize*s.chunkSize)
	baseY := chunkY * s.chunkSize
	for ly := 0; ly < s.chunkSize; ly++ {
		if baseY+ly >= s.groundY {
			continue
		}
		for lx := 0; lx < s.chunkSize; lx++ {
			id := TileId(1) // stone
			if layer == LayerBg {
				id = 2 // dirt
			}
			tiles[LocalIndex(lx, ly, s.chunkSize)] = id
		}
	}
	return tiles
}

func storeConfig() Config {
	return Config{
		WidthTiles:  2048,
		HeightTiles: 1024,
		ChunkSize:   32,
		TileSize:    8,
		LoadRadius:  3,
		Seed:        42,
		FloorTile:   "stone",
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	tiles, err := NewTileRegistry([]TileDef{
		{Name: "air"},
		{Name: "stone", Autotile: "stone", Solid: true},
		{Name: "dirt", Autotile: "dirt", Solid: true},
		{Name: "torch", Autotile: "torch", Solid: false},
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewStore(storeConfig(), tiles, &stripeSource{chunkSize: 32, groundY: 512})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewStoreUnknownFloorTile(t *testing.T) {
	tiles, err := NewTileRegistry([]TileDef{{Name: "air"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(storeConfig(), tiles, &stripeSource{chunkSize: 32}); err == nil {
		t.Error("store accepted an unknown floor tile")
	}
}

func TestGetOrGenerateCachesWrappedCoords(t *testing.T) {
	s := testStore(t)
	a := s.GetOrGenerate(63, 5)
	b := s.GetOrGenerate(-1, 5)
	c := s.GetOrGenerate(127, 5)
	if a != b || a != c {
		t.Error("wrapped chunk coordinates produced distinct chunks")
	}
	if s.ChunkCount() != 1 {
		t.Errorf("chunk count = %d, want 1", s.ChunkCount())
	}
}

func TestGetDoesNotGenerate(t *testing.T) {
	s := testStore(t)
	if _, ok := s.Get(100, 100, LayerFg); ok {
		t.Error("Get reported a tile from a non-resident chunk")
	}
	if s.ChunkCount() != 0 {
		t.Errorf("Get generated %d chunks", s.ChunkCount())
	}
	if got := s.GetOrGen(100, 100, LayerFg); got != 1 {
		t.Errorf("GetOrGen below ground = %d, want stone", got)
	}
	if got, ok := s.Get(100, 100, LayerFg); !ok || got != 1 {
		t.Errorf("Get after generation = (%d, %t), want (1, true)", got, ok)
	}
}

func TestVerticalSentinels(t *testing.T) {
	s := testStore(t)
	if got, ok := s.Get(0, -1, LayerFg); !ok || got != s.FloorTile() {
		t.Errorf("below world = (%d, %t), want floor tile %d", got, ok, s.FloorTile())
	}
	if got, ok := s.Get(0, 1024, LayerFg); !ok || got != Air {
		t.Errorf("above world = (%d, %t), want air", got, ok)
	}
	if !s.IsSolid(0, -1) {
		t.Error("below the world must be solid")
	}
	if s.IsSolid(0, 1024) {
		t.Error("above the world must not be solid")
	}
	if s.ChunkCount() != 0 {
		t.Error("sentinel reads generated chunks")
	}
}

func TestSetAndWrap(t *testing.T) {
	s := testStore(t)
	if !s.Set(-1, 600, LayerFg, 1) {
		t.Fatal("in-range Set rejected")
	}
	if got := s.GetOrGen(2047, 600, LayerFg); got != 1 {
		t.Errorf("tile at wrapped coordinate = %d, want 1", got)
	}
	if s.Set(0, -1, LayerFg, 1) || s.Set(0, 1024, LayerFg, 1) {
		t.Error("vertical out-of-range Set accepted")
	}
}

func TestRecomputeChunkBitmasks(t *testing.T) {
	s := testStore(t)
	// Chunk (1, 1) is fully below ground and surrounded by solid chunks.
	c := s.GetOrGenerate(1, 1)
	if c.Clean() {
		t.Fatal("fresh chunk already marked clean")
	}
	s.RecomputeChunkBitmasks(1, 1)
	if !c.Clean() {
		t.Fatal("recompute did not mark the chunk clean")
	}
	for i, m := range c.Fg.Bitmasks {
		if m != 255 {
			t.Fatalf("interior bitmask %d = %d, want 255", i, m)
		}
	}
	for i, m := range c.Bg.Bitmasks {
		if m != 255 {
			t.Fatalf("interior bg bitmask %d = %d, want 255", i, m)
		}
	}
}

func TestBitmasksAtSurfaceRow(t *testing.T) {
	s := testStore(t)
	// groundY is 512; the top solid row is 511 in chunk row 15.
	s.RecomputeChunkBitmasks(2, 15)
	c, _ := s.Resident(2, 15)
	lx, ly := TileToLocal(64, 511, 32)
	m := c.Fg.Bitmasks[LocalIndex(lx, ly, 32)]
	// Open above: everything except N, NE, NW.
	if want := uint8(255 &^ (1 | 2 | 128)); m != want {
		t.Errorf("surface row bitmask = %d, want %d", m, want)
	}
}

func TestOccupancyRules(t *testing.T) {
	s := testStore(t)
	// A torch is non-solid: it must not connect foreground neighbors.
	s.Set(100, 600, LayerFg, 1) // stone with air all around, except...
	s.Set(101, 600, LayerFg, 3) // a torch to its east
	s.UpdateBitmasksAround(100, 600, LayerFg)
	c, _ := s.Resident(3, 18)
	lx, ly := TileToLocal(100, 600, 32)
	if m := c.Fg.Bitmasks[LocalIndex(lx, ly, 32)]; m != 0 {
		t.Errorf("stone next to torch has bitmask %d, want 0", m)
	}

	// The same torch on the background layer counts: bg connects on presence.
	s.Set(100, 600, LayerBg, 1)
	s.Set(101, 600, LayerBg, 3)
	s.UpdateBitmasksAround(100, 600, LayerBg)
	lx, ly = TileToLocal(100, 600, 32)
	if m := c.Bg.Bitmasks[LocalIndex(lx, ly, 32)]; m != autotile.BitE {
		t.Errorf("bg tile next to bg torch has bitmask %d, want %d", m, autotile.BitE)
	}
}

func TestUpdateBitmasksAroundChunkCount(t *testing.T) {
	s := testStore(t)
	cases := []struct {
		name  string
		tileX int
		tileY int
		want  int
	}{
		{"interior", 48, 48, 1},
		{"vertical chunk edge", 64, 48, 2},
		{"horizontal chunk edge", 48, 64, 2},
		{"chunk corner", 64, 64, 4},
		{"seam edge", 0, 48, 2},
	}
	for _, c := range cases {
		touched := s.UpdateBitmasksAround(c.tileX, c.tileY, LayerFg)
		if len(touched) != c.want {
			t.Errorf("%s: touched %d chunks, want %d", c.name, len(touched), c.want)
		}
		seen := make(map[ChunkCoord]struct{})
		for _, coord := range touched {
			if _, dup := seen[coord]; dup {
				t.Errorf("%s: duplicate chunk %+v", c.name, coord)
			}
			seen[coord] = struct{}{}
		}
	}
}

func TestUpdateBitmasksAroundFloorAndCeiling(t *testing.T) {
	s := testStore(t)
	// Bottom row: neighborhood rows at y = -1 are skipped, not wrapped.
	touched := s.UpdateBitmasksAround(48, 0, LayerFg)
	if len(touched) != 1 {
		t.Errorf("bottom row edit touched %d chunks, want 1", len(touched))
	}
	touched = s.UpdateBitmasksAround(48, 1023, LayerFg)
	if len(touched) != 1 {
		t.Errorf("top row edit touched %d chunks, want 1", len(touched))
	}
}

func TestPlaceAllowed(t *testing.T) {
	s := testStore(t)
	// On the ground surface: solid below.
	if !s.PlaceAllowed(100, 512, LayerFg) {
		t.Error("placement on the ground rejected")
	}
	if !s.PlaceAllowed(100, 512, LayerBg) {
		t.Error("bg placement on the ground rejected")
	}
	// Mid-sky, no neighbors.
	if s.PlaceAllowed(100, 800, LayerFg) {
		t.Error("mid-air fg placement allowed")
	}
	if s.PlaceAllowed(100, 800, LayerBg) {
		t.Error("mid-air bg placement allowed")
	}
	// A lone torch neighbor is not solid, so fg placement stays rejected,
	// but its bg presence anchors both layers.
	s.Set(101, 800, LayerFg, 3)
	if s.PlaceAllowed(100, 800, LayerFg) {
		t.Error("non-solid fg neighbor anchored fg placement")
	}
	if !s.PlaceAllowed(100, 800, LayerBg) {
		t.Error("fg neighbor did not anchor bg placement")
	}
	s.Set(102, 801, LayerBg, 2)
	if !s.PlaceAllowed(102, 800, LayerFg) {
		t.Error("bg neighbor did not anchor fg placement")
	}
}
