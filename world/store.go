// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"github.com/pkg/errors"

	"github.com/cobblegames/strata/autotile"
)

// Source produces the tile ids of one chunk layer. Implementations must be
// pure functions of (coordinate, layer) so cached and regenerated chunks
// are identical.
type Source interface {
	Generate(chunkX, chunkY int, layer Layer) []TileId
}

// Store is the sparse chunk cache. Chunks are generated lazily on first
// access and never evicted; the whole world is regenerable from the seed,
// so only edited chunks carry state that matters.
//
// All horizontal coordinates are wrapped here and nowhere else: callers may
// pass display coordinates freely.
type Store struct {
	cfg    Config
	tiles  *TileRegistry
	source Source
	chunks map[ChunkCoord]*ChunkData
	floor  TileId
}

// NewStore resolves the configured floor tile and prepares an empty cache.
func NewStore(cfg Config, tiles *TileRegistry, source Source) (*Store, error) {
	floor, ok := tiles.ByName(cfg.FloorTile)
	if !ok {
		return nil, errors.Errorf("world store: unknown floor tile %q", cfg.FloorTile)
	}
	return &Store{
		cfg:    cfg,
		tiles:  tiles,
		source: source,
		chunks: make(map[ChunkCoord]*ChunkData),
		floor:  floor,
	}, nil
}

func (s *Store) Config() Config {
	return s.cfg
}

func (s *Store) Tiles() *TileRegistry {
	return s.tiles
}

// FloorTile is the sentinel returned for reads below the world.
func (s *Store) FloorTile() TileId {
	return s.floor
}

// ChunkCount reports how many chunks are resident.
func (s *Store) ChunkCount() int {
	return len(s.chunks)
}

// GetOrGenerate returns the chunk at the given coordinate, generating both
// layers on first access. Bitmasks of a fresh chunk are zero until
// RecomputeChunkBitmasks runs.
func (s *Store) GetOrGenerate(chunkX, chunkY int) *ChunkData {
	key := ChunkCoord{X: s.cfg.WrapChunkX(chunkX), Y: chunkY}
	if c, ok := s.chunks[key]; ok {
		return c
	}
	c := NewChunkData(s.cfg.ChunkSize)
	copy(c.Fg.Tiles, s.source.Generate(key.X, key.Y, LayerFg))
	copy(c.Bg.Tiles, s.source.Generate(key.X, key.Y, LayerBg))
	s.chunks[key] = c
	return c
}

// Resident returns the chunk at the given coordinate without generating.
func (s *Store) Resident(chunkX, chunkY int) (*ChunkData, bool) {
	c, ok := s.chunks[ChunkCoord{X: s.cfg.WrapChunkX(chunkX), Y: chunkY}]
	return c, ok
}

// Get reads a tile without forcing generation. The second result is false
// when the tile's chunk is not resident; vertical out-of-range reads always
// succeed with their sentinel value.
func (s *Store) Get(tileX, tileY int, l Layer) (TileId, bool) {
	if id, ok := s.sentinel(tileY); ok {
		return id, true
	}
	x := s.cfg.WrapTileX(tileX)
	cx, cy := TileToChunk(x, tileY, s.cfg.ChunkSize)
	c, ok := s.Resident(cx, cy)
	if !ok {
		return Air, false
	}
	lx, ly := TileToLocal(x, tileY, s.cfg.ChunkSize)
	return c.Layer(l).Tiles[LocalIndex(lx, ly, s.cfg.ChunkSize)], true
}

// GetOrGen reads a tile, generating its chunk on demand.
func (s *Store) GetOrGen(tileX, tileY int, l Layer) TileId {
	if id, ok := s.sentinel(tileY); ok {
		return id
	}
	x := s.cfg.WrapTileX(tileX)
	cx, cy := TileToChunk(x, tileY, s.cfg.ChunkSize)
	c := s.GetOrGenerate(cx, cy)
	lx, ly := TileToLocal(x, tileY, s.cfg.ChunkSize)
	return c.Layer(l).Tiles[LocalIndex(lx, ly, s.cfg.ChunkSize)]
}

// Set writes a tile, generating its chunk on demand. It does not touch
// bitmasks; callers batch edits and then invoke UpdateBitmasksAround so
// clustered edits are not recomputed redundantly. Vertical out-of-range
// writes are dropped.
func (s *Store) Set(tileX, tileY int, l Layer, id TileId) bool {
	if tileY < 0 || tileY >= s.cfg.HeightTiles {
		return false
	}
	x := s.cfg.WrapTileX(tileX)
	cx, cy := TileToChunk(x, tileY, s.cfg.ChunkSize)
	c := s.GetOrGenerate(cx, cy)
	lx, ly := TileToLocal(x, tileY, s.cfg.ChunkSize)
	c.Layer(l).Tiles[LocalIndex(lx, ly, s.cfg.ChunkSize)] = id
	return true
}

// IsSolid consults only the foreground layer; background tiles never block
// movement. Reads below the world are solid, reads above are not.
func (s *Store) IsSolid(tileX, tileY int) bool {
	if tileY < 0 {
		return true
	}
	if tileY >= s.cfg.HeightTiles {
		return false
	}
	return s.tiles.Solid(s.GetOrGen(tileX, tileY, LayerFg))
}

// sentinel resolves vertical out-of-range reads: a fixed floor tile below
// the world, air above it.
func (s *Store) sentinel(tileY int) (TileId, bool) {
	if tileY < 0 {
		return s.floor, true
	}
	if tileY >= s.cfg.HeightTiles {
		return Air, true
	}
	return Air, false
}

// occupied is the neighbor test feeding bitmask computation. The foreground
// connects on solidity; the background connects on mere presence, since
// background tiles are visual-only.
func (s *Store) occupied(tileX, tileY int, l Layer) bool {
	if tileY < 0 {
		return true
	}
	if tileY >= s.cfg.HeightTiles {
		return false
	}
	id := s.GetOrGen(tileX, tileY, l)
	if l == LayerBg {
		return id != Air
	}
	return s.tiles.Solid(id)
}

// RecomputeChunkBitmasks rebuilds every bitmask of both layers of a chunk
// and marks it clean. Called once per chunk before its first mesh build.
func (s *Store) RecomputeChunkBitmasks(chunkX, chunkY int) {
	cx := s.cfg.WrapChunkX(chunkX)
	c := s.GetOrGenerate(cx, chunkY)
	size := s.cfg.ChunkSize
	baseX := cx * size
	baseY := chunkY * size

	for _, l := range [...]Layer{LayerFg, LayerBg} {
		layer := c.Layer(l)
		test := func(x, y int) bool { return s.occupied(x, y, l) }
		for ly := 0; ly < size; ly++ {
			for lx := 0; lx < size; lx++ {
				layer.Bitmasks[LocalIndex(lx, ly, size)] = autotile.Compute(test, baseX+lx, baseY+ly)
			}
		}
	}
	c.masksClean = true
}

// UpdateBitmasksAround recomputes the bitmasks of an edited tile and its
// eight neighbors on one layer, generating neighbor chunks as needed, and
// returns the distinct chunk coordinates touched: one for an interior
// edit, two across a chunk edge, four at a chunk corner.
func (s *Store) UpdateBitmasksAround(tileX, tileY int, l Layer) []ChunkCoord {
	size := s.cfg.ChunkSize
	test := func(x, y int) bool { return s.occupied(x, y, l) }

	var touched []ChunkCoord
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			ny := tileY + dy
			if ny < 0 || ny >= s.cfg.HeightTiles {
				continue
			}
			nx := s.cfg.WrapTileX(tileX + dx)
			cx, cy := TileToChunk(nx, ny, size)
			c := s.GetOrGenerate(cx, cy)
			lx, ly := TileToLocal(nx, ny, size)
			c.Layer(l).Bitmasks[LocalIndex(lx, ly, size)] = autotile.Compute(test, nx, ny)

			coord := ChunkCoord{X: cx, Y: cy}
			seen := false
			for _, t := range touched {
				if t == coord {
					seen = true
					break
				}
			}
			if !seen {
				touched = append(touched, coord)
			}
		}
	}
	return touched
}

// PlaceAllowed enforces the adjacency rule for placing into empty space:
// the target's cardinal neighborhood must already contain a solid
// foreground tile or any background tile. Placement validation is policy,
// not an error; rejected edits are silent no-ops at the call site.
func (s *Store) PlaceAllowed(tileX, tileY int, l Layer) bool {
	for _, d := range [...][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := tileX+d[0], tileY+d[1]
		fg := s.GetOrGen(nx, ny, LayerFg)
		if l == LayerBg {
			// Background placement: any foreground or background presence.
			if fg != Air || s.GetOrGen(nx, ny, LayerBg) != Air {
				return true
			}
		} else {
			if s.tiles.Solid(fg) || s.GetOrGen(nx, ny, LayerBg) != Air {
				return true
			}
		}
	}
	return false
}
