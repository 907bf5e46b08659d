// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// Layer selects one of the two tile layers of a chunk.
// The foreground blocks movement; the background is purely visual.
type Layer uint8

const (
	LayerFg Layer = iota
	LayerBg
	LayerCount
)

func (l Layer) String() string {
	if l == LayerBg {
		return "bg"
	}
	return "fg"
}

// TileLayer is one layer of a chunk: tile ids plus the 8-bit neighbor
// bitmasks driving autotile variant selection. Both slices have length
// chunkSize² and are indexed row-major (LocalIndex).
type TileLayer struct {
	Tiles    []TileId
	Bitmasks []uint8
}

func newTileLayer(chunkSize int) TileLayer {
	n := chunkSize * chunkSize
	return TileLayer{
		Tiles:    make([]TileId, n),
		Bitmasks: make([]uint8, n),
	}
}

// ChunkData owns the two tile layers of one chunk. Freshly generated chunks
// have zeroed bitmasks until the first whole-chunk recompute marks them clean.
type ChunkData struct {
	Fg TileLayer
	Bg TileLayer

	masksClean bool
}

// NewChunkData allocates an empty chunk with both layers zeroed.
func NewChunkData(chunkSize int) *ChunkData {
	return &ChunkData{
		Fg: newTileLayer(chunkSize),
		Bg: newTileLayer(chunkSize),
	}
}

func (c *ChunkData) Layer(l Layer) *TileLayer {
	if l == LayerBg {
		return &c.Bg
	}
	return &c.Fg
}

// Clean reports whether the bitmasks reflect the current tile data.
func (c *ChunkData) Clean() bool {
	return c.masksClean
}
