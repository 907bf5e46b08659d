// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/cobblegames/strata/autotile"
	"github.com/cobblegames/strata/world"
)

// Mesh is one chunk layer's geometry: a quad per rendered tile, indexed as
// two triangles. Positions are local to the chunk's origin so the same
// mesh can be placed at either display position of a seam chunk.
type Mesh struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// Quads reports how many tile quads the mesh contains.
func (m *Mesh) Quads() int {
	return len(m.Positions) / 4
}

// Builder assembles chunk meshes. Its scratch buffers are reused across
// builds; Build copies them into the returned Mesh.
type Builder struct {
	tiles     *world.TileRegistry
	autotiles *autotile.Registry
	atlas     Params
	chunkSize int
	tileSize  float32
	seed      int64

	positions []mgl32.Vec3
	uvs       []mgl32.Vec2
	indices   []uint32
}

func NewBuilder(cfg world.Config, tiles *world.TileRegistry, autotiles *autotile.Registry, atlas Params) *Builder {
	n := cfg.ChunkSize * cfg.ChunkSize
	return &Builder{
		tiles:     tiles,
		autotiles: autotiles,
		atlas:     atlas,
		chunkSize: cfg.ChunkSize,
		tileSize:  cfg.TileSize,
		seed:      cfg.Seed,
		positions: make([]mgl32.Vec3, 0, n*4),
		uvs:       make([]mgl32.Vec2, 0, n*4),
		indices:   make([]uint32, 0, n*6),
	}
}

// Build produces the mesh of one chunk layer. dataCoord is the chunk's
// wrapped data coordinate; it feeds variant selection so a seam chunk's
// two display instances pick identical sprites. Air tiles, tiles without
// an autotile group and groups missing from the registry emit nothing.
func (b *Builder) Build(c *world.ChunkData, dataCoord world.ChunkCoord, layer world.Layer) *Mesh {
	b.positions = b.positions[:0]
	b.uvs = b.uvs[:0]
	b.indices = b.indices[:0]

	l := c.Layer(layer)
	baseX := dataCoord.X * b.chunkSize
	baseY := dataCoord.Y * b.chunkSize

	for ly := 0; ly < b.chunkSize; ly++ {
		for lx := 0; lx < b.chunkSize; lx++ {
			idx := world.LocalIndex(lx, ly, b.chunkSize)
			id := l.Tiles[idx]
			if id == world.Air {
				continue
			}
			group := b.tiles.AutotileGroup(id)
			if group == "" {
				continue
			}
			entry, ok := b.autotiles.Resolve(group)
			if !ok {
				continue
			}
			variants := entry.VariantsFor(l.Bitmasks[idx])
			if len(variants) == 0 {
				continue
			}

			row := autotile.Select(variants, baseX+lx, baseY+ly, b.seed, uint8(layer))
			uMin, uMax, vMin, vMax := b.atlas.UV(entry.Column, row)

			px := float32(lx) * b.tileSize
			py := float32(ly) * b.tileSize
			vi := uint32(len(b.positions))

			b.positions = append(b.positions,
				mgl32.Vec3{px, py, 0},
				mgl32.Vec3{px + b.tileSize, py, 0},
				mgl32.Vec3{px + b.tileSize, py + b.tileSize, 0},
				mgl32.Vec3{px, py + b.tileSize, 0},
			)
			// v flipped: atlas row 0 is at the top of the texture.
			b.uvs = append(b.uvs,
				mgl32.Vec2{uMin, vMax},
				mgl32.Vec2{uMax, vMax},
				mgl32.Vec2{uMax, vMin},
				mgl32.Vec2{uMin, vMin},
			)
			b.indices = append(b.indices, vi, vi+1, vi+2, vi, vi+2, vi+3)
		}
	}

	m := &Mesh{
		Positions: make([]mgl32.Vec3, len(b.positions)),
		UVs:       make([]mgl32.Vec2, len(b.uvs)),
		Indices:   make([]uint32, len(b.indices)),
	}
	copy(m.Positions, b.positions)
	copy(m.UVs, b.uvs)
	copy(m.Indices, b.indices)
	return m
}
