// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mesh turns chunk tile data into renderable vertex buffers and
// stitches per-tile-group sprite sheets into one combined atlas.
package mesh

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Params describes the combined atlas layout. Each autotile group occupies
// one column of Rows sprites; a sprite is TileSize pixels square.
type Params struct {
	TileSize int
	Rows     int
	Columns  int
}

func (p Params) Width() int {
	return p.Columns * p.TileSize
}

func (p Params) Height() int {
	return p.Rows * p.TileSize
}

// UV returns the texture rectangle of one sprite as (uMin, uMax, vMin,
// vMax) in [0, 1]. Edges are inset by half a texel so neighboring sprites
// never bleed through under linear filtering.
func (p Params) UV(column, row int) (float32, float32, float32, float32) {
	ts := float32(p.TileSize)
	w := float32(p.Width())
	h := float32(p.Height())
	const half = 0.5

	uMin := (float32(column)*ts + half) / w
	uMax := (float32(column)*ts + ts - half) / w
	vMin := (float32(row)*ts + half) / h
	vMax := (float32(row)*ts + ts - half) / h
	return uMin, uMax, vMin, vMax
}

// BuildAtlas stitches ordered per-group sprite columns into one image.
// Each source must be a single column of p.Rows sprites; smaller sources
// are rescaled with nearest-neighbor to keep pixel art crisp. The column
// index of sources[i] is i.
func BuildAtlas(sources []image.Image, p Params) (*image.RGBA, error) {
	if len(sources) != p.Columns {
		return nil, errors.Errorf("atlas: %d sources for %d columns", len(sources), p.Columns)
	}
	atlas := image.NewRGBA(image.Rect(0, 0, p.Width(), p.Height()))
	for i, src := range sources {
		dst := image.Rect(i*p.TileSize, 0, (i+1)*p.TileSize, p.Height())
		if b := src.Bounds(); b.Dx() == p.TileSize && b.Dy() == p.Height() {
			draw.Draw(atlas, dst, src, b.Min, draw.Src)
		} else {
			draw.NearestNeighbor.Scale(atlas, dst, src, src.Bounds(), draw.Src, nil)
		}
	}
	return atlas, nil
}
