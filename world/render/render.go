// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render draws a generated world to an image, one pixel per tile.
// Meant for tuning generation parameters, not for the game view.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cobblegames/strata/world"
	"github.com/cobblegames/strata/world/gen"
)

type ColorVec [3]float32

var (
	skyColor    = RGB(120, 170, 230)
	wallShade   = float32(0.55)
	defaultTile = Gray(200)

	// Palette keyed by tile name; unknown tiles fall back to gray.
	palette = map[string]ColorVec{
		"grass": RGB(90, 180, 30),
		"dirt":  RGB(120, 85, 50),
		"sand":  RGB(194, 178, 128),
		"stone": Gray(110),
		"rock":  Gray(90),
		"magma": RGB(200, 60, 20),
	}
)

// Render produces a full-world image. The foreground is drawn opaque; where
// it is carved away the background shows darkened, so caves read as such.
// The image's top row is the top of the world.
func Render(g *gen.Generator, cfg world.Config, tiles *world.TileRegistry) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, cfg.WidthTiles, cfg.HeightTiles))

	for x := 0; x < cfg.WidthTiles; x++ {
		for y := 0; y < cfg.HeightTiles; y++ {
			var c ColorVec
			if fg := g.TileAt(x, y); fg != world.Air {
				c = tileColor(tiles, fg)
			} else if bg := g.BackgroundAt(x, y); bg != world.Air {
				c = tileColor(tiles, bg).Mul(wallShade)
			} else {
				// Fade the sky toward the top of the world.
				f := float32(y) / float32(cfg.HeightTiles)
				c = skyColor.Lerp(skyColor.Mul(0.7), f)
			}
			img.Set(x, cfg.HeightTiles-1-y, c.Color())
		}
	}
	return img
}

func tileColor(tiles *world.TileRegistry, id world.TileId) ColorVec {
	if c, ok := palette[tiles.Get(id).Name]; ok {
		return c
	}
	return defaultTile
}

func Gray(v byte) ColorVec {
	return RGB(v, v, v)
}

func RGB(r, g, b byte) ColorVec {
	const factor = 1.0 / 255
	return ColorVec{float32(r) * factor, float32(g) * factor, float32(b) * factor}
}

func (vec ColorVec) String() string {
	return fmt.Sprintf("vec4(%.3f, %.3f, %.3f, 1.0)", vec[0], vec[1], vec[2])
}

func (vec ColorVec) Mul(v float32) ColorVec {
	vec[0] *= v
	vec[1] *= v
	vec[2] *= v
	return vec
}

func (vec ColorVec) Lerp(other ColorVec, factor float32) ColorVec {
	for i := range vec {
		vec[i] += (other[i] - vec[i]) * factor
	}
	return vec
}

func (vec ColorVec) Color() color.RGBA {
	return color.RGBA{R: floatToByte(vec[0]), G: floatToByte(vec[1]), B: floatToByte(vec[2]), A: 255}
}

func floatToByte(f float32) byte {
	if f < 0 {
		return 0
	}
	if f > 1.0 {
		return 255
	}
	return byte(f * 255)
}
