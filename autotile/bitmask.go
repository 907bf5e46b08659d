// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package autotile

// Neighbor bit layout of the 8-bit bitmask.
const (
	BitN  uint8 = 1
	BitNE uint8 = 2
	BitE  uint8 = 4
	BitSE uint8 = 8
	BitS  uint8 = 16
	BitSW uint8 = 32
	BitW  uint8 = 64
	BitNW uint8 = 128
)

// Compute returns the neighbor bitmask for the tile at (x, y).
// Diagonal bits only count when both adjacent cardinal neighbors are
// occupied (the Blob47 convention), so a lone diagonal neighbor never
// produces a corner sprite.
func Compute(occupied func(x, y int) bool, x, y int) uint8 {
	n := occupied(x, y+1)
	e := occupied(x+1, y)
	s := occupied(x, y-1)
	w := occupied(x-1, y)

	var mask uint8
	if n {
		mask |= BitN
	}
	if e {
		mask |= BitE
	}
	if s {
		mask |= BitS
	}
	if w {
		mask |= BitW
	}

	if n && e && occupied(x+1, y+1) {
		mask |= BitNE
	}
	if s && e && occupied(x+1, y-1) {
		mask |= BitSE
	}
	if s && w && occupied(x-1, y-1) {
		mask |= BitSW
	}
	if n && w && occupied(x-1, y+1) {
		mask |= BitNW
	}

	return mask
}
