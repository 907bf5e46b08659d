// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/chewxy/math32"

// ChunkCoord identifies a chunk of tile data. Used as the data key into the
// Store, so X is always stored wrapped. Display positions near the seam use
// a separate unwrapped coordinate (see loader.DisplayCoord).
type ChunkCoord struct {
	X, Y int
}

// TileToChunk returns the chunk containing the given tile (floor division).
func TileToChunk(tileX, tileY, chunkSize int) (int, int) {
	return floorDiv(tileX, chunkSize), floorDiv(tileY, chunkSize)
}

// TileToLocal returns the tile's position within its chunk, always in
// [0, chunkSize).
func TileToLocal(tileX, tileY, chunkSize int) (int, int) {
	return floorMod(tileX, chunkSize), floorMod(tileY, chunkSize)
}

// WorldToTile converts a world pixel position to tile coordinates.
func WorldToTile(px, py, tileSize float32) (int, int) {
	return int(math32.Floor(px / tileSize)), int(math32.Floor(py / tileSize))
}

// LocalIndex is the row-major index of a local tile position.
func LocalIndex(localX, localY, chunkSize int) int {
	return localY*chunkSize + localX
}

// floorDiv rounds towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod is the Euclidean remainder, always in [0, b) for b > 0.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (a < 0) != (b < 0) {
		m += b
	}
	return m
}
