// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package autotile

// Variant is one weighted sprite alternative for a bitmask value.
// Row is the sprite's row within the tile group's atlas column.
type Variant struct {
	Row    int     `json:"row"`
	Weight float32 `json:"weight"`
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// Hash mixes a tile position, the world seed and a layer discriminator into
// [0, 1). It is the only source of per-tile randomness for variant
// selection, so the same tile always renders the same variant across frames
// and across the two display positions of a seam chunk. The layer
// discriminator keeps foreground and background instances of the same tile
// type from always picking identical variants.
func Hash(x, y int, seed int64, layer uint8) float32 {
	h := uint32(fnvOffset32)
	h ^= uint32(int32(x))
	h *= fnvPrime32
	h ^= uint32(int32(y))
	h *= fnvPrime32
	h ^= uint32(seed) ^ uint32(uint64(seed)>>32)
	h *= fnvPrime32
	h ^= uint32(layer) + 1
	h *= fnvPrime32
	return float32(float64(h) / (1 << 32))
}

// Select picks a variant row from a weighted list, deterministically per
// position. The list must not be empty.
func Select(variants []Variant, x, y int, seed int64, layer uint8) int {
	if len(variants) == 1 {
		return variants[0].Row
	}

	var total float32
	for _, v := range variants {
		total += v.Weight
	}
	threshold := Hash(x, y, seed, layer) * total

	var cumulative float32
	for _, v := range variants {
		cumulative += v.Weight
		if cumulative >= threshold {
			return v.Row
		}
	}
	return variants[len(variants)-1].Row
}
