// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package biome

import (
	"sort"

	"github.com/pkg/errors"
)

// splitMix64 is a tiny deterministic RNG. math/rand would work, but its
// stream is not guaranteed stable across Go releases and region layout
// must reproduce exactly from a saved seed.
type splitMix64 struct {
	state uint64
}

func (r *splitMix64) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// intn returns a value in [lo, hi] inclusive.
func (r *splitMix64) intn(lo, hi int) int {
	return lo + int(r.next()%uint64(hi-lo+1))
}

// Region is one contiguous horizontal span of a single biome.
type Region struct {
	Biome  Id
	StartX int
	Width  int
}

// Map partitions the world's width into biome regions. Regions are
// contiguous, cover the full width, and no two adjacent regions share a
// biome, the wrap seam between the last and first region included.
type Map struct {
	Regions    []Region
	WorldWidth int
}

// GenerateMap lays out biome regions for one planet. The result is a pure
// function of (planet config, seed, world width).
func GenerateMap(p *PlanetConfig, seed uint64, worldWidth int, biomes *Registry) (*Map, error) {
	if err := p.Validate(biomes); err != nil {
		return nil, err
	}
	if worldWidth < p.RegionWidthMin {
		return nil, errors.Errorf("biome map: world width %d below minimum region width %d", worldWidth, p.RegionWidthMin)
	}

	rng := &splitMix64{state: seed}

	// Palette of every surface biome, used when repairs need a substitute.
	palette := append([]string{p.PrimaryBiome}, p.SecondaryBiomes...)

	avgWidth := (p.RegionWidthMin + p.RegionWidthMax) / 2
	regionCount := worldWidth / avgWidth
	if regionCount < 2 {
		regionCount = 2
	}

	primarySlots := int(float64(regionCount)*p.PrimaryRegionRatio + 0.5)
	if primarySlots < 1 {
		primarySlots = 1
	}
	if primarySlots > regionCount {
		primarySlots = regionCount
	}

	names := make([]string, 0, regionCount)
	for i := 0; i < primarySlots; i++ {
		names = append(names, p.PrimaryBiome)
	}
	for i := 0; i < regionCount-primarySlots; i++ {
		names = append(names, p.SecondaryBiomes[i%len(p.SecondaryBiomes)])
	}

	// Fisher-Yates.
	for i := len(names) - 1; i >= 1; i-- {
		j := rng.intn(0, i)
		names[i], names[j] = names[j], names[i]
	}

	fixAdjacentDuplicates(names, palette, rng)
	fixWrapSeam(names, palette, rng)

	// Random widths, then stretch or shrink so they sum exactly to the
	// world width.
	widths := make([]int, regionCount)
	sum := 0
	for i := range widths {
		widths[i] = rng.intn(p.RegionWidthMin, p.RegionWidthMax)
		sum += widths[i]
	}
	if sum <= worldWidth {
		widths[regionCount-1] += worldWidth - sum
	} else {
		excess := sum - worldWidth
		for i := regionCount - 1; i >= 0 && excess > 0; i-- {
			shrink := widths[i] - 1
			if shrink > excess {
				shrink = excess
			}
			widths[i] -= shrink
			excess -= shrink
		}
		if excess > 0 {
			return nil, errors.Errorf("biome map: cannot fit %d regions of width >= 1 into world width %d", regionCount, worldWidth)
		}
	}

	m := &Map{
		Regions:    make([]Region, 0, regionCount),
		WorldWidth: worldWidth,
	}
	startX := 0
	for i, name := range names {
		id, _ := biomes.ByName(name)
		m.Regions = append(m.Regions, Region{Biome: id, StartX: startX, Width: widths[i]})
		startX += widths[i]
	}
	return m, nil
}

// BiomeAt returns the biome at a tile x-coordinate. The coordinate is
// wrapped, so display coordinates are accepted.
func (m *Map) BiomeAt(tileX int) Id {
	return m.Regions[m.regionIndexAt(tileX)].Biome
}

func (m *Map) regionIndexAt(tileX int) int {
	wrapped := tileX % m.WorldWidth
	if wrapped < 0 {
		wrapped += m.WorldWidth
	}
	// Last region whose StartX <= wrapped.
	i := sort.Search(len(m.Regions), func(i int) bool {
		return m.Regions[i].StartX > wrapped
	})
	if i > 0 {
		i--
	}
	return i
}

// fixAdjacentDuplicates repairs runs of identical biomes left by the
// shuffle. It prefers swapping with a slot elsewhere in the ring; when no
// swap is safe it substitutes a palette biome differing from both
// neighbors.
func fixAdjacentDuplicates(names, palette []string, rng *splitMix64) {
	n := len(names)
	if n < 2 {
		return
	}
	for i := 1; i < n; i++ {
		if names[i] != names[i-1] {
			continue
		}
		swapped := false
		for offset := 1; offset < n; offset++ {
			j := (i + offset) % n
			if j == 0 {
				// Leave slot 0 alone so earlier repairs stay valid.
				continue
			}
			nextOfJ := (j + 1) % n
			prevOfJ := j - 1
			if names[j] != names[i-1] &&
				(i+1 >= n || names[j] != names[i+1]) &&
				names[i] != names[prevOfJ] &&
				(nextOfJ == i || names[i] != names[nextOfJ]) {
				names[i], names[j] = names[j], names[i]
				swapped = true
				break
			}
		}
		if !swapped {
			prev := names[i-1]
			next := prev
			if i+1 < n {
				next = names[i+1]
			}
			var candidates []string
			for _, b := range palette {
				if b != prev && b != next {
					candidates = append(candidates, b)
				}
			}
			if len(candidates) > 0 {
				names[i] = candidates[rng.next()%uint64(len(candidates))]
			}
		}
	}
}

// fixWrapSeam makes the first and last regions differ so the cylinder seam
// never joins two regions of the same biome.
func fixWrapSeam(names, palette []string, rng *splitMix64) {
	n := len(names)
	if n < 3 || names[0] != names[n-1] {
		return
	}
	for j := 1; j < n-1; j++ {
		prevOfJ := j - 1
		if names[j] != names[n-2] &&
			names[j] != names[0] &&
			names[n-1] != names[prevOfJ] &&
			(j+1 >= n-1 || names[n-1] != names[j+1]) {
			names[j], names[n-1] = names[n-1], names[j]
			return
		}
	}
	var candidates []string
	for _, b := range palette {
		if b != names[0] && b != names[n-2] {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) > 0 {
		names[n-1] = candidates[rng.next()%uint64(len(candidates))]
	}
}
