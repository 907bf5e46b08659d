// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package biome

import "github.com/pkg/errors"

// Band is a vertical slice of the world, selected by the fraction
// tileY / heightTiles.
type Band uint8

const (
	BandCore Band = iota
	BandDeepUnderground
	BandUnderground
	BandSurface
)

// Band boundaries as fractions of world height, from the bottom up.
const (
	coreTop            = 0.12
	deepUndergroundTop = 0.37
	undergroundTop     = 0.70
)

// BandFor returns the vertical band containing tileY.
func BandFor(tileY, heightTiles int) Band {
	ratio := float64(tileY) / float64(heightTiles)
	switch {
	case ratio < coreTop:
		return BandCore
	case ratio < deepUndergroundTop:
		return BandDeepUnderground
	case ratio < undergroundTop:
		return BandUnderground
	default:
		return BandSurface
	}
}

// BandParams are the per-band generation parameters. The surface band's
// biome comes from the region map; lower bands each use one fixed biome.
type BandParams struct {
	PrimaryBiome string  `json:"primary_biome,omitempty"`
	Frequency    float64 `json:"frequency"`
	Amplitude    float64 `json:"amplitude,omitempty"`
}

// PlanetConfig describes one planet type: which biomes appear, how wide
// their surface regions are, and the per-band noise parameters.
type PlanetConfig struct {
	Name               string     `json:"name"`
	PrimaryBiome       string     `json:"primary_biome"`
	SecondaryBiomes    []string   `json:"secondary_biomes"`
	RegionWidthMin     int        `json:"region_width_min"`
	RegionWidthMax     int        `json:"region_width_max"`
	PrimaryRegionRatio float64    `json:"primary_region_ratio"`
	Surface            BandParams `json:"surface"`
	Underground        BandParams `json:"underground"`
	DeepUnderground    BandParams `json:"deep_underground"`
	Core               BandParams `json:"core"`
}

// BandParams returns the parameters for a vertical band.
func (p *PlanetConfig) BandParams(b Band) *BandParams {
	switch b {
	case BandCore:
		return &p.Core
	case BandDeepUnderground:
		return &p.DeepUnderground
	case BandUnderground:
		return &p.Underground
	default:
		return &p.Surface
	}
}

// LoadPlanets parses the planet type list.
func LoadPlanets(raw []byte) ([]PlanetConfig, error) {
	var file struct {
		Planets []PlanetConfig `json:"planets"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "parse planet configs")
	}
	if len(file.Planets) == 0 {
		return nil, errors.New("planet configs: no planets")
	}
	return file.Planets, nil
}

// PlanetByName finds a planet type in a loaded list.
func PlanetByName(planets []PlanetConfig, name string) (*PlanetConfig, error) {
	for i := range planets {
		if planets[i].Name == name {
			return &planets[i], nil
		}
	}
	return nil, errors.Errorf("planet configs: unknown planet type %q", name)
}

// Validate checks the fields the region map generator depends on.
func (p *PlanetConfig) Validate(biomes *Registry) error {
	if p.RegionWidthMin <= 0 || p.RegionWidthMax < p.RegionWidthMin {
		return errors.Errorf("planet %q: bad region widths [%d, %d]", p.Name, p.RegionWidthMin, p.RegionWidthMax)
	}
	if len(p.SecondaryBiomes) == 0 {
		return errors.Errorf("planet %q: needs at least one secondary biome", p.Name)
	}
	names := append([]string{p.PrimaryBiome}, p.SecondaryBiomes...)
	for _, band := range [...]*BandParams{&p.Underground, &p.DeepUnderground, &p.Core} {
		if band.PrimaryBiome == "" {
			return errors.Errorf("planet %q: lower bands need a primary biome", p.Name)
		}
		names = append(names, band.PrimaryBiome)
	}
	for _, n := range names {
		if _, ok := biomes.ByName(n); !ok {
			return errors.Errorf("planet %q: unknown biome %q", p.Name, n)
		}
	}
	return nil
}
