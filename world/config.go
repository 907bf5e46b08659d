// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the static world parameters.
// Loaded once at startup and treated as read-only afterwards.
type Config struct {
	WidthTiles  int     `yaml:"width_tiles"`
	HeightTiles int     `yaml:"height_tiles"`
	ChunkSize   int     `yaml:"chunk_size"`
	TileSize    float32 `yaml:"tile_size"`
	LoadRadius  int     `yaml:"chunk_load_radius"`
	Seed        int64   `yaml:"seed"`
	PlanetType  string  `yaml:"planet_type"`
	FloorTile   string  `yaml:"floor_tile"`
}

// LoadConfig parses and validates a YAML world config.
func LoadConfig(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse world config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return errors.New("world config: chunk_size must be positive")
	case c.WidthTiles <= 0 || c.WidthTiles%c.ChunkSize != 0:
		return errors.Errorf("world config: width_tiles %d must be a positive multiple of chunk_size %d", c.WidthTiles, c.ChunkSize)
	case c.HeightTiles <= 0 || c.HeightTiles%c.ChunkSize != 0:
		return errors.Errorf("world config: height_tiles %d must be a positive multiple of chunk_size %d", c.HeightTiles, c.ChunkSize)
	case c.TileSize <= 0:
		return errors.New("world config: tile_size must be positive")
	case c.LoadRadius < 0:
		return errors.New("world config: chunk_load_radius must not be negative")
	}
	return nil
}

func (c Config) WidthChunks() int {
	return c.WidthTiles / c.ChunkSize
}

func (c Config) HeightChunks() int {
	return c.HeightTiles / c.ChunkSize
}

// WrapTileX maps any tile x onto the cylinder, always non-negative.
func (c Config) WrapTileX(tileX int) int {
	return floorMod(tileX, c.WidthTiles)
}

// WrapChunkX maps any chunk x into [0, WidthChunks).
func (c Config) WrapChunkX(chunkX int) int {
	return floorMod(chunkX, c.WidthChunks())
}

// WrapDistX is the shortest horizontal distance between two tile columns
// on the cylinder.
func (c Config) WrapDistX(ax, bx int) int {
	d := floorMod(ax-bx, c.WidthTiles)
	if d > c.WidthTiles/2 {
		d = c.WidthTiles - d
	}
	return d
}

func (c Config) PixelWidth() float32 {
	return float32(c.WidthTiles) * c.TileSize
}

func (c Config) PixelHeight() float32 {
	return float32(c.HeightTiles) * c.TileSize
}
