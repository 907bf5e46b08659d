// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package autotile

import (
	"log"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is the runtime lookup table for one autotile group: a dense
// 256-slot bitmask-to-variants map plus the group's column in the combined
// atlas (assigned once when the atlas is stitched).
type Entry struct {
	Column   int
	variants [256][]Variant
}

// VariantsFor returns the variant list for a bitmask, falling back to the
// bitmask-0 (isolated) list when the requested bitmask has no mapping.
// The result may still be empty if the group defines no isolated sprite.
func (e *Entry) VariantsFor(mask uint8) []Variant {
	if v := e.variants[mask]; len(v) > 0 {
		return v
	}
	return e.variants[0]
}

// Asset is the on-disk JSON form of an autotile group. Bitmask keys are
// decimal strings because JSON objects cannot have integer keys.
type Asset struct {
	TileSize  int `json:"tile_size"`
	AtlasRows int `json:"atlas_rows"`
	Tiles     map[string]struct {
		Variants []Variant `json:"variants"`
	} `json:"tiles"`
}

// ParseAsset parses a raw autotile group file.
func ParseAsset(raw []byte) (*Asset, error) {
	var a Asset
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.Wrap(err, "parse autotile asset")
	}
	if a.TileSize <= 0 || a.AtlasRows <= 0 {
		return nil, errors.Errorf("autotile asset: bad dimensions %dx%d", a.TileSize, a.AtlasRows)
	}
	return &a, nil
}

// NewEntry builds the dense runtime table from an asset and the group's
// assigned atlas column.
func NewEntry(a *Asset, column int) (*Entry, error) {
	e := &Entry{Column: column}
	for key, mapping := range a.Tiles {
		mask, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "autotile asset: bitmask key %q", key)
		}
		for _, v := range mapping.Variants {
			if v.Row < 0 || v.Row >= a.AtlasRows {
				return nil, errors.Errorf("autotile asset: bitmask %d row %d outside atlas (%d rows)", mask, v.Row, a.AtlasRows)
			}
			if v.Weight <= 0 {
				return nil, errors.Errorf("autotile asset: bitmask %d has non-positive weight", mask)
			}
		}
		e.variants[mask] = mapping.Variants
	}
	return e, nil
}

// Registry maps autotile group names to their entries. A group name that
// does not resolve is a content mismatch: it is logged once and the tile
// renders nothing.
type Registry struct {
	entries map[string]*Entry
	warned  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		warned:  make(map[string]struct{}),
	}
}

func (r *Registry) Add(group string, e *Entry) {
	r.entries[group] = e
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Has reports whether a group is registered, without the unknown-group log.
func (r *Registry) Has(group string) bool {
	_, ok := r.entries[group]
	return ok
}

// Resolve looks up a group by name. Unknown groups are logged on first
// encounter and reported as absent.
func (r *Registry) Resolve(group string) (*Entry, bool) {
	e, ok := r.entries[group]
	if !ok {
		if _, seen := r.warned[group]; !seen {
			r.warned[group] = struct{}{}
			log.Printf("autotile: unknown group %q, tiles will not render", group)
		}
	}
	return e, ok
}
