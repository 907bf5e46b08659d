// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loader owns the chunk lifecycle: which chunks have spawned
// geometry, which need their meshes rebuilt, and in what order edits,
// bitmask updates and rebuilds happen within a frame.
package loader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/cobblegames/strata/mesh"
	"github.com/cobblegames/strata/world"
)

// DisplayCoord is an unwrapped chunk coordinate. Near the cylinder seam
// two display coordinates (for example -1 and widthChunks-1) refer to the
// same data chunk; each gets its own spawned geometry at its own origin.
type DisplayCoord struct {
	X, Y int
}

// Edit is one queued tile change in absolute tile coordinates.
type Edit struct {
	TileX, TileY int
	Layer        world.Layer
	Tile         world.TileId
}

// Renderer receives spawn and despawn calls for chunk geometry. Spawning a
// (coordinate, layer) pair that is already spawned replaces its mesh.
type Renderer interface {
	Spawn(dc DisplayCoord, layer world.Layer, m *mesh.Mesh, origin mgl32.Vec3)
	Despawn(dc DisplayCoord)
}

type meshKey struct {
	coord world.ChunkCoord
	layer world.Layer
}

// Manager drives per-frame chunk lifecycle around a moving viewpoint.
// Not safe for concurrent use; Tick is meant to run once per frame on the
// owning goroutine.
type Manager struct {
	cfg      world.Config
	store    *world.Store
	builder  *mesh.Builder
	renderer Renderer

	// RebuildCap bounds mesh rebuilds per tick; 0 means unbounded.
	// Chunks over the cap stay dirty and rebuild on later ticks.
	RebuildCap int

	loaded map[DisplayCoord]struct{}
	dirty  map[DisplayCoord]struct{}
	// Built meshes are cached per data coordinate, so the two display
	// instances of a seam chunk share one mesh per layer.
	meshes map[meshKey]*mesh.Mesh
	edits  []Edit
}

func NewManager(store *world.Store, builder *mesh.Builder, renderer Renderer) *Manager {
	return &Manager{
		cfg:      store.Config(),
		store:    store,
		builder:  builder,
		renderer: renderer,
		loaded:   make(map[DisplayCoord]struct{}),
		dirty:    make(map[DisplayCoord]struct{}),
		meshes:   make(map[meshKey]*mesh.Mesh),
	}
}

// QueueEdit defers a tile change to the next Tick so that a burst of edits
// is applied and re-meshed together.
func (m *Manager) QueueEdit(e Edit) {
	m.edits = append(m.edits, e)
}

// Loaded reports whether a display chunk currently has spawned geometry.
func (m *Manager) Loaded(dc DisplayCoord) bool {
	_, ok := m.loaded[dc]
	return ok
}

// LoadedCount returns the number of spawned display chunks.
func (m *Manager) LoadedCount() int {
	return len(m.loaded)
}

// DirtyCount returns the number of display chunks awaiting a mesh rebuild.
func (m *Manager) DirtyCount() int {
	return len(m.dirty)
}

// Tick advances the lifecycle one frame around a viewpoint in pixel
// coordinates: apply queued edits, update bitmasks, propagate dirt to
// loaded display chunks, then load/unload by radius, then rebuild.
// The order matters: a chunk edited and unloaded in the same frame must
// not be rebuilt, and a freshly loaded chunk is built in the same frame.
func (m *Manager) Tick(viewPX, viewPY float32) {
	m.applyEdits()
	m.updateLoaded(viewPX, viewPY)
	m.rebuildDirty()
}

func (m *Manager) applyEdits() {
	for _, e := range m.edits {
		if !m.applyEdit(e) {
			continue
		}
		for _, coord := range m.store.UpdateBitmasksAround(e.TileX, e.TileY, e.Layer) {
			m.markDirty(coord)
		}
	}
	m.edits = m.edits[:0]
}

// applyEdit validates and writes one edit. Rejections are silent no-ops:
// placement into empty space requires an adjacent anchor tile, and writes
// outside the vertical range are dropped.
func (m *Manager) applyEdit(e Edit) bool {
	current := m.store.GetOrGen(e.TileX, e.TileY, e.Layer)
	if current == e.Tile {
		return false
	}
	if current == world.Air && e.Tile != world.Air && !m.store.PlaceAllowed(e.TileX, e.TileY, e.Layer) {
		return false
	}
	return m.store.Set(e.TileX, e.TileY, e.Layer, e.Tile)
}

// markDirty flags every loaded display instance of a data chunk and drops
// the chunk's cached meshes.
func (m *Manager) markDirty(coord world.ChunkCoord) {
	delete(m.meshes, meshKey{coord, world.LayerFg})
	delete(m.meshes, meshKey{coord, world.LayerBg})
	for dc := range m.loaded {
		if m.cfg.WrapChunkX(dc.X) == coord.X && dc.Y == coord.Y {
			m.dirty[dc] = struct{}{}
		}
	}
}

// updateLoaded spawns chunks entering the load radius and despawns chunks
// leaving it. The radius is Chebyshev: a square of display chunks centered
// on the viewpoint's chunk, clipped to the world's vertical chunk range.
func (m *Manager) updateLoaded(viewPX, viewPY float32) {
	tileX, tileY := world.WorldToTile(viewPX, viewPY, m.cfg.TileSize)
	centerX, centerY := world.TileToChunk(tileX, tileY, m.cfg.ChunkSize)
	r := m.cfg.LoadRadius

	desired := make(map[DisplayCoord]struct{}, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		cy := centerY + dy
		if cy < 0 || cy >= m.cfg.HeightChunks() {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			desired[DisplayCoord{X: centerX + dx, Y: cy}] = struct{}{}
		}
	}

	for dc := range m.loaded {
		if _, ok := desired[dc]; !ok {
			m.renderer.Despawn(dc)
			delete(m.loaded, dc)
			delete(m.dirty, dc)
		}
	}
	for dc := range desired {
		if _, ok := m.loaded[dc]; ok {
			continue
		}
		m.spawn(dc)
		m.loaded[dc] = struct{}{}
	}
}

// spawn materializes one display chunk: generate on demand, compute the
// chunk's bitmasks if this is its first appearance, then hand both layer
// meshes to the renderer at the display origin.
func (m *Manager) spawn(dc DisplayCoord) {
	data := world.ChunkCoord{X: m.cfg.WrapChunkX(dc.X), Y: dc.Y}
	c := m.store.GetOrGenerate(data.X, data.Y)
	if !c.Clean() {
		m.store.RecomputeChunkBitmasks(data.X, data.Y)
	}

	origin := m.origin(dc)
	for _, l := range [...]world.Layer{world.LayerFg, world.LayerBg} {
		m.renderer.Spawn(dc, l, m.layerMesh(c, data, l), origin)
	}
}

func (m *Manager) layerMesh(c *world.ChunkData, data world.ChunkCoord, l world.Layer) *mesh.Mesh {
	key := meshKey{data, l}
	if cached, ok := m.meshes[key]; ok {
		return cached
	}
	built := m.builder.Build(c, data, l)
	m.meshes[key] = built
	return built
}

func (m *Manager) origin(dc DisplayCoord) mgl32.Vec3 {
	span := float32(m.cfg.ChunkSize) * m.cfg.TileSize
	return mgl32.Vec3{float32(dc.X) * span, float32(dc.Y) * span, 0}
}

func (m *Manager) rebuildDirty() {
	n := 0
	for dc := range m.dirty {
		if m.RebuildCap > 0 && n >= m.RebuildCap {
			break
		}
		data := world.ChunkCoord{X: m.cfg.WrapChunkX(dc.X), Y: dc.Y}
		c, ok := m.store.Resident(data.X, data.Y)
		if !ok {
			delete(m.dirty, dc)
			continue
		}
		origin := m.origin(dc)
		for _, l := range [...]world.Layer{world.LayerFg, world.LayerBg} {
			m.renderer.Spawn(dc, l, m.layerMesh(c, data, l), origin)
		}
		delete(m.dirty, dc)
		n++
	}
}
