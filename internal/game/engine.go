package game

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"blockworld/internal/meshing"
	"blockworld/internal/profiling"
	"blockworld/internal/world"
)

// Engine glues the world, chunk loader and async mesh builder together.
// Block and chunk events arrive from input or the network, are written
// through to the world, and leave a trail of dirty columns; each Update tick
// flushes the dirty set into the builder and drains completed meshes to the
// renderer under the frame budget.
type Engine struct {
	world    *world.World
	loader   *world.ChunkLoader
	builder  *meshing.AsyncChunkMeshBuilder
	renderer Renderer
	log      *zap.Logger

	dirtyMu sync.Mutex
	dirty   map[world.ChunkPos]struct{}

	posMu     sync.Mutex
	playerPos mgl32.Vec3
}

// NewEngine wires the engine into the loader's unload callback so GPU-side
// cleanup and mesh bookkeeping follow chunk eviction.
func NewEngine(w *world.World, loader *world.ChunkLoader, builder *meshing.AsyncChunkMeshBuilder, renderer Renderer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		world:    w,
		loader:   loader,
		builder:  builder,
		renderer: renderer,
		log:      log,
		dirty:    make(map[world.ChunkPos]struct{}),
	}

	prev := loader.OnChunkUnloaded
	loader.OnChunkUnloaded = func(pos world.ChunkPos) {
		e.dropChunk(pos)
		if prev != nil {
			prev(pos)
		}
	}
	return e
}

// World returns the engine's world.
func (e *Engine) World() *world.World {
	return e.world
}

// MarkDirty flags a column for remeshing on the next Update.
func (e *Engine) MarkDirty(pos world.ChunkPos) {
	e.dirtyMu.Lock()
	e.dirty[pos] = struct{}{}
	e.dirtyMu.Unlock()
}

// NotifyBlockUpdate applies a single block edit and marks the owning column
// dirty. An edit on a column boundary also dirties the adjacent column,
// since face culling across the seam depends on the edited block.
func (e *Engine) NotifyBlockUpdate(x, y, z int, bt world.BlockType) {
	e.world.SetBlock(x, y, z, bt)

	pos := world.WorldToChunkPos(x, z)
	e.MarkDirty(pos)

	lx, _, lz := world.WorldToLocal(x, y, z)
	if lx == 0 {
		e.MarkDirty(world.ChunkPos{X: pos.X - 1, Z: pos.Z})
	} else if lx == world.ChunkSize-1 {
		e.MarkDirty(world.ChunkPos{X: pos.X + 1, Z: pos.Z})
	}
	if lz == 0 {
		e.MarkDirty(world.ChunkPos{X: pos.X, Z: pos.Z - 1})
	} else if lz == world.ChunkSize-1 {
		e.MarkDirty(world.ChunkPos{X: pos.X, Z: pos.Z + 1})
	}
}

// NotifyChunkReceived records that column data has arrived and marks the
// column plus its four horizontal neighbors dirty: the new data can reveal
// or hide faces on every seam.
func (e *Engine) NotifyChunkReceived(pos world.ChunkPos) {
	e.loader.MarkChunkLoaded(pos)
	e.MarkDirty(pos)
	for _, n := range pos.Neighbors4() {
		e.MarkDirty(n)
	}
}

// SetPlayerView feeds the player position into chunk loading decisions and
// forwards the camera to the renderer.
func (e *Engine) SetPlayerView(position mgl32.Vec3, rotation mgl32.Vec2) {
	e.posMu.Lock()
	e.playerPos = position
	e.posMu.Unlock()
	e.renderer.SetCamera(position, rotation)
}

// SelectBlock toggles the selection overlay on a block.
func (e *Engine) SelectBlock(x, y, z int, on bool) {
	e.renderer.HighlightBlock(mgl32.Vec3{float32(x), float32(y), float32(z)}, on)
}

// Update runs one tick: re-evaluate chunk residency, flush the dirty set
// into the mesh builder, then always drain completed meshes regardless of
// whether anything was enqueued. Production and consumption run on
// independent cadences.
func (e *Engine) Update(dt float64) {
	defer profiling.Track("engine.Update")()

	e.posMu.Lock()
	playerPos := e.playerPos
	e.posMu.Unlock()
	e.loader.Update(playerPos)

	e.flushDirty()
	e.builder.ProcessCompletedMeshes(e.renderer)
}

// flushDirty drains the whole dirty set into the builder. Positions the
// builder cannot accept this tick stay dirty for the next one.
func (e *Engine) flushDirty() {
	e.dirtyMu.Lock()
	pending := e.dirty
	e.dirty = make(map[world.ChunkPos]struct{})
	e.dirtyMu.Unlock()

	for pos := range pending {
		if !e.builder.EnqueueChunk(pos) {
			e.MarkDirty(pos)
		}
	}
}

// dropChunk cleans up after a column eviction.
func (e *Engine) dropChunk(pos world.ChunkPos) {
	e.dirtyMu.Lock()
	delete(e.dirty, pos)
	e.dirtyMu.Unlock()
	e.builder.ForgetChunk(pos)
	e.renderer.RemoveChunk(pos)
}

// Shutdown stops the mesh pipeline, waiting for workers to exit.
func (e *Engine) Shutdown() {
	e.builder.Shutdown()
}
