package world

import (
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Loader policy constants, in chunk units. UnloadDistance exceeds
// LoadDistance so a column just outside load range is not immediately
// re-requested after an unload.
const (
	DefaultRenderDistance = 8
	DefaultLoadDistance   = 10
	DefaultUnloadDistance = 12
)

// ChunkLoader decides which chunk columns should be resident based on the
// player position. It does not fetch chunk data itself: needed columns are
// reported through OnChunkRequestNeeded in one batch per update, closest
// first.
type ChunkLoader struct {
	world *World
	log   *zap.Logger

	loadDistance   float64
	unloadDistance float64

	// loaded is shared between the update tick and network chunk delivery
	// (MarkChunkLoaded), hence the mutex.
	loadedMu sync.Mutex
	loaded   map[ChunkPos]struct{}
	lastPos  mgl32.Vec3
	hasLast  bool

	// OnChunkRequestNeeded receives columns that should be fetched,
	// sorted by ascending distance from the player.
	OnChunkRequestNeeded func(positions []ChunkPos)
	// OnChunkUnloaded is notified after a column has been removed from the
	// world, for external cleanup.
	OnChunkUnloaded func(pos ChunkPos)
}

// NewChunkLoader creates a loader over the given world.
func NewChunkLoader(w *World, loadDistance, unloadDistance float64, log *zap.Logger) *ChunkLoader {
	if log == nil {
		log = zap.NewNop()
	}
	if unloadDistance <= loadDistance {
		unloadDistance = loadDistance + 2
	}
	return &ChunkLoader{
		world:          w,
		log:            log,
		loadDistance:   loadDistance,
		unloadDistance: unloadDistance,
		loaded:         make(map[ChunkPos]struct{}),
	}
}

// Update re-evaluates residency around the player. Moves shorter than one
// world unit since the previous qualifying update are ignored.
func (cl *ChunkLoader) Update(playerPos mgl32.Vec3) {
	if cl.hasLast && playerPos.Sub(cl.lastPos).Len() < 1.0 {
		return
	}
	cl.lastPos = playerPos
	cl.hasLast = true

	center := WorldToChunkPos(int(math.Floor(float64(playerPos.X()))), int(math.Floor(float64(playerPos.Z()))))

	cl.requestMissing(center)
	cl.unloadFar(center)
}

// requestMissing collects every in-range column that is neither tracked nor
// already present in the world and emits them in one batch, closest first.
func (cl *ChunkLoader) requestMissing(center ChunkPos) {
	r := int(math.Ceil(cl.loadDistance))
	var toRequest []ChunkPos
	cl.loadedMu.Lock()
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if !withinDistance(dx, dz, cl.loadDistance) {
				continue
			}
			pos := ChunkPos{X: center.X + dx, Z: center.Z + dz}
			if _, ok := cl.loaded[pos]; ok {
				continue
			}
			if cl.world.HasChunk(pos) {
				cl.loaded[pos] = struct{}{}
				continue
			}
			cl.loaded[pos] = struct{}{}
			toRequest = append(toRequest, pos)
		}
	}
	cl.loadedMu.Unlock()
	if len(toRequest) == 0 {
		return
	}

	sort.Slice(toRequest, func(i, j int) bool {
		return chunkDistSq(toRequest[i], center) < chunkDistSq(toRequest[j], center)
	})

	cl.log.Debug("requesting chunks", zap.Int("count", len(toRequest)))
	if cl.OnChunkRequestNeeded != nil {
		cl.OnChunkRequestNeeded(toRequest)
	}
}

// unloadFar removes tracked columns beyond the unload distance.
func (cl *ChunkLoader) unloadFar(center ChunkPos) {
	var evicted []ChunkPos
	cl.loadedMu.Lock()
	for pos := range cl.loaded {
		if withinDistance(pos.X-center.X, pos.Z-center.Z, cl.unloadDistance) {
			continue
		}
		delete(cl.loaded, pos)
		evicted = append(evicted, pos)
	}
	cl.loadedMu.Unlock()

	for _, pos := range evicted {
		cl.world.RemoveChunk(pos)
		cl.log.Debug("unloaded chunk", zap.Int("x", pos.X), zap.Int("z", pos.Z))
		if cl.OnChunkUnloaded != nil {
			cl.OnChunkUnloaded(pos)
		}
	}
}

// MarkChunkLoaded confirms that data for a previously requested column has
// arrived. Idempotent.
func (cl *ChunkLoader) MarkChunkLoaded(pos ChunkPos) {
	cl.loadedMu.Lock()
	cl.loaded[pos] = struct{}{}
	cl.loadedMu.Unlock()
}

// IsLoaded reports whether the loader tracks the column as resident.
func (cl *ChunkLoader) IsLoaded(pos ChunkPos) bool {
	cl.loadedMu.Lock()
	_, ok := cl.loaded[pos]
	cl.loadedMu.Unlock()
	return ok
}

// LoadedCount returns the number of tracked columns.
func (cl *ChunkLoader) LoadedCount() int {
	cl.loadedMu.Lock()
	defer cl.loadedMu.Unlock()
	return len(cl.loaded)
}

func withinDistance(dx, dz int, dist float64) bool {
	return float64(dx*dx+dz*dz) <= dist*dist
}

func chunkDistSq(a, b ChunkPos) int {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}
