package world

import (
	"sync"
)

// World is the sparse block grid: a map from column position to Chunk.
// A missing column reads as all Air and is never an error.
//
// Concurrency: the chunk map is guarded by an RWMutex so mesh workers can
// read while the main/network thread mutates. Individual block cells are a
// single byte; a reader racing a SetBlock may see a slightly stale value but
// never a torn one, which is acceptable for mesh generation.
type World struct {
	chunks map[ChunkPos]*Chunk
	mu     sync.RWMutex
}

// New creates an empty world.
func New() *World {
	return &World{
		chunks: make(map[ChunkPos]*Chunk),
	}
}

// GetChunk returns the chunk at the column position, or nil if not loaded.
func (w *World) GetChunk(pos ChunkPos) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[pos]
}

// HasChunk reports whether the column is loaded.
func (w *World) HasChunk(pos ChunkPos) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.chunks[pos]
	return ok
}

// GetOrCreateChunk returns the chunk at the column position, creating an
// all-Air chunk if absent.
func (w *World) GetOrCreateChunk(pos ChunkPos) *Chunk {
	w.mu.RLock()
	c, ok := w.chunks[pos]
	w.mu.RUnlock()
	if ok {
		return c
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// Double-check: another goroutine may have created it while we waited.
	if existing, ok := w.chunks[pos]; ok {
		return existing
	}
	c = NewChunk(pos)
	w.chunks[pos] = c
	return c
}

// AddChunk installs a pre-built chunk (e.g. received over the network or
// produced by a generator). An already-loaded column is left untouched.
func (w *World) AddChunk(c *Chunk) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[c.Pos]; !ok {
		w.chunks[c.Pos] = c
	}
}

// RemoveChunk unloads a column, discarding its block data irrevocably.
func (w *World) RemoveChunk(pos ChunkPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.chunks, pos)
}

// GetAllChunks returns all loaded chunks in unspecified order.
func (w *World) GetAllChunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// ChunkCount returns the number of loaded columns.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// GetBlock returns the block at world coordinates, Air if the column is not
// loaded or Y is out of range.
func (w *World) GetBlock(x, y, z int) BlockType {
	c := w.GetChunk(WorldToChunkPos(x, z))
	if c == nil {
		return BlockTypeAir
	}
	lx, ly, lz := WorldToLocal(x, y, z)
	return c.GetBlock(lx, ly, lz)
}

// SetBlock writes the block at world coordinates, lazily creating the owning
// chunk.
func (w *World) SetBlock(x, y, z int, bt BlockType) {
	c := w.GetOrCreateChunk(WorldToChunkPos(x, z))
	lx, ly, lz := WorldToLocal(x, y, z)
	c.SetBlock(lx, ly, lz, bt)
}

// IsSolid reports whether the block at world coordinates occludes faces.
func (w *World) IsSolid(x, y, z int) bool {
	return w.GetBlock(x, y, z).IsSolid()
}

// GetVisibleFaces returns the faces of the block at world coordinates whose
// axis-aligned neighbor is not solid. Visibility is always computed against
// the current world state so newly loaded neighbor chunks retroactively
// reveal faces.
func (w *World) GetVisibleFaces(x, y, z int) FaceSet {
	var fs FaceSet
	for f := Face(0); f < FaceCount; f++ {
		n := FaceNormals[f]
		if !w.IsSolid(x+n[0], y+n[1], z+n[2]) {
			fs = fs.With(f)
		}
	}
	return fs
}
