package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"blockworld/internal/meshing"
	"blockworld/internal/world"
)

// statsRenderer is a renderer collaborator that only keeps counters. It
// stands in for a GPU renderer so the bot can exercise the full pipeline.
type statsRenderer struct {
	log   *zap.Logger
	world *world.World

	meshesApplied int
	vertices      int
}

func (r *statsRenderer) UpdateChunk(pos world.ChunkPos, mesh *meshing.ChunkMeshData) {
	r.meshesApplied++
	r.vertices += mesh.VertexCount()
	if r.meshesApplied%64 == 0 {
		r.log.Debug("mesh stats",
			zap.Int("applied", r.meshesApplied),
			zap.Int("vertices", r.vertices))
	}
}

func (r *statsRenderer) RemoveChunk(pos world.ChunkPos) {
	r.log.Debug("chunk mesh freed", zap.Int("x", pos.X), zap.Int("z", pos.Z))
}

func (r *statsRenderer) HighlightBlock(pos mgl32.Vec3, on bool) {
	if !on {
		return
	}
	x, y, z := int(pos.X()), int(pos.Y()), int(pos.Z())
	faces := r.world.GetVisibleFaces(x, y, z)
	mesh := meshing.BuildSingleBlockMesh(x, y, z, r.world.GetBlock(x, y, z), faces)
	r.log.Debug("highlight", zap.Int("faces", faces.Count()), zap.Int("vertices", mesh.VertexCount()))
}

func (r *statsRenderer) SetCamera(position mgl32.Vec3, rotation mgl32.Vec2) {}
