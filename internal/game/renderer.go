package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"blockworld/internal/meshing"
	"blockworld/internal/world"
)

// Renderer is the external rendering collaborator. The engine never issues
// graphics-API calls itself; it hands column meshes across this boundary and
// the far side owns GPU resources.
type Renderer interface {
	// UpdateChunk uploads or replaces the geometry for a column. The mesh
	// may be empty, meaning nothing to draw.
	UpdateChunk(pos world.ChunkPos, mesh *meshing.ChunkMeshData)
	// RemoveChunk frees the geometry for an unloaded column.
	RemoveChunk(pos world.ChunkPos)
	// HighlightBlock toggles a selection overlay on one block.
	HighlightBlock(pos mgl32.Vec3, on bool)
	// SetCamera positions the view.
	SetCamera(position mgl32.Vec3, rotation mgl32.Vec2)
}
