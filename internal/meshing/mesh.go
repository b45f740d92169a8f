package meshing

import (
	"blockworld/internal/world"
)

// ChunkMeshData is the immutable output of one mesh build: flat vertex
// attribute arrays plus triangle indices, covering a whole chunk column as a
// single draw-call unit. Produced fresh on every rebuild; ownership passes to
// the consuming renderer.
type ChunkMeshData struct {
	Pos world.ChunkPos

	Vertices   []float32 // 3 floats per vertex
	Colors     []float32 // 3 floats per vertex
	TexCoords  []float32 // 2 floats per vertex
	Brightness []float32 // 1 float per vertex, directional + AO lighting
	Indices    []uint32  // 6 per face, two triangles per quad
}

// VertexCount returns the number of vertices in the mesh.
func (m *ChunkMeshData) VertexCount() int {
	return len(m.Vertices) / 3
}

// Empty reports whether the mesh has nothing to draw. An empty mesh is a
// valid result for an all-Air chunk, not an error.
func (m *ChunkMeshData) Empty() bool {
	return len(m.Indices) == 0
}

// MeshOptions selects optional lighting behavior for a build.
type MeshOptions struct {
	// AmbientOcclusion darkens vertices by the number of solid diagonal
	// neighbors at the vertex corner.
	AmbientOcclusion bool
	// AOStrength is the maximum darkening applied when all three corner
	// neighbors are solid, in [0,1].
	AOStrength float32
}

// DefaultMeshOptions enables ambient occlusion at moderate strength.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{AmbientOcclusion: true, AOStrength: 0.5}
}

// faceBrightness is the fixed directional light per face: top brightest,
// bottom darkest, sides in between.
var faceBrightness = [world.FaceCount]float32{
	world.FaceEast:   0.65,
	world.FaceWest:   0.65,
	world.FaceTop:    1.0,
	world.FaceBottom: 0.45,
	world.FaceNorth:  0.8,
	world.FaceSouth:  0.8,
}

// faceAxes gives, per face, the two in-plane axes (u, v) chosen so that
// u x v equals the outward normal, keeping quad winding consistent.
var faceAxes = [world.FaceCount][2][3]int{
	world.FaceEast:   {{0, 0, -1}, {0, 1, 0}},
	world.FaceWest:   {{0, 0, 1}, {0, 1, 0}},
	world.FaceTop:    {{1, 0, 0}, {0, 0, -1}},
	world.FaceBottom: {{1, 0, 0}, {0, 0, 1}},
	world.FaceNorth:  {{1, 0, 0}, {0, 1, 0}},
	world.FaceSouth:  {{-1, 0, 0}, {0, 1, 0}},
}

// quadCorners enumerates the four (du, dv) corner signs of a quad in
// counter-clockwise order when viewed along the outward normal.
var quadCorners = [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// quadTexCoords matches quadCorners.
var quadTexCoords = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// neighborProbe abstracts solidity lookups so the same face emission serves
// both world-aware builds and the standalone highlight mesh.
type neighborProbe interface {
	IsSolid(x, y, z int) bool
}

// BuildChunkMesh derives the renderable mesh for one chunk. It only reads
// chunk and world state, so it is safe to run concurrently for different
// chunks. Cross-chunk face culling goes through the world; an unloaded
// neighbor column reads as Air and leaves the boundary face visible.
func BuildChunkMesh(c *world.Chunk, w *world.World, opts MeshOptions) *ChunkMeshData {
	mesh := &ChunkMeshData{Pos: c.Pos}

	for lx := 0; lx < world.ChunkSize; lx++ {
		for ly := 0; ly < world.WorldHeight; ly++ {
			for lz := 0; lz < world.ChunkSize; lz++ {
				bt := c.GetBlock(lx, ly, lz)
				if bt == world.BlockTypeAir {
					continue
				}
				wx, wy, wz := c.GetWorldPosition(lx, ly, lz)
				faces := w.GetVisibleFaces(wx, wy, wz)
				if faces == 0 {
					continue
				}
				emitBlockFaces(mesh, wx, wy, wz, bt, faces, w, opts)
			}
		}
	}
	return mesh
}

// BuildSingleBlockMesh builds a standalone mesh for one block, e.g. a
// selection highlight. There is no neighbor context, so ambient occlusion is
// skipped and only the directional face brightness applies.
func BuildSingleBlockMesh(x, y, z int, bt world.BlockType, faces world.FaceSet) *ChunkMeshData {
	mesh := &ChunkMeshData{Pos: world.WorldToChunkPos(x, z)}
	emitBlockFaces(mesh, x, y, z, bt, faces, nil, MeshOptions{})
	return mesh
}

// emitBlockFaces appends one quad per visible face of the block at world
// coordinates (x, y, z). probe may be nil, in which case AO is skipped.
func emitBlockFaces(mesh *ChunkMeshData, x, y, z int, bt world.BlockType, faces world.FaceSet, probe neighborProbe, opts MeshOptions) {
	color := world.GetBlockColor(bt)
	cr, cg, cb := color.X(), color.Y(), color.Z()

	for f := world.Face(0); f < world.FaceCount; f++ {
		if !faces.Has(f) {
			continue
		}
		n := world.FaceNormals[f]
		u := faceAxes[f][0]
		v := faceAxes[f][1]
		base := uint32(mesh.VertexCount())
		bright := faceBrightness[f]

		for ci, corner := range quadCorners {
			du, dv := corner[0], corner[1]
			// Block center + half a cell along the normal and the two
			// in-plane corner directions.
			vx := float32(x) + 0.5*float32(n[0]) + 0.5*float32(du*u[0]+dv*v[0])
			vy := float32(y) + 0.5*float32(n[1]) + 0.5*float32(du*u[1]+dv*v[1])
			vz := float32(z) + 0.5*float32(n[2]) + 0.5*float32(du*u[2]+dv*v[2])

			vb := bright
			if opts.AmbientOcclusion && probe != nil {
				vb *= aoFactor(probe, x, y, z, n, u, v, du, dv, opts.AOStrength)
			}

			mesh.Vertices = append(mesh.Vertices, vx, vy, vz)
			mesh.Colors = append(mesh.Colors, cr, cg, cb)
			mesh.TexCoords = append(mesh.TexCoords, quadTexCoords[ci][0], quadTexCoords[ci][1])
			mesh.Brightness = append(mesh.Brightness, vb)
		}

		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base+2, base+3, base,
		)
	}
}

// aoFactor computes the ambient occlusion multiplier for one quad corner:
// the count of solid cells among the two side neighbors and the diagonal
// corner neighbor, mapped linearly to a darkening factor.
func aoFactor(probe neighborProbe, x, y, z int, n, u, v [3]int, du, dv int, strength float32) float32 {
	side1 := probe.IsSolid(x+n[0]+du*u[0], y+n[1]+du*u[1], z+n[2]+du*u[2])
	side2 := probe.IsSolid(x+n[0]+dv*v[0], y+n[1]+dv*v[1], z+n[2]+dv*v[2])
	corner := probe.IsSolid(
		x+n[0]+du*u[0]+dv*v[0],
		y+n[1]+du*u[1]+dv*v[1],
		z+n[2]+du*u[2]+dv*v[2],
	)

	solid := 0
	for _, s := range [3]bool{side1, side2, corner} {
		if s {
			solid++
		}
	}
	return 1.0 - strength*float32(solid)/3.0
}
