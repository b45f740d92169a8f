package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockType identifies the material stored in a single world cell.
// Air is the zero value so freshly allocated chunk storage is empty.
type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
	BlockTypeSand
	BlockTypeWood
	BlockTypeLeaves
	BlockTypeBedrock
	BlockTypeCoalOre
	BlockTypeIronOre
	BlockTypeGoldOre
)

// IsSolid reports whether the block occludes neighboring faces.
func (bt BlockType) IsSolid() bool {
	return bt != BlockTypeAir
}

// Face identifies one of the six axis-aligned faces of a block.
type Face int

const (
	FaceEast   Face = iota // +X
	FaceWest               // -X
	FaceTop                // +Y
	FaceBottom             // -Y
	FaceNorth              // +Z
	FaceSouth              // -Z

	FaceCount = 6
)

// FaceSet is a bitmask over the six block faces.
type FaceSet uint8

// AllFaces has every face visible, e.g. for an isolated highlight block.
const AllFaces FaceSet = 1<<FaceCount - 1

// Has reports whether the face is present in the set.
func (fs FaceSet) Has(f Face) bool {
	return fs&(1<<uint(f)) != 0
}

// With returns the set with the face added.
func (fs FaceSet) With(f Face) FaceSet {
	return fs | 1<<uint(f)
}

// Count returns the number of faces in the set.
func (fs FaceSet) Count() int {
	n := 0
	for f := Face(0); f < FaceCount; f++ {
		if fs.Has(f) {
			n++
		}
	}
	return n
}

// FaceNormals maps each face to its outward unit normal in block space.
var FaceNormals = [FaceCount][3]int{
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceNorth:  {0, 0, 1},
	FaceSouth:  {0, 0, -1},
}

// blockColors is the fixed display color per block type.
var blockColors = [...]mgl32.Vec3{
	BlockTypeAir:     {0, 0, 0},
	BlockTypeGrass:   {0.36, 0.63, 0.24},
	BlockTypeDirt:    {0.55, 0.39, 0.26},
	BlockTypeStone:   {0.55, 0.55, 0.57},
	BlockTypeSand:    {0.87, 0.82, 0.59},
	BlockTypeWood:    {0.48, 0.35, 0.20},
	BlockTypeLeaves:  {0.26, 0.50, 0.18},
	BlockTypeBedrock: {0.22, 0.22, 0.22},
	BlockTypeCoalOre: {0.35, 0.35, 0.37},
	BlockTypeIronOre: {0.72, 0.61, 0.52},
	BlockTypeGoldOre: {0.80, 0.70, 0.30},
}

// GetBlockColor returns the display color for a block type.
// Unknown types fall back to gray rather than failing.
func GetBlockColor(bt BlockType) mgl32.Vec3 {
	if int(bt) < len(blockColors) {
		return blockColors[bt]
	}
	return mgl32.Vec3{0.5, 0.5, 0.5}
}
