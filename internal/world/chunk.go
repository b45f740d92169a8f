package world

const (
	// ChunkSize is the horizontal extent of a chunk column in blocks.
	ChunkSize = 16
	// WorldHeight is the vertical extent of every chunk column. There is no
	// vertical chunking; Y is always world-absolute.
	WorldHeight = 128
	// ChunkVolume is the number of cells in one column.
	ChunkVolume = ChunkSize * WorldHeight * ChunkSize
)

// ChunkPos is the 2D integer position of a chunk column.
type ChunkPos struct {
	X, Z int
}

// Neighbors4 returns the four horizontally adjacent column positions.
func (p ChunkPos) Neighbors4() [4]ChunkPos {
	return [4]ChunkPos{
		{p.X + 1, p.Z},
		{p.X - 1, p.Z},
		{p.X, p.Z + 1},
		{p.X, p.Z - 1},
	}
}

// Chunk is dense block storage for one 16xWorldHeightx16 column.
// Blocks live in a single flat array for locality during meshing.
// Chunks are owned by a World and mutated only through its block API.
type Chunk struct {
	Pos    ChunkPos
	blocks []BlockType
}

// NewChunk creates an all-Air chunk at the given column position.
// The block array is fully allocated up front so a chunk is never observed
// partially constructed once installed into a World.
func NewChunk(pos ChunkPos) *Chunk {
	return &Chunk{
		Pos:    pos,
		blocks: make([]BlockType, ChunkVolume),
	}
}

// NewChunkFromBlocks builds a chunk around an existing dense block array,
// e.g. one received over the network. The slice is adopted, not copied; the
// caller must not retain it. A wrong-sized slice falls back to all Air.
func NewChunkFromBlocks(pos ChunkPos, blocks []BlockType) *Chunk {
	if len(blocks) != ChunkVolume {
		return NewChunk(pos)
	}
	return &Chunk{Pos: pos, blocks: blocks}
}

// blockIndex converts local coordinates to a flat array index.
func blockIndex(x, y, z int) int {
	return (x*WorldHeight+y)*ChunkSize + z
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < WorldHeight && z >= 0 && z < ChunkSize
}

// GetBlock returns the block at local coordinates. Out-of-range coordinates
// return Air so edge queries during meshing need no bounds checks at call
// sites.
func (c *Chunk) GetBlock(x, y, z int) BlockType {
	if !inBounds(x, y, z) {
		return BlockTypeAir
	}
	return c.blocks[blockIndex(x, y, z)]
}

// SetBlock stores the block at local coordinates. Out-of-range writes are a
// no-op.
func (c *Chunk) SetBlock(x, y, z int, bt BlockType) {
	if !inBounds(x, y, z) {
		return
	}
	c.blocks[blockIndex(x, y, z)] = bt
}

// GetWorldPosition converts local coordinates in this chunk to world
// coordinates. Y passes through unchanged.
func (c *Chunk) GetWorldPosition(x, y, z int) (int, int, int) {
	return c.Pos.X*ChunkSize + x, y, c.Pos.Z*ChunkSize + z
}

// Blocks returns the backing block array. Callers must treat it as read-only;
// it is exposed for serialization of whole columns.
func (c *Chunk) Blocks() []BlockType {
	return c.blocks
}

// WorldToChunkPos returns the column position containing the given world X/Z.
// Floor division keeps negative coordinates on the correct side of zero.
func WorldToChunkPos(worldX, worldZ int) ChunkPos {
	return ChunkPos{X: floorDiv(worldX, ChunkSize), Z: floorDiv(worldZ, ChunkSize)}
}

// WorldToLocal converts world coordinates to local coordinates within the
// owning chunk. Y passes through unchanged.
func WorldToLocal(worldX, worldY, worldZ int) (int, int, int) {
	return mod(worldX, ChunkSize), worldY, mod(worldZ, ChunkSize)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns the non-negative remainder of a/b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
