package world

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Generator produces terrain for chunk columns from a Perlin heightmap.
// The seed is passed in explicitly so generation is reproducible; there is
// no process-wide random state.
type Generator struct {
	seed       int64
	noise      *perlin.Perlin
	scale      float64
	baseHeight int
	amp        float64
	seaLevel   int
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:       seed,
		noise:      perlin.NewPerlin(2, 2, 3, seed),
		scale:      1.0 / 64.0,
		baseHeight: 48,
		amp:        24,
		seaLevel:   40,
	}
}

// HeightAt computes the surface height (block Y) at world X/Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.Noise2D(float64(worldX)*g.scale, float64(worldZ)*g.scale)
	h := float64(g.baseHeight) + n*g.amp
	if h < 1 {
		h = 1
	}
	if h > WorldHeight-1 {
		h = WorldHeight - 1
	}
	return int(math.Floor(h))
}

// GenerateChunk builds a fully populated chunk column.
func (g *Generator) GenerateChunk(pos ChunkPos) *Chunk {
	c := NewChunk(pos)

	// Per-chunk RNG derived from the global seed keeps ore placement
	// deterministic for a given column.
	chunkSeed := g.seed ^ int64(pos.X)*0x9E3779B1 ^ int64(pos.Z)*0x85EBCA77
	rng := rand.New(rand.NewSource(chunkSeed))

	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			worldX := pos.X*ChunkSize + lx
			worldZ := pos.Z*ChunkSize + lz
			height := g.HeightAt(worldX, worldZ)

			c.SetBlock(lx, 0, lz, BlockTypeBedrock)
			for ly := 1; ly < height-3; ly++ {
				c.SetBlock(lx, ly, lz, g.stoneOrOre(rng, ly))
			}
			for ly := max(height-3, 1); ly < height; ly++ {
				c.SetBlock(lx, ly, lz, BlockTypeDirt)
			}
			if height <= g.seaLevel {
				c.SetBlock(lx, height, lz, BlockTypeSand)
			} else {
				c.SetBlock(lx, height, lz, BlockTypeGrass)
			}
		}
	}
	return c
}

// stoneOrOre picks the filler block for a subsurface cell. Ore frequency
// falls off with height.
func (g *Generator) stoneOrOre(rng *rand.Rand, y int) BlockType {
	roll := rng.Float64()
	switch {
	case y < 24 && roll < 0.004:
		return BlockTypeGoldOre
	case y < 48 && roll < 0.012:
		return BlockTypeIronOre
	case roll < 0.02:
		return BlockTypeCoalOre
	default:
		return BlockTypeStone
	}
}
