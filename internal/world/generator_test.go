package world

import "testing"

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(1337).GenerateChunk(ChunkPos{-3, 7})
	b := NewGenerator(1337).GenerateChunk(ChunkPos{-3, 7})
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < WorldHeight; y++ {
			for z := 0; z < ChunkSize; z++ {
				if a.GetBlock(x, y, z) != b.GetBlock(x, y, z) {
					t.Fatalf("same seed diverged at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestGeneratorSeedChangesTerrain(t *testing.T) {
	a := NewGenerator(1).GenerateChunk(ChunkPos{0, 0})
	b := NewGenerator(2).GenerateChunk(ChunkPos{0, 0})
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < WorldHeight; y++ {
			for z := 0; z < ChunkSize; z++ {
				if a.GetBlock(x, y, z) != b.GetBlock(x, y, z) {
					return
				}
			}
		}
	}
	t.Fatal("different seeds produced identical chunks")
}

func TestGeneratorColumnShape(t *testing.T) {
	g := NewGenerator(42)
	c := g.GenerateChunk(ChunkPos{5, -2})
	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			if c.GetBlock(lx, 0, lz) != BlockTypeBedrock {
				t.Fatalf("column (%d,%d): bottom is %v, want Bedrock", lx, lz, c.GetBlock(lx, 0, lz))
			}
			height := g.HeightAt(5*ChunkSize+lx, -2*ChunkSize+lz)
			surface := c.GetBlock(lx, height, lz)
			if surface != BlockTypeGrass && surface != BlockTypeSand {
				t.Fatalf("column (%d,%d): surface at y=%d is %v", lx, lz, height, surface)
			}
			if c.GetBlock(lx, height+1, lz) != BlockTypeAir {
				t.Fatalf("column (%d,%d): block above surface is not Air", lx, lz)
			}
		}
	}
}

func BenchmarkGenerateChunk(b *testing.B) {
	g := NewGenerator(1337)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.GenerateChunk(ChunkPos{X: i, Z: -i})
	}
}
