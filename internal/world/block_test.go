package world

import "testing"

func TestIsSolid(t *testing.T) {
	if BlockTypeAir.IsSolid() {
		t.Fatal("Air must not be solid")
	}
	for _, bt := range []BlockType{
		BlockTypeStone, BlockTypeDirt, BlockTypeGrass, BlockTypeSand,
		BlockTypeBedrock, BlockTypeCoalOre, BlockTypeIronOre, BlockTypeGoldOre,
	} {
		if !bt.IsSolid() {
			t.Errorf("%v should be solid", bt)
		}
	}
}

func TestFaceSetOps(t *testing.T) {
	var fs FaceSet
	if fs.Count() != 0 {
		t.Fatal("zero set should be empty")
	}
	fs = fs.With(FaceTop).With(FaceBottom).With(FaceTop)
	if fs.Count() != 2 {
		t.Fatalf("Count = %d, want 2", fs.Count())
	}
	if !fs.Has(FaceTop) || !fs.Has(FaceBottom) || fs.Has(FaceNorth) {
		t.Fatalf("membership wrong: %06b", fs)
	}
	if AllFaces.Count() != 6 {
		t.Fatalf("AllFaces.Count = %d", AllFaces.Count())
	}
}

func TestFaceNormalsAreUnitAxes(t *testing.T) {
	seen := make(map[[3]int]bool)
	for f := Face(0); f < FaceCount; f++ {
		n := FaceNormals[f]
		if abs(n[0])+abs(n[1])+abs(n[2]) != 1 {
			t.Errorf("face %d normal %v is not a unit axis", f, n)
		}
		if seen[n] {
			t.Errorf("duplicate normal %v", n)
		}
		seen[n] = true
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestGetBlockColorFallback(t *testing.T) {
	grass := GetBlockColor(BlockTypeGrass)
	unknown := GetBlockColor(BlockType(200))
	if grass == unknown {
		t.Fatal("unknown block type should fall back to the default color")
	}
	if unknown.X() != unknown.Y() || unknown.Y() != unknown.Z() {
		t.Fatalf("fallback color %v is not gray", unknown)
	}
}
