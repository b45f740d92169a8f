package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"blockworld/internal/world"
)

func flatSlab(y int) *world.World {
	w := world.New()
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			w.SetBlock(x, y, z, world.BlockTypeGrass)
		}
	}
	return w
}

func TestRaycastStraightDown(t *testing.T) {
	w := flatSlab(60)

	res := Raycast(mgl32.Vec3{0, 63, 0}, mgl32.Vec3{0, -1, 0}, MinReachDistance, MaxReachDistance, w)
	if !res.Hit {
		t.Fatal("ray straight into the ground missed")
	}
	if res.HitPosition != [3]int{0, 60, 0} {
		t.Fatalf("hit %v, want [0 60 0]", res.HitPosition)
	}
	if res.AdjacentPosition != [3]int{0, 61, 0} {
		t.Fatalf("adjacent %v, want the cell above the hit", res.AdjacentPosition)
	}
	if res.Distance < 2.0 || res.Distance > 3.0 {
		t.Fatalf("distance = %g, want about 2.5", res.Distance)
	}
}

func TestRaycastMissesOutOfReach(t *testing.T) {
	w := flatSlab(60)
	res := Raycast(mgl32.Vec3{0, 70, 0}, mgl32.Vec3{0, -1, 0}, MinReachDistance, MaxReachDistance, w)
	if res.Hit {
		t.Fatalf("hit %v beyond max reach", res.HitPosition)
	}
}

func TestRaycastRespectsMinDistance(t *testing.T) {
	w := world.New()
	w.SetBlock(0, 60, 0, world.BlockTypeStone)

	// Starting inside the block: everything nearer than minDist is skipped,
	// so a ray pointing away never hits it.
	res := Raycast(mgl32.Vec3{0, 60, 0}, mgl32.Vec3{0, 1, 0}, 1.0, MaxReachDistance, w)
	if res.Hit {
		t.Fatalf("hit %v inside the minimum reach", res.HitPosition)
	}
}

func TestRaycastDiagonal(t *testing.T) {
	w := world.New()
	w.SetBlock(3, 60, 3, world.BlockTypeStone)

	dir := mgl32.Vec3{1, 0, 1}.Normalize()
	res := Raycast(mgl32.Vec3{0, 60, 0}, dir, MinReachDistance, MaxReachDistance, w)
	if !res.Hit {
		t.Fatal("diagonal ray missed")
	}
	if res.HitPosition != [3]int{3, 60, 3} {
		t.Fatalf("hit %v, want [3 60 3]", res.HitPosition)
	}
}

func TestCollides(t *testing.T) {
	w := flatSlab(60)

	if !Collides(mgl32.Vec3{0, 60, 0}, 0.3, 1.8, w) {
		t.Fatal("body centered in the slab should collide")
	}
	if Collides(mgl32.Vec3{0, 61.5, 0}, 0.3, 1.8, w) {
		t.Fatal("body standing on the slab should not collide")
	}
	if Collides(mgl32.Vec3{20, 60, 20}, 0.3, 1.8, w) {
		t.Fatal("body away from all blocks should not collide")
	}
}

func TestFindGroundLevel(t *testing.T) {
	w := flatSlab(60)

	got, ok := FindGroundLevel(0, 0, 80, w)
	if !ok || got != 60.5 {
		t.Fatalf("ground level = %g, %v, want 60.5, true", got, ok)
	}
	// No ground below the probe column.
	if _, ok := FindGroundLevel(50, 50, 80, w); ok {
		t.Fatal("found ground in an empty column")
	}
}

func BenchmarkRaycast(b *testing.B) {
	w := flatSlab(60)
	start := mgl32.Vec3{0, 63, 0}
	dir := mgl32.Vec3{0.3, -1, 0.2}.Normalize()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Raycast(start, dir, MinReachDistance, MaxReachDistance, w)
	}
}
