package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"blockworld/internal/world"
)

// Collides reports whether an axis-aligned body of the given half-width and
// height, with pos at its feet, overlaps any solid block.
func Collides(pos mgl32.Vec3, halfWidth, height float32, w *world.World) bool {
	minX := int(math.Floor(float64(pos.X()-halfWidth) + 0.5))
	maxX := int(math.Floor(float64(pos.X()+halfWidth) + 0.5))
	minY := int(math.Floor(float64(pos.Y()) + 0.5))
	maxY := int(math.Floor(float64(pos.Y()+height) + 0.5))
	minZ := int(math.Floor(float64(pos.Z()-halfWidth) + 0.5))
	maxZ := int(math.Floor(float64(pos.Z()+halfWidth) + 0.5))

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if !w.IsSolid(x, y, z) {
					continue
				}
				// Cell AABB is the unit cube around its center.
				if pos.X()-halfWidth < float32(x)+0.5 && pos.X()+halfWidth > float32(x)-0.5 &&
					pos.Y() < float32(y)+0.5 && pos.Y()+height > float32(y)-0.5 &&
					pos.Z()-halfWidth < float32(z)+0.5 && pos.Z()+halfWidth > float32(z)-0.5 {
					return true
				}
			}
		}
	}
	return false
}

// FindGroundLevel returns the Y of the highest solid block top at (x, z) at
// or below fromY, scanning down to bedrock. The second result is false when
// the column holds no solid block in range, e.g. while it is still loading.
func FindGroundLevel(x, z float32, fromY float32, w *world.World) (float32, bool) {
	bx := int(math.Floor(float64(x) + 0.5))
	bz := int(math.Floor(float64(z) + 0.5))
	for by := int(math.Floor(float64(fromY) + 0.5)); by >= 0; by-- {
		if w.IsSolid(bx, by, bz) {
			return float32(by) + 0.5, true
		}
	}
	return fromY, false
}
