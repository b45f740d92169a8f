package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"blockworld/internal/profiling"
	"blockworld/internal/world"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0

	rayStep = 0.02
)

// RaycastResult describes the first solid block hit along a ray. Blocks are
// unit cubes centered on integer coordinates, so the cell containing a point
// is found by rounding each component.
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int // last empty cell before the hit, for placement
	Distance         float32
	Hit              bool
}

// Raycast samples the ray from start along direction until it enters a solid
// cell or maxDist is exceeded. Samples closer than minDist are skipped so the
// player cannot target the cell their own head occupies.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, w *world.World) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	steps := int(maxDist / rayStep)
	var lastEmpty [3]int
	result := RaycastResult{Hit: false}

	for i := 0; i <= steps; i++ {
		dist := float32(i) * rayStep
		if dist < minDist {
			continue
		}

		p := start.Add(direction.Mul(dist))
		cell := cellAt(p)

		if w.IsSolid(cell[0], cell[1], cell[2]) {
			result.HitPosition = cell
			result.AdjacentPosition = lastEmpty
			result.Distance = dist
			result.Hit = true
			return result
		}
		lastEmpty = cell
	}
	return result
}

// cellAt maps a world-space point to the block cell containing it.
func cellAt(p mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p.X()) + 0.5)),
		int(math.Floor(float64(p.Y()) + 0.5)),
		int(math.Floor(float64(p.Z()) + 0.5)),
	}
}
