package perception

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/ecs"
)

// Raycaster reports the first entity hit by a ray. direction is unit length.
// Implementations decide what can be hit; for sight they should only report
// static structures and the player.
type Raycaster interface {
	Raycast(origin, direction cp.Vector, maxDistance float64) (ecs.Entity, bool)
}

// RaycastFunc adapts a function to Raycaster.
type RaycastFunc func(origin, direction cp.Vector, maxDistance float64) (ecs.Entity, bool)

func (f RaycastFunc) Raycast(origin, direction cp.Vector, maxDistance float64) (ecs.Entity, bool) {
	return f(origin, direction, maxDistance)
}

// CanSee reports whether target is strictly closer than spotDistance and the
// first thing a ray from observer toward it hits. A target standing exactly
// on the observer is seen.
func CanSee(rc Raycaster, observer, target cp.Vector, targetID ecs.Entity, spotDistance float64) bool {
	if rc == nil || spotDistance <= 0 {
		return false
	}
	delta := target.Sub(observer)
	dist := delta.Length()
	if dist >= spotDistance {
		return false
	}
	if dist < 1e-9 {
		return true
	}
	hit, ok := rc.Raycast(observer, delta.Mult(1/dist), spotDistance)
	return ok && hit == targetID
}
