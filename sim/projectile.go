package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
)

const (
	// ProjectileTTL is how long a thrown projectile lives, in seconds.
	ProjectileTTL    = 6.0
	projectileRadius = 3.0
)

// Projectile is a thrown object moving in a straight line.
type Projectile struct {
	Position cp.Vector
	Velocity cp.Vector
	Damage   int
	TTL      common.Timer
}

func newProjectileTTL() common.Timer {
	return common.NewTimer(ProjectileTTL, false)
}
