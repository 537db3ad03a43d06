package movement

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
)

// Params is a max-speed/acceleration pair.
type Params struct {
	MaxSpeed     float64
	Acceleration float64
}

// Integrator owns a smoothed velocity. It never reads back where the mover
// actually put the body.
type Integrator struct {
	Velocity cp.Vector
}

// Step ramps the velocity toward dir*MaxSpeed by at most Acceleration*dt and
// clamps its magnitude to MaxSpeed. dir should be unit length or zero.
func (i *Integrator) Step(dir cp.Vector, p Params, dt float64) cp.Vector {
	if i == nil {
		return cp.Vector{}
	}
	if dt > 0 {
		target := dir.Mult(p.MaxSpeed)
		i.Velocity = common.MoveTowards(i.Velocity, target, p.Acceleration*dt)
	}
	i.Velocity = common.ClampLength(i.Velocity, p.MaxSpeed)
	return i.Velocity
}

// Towards steps toward the normalized offset to a point.
func (i *Integrator) Towards(from, to cp.Vector, p Params, dt float64) cp.Vector {
	return i.Step(common.NormalizeOrZero(to.Sub(from)), p, dt)
}

func (i *Integrator) Speed() float64 {
	if i == nil {
		return 0
	}
	return i.Velocity.Length()
}

func (i *Integrator) Reset() {
	if i == nil {
		return
	}
	i.Velocity = cp.Vector{}
}
