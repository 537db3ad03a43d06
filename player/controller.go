package player

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
	"github.com/milk9111/nightwalk/movement"
)

// Input is one tick of player intent. Move need not be normalized.
type Input struct {
	Move cp.Vector
	Dash bool
}

// DashParams configures the dash burst.
type DashParams struct {
	Speed    float64
	Duration float64
	Cooldown float64
}

func DefaultDash() DashParams {
	return DashParams{Speed: 240, Duration: 0.2, Cooldown: 1}
}

// Controller smooths player input into a velocity. While dashing the player
// moves at the dash speed along a fixed heading and kills on contact.
type Controller struct {
	Dash DashParams

	motion   movement.Integrator
	heading  cp.Vector
	dashing  common.Timer
	cooldown common.Timer
}

func NewController(dash DashParams) *Controller {
	c := &Controller{Dash: dash, heading: cp.Vector{X: 1}}
	c.dashing = common.NewTimer(dash.Duration, false)
	c.dashing.Remaining = 0
	c.cooldown = common.NewTimer(dash.Cooldown, false)
	c.cooldown.Remaining = 0
	return c
}

// Dashing reports whether a dash is in progress.
func (c *Controller) Dashing() bool {
	return c != nil && c.dashing.Remaining > 0
}

func (c *Controller) Velocity() cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	return c.motion.Velocity
}

// Update returns the velocity for this tick and whether a dash started.
func (c *Controller) Update(in Input, s Stats, dt float64) (cp.Vector, bool) {
	if c == nil {
		return cp.Vector{}, false
	}
	if s.Dead {
		c.motion.Reset()
		return cp.Vector{}, false
	}
	dir := common.NormalizeOrZero(in.Move)
	if dir.Length() > 0 {
		c.heading = dir
	}
	c.cooldown.Tick(dt)

	started := false
	if in.Dash && !c.Dashing() && c.cooldown.Remaining <= 0 && c.Dash.Duration > 0 {
		c.dashing.Reset()
		c.cooldown.Reset()
		started = true
	}
	if c.Dashing() {
		c.dashing.Tick(dt)
		c.motion.Velocity = c.heading.Mult(c.Dash.Speed)
		return c.motion.Velocity, started
	}
	v := c.motion.Step(dir, movement.Params{MaxSpeed: s.MaxSpeed, Acceleration: s.Acceleration}, dt)
	return v, started
}
