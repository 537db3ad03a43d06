package npc

import (
	"math"

	"github.com/jakecoffman/cp"
)

const interceptEpsilon = 1e-9

// Intercept returns where a projectile fired now from shooter at speed meets
// a target moving with constant velocity. It solves
// |target + vel*t - shooter| = speed*t for the smallest t >= 0 and reports
// false when no such t exists.
func Intercept(shooter, target, targetVel cp.Vector, speed float64) (cp.Vector, bool) {
	if speed <= 0 {
		return cp.Vector{}, false
	}
	d := target.Sub(shooter)
	c := d.Dot(d)
	if c < interceptEpsilon {
		return target, true
	}
	a := targetVel.Dot(targetVel) - speed*speed
	b := 2 * d.Dot(targetVel)

	t := -1.0
	if math.Abs(a) < interceptEpsilon {
		if math.Abs(b) < interceptEpsilon {
			return cp.Vector{}, false
		}
		t = -c / b
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return cp.Vector{}, false
		}
		sq := math.Sqrt(disc)
		t1 := (-b - sq) / (2 * a)
		t2 := (-b + sq) / (2 * a)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		switch {
		case t1 >= 0:
			t = t1
		case t2 >= 0:
			t = t2
		}
	}
	if t < 0 {
		return cp.Vector{}, false
	}
	return target.Add(targetVel.Mult(t)), true
}
