package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const vectorEpsilon = 1e-9

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// is too short to have a direction.
func NormalizeOrZero(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < vectorEpsilon {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target cp.Vector, maxDelta float64) cp.Vector {
	delta := target.Sub(current)
	dist := delta.Length()
	if dist <= maxDelta || dist < vectorEpsilon {
		return target
	}
	return current.Add(delta.Mult(maxDelta / dist))
}

// ClampLength limits the magnitude of v to max.
func ClampLength(v cp.Vector, max float64) cp.Vector {
	if max <= 0 {
		return cp.Vector{}
	}
	l := v.Length()
	if l <= max {
		return v
	}
	return v.Mult(max / l)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
