package npc

import "github.com/jakecoffman/cp"

// Facing matches the row order of the character sprite sheets.
type Facing int

const (
	FacingDown Facing = iota
	FacingLeft
	FacingUp
	FacingRight
)

func (f Facing) String() string {
	switch f {
	case FacingDown:
		return "down"
	case FacingLeft:
		return "left"
	case FacingUp:
		return "up"
	case FacingRight:
		return "right"
	default:
		return "unknown"
	}
}

type Locomotion int

const (
	LocomotionIdle Locomotion = iota
	LocomotionWalk
)

func (l Locomotion) String() string {
	if l == LocomotionWalk {
		return "walk"
	}
	return "idle"
}

// Anim is a one-shot animation trigger.
type Anim int

const (
	AnimNone Anim = iota
	AnimAttack
	AnimThrow
	AnimHurt
)

func (a Anim) String() string {
	switch a {
	case AnimAttack:
		return "attack"
	case AnimThrow:
		return "throw"
	case AnimHurt:
		return "hurt"
	default:
		return "none"
	}
}

type Sound int

const (
	SoundAlert Sound = iota + 1
	SoundThrow
	SoundBite
)

func (s Sound) String() string {
	switch s {
	case SoundAlert:
		return "alert"
	case SoundThrow:
		return "throw"
	case SoundBite:
		return "bite"
	default:
		return "none"
	}
}

// Intent is everything an agent asks of its collaborators for one tick.
type Intent struct {
	Velocity   cp.Vector
	Facing     Facing
	Locomotion Locomotion
	Anim       Anim
	Sounds     []Sound

	From State
	To   State
}

// Changed reports whether the agent switched state this tick.
func (i Intent) Changed() bool {
	return i.From != i.To
}

const facingDeadZone = 0.1

// facingForMove prefers the x axis and keeps the previous facing when the
// move is too small to read.
func facingForMove(prev Facing, move cp.Vector) Facing {
	if abs(move.X) < facingDeadZone {
		switch {
		case move.Y > facingDeadZone:
			return FacingDown
		case move.Y < -facingDeadZone:
			return FacingUp
		}
		return prev
	}
	if move.X > 0 {
		return FacingRight
	}
	return FacingLeft
}

// facingToward picks the dominant axis.
func facingToward(delta cp.Vector) Facing {
	if abs(delta.X) > abs(delta.Y) {
		if delta.X > 0 {
			return FacingRight
		}
		return FacingLeft
	}
	if delta.Y > 0 {
		return FacingDown
	}
	return FacingUp
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
