package npc

import (
	"fmt"

	"github.com/milk9111/nightwalk/movement"
)

// KindTuning holds the constants of one agent kind. Distances are in world
// units, durations in seconds.
type KindTuning struct {
	Movement movement.Params

	SpotDistance float64
	// SafeDistance ends an escape once the player is also out of sight.
	SafeDistance float64
	// EscapeRadius is the cell distance an escape path has to open up.
	EscapeRadius int

	ChillInterval float64
	ChillRadius   int

	// Ranged kinds throw projectiles; the others bite.
	Ranged bool

	MeleeWindup float64
	MeleeRange  float64
	MeleeDamage int

	ThrowInterval    float64
	ProjectileSpeed  float64
	ProjectileDamage int
	// RetreatDistance and ChaseDistance band a ranged attack: closer than
	// the first backs off, farther than the second closes in.
	RetreatDistance float64
	ChaseDistance   float64

	KillXP    float64
	KillScore float64
}

// Tuning is the per-kind constants table.
type Tuning struct {
	kinds [kindCount]KindTuning
}

func DefaultTuning() Tuning {
	var t Tuning
	t.kinds[KindCivilian] = KindTuning{
		Movement:      movement.Params{MaxSpeed: 30, Acceleration: 300},
		SpotDistance:  160,
		SafeDistance:  160,
		EscapeRadius:  10,
		ChillInterval: 2,
		ChillRadius:   3,
		MeleeWindup:   0.4,
		MeleeRange:    28,
		MeleeDamage:   1,
		KillXP:        5,
		KillScore:     10,
	}
	t.kinds[KindHunter] = KindTuning{
		Movement:         movement.Params{MaxSpeed: 50, Acceleration: 450},
		SpotDistance:     240,
		SafeDistance:     240,
		EscapeRadius:     15,
		ChillInterval:    2,
		ChillRadius:      3,
		Ranged:           true,
		ThrowInterval:    0.5,
		ProjectileSpeed:  150,
		ProjectileDamage: 2,
		RetreatDistance:  100,
		ChaseDistance:    200,
		KillXP:           15,
		KillScore:        30,
	}
	return t
}

// For returns the constants for k. Unknown kinds get the zero value.
func (t Tuning) For(k Kind) KindTuning {
	if k < 0 || k >= kindCount {
		return KindTuning{}
	}
	return t.kinds[k]
}

func (t *Tuning) Set(k Kind, kt KindTuning) error {
	if k < 0 || k >= kindCount {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	t.kinds[k] = kt
	return nil
}

func (t Tuning) Validate() error {
	for _, k := range Kinds() {
		if err := t.kinds[k].validate(); err != nil {
			return fmt.Errorf("npc: %s tuning: %w", k, err)
		}
	}
	return nil
}

func (kt KindTuning) validate() error {
	switch {
	case kt.Movement.MaxSpeed <= 0:
		return fmt.Errorf("max speed must be positive")
	case kt.Movement.Acceleration <= 0:
		return fmt.Errorf("acceleration must be positive")
	case kt.SpotDistance <= 0:
		return fmt.Errorf("spot distance must be positive")
	case kt.ChillInterval <= 0:
		return fmt.Errorf("chill interval must be positive")
	case kt.ChillRadius < 0:
		return fmt.Errorf("chill radius must not be negative")
	}
	if kt.Ranged {
		if kt.ThrowInterval <= 0 || kt.ProjectileSpeed <= 0 {
			return fmt.Errorf("ranged kinds need a throw interval and projectile speed")
		}
		if kt.RetreatDistance >= kt.ChaseDistance {
			return fmt.Errorf("retreat distance %.1f must be below chase distance %.1f", kt.RetreatDistance, kt.ChaseDistance)
		}
		return nil
	}
	if kt.MeleeWindup <= 0 || kt.MeleeRange <= 0 {
		return fmt.Errorf("melee kinds need a wind-up and range")
	}
	return nil
}

// retreatEnd is where a backing-off ranged agent turns to attack again.
func (kt KindTuning) retreatEnd() float64 {
	return (kt.RetreatDistance + kt.ChaseDistance) / 2
}
