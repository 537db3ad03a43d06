package npc

import (
	"fmt"

	"github.com/milk9111/nightwalk/movement"
	"github.com/milk9111/nightwalk/prefabs"
)

// TuningFromSpec builds a tuning table from npc.yaml kinds. Kinds the file
// leaves out keep their defaults.
func TuningFromSpec(kinds map[string]prefabs.KindSpec) (Tuning, error) {
	t := DefaultTuning()
	for name, ks := range kinds {
		k, err := ParseKind(name)
		if err != nil {
			return Tuning{}, err
		}
		kt := KindTuning{
			Movement:      movement.Params{MaxSpeed: ks.MaxSpeed, Acceleration: ks.Acceleration},
			SpotDistance:  ks.SpotDistance,
			SafeDistance:  ks.SafeDistance,
			EscapeRadius:  ks.EscapeRadius,
			ChillInterval: ks.ChillInterval,
			ChillRadius:   ks.ChillRadius,
			KillXP:        ks.Reward.XP,
			KillScore:     ks.Reward.Score,
		}
		switch {
		case ks.Throw != nil && ks.Melee != nil:
			return Tuning{}, fmt.Errorf("npc: %s: melee and throw are exclusive", name)
		case ks.Throw != nil:
			kt.Ranged = true
			kt.ThrowInterval = ks.Throw.Interval
			kt.ProjectileSpeed = ks.Throw.Speed
			kt.ProjectileDamage = ks.Throw.Damage
			kt.RetreatDistance = ks.Throw.RetreatDistance
			kt.ChaseDistance = ks.Throw.ChaseDistance
		case ks.Melee != nil:
			kt.MeleeWindup = ks.Melee.Windup
			kt.MeleeRange = ks.Melee.Range
			kt.MeleeDamage = ks.Melee.Damage
		}
		if kt.SafeDistance <= 0 {
			kt.SafeDistance = kt.SpotDistance
		}
		if err := t.Set(k, kt); err != nil {
			return Tuning{}, err
		}
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}
