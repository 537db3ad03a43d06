// Package player holds the vampire: its stats, upgrades and the dash
// controller the simulation drives it with.
package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/nightwalk/common"
)

var ErrNoUpgrade = errors.New("player: no upgrade available")

// Stats is the player's progression state. Armor is the fraction of incoming
// damage absorbed.
type Stats struct {
	HP     float64
	MaxHP  float64
	HPGain float64 // per second

	XP     float64
	MaxXP  float64
	XPGain float64 // multiplier on kill xp

	Score float64
	Level int
	// Upgrades is how many level-ups have not been spent yet.
	Upgrades int

	Armor        float64
	MaxSpeed     float64
	Acceleration float64

	HurtCooldown float64
	Invulnerable float64
	Dead         bool
}

func DefaultStats() Stats {
	return Stats{
		HP:           10,
		MaxHP:        10,
		HPGain:       0.1,
		MaxXP:        20,
		XPGain:       1,
		Level:        1,
		Armor:        0.1,
		MaxSpeed:     80,
		Acceleration: 600,
		HurtCooldown: 0.5,
	}
}

func (s *Stats) Alive() bool {
	return s != nil && !s.Dead && s.HP > 0
}

// ApplyDamage applies damage unless the player is still recovering from the
// previous hit. It returns the damage actually taken.
func (s *Stats) ApplyDamage(amount float64) float64 {
	if s == nil || s.Dead || s.Invulnerable > 0 || amount <= 0 {
		return 0
	}
	taken := amount * (1 - common.Clamp(s.Armor, 0, maxArmor))
	s.HP -= taken
	if s.HP <= 0 {
		s.HP = 0
		s.Dead = true
		return taken
	}
	s.Invulnerable = s.HurtCooldown
	return taken
}

// Regen heals over time and counts down the hurt cooldown.
func (s *Stats) Regen(dt float64) {
	if s == nil || s.Dead || dt <= 0 {
		return
	}
	s.Invulnerable = max(0, s.Invulnerable-dt)
	s.HP = min(s.MaxHP, s.HP+s.HPGain*dt)
}

// AwardKill credits a kill and reports how many levels were gained.
func (s *Stats) AwardKill(xp, score float64) int {
	if s == nil || s.Dead {
		return 0
	}
	s.Score += score
	s.XP += xp * s.XPGain
	levels := 0
	for s.MaxXP > 0 && s.XP >= s.MaxXP {
		s.XP -= s.MaxXP
		s.MaxXP *= xpCurve
		s.Level++
		s.Upgrades++
		levels++
	}
	return levels
}

const (
	upgradeFactor = 1.1
	xpCurve       = 1.5
	maxArmor      = 0.9
)

type Upgrade int

const (
	UpgradeMaxHP Upgrade = iota
	UpgradeArmor
	UpgradeHPGain
	UpgradeXPGain
	UpgradeSpeed
)

var upgradeNames = [...]string{"max_hp", "armor", "hp_gain", "xp_gain", "speed"}

func (u Upgrade) String() string {
	if u < 0 || int(u) >= len(upgradeNames) {
		return fmt.Sprintf("upgrade(%d)", int(u))
	}
	return upgradeNames[u]
}

func ParseUpgrade(s string) (Upgrade, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range upgradeNames {
		if n == s {
			return Upgrade(i), nil
		}
	}
	return 0, fmt.Errorf("player: unknown upgrade %q", s)
}

// Spend uses one pending level-up on u. Every upgrade scales its stat by ten
// percent.
func (s *Stats) Spend(u Upgrade) error {
	if s == nil || s.Upgrades <= 0 {
		return ErrNoUpgrade
	}
	switch u {
	case UpgradeMaxHP:
		s.MaxHP *= upgradeFactor
	case UpgradeArmor:
		s.Armor = min(maxArmor, s.Armor*upgradeFactor)
	case UpgradeHPGain:
		s.HPGain *= upgradeFactor
	case UpgradeXPGain:
		s.XPGain *= upgradeFactor
	case UpgradeSpeed:
		s.MaxSpeed *= upgradeFactor
	default:
		return fmt.Errorf("player: unknown upgrade %d", int(u))
	}
	s.Upgrades--
	return nil
}
