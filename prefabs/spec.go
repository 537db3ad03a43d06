package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrBadColor = errors.New("prefabs: bad color")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseSpec[T](filename, data)
}

func ParseSpec[T any](filename string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// NPCSpec is the layout of npc.yaml.
type NPCSpec struct {
	Kinds       map[string]KindSpec `yaml:"kinds"`
	Player      PlayerSpec          `yaml:"player"`
	Pathfinding PathfindingSpec     `yaml:"pathfinding"`
}

func LoadNPCSpec(filename string) (*NPCSpec, error) {
	spec, err := LoadSpec[NPCSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type KindSpec struct {
	Color         *YAMLColor `yaml:"color"`
	MaxSpeed      float64    `yaml:"max_speed"`
	Acceleration  float64    `yaml:"acceleration"`
	SpotDistance  float64    `yaml:"spot_distance"`
	SafeDistance  float64    `yaml:"safe_distance"`
	EscapeRadius  int        `yaml:"escape_radius"`
	ChillInterval float64    `yaml:"chill_interval"`
	ChillRadius   int        `yaml:"chill_radius"`
	Melee         *MeleeSpec `yaml:"melee"`
	Throw         *ThrowSpec `yaml:"throw"`
	Reward        RewardSpec `yaml:"reward"`
}

type MeleeSpec struct {
	Windup float64 `yaml:"windup"`
	Range  float64 `yaml:"range"`
	Damage int     `yaml:"damage"`
}

type ThrowSpec struct {
	Interval        float64 `yaml:"interval"`
	Speed           float64 `yaml:"speed"`
	Damage          int     `yaml:"damage"`
	RetreatDistance float64 `yaml:"retreat_distance"`
	ChaseDistance   float64 `yaml:"chase_distance"`
}

type RewardSpec struct {
	XP    float64 `yaml:"xp"`
	Score float64 `yaml:"score"`
}

type PlayerSpec struct {
	Color        *YAMLColor `yaml:"color"`
	MaxHP        float64    `yaml:"max_hp"`
	HPGain       float64    `yaml:"hp_gain"`
	MaxXP        float64    `yaml:"max_xp"`
	XPGain       float64    `yaml:"xp_gain"`
	Armor        float64    `yaml:"armor"`
	MaxSpeed     float64    `yaml:"max_speed"`
	Acceleration float64    `yaml:"acceleration"`
	HurtCooldown float64    `yaml:"hurt_cooldown"`
	Dash         DashSpec   `yaml:"dash"`
}

type DashSpec struct {
	Speed    float64 `yaml:"speed"`
	Duration float64 `yaml:"duration"`
	Cooldown float64 `yaml:"cooldown"`
}

type PathfindingSpec struct {
	CardinalCost        int `yaml:"cardinal_cost"`
	DiagonalCost        int `yaml:"diagonal_cost"`
	ChaseTrim           int `yaml:"chase_trim"`
	ChaseMinLen         int `yaml:"chase_min_len"`
	EscapeSafeRadiusSq  int `yaml:"escape_safe_radius_sq"`
	EscapeHeuristicBase int `yaml:"escape_heuristic_base"`
	MaxNodes            int `yaml:"max_nodes"`
	OccupiedPenalty     int `yaml:"occupied_penalty"`
}

type YAMLColor struct {
	color.Color
}

// Or returns c or fallback when c was not set.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

// UnmarshalYAML reads #rgb, #rgba, #rrggbb or #rrggbbaa.
func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d is not a string", ErrBadColor, value.Line)
	}
	hex := strings.TrimPrefix(strings.TrimSpace(value.Value), "#")
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return fmt.Errorf("%w: %q", ErrBadColor, value.Value)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBadColor, value.Value)
	}
	c.Color = color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return nil
}
