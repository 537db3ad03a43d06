package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/milk9111/nightwalk/common"
)

type Config struct {
	Sim        SimConfig        `toml:"sim"`
	Population PopulationConfig `toml:"population"`
	DayCycle   DayCycleConfig   `toml:"daycycle"`
	Tuning     TuningConfig     `toml:"tuning"`
	Script     ScriptConfig     `toml:"script"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimConfig struct {
	Level    string        `toml:"level"`
	Ticks    int           `toml:"ticks"` // 0 runs until the player dies
	TickRate time.Duration `toml:"tick_rate"`
	Seed     int64         `toml:"seed"`
	CellSize float64       `toml:"cell_size"`
}

type PopulationConfig struct {
	MaxCivilians  int           `toml:"max_civilians"`
	MaxHunters    int           `toml:"max_hunters"`
	SpawnInterval time.Duration `toml:"spawn_interval"`
	// MinPlayerDistance keeps fresh spawns this many cells from the player.
	MinPlayerDistance int `toml:"min_player_distance"`
}

type DayCycleConfig struct {
	DaySeconds   float64 `toml:"day_seconds"`
	NightSeconds float64 `toml:"night_seconds"`
	StartAtNight bool    `toml:"start_at_night"`
}

type TuningConfig struct {
	File  string `toml:"file"`  // prefab name, e.g. "npc.yaml"
	Watch bool   `toml:"watch"` // hot reload from prefabs/ on disk
}

type ScriptConfig struct {
	Polarity string `toml:"polarity"` // empty uses the built-in table
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DT is the fixed simulation step.
func (c SimConfig) DT() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return c.TickRate.Seconds()
}

// TPS is the tick rate in ticks per second, rounded.
func (c SimConfig) TPS() int {
	return int(math.Round(1 / c.DT()))
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return defaults()
}

func (c *Config) Validate() error {
	switch {
	case c.Sim.CellSize <= 0:
		return fmt.Errorf("config: sim.cell_size must be positive")
	case c.Sim.Ticks < 0:
		return fmt.Errorf("config: sim.ticks must not be negative")
	case c.Population.MaxCivilians < 0 || c.Population.MaxHunters < 0:
		return fmt.Errorf("config: population caps must not be negative")
	case c.DayCycle.DaySeconds <= 0 || c.DayCycle.NightSeconds <= 0:
		return fmt.Errorf("config: day and night lengths must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			Level:    "courtyard",
			Ticks:    3600,
			TickRate: time.Second / 60,
			Seed:     1,
			CellSize: common.TileSize,
		},
		Population: PopulationConfig{
			MaxCivilians:      6,
			MaxHunters:        3,
			SpawnInterval:     3 * time.Second,
			MinPlayerDistance: 8,
		},
		DayCycle: DayCycleConfig{
			DaySeconds:   20,
			NightSeconds: 20,
		},
		Tuning: TuningConfig{
			File: "npc.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
