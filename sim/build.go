package sim

import (
	"fmt"

	"github.com/milk9111/nightwalk/config"
	"github.com/milk9111/nightwalk/daycycle"
	"github.com/milk9111/nightwalk/levels"
	"github.com/milk9111/nightwalk/npc"
	"github.com/milk9111/nightwalk/pathfind"
	"github.com/milk9111/nightwalk/player"
	"github.com/milk9111/nightwalk/prefabs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger from the [logging] section.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// Prefabs is everything loaded from npc.yaml.
type Prefabs struct {
	Tuning      npc.Tuning
	Player      player.Stats
	Dash        player.DashParams
	PathOptions pathfind.Options
}

// LoadPrefabs reads and converts a tuning file.
func LoadPrefabs(name string) (Prefabs, error) {
	spec, err := prefabs.LoadNPCSpec(name)
	if err != nil {
		return Prefabs{}, err
	}
	tuning, err := npc.TuningFromSpec(spec.Kinds)
	if err != nil {
		return Prefabs{}, fmt.Errorf("sim: %s: %w", name, err)
	}
	return Prefabs{
		Tuning:      tuning,
		Player:      statsFromSpec(spec.Player),
		Dash:        player.DashParams(spec.Player.Dash),
		PathOptions: pathfind.Options(spec.Pathfinding),
	}, nil
}

func statsFromSpec(ps prefabs.PlayerSpec) player.Stats {
	s := player.DefaultStats()
	if ps.MaxHP > 0 {
		s.MaxHP, s.HP = ps.MaxHP, ps.MaxHP
	}
	if ps.MaxXP > 0 {
		s.MaxXP = ps.MaxXP
	}
	if ps.XPGain > 0 {
		s.XPGain = ps.XPGain
	}
	if ps.MaxSpeed > 0 {
		s.MaxSpeed = ps.MaxSpeed
	}
	if ps.Acceleration > 0 {
		s.Acceleration = ps.Acceleration
	}
	s.HPGain = ps.HPGain
	s.Armor = ps.Armor
	s.HurtCooldown = ps.HurtCooldown
	return s
}

// LoadPolicy compiles a polarity script, or returns the built-in table when
// name is empty.
func LoadPolicy(name string) (npc.Policy, error) {
	if name == "" {
		return npc.DefaultPolicy(), nil
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("sim: load script %s: %w", name, err)
	}
	p, err := npc.CompilePolicyScript(src)
	if err != nil {
		return nil, fmt.Errorf("sim: script %s: %w", name, err)
	}
	return p, nil
}

// FromConfig assembles a world from a run configuration.
func FromConfig(cfg *config.Config, log *zap.Logger) (*World, error) {
	lvl, err := levels.Load(cfg.Sim.Level)
	if err != nil {
		return nil, err
	}
	pf, err := LoadPrefabs(cfg.Tuning.File)
	if err != nil {
		return nil, err
	}
	policy, err := LoadPolicy(cfg.Script.Polarity)
	if err != nil {
		return nil, err
	}
	cycle, err := daycycle.New(cfg.DayCycle.DaySeconds, cfg.DayCycle.NightSeconds)
	if err != nil {
		return nil, err
	}
	if cfg.DayCycle.StartAtNight {
		cycle.Toggle()
	}
	return NewWorld(Options{
		Level:       lvl,
		CellSize:    cfg.Sim.CellSize,
		Tuning:      pf.Tuning,
		Policy:      policy,
		PathOptions: pf.PathOptions,
		Player:      pf.Player,
		Dash:        pf.Dash,
		Population: Population{
			MaxCivilians:      cfg.Population.MaxCivilians,
			MaxHunters:        cfg.Population.MaxHunters,
			Interval:          cfg.Population.SpawnInterval.Seconds(),
			MinPlayerDistance: cfg.Population.MinPlayerDistance,
		},
		DayCycle: cycle,
		Seed:     cfg.Sim.Seed,
		Logger:   log,
	})
}

// Reload applies a changed prefab file: a script replaces the polarity
// policy, a spec replaces the tuning table. On error the world is unchanged.
func (w *World) Reload(cfg *config.Config, path string) error {
	if prefabs.IsScript(path) {
		if cfg.Script.Polarity == "" {
			return nil
		}
		p, err := LoadPolicy(cfg.Script.Polarity)
		if err != nil {
			w.log.Warn("polarity reload failed", zap.String("path", path), zap.Error(err))
			return err
		}
		w.SetPolicy(p)
		return nil
	}
	pf, err := LoadPrefabs(cfg.Tuning.File)
	if err != nil {
		w.log.Warn("tuning reload failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return w.ReloadTuning(pf.Tuning)
}
