// Command nightsim runs the NPC simulation headless with an autopilot player
// and logs what happens.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/nightwalk/config"
	"github.com/milk9111/nightwalk/prefabs"
	"github.com/milk9111/nightwalk/sim"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "nightsim:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "path to a TOML run configuration")
	levelName := flag.String("level", "", "level name in levels/ (overrides the config)")
	ticks := flag.Int("ticks", -1, "ticks to run, 0 runs until the player dies (overrides the config)")
	seed := flag.Int64("seed", 0, "random seed (overrides the config when non-zero)")
	night := flag.Bool("night", false, "start at night")
	realtime := flag.Bool("realtime", false, "pace ticks at the configured tick rate")
	report := flag.Int("report", 600, "log a summary every n ticks")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if *levelName != "" {
		cfg.Sim.Level = *levelName
	}
	if *ticks >= 0 {
		cfg.Sim.Ticks = *ticks
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *night {
		cfg.DayCycle.StartAtNight = true
	}

	log, err := sim.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	world, err := sim.FromConfig(cfg, log)
	if err != nil {
		return err
	}

	var reloads <-chan string
	var watchErrs <-chan error
	if cfg.Tuning.Watch {
		if dirs := prefabs.Dirs(); len(dirs) > 0 {
			watcher, err := prefabs.NewWatcher(dirs...)
			if err != nil {
				return fmt.Errorf("watch prefabs: %w", err)
			}
			defer watcher.Close()
			reloads, watchErrs = watcher.Events, watcher.Errors
			log.Info("watching prefabs", zap.Strings("dirs", dirs))
		}
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	var pace <-chan time.Time
	if *realtime {
		ticker := time.NewTicker(cfg.Sim.TickRate)
		defer ticker.Stop()
		pace = ticker.C
	}

	pilot := sim.NewAutopilot()
	dt := cfg.Sim.DT()
	log.Info("simulation start",
		zap.String("level", cfg.Sim.Level),
		zap.Int("ticks", cfg.Sim.Ticks),
		zap.Int64("seed", cfg.Sim.Seed),
		zap.Bool("night", world.Night()),
	)

	for i := 0; cfg.Sim.Ticks == 0 || i < cfg.Sim.Ticks; i++ {
		select {
		case sig := <-shutdownCh:
			log.Info("interrupted", zap.String("signal", sig.String()))
			logSummary(log, world.Summary())
			return nil
		case path, ok := <-reloads:
			if !ok {
				reloads = nil
			} else if err := world.Reload(cfg, path); err == nil {
				log.Info("prefab reloaded", zap.String("path", path))
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
			} else {
				log.Warn("prefab watcher", zap.Error(err))
			}
		default:
		}
		if pace != nil {
			<-pace
		}

		world.SetInput(pilot.Input(world, dt))
		world.Step(dt)
		for _, e := range world.Events() {
			if e.Kind == sim.EventPlayerDead {
				logSummary(log, world.Summary())
				return nil
			}
		}
		if *report > 0 && world.Tick()%uint64(*report) == 0 {
			logSummary(log, world.Summary())
		}
	}
	logSummary(log, world.Summary())
	return nil
}

func logSummary(log *zap.Logger, s sim.Summary) {
	log.Info("summary",
		zap.Uint64("tick", s.Tick),
		zap.Bool("night", s.Night),
		zap.Int("civilians", s.Civilians),
		zap.Int("hunters", s.Hunters),
		zap.Int("projectiles", s.Projectiles),
		zap.Float64("hp", s.HP),
		zap.Float64("score", s.Score),
		zap.Int("level", s.Level),
		zap.Bool("dead", s.Dead),
	)
}
