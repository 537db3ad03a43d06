package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/nightwalk/config"
	"github.com/milk9111/nightwalk/sim"
)

func main() {
	cfgPath := flag.String("config", "", "path to a TOML run configuration")
	debug := flag.Bool("debug", false, "draw paths, sight lines and agent states")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	night := flag.Bool("night", false, "start at night")
	seed := flag.Int64("seed", 0, "random seed (overrides the config when non-zero)")
	scale := flag.Int("scale", 2, "window scale")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *levelName != "" {
		cfg.Sim.Level = *levelName
	}
	if *night {
		cfg.DayCycle.StartAtNight = true
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}

	logger, err := sim.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	world, err := sim.FromConfig(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	game := NewGame(cfg, world, *debug)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.width)*(*scale), int(game.height)*(*scale))
	ebiten.SetWindowTitle("nightwalk")
	ebiten.SetTPS(cfg.Sim.TPS())

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
