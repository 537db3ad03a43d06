package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/config"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/npc"
	"github.com/milk9111/nightwalk/physics"
	"github.com/milk9111/nightwalk/player"
	"github.com/milk9111/nightwalk/prefabs"
	"github.com/milk9111/nightwalk/sim"
	"golang.org/x/image/colornames"
)

const (
	hudHeight = 28
	maxLog    = 4
)

var upgradeKeys = map[ebiten.Key]player.Upgrade{
	ebiten.Key1: player.UpgradeMaxHP,
	ebiten.Key2: player.UpgradeArmor,
	ebiten.Key3: player.UpgradeHPGain,
	ebiten.Key4: player.UpgradeXPGain,
	ebiten.Key5: player.UpgradeSpeed,
}

type Game struct {
	cfg   *config.Config
	world *sim.World
	debug bool

	paused   bool
	stepOnce bool
	pauseUI  *ebitenui.UI

	watcher *prefabs.Watcher
	colors  map[npc.Kind]color.Color
	player  color.Color
	lines   []string

	width, height float64
}

func NewGame(cfg *config.Config, world *sim.World, debug bool) *Game {
	g := &Game{
		cfg:    cfg,
		world:  world,
		debug:  debug,
		colors: map[npc.Kind]color.Color{npc.KindCivilian: colornames.Khaki, npc.KindHunter: colornames.Firebrick},
		player: colornames.Mediumpurple,
	}
	if spec, err := prefabs.LoadNPCSpec(cfg.Tuning.File); err == nil {
		for name, ks := range spec.Kinds {
			if k, err := npc.ParseKind(name); err == nil {
				g.colors[k] = ks.Color.Or(g.colors[k])
			}
		}
		g.player = spec.Player.Color.Or(g.player)
	}
	if cfg.Tuning.Watch {
		if dirs := prefabs.Dirs(); len(dirs) > 0 {
			w, err := prefabs.NewWatcher(dirs...)
			if err != nil {
				log.Printf("prefab watcher disabled: %v", err)
			} else {
				g.watcher = w
			}
		}
	}
	grid := world.Oracle().Grid()
	g.width = float64(grid.Width()) * cfg.Sim.CellSize
	g.height = float64(grid.Height())*cfg.Sim.CellSize + hudHeight
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	g.pollWatcher()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		if !g.stepOnce {
			return nil
		}
		g.stepOnce = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	for key, u := range upgradeKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.world.Player().Stats.Spend(u); err == nil {
				g.logf("upgraded %s", u)
			}
		}
	}

	g.world.SetInput(readInput())
	g.world.Step(g.cfg.Sim.DT())
	for _, e := range g.world.Events() {
		g.describe(e)
	}
	return nil
}

func readInput() player.Input {
	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move.Y++
	}
	return player.Input{Move: move, Dash: inpututil.IsKeyJustPressed(ebiten.KeySpace)}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.world.Reload(g.cfg, path); err != nil {
				g.logf("reload failed: %v", err)
			} else {
				g.logf("reloaded %s", path)
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefab watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) describe(e sim.Event) {
	switch e.Kind {
	case sim.EventKill:
		g.logf("killed %s %s", e.NPC, e.Entity)
	case sim.EventPlayerHit:
		g.logf("hit for %.1f", e.Amount)
	case sim.EventPhase:
		g.logf("%s falls", e.Phase)
	case sim.EventLevelUp:
		g.logf("level %d: press 1-5 to upgrade", int(e.Amount))
	case sim.EventPlayerDead:
		g.logf("you died")
	}
}

func (g *Game) logf(format string, args ...any) {
	g.lines = append(g.lines, fmt.Sprintf(format, args...))
	if len(g.lines) > maxLog {
		g.lines = g.lines[len(g.lines)-maxLog:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.world.Night() {
		screen.Fill(colornames.Midnightblue)
	} else {
		screen.Fill(colornames.Darkolivegreen)
	}
	cell := float32(g.cfg.Sim.CellSize)

	for _, r := range g.world.Space().Walls() {
		vector.FillRect(screen, float32(r.X)*cell, float32(r.Y)*cell, float32(r.W)*cell, float32(r.H)*cell, colornames.Dimgray, false)
		if g.debug {
			vector.StrokeRect(screen, float32(r.X)*cell, float32(r.Y)*cell, float32(r.W)*cell, float32(r.H)*cell, 1, colornames.Black, false)
		}
	}

	p := g.world.Player()
	g.world.Agents().Each(func(a *npc.Agent) {
		g.drawAgent(screen, a, p)
	})
	g.world.EachProjectile(func(_ ecs.Entity, pr *sim.Projectile) {
		vector.FillCircle(screen, float32(pr.Position.X), float32(pr.Position.Y), 2, colornames.Orange, true)
	})

	pc := g.player
	if p.Controller.Dashing() {
		pc = colornames.White
	}
	vector.FillCircle(screen, float32(p.Position.X), float32(p.Position.Y), physics.BodyRadius, pc, true)

	g.drawHUD(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, a *npc.Agent, p *sim.Player) {
	x, y := float32(a.Position.X), float32(a.Position.Y)
	if !a.Alive() {
		vector.StrokeCircle(screen, x, y, physics.BodyRadius, 1, colornames.Gray, true)
		return
	}
	if g.debug {
		oracle := g.world.Oracle()
		for i := 0; i+1 < len(a.Path); i++ {
			from, to := oracle.GridToWorld(a.Path[i]), oracle.GridToWorld(a.Path[i+1])
			vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 1, colornames.Red, false)
		}
		if a.State == npc.StateChase || a.State == npc.StateAttack {
			vector.StrokeLine(screen, x, y, float32(p.Position.X), float32(p.Position.Y), 1, colornames.Yellow, false)
		}
		ebitenutil.DebugPrintAt(screen, a.State.String(), int(x)-12, int(y)-20)
	}
	vector.FillCircle(screen, x, y, physics.BodyRadius, g.colors[a.Kind], true)
	if a.State == npc.StateAttack {
		windup := a.AttackTimer.Elapsed()
		if g.world.Tuning().For(a.Kind).Ranged {
			windup = a.ThrowTimer.Elapsed()
		}
		vector.FillRect(screen, x-6, y-10, 12*float32(windup), 2, colornames.Orangered, false)
	}
	if in, ok := g.world.Intent(a.ID); ok && in.Anim != npc.AnimNone {
		vector.StrokeCircle(screen, x, y, physics.BodyRadius+3, 1, colornames.White, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.world.Summary()
	st := g.world.Player().Stats
	phase := "day"
	if s.Night {
		phase = "night"
	}
	top := int(g.height) - hudHeight
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %.0f%%  hp %.1f/%.0f  xp %.0f/%.0f  lvl %d  score %.0f  civ %d  hunt %d",
		phase, g.world.Cycle().Progress()*100, st.HP, st.MaxHP, st.XP, st.MaxXP, st.Level, st.Score, s.Civilians, s.Hunters), 4, top)
	if len(g.lines) > 0 {
		ebitenutil.DebugPrintAt(screen, g.lines[len(g.lines)-1], 4, top+13)
	}
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("tick %d  FPS %.1f", s.Tick, ebiten.ActualFPS()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
