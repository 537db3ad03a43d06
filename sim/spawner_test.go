package sim

import (
	"testing"

	"github.com/milk9111/nightwalk/daycycle"
	"github.com/milk9111/nightwalk/grid"
	"github.com/milk9111/nightwalk/npc"
	"github.com/milk9111/nightwalk/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnerRespectsCaps(t *testing.T) {
	w, err := NewWorld(Options{
		Level: levelFromRows(
			"....................",
			"....................",
			"....................",
			".........P..........",
			"....................",
			"....................",
		),
		Tuning:     npc.DefaultTuning(),
		Population: Population{MaxCivilians: 2, MaxHunters: 1, Interval: 0.5, MinPlayerDistance: 4},
		Seed:       11,
	})
	require.NoError(t, err)
	playerCell := w.Oracle().WorldToGrid(w.Player().Position)

	for i := 0; i < int(10/dt); i++ {
		w.Step(dt)
		for _, e := range w.Events() {
			if e.Kind != EventSpawn {
				continue
			}
			c := w.Oracle().WorldToGrid(e.Position)
			assert.GreaterOrEqual(t, c.DistSq(playerCell), 16, "spawned at %s", c)
		}
		require.LessOrEqual(t, w.Agents().CountAlive(npc.KindCivilian), 2)
		require.LessOrEqual(t, w.Agents().CountAlive(npc.KindHunter), 1)
	}
	assert.Equal(t, 2, w.Agents().CountAlive(npc.KindCivilian))
	assert.Equal(t, 1, w.Agents().CountAlive(npc.KindHunter))
}

func TestSpawnerSkipsOccupiedCells(t *testing.T) {
	w, err := NewWorld(Options{
		Level:      levelFromRows("P#####.."),
		Tuning:     npc.DefaultTuning(),
		Population: Population{MaxCivilians: 3, Interval: dt, MinPlayerDistance: 4},
		Seed:       3,
	})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		w.Step(dt)
	}
	require.Equal(t, 2, w.Agents().CountAlive(npc.KindCivilian), "only two free cells")
	cells := map[grid.Cell]bool{}
	w.Agents().Each(func(a *npc.Agent) {
		cells[w.Oracle().WorldToGrid(a.Position)] = true
	})
	assert.Equal(t, map[grid.Cell]bool{{X: 6}: true, {X: 7}: true}, cells)
}

func TestSpawnMarksCellOccupied(t *testing.T) {
	w := newWorld(t, false, "P.........")
	c := grid.Cell{X: 8}
	require.False(t, w.Oracle().Occupied(c))
	w.Spawn(npc.KindCivilian, c)
	assert.True(t, w.Oracle().Occupied(c), "visible to the rest of the tick")
}

func TestSpawnerDisabledWithoutInterval(t *testing.T) {
	w := newWorld(t, false, "P.........")
	for i := 0; i < 120; i++ {
		w.Step(dt)
	}
	assert.Zero(t, w.Agents().Len())
}

func TestAutopilotHuntsAtNight(t *testing.T) {
	cycle := daycycle.Default()
	cycle.Toggle()
	w, err := NewWorld(Options{
		Level: levelFromRows(
			"##############",
			"#............#",
			"#.P..........#",
			"#............#",
			"#.........C..#",
			"#............#",
			"##############",
		),
		Tuning:   npc.DefaultTuning(),
		DayCycle: cycle,
		Seed:     3,
	})
	require.NoError(t, err)

	ap := NewAutopilot()
	killed := false
	for i := 0; i < int(10/dt) && !killed; i++ {
		w.SetInput(ap.Input(w, dt))
		w.Step(dt)
		for _, e := range w.Events() {
			killed = killed || e.Kind == EventKill
		}
	}
	assert.True(t, killed)
	assert.Equal(t, player.Input{}, ap.Input(w, dt), "nothing left to hunt")
}
