package npc

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/grid"
	"github.com/milk9111/nightwalk/pathfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playerID ecs.Entity = 99

type shot struct {
	origin, dir cp.Vector
	speed       float64
}

type hit struct {
	target ecs.Entity
	amount int
}

type recorder struct {
	shots []shot
	hits  []hit
}

func (r *recorder) SpawnProjectile(origin, dir cp.Vector, speed float64) {
	r.shots = append(r.shots, shot{origin: origin, dir: dir, speed: speed})
}

func (r *recorder) ApplyDamage(target ecs.Entity, amount int) {
	r.hits = append(r.hits, hit{target: target, amount: amount})
}

func openRows(w, h int) []string {
	rows := make([]string, h)
	for y := range rows {
		b := make([]byte, w)
		for x := range b {
			b[x] = '.'
		}
		rows[y] = string(b)
	}
	return rows
}

func newBrain(t *testing.T, rows ...string) (*Brain, *grid.Oracle) {
	t.Helper()
	g, err := grid.Parse(rows...)
	require.NoError(t, err)
	o := grid.NewOracle()
	o.Load(g, grid.NewTransform(16))
	return NewBrain(o, pathfind.NewFinder(o, pathfind.DefaultOptions()), DefaultTuning(), DefaultPolicy(), 1), o
}

func at(o *grid.Oracle, x, y int) cp.Vector {
	return o.GridToWorld(grid.Cell{X: x, Y: y})
}

func tickAt(o *grid.Oracle, x, y int, visible, night bool, dt float64, c Combat) Tick {
	return Tick{
		DT:      dt,
		Player:  PlayerSnapshot{Position: at(o, x, y), ID: playerID, Night: night},
		Visible: visible,
		Combat:  c,
	}
}

func TestSightingPolarity(t *testing.T) {
	cases := []struct {
		name  string
		from  State
		night bool
		want  State
	}{
		{"chill_day", StateChill, false, StateChase},
		{"chill_night", StateChill, true, StateEscape},
		{"look_day", StateLook, false, StateChase},
		{"look_night", StateLook, true, StateEscape},
		{"escape_day_flips", StateEscape, false, StateChase},
		{"escape_night_stays", StateEscape, true, StateEscape},
		{"chase_night_flips", StateChase, true, StateEscape},
		{"attack_night_flips", StateAttack, true, StateEscape},
	}
	for _, kind := range Kinds() {
		for _, c := range cases {
			t.Run(kind.String()+"/"+c.name, func(t *testing.T) {
				b, o := newBrain(t, openRows(12, 12)...)
				a := NewAgent(1, kind, at(o, 2, 2), b.Tuning().For(kind))
				a.State = c.from
				a.LastKnownPlayer = grid.Cell{X: 9, Y: 9}

				out := b.Update(&a, tickAt(o, 5, 5, true, c.night, 1.0/60, &recorder{}))
				assert.Equal(t, c.want, a.State)
				assert.Equal(t, c.from, out.From)
				assert.Equal(t, c.want, out.To)
				if c.from == StateChill || c.from == StateLook {
					assert.Contains(t, out.Sounds, SoundAlert)
				}
			})
		}
	}
}

func TestChaseKeepsChasingByDay(t *testing.T) {
	b, o := newBrain(t, openRows(12, 12)...)
	a := NewAgent(1, KindCivilian, at(o, 0, 0), b.Tuning().For(KindCivilian))
	a.State = StateChase

	out := b.Update(&a, tickAt(o, 8, 8, true, false, 1.0/60, nil))
	assert.Equal(t, StateChase, a.State)
	assert.False(t, out.Changed())
	require.NotNil(t, a.Path)
	assert.Equal(t, grid.Cell{X: 8, Y: 8}, a.Goal)
	assert.Equal(t, LocomotionWalk, out.Locomotion)
	assert.Greater(t, out.Velocity.X, 0.0)
}

func TestChaseLosingSightRecordsLastKnownCell(t *testing.T) {
	b, o := newBrain(t, openRows(12, 12)...)
	a := NewAgent(1, KindCivilian, at(o, 0, 0), b.Tuning().For(KindCivilian))
	a.State = StateChase

	b.Update(&a, tickAt(o, 7, 3, false, false, 1.0/60, nil))
	assert.Equal(t, StateLook, a.State)
	assert.Equal(t, grid.Cell{X: 7, Y: 3}, a.LastKnownPlayer)

	b.Update(&a, tickAt(o, 11, 11, false, false, 1.0/60, nil))
	assert.Equal(t, StateLook, a.State)
	last, ok := a.Path.Last()
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 7, Y: 3}, last, "look walks to the last known cell, not the live one")
}

func TestLookFallsBackToChill(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		b, o := newBrain(t,
			"......",
			"....##",
			"....#.",
		)
		a := NewAgent(1, KindCivilian, at(o, 0, 0), b.Tuning().For(KindCivilian))
		a.State = StateLook
		a.LastKnownPlayer = grid.Cell{X: 5, Y: 2}
		b.Update(&a, tickAt(o, 5, 2, false, false, 1.0/60, nil))
		assert.Equal(t, StateChill, a.State)
	})
	t.Run("arrived", func(t *testing.T) {
		b, o := newBrain(t, openRows(4, 4)...)
		a := NewAgent(1, KindCivilian, at(o, 2, 2), b.Tuning().For(KindCivilian))
		a.State = StateLook
		a.LastKnownPlayer = grid.Cell{X: 2, Y: 2}
		b.Update(&a, tickAt(o, 0, 0, false, false, 1.0/60, nil))
		assert.Equal(t, StateChill, a.State)
	})
}

func TestChaseAdjacentSwitchesToAttack(t *testing.T) {
	b, o := newBrain(t, openRows(6, 6)...)
	a := NewAgent(1, KindCivilian, at(o, 2, 2), b.Tuning().For(KindCivilian))
	a.State = StateChase

	out := b.Update(&a, tickAt(o, 3, 3, true, false, 1.0/60, nil))
	assert.Equal(t, StateAttack, a.State)
	assert.True(t, out.Changed())
}

func TestCivilianMelee(t *testing.T) {
	cases := []struct {
		name    string
		playerX int
		hits    int
	}{
		{"in_range", 3, 1},
		{"out_of_range", 5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, o := newBrain(t, openRows(8, 8)...)
			a := NewAgent(1, KindCivilian, at(o, 2, 2), b.Tuning().For(KindCivilian))
			a.State = StateAttack
			rec := &recorder{}

			out := b.Update(&a, tickAt(o, c.playerX, 2, true, false, 0.25, rec))
			assert.Empty(t, rec.hits, "still winding up")
			assert.Equal(t, StateAttack, a.State)
			assert.Equal(t, FacingRight, out.Facing)

			out = b.Update(&a, tickAt(o, c.playerX, 2, true, false, 0.25, rec))
			assert.Len(t, rec.hits, c.hits)
			assert.Equal(t, AnimAttack, out.Anim)
			assert.Equal(t, StateChase, a.State)
			if c.hits > 0 {
				assert.Equal(t, hit{target: playerID, amount: 1}, rec.hits[0])
				assert.Contains(t, out.Sounds, SoundBite)
			}
		})
	}
}

func TestHunterRangedBands(t *testing.T) {
	rows := openRows(30, 5)
	cases := []struct {
		name      string
		playerX   int
		visible   bool
		want      State
		retreat   bool
		wantShots int
	}{
		{"throws_in_band", 11, true, StateAttack, false, 1},
		{"too_close_retreats", 4, true, StateEscape, true, 0},
		{"too_far_chases", 16, true, StateChase, false, 0},
		{"unseen_looks", 11, false, StateLook, false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, o := newBrain(t, rows...)
			a := NewAgent(1, KindHunter, at(o, 2, 2), b.Tuning().For(KindHunter))
			a.State = StateAttack
			rec := &recorder{}

			var out Intent
			for i := 0; i < 2 && a.State == StateAttack; i++ {
				out = b.Update(&a, tickAt(o, c.playerX, 2, c.visible, false, 0.25, rec))
			}
			assert.Equal(t, c.want, a.State)
			assert.Equal(t, c.retreat, a.Retreating)
			require.Len(t, rec.shots, c.wantShots)
			if c.wantShots > 0 {
				assert.Equal(t, AnimThrow, out.Anim)
				assert.Contains(t, out.Sounds, SoundThrow)
				assert.InDelta(t, 1, rec.shots[0].dir.X, 1e-9)
				assert.Equal(t, 150.0, rec.shots[0].speed)
				assert.Equal(t, a.Position, rec.shots[0].origin)
			}
		})
	}
}

func TestHunterRetreatReturnsToAttack(t *testing.T) {
	b, o := newBrain(t, openRows(30, 5)...)
	a := NewAgent(1, KindHunter, at(o, 2, 2), b.Tuning().For(KindHunter))
	a.State = StateEscape
	a.Retreating = true

	b.Update(&a, tickAt(o, 6, 2, true, false, 1.0/60, nil))
	assert.Equal(t, StateEscape, a.State, "64 units is still too close")
	assert.True(t, a.Retreating)

	b.Update(&a, tickAt(o, 12, 2, true, false, 1.0/60, nil))
	assert.Equal(t, StateAttack, a.State)
	assert.False(t, a.Retreating)
}

func TestEscapeEndsWhenSafeAndUnseen(t *testing.T) {
	b, o := newBrain(t, openRows(30, 5)...)
	a := NewAgent(1, KindCivilian, at(o, 0, 2), b.Tuning().For(KindCivilian))
	a.State = StateEscape

	b.Update(&a, tickAt(o, 5, 2, false, true, 1.0/60, nil))
	assert.Equal(t, StateEscape, a.State, "unseen but still close")
	require.NotNil(t, a.Path)

	b.Update(&a, tickAt(o, 20, 2, false, true, 1.0/60, nil))
	assert.Equal(t, StateChill, a.State)
}

func TestDeadAgentsStayDead(t *testing.T) {
	b, o := newBrain(t, openRows(6, 6)...)
	table := NewTable()
	table.Insert(NewAgent(1, KindCivilian, at(o, 1, 1), b.Tuning().For(KindCivilian)))
	a, _ := table.Get(1)
	a.Motion.Velocity = cp.Vector{X: 20}
	require.True(t, table.Kill(1))
	require.False(t, table.Kill(1))

	out := b.Update(a, tickAt(o, 2, 2, true, false, 1.0/60, &recorder{}))
	assert.Equal(t, StateDead, a.State)
	assert.False(t, out.Changed())
	assert.Equal(t, cp.Vector{}, out.Velocity)
	assert.Equal(t, LocomotionIdle, out.Locomotion)
}

func TestChillWandersToTraversableCell(t *testing.T) {
	b, o := newBrain(t,
		"#######",
		"#.....#",
		"#.#.#.#",
		"#.....#",
		"#######",
	)
	a := NewAgent(1, KindCivilian, at(o, 3, 1), b.Tuning().For(KindCivilian))
	for i := 0; i < 200 && a.Path == nil; i++ {
		b.Update(&a, tickAt(o, 0, 0, false, false, 0.5, nil))
	}
	require.NotNil(t, a.Path, "chill never picked a reachable target")
	assert.Equal(t, StateChill, a.State)
	assert.True(t, o.IsTraversable(a.Goal))
	d := a.Goal.Sub(grid.Cell{X: 3, Y: 1})
	assert.LessOrEqual(t, max(abs(float64(d.X)), abs(float64(d.Y))), 3.0)
}

// The scenario drives one chaser across an open 6x6 grid with a trivial
// kinematic mover standing in for physics.
func TestChaseAcrossOpenGridReachesAttack(t *testing.T) {
	b, o := newBrain(t, openRows(6, 6)...)
	a := NewAgent(1, KindCivilian, at(o, 0, 0), b.Tuning().For(KindCivilian))
	a.State = StateChase
	const dt = 1.0 / 60

	seen := map[State]bool{}
	reached := false
	for tick := 0; tick < 60*8; tick++ {
		out := b.Update(&a, tickAt(o, 5, 5, true, false, dt, &recorder{}))
		seen[a.State] = true
		if a.State == StateAttack {
			reached = true
			break
		}
		require.Equal(t, StateChase, out.To, "tick %d", tick)
		a.Position = a.Position.Add(out.Velocity.Mult(dt))
	}
	require.True(t, reached, "never reached attack; at %v", o.WorldToGrid(a.Position))
	assert.False(t, seen[StateLook])
	assert.Equal(t, grid.Cell{X: 4, Y: 4}, o.WorldToGrid(a.Position))
}

func TestDiagonalApproachLandsMelee(t *testing.T) {
	cases := []struct {
		name   string
		startX int
		startY int
	}{
		{"diagonal", 0, 0},
		{"straight", 0, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, o := newBrain(t, openRows(6, 6)...)
			a := NewAgent(1, KindCivilian, at(o, c.startX, c.startY), b.Tuning().For(KindCivilian))
			a.State = StateChase
			rec := &recorder{}
			const dt = 1.0 / 60

			for tick := 0; tick < 60*6 && len(rec.hits) == 0; tick++ {
				out := b.Update(&a, tickAt(o, 5, 5, true, false, dt, rec))
				require.NotEqual(t, StateLook, a.State)
				a.Position = a.Position.Add(out.Velocity.Mult(dt))
			}
			require.NotEmpty(t, rec.hits, "no bite landed; stopped %.2f from the player", a.Position.Distance(at(o, 5, 5)))
			assert.LessOrEqual(t, a.Position.Distance(at(o, 5, 5)), b.Tuning().For(KindCivilian).MeleeRange)
		})
	}
}

func TestMeleeWindupClosesDistance(t *testing.T) {
	b, o := newBrain(t, openRows(8, 8)...)
	a := NewAgent(1, KindCivilian, at(o, 2, 2), b.Tuning().For(KindCivilian))
	a.State = StateAttack

	out := b.Update(&a, tickAt(o, 5, 2, true, false, 0.1, &recorder{}))
	assert.Equal(t, StateAttack, a.State)
	assert.Positive(t, out.Velocity.X)
	assert.Zero(t, out.Velocity.Y)

	in := NewAgent(2, KindCivilian, at(o, 2, 2), b.Tuning().For(KindCivilian))
	in.State = StateAttack
	out = b.Update(&in, tickAt(o, 3, 2, true, false, 0.1, &recorder{}))
	assert.Equal(t, cp.Vector{}, out.Velocity, "already in reach")
}

func TestBrainWaitsForGrid(t *testing.T) {
	o := grid.NewOracle()
	b := NewBrain(o, pathfind.NewFinder(o, pathfind.DefaultOptions()), DefaultTuning(), DefaultPolicy(), 1)
	tr := grid.NewTransform(16)
	pos := func(x, y int) cp.Vector { return tr.GridToWorld(grid.Cell{X: x, Y: y}) }
	tick := func(px, py int, visible, night bool) Tick {
		return Tick{
			DT:      0.5,
			Player:  PlayerSnapshot{Position: pos(px, py), ID: playerID, Night: night},
			Visible: visible,
			Combat:  &recorder{},
		}
	}

	cases := []struct {
		state   State
		visible bool
		night   bool
	}{
		{StateChase, true, false},
		{StateLook, false, false},
		{StateEscape, true, true},
		{StateChill, false, false},
	}
	for _, c := range cases {
		t.Run(c.state.String(), func(t *testing.T) {
			a := NewAgent(1, KindCivilian, pos(0, 0), b.Tuning().For(KindCivilian))
			a.State = c.state
			a.LastKnownPlayer = grid.Cell{X: 5, Y: 5}
			for i := 0; i < 10; i++ {
				require.NotPanics(t, func() { b.Update(&a, tick(2, 2, c.visible, c.night)) })
				assert.Equal(t, c.state, a.State)
				assert.Nil(t, a.Path)
			}
		})
	}

	g, err := grid.Parse(openRows(6, 6)...)
	require.NoError(t, err)
	o.Load(g, tr)

	chaser := NewAgent(1, KindCivilian, pos(0, 0), b.Tuning().For(KindCivilian))
	chaser.State = StateChase
	b.Update(&chaser, tick(5, 5, true, false))
	assert.Equal(t, StateChase, chaser.State)
	assert.NotNil(t, chaser.Path)

	looker := NewAgent(2, KindCivilian, pos(0, 0), b.Tuning().For(KindCivilian))
	looker.State = StateLook
	looker.LastKnownPlayer = grid.Cell{X: 5, Y: 5}
	b.Update(&looker, tick(5, 5, false, false))
	assert.Equal(t, StateLook, looker.State)
	assert.NotNil(t, looker.Path)
}

func TestHunterHoldsFireWithoutIntercept(t *testing.T) {
	b, o := newBrain(t, openRows(30, 5)...)
	a := NewAgent(1, KindHunter, at(o, 2, 2), b.Tuning().For(KindHunter))
	a.State = StateAttack
	rec := &recorder{}

	tick := tickAt(o, 11, 2, true, false, 0.25, rec)
	tick.Player.Velocity = cp.Vector{X: 200}
	var out Intent
	for i := 0; i < 4; i++ {
		out = b.Update(&a, tick)
	}
	assert.Equal(t, StateAttack, a.State)
	assert.Empty(t, rec.shots)
	assert.NotContains(t, out.Sounds, SoundThrow)
}

func TestTable(t *testing.T) {
	table := NewTable()
	kt := DefaultTuning()
	table.Insert(NewAgent(1, KindCivilian, cp.Vector{X: 1}, kt.For(KindCivilian)))
	table.Insert(NewAgent(2, KindHunter, cp.Vector{X: 2}, kt.For(KindHunter)))
	table.Insert(NewAgent(3, KindCivilian, cp.Vector{X: 3}, kt.For(KindCivilian)))

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.CountAlive(KindCivilian))
	table.Kill(3)
	assert.Equal(t, 1, table.CountAlive(KindCivilian))
	assert.Equal(t, []ecs.Entity{3}, table.Dead())
	assert.Equal(t, []cp.Vector{{X: 1}, {X: 2}}, table.AppendPositions(nil))

	require.True(t, table.Remove(3))
	assert.Empty(t, table.Dead())
}
