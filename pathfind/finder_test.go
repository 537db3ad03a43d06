package pathfind

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOracle(t *testing.T, rows ...string) *grid.Oracle {
	t.Helper()
	g, err := grid.Parse(rows...)
	require.NoError(t, err)
	o := grid.NewOracle()
	o.Load(g, grid.NewTransform(1))
	return o
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

// pathCost validates every step and sums its cost.
func pathCost(t *testing.T, g Grid, p Path) int {
	t.Helper()
	cost := 0
	for i := 1; i < len(p); i++ {
		a, b := p[i-1], p[i]
		require.True(t, g.IsTraversable(b), "step into blocked cell %v", b)
		d := b.Sub(a)
		switch {
		case abs(d.X)+abs(d.Y) == 1:
			cost += 10
		case abs(d.X) == 1 && abs(d.Y) == 1:
			require.True(t, g.IsTraversable(grid.Cell{X: a.X + d.X, Y: a.Y}), "diagonal %v->%v cuts a corner", a, b)
			require.True(t, g.IsTraversable(grid.Cell{X: a.X, Y: a.Y + d.Y}), "diagonal %v->%v cuts a corner", a, b)
			cost += 14
		default:
			t.Fatalf("non-adjacent step %v->%v", a, b)
		}
	}
	return cost
}

// dijkstra is a brute-force reference: it relaxes every edge until no
// distance changes.
func dijkstra(g *grid.Grid, start grid.Cell) map[grid.Cell]int {
	dist := map[grid.Cell]int{start: 0}
	dirs := []struct {
		d    grid.Cell
		cost int
	}{
		{grid.Cell{X: 1}, 10}, {grid.Cell{X: -1}, 10}, {grid.Cell{Y: 1}, 10}, {grid.Cell{Y: -1}, 10},
		{grid.Cell{X: 1, Y: 1}, 14}, {grid.Cell{X: 1, Y: -1}, 14}, {grid.Cell{X: -1, Y: 1}, 14}, {grid.Cell{X: -1, Y: -1}, 14},
	}
	for changed := true; changed; {
		changed = false
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				c := grid.Cell{X: x, Y: y}
				dc, ok := dist[c]
				if !ok {
					continue
				}
				for _, dir := range dirs {
					n := c.Add(dir.d)
					if !g.IsTraversable(n) {
						continue
					}
					if dir.d.X != 0 && dir.d.Y != 0 {
						if !g.IsTraversable(grid.Cell{X: c.X + dir.d.X, Y: c.Y}) || !g.IsTraversable(grid.Cell{X: c.X, Y: c.Y + dir.d.Y}) {
							continue
						}
					}
					if old, seen := dist[n]; !seen || dc+dir.cost < old {
						dist[n] = dc + dir.cost
						changed = true
					}
				}
			}
		}
	}
	return dist
}

func TestChaseSearchIsOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 40; trial++ {
		w, h := 4+rng.Intn(4), 4+rng.Intn(4)
		rows := openRows(w, h)
		for y := range rows {
			b := []byte(rows[y])
			for x := range b {
				if rng.Float64() < 0.25 {
					b[x] = '#'
				}
			}
			rows[y] = string(b)
		}
		o := mustOracle(t, rows...)
		g := o.Grid()
		f := NewFinder(o, DefaultOptions())

		for sy := 0; sy < h; sy++ {
			for sx := 0; sx < w; sx++ {
				start := grid.Cell{X: sx, Y: sy}
				if !g.IsTraversable(start) {
					continue
				}
				ref := dijkstra(g, start)
				for gy := 0; gy < h; gy++ {
					for gx := 0; gx < w; gx++ {
						goal := grid.Cell{X: gx, Y: gy}
						if !g.IsTraversable(goal) {
							continue
						}
						want, reachable := ref[goal]
						path, status := f.Search(start, goal, IntentChase)
						if !reachable {
							assert.Equal(t, StatusUnreachable, status, "%v->%v", start, goal)
							continue
						}
						require.Equal(t, StatusFound, status, "%v->%v in %v", start, goal, rows)
						require.Equal(t, start, path[0])
						last, _ := path.Last()
						require.Equal(t, goal, last)
						assert.Equal(t, want, pathCost(t, o, path), "%v->%v in %v", start, goal, rows)
					}
				}
			}
		}
	}
}

func TestNoDiagonalPastCorner(t *testing.T) {
	cases := []struct {
		name     string
		rows     []string
		start    grid.Cell
		goal     grid.Cell
		status   Status
		wantCost int
	}{
		{"one_flank_blocked", []string{".#", ".."}, grid.Cell{}, grid.Cell{X: 1, Y: 1}, StatusFound, 20},
		{"other_flank_blocked", []string{"..", "#."}, grid.Cell{}, grid.Cell{X: 1, Y: 1}, StatusFound, 20},
		{"both_flanks_blocked", []string{".#", "#."}, grid.Cell{}, grid.Cell{X: 1, Y: 1}, StatusUnreachable, 0},
		{"l_shaped_wall", []string{"...", "##.", "..."}, grid.Cell{X: 0, Y: 2}, grid.Cell{X: 0, Y: 0}, StatusFound, 60},
		{"open", []string{"..", ".."}, grid.Cell{}, grid.Cell{X: 1, Y: 1}, StatusFound, 14},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := mustOracle(t, c.rows...)
			path, status := NewFinder(o, DefaultOptions()).Search(c.start, c.goal, IntentChase)
			require.Equal(t, c.status, status)
			if status == StatusFound {
				assert.Equal(t, c.wantCost, pathCost(t, o, path))
			}
		})
	}
}

func TestChaseTrimming(t *testing.T) {
	o := mustOracle(t, openRows(6, 6)...)
	f := NewFinder(o, DefaultOptions())

	path, status := f.FindPath(grid.Cell{}, grid.Cell{X: 5, Y: 5}, IntentChase)
	require.Equal(t, StatusFound, status)
	assert.Len(t, path, 5)
	last, _ := path.Last()
	assert.Equal(t, grid.Cell{X: 4, Y: 4}, last)

	_, status = f.FindPath(grid.Cell{}, grid.Cell{X: 1, Y: 1}, IntentChase)
	assert.Equal(t, StatusArrived, status)
	_, status = f.FindPath(grid.Cell{X: 2, Y: 2}, grid.Cell{X: 2, Y: 2}, IntentChase)
	assert.Equal(t, StatusArrived, status)

	path, status = f.FindPath(grid.Cell{}, grid.Cell{X: 0, Y: 2}, IntentChase)
	require.Equal(t, StatusFound, status)
	assert.Equal(t, Path{{X: 0, Y: 0}, {X: 0, Y: 1}}, path)
}

func TestLookAndChillAreNotTrimmed(t *testing.T) {
	o := mustOracle(t, openRows(4, 1)...)
	f := NewFinder(o, DefaultOptions())
	for _, intent := range []Intent{IntentLook, IntentChill} {
		t.Run(intent.String(), func(t *testing.T) {
			path, status := f.FindPath(grid.Cell{}, grid.Cell{X: 3}, intent)
			require.Equal(t, StatusFound, status)
			assert.Equal(t, Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}, path)

			_, status = f.FindPath(grid.Cell{X: 3}, grid.Cell{X: 3}, intent)
			assert.Equal(t, StatusArrived, status)
		})
	}
}

func TestEscapeLeavesSafeRadius(t *testing.T) {
	opts := DefaultOptions()
	opts.EscapeSafeRadiusSq = 9
	o := mustOracle(t, openRows(9, 9)...)
	f := NewFinder(o, opts)
	threat := grid.Cell{X: 4, Y: 4}

	for _, start := range []grid.Cell{{X: 4, Y: 4}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 2, Y: 2}} {
		path, status := f.FindPath(start, threat, IntentEscape)
		require.Equal(t, StatusFound, status, "from %v", start)
		assert.Equal(t, start, path[0])
		assert.GreaterOrEqual(t, len(path), 2)
		last, _ := path.Last()
		assert.Greater(t, last.DistSq(threat), opts.EscapeSafeRadiusSq, "from %v", start)
		pathCost(t, o, path)
	}

	_, status := f.FindPath(grid.Cell{X: 0, Y: 0}, threat, IntentEscape)
	assert.Equal(t, StatusArrived, status, "already outside the radius")
}

func TestEscapeUnreachableWhenEnclosed(t *testing.T) {
	opts := DefaultOptions()
	opts.EscapeSafeRadiusSq = 4
	o := mustOracle(t,
		"#######",
		"#.....#",
		"#######",
	)
	_, status := NewFinder(o, opts).FindPath(grid.Cell{X: 3, Y: 1}, grid.Cell{X: 3, Y: 1}, IntentEscape)
	assert.Equal(t, StatusUnreachable, status)
}

func TestSearchEdgeCases(t *testing.T) {
	t.Run("not_ready", func(t *testing.T) {
		f := NewFinder(grid.NewOracle(), DefaultOptions())
		_, status := f.FindPath(grid.Cell{}, grid.Cell{X: 1}, IntentChase)
		assert.Equal(t, StatusNotReady, status)
		var nilFinder *Finder
		_, status = nilFinder.FindPath(grid.Cell{}, grid.Cell{X: 1}, IntentChase)
		assert.Equal(t, StatusNotReady, status)
	})
	t.Run("goal_blocked", func(t *testing.T) {
		o := mustOracle(t, "..#")
		_, status := NewFinder(o, DefaultOptions()).FindPath(grid.Cell{}, grid.Cell{X: 2}, IntentLook)
		assert.Equal(t, StatusUnreachable, status)
	})
	t.Run("goal_outside", func(t *testing.T) {
		o := mustOracle(t, "...")
		_, status := NewFinder(o, DefaultOptions()).FindPath(grid.Cell{}, grid.Cell{X: 7}, IntentChase)
		assert.Equal(t, StatusUnreachable, status)
	})
	t.Run("node_budget", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxNodes = 3
		o := mustOracle(t, openRows(20, 20)...)
		_, status := NewFinder(o, opts).FindPath(grid.Cell{}, grid.Cell{X: 19, Y: 19}, IntentChase)
		assert.Equal(t, StatusUnreachable, status)
	})
}

func TestOccupancyIsAdvisory(t *testing.T) {
	o := mustOracle(t, openRows(5, 2)...)
	o.RefreshOccupancy([]cp.Vector{{X: 2.5, Y: 0.5}})
	start, goal := grid.Cell{}, grid.Cell{X: 4}

	opts := DefaultOptions()
	path, status := NewFinder(o, opts).FindPath(start, goal, IntentLook)
	require.Equal(t, StatusFound, status)
	assert.NotContains(t, path, grid.Cell{X: 2})

	opts.OccupiedPenalty = 0
	path, status = NewFinder(o, opts).FindPath(start, goal, IntentLook)
	require.Equal(t, StatusFound, status)
	assert.Contains(t, path, grid.Cell{X: 2})

	blocked := mustOracle(t, ".....", "#####")
	blocked.RefreshOccupancy([]cp.Vector{{X: 2.5, Y: 0.5}})
	path, status = NewFinder(blocked, DefaultOptions()).FindPath(start, goal, IntentLook)
	require.Equal(t, StatusFound, status, "occupied cells are never hard blocks")
	assert.Len(t, path, 5)
}

func TestSearchIsDeterministic(t *testing.T) {
	o := mustOracle(t,
		"........",
		"..##....",
		"..#..#..",
		"....##..",
		"........",
	)
	f := NewFinder(o, DefaultOptions())
	first, status := f.FindPath(grid.Cell{}, grid.Cell{X: 7, Y: 4}, IntentChase)
	require.Equal(t, StatusFound, status)
	for i := 0; i < 20; i++ {
		again, _ := f.FindPath(grid.Cell{}, grid.Cell{X: 7, Y: 4}, IntentChase)
		require.Equal(t, first, again)
	}
}

func TestPathAdvance(t *testing.T) {
	a, b, c := grid.Cell{X: 0}, grid.Cell{X: 1}, grid.Cell{X: 2}

	assert.Equal(t, Path{b, c}, Path{a, b, c}.Advance(b))
	assert.Nil(t, Path{a, b}.Advance(b), "arrived")
	assert.Equal(t, Path{a, b, c}, Path{a, b, c}.Advance(a), "not there yet")
	assert.Nil(t, Path{a}.Advance(a))
	assert.Nil(t, Path(nil).Advance(a))

	next, ok := Path{a, b}.Next()
	assert.True(t, ok)
	assert.Equal(t, b, next)
	_, ok = Path{a}.Next()
	assert.False(t, ok)
}

func TestFindEscapeUsesGivenRadius(t *testing.T) {
	o := mustOracle(t, openRows(12, 1)...)
	f := NewFinder(o, DefaultOptions())
	threat := grid.Cell{X: 0}

	path, status := f.FindEscape(grid.Cell{X: 1}, threat, 4)
	require.Equal(t, StatusFound, status)
	last, _ := path.Last()
	assert.Equal(t, grid.Cell{X: 3}, last)

	path, status = f.FindEscape(grid.Cell{X: 1}, threat, 49)
	require.Equal(t, StatusFound, status)
	last, _ = path.Last()
	assert.Equal(t, grid.Cell{X: 8}, last)
}

func TestDiagonalCostIsRaisedAboveCardinal(t *testing.T) {
	cases := []struct {
		name           string
		cardinal, diag int
		want           int
	}{
		{"equal", 10, 10, 11},
		{"cheaper", 10, 6, 11},
		{"defaults", 0, 0, 14},
		{"kept", 5, 7, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := NewFinder(mustOracle(t, openRows(6, 6)...), Options{CardinalCost: c.cardinal, DiagonalCost: c.diag})
			assert.Equal(t, c.want, f.opts.DiagonalCost)
		})
	}

	f := NewFinder(mustOracle(t, openRows(6, 6)...), Options{CardinalCost: 10, DiagonalCost: 10})
	path, status := f.Search(grid.Cell{}, grid.Cell{X: 5, Y: 5}, IntentChase)
	require.Equal(t, StatusFound, status)
	assert.Len(t, path, 6, "straight diagonal is still the cheapest route")
}
