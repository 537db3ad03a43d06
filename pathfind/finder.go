package pathfind

import (
	"container/heap"

	"github.com/milk9111/nightwalk/grid"
)

// Grid is what a Finder needs from the grid oracle.
type Grid interface {
	Ready() bool
	IsTraversable(c grid.Cell) bool
	Occupied(c grid.Cell) bool
}

var cardinals = [4]grid.Cell{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// Finder runs A* over a Grid. It keeps no state between calls, so the same
// inputs always give the same path.
type Finder struct {
	grid Grid
	opts Options
}

func NewFinder(g Grid, opts Options) *Finder {
	return &Finder{grid: g, opts: opts.withDefaults()}
}

// FindPath searches from start and applies the intent's post-processing.
// The path is only meaningful with StatusFound.
func (f *Finder) FindPath(start, goal grid.Cell, intent Intent) (Path, Status) {
	path, status := f.Search(start, goal, intent)
	return f.finish(path, status, intent)
}

// FindEscape is FindPath with IntentEscape and a caller-chosen squared safe
// radius instead of the configured one.
func (f *Finder) FindEscape(start, threat grid.Cell, safeRadiusSq int) (Path, Status) {
	if f == nil {
		return nil, StatusNotReady
	}
	if safeRadiusSq <= 0 {
		safeRadiusSq = f.opts.EscapeSafeRadiusSq
	}
	path, status := f.search(start, threat, IntentEscape, safeRadiusSq)
	return f.finish(path, status, IntentEscape)
}

func (f *Finder) finish(path Path, status Status, intent Intent) (Path, Status) {
	if status != StatusFound {
		return nil, status
	}
	if intent == IntentChase {
		keep := len(path) - f.opts.ChaseTrim
		if keep < f.opts.ChaseMinLen || keep < 2 {
			return nil, StatusArrived
		}
		path = path[:keep]
	}
	if len(path) < 2 {
		return nil, StatusArrived
	}
	return path, StatusFound
}

// Search runs the raw A* search. A found path starts at start and may hold
// a single cell when start already satisfies the goal test.
func (f *Finder) Search(start, goal grid.Cell, intent Intent) (Path, Status) {
	if f == nil {
		return nil, StatusNotReady
	}
	return f.search(start, goal, intent, f.opts.EscapeSafeRadiusSq)
}

func (f *Finder) search(start, goal grid.Cell, intent Intent, safeRadiusSq int) (Path, Status) {
	if f == nil || f.grid == nil || !f.grid.Ready() {
		return nil, StatusNotReady
	}
	if intent != IntentEscape && !f.grid.IsTraversable(goal) {
		return nil, StatusUnreachable
	}

	open := &openSet{}
	heap.Init(open)

	gScore := map[grid.Cell]int{start: 0}
	cameFrom := map[grid.Cell]grid.Cell{}
	var seq uint64
	heap.Push(open, &openItem{cell: start, g: 0, f: f.heuristic(start, goal, intent), seq: seq})

	expanded := 0
	succ := make([]successor, 0, 8)
	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.cell
		if current.g > gScore[cur] {
			continue
		}
		if isGoal(cur, goal, intent, safeRadiusSq) {
			return reconstructPath(cameFrom, start, cur), StatusFound
		}

		expanded++
		if expanded > f.opts.MaxNodes {
			return nil, StatusUnreachable
		}

		succ = f.successors(cur, succ[:0])
		for _, s := range succ {
			step := s.cost
			if f.opts.OccupiedPenalty > 0 && s.cell != goal && f.grid.Occupied(s.cell) {
				step += f.opts.OccupiedPenalty
			}
			tentativeG := current.g + step
			if old, ok := gScore[s.cell]; ok && tentativeG >= old {
				continue
			}
			gScore[s.cell] = tentativeG
			cameFrom[s.cell] = cur
			seq++
			heap.Push(open, &openItem{
				cell: s.cell,
				g:    tentativeG,
				f:    tentativeG + f.heuristic(s.cell, goal, intent),
				seq:  seq,
			})
		}
	}

	return nil, StatusUnreachable
}

type successor struct {
	cell grid.Cell
	cost int
}

// successors offers the open cardinal neighbours, then each diagonal whose
// two flanking cardinals and the diagonal cell itself are open.
func (f *Finder) successors(c grid.Cell, out []successor) []successor {
	var open [4]bool
	for i, d := range cardinals {
		n := c.Add(d)
		if f.grid.IsTraversable(n) {
			open[i] = true
			out = append(out, successor{cell: n, cost: f.opts.CardinalCost})
		}
	}
	for i := range cardinals {
		j := (i + 1) % len(cardinals)
		if !open[i] || !open[j] {
			continue
		}
		n := c.Add(cardinals[i]).Add(cardinals[j])
		if f.grid.IsTraversable(n) {
			out = append(out, successor{cell: n, cost: f.opts.DiagonalCost})
		}
	}
	return out
}

func isGoal(c, goal grid.Cell, intent Intent, safeRadiusSq int) bool {
	if intent == IntentEscape {
		return c.DistSq(goal) > safeRadiusSq
	}
	return c == goal
}

// heuristic weights the y axis by the cardinal cost, which never exceeds
// the octile distance under the default 10/14 costs. Escape inverts the
// squared distance so cells farther from goal look cheaper.
func (f *Finder) heuristic(c, goal grid.Cell, intent Intent) int {
	if intent == IntentEscape {
		h := f.opts.EscapeHeuristicBase - c.DistSq(goal)
		if h < 0 {
			return 0
		}
		return h
	}
	return abs(c.X-goal.X) + f.opts.CardinalCost*abs(c.Y-goal.Y)
}

func reconstructPath(cameFrom map[grid.Cell]grid.Cell, start, end grid.Cell) Path {
	path := Path{end}
	cur := end
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type openItem struct {
	cell  grid.Cell
	f     int
	g     int
	seq   uint64
	index int
}

// openSet orders by f, then by insertion sequence.
type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
