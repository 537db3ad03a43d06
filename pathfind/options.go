package pathfind

const (
	defaultCardinalCost        = 10
	defaultDiagonalCost        = 14
	defaultChaseTrim           = 1
	defaultChaseMinLen         = 2
	defaultEscapeSafeRadiusSq  = 100
	defaultEscapeHeuristicBase = 1 << 16
	defaultMaxNodes            = 4096
	defaultOccupiedPenalty     = 20
)

// Options tunes a Finder. Zero costs, lengths, radii and budgets fall back to
// the defaults; ChaseTrim and OccupiedPenalty are taken as given. A diagonal
// never costs less than one more than a cardinal step.
type Options struct {
	CardinalCost int
	DiagonalCost int

	// ChaseTrim cells are dropped from the end of every chase path.
	ChaseTrim int
	// ChaseMinLen is the shortest trimmed chase path still worth walking.
	ChaseMinLen int

	// EscapeSafeRadiusSq is the squared cell distance an escape must exceed.
	EscapeSafeRadiusSq  int
	EscapeHeuristicBase int

	// MaxNodes caps node expansions per search.
	MaxNodes int

	// OccupiedPenalty is added to the cost of stepping into a cell another
	// body occupies. The goal cell is exempt.
	OccupiedPenalty int
}

func DefaultOptions() Options {
	return Options{
		CardinalCost:        defaultCardinalCost,
		DiagonalCost:        defaultDiagonalCost,
		ChaseTrim:           defaultChaseTrim,
		ChaseMinLen:         defaultChaseMinLen,
		EscapeSafeRadiusSq:  defaultEscapeSafeRadiusSq,
		EscapeHeuristicBase: defaultEscapeHeuristicBase,
		MaxNodes:            defaultMaxNodes,
		OccupiedPenalty:     defaultOccupiedPenalty,
	}
}

func (o Options) withDefaults() Options {
	if o.CardinalCost <= 0 {
		o.CardinalCost = defaultCardinalCost
	}
	if o.DiagonalCost <= 0 {
		o.DiagonalCost = defaultDiagonalCost
	}
	// The chase heuristic charges CardinalCost+1 for a diagonal step.
	if o.DiagonalCost <= o.CardinalCost {
		o.DiagonalCost = o.CardinalCost + 1
	}
	if o.ChaseTrim < 0 {
		o.ChaseTrim = 0
	}
	if o.ChaseMinLen <= 0 {
		o.ChaseMinLen = defaultChaseMinLen
	}
	if o.EscapeSafeRadiusSq <= 0 {
		o.EscapeSafeRadiusSq = defaultEscapeSafeRadiusSq
	}
	if o.EscapeHeuristicBase <= 0 {
		o.EscapeHeuristicBase = defaultEscapeHeuristicBase
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = defaultMaxNodes
	}
	if o.OccupiedPenalty < 0 {
		o.OccupiedPenalty = 0
	}
	return o
}
