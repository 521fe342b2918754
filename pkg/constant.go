package pkg

// enum of search strategy
type StrategyKind uint8

const (
	ASTAR StrategyKind = iota
	BOUNDED_ASTAR
	LOCAL_BEAM
	INVALID_STRATEGY
)

func (s StrategyKind) String() string {
	switch s {
	case ASTAR:
		return "astar"
	case BOUNDED_ASTAR:
		return "bounded-astar"
	case LOCAL_BEAM:
		return "local-beam"
	default:
		return "unknown"
	}
}

const (
	INF_WEIGHT float64 = 1e15

	DEFAULT_GARAGE          = 0
	MAX_RANDOM_EDGE_WEIGHT  = 1000
	DEFAULT_PROGRESS_EVERY  = 10000
	DEFAULT_SOLVE_CACHE_LEN = 1 << 10
)

func GetStrategyKind(name string) (StrategyKind, bool) {
	switch name {
	case "astar", "a_star":
		return ASTAR, true
	case "bounded-astar", "bounded_a_star":
		return BOUNDED_ASTAR, true
	case "local-beam", "local_beam":
		return LOCAL_BEAM, true
	default:
		return INVALID_STRATEGY, false
	}
}
