package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/state"
)

// Strategy is one of the search flavours the engine can run. The set is closed: use
// NewAStar, NewBoundedAStar or NewLocalBeam.
type Strategy interface {
	Kind() pkg.StrategyKind
	Bound() float64
	KLimit() int

	// exhaustive reports whether the strategy never discards a non-dominated child.
	exhaustive() bool
	search(sr *searcher, initial *state.State) (*state.State, error)
}

// NewStrategy builds the strategy named by kind. bound is only read by bounded A*,
// kLimit only by local beam. It panics on a kind outside the enum.
func NewStrategy(kind pkg.StrategyKind, bound float64, kLimit int) Strategy {
	switch kind {
	case pkg.ASTAR:
		return NewAStar()
	case pkg.BOUNDED_ASTAR:
		return NewBoundedAStar(bound)
	case pkg.LOCAL_BEAM:
		return NewLocalBeam(kLimit)
	default:
		panic(fmt.Sprintf("engine: unknown strategy kind %d", kind))
	}
}

// byPriority orders by f, then by g.
func byPriority(a, b *state.State) int {
	switch {
	case da.Lt(a.F(), b.F()):
		return -1
	case da.Lt(b.F(), a.F()):
		return 1
	case da.Lt(a.G(), b.G()):
		return -1
	case da.Lt(b.G(), a.G()):
		return 1
	default:
		return 0
	}
}

// keepCount is how many of n children survive bound. 0 < bound < 1 keeps the best
// ceil(bound*n) (at least one), bound >= 1 keeps floor(bound), bound <= 0 keeps all.
func keepCount(bound float64, n int) int {
	switch {
	case n == 0:
		return 0
	case bound <= 0:
		return n
	case bound < 1:
		return max(1, min(n, int(math.Ceil(bound*float64(n)))))
	default:
		return min(n, int(math.Floor(bound)))
	}
}

// best returns the keep lowest priority states of children, order preserved among equals.
func best(children []*state.State, keep int) []*state.State {
	if keep >= len(children) {
		return children
	}
	slices.SortStableFunc(children, byPriority)
	return children[:keep]
}
