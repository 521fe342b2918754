// Package heuristic holds the estimates of remaining delivery cost used to rank search states.
// The world is passed into every call; heuristics keep no state of their own.
package heuristic

import (
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/lintang-b-s/Deliverx/pkg/world"
)

const (
	ZERO              = "zero"
	UNDELIVERED_COUNT = "undelivered-count"
	SUM_DISTANCE      = "sum-distance"
	SCALED_PROGRESS   = "scaled-progress"
)

type Heuristic interface {
	Name() string
	// Admissible reports whether Score never overestimates the remaining cost on any
	// non-negative weighted graph.
	Admissible() bool
	Score(w *world.World, s *state.State) float64
}

// Zero turns A* into uniform cost search.
type Zero struct{}

func (Zero) Name() string { return ZERO }

func (Zero) Admissible() bool { return true }

func (Zero) Score(*world.World, *state.State) float64 { return 0 }

// UndeliveredCount number of packages still waiting. Only admissible when every delivery
// costs at least one unit, which weights in [0, inf) do not guarantee.
type UndeliveredCount struct{}

func (UndeliveredCount) Name() string { return UNDELIVERED_COUNT }

func (UndeliveredCount) Admissible() bool { return false }

func (UndeliveredCount) Score(_ *world.World, s *state.State) float64 {
	return float64(s.NumPackages() - s.NumDelivered())
}

// SumOfRemainingDistance sum of the source to destination cost of every undelivered package.
// The approach leg of each vehicle is ignored, so this is a lower bound of the remaining cost.
type SumOfRemainingDistance struct{}

func (SumOfRemainingDistance) Name() string { return SUM_DISTANCE }

func (SumOfRemainingDistance) Admissible() bool { return true }

func (SumOfRemainingDistance) Score(w *world.World, s *state.State) float64 {
	return remainingDistance(w, s)
}

// ScaledProgress SumOfRemainingDistance multiplied by the fraction of packages still undelivered.
// Not admissible; it pushes greedy and bounded searches toward states with more deliveries.
type ScaledProgress struct{}

func (ScaledProgress) Name() string { return SCALED_PROGRESS }

func (ScaledProgress) Admissible() bool { return false }

func (ScaledProgress) Score(w *world.World, s *state.State) float64 {
	k := s.NumPackages()
	if k == 0 {
		return 0
	}
	return remainingDistance(w, s) * (1 - float64(s.NumDelivered())/float64(k))
}

func remainingDistance(w *world.World, s *state.State) float64 {
	sum := 0.0
	for i := 0; i < s.NumPackages(); i++ {
		if !s.PackageDelivered(i) {
			sum += w.EdgeCost(w.PackageSource(i), w.PackageDest(i))
		}
	}
	return sum
}

func Parse(name string) (Heuristic, error) {
	switch name {
	case ZERO:
		return Zero{}, nil
	case UNDELIVERED_COUNT:
		return UndeliveredCount{}, nil
	case SUM_DISTANCE, "sum-of-remaining-distance":
		return SumOfRemainingDistance{}, nil
	case SCALED_PROGRESS:
		return ScaledProgress{}, nil
	default:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown heuristic %q", name)
	}
}

func Names() []string {
	return []string{ZERO, UNDELIVERED_COUNT, SUM_DISTANCE, SCALED_PROGRESS}
}
