package successor

import (
	"iter"
	"slices"

	"github.com/lintang-b-s/Deliverx/pkg"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/world"
)

// Assignment is one assignment round: Cars[j] picks up and delivers Packages[j].
type Assignment struct {
	Cars     []int
	Packages []int
}

// Generate lazily enumerates every child of s. Subset sizes go from 1 to the number of
// vehicles, vehicle subsets and package sequences in lexicographic order.
//
// Every leg is priced from the vehicle's location before the round; vehicles move
// independently, and one vehicle never carries two packages in the same round.
// Assignments with a leg between disconnected vertices are not emitted.
func Generate(w *world.World, s *state.State) iter.Seq2[Assignment, *state.State] {
	return func(yield func(Assignment, *state.State) bool) {
		n := s.NumCars()
		undelivered := s.Undelivered()

		for size := 1; size <= n && size <= len(undelivered); size++ {
			more := forEachCombination(n, size, func(cars []int) bool {
				return forEachPermutation(undelivered, size, func(packages []int) bool {
					child, ok := assign(w, s, cars, packages)
					if !ok {
						return true
					}
					return yield(Assignment{Cars: slices.Clone(cars), Packages: slices.Clone(packages)}, child)
				})
			})
			if !more {
				return
			}
		}
	}
}

// Expand materializes Generate.
func Expand(w *world.World, s *state.State) []*state.State {
	children := make([]*state.State, 0, Count(s.NumCars(), s.NumPackages()-s.NumDelivered()))
	for _, child := range Generate(w, s) {
		children = append(children, child)
	}
	return children
}

func assign(w *world.World, s *state.State, cars, packages []int) (*state.State, bool) {
	b := state.NewBuilder(s)
	for j, car := range cars {
		p := packages[j]
		src, dst := w.PackageSource(p), w.PackageDest(p)

		approach := w.EdgeCost(s.CarLoc(car), src)
		delivery := w.EdgeCost(src, dst)
		if approach >= pkg.INF_WEIGHT || delivery >= pkg.INF_WEIGHT {
			return nil, false
		}
		b.Deliver(car, p, src, dst, approach+delivery)
	}
	return b.Build(), true
}
