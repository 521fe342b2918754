package engine

import (
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/lintang-b-s/Deliverx/pkg/world"
)

// ReconstructPaths expands every vehicle's stop history into a full vertex walk on the
// road graph. Consecutive repeated stops are skipped, so a walk never repeats a vertex
// back to back.
func ReconstructPaths(w *world.World, s *state.State) [][]da.Index {
	paths := make([][]da.Index, s.NumCars())
	for car := range paths {
		stops := s.CarPath(car)
		path := make([]da.Index, 0, len(stops))
		path = append(path, stops[0])
		for i := 1; i < len(stops); i++ {
			if stops[i] == stops[i-1] {
				continue
			}
			segment := w.ShortestPath(stops[i-1], stops[i])
			util.AssertPanic(len(segment) > 0, "stop history crosses disconnected components")
			path = append(path, segment[1:]...)
		}
		paths[car] = path
	}
	return paths
}

// PathCost sums the road graph weights along path.
func PathCost(g *da.Graph, path []da.Index) float64 {
	cost := 0.0
	for i := 1; i < len(path); i++ {
		w, ok := g.GetWeight(path[i-1], path[i])
		util.AssertPanic(ok, "path uses a missing edge")
		cost += w
	}
	return cost
}
