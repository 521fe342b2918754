package instance

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"golang.org/x/exp/rand"
)

// Random builds a connected random problem with m vertices and k packages. The same
// seed always yields the same problem.
//
// The edge count is drawn from [ceil(0.75m), floor(1.25m)] and the edges are sampled
// uniformly from all vertex pairs. Every extra connected component is joined to
// vertex 0. Weights are integers in [0, MAX_RANDOM_EDGE_WEIGHT].
func Random(n, k, m int, seed uint64) (*Problem, error) {
	if n < 1 || k < 0 || m < 1 {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "random problem needs n >= 1, k >= 0, m >= 1, got n=%d k=%d m=%d", n, k, m)
	}
	if k > 0 && m < 2 {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "packages need at least two vertices")
	}

	rng := rand.New(rand.NewSource(seed))

	lo, hi := int(math.Ceil(0.75*float64(m))), int(math.Floor(1.25*float64(m)))
	numEdges := lo + rng.Intn(hi-lo+1)
	numEdges = util.MinInt(numEdges, m*(m-1)/2)

	edges := denseGnm(rng, m, numEdges)
	edges = joinComponents(m, edges)
	for i := range edges {
		edges[i].Weight = float64(rng.Intn(pkg.MAX_RANDOM_EDGE_WEIGHT + 1))
	}

	pairs := make([]Pair, 0, k)
	for i := 0; i < k; i++ {
		src := uint32(rng.Intn(m))
		dst := src
		for dst == src {
			dst = uint32(rng.Intn(m))
		}
		pairs = append(pairs, Pair{Source: src, Destination: dst})
	}
	pairs = FilterPairs(pairs)

	return &Problem{
		Name:   fmt.Sprintf("random-n%d-k%d-m%d-s%d", n, k, m, seed),
		N:      n,
		K:      len(pairs),
		M:      m,
		Garage: pkg.DEFAULT_GARAGE,
		Edges:  edges,
		Pairs:  pairs,
	}, nil
}

// denseGnm selects e of the m(m-1)/2 vertex pairs, each subset equally likely.
func denseGnm(rng *rand.Rand, m, e int) []Edge {
	edges := make([]Edge, 0, e)
	remaining := m * (m - 1) / 2
	for u := 0; u < m && len(edges) < e; u++ {
		for v := u + 1; v < m && len(edges) < e; v++ {
			if rng.Intn(remaining) < e-len(edges) {
				edges = append(edges, Edge{From: uint32(u), To: uint32(v)})
			}
			remaining--
		}
	}
	return edges
}

func joinComponents(m int, edges []Edge) []Edge {
	g := da.NewGraph(m)
	for _, e := range edges {
		util.AssertPanic(g.AddEdge(da.Index(e.From), da.Index(e.To), 0) == nil, "generated edge out of range")
	}

	root := g.ConnectedComponents()
	joined := make(map[da.Index]bool)
	for v := 0; v < m; v++ {
		r := root[v]
		if r == root[0] || joined[r] {
			continue
		}
		joined[r] = true
		edges = append(edges, Edge{From: 0, To: uint32(r)})
	}
	return edges
}
