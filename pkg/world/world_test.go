package world

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	u, v   da.Index
	weight float64
}

func buildGraph(t *testing.T, m int, es []edge) *da.Graph {
	g := da.NewGraph(m)
	for _, e := range es {
		if err := g.AddEdge(e.u, e.v, e.weight); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	return g
}

func triangle(t *testing.T) (*da.Graph, []Pair) {
	g := buildGraph(t, 3, []edge{{0, 1, 10}, {0, 2, 30}, {1, 2, 20}})
	return g, []Pair{NewPair(1, 2), NewPair(2, 0)}
}

func TestNewWorldValidation(t *testing.T) {
	g, pairs := triangle(t)

	testCases := []struct {
		name  string
		n     int
		k     int
		m     int
		pairs []Pair
		opts  []Option
	}{
		{name: "k differs from number of pairs", n: 1, k: 3, m: 3, pairs: pairs},
		{name: "m differs from graph size", n: 1, k: 2, m: 4, pairs: pairs},
		{name: "no vehicle", n: 0, k: 2, m: 3, pairs: pairs},
		{name: "garage outside graph", n: 1, k: 2, m: 3, pairs: pairs, opts: []Option{WithGarage(7)}},
		{name: "package outside graph", n: 1, k: 1, m: 3, pairs: []Pair{NewPair(0, 9)}},
		{name: "package source equals destination", n: 1, k: 1, m: 3, pairs: []Pair{NewPair(2, 2)}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWorld(tt.n, tt.k, tt.m, g, tt.pairs, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, w)
			assert.True(t, errors.Is(err, util.ErrInvalidProblem))
		})
	}
}

func TestProcessTriangle(t *testing.T) {
	g, pairs := triangle(t)
	w, err := NewWorld(1, 2, 3, g, pairs, WithWorkers(2))
	require.NoError(t, err)

	w.Process()
	w.Process() // second call is a no-op

	assert.Equal(t, 10.0, w.EdgeCost(0, 1))
	assert.Equal(t, 20.0, w.EdgeCost(1, 2))
	// 0 -> 1 -> 2 is as cheap as the direct edge
	assert.Equal(t, 30.0, w.EdgeCost(0, 2))
	assert.Equal(t, 0.0, w.EdgeCost(2, 2))
	assert.Equal(t, []da.Index{1}, w.ShortestPath(1, 1))
	assert.Equal(t, []da.Index{1, 2}, w.ShortestPath(1, 2))

	assert.Equal(t, da.Index(1), w.PackageSource(0))
	assert.Equal(t, da.Index(0), w.PackageDest(1))
	assert.Equal(t, da.Index(0), w.Garage())
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := buildGraph(t, 4, []edge{{0, 3, 100}, {0, 1, 1}, {1, 2, 1}, {2, 3, 1}})
	w, err := NewWorld(1, 1, 4, g, []Pair{NewPair(0, 3)})
	require.NoError(t, err)
	w.Process()

	assert.Equal(t, 3.0, w.EdgeCost(0, 3))
	assert.Equal(t, 3.0, w.EdgeCost(3, 0))
	assert.Equal(t, []da.Index{0, 1, 2, 3}, w.ShortestPath(0, 3))
	assert.Equal(t, []da.Index{3, 2, 1, 0}, w.ShortestPath(3, 0))
}

func TestUnreachableVertices(t *testing.T) {
	g := buildGraph(t, 4, []edge{{0, 1, 5}, {2, 3, 5}})
	w, err := NewWorld(1, 1, 4, g, []Pair{NewPair(2, 3)})
	require.NoError(t, err)
	w.Process()

	assert.Equal(t, pkg.INF_WEIGHT, w.EdgeCost(0, 2))
	assert.Nil(t, w.ShortestPath(0, 3))
	assert.Equal(t, 5.0, w.EdgeCost(2, 3))
}

func TestDistancesAreSymmetricAndSatisfyTriangleInequality(t *testing.T) {
	g := buildGraph(t, 6, []edge{
		{0, 1, 7}, {0, 2, 9}, {0, 5, 14}, {1, 2, 10}, {1, 3, 15},
		{2, 3, 11}, {2, 5, 2}, {3, 4, 6}, {4, 5, 9}, {4, 4, 3},
	})
	w, err := NewWorld(2, 1, 6, g, []Pair{NewPair(0, 4)})
	require.NoError(t, err)
	w.Process()

	for a := da.Index(0); a < 6; a++ {
		for b := da.Index(0); b < 6; b++ {
			assert.Equal(t, w.EdgeCost(a, b), w.EdgeCost(b, a))
			for c := da.Index(0); c < 6; c++ {
				assert.True(t, da.Le(w.EdgeCost(a, c), w.EdgeCost(a, b)+w.EdgeCost(b, c)))
			}

			// the stored path must cost exactly the table entry
			path := w.ShortestPath(a, b)
			sum := 0.0
			for i := 0; i+1 < len(path); i++ {
				weight, ok := g.GetWeight(path[i], path[i+1])
				require.True(t, ok)
				sum += weight
			}
			assert.True(t, da.Eq(sum, w.EdgeCost(a, b)))
		}
	}
	assert.Equal(t, 20.0, w.EdgeCost(0, 4))
}

func TestLookupBeforeProcessPanics(t *testing.T) {
	g, pairs := triangle(t)
	w, err := NewWorld(1, 2, 3, g, pairs)
	require.NoError(t, err)

	assert.Panics(t, func() { w.EdgeCost(0, 1) })
	assert.Panics(t, func() { w.ShortestPath(0, 1) })
}

func TestNegativeWeightRejectedByGraph(t *testing.T) {
	g := da.NewGraph(2)
	assert.Error(t, g.AddEdge(0, 1, -1))
	assert.Error(t, g.AddEdge(0, 2, 1))
}

func TestDijkstraSettlesReachableVertices(t *testing.T) {
	g := buildGraph(t, 6, []edge{{0, 1, 4}, {1, 2, 1}, {0, 2, 7}, {3, 4, 2}})
	d := NewDijkstra(g)

	dist, parent := d.ShortestPath(0)
	assert.Equal(t, 3, d.GetNumSettledNodes())
	assert.Equal(t, []float64{0, 4, 5}, dist[:3])
	assert.Equal(t, da.Index(1), parent[2])
	assert.Equal(t, pkg.INF_WEIGHT, dist[3])
	assert.Equal(t, da.INVALID_VERTEX_ID, parent[5])

	// the same instance can be reused for another source
	dist, _ = d.ShortestPath(4)
	assert.Equal(t, 2, d.GetNumSettledNodes())
	assert.Equal(t, 2.0, dist[3])
}
