package world

import (
	"runtime"
	"sync"
	"time"

	"github.com/lintang-b-s/Deliverx/pkg"
	"github.com/lintang-b-s/Deliverx/pkg/concurrent"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
)

// Pair is the pickup (Source) and delivery (Destination) vertex of one package.
type Pair struct {
	Source      da.Index
	Destination da.Index
}

func NewPair(source, destination da.Index) Pair {
	return Pair{Source: source, Destination: destination}
}

// World is the read-only problem context shared by every search state: the graph,
// the fleet size, the garage, the packages and the all-pairs shortest path tables.
type World struct {
	numCars     int
	numPackages int
	numVertices int
	graph       *da.Graph
	garage      da.Index
	pairs       []Pair

	dist   [][]float64  // dist[s][v] shortest path cost from s to v
	parent [][]da.Index // parent[s][v] predecessor of v on the shortest path tree rooted at s

	processOnce sync.Once
	processed   bool

	workers int
	logger  *zap.Logger
}

type Option func(*World)

func WithGarage(garage da.Index) Option {
	return func(w *World) { w.garage = garage }
}

// WithWorkers number of goroutines running dijkstra in Process.
func WithWorkers(workers int) Option {
	return func(w *World) { w.workers = workers }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *World) { w.logger = logger }
}

func NewWorld(n, k, m int, graph *da.Graph, pairs []Pair, opts ...Option) (*World, error) {
	w := &World{
		numCars:     n,
		numPackages: k,
		numVertices: m,
		graph:       graph,
		garage:      pkg.DEFAULT_GARAGE,
		workers:     runtime.NumCPU(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if graph == nil {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "graph is required")
	}
	if k != len(pairs) {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "k (%d) is not equal to the number of source-destination pairs (%d)", k, len(pairs))
	}
	if m != graph.NumberOfVertices() {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "m (%d) is not equal to the size of the graph (%d)", m, graph.NumberOfVertices())
	}
	if n < 1 {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "n (%d) cannot be less than 1", n)
	}
	if int(w.garage) >= m {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "garage %d is not a vertex of the graph", w.garage)
	}
	for i, p := range pairs {
		if int(p.Source) >= m || int(p.Destination) >= m {
			return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "package %d (%d -> %d) is not inside the graph", i, p.Source, p.Destination)
		}
		if p.Source == p.Destination {
			return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "package %d has the same source and destination %d", i, p.Source)
		}
	}

	w.pairs = make([]Pair, k)
	copy(w.pairs, pairs)
	return w, nil
}

// Process computes the all-pairs shortest path tables with one dijkstra run per source vertex.
// O(m * (m+e) log m). Only the first call does any work.
func (w *World) Process() {
	w.processOnce.Do(func() {
		start := time.Now()
		m := w.numVertices
		w.dist = make([][]float64, m)
		w.parent = make([][]da.Index, m)

		sources := make([]da.Index, m)
		for s := 0; s < m; s++ {
			sources[s] = da.Index(s)
		}

		// each source owns its own row
		concurrent.RunAll(util.MinInt(w.workers, m), sources, func(s da.Index) da.Index {
			dist, parent := NewDijkstra(w.graph).ShortestPath(s)
			w.dist[s] = dist
			w.parent[s] = parent
			return s
		})

		w.processed = true
		w.logger.Info("all pairs shortest paths computed",
			zap.Int("vertices", m),
			zap.Int("edges", w.graph.NumberOfEdges()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (w *World) IsProcessed() bool {
	return w.processed
}

// EdgeCost shortest path cost from u to v, INF_WEIGHT if v is unreachable from u.
func (w *World) EdgeCost(u, v da.Index) float64 {
	util.AssertPanic(w.processed, "world: EdgeCost called before Process")
	return w.dist[u][v]
}

// ShortestPath vertex sequence from u to v (both inclusive), nil if v is unreachable from u.
func (w *World) ShortestPath(u, v da.Index) []da.Index {
	util.AssertPanic(w.processed, "world: ShortestPath called before Process")
	if u == v {
		return []da.Index{u}
	}
	if w.dist[u][v] >= pkg.INF_WEIGHT {
		return nil
	}

	path := []da.Index{v}
	for cur := v; cur != u; {
		cur = w.parent[u][cur]
		path = append(path, cur)
	}
	return util.ReverseG(path)
}

func (w *World) PackageSource(i int) da.Index {
	return w.pairs[i].Source
}

func (w *World) PackageDest(i int) da.Index {
	return w.pairs[i].Destination
}

func (w *World) Garage() da.Index {
	return w.garage
}

func (w *World) NumCars() int {
	return w.numCars
}

func (w *World) NumPackages() int {
	return w.numPackages
}

func (w *World) NumVertices() int {
	return w.numVertices
}

func (w *World) Graph() *da.Graph {
	return w.graph
}
