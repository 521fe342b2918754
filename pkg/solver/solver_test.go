package solver

import (
	"context"
	"errors"
	"testing"

	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/engine"
	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/metrics"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/lintang-b-s/Deliverx/pkg/world"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func pathsCost(t *testing.T, p *instance.Problem, paths [][]da.Index) float64 {
	g, err := p.Graph()
	require.NoError(t, err)
	total := 0.0
	for _, path := range paths {
		total += engine.PathCost(g, path)
	}
	return total
}

func TestRunProblemTriangle(t *testing.T) {
	s := New(zap.NewNop())
	p := instance.Triangle()

	res, err := s.RunProblem(context.Background(), p, Params{Strategy: "astar", Heuristic: "zero"})
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.TotalCost)
	assert.Equal(t, "astar", res.Strategy)
	assert.Equal(t, "zero", res.Heuristic)
	assert.True(t, res.OptimalityGuaranteed)
	require.Len(t, res.SolutionPaths, 1)
	assert.Equal(t, da.Index(0), res.SolutionPaths[0][0])
	assert.True(t, da.Eq(res.TotalCost, pathsCost(t, p, res.SolutionPaths)))
}

func TestStrategiesOnOgg(t *testing.T) {
	s := New(zap.NewNop())
	p := instance.Ogg()

	optimal, err := s.RunProblem(context.Background(), p, Params{Strategy: "astar"})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		params Params
	}{
		{name: "bounded one child", params: Params{Strategy: "bounded-astar", Bound: 1}},
		{name: "bounded half", params: Params{Strategy: "bounded_a_star", Bound: 0.5, Heuristic: "scaled-progress"}},
		{name: "greedy beam", params: Params{Strategy: "local-beam", KLimit: 0}},
		{name: "wide beam", params: Params{Strategy: "local_beam", KLimit: 8, Heuristic: "undelivered-count"}},
		{name: "parallel scoring", params: Params{Strategy: "astar", Workers: 4}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.RunProblem(context.Background(), p, tt.params)
			require.NoError(t, err)
			assert.True(t, da.Ge(res.TotalCost, optimal.TotalCost))
			assert.True(t, da.Eq(res.TotalCost, pathsCost(t, p, res.SolutionPaths)))
			assert.Len(t, res.SolutionPaths, p.N)
		})
	}
}

func TestRunErrors(t *testing.T) {
	triangle := instance.Triangle()
	g, err := triangle.Graph()
	require.NoError(t, err)

	disconnected := da.NewGraph(4)
	require.NoError(t, disconnected.AddEdge(0, 1, 1))
	require.NoError(t, disconnected.AddEdge(2, 3, 1))

	testCases := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "unknown strategy",
			req:  Request{N: 1, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs(), Params: Params{Strategy: "dfs"}},
			want: util.ErrBadParamInput,
		},
		{
			name: "unknown heuristic",
			req:  Request{N: 1, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs(), Params: Params{Heuristic: "manhattan"}},
			want: util.ErrBadParamInput,
		},
		{
			name: "negative k limit",
			req:  Request{N: 1, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs(), Params: Params{Strategy: "local-beam", KLimit: -1}},
			want: util.ErrBadParamInput,
		},
		{
			name: "k does not match pairs",
			req:  Request{N: 1, K: 3, M: 3, Graph: g, Pairs: triangle.WorldPairs()},
			want: util.ErrInvalidProblem,
		},
		{
			name: "no cars",
			req:  Request{N: 0, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs()},
			want: util.ErrInvalidProblem,
		},
		{
			name: "package unreachable",
			req:  Request{N: 1, K: 1, M: 4, Graph: disconnected, Pairs: []world.Pair{world.NewPair(2, 3)}},
			want: util.ErrNoSolution,
		},
		{
			name: "beam stagnates",
			req: Request{N: 1, K: 2, M: 4, Graph: disconnected,
				Pairs: []world.Pair{world.NewPair(0, 1), world.NewPair(3, 2)}, Params: Params{Strategy: "local-beam"}},
			want: util.ErrNoSolution,
		},
		{
			name: "expansion budget",
			req:  Request{N: 1, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs(), Params: Params{MaxExpansions: 1}},
			want: util.ErrSearchAborted,
		},
	}

	s := New(nil)
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Run(context.Background(), tt.req)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNoPackages(t *testing.T) {
	p := &instance.Problem{N: 2, K: 0, M: 3, Garage: 1, Edges: []instance.Edge{{From: 0, To: 1, Weight: 2}}}
	res, err := New(nil).RunProblem(context.Background(), p, Params{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.TotalCost)
	assert.Equal(t, [][]da.Index{{1}, {1}}, res.SolutionPaths)
	assert.Equal(t, 0, res.NodesExpanded)
}

func TestSolutions(t *testing.T) {
	p := instance.Ogg()
	g, err := p.Graph()
	require.NoError(t, err)
	req := Request{N: p.N, K: p.K, M: p.M, Graph: g, Pairs: p.WorldPairs()}

	s := New(nil)
	_, err = s.Solutions(context.Background(), req, 0)
	assert.True(t, errors.Is(err, util.ErrInvalidProblem))

	responses, err := s.Solutions(context.Background(), req, 3)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	for _, res := range responses[1:] {
		assert.Equal(t, responses[0].TotalCost, res.TotalCost)
		assert.Equal(t, responses[0].SolutionPaths, res.SolutionPaths)
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	before := testutil.ToFloat64(metrics.SearchRuns.WithLabelValues("local-beam", metrics.OUTCOME_SOLVED))
	_, err := New(nil).RunProblem(context.Background(), instance.Triangle(), Params{Strategy: "local-beam"})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SearchRuns.WithLabelValues("local-beam", metrics.OUTCOME_SOLVED)))
}

func TestParamsFromConfig(t *testing.T) {
	util.SetSearchDefaults()
	params := ParamsFromConfig(util.LoadSearchConfig())
	assert.Equal(t, "astar", params.Strategy)
	assert.Equal(t, "sum-distance", params.Heuristic)
	assert.Equal(t, 4, params.KLimit)
	assert.Equal(t, 1, params.Workers)
}

func TestRunLogsToGivenLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	triangle := instance.Triangle()
	g, err := triangle.Graph()
	require.NoError(t, err)

	res, err := Run(context.Background(), Request{N: 1, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs()}, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.TotalCost)
	assert.NotZero(t, logs.Len())

	_, err = Run(context.Background(), Request{N: 1, K: 2, M: 3, Graph: g, Pairs: triangle.WorldPairs()}, nil)
	require.NoError(t, err)
}
