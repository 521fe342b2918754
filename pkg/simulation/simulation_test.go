package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	testCases := []struct {
		name      string
		params    solver.Params
		algorithm string
		kLimit    int
		bound     float64
	}{
		{name: "astar", params: solver.Params{Strategy: "astar", Heuristic: "sum-distance"}, algorithm: "astar"},
		{name: "bounded", params: solver.Params{Strategy: "bounded-astar", Heuristic: "sum-distance", Bound: 0.5}, algorithm: "bounded-astar", bound: 0.5},
		{name: "beam", params: solver.Params{Strategy: "local-beam", Heuristic: "scaled-progress", KLimit: 2}, algorithm: "local-beam", kLimit: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{N: 2, K: 3, M: 8, NumSims: 6, Parallel: 3, Params: tt.params}
			report, err := Run(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)

			assert.Equal(t, tt.algorithm, report.Algorithm)
			assert.Equal(t, tt.kLimit, report.KLimit)
			assert.Equal(t, tt.bound, report.Bound)
			require.Len(t, report.Data, 6)
			assert.Equal(t, 6, report.Solved())

			ids := make(map[string]bool)
			for i, rec := range report.Data {
				assert.Equal(t, uint64(i), rec.Seed)
				assert.Empty(t, rec.Error)
				assert.True(t, rec.CostSum >= 0)
				_, err := uuid.Parse(rec.RunID)
				assert.NoError(t, err)
				ids[rec.RunID] = true
			}
			assert.Len(t, ids, 6)
		})
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := Config{N: 1, K: 3, M: 6, NumSims: 4, Parallel: 4, Params: solver.Params{Strategy: "astar"}}
	a, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	cfg.Parallel = 1
	b, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	for i := range a.Data {
		assert.Equal(t, a.Data[i].CostSum, b.Data[i].CostSum)
		assert.Equal(t, a.Data[i].NodeCount, b.Data[i].NodeCount)
	}
}

func TestRunRecordsAbortedSearches(t *testing.T) {
	cfg := Config{N: 2, K: 4, M: 8, NumSims: 2, Params: solver.Params{Strategy: "astar", Heuristic: "zero", MaxExpansions: 1}}
	report, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Solved())
	assert.Equal(t, 0.0, report.MeanCost())
	for _, rec := range report.Data {
		assert.NotEmpty(t, rec.Error)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{N: 1, K: 1, M: 3, NumSims: 0}, nil)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))

	_, err = Run(context.Background(), Config{N: 1, K: 1, M: 3, NumSims: 1, Params: solver.Params{Strategy: "dfs"}}, nil)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))

	_, err = Run(context.Background(), Config{N: 0, K: 1, M: 3, NumSims: 2}, nil)
	assert.True(t, errors.Is(err, util.ErrInvalidProblem))
}

func TestWriteJSON(t *testing.T) {
	report := &Report{
		Algorithm: "local-beam",
		N:         1,
		K:         2,
		M:         3,
		NumSims:   1,
		Heuristic: "zero",
		KLimit:    3,
		Data:      []Record{{RunID: uuid.NewString(), Seed: 0, NodeCount: 2, CostSum: 60}},
	}
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "local-beam", decoded["algorithm"])
	assert.Equal(t, 3.0, decoded["k_limit"])
	assert.Len(t, decoded["data"], 1)
	assert.Equal(t, 60.0, report.MeanCost())
}
