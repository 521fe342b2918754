package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	router_helper "github.com/lintang-b-s/Deliverx/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/Deliverx/pkg/http/usecases"
	"github.com/lintang-b-s/Deliverx/pkg/metrics"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestHandler(t *testing.T) http.Handler {
	ss, err := usecases.NewSolveService(zap.NewNop(), solver.New(nil), 16, solver.Params{Strategy: "astar", Heuristic: "sum-distance"})
	require.NoError(t, err)
	return NewAPI(zap.NewNop()).Handler(false, ss)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestSolve(t *testing.T) {
	h := newTestHandler(t)

	testCases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "fixture",
			body:   `{"fixture": "triangle", "heuristic": "zero"}`,
			status: http.StatusOK,
		},
		{
			name: "inline problem with local beam",
			body: `{"problem": {"n": 1, "k": 1, "m": 3, "edges": [{"from": 0, "to": 1, "weight": 4}, {"from": 1, "to": 2, "weight": 4}],
				"pairs": [{"source": 2, "destination": 1}]}, "strategy": "local-beam", "k_limit": 2}`,
			status: http.StatusOK,
		},
		{
			name:   "unknown strategy",
			body:   `{"fixture": "ogg", "strategy": "dfs"}`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "neither problem nor fixture",
			body:   `{"strategy": "astar"}`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "unknown field",
			body:   `{"fixture": "ogg", "depth": 3}`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "invalid problem",
			body:   `{"problem": {"n": 1, "k": 2, "m": 3, "edges": [], "pairs": [{"source": 1, "destination": 2}]}}`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name: "no solution",
			body: `{"problem": {"n": 1, "k": 1, "m": 4, "edges": [{"from": 0, "to": 1, "weight": 1}, {"from": 2, "to": 3, "weight": 1}],
				"pairs": [{"source": 2, "destination": 3}]}}`,
			status: http.StatusUnprocessableEntity,
			code:   "NO_SOLUTION",
		},
		{
			name:   "budget exhausted",
			body:   `{"fixture": "circle", "heuristic": "zero", "max_expansions": 1}`,
			status: http.StatusRequestTimeout,
			code:   "SEARCH_ABORTED",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodPost, "/api/solve", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, body["error"].(map[string]any)["code"])
				return
			}
			data := body["data"].(map[string]any)
			assert.NotEmpty(t, data["solution_paths"])
		})
	}
}

func TestSolveTriangleIsCached(t *testing.T) {
	h := newTestHandler(t)
	body := `{"fixture": "triangle", "heuristic": "zero"}`

	_, first := do(t, h, http.MethodPost, "/api/solve", body)
	_, second := do(t, h, http.MethodPost, "/api/solve", body)

	data := first["data"].(map[string]any)
	assert.Equal(t, 60.0, data["total_cost"])
	assert.Equal(t, true, data["optimality_guaranteed"])
	assert.Equal(t, false, data["cached"])
	assert.Equal(t, true, second["data"].(map[string]any)["cached"])
}

func TestFixtureRoutes(t *testing.T) {
	h := newTestHandler(t)

	rec, body := do(t, h, http.MethodGet, "/api/fixtures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 3)

	rec, body = do(t, h, http.MethodGet, "/api/fixtures/ogg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9.0, body["data"].(map[string]any)["m"])

	rec, _ = do(t, h, http.MethodGet, "/api/fixtures/hexagon", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware(t *testing.T) {
	h := newTestHandler(t)

	t.Run("heartbeat", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ".", rec.Body.String())
	})

	t.Run("json required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewBufferString(`{"fixture":"ogg"}`))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		do(t, h, http.MethodPost, "/api/solve", `{"fixture": "triangle"}`)
		rec, _ := do(t, h, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "deliverx_search_runs_total")
		assert.Contains(t, rec.Body.String(), "deliverx_http_requests_total")
	})

	t.Run("real ip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		assert.Equal(t, "203.0.113.7", realIP(req))
		req.Header.Set("X-Real-IP", "not an ip")
		assert.Equal(t, "", realIP(req))
	})

	t.Run("rate limit", func(t *testing.T) {
		limited := Limit(rate.NewLimiter(0, 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		codes := []int{}
		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
	})

	t.Run("panic recovery", func(t *testing.T) {
		api := NewAPI(zap.NewNop())
		handler := api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMetricsLabelRoutePatterns(t *testing.T) {
	h := newTestHandler(t)
	fixtureNotFound := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/fixtures/:name", "404")
	unmatched := metrics.HTTPRequests.WithLabelValues(http.MethodGet, router_helper.UNMATCHED_ROUTE, "404")
	seriesBefore := testutil.CollectAndCount(metrics.HTTPRequests)
	fixtureBefore := testutil.ToFloat64(fixtureNotFound)
	unmatchedBefore := testutil.ToFloat64(unmatched)

	for i := 0; i < 50; i++ {
		rec, _ := do(t, h, http.MethodGet, fmt.Sprintf("/api/fixtures/x%d", i), "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		rec, _ = do(t, h, http.MethodGet, fmt.Sprintf("/no/such/path/%d", i), "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, seriesBefore, testutil.CollectAndCount(metrics.HTTPRequests))
	assert.Equal(t, fixtureBefore+50, testutil.ToFloat64(fixtureNotFound))
	assert.Equal(t, unmatchedBefore+50, testutil.ToFloat64(unmatched))
}
