package controllers

import (
	"time"

	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
)

type solveRequest struct {
	Problem       *instance.Problem `json:"problem" validate:"required_without=Fixture"`
	Fixture       string            `json:"fixture" validate:"omitempty,oneof=triangle ogg circle"`
	Strategy      string            `json:"strategy" validate:"omitempty,oneof=astar bounded-astar local-beam"`
	Heuristic     string            `json:"heuristic" validate:"omitempty,oneof=zero undelivered-count sum-distance scaled-progress"`
	Bound         float64           `json:"bound"`
	KLimit        int               `json:"k_limit" validate:"gte=0"`
	MaxExpansions int               `json:"max_expansions" validate:"gte=0"`
	TimeoutMs     int               `json:"timeout_ms" validate:"gte=0"`
	Workers       int               `json:"workers" validate:"gte=0,lte=64"`
}

func (r solveRequest) params() solver.Params {
	return solver.Params{
		Heuristic:     r.Heuristic,
		Strategy:      r.Strategy,
		Bound:         r.Bound,
		KLimit:        r.KLimit,
		MaxExpansions: r.MaxExpansions,
		Timeout:       time.Duration(r.TimeoutMs) * time.Millisecond,
		Workers:       r.Workers,
	}
}

type solveResponse struct {
	SolutionPaths        [][]da.Index `json:"solution_paths"`
	TotalCost            float64      `json:"total_cost"`
	NodesExpanded        int          `json:"nodes_expanded"`
	NodesGenerated       int          `json:"nodes_generated"`
	ElapsedMs            float64      `json:"elapsed_ms"`
	PreprocessingMs      float64      `json:"preprocessing_ms"`
	Strategy             string       `json:"strategy"`
	Heuristic            string       `json:"heuristic"`
	Bound                float64      `json:"bound,omitempty"`
	KLimit               int          `json:"k_limit,omitempty"`
	OptimalityGuaranteed bool         `json:"optimality_guaranteed"`
	Cached               bool         `json:"cached"`
}

func NewSolveResponse(res *solver.Response, cached bool) solveResponse {
	resp := solveResponse{
		SolutionPaths:        res.SolutionPaths,
		TotalCost:            res.TotalCost,
		NodesExpanded:        res.NodesExpanded,
		NodesGenerated:       res.NodesGenerated,
		ElapsedMs:            float64(res.Elapsed.Microseconds()) / 1000,
		PreprocessingMs:      float64(res.PreprocessingTime.Microseconds()) / 1000,
		Strategy:             res.Strategy,
		Heuristic:            res.Heuristic,
		OptimalityGuaranteed: res.OptimalityGuaranteed,
		Cached:               cached,
	}
	switch res.Strategy {
	case "bounded-astar":
		resp.Bound = res.Bound
	case "local-beam":
		resp.KLimit = res.KLimit
	}
	return resp
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
