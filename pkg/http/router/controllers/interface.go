package controllers

import (
	"context"

	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
)

type SolveService interface {
	Solve(ctx context.Context, p *instance.Problem, params solver.Params) (*solver.Response, bool, error)
	Fixture(name string) (*instance.Problem, error)
	FixtureNames() []string
}
