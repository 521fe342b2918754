package usecases

import (
	"context"

	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
)

type Solver interface {
	RunProblem(ctx context.Context, p *instance.Problem, params solver.Params) (*solver.Response, error)
}
