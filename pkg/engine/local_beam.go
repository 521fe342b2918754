package engine

import (
	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/util"
)

// LocalBeam keeps the kLimit+1 best states of every generation and drops the rest.
// Every child delivers at least one more package than its parent, so a beam run takes
// at most k generations.
type LocalBeam struct {
	kLimit int
}

func NewLocalBeam(kLimit int) *LocalBeam {
	if kLimit < 0 {
		kLimit = 0
	}
	return &LocalBeam{kLimit: kLimit}
}

func (b *LocalBeam) Kind() pkg.StrategyKind { return pkg.LOCAL_BEAM }
func (b *LocalBeam) Bound() float64         { return 0 }
func (b *LocalBeam) KLimit() int            { return b.kLimit }
func (b *LocalBeam) exhaustive() bool       { return false }

func (b *LocalBeam) search(sr *searcher, initial *state.State) (*state.State, error) {
	width := b.kLimit + 1
	generation := []*state.State{initial}
	sr.admit(initial)

	for depth := 0; ; depth++ {
		var goal *state.State
		for _, s := range generation {
			if s.IsGoal() && (goal == nil || da.Lt(s.G(), goal.G())) {
				goal = s
			}
		}
		if goal != nil {
			return goal, nil
		}

		pool := make([]*state.State, 0, width)
		index := make(map[state.Key]int)
		for _, s := range generation {
			if err := sr.checkBudget(); err != nil {
				return nil, err
			}
			for _, c := range sr.expand(s) {
				if sr.dominated(c) {
					continue
				}
				if i, ok := index[c.Key()]; ok {
					if da.Lt(c.G(), pool[i].G()) {
						pool[i] = c
					}
					continue
				}
				index[c.Key()] = len(pool)
				pool = append(pool, c)
			}
		}
		if len(pool) == 0 {
			return nil, util.WrapErrorf(nil, util.ErrNoSolution, "beam emptied at generation %d", depth)
		}

		generation = best(pool, width)
		for _, s := range generation {
			sr.admit(s)
		}
	}
}
