package instance

import (
	"sort"

	"github.com/lintang-b-s/Deliverx/pkg/util"
)

func Triangle() *Problem {
	return &Problem{
		Name: "triangle",
		N:    1,
		K:    2,
		M:    3,
		Edges: []Edge{
			{0, 1, 10}, {0, 2, 30}, {1, 2, 20},
		},
		Pairs: []Pair{{1, 2}, {2, 0}},
	}
}

func Ogg() *Problem {
	return &Problem{
		Name: "ogg",
		N:    2,
		K:    3,
		M:    9,
		Edges: []Edge{
			{0, 1, 20}, {1, 8, 100}, {1, 2, 68}, {0, 3, 14}, {3, 4, 6},
			{4, 5, 4}, {5, 6, 30}, {6, 0, 51}, {0, 7, 36}, {7, 3, 15},
		},
		Pairs: []Pair{{6, 2}, {3, 1}, {4, 5}},
	}
}

// Circle is a ring of ten vertices where every package moves one step clockwise.
func Circle() *Problem {
	const size = 10
	p := &Problem{Name: "circle", N: 2, K: size, M: size}
	for i := uint32(0); i < size; i++ {
		p.Edges = append(p.Edges, Edge{From: i, To: (i + 1) % size, Weight: 5})
		p.Pairs = append(p.Pairs, Pair{Source: i, Destination: (i + 1) % size})
	}
	return p
}

var fixtures = map[string]func() *Problem{
	"triangle": Triangle,
	"ogg":      Ogg,
	"circle":   Circle,
}

// Fixture returns a fresh copy of the named built-in problem.
func Fixture(name string) (*Problem, error) {
	f, ok := fixtures[name]
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "fixture %q", name)
	}
	return f(), nil
}

func FixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
