package datastructure

import (
	"fmt"
	"math"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
)

type OutEdge struct {
	edgeId Index
	head   Index
	weight float64
}

func NewOutEdge(edgeId, head Index, weight float64) OutEdge {
	return OutEdge{edgeId: edgeId, head: head, weight: weight}
}

func (e *OutEdge) GetEdgeId() Index {
	return e.edgeId
}

func (e *OutEdge) GetHead() Index {
	return e.head
}

func (e *OutEdge) GetWeight() float64 {
	return e.weight
}

// Graph is an undirected weighted multigraph. every undirected edge is stored as two OutEdges sharing one edgeId.
type Graph struct {
	outEdges      [][]OutEdge
	numberOfEdges int
}

func NewGraph(numberOfVertices int) *Graph {
	return &Graph{
		outEdges: make([][]OutEdge, numberOfVertices),
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.outEdges)
}

// NumberOfEdges number of undirected edges
func (g *Graph) NumberOfEdges() int {
	return g.numberOfEdges
}

func (g *Graph) AddEdge(u, v Index, weight float64) error {
	n := Index(len(g.outEdges))
	if u >= n || v >= n {
		return fmt.Errorf("edge (%d,%d) out of range, graph has %d vertices", u, v, n)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("edge (%d,%d) has invalid weight %v", u, v, weight)
	}

	edgeId := Index(g.numberOfEdges)
	g.outEdges[u] = append(g.outEdges[u], NewOutEdge(edgeId, v, weight))
	if u != v {
		g.outEdges[v] = append(g.outEdges[v], NewOutEdge(edgeId, u, weight))
	}
	g.numberOfEdges++
	return nil
}

func (g *Graph) GetOutDegree(u Index) int {
	return len(g.outEdges[u])
}

func (g *Graph) ForOutEdgesOf(u Index, handle func(e *OutEdge)) {
	for i := range g.outEdges[u] {
		handle(&g.outEdges[u][i])
	}
}

// GetWeight weight of the lightest edge between u and v
func (g *Graph) GetWeight(u, v Index) (float64, bool) {
	best := math.Inf(1)
	found := false
	g.ForOutEdgesOf(u, func(e *OutEdge) {
		if e.head == v && e.weight < best {
			best = e.weight
			found = true
		}
	})
	return best, found
}

// ConnectedComponents labels every vertex with the smallest vertex id of its component.
func (g *Graph) ConnectedComponents() []Index {
	n := g.NumberOfVertices()
	roots := make([]Index, n)
	for i := range roots {
		roots[i] = INVALID_VERTEX_ID
	}

	stack := make([]Index, 0, n)
	for s := 0; s < n; s++ {
		if roots[s] != INVALID_VERTEX_ID {
			continue
		}
		roots[s] = Index(s)
		stack = append(stack[:0], Index(s))
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g.ForOutEdgesOf(u, func(e *OutEdge) {
				if roots[e.head] == INVALID_VERTEX_ID {
					roots[e.head] = Index(s)
					stack = append(stack, e.head)
				}
			})
		}
	}
	return roots
}
