package world

import (
	"math"

	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/util"
)

type Dijkstra struct {
	graph *da.Graph

	forwardInfo []float64
	parent      []da.Index
	heapNodes   []*da.PriorityQueueNode[da.Index]

	pq *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph) *Dijkstra {
	n := graph.NumberOfVertices()
	return &Dijkstra{
		graph:       graph,
		forwardInfo: make([]float64, n),
		parent:      make([]da.Index, n),
		heapNodes:   make([]*da.PriorityQueueNode[da.Index], n),
		pq:          da.NewFourAryHeap[da.Index](),
	}
}

// ShortestPath single-source shortest paths from s to all other vertices.
// returns the distance of every vertex (INF_WEIGHT if unreachable) and its predecessor on the shortest path tree.
func (us *Dijkstra) ShortestPath(s da.Index) ([]float64, []da.Index) {
	us.preallocate()

	us.forwardInfo[s] = 0
	sNode := da.NewPriorityQueueNode(0, s)
	us.heapNodes[s] = sNode
	us.pq.Insert(sNode)

	for !us.pq.IsEmpty() {
		us.graphSearchUni()
		us.numSettledNodes++
	}

	return us.forwardInfo, us.parent
}

func (us *Dijkstra) graphSearchUni() {
	queryKey, _ := us.pq.ExtractMin()
	uId := queryKey.GetItem()

	us.graph.ForOutEdgesOf(uId, func(outArc *da.OutEdge) {
		vId := outArc.GetHead()
		edgeWeight := outArc.GetWeight()
		util.AssertPanic(edgeWeight >= 0 && !math.IsNaN(edgeWeight), "negative edge weight reached shortest path computation")

		newDist := us.forwardInfo[uId] + edgeWeight
		if da.Ge(newDist, pkg.INF_WEIGHT) {
			return
		}

		vAlreadyLabelled := us.forwardInfo[vId] < pkg.INF_WEIGHT
		if vAlreadyLabelled && newDist >= us.forwardInfo[vId] {
			// newDist is not better, do nothing
			return
		}

		us.forwardInfo[vId] = newDist
		us.parent[vId] = uId

		if vAlreadyLabelled && us.heapNodes[vId].GetPos() >= 0 {
			// key already in the priority queue, decrease its key
			us.pq.DecreaseKey(us.heapNodes[vId], newDist)
		} else {
			vhNode := da.NewPriorityQueueNode(newDist, vId)
			us.heapNodes[vId] = vhNode
			us.pq.Insert(vhNode)
		}
	})
}

func (us *Dijkstra) GetNumSettledNodes() int {
	return us.numSettledNodes
}

func (us *Dijkstra) preallocate() {
	n := us.graph.NumberOfVertices()
	us.forwardInfo = make([]float64, n)
	us.parent = make([]da.Index, n)
	us.heapNodes = make([]*da.PriorityQueueNode[da.Index], n)
	for v := 0; v < n; v++ {
		us.forwardInfo[v] = pkg.INF_WEIGHT
		us.parent[v] = da.INVALID_VERTEX_ID
	}
	us.pq.Clear()
	us.pq.Preallocate(n)
	us.numSettledNodes = 0
}
