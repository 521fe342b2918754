package state

import (
	"encoding/binary"

	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/lintang-b-s/Deliverx/pkg/world"
)

// stop is one entry of a vehicle's location history. stops are immutable once created and
// shared between a state and all of its descendants.
type stop struct {
	vertex da.Index
	prev   *stop
	depth  int
}

func (s *stop) push(v da.Index) *stop {
	return &stop{vertex: v, prev: s, depth: s.depth + 1}
}

// Key identifies a state by current vehicle locations and delivery flags only.
type Key string

// State is one node of the search tree.
type State struct {
	carLocs  []*stop
	packages []bool
	g        float64
	h        float64
	hSet     bool

	numDelivered int
	key          Key
}

// New builds the initial state of w: every vehicle parked at the garage, nothing delivered.
func New(w *world.World) *State {
	garage := &stop{vertex: w.Garage()}
	carLocs := make([]*stop, w.NumCars())
	for i := range carLocs {
		carLocs[i] = garage
	}
	s := &State{
		carLocs:  carLocs,
		packages: make([]bool, w.NumPackages()),
	}
	s.key = s.buildKey()
	return s
}

// Builder derives a child state from a parent. The parent is never modified.
type Builder struct {
	parent   *State
	carLocs  []*stop
	packages []bool
	g        float64
	added    int
}

func NewBuilder(parent *State) *Builder {
	carLocs := make([]*stop, len(parent.carLocs))
	copy(carLocs, parent.carLocs)
	packages := make([]bool, len(parent.packages))
	copy(packages, parent.packages)
	return &Builder{
		parent:   parent,
		carLocs:  carLocs,
		packages: packages,
		g:        parent.g,
	}
}

// Deliver sends car to pick up package at source and drop it at destination, charging cost.
// the pickup is recorded in the history unless the car is already there.
func (b *Builder) Deliver(car, pkgIdx int, source, destination da.Index, cost float64) *Builder {
	util.AssertPanic(car >= 0 && car < len(b.carLocs), "state: car index out of range")
	util.AssertPanic(pkgIdx >= 0 && pkgIdx < len(b.packages), "state: package index out of range")
	util.AssertPanic(!b.packages[pkgIdx], "state: package already delivered")

	loc := b.carLocs[car]
	if loc.vertex != source {
		loc = loc.push(source)
	}
	b.carLocs[car] = loc.push(destination)
	b.packages[pkgIdx] = true
	b.g += cost
	b.added++
	return b
}

func (b *Builder) Build() *State {
	s := &State{
		carLocs:      b.carLocs,
		packages:     b.packages,
		g:            b.g,
		numDelivered: b.parent.numDelivered + b.added,
	}
	s.key = s.buildKey()
	return s
}

func (s *State) buildKey() Key {
	buf := make([]byte, 0, 5*len(s.carLocs)+len(s.packages)/8+1)
	for _, loc := range s.carLocs {
		buf = binary.AppendUvarint(buf, uint64(loc.vertex))
	}
	var bits byte
	for i, delivered := range s.packages {
		if delivered {
			bits |= 1 << (i % 8)
		}
		if i%8 == 7 {
			buf = append(buf, bits)
			bits = 0
		}
	}
	if len(s.packages)%8 != 0 {
		buf = append(buf, bits)
	}
	return Key(buf)
}

func (s *State) Key() Key {
	return s.key
}

// Equal reports whether s and other have the same vehicle locations and delivery flags.
func (s *State) Equal(other *State) bool {
	return s.key == other.key
}

func (s *State) G() float64 {
	return s.g
}

func (s *State) H() float64 {
	return s.h
}

// F priority g+h
func (s *State) F() float64 {
	return s.g + s.h
}

// SetH caches the heuristic estimate. it may only be written once.
func (s *State) SetH(h float64) {
	util.AssertPanic(!s.hSet, "state: heuristic already set")
	s.h = h
	s.hSet = true
}

func (s *State) HasH() bool {
	return s.hSet
}

func (s *State) NumCars() int {
	return len(s.carLocs)
}

func (s *State) NumPackages() int {
	return len(s.packages)
}

// CarLoc current location of car i.
func (s *State) CarLoc(i int) da.Index {
	return s.carLocs[i].vertex
}

// CarPath location history of car i, starting at the garage.
func (s *State) CarPath(i int) []da.Index {
	loc := s.carLocs[i]
	path := make([]da.Index, loc.depth+1)
	for cur := loc; cur != nil; cur = cur.prev {
		path[cur.depth] = cur.vertex
	}
	return path
}

func (s *State) CarPaths() [][]da.Index {
	paths := make([][]da.Index, len(s.carLocs))
	for i := range s.carLocs {
		paths[i] = s.CarPath(i)
	}
	return paths
}

func (s *State) Packages() []bool {
	packages := make([]bool, len(s.packages))
	copy(packages, s.packages)
	return packages
}

func (s *State) PackageDelivered(i int) bool {
	return s.packages[i]
}

func (s *State) NumDelivered() int {
	return s.numDelivered
}

// Undelivered indices of the packages still waiting, ascending.
func (s *State) Undelivered() []int {
	undelivered := make([]int, 0, len(s.packages)-s.numDelivered)
	for i, delivered := range s.packages {
		if !delivered {
			undelivered = append(undelivered, i)
		}
	}
	return undelivered
}

// IsGoal every package delivered, wherever the vehicles are.
func (s *State) IsGoal() bool {
	return s.numDelivered == len(s.packages)
}
