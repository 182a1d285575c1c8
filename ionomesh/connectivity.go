package ionomesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// EdgeKey packs the two node indices of an edge, smaller first, into a
// uint64 that identifies the edge independent of traversal direction.
type EdgeKey uint64

func NewEdgeKey(n1, n2 uint32) (packed EdgeKey) {
	if n1 == n2 {
		panic(fmt.Errorf("edge joining node %d to itself", n1))
	}
	if n1 < n2 {
		packed = EdgeKey(uint64(n1) + uint64(n2)<<32)
	} else {
		packed = EdgeKey(uint64(n2) + uint64(n1)<<32)
	}
	return
}

func (ek EdgeKey) Vertices() (n1, n2 uint32) {
	n1 = uint32(ek)
	n2 = uint32(ek >> 32)
	return
}

// normalizeRadius rescales the node position onto the grid sphere.
func (g *Grid) normalizeRadius(n *Node) {
	n.X = r3.Unit(n.X).Scale(g.Radius)
}

// UpdateConnectivity rebuilds every node's touching element list from the
// element corner table and renormalizes all node positions onto the
// sphere. Must run after any change to the element list; per node
// parameters and dependencies are untouched, so it is idempotent on an
// unchanged topology.
func (g *Grid) UpdateConnectivity() {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.NumTouchingElements = 0
		g.normalizeRadius(n)
	}
	for e := range g.Elements {
		for _, c := range g.Elements[e].Corners {
			n := &g.Nodes[c]
			if n.NumTouchingElements == MaxTouchingElements {
				panic(fmt.Errorf("node %d touches more than %d elements, topology corrupt",
					c, MaxTouchingElements))
			}
			n.TouchingElements[n.NumTouchingElements] = uint32(e)
			n.NumTouchingElements++
		}
	}
}

// FindElementNeighbour returns the element sharing the edge between local
// corners c1 and c2 of element e, found by intersecting the two corner
// nodes' touching element lists, or -1 when the edge has no second
// element.
func (g *Grid) FindElementNeighbour(e uint32, c1, c2 int) int32 {
	var (
		el = &g.Elements[e]
		na = &g.Nodes[el.Corners[c1]]
		nb = &g.Nodes[el.Corners[c2]]
	)
	for i := 0; i < na.NumTouchingElements; i++ {
		cand := na.TouchingElements[i]
		if cand == e {
			continue
		}
		for j := 0; j < nb.NumTouchingElements; j++ {
			if nb.TouchingElements[j] == cand {
				return int32(cand)
			}
		}
	}
	return -1
}

// CountEdges returns the number of distinct element edges.
func (g *Grid) CountEdges() int {
	edges := make(map[EdgeKey]struct{})
	for e := range g.Elements {
		c := g.Elements[e].Corners
		edges[NewEdgeKey(c[0], c[1])] = struct{}{}
		edges[NewEdgeKey(c[1], c[2])] = struct{}{}
		edges[NewEdgeKey(c[2], c[0])] = struct{}{}
	}
	return len(edges)
}
