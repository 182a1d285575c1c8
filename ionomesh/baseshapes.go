package ionomesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Base shape corner tables. Corners are ordered so every face normal points
// away from the origin; all vertices are projected onto the sphere on
// insertion, so only the directions matter here.
var (
	tetrahedronVertices = []r3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	tetrahedronFaces = [][3]uint32{
		{0, 1, 2},
		{0, 3, 1},
		{0, 2, 3},
		{1, 3, 2},
	}
)

var (
	phi                 = (1. + math.Sqrt(5.)) / 2.
	icosahedronVertices = []r3.Vec{
		{X: -1, Y: phi, Z: 0},
		{X: 1, Y: phi, Z: 0},
		{X: -1, Y: -phi, Z: 0},
		{X: 1, Y: -phi, Z: 0},
		{X: 0, Y: -1, Z: phi},
		{X: 0, Y: 1, Z: phi},
		{X: 0, Y: -1, Z: -phi},
		{X: 0, Y: 1, Z: -phi},
		{X: phi, Y: 0, Z: -1},
		{X: phi, Y: 0, Z: 1},
		{X: -phi, Y: 0, Z: -1},
		{X: -phi, Y: 0, Z: 1},
	}
	icosahedronFaces = [][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// InitializeTetrahedron seeds the grid with the 4 faces of a regular
// tetrahedron projected onto the sphere. The coarsest usable base shape,
// mostly good for solver shakedown.
func (g *Grid) InitializeTetrahedron() {
	g.seedShape(tetrahedronVertices, tetrahedronFaces)
}

// InitializeIcosahedron seeds the grid with the 20 faces of a regular
// icosahedron projected onto the sphere, the base shape with the most
// uniform triangle quality under recursive subdivision.
func (g *Grid) InitializeIcosahedron() {
	g.seedShape(icosahedronVertices, icosahedronFaces)
}

func (g *Grid) seedShape(vertices []r3.Vec, faces [][3]uint32) {
	g.Nodes = make([]Node, 0, len(vertices))
	g.Elements = make([]Element, 0, len(faces))
	g.midpoints = make(map[EdgeKey]uint32)
	for i, v := range vertices {
		n := Node{X: r3.Unit(v).Scale(g.Radius)}
		n.SetSelfDependency(uint32(i))
		g.Nodes = append(g.Nodes, n)
	}
	for _, f := range faces {
		g.Elements = append(g.Elements, Element{RefLevel: 0, Corners: f})
	}
	g.UpdateConnectivity()
}
