/*
Package potential assembles and solves the finite element system for the
ionospheric electric potential, div(sigma grad Phi) = source, on the
replicated triangulated sphere. The operator is matrix free: every node
row lives in that node's dependency entries, rebuilt once per topology
change, and applied by Atimes inside the conjugate gradient iteration.
Hanging node constraints are folded into the assembly, so the solved
system is the conforming constrained stiffness without explicit
elimination.
*/
package potential

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nordlys/goiono/geometry3D"
	"github.com/nordlys/goiono/ionomesh"
)

// SigmaAverage returns the conductivity tensor of element e, the mean of
// the tensors carried by its three corner nodes.
func SigmaAverage(g *ionomesh.Grid, e uint32) (sigma [3][3]float64) {
	el := &g.Elements[e]
	for _, c := range el.Corners {
		nd := &g.Nodes[c]
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				sigma[i][j] += nd.Parameters[ionomesh.ParamSigma(i, j)] / 3.
			}
		}
	}
	return
}

/*
ElementIntegral returns the weak form stiffness contribution between local
basis functions i and j of element e: area * gradT_i . sigma gradT_j, with
the element averaged conductivity. The transpose flag applies sigma
transposed, giving the adjoint entry; the Hall part of sigma and the
hanging node constraints make the full operator non-symmetric, so both
variants are assembled side by side.
*/
func ElementIntegral(g *ionomesh.Grid, e uint32, i, j int, transpose bool) float64 {
	var (
		el = &g.Elements[e]
		x  [3]r3.Vec
	)
	for c := 0; c < 3; c++ {
		x[c] = g.Nodes[el.Corners[c]].X
	}
	var (
		gi    = geometry3D.GradT(x[i], x[(i+1)%3], x[(i+2)%3])
		gj    = geometry3D.GradT(x[j], x[(j+1)%3], x[(j+2)%3])
		sigma = SigmaAverage(g, e)
		sg    r3.Vec
	)
	if transpose {
		sg = r3.Vec{
			X: sigma[0][0]*gj.X + sigma[1][0]*gj.Y + sigma[2][0]*gj.Z,
			Y: sigma[0][1]*gj.X + sigma[1][1]*gj.Y + sigma[2][1]*gj.Z,
			Z: sigma[0][2]*gj.X + sigma[1][2]*gj.Y + sigma[2][2]*gj.Z,
		}
	} else {
		sg = r3.Vec{
			X: sigma[0][0]*gj.X + sigma[0][1]*gj.Y + sigma[0][2]*gj.Z,
			Y: sigma[1][0]*gj.X + sigma[1][1]*gj.Y + sigma[1][2]*gj.Z,
			Z: sigma[2][0]*gj.X + sigma[2][1]*gj.Y + sigma[2][2]*gj.Z,
		}
	}
	return g.ElementArea(e) * gi.Dot(sg)
}

// AddMatrixDependency accumulates coeff into the operator row of node n1
// at column n2, merging with an existing entry. Overflowing the fixed
// dependency capacity panics.
func (s *Solver) AddMatrixDependency(n1, n2 uint32, coeff float64, transposed bool) {
	s.G.Nodes[n1].AddDependency(n2, coeff, transposed)
}

/*
AddAllMatrixDependencies assembles every stiffness contribution with node
i in the row position: all local basis pairs of all elements touching i.
Each raw entry K[i][c] is expanded through the constraint weights of both
its row and its column node, so contributions of hanging nodes land on
their free masters and the deposited operator is the constrained
stiffness. The transposed coefficients accumulate the adjoint integrals
through the same expansion.

Calling this once for every node enumerates each element contribution
exactly once.
*/
func (s *Solver) AddAllMatrixDependencies(i uint32) {
	var (
		g  = s.G
		nd = &g.Nodes[i]
	)
	for t := 0; t < nd.NumTouchingElements; t++ {
		var (
			e  = nd.TouchingElements[t]
			el = &g.Elements[e]
			li = localCorner(el, i)
		)
		for lj := 0; lj < 3; lj++ {
			var (
				cj = el.Corners[lj]
				k  = ElementIntegral(g, e, li, lj, false)
				kt = ElementIntegral(g, e, li, lj, true)
			)
			for _, row := range s.masters[i] {
				for _, col := range s.masters[cj] {
					w := row.weight * col.weight
					s.AddMatrixDependency(row.node, col.node, w*k, false)
					s.AddMatrixDependency(row.node, col.node, w*kt, true)
				}
			}
		}
	}
}

func localCorner(el *ionomesh.Element, n uint32) int {
	for c := 0; c < 3; c++ {
		if el.Corners[c] == n {
			return c
		}
	}
	panic(fmt.Errorf("node %d is not a corner of element %v", n, el.Corners))
}

// assembleRHS lumps the node sources into the load vector, b_i = source_i
// * area_i/3, and redistributes constrained loads onto master nodes. A
// hanging node's own slot stays zero, matching its constraint row.
func (s *Solver) assembleRHS() {
	g := s.G
	if len(s.rhs) != len(g.Nodes) {
		s.rhs = make([]float64, len(g.Nodes))
	}
	for i := range s.rhs {
		s.rhs[i] = 0.
	}
	for i := range g.Nodes {
		b := g.Nodes[i].Parameters[ionomesh.ParamSource] * g.NodeNeighbourArea(uint32(i)) / 3.
		for _, m := range s.masters[i] {
			s.rhs[m.node] += m.weight * b
		}
	}
}
