package ionomesh

import (
	"fmt"

	"github.com/nordlys/goiono/comm"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MaxTouchingElements bounds the element fan around a vertex; the
	// triangulation never produces more than 6 (5 around an icosahedron
	// base vertex, 6 around an edge midpoint).
	MaxTouchingElements = 6
	// MaxDependingNodes bounds one node's dependency entries. With at most
	// a one-level refinement jump across any edge, matrix rows never
	// couple more than 10 nodes.
	MaxDependingNodes = 10
)

// Node parameter slots, indexing Node.Parameters.
const (
	ParamSource = iota // Field aligned current source density (A/m^2)
	ParamSigma11
	ParamSigma12
	ParamSigma13
	ParamSigma21
	ParamSigma22
	ParamSigma23
	ParamSigma31
	ParamSigma32
	ParamSigma33
	ParamSigmaP        // Scalar Pedersen conductance
	ParamSigmaH        // Scalar Hall conductance
	ParamRhoN          // Downmapped plasma number density
	ParamPressure      // Downmapped plasma pressure
	ParamPotential     // Solved electric potential
	ParamBestPotential // Best potential iterate seen by the solver
	ParamResidual      // Solver residual r
	ParamBiResidual    // Solver bi-residual rr
	ParamZ             // Solver work vectors z, zz, p, pp
	ParamZZ
	ParamP
	ParamPP
	NumNodeParameters
)

// ParamSigma returns the parameter slot of conductivity tensor entry (i, j).
func ParamSigma(i, j int) int {
	return ParamSigma11 + 3*i + j
}

// CellCoupling weights one external field-solver grid cell's contribution to
// a node, set during coupling and consumed by the current downmapping.
type CellCoupling struct {
	Cell   [3]int // Global fsgrid cell index
	Weight float64
}

/*
Node is one vertex of the triangulated sphere. Touching elements and matrix
dependencies live in fixed arrays rather than slices: nodes stay contiguous
in one allocation and the capacities are hard topological bounds, so an
overflow is a mesh corruption we want to trap, not grow past.
*/
type Node struct {
	X       r3.Vec // Position, normalized onto the sphere
	XMapped r3.Vec // Position traced along the field line to the coupling radius; zero while unmapped

	NumTouchingElements int
	TouchingElements    [MaxTouchingElements]uint32

	// Dependency entries. After mesh construction these hold the hanging
	// node constraints (self weight 1 for a free node, the two edge
	// endpoints at 0.5 each for a hanging one); after solver
	// initialization they hold this node's row of the constrained
	// stiffness matrix and, in TransposedCoeffs, of its transpose.
	NumDependingNodes int
	DependingNodes    [MaxDependingNodes]uint32
	DependingCoeffs   [MaxDependingNodes]float64
	TransposedCoeffs  [MaxDependingNodes]float64

	Parameters [NumNodeParameters]float64

	Coupling []CellCoupling
}

// Element is one spherical triangle. Corners are ordered so the normal
// (b-a)x(c-a) points outward.
type Element struct {
	RefLevel int
	Corners  [3]uint32
}

// Grid is the triangulated sphere carrying the ionospheric potential
// solve. The mesh topology is replicated identically on every rank of the
// communicator; only the fsgrid coupling lists differ between ranks.
type Grid struct {
	Radius float64

	Nodes    []Node
	Elements []Element

	Comm comm.Communicator
	Rank int

	CouplingToCells bool // True on any rank that actually couples to the outer simulation

	midpoints map[EdgeKey]uint32 // Midpoint node inserted on each subdivided edge
}

func NewGrid(radius float64, cc comm.Communicator) (g *Grid) {
	if radius <= 0. {
		panic(fmt.Errorf("grid radius must be positive, got %v", radius))
	}
	g = &Grid{
		Radius:    radius,
		Comm:      cc,
		Rank:      cc.Rank(),
		midpoints: make(map[EdgeKey]uint32),
	}
	return
}

// AddDependency accumulates coeff onto the matrix coefficient coupling node
// n to node m, merging with an existing entry for m. The transposed flag
// selects the adjoint coefficient set.
func (n *Node) AddDependency(m uint32, coeff float64, transposed bool) {
	for i := 0; i < n.NumDependingNodes; i++ {
		if n.DependingNodes[i] == m {
			if transposed {
				n.TransposedCoeffs[i] += coeff
			} else {
				n.DependingCoeffs[i] += coeff
			}
			return
		}
	}
	if n.NumDependingNodes == MaxDependingNodes {
		panic(fmt.Errorf("dependency overflow: node already couples to %d nodes", MaxDependingNodes))
	}
	i := n.NumDependingNodes
	n.DependingNodes[i] = m
	n.DependingCoeffs[i] = 0
	n.TransposedCoeffs[i] = 0
	if transposed {
		n.TransposedCoeffs[i] = coeff
	} else {
		n.DependingCoeffs[i] = coeff
	}
	n.NumDependingNodes++
}

// Dependency looks up the coefficients coupling n to node m.
func (n *Node) Dependency(m uint32) (coeff, transposed float64, ok bool) {
	for i := 0; i < n.NumDependingNodes; i++ {
		if n.DependingNodes[i] == m {
			return n.DependingCoeffs[i], n.TransposedCoeffs[i], true
		}
	}
	return
}

func (n *Node) ResetDependencies() {
	n.NumDependingNodes = 0
}

// SetSelfDependency makes n a free node: it depends on itself with weight 1
// in both the forward and the transposed set.
func (n *Node) SetSelfDependency(self uint32) {
	n.ResetDependencies()
	n.AddDependency(self, 1., false)
	n.AddDependency(self, 1., true)
}

// SetHangingDependency constrains n to the mean of the edge endpoints p1
// and p2, the conforming interpolation for a mid-edge node whose neighbour
// element is one refinement level coarser.
func (n *Node) SetHangingDependency(p1, p2 uint32) {
	n.ResetDependencies()
	n.AddDependency(p1, 0.5, false)
	n.AddDependency(p1, 0.5, true)
	n.AddDependency(p2, 0.5, false)
	n.AddDependency(p2, 0.5, true)
}

// IsHanging reports whether n carries a hanging node constraint, i.e. does
// not depend on itself.
func (n *Node) IsHanging(self uint32) bool {
	for i := 0; i < n.NumDependingNodes; i++ {
		if n.DependingNodes[i] == self {
			return false
		}
	}
	return n.NumDependingNodes > 0
}
