package potential

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/nordlys/goiono/comm"
	"github.com/nordlys/goiono/ionomesh"
)

// State tracks the solver through its lifecycle. A solver is Initialized
// once the operator has been assembled and stays usable for any number of
// Solve calls until the mesh topology changes.
type State uint8

const (
	Uninitialized State = iota
	Initialized
	Iterating
	Converged
	MaxIterationsReached
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max iterations reached"
	}
	return "invalid"
}

const (
	DefaultMaxIterations = 2000
	DefaultTolerance     = 1.e-9

	// Hanging nodes can hang on parents that are themselves hanging; the
	// resolution recursion is bounded to trap corrupted constraint cycles.
	maxConstraintDepth = 16
)

// SolveReport is the non-fatal outcome of one Solve call. Hitting the
// iteration cap is reported, not escalated; the caller decides whether
// the best iterate is acceptable.
type SolveReport struct {
	State      State
	Iterations int
	Residual   float64 // Relative preconditioned residual of the best iterate
}

type masterWeight struct {
	node   uint32
	weight float64
}

// Solver runs the matrix free preconditioned biconjugate gradient
// iteration over the grid's node parameters. All ranks hold the complete
// replicated grid and execute identical iterations; the global inner
// products are the only communication, one blocking collective each.
type Solver struct {
	G  *ionomesh.Grid
	CC comm.Communicator

	MaxIterations int
	Tolerance     float64

	state   State
	masters [][]masterWeight // Per node constraint expansion onto free nodes
	rhs     []float64
}

func NewSolver(g *ionomesh.Grid, maxIterations int, tolerance float64) *Solver {
	if maxIterations < 1 {
		panic(fmt.Errorf("solver iteration cap must be positive, got %d", maxIterations))
	}
	return &Solver{
		G:             g,
		CC:            g.Comm,
		MaxIterations: maxIterations,
		Tolerance:     tolerance,
	}
}

func (s *Solver) State() State { return s.state }

/*
InitSolver rebuilds the operator into the node dependency lists: it
snapshots the hanging constraints the mesh builder left there, resets all
lists, seeds each hanging node's constraint row and its transposed
mirror, and then runs the full stiffness assembly. Must run exactly once
after every topology change, while the dependency lists still hold the
mesh constraint state.
*/
func (s *Solver) InitSolver() {
	g := s.G
	s.snapshotConstraints()
	for i := range g.Nodes {
		g.Nodes[i].ResetDependencies()
	}
	for i := range g.Nodes {
		ni := uint32(i)
		if len(s.masters[i]) == 1 && s.masters[i][0].node == ni {
			continue
		}
		// Constraint row Phi_i - sum w_m Phi_m = 0, and its transpose
		// deposited into the masters' transposed lists
		nd := &g.Nodes[i]
		nd.AddDependency(ni, 1., false)
		nd.AddDependency(ni, 1., true)
		for _, m := range s.masters[i] {
			nd.AddDependency(m.node, -m.weight, false)
			g.Nodes[m.node].AddDependency(ni, -m.weight, true)
		}
	}
	for i := range g.Nodes {
		s.AddAllMatrixDependencies(uint32(i))
	}
	s.state = Initialized
}

func (s *Solver) snapshotConstraints() {
	g := s.G
	s.masters = make([][]masterWeight, len(g.Nodes))
	for i := range g.Nodes {
		s.masters[i] = s.resolveConstraint(uint32(i), 0)
	}
}

// resolveConstraint expands node i onto the free nodes it interpolates
// from, following chained hanging constraints to their ends. A free node
// resolves to itself at weight 1.
func (s *Solver) resolveConstraint(i uint32, depth int) (mw []masterWeight) {
	if depth > maxConstraintDepth {
		panic(fmt.Errorf("hanging constraint chain at node %d exceeds depth %d, mesh corrupt",
			i, maxConstraintDepth))
	}
	nd := &s.G.Nodes[i]
	if !nd.IsHanging(i) {
		return []masterWeight{{node: i, weight: 1.}}
	}
	for k := 0; k < nd.NumDependingNodes; k++ {
		for _, sub := range s.resolveConstraint(nd.DependingNodes[k], depth+1) {
			mw = addMaster(mw, sub.node, sub.weight*nd.DependingCoeffs[k])
		}
	}
	return
}

func addMaster(mw []masterWeight, node uint32, w float64) []masterWeight {
	for k := range mw {
		if mw[k].node == node {
			mw[k].weight += w
			return mw
		}
	}
	return append(mw, masterWeight{node: node, weight: w})
}

// Atimes returns row i of the operator applied to the given parameter:
// the dependency weighted sum over neighbour values, transposed
// coefficients when transpose is set. The grid is fully replicated, so no
// halo exchange precedes the sweep.
func (s *Solver) Atimes(i uint32, param int, transpose bool) (sum float64) {
	nd := &s.G.Nodes[i]
	for k := 0; k < nd.NumDependingNodes; k++ {
		c := nd.DependingCoeffs[k]
		if transpose {
			c = nd.TransposedCoeffs[k]
		}
		sum += c * s.G.Nodes[nd.DependingNodes[k]].Parameters[param]
	}
	return
}

// Asolve applies the Jacobi preconditioner to one node value: division by
// the row diagonal. Constraint rows carry diagonal 1 by construction.
func (s *Solver) Asolve(i uint32, param int) float64 {
	nd := &s.G.Nodes[i]
	diag, _, ok := nd.Dependency(i)
	if !ok || diag == 0. {
		panic(fmt.Errorf("node %d has no usable diagonal, operator not assembled", i))
	}
	return nd.Parameters[param] / diag
}

/*
Solve runs the preconditioned biconjugate gradient iteration on the node
potentials, warm starting from the previous solution. For a symmetric
operator it reduces to ordinary preconditioned CG. Every global inner
product is a partial sum over this rank's node span completed by a
blocking all-reduce, so all ranks take bit-identical convergence
decisions in lock step.

Termination on the relative residual tolerance reports Converged; hitting
the iteration cap reports MaxIterationsReached with the potential
parameter holding the best iterate seen.
*/
func (s *Solver) Solve() SolveReport {
	const (
		pPhi  = ionomesh.ParamPotential
		pBest = ionomesh.ParamBestPotential
		pR    = ionomesh.ParamResidual
		pRR   = ionomesh.ParamBiResidual
		pZ    = ionomesh.ParamZ
		pZZ   = ionomesh.ParamZZ
		pP    = ionomesh.ParamP
		pPP   = ionomesh.ParamPP
	)
	if s.state == Uninitialized {
		s.InitSolver()
	}
	var (
		g      = s.G
		lo, hi = comm.Span(s.CC, len(g.Nodes))
	)
	s.assembleRHS()
	bnorm := math.Sqrt(s.CC.AllReduceSum(floats.Dot(s.rhs[lo:hi], s.rhs[lo:hi])))
	if bnorm == 0. {
		for i := range g.Nodes {
			g.Nodes[i].Parameters[pPhi] = 0.
			g.Nodes[i].Parameters[pBest] = 0.
		}
		s.state = Converged
		return SolveReport{State: Converged}
	}
	for i := range g.Nodes {
		nd := &g.Nodes[i]
		nd.Parameters[pR] = s.rhs[i] - s.Atimes(uint32(i), pPhi, false)
		nd.Parameters[pRR] = s.rhs[i] - s.Atimes(uint32(i), pPhi, true)
		nd.Parameters[pBest] = nd.Parameters[pPhi]
	}
	var (
		bkden float64
		best  = math.Inf(1)
	)
	s.state = Iterating
	for iter := 1; iter <= s.MaxIterations; iter++ {
		for i := range g.Nodes {
			nd := &g.Nodes[i]
			nd.Parameters[pZ] = s.Asolve(uint32(i), pR)
			nd.Parameters[pZZ] = s.Asolve(uint32(i), pRR)
		}
		bknum := s.dot(lo, hi, pZ, pRR)
		if iter == 1 {
			for i := range g.Nodes {
				nd := &g.Nodes[i]
				nd.Parameters[pP] = nd.Parameters[pZ]
				nd.Parameters[pPP] = nd.Parameters[pZZ]
			}
		} else {
			bk := bknum / bkden
			for i := range g.Nodes {
				nd := &g.Nodes[i]
				nd.Parameters[pP] = nd.Parameters[pZ] + bk*nd.Parameters[pP]
				nd.Parameters[pPP] = nd.Parameters[pZZ] + bk*nd.Parameters[pPP]
			}
		}
		bkden = bknum
		for i := range g.Nodes {
			g.Nodes[i].Parameters[pZ] = s.Atimes(uint32(i), pP, false)
		}
		ak := bknum / s.dot(lo, hi, pZ, pPP)
		for i := range g.Nodes {
			g.Nodes[i].Parameters[pZZ] = s.Atimes(uint32(i), pPP, true)
		}
		for i := range g.Nodes {
			nd := &g.Nodes[i]
			nd.Parameters[pPhi] += ak * nd.Parameters[pP]
			nd.Parameters[pR] -= ak * nd.Parameters[pZ]
			nd.Parameters[pRR] -= ak * nd.Parameters[pZZ]
		}
		resid := math.Sqrt(s.dot(lo, hi, pR, pR)) / bnorm
		if resid < best {
			best = resid
			for i := range g.Nodes {
				g.Nodes[i].Parameters[pBest] = g.Nodes[i].Parameters[pPhi]
			}
		}
		if resid <= s.Tolerance {
			s.state = Converged
			return SolveReport{State: Converged, Iterations: iter, Residual: resid}
		}
	}
	// Keep the best iterate as the answer; the caller sees the cap in the
	// report and decides whether to accept the partial solve.
	for i := range g.Nodes {
		g.Nodes[i].Parameters[pPhi] = g.Nodes[i].Parameters[pBest]
	}
	s.state = MaxIterationsReached
	return SolveReport{State: MaxIterationsReached, Iterations: s.MaxIterations, Residual: best}
}

// dot is the global inner product of two node parameters: a partial sum
// over this rank's span, completed collectively so every rank receives
// the bit-identical value.
func (s *Solver) dot(lo, hi, p1, p2 int) float64 {
	var sum float64
	for i := lo; i < hi; i++ {
		nd := &s.G.Nodes[i]
		sum += nd.Parameters[p1] * nd.Parameters[p2]
	}
	return s.CC.AllReduceSum(sum)
}
