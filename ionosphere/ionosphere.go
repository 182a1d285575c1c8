/*
Package ionosphere is the boundary condition subsystem of the inner
simulation boundary: it owns the spherical finite element grid, its
conductivity state, the field line coupling to the outer field solver
grid, and the per timestep potential solve. The Ionosphere object is
constructed explicitly at boundary initialization and passed by
reference to its consumers; there is no package level instance.
*/
package ionosphere

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nordlys/goiono/InputParameters"
	"github.com/nordlys/goiono/bgfield"
	"github.com/nordlys/goiono/comm"
	"github.com/nordlys/goiono/coupling"
	"github.com/nordlys/goiono/fsgrid"
	"github.com/nordlys/goiono/ionomesh"
	"github.com/nordlys/goiono/potential"
)

var baseShapes = map[string]func(*ionomesh.Grid){
	"tetrahedron": (*ionomesh.Grid).InitializeTetrahedron,
	"icosahedron": (*ionomesh.Grid).InitializeIcosahedron,
}

type Ionosphere struct {
	Cfg    *InputParameters.IonosphereParameters
	Grid   *ionomesh.Grid
	Solver *potential.Solver
	Field  bgfield.FieldFunction
	CC     comm.Communicator
}

// New validates the configuration, builds and refines the mesh, fills the
// conductivity tensors and assembles the solver operator. The returned
// object is ready for Couple and Update calls.
func New(cfg *InputParameters.IonosphereParameters, cc comm.Communicator) (io *Ionosphere, err error) {
	seed, ok := baseShapes[cfg.BaseShape]
	if !ok {
		return nil, fmt.Errorf("unknown ionosphere base shape %q", cfg.BaseShape)
	}
	if len(cfg.RefineMinLatitudes) != len(cfg.RefineMaxLatitudes) {
		return nil, fmt.Errorf("refinement latitude lists differ in length: %d min vs %d max",
			len(cfg.RefineMinLatitudes), len(cfg.RefineMaxLatitudes))
	}
	if cfg.InnerRadius <= cfg.IonosphereRadius {
		return nil, fmt.Errorf("inner boundary radius %g must exceed the ionosphere radius %g",
			cfg.InnerRadius, cfg.IonosphereRadius)
	}
	if cfg.SolverMaxIterations < 1 {
		return nil, fmt.Errorf("solver iteration cap must be positive, got %d", cfg.SolverMaxIterations)
	}
	for _, sp := range cfg.Species {
		if sp.NSpaceSamples < 1 || sp.NVelocitySamples < 1 {
			return nil, fmt.Errorf("species %q needs positive sample counts", sp.Name)
		}
	}

	var field bgfield.FieldFunction
	if cfg.Geometry == 3 {
		field = bgfield.LineDipole(cfg.DipoleMoment)
	} else {
		field = bgfield.Dipole(r3.Vec{Z: -cfg.DipoleMoment})
	}

	g := ionomesh.NewGrid(cfg.IonosphereRadius, cc)
	seed(g)
	g.Refine(cfg.Bands())

	io = &Ionosphere{
		Cfg:    cfg,
		Grid:   g,
		Field:  field,
		CC:     cc,
		Solver: potential.NewSolver(g, cfg.SolverMaxIterations, cfg.SolverTolerance),
	}
	io.CalculateConductivityTensor()
	io.Solver.InitSolver()
	return
}

// Couple rebuilds the field line links between the mesh and the outer
// grid: node upmapping to the inner boundary radius and cell downmapping
// onto elements. Runs at startup and again whenever the field topology
// changes; the coupling lists are the only rank-asymmetric state.
func (io *Ionosphere) Couple(tech *fsgrid.Grid[fsgrid.Technical]) {
	coupling.CalculateUpmapping(io.Grid, io.Field, io.Cfg.InnerRadius)
	coupling.CalculateFsgridCoupling(io.Grid, tech, io.Field, io.Grid.Radius)
}

// Update runs one timestep of the ionosphere model: map the field aligned
// currents down, close the net current, and solve for the potential. Non
// convergence is reported, not fatal; the caller inspects the report.
func (io *Ionosphere) Update(dperb *fsgrid.Grid[fsgrid.DPerBCell], bgb *fsgrid.Grid[fsgrid.BGBCell]) potential.SolveReport {
	coupling.MapDownFAC(io.Grid, dperb, bgb)
	potential.OffsetFAC(io.Grid)
	return io.Solver.Solve()
}
