/*
Package coupling links the ionosphere mesh to the outer simulation volume
along magnetic field lines. Cells of the volume grid map down onto mesh
elements, mesh nodes map up to the coupling radius, and field aligned
currents flow down through the established links.
*/
package coupling

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nordlys/goiono/bgfield"
	"github.com/nordlys/goiono/fsgrid"
	"github.com/nordlys/goiono/ionomesh"
)

/*
CalculateUpmapping traces every mesh node outward along the field to the
coupling radius and stores the crossing point in XMapped. Nodes whose line
never reaches the coupling radius, closed field lines near the equator
mostly, keep the zero sentinel and are excluded from mapped area
aggregates.

The mesh is replicated, so every rank runs the identical full traversal.
*/
func CalculateUpmapping(g *ionomesh.Grid, field bgfield.FieldFunction, couplingRadius float64) {
	tr := bgfield.NewTracer(field, 2.*couplingRadius)
	for n := range g.Nodes {
		g.Nodes[n].XMapped = tr.Trace(g.Nodes[n].X, couplingRadius)
	}
}

/*
CalculateFsgridCoupling rebuilds the cell to node coupling lists. Every
local volume cell in the first ionosphere boundary layer traces its centre
down to downmapRadius; the containing element receives the cell on its
three corner nodes, weighted by the barycentric coordinates of the landing
point, so one cell's weights always sum to 1.

Coupling is the only rank-asymmetric mesh state: each rank records just
the cells it owns, and CouplingToCells marks the ranks that recorded any.
*/
func CalculateFsgridCoupling(g *ionomesh.Grid, tech *fsgrid.Grid[fsgrid.Technical], field bgfield.FieldFunction, downmapRadius float64) {
	for n := range g.Nodes {
		g.Nodes[n].Coupling = nil
	}
	g.CouplingToCells = false

	tr := bgfield.NewTracer(field, domainBound(tech))
	tech.ForEachLocal(func(i, j, k int, cell *fsgrid.Technical) {
		if cell.SysBoundaryFlag != fsgrid.BoundaryIonosphere || cell.SysBoundaryLayer != 1 {
			return
		}
		p := tr.Trace(tech.CellCentre(i, j, k), downmapRadius)
		if p == (r3.Vec{}) {
			return // lost line, cell stays uncoupled
		}
		e, u, v, w := g.ContainingElement(p)
		if e < 0 {
			return
		}
		var (
			el      = g.Elements[e]
			weights = [3]float64{u, v, w}
		)
		for c := 0; c < 3; c++ {
			nd := &g.Nodes[el.Corners[c]]
			nd.Coupling = append(nd.Coupling, ionomesh.CellCoupling{
				Cell:   [3]int{i, j, k},
				Weight: weights[c],
			})
		}
		g.CouplingToCells = true
	})
}

// domainBound is a generous lost-line radius for traces started inside the
// volume grid: twice the distance to its farthest corner.
func domainBound(tech *fsgrid.Grid[fsgrid.Technical]) float64 {
	var sum float64
	for d := 0; d < 3; d++ {
		far := math.Max(math.Abs(tech.PhysMin[d]),
			math.Abs(tech.PhysMin[d]+tech.DX[d]*float64(tech.NCells[d])))
		sum += far * far
	}
	return 2. * math.Sqrt(sum)
}
