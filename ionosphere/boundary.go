package ionosphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nordlys/goiono/fsgrid"
)

/*
AssignBoundaryCells flags every local cell of the technical grid whose
centre lies inside the inner radius, under the configured geometry norm,
as ionosphere boundary, and numbers the boundary layers: layer 1 touches
the solved domain, layer 2 sits behind it, deeper cells stay at 0.
Membership is a pure function of the global cell index, so the layer scan
needs no neighbour data from other ranks.
*/
func (io *Ionosphere) AssignBoundaryCells(tech *fsgrid.Grid[fsgrid.Technical]) {
	inside := func(i, j, k int) bool {
		return io.boundaryNorm(tech.CellCentre(i, j, k)) < io.Cfg.InnerRadius
	}
	anyNeighbour := func(i, j, k int, pred func(i, j, k int) bool) bool {
		for d := 0; d < 3; d++ {
			for _, off := range [2]int{-1, 1} {
				n := [3]int{i, j, k}
				n[d] += off
				if tech.InGlobal(n[0], n[1], n[2]) && pred(n[0], n[1], n[2]) {
					return true
				}
			}
		}
		return false
	}
	layer1 := func(i, j, k int) bool {
		return inside(i, j, k) && anyNeighbour(i, j, k, func(i, j, k int) bool { return !inside(i, j, k) })
	}

	tech.ForEachLocal(func(i, j, k int, cell *fsgrid.Technical) {
		if !inside(i, j, k) {
			cell.SysBoundaryFlag = fsgrid.BoundaryNotSysboundary
			cell.SysBoundaryLayer = 0
			return
		}
		cell.SysBoundaryFlag = fsgrid.BoundaryIonosphere
		switch {
		case layer1(i, j, k):
			cell.SysBoundaryLayer = 1
		case anyNeighbour(i, j, k, layer1):
			cell.SysBoundaryLayer = 2
		default:
			cell.SysBoundaryLayer = 0
		}
	})
}

// boundaryNorm measures the distance of p from the boundary centre under
// the configured geometry: 0 inf-norm, 1 1-norm, 2 euclidean (default),
// 3 polar plane cylinder ignoring Y.
func (io *Ionosphere) boundaryNorm(p r3.Vec) float64 {
	d := p.Sub(r3.Vec{X: io.Cfg.Center[0], Y: io.Cfg.Center[1], Z: io.Cfg.Center[2]})
	switch io.Cfg.Geometry {
	case 0:
		return math.Max(math.Abs(d.X), math.Max(math.Abs(d.Y), math.Abs(d.Z)))
	case 1:
		return math.Abs(d.X) + math.Abs(d.Y) + math.Abs(d.Z)
	case 3:
		return math.Hypot(d.X, d.Z)
	default:
		return r3.Norm(d)
	}
}

// NormalDirection returns the outward unit normal of the boundary at cell
// (i, j, k): radial from the centre, projected into the polar plane for
// the cylinder geometry.
func (io *Ionosphere) NormalDirection(tech *fsgrid.Grid[fsgrid.Technical], i, j, k int) r3.Vec {
	d := tech.CellCentre(i, j, k).Sub(r3.Vec{X: io.Cfg.Center[0], Y: io.Cfg.Center[1], Z: io.Cfg.Center[2]})
	if io.Cfg.Geometry == 3 {
		d.Y = 0.
	}
	if r3.Norm(d) == 0. {
		return r3.Vec{Z: 1.}
	}
	return r3.Unit(d)
}

// MagneticFieldBoundary returns the boundary value of perturbed magnetic
// field component c at an ionosphere cell: the normal component is kept
// and the tangential components vanish, the perfect conductor condition.
func (io *Ionosphere) MagneticFieldBoundary(perb *fsgrid.Grid[fsgrid.PerBCell], tech *fsgrid.Grid[fsgrid.Technical], i, j, k, component int) float64 {
	cell, ok := perb.AtGlobal(i, j, k)
	if !ok {
		return 0.
	}
	var (
		n  = io.NormalDirection(tech, i, j, k)
		b  = r3.Vec{X: cell[fsgrid.PerBX], Y: cell[fsgrid.PerBY], Z: cell[fsgrid.PerBZ]}
		bn = b.Dot(n)
	)
	switch component {
	case 0:
		return bn * n.X
	case 1:
		return bn * n.Y
	default:
		return bn * n.Z
	}
}

// ElectricFieldBoundary nulls the electric field component on a boundary
// cell.
func (io *Ionosphere) ElectricFieldBoundary(egrid *fsgrid.Grid[fsgrid.EFieldCell], i, j, k, component int) {
	if cell, ok := egrid.AtGlobal(i, j, k); ok {
		cell[component] = 0.
	}
}

// DerivativesBoundary nulls the perturbed field derivatives on a boundary
// cell.
func (io *Ionosphere) DerivativesBoundary(dperb *fsgrid.Grid[fsgrid.DPerBCell], i, j, k int) {
	if cell, ok := dperb.AtGlobal(i, j, k); ok {
		for c := range cell {
			cell[c] = 0.
		}
	}
}
