package coupling

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nordlys/goiono/fsgrid"
	"github.com/nordlys/goiono/ionomesh"
)

// Vacuum permeability, T m / A.
const mu0 = 4.e-7 * math.Pi

/*
MapDownFAC projects field aligned current densities from the volume grid
down onto the mesh nodes' source parameters through the coupling lists.

Each rank accumulates weight*J and weight over its own coupled cells; one
collective sum then completes both accumulators everywhere, so the final
node sources are bit-identical across ranks. A node's source is the
weighted current average scaled by its flux tube area ratio, mapped
neighbourhood area over neighbourhood area, which accounts for the
convergence of the field lines between the coupling radius and the
ionosphere. Nodes nothing couples to read zero.
*/
func MapDownFAC(g *ionomesh.Grid, dperb *fsgrid.Grid[fsgrid.DPerBCell], bgb *fsgrid.Grid[fsgrid.BGBCell]) {
	var (
		n   = len(g.Nodes)
		buf = make([]float64, 2*n) // weight*J sums first, weight sums second
	)
	for i := range g.Nodes {
		for _, cp := range g.Nodes[i].Coupling {
			j, ok := FieldAlignedCurrent(dperb, bgb, cp.Cell)
			if !ok {
				continue
			}
			buf[i] += cp.Weight * j
			buf[n+i] += cp.Weight
		}
	}
	g.Comm.AllReduceSumFloat64s(buf)

	for i := range g.Nodes {
		nd := &g.Nodes[i]
		nd.Parameters[ionomesh.ParamSource] = 0.
		if buf[n+i] <= 0. {
			continue
		}
		area := g.NodeNeighbourArea(uint32(i))
		if area == 0. {
			continue
		}
		ratio := g.MappedNodeNeighbourArea(uint32(i)) / area
		nd.Parameters[ionomesh.ParamSource] = buf[i] / buf[n+i] * ratio
	}
}

// FieldAlignedCurrent evaluates J = (curl dB).Bhat / mu0 at one cell of
// the volume grid from the stored cross derivatives of the perturbed
// field. The second return is false when the cell is not local or the
// background field vanishes there.
func FieldAlignedCurrent(dperb *fsgrid.Grid[fsgrid.DPerBCell], bgb *fsgrid.Grid[fsgrid.BGBCell], cell [3]int) (float64, bool) {
	d, ok := dperb.AtGlobal(cell[0], cell[1], cell[2])
	if !ok {
		return 0, false
	}
	b, ok := bgb.AtGlobal(cell[0], cell[1], cell[2])
	if !ok {
		return 0, false
	}
	var (
		curl = r3.Vec{
			X: d[fsgrid.DPerBzdy] - d[fsgrid.DPerBydz],
			Y: d[fsgrid.DPerBxdz] - d[fsgrid.DPerBzdx],
			Z: d[fsgrid.DPerBydx] - d[fsgrid.DPerBxdy],
		}
		bg = r3.Vec{X: b[fsgrid.BGBX], Y: b[fsgrid.BGBY], Z: b[fsgrid.BGBZ]}
		nb = r3.Norm(bg)
	)
	if nb == 0. {
		return 0, false
	}
	return curl.Dot(bg) / (nb * mu0), true
}
