package potential

import (
	"math"

	"github.com/nordlys/goiono/ionomesh"
)

// NetCurrent returns the area weighted sum of the node sources, the total
// field aligned current flowing into the sphere.
func NetCurrent(g *ionomesh.Grid) (total float64) {
	for i := range g.Nodes {
		total += g.Nodes[i].Parameters[ionomesh.ParamSource] * g.NodeNeighbourArea(uint32(i)) / 3.
	}
	return
}

// OffsetFAC subtracts the area weighted mean source from every node,
// closing the net field aligned current over the sphere. The downmapped
// currents carry no such guarantee, and an unbalanced load has no
// solution against the singular Neumann operator.
func OffsetFAC(g *ionomesh.Grid) {
	var totJ, totArea float64
	for i := range g.Nodes {
		a := g.NodeNeighbourArea(uint32(i)) / 3.
		totJ += g.Nodes[i].Parameters[ionomesh.ParamSource] * a
		totArea += a
	}
	mean := totJ / totArea
	for i := range g.Nodes {
		g.Nodes[i].Parameters[ionomesh.ParamSource] -= mean
	}
}

// CrossPolarCapPotential returns the spread of the solved potential over
// the sphere, the standard strength diagnostic of the convection pattern.
func CrossPolarCapPotential(g *ionomesh.Grid) float64 {
	var (
		min = math.Inf(1)
		max = math.Inf(-1)
	)
	for i := range g.Nodes {
		phi := g.Nodes[i].Parameters[ionomesh.ParamPotential]
		min = math.Min(min, phi)
		max = math.Max(max, phi)
	}
	if min > max {
		return 0
	}
	return max - min
}
