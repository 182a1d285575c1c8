/*
Package fsgrid models the structured Cartesian grid of the outer field
solver, as far as the ionospheric boundary needs it: cell geometry, a
per-rank slab decomposition, and the per-cell payloads the coupling reads
and writes. Every rank holds only its own slab; the ionosphere mesh on top
of it is replicated everywhere.
*/
package fsgrid

import (
	"fmt"

	"github.com/nordlys/goiono/comm"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a regular Cartesian grid of T valued cells, decomposed into rank
// slabs along its largest axis. Cell (0,0,0) has its low corner at PhysMin.
type Grid[T any] struct {
	NCells  [3]int
	PhysMin [3]float64
	DX      [3]float64

	DecompAxis int
	LocalStart [3]int
	LocalSize  [3]int

	Data []T // Local cells, x fastest
}

func New[T any](cc comm.Communicator, ncells [3]int, physMin, physMax [3]float64) (g *Grid[T]) {
	g = &Grid[T]{NCells: ncells, PhysMin: physMin}
	for d := 0; d < 3; d++ {
		if ncells[d] < 1 {
			panic(fmt.Errorf("fsgrid dimension %d has %d cells", d, ncells[d]))
		}
		if physMax[d] <= physMin[d] {
			panic(fmt.Errorf("fsgrid extent %d is empty: [%v,%v]", d, physMin[d], physMax[d]))
		}
		g.DX[d] = (physMax[d] - physMin[d]) / float64(ncells[d])
		g.LocalSize[d] = ncells[d]
	}
	axis := 0
	for d := 1; d < 3; d++ {
		if ncells[d] > ncells[axis] {
			axis = d
		}
	}
	lo, hi := comm.Span(cc, ncells[axis])
	g.DecompAxis = axis
	g.LocalStart[axis] = lo
	g.LocalSize[axis] = hi - lo
	g.Data = make([]T, g.LocalSize[0]*g.LocalSize[1]*g.LocalSize[2])
	return
}

// CellCentre returns the physical centre of global cell (i, j, k).
func (g *Grid[T]) CellCentre(i, j, k int) r3.Vec {
	return r3.Vec{
		X: g.PhysMin[0] + (float64(i)+0.5)*g.DX[0],
		Y: g.PhysMin[1] + (float64(j)+0.5)*g.DX[1],
		Z: g.PhysMin[2] + (float64(k)+0.5)*g.DX[2],
	}
}

// IsLocal reports whether global cell (i, j, k) lives in this rank's slab.
func (g *Grid[T]) IsLocal(i, j, k int) bool {
	idx := [3]int{i, j, k}
	for d := 0; d < 3; d++ {
		if idx[d] < g.LocalStart[d] || idx[d] >= g.LocalStart[d]+g.LocalSize[d] {
			return false
		}
	}
	return true
}

// At returns the local cell at local indices (li, lj, lk).
func (g *Grid[T]) At(li, lj, lk int) *T {
	return &g.Data[li+g.LocalSize[0]*(lj+g.LocalSize[1]*lk)]
}

// AtGlobal returns the cell at global indices, ok false when not local.
func (g *Grid[T]) AtGlobal(i, j, k int) (cell *T, ok bool) {
	if !g.IsLocal(i, j, k) {
		return nil, false
	}
	return g.At(i-g.LocalStart[0], j-g.LocalStart[1], k-g.LocalStart[2]), true
}

// ForEachLocal visits every local cell with its global indices.
func (g *Grid[T]) ForEachLocal(f func(i, j, k int, cell *T)) {
	for lk := 0; lk < g.LocalSize[2]; lk++ {
		for lj := 0; lj < g.LocalSize[1]; lj++ {
			for li := 0; li < g.LocalSize[0]; li++ {
				f(li+g.LocalStart[0], lj+g.LocalStart[1], lk+g.LocalStart[2], g.At(li, lj, lk))
			}
		}
	}
}

// InGlobal reports whether (i, j, k) is a valid global cell index.
func (g *Grid[T]) InGlobal(i, j, k int) bool {
	return i >= 0 && i < g.NCells[0] &&
		j >= 0 && j < g.NCells[1] &&
		k >= 0 && k < g.NCells[2]
}
