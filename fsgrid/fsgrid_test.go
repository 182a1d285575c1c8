package fsgrid

import (
	"testing"

	"github.com/nordlys/goiono/comm"
	"github.com/stretchr/testify/assert"
)

func TestGridGeometry(t *testing.T) {
	g := New[Technical](comm.Self{}, [3]int{4, 2, 2},
		[3]float64{-2, -1, -1}, [3]float64{2, 1, 1})
	{ // Cell sizes and centres
		assert.Equal(t, [3]float64{1, 1, 1}, g.DX)
		c := g.CellCentre(0, 0, 0)
		assert.Equal(t, -1.5, c.X)
		assert.Equal(t, -0.5, c.Y)
		assert.Equal(t, -0.5, c.Z)
		c = g.CellCentre(3, 1, 1)
		assert.Equal(t, 1.5, c.X)
		assert.Equal(t, 0.5, c.Y)
		assert.Equal(t, 0.5, c.Z)
	}
	{ // Single rank owns everything
		assert.Equal(t, 16, len(g.Data))
		assert.True(t, g.IsLocal(3, 1, 1))
		assert.False(t, g.IsLocal(4, 0, 0))
		assert.False(t, g.InGlobal(0, 2, 0))
	}
	{ // Cell access round trip
		cell, ok := g.AtGlobal(2, 1, 0)
		assert.True(t, ok)
		cell.SysBoundaryFlag = BoundaryIonosphere
		again, _ := g.AtGlobal(2, 1, 0)
		assert.Equal(t, BoundaryIonosphere, again.SysBoundaryFlag)
	}
}

func TestGridDecomposition(t *testing.T) {
	const NP = 4
	{ // Slabs along the largest axis partition the grid exactly
		grp := comm.NewGroup(NP)
		owned := make([]int, NP)
		grp.Launch(func(cc *comm.Member) {
			g := New[float64](cc, [3]int{3, 10, 3},
				[3]float64{0, 0, 0}, [3]float64{3, 10, 3})
			assert.Equal(t, 1, g.DecompAxis)
			count := 0
			g.ForEachLocal(func(i, j, k int, cell *float64) {
				assert.True(t, g.IsLocal(i, j, k))
				count++
			})
			assert.Equal(t, len(g.Data), count)
			owned[cc.Rank()] = count
		})
		total := 0
		for _, n := range owned {
			total += n
		}
		assert.Equal(t, 3*10*3, total)
	}
	{ // Every global cell is local to exactly one rank
		grp := comm.NewGroup(NP)
		owners := make([][]int, NP)
		grp.Launch(func(cc *comm.Member) {
			g := New[float64](cc, [3]int{2, 2, 7},
				[3]float64{0, 0, 0}, [3]float64{1, 1, 1})
			var mine []int
			for k := 0; k < 7; k++ {
				for j := 0; j < 2; j++ {
					for i := 0; i < 2; i++ {
						if g.IsLocal(i, j, k) {
							mine = append(mine, i+2*(j+2*k))
						}
					}
				}
			}
			owners[cc.Rank()] = mine
		})
		seen := make(map[int]int)
		for _, mine := range owners {
			for _, id := range mine {
				seen[id]++
			}
		}
		assert.Equal(t, 2*2*7, len(seen))
		for _, n := range seen {
			assert.Equal(t, 1, n)
		}
	}
}

func TestBoundaryFlagNames(t *testing.T) {
	for name, flag := range BoundaryNameMap {
		assert.Equal(t, name, flag.String())
	}
}
