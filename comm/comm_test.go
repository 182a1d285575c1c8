package comm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	{ // Self gets the whole range
		lo, hi := Span(Self{}, 17)
		assert.Equal(t, 0, lo)
		assert.Equal(t, 17, hi)
	}
	{ // 10 items over 4 ranks: remainder spread over the first ranks
		g := NewGroup(4)
		var want = [][2]int{{0, 3}, {3, 6}, {6, 8}, {8, 10}}
		for rank := 0; rank < 4; rank++ {
			lo, hi := Span(g.Member(rank), 10)
			assert.Equal(t, want[rank][0], lo)
			assert.Equal(t, want[rank][1], hi)
		}
	}
	{ // More ranks than items: trailing ranks get empty spans
		g := NewGroup(4)
		total := 0
		for rank := 0; rank < 4; rank++ {
			lo, hi := Span(g.Member(rank), 2)
			assert.True(t, lo <= hi)
			total += hi - lo
		}
		assert.Equal(t, 2, total)
	}
}

func TestGroupCollectives(t *testing.T) {
	const NP = 4
	{ // Scalar sum, two consecutive rounds through the same barrier
		g := NewGroup(NP)
		round1 := make([]float64, NP)
		round2 := make([]float64, NP)
		g.Launch(func(cc *Member) {
			round1[cc.Rank()] = cc.AllReduceSum(float64(cc.Rank() + 1))
			round2[cc.Rank()] = cc.AllReduceSum(2 * float64(cc.Rank()+1))
		})
		for rank := 0; rank < NP; rank++ {
			assert.Equal(t, 10., round1[rank])
			assert.Equal(t, 20., round2[rank])
		}
	}
	{ // Rank-ordered combination is bit-identical on every rank
		g := NewGroup(NP)
		got := make([]float64, NP)
		g.Launch(func(cc *Member) {
			got[cc.Rank()] = cc.AllReduceSum(0.1 * float64(cc.Rank()+1))
		})
		for rank := 1; rank < NP; rank++ {
			assert.Equal(t, got[0], got[rank])
		}
	}
	{ // Vector sum in place
		g := NewGroup(NP)
		results := make([][]float64, NP)
		g.Launch(func(cc *Member) {
			x := []float64{float64(cc.Rank()), 2 * float64(cc.Rank()), 1}
			cc.AllReduceSumFloat64s(x)
			results[cc.Rank()] = x
		})
		for rank := 0; rank < NP; rank++ {
			assert.Equal(t, []float64{6, 12, 4}, results[rank])
		}
	}
	{ // Max
		g := NewGroup(NP)
		got := make([]float64, NP)
		g.Launch(func(cc *Member) {
			got[cc.Rank()] = cc.AllReduceMax(float64(cc.Rank()))
		})
		for rank := 0; rank < NP; rank++ {
			assert.Equal(t, float64(NP-1), got[rank])
		}
	}
	{ // Barrier separates phases
		g := NewGroup(NP)
		marks := make([]int, NP)
		g.Launch(func(cc *Member) {
			marks[cc.Rank()] = 1
			cc.Barrier()
			for rank := 0; rank < NP; rank++ {
				assert.Equal(t, 1, marks[rank])
			}
		})
	}
}

func TestSelf(t *testing.T) {
	var cc Communicator = Self{}
	assert.Equal(t, 0, cc.Rank())
	assert.Equal(t, 1, cc.Size())
	assert.Equal(t, 3.5, cc.AllReduceSum(3.5))
	assert.Equal(t, -1., cc.AllReduceMax(-1.))
	x := []float64{1, 2}
	cc.AllReduceSumFloat64s(x)
	assert.Equal(t, []float64{1, 2}, x)
}
