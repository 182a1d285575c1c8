/*
Package comm provides the rank group abstraction the potential solver and
the field coupling run on. All ranks execute the same grid operations in
lock step; the collectives here are the only cross-rank communication, so a
single-process run and an N-rank run follow identical code paths.
*/
package comm

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

type Communicator interface {
	Rank() int
	Size() int
	// AllReduceSum returns the sum of x over all ranks. Contributions are
	// combined in rank order, so every rank receives the bit-identical
	// result.
	AllReduceSum(x float64) float64
	// AllReduceSumFloat64s sums x element-wise over all ranks, in place.
	// All ranks must pass slices of equal length.
	AllReduceSumFloat64s(x []float64)
	AllReduceMax(x float64) float64
	Barrier()
}

// Self is the single-process communicator.
type Self struct{}

func (Self) Rank() int                      { return 0 }
func (Self) Size() int                      { return 1 }
func (Self) AllReduceSum(x float64) float64 { return x }
func (Self) AllReduceSumFloat64s([]float64) {}
func (Self) AllReduceMax(x float64) float64 { return x }
func (Self) Barrier()                       {}

// Span splits n items over the communicator's ranks with a maximum
// imbalance of one item, spreading the remainder over the first ranks, and
// returns this rank's half-open index range.
func Span(cc Communicator, n int) (lo, hi int) {
	var (
		rank, size = cc.Rank(), cc.Size()
		per        = n / size
		remainder  = n % size
		startAdd   int
		endAdd     int
	)
	if remainder != 0 {
		if rank+1 > remainder {
			startAdd = remainder
		} else {
			startAdd = rank
			endAdd = 1
		}
	}
	lo = rank*per + startAdd
	hi = lo + per + endAdd
	return
}

/*
Group runs an in-process rank group: one goroutine per rank, collectives
implemented as a cyclic barrier with an accumulation slot per rank. The
last rank to arrive combines the contributions in rank order and releases
the others, so every rank sees the bit-identical combined value.
*/
type Group struct {
	size int

	mu      sync.Mutex
	arrived int
	scalars []float64
	vecs    [][]float64
	result  float64
	vecRes  []float64
	release chan struct{}
}

func NewGroup(size int) (g *Group) {
	if size < 1 {
		panic(fmt.Errorf("rank group size must be at least 1, got %d", size))
	}
	g = &Group{
		size:    size,
		scalars: make([]float64, size),
		vecs:    make([][]float64, size),
		release: make(chan struct{}),
	}
	return
}

func (g *Group) Size() int { return g.size }

// Member returns the Communicator handle of one rank. Exactly one goroutine
// must use each handle.
func (g *Group) Member(rank int) *Member {
	if rank < 0 || rank >= g.size {
		panic(fmt.Errorf("rank %d out of range for group of %d", rank, g.size))
	}
	return &Member{g: g, rank: rank}
}

// Launch starts one goroutine per rank running body and blocks until all
// return.
func (g *Group) Launch(body func(cc *Member)) {
	var wg sync.WaitGroup
	wg.Add(g.size)
	for rank := 0; rank < g.size; rank++ {
		go func(rank int) {
			defer wg.Done()
			body(g.Member(rank))
		}(rank)
	}
	wg.Wait()
}

type Member struct {
	g    *Group
	rank int
}

func (m *Member) Rank() int { return m.rank }
func (m *Member) Size() int { return m.g.size }

type reduceOp uint8

const (
	opSum reduceOp = iota
	opMax
)

func (m *Member) AllReduceSum(x float64) float64 {
	return m.g.reduceScalar(m.rank, x, opSum)
}

func (m *Member) AllReduceMax(x float64) float64 {
	return m.g.reduceScalar(m.rank, x, opMax)
}

func (m *Member) Barrier() {
	m.g.reduceScalar(m.rank, 0, opSum)
}

func (m *Member) AllReduceSumFloat64s(x []float64) {
	var (
		g = m.g
	)
	g.mu.Lock()
	g.vecs[m.rank] = x
	g.arrived++
	if g.arrived == g.size {
		g.vecRes = make([]float64, len(x))
		for rank := 0; rank < g.size; rank++ {
			if len(g.vecs[rank]) != len(x) {
				panic(fmt.Errorf("allreduce length mismatch: rank %d has %d, rank %d has %d",
					rank, len(g.vecs[rank]), m.rank, len(x)))
			}
			floats.Add(g.vecRes, g.vecs[rank])
		}
		res := g.vecRes
		g.completeRoundLocked()
		g.mu.Unlock()
		copy(x, res)
		return
	}
	ch := g.release
	g.mu.Unlock()
	<-ch
	copy(x, g.vecRes)
}

func (g *Group) reduceScalar(rank int, x float64, op reduceOp) float64 {
	g.mu.Lock()
	g.scalars[rank] = x
	g.arrived++
	if g.arrived == g.size {
		acc := g.scalars[0]
		for r := 1; r < g.size; r++ {
			switch op {
			case opSum:
				acc += g.scalars[r]
			case opMax:
				acc = math.Max(acc, g.scalars[r])
			}
		}
		g.result = acc
		g.completeRoundLocked()
		g.mu.Unlock()
		return acc
	}
	ch := g.release
	g.mu.Unlock()
	<-ch
	return g.result
}

// completeRoundLocked releases the waiting ranks and arms the next round.
// A released rank can only overwrite round state after re-entering a
// collective, which requires every rank (including the slowest reader) to
// have left this one first.
func (g *Group) completeRoundLocked() {
	g.arrived = 0
	close(g.release)
	g.release = make(chan struct{})
}
