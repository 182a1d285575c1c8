package potential

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/nordlys/goiono/comm"
	"github.com/nordlys/goiono/ionomesh"
)

func hangingSolver() *Solver {
	g := ionomesh.NewGrid(1., comm.Self{})
	g.InitializeIcosahedron()
	g.Refine([]ionomesh.LatitudeBand{everywhere, {Min: 45, Max: 90}})
	setIsotropicSigma(g, 1.5)
	addHallSigma(g, 0.5)
	s := NewSolver(g, 100, 1.e-9)
	s.InitSolver()
	return s
}

func TestOperatorMatchesAtimes(t *testing.T) {
	var (
		s = hangingSolver()
		g = s.G
		n = len(g.Nodes)
		x = mat.NewVecDense(n, nil)
	)
	for i := 0; i < n; i++ {
		v := math.Sin(float64(7 * i))
		x.SetVec(i, v)
		g.Nodes[i].Parameters[ionomesh.ParamZ] = v
	}
	for _, transposed := range []bool{false, true} {
		var (
			dense = mat.DenseCopyOf(s.OperatorMatrix(transposed))
			y     = mat.NewVecDense(n, nil)
		)
		y.MulVec(dense, x)
		for i := 0; i < n; i++ {
			assert.True(t, near(y.AtVec(i), s.Atimes(uint32(i), ionomesh.ParamZ, transposed), 1.e-10))
		}
	}
}

func TestTransposedOperatorIsTheTranspose(t *testing.T) {
	var (
		s   = hangingSolver()
		n   = len(s.G.Nodes)
		fwd = s.OperatorMatrix(false)
		trn = s.OperatorMatrix(true)
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.True(t, near(fwd.At(i, j), trn.At(j, i), 1.e-10))
		}
	}
}

func TestDumpOperator(t *testing.T) {
	var (
		s   = hangingSolver()
		buf bytes.Buffer
	)
	assert.NoError(t, s.DumpOperator(&buf, false))
	var (
		sc    = bufio.NewScanner(&buf)
		lines int
		nnz   int
	)
	s.OperatorMatrix(false).DoNonZero(func(i, j int, v float64) { nnz++ })
	prev := [2]int{-1, -1}
	for sc.Scan() {
		var (
			i, j int
			v    float64
		)
		_, err := fmt.Sscanf(sc.Text(), "%d %d %g", &i, &j, &v)
		assert.NoError(t, err)
		assert.True(t, [2]int{i, j} != prev)
		assert.True(t, i > prev[0] || (i == prev[0] && j > prev[1])) // row major order
		prev = [2]int{i, j}
		lines++
	}
	assert.Equal(t, nnz, lines)
}
