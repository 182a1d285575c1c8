package potential

import (
	"fmt"
	"io"
	"sort"

	"github.com/james-bowman/sparse"
)

// OperatorMatrix materializes the assembled dependency lists into a
// sparse matrix, forward or transposed. Diagnostic path only; the solve
// itself never forms a matrix.
func (s *Solver) OperatorMatrix(transposed bool) *sparse.DOK {
	n := len(s.G.Nodes)
	m := sparse.NewDOK(n, n)
	for i := range s.G.Nodes {
		nd := &s.G.Nodes[i]
		for k := 0; k < nd.NumDependingNodes; k++ {
			c := nd.DependingCoeffs[k]
			if transposed {
				c = nd.TransposedCoeffs[k]
			}
			if c != 0. {
				m.Set(i, int(nd.DependingNodes[k]), c)
			}
		}
	}
	return m
}

// DumpOperator writes the operator as "row col value" triplets in row
// major order, for offline inspection of the assembled system.
func (s *Solver) DumpOperator(w io.Writer, transposed bool) error {
	type triplet struct {
		i, j int
		v    float64
	}
	var ts []triplet
	s.OperatorMatrix(transposed).DoNonZero(func(i, j int, v float64) {
		ts = append(ts, triplet{i, j, v})
	})
	sort.Slice(ts, func(a, b int) bool {
		if ts[a].i != ts[b].i {
			return ts[a].i < ts[b].i
		}
		return ts[a].j < ts[b].j
	})
	for _, t := range ts {
		if _, err := fmt.Fprintf(w, "%d %d %.17g\n", t.i, t.j, t.v); err != nil {
			return err
		}
	}
	return nil
}
