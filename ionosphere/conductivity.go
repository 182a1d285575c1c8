package ionosphere

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nordlys/goiono/ionomesh"
)

/*
CalculateConductivityTensor fills every node's conductivity tensor from
the configured parallel, Pedersen and Hall conductances and the
background field direction b at the node:

	sigma = sigmaPar b b^T + sigmaP (I - b b^T) - sigmaH b x

with b x the cross product matrix. The Hall part is antisymmetric, which
is one of the two reasons the assembled operator carries a transposed
coefficient set.
*/
func (io *Ionosphere) CalculateConductivityTensor() {
	var (
		g   = io.Grid
		cfg = io.Cfg
	)
	for idx := range g.Nodes {
		nd := &g.Nodes[idx]
		bh := r3.Vec{Z: -1.} // degenerate field fallback, field direction at the poles
		if b := io.Field(nd.X); r3.Norm(b) > 0. {
			bh = r3.Unit(b)
		}
		var (
			d     = [3]float64{bh.X, bh.Y, bh.Z}
			cross = [3][3]float64{
				{0., -d[2], d[1]},
				{d[2], 0., -d[0]},
				{-d[1], d[0], 0.},
			}
		)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var eye float64
				if i == j {
					eye = 1.
				}
				nd.Parameters[ionomesh.ParamSigma(i, j)] = cfg.SigmaParallel*d[i]*d[j] +
					cfg.SigmaPedersen*(eye-d[i]*d[j]) -
					cfg.SigmaHall*cross[i][j]
			}
		}
		nd.Parameters[ionomesh.ParamSigmaP] = cfg.SigmaPedersen
		nd.Parameters[ionomesh.ParamSigmaH] = cfg.SigmaHall
	}
}
