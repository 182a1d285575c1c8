/*
Package bgfield evaluates the background magnetic field models and traces
their field lines. The coupling between the ionosphere mesh and the outer
simulation volume runs entirely along these lines.
*/
package bgfield

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// FieldFunction evaluates the background magnetic field at a position.
type FieldFunction func(pos r3.Vec) r3.Vec

// EarthDipoleMoment is Earth's dipole strength in T m^3 with the mu0/4pi
// factor absorbed, giving Tesla directly from the dipole formula.
const EarthDipoleMoment = 8.0e15

// Dipole returns the field of a point dipole at the origin with the given
// moment vector: B = (3 rhat (m.rhat) - m) / r^3.
func Dipole(moment r3.Vec) FieldFunction {
	return func(pos r3.Vec) r3.Vec {
		r := r3.Norm(pos)
		if r == 0. {
			return r3.Vec{}
		}
		rhat := pos.Scale(1. / r)
		return rhat.Scale(3. * moment.Dot(rhat)).Sub(moment).Scale(1. / (r * r * r))
	}
}

// EarthDipole is an earthlike dipole: moment along -Z, so field lines
// enter at the geographic north pole.
func EarthDipole() FieldFunction {
	return Dipole(r3.Vec{Z: -EarthDipoleMoment})
}

// LineDipole returns the field of a line dipole along the Y axis, used for
// polar plane setups. A positive strength is earthlike: the field points
// into the north pole and northward across the equator, matching the
// point dipole's sense in the XZ plane.
func LineDipole(strength float64) FieldFunction {
	return func(pos r3.Vec) r3.Vec {
		var (
			x, z = pos.X, pos.Z
			r2   = x*x + z*z
		)
		if r2 == 0. {
			return r3.Vec{}
		}
		r4 := r2 * r2
		return r3.Vec{
			X: -strength * 2. * x * z / r4,
			Z: -strength * (z*z - x*x) / r4,
		}
	}
}
