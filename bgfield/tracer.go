package bgfield

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultStepFraction scales each integration step by the local radius,
	// keeping the angular step roughly constant as lines converge inward
	DefaultStepFraction = 0.02
	DefaultMaxSteps     = 100000
)

// Tracer integrates field lines of a FieldFunction with a midpoint rule,
// stepping along the unit field direction.
type Tracer struct {
	Field        FieldFunction
	MaxDistance  float64 // A line wandering beyond this radius is lost
	StepFraction float64
	MaxSteps     int
}

func NewTracer(field FieldFunction, maxDistance float64) *Tracer {
	return &Tracer{
		Field:        field,
		MaxDistance:  maxDistance,
		StepFraction: DefaultStepFraction,
		MaxSteps:     DefaultMaxSteps,
	}
}

/*
Trace follows the field line through start until it crosses the sphere of
targetRadius and returns the crossing point, computed exactly on the last
integration segment. The traversal sense along B is fixed at the start so
that the radius initially moves toward the target.

The zero vector return marks a line that never reaches the target: it left
MaxDistance, ran out of steps, or passed through a field null. Callers
treat such points as unmapped.
*/
func (tr *Tracer) Trace(start r3.Vec, targetRadius float64) r3.Vec {
	var (
		x = start
		r = r3.Norm(start)
	)
	if r == 0. || targetRadius <= 0. {
		return r3.Vec{}
	}
	b := tr.Field(x)
	if !usable(r3.Norm(b)) {
		return r3.Vec{}
	}
	want := 1.
	if targetRadius < r {
		want = -1.
	}
	dir := want
	if b.Dot(x) < 0. {
		dir = -want
	}
	for step := 0; step < tr.MaxSteps; step++ {
		h := tr.StepFraction * r
		b1 := tr.Field(x)
		n1 := r3.Norm(b1)
		if !usable(n1) {
			return r3.Vec{}
		}
		mid := x.Add(b1.Scale(dir * h / (2. * n1)))
		b2 := tr.Field(mid)
		n2 := r3.Norm(b2)
		if !usable(n2) {
			return r3.Vec{}
		}
		next := x.Add(b2.Scale(dir * h / n2))
		rn := r3.Norm(next)
		if (r-targetRadius)*(rn-targetRadius) <= 0. {
			return sphereCrossing(x, next, targetRadius)
		}
		if rn > tr.MaxDistance {
			return r3.Vec{}
		}
		x, r = next, rn
	}
	return r3.Vec{}
}

// usable rejects field magnitudes a step cannot be scaled by: zero, NaN,
// or the overflow of an evaluation too close to the dipole singularity.
func usable(n float64) bool {
	return n > 0. && !math.IsInf(n, 0)
}

// sphereCrossing solves |a + t (b-a)| = radius for t in [0,1] and returns
// the crossing point. The callers guarantee a sign change over the
// segment, so a real root exists up to roundoff.
func sphereCrossing(a, b r3.Vec, radius float64) r3.Vec {
	var (
		d = b.Sub(a)
		A = d.Dot(d)
		B = 2. * a.Dot(d)
		C = a.Dot(a) - radius*radius
	)
	if A == 0. {
		return b
	}
	disc := B*B - 4.*A*C
	if disc < 0. {
		disc = 0
	}
	sq := math.Sqrt(disc)
	for _, t := range [2]float64{(-B - sq) / (2. * A), (-B + sq) / (2. * A)} {
		if t >= 0. && t <= 1. {
			return a.Add(d.Scale(t))
		}
	}
	return b
}
