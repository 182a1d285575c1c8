package bgfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func latDeg(v r3.Vec) float64 {
	return math.Atan2(v.Z, math.Hypot(v.X, v.Y)) * 180. / math.Pi
}

func TestTraceDipole(t *testing.T) {
	var (
		tr = NewTracer(EarthDipole(), 50.)
	)
	{ // The L=2 shell crosses the unit sphere at 45 degrees latitude
		p := tr.Trace(r3.Vec{X: 2}, 1.)
		assert.True(t, near(1., r3.Norm(p), 1.e-9))
		assert.True(t, near(45., math.Abs(latDeg(p)), 0.1))
		assert.True(t, math.Abs(p.Y) < 1.e-9)
	}
	{ // From 60 degrees at r=4 the line lands at 75.52 degrees, L=16
		var (
			s = r3.Vec{X: 4. * math.Cos(60.*math.Pi/180.), Z: 4. * math.Sin(60.*math.Pi/180.)}
			p = tr.Trace(s, 1.)
		)
		assert.True(t, near(1., r3.Norm(p), 1.e-9))
		assert.True(t, near(75.52, latDeg(p), 0.1))
	}
	{ // Outward from 50 degrees on the surface, r=2 sits at 24.63 degrees
		var (
			s = r3.Vec{X: math.Cos(50. * math.Pi / 180.), Z: math.Sin(50. * math.Pi / 180.)}
			p = tr.Trace(s, 2.)
		)
		assert.True(t, near(2., r3.Norm(p), 1.e-9))
		assert.True(t, near(24.63, latDeg(p), 0.2))
	}
	{ // The equatorial surface line never reaches r=2, it dives into the planet
		assert.Equal(t, r3.Vec{}, tr.Trace(r3.Vec{X: 1}, 2.))
	}
}

func TestTraceLineDipole(t *testing.T) {
	var (
		tr = NewTracer(LineDipole(8.0e15), 50.)
	)
	{ // Line dipole field lines satisfy r = L cos(lat): L=2 lands at 60 degrees
		p := tr.Trace(r3.Vec{X: 2}, 1.)
		assert.True(t, near(1., r3.Norm(p), 1.e-9))
		assert.True(t, near(60., math.Abs(latDeg(p)), 0.1))
		assert.Equal(t, 0., p.Y)
	}
}

func TestTraceLostLines(t *testing.T) {
	{ // A step cap cuts the trace short
		tr := NewTracer(EarthDipole(), 50.)
		tr.MaxSteps = 3
		assert.Equal(t, r3.Vec{}, tr.Trace(r3.Vec{X: 2}, 1.))
	}
	{ // The distance bound catches lines that leave the domain before crossing
		tr := NewTracer(EarthDipole(), 1.5)
		s := r3.Vec{X: math.Cos(50. * math.Pi / 180.), Z: math.Sin(50. * math.Pi / 180.)}
		assert.Equal(t, r3.Vec{}, tr.Trace(s, 2.))
	}
	{ // A field null at the start point is unmappable
		null := func(pos r3.Vec) r3.Vec { return r3.Vec{} }
		assert.Equal(t, r3.Vec{}, NewTracer(null, 50.).Trace(r3.Vec{X: 2}, 1.))
	}
	{ // Degenerate inputs
		tr := NewTracer(EarthDipole(), 50.)
		assert.Equal(t, r3.Vec{}, tr.Trace(r3.Vec{}, 1.))
		assert.Equal(t, r3.Vec{}, tr.Trace(r3.Vec{X: 2}, -1.))
	}
}

func TestSphereCrossing(t *testing.T) {
	{ // Straight radial segment crosses the unit sphere at X=1
		p := sphereCrossing(r3.Vec{X: 0.5}, r3.Vec{X: 1.5}, 1.)
		assert.True(t, nearVec([]float64{1, 0, 0}, []float64{p.X, p.Y, p.Z}, 1.e-12))
	}
	{ // Oblique segment: the crossing lies on the sphere and on the segment
		var (
			a = r3.Vec{Z: 0.5}
			b = r3.Vec{X: 0.6, Z: 1.2}
			p = sphereCrossing(a, b, 1.)
		)
		assert.True(t, near(1., r3.Norm(p), 1.e-12))
		d := p.Sub(a)
		seg := b.Sub(a)
		tpar := d.Dot(seg) / seg.Dot(seg)
		assert.True(t, tpar >= 0. && tpar <= 1.)
	}
	{ // Zero-length segment falls back to the endpoint
		assert.Equal(t, r3.Vec{X: 2}, sphereCrossing(r3.Vec{X: 2}, r3.Vec{X: 2}, 1.))
	}
}
