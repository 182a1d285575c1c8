package geometry3D

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriangleArea(t *testing.T) {
	var (
		a = r3.Vec{X: 0, Y: 0, Z: 0}
		b = r3.Vec{X: 1, Y: 0, Z: 0}
		c = r3.Vec{X: 0, Y: 1, Z: 0}
	)
	{ // Unit right triangle in the XY plane
		assert.True(t, near(0.5, TriangleArea(a, b, c), 1.e-12))
	}
	{ // Area is invariant under cyclic corner permutation
		assert.True(t, near(TriangleArea(a, b, c), TriangleArea(b, c, a), 1.e-14))
		assert.True(t, near(TriangleArea(a, b, c), TriangleArea(c, a, b), 1.e-14))
	}
	{ // Equilateral triangle with unit edge length, area sqrt(3)/4
		var (
			p = r3.Vec{X: 0, Y: 0, Z: 2}
			q = r3.Vec{X: 1, Y: 0, Z: 2}
			r = r3.Vec{X: 0.5, Y: math.Sqrt(3) / 2, Z: 2}
		)
		assert.True(t, near(math.Sqrt(3)/4, TriangleArea(p, q, r), 1.e-12))
	}
}

func TestGradT(t *testing.T) {
	var (
		a = r3.Vec{X: 0, Y: 0, Z: 0}
		b = r3.Vec{X: 1, Y: 0, Z: 0}
		c = r3.Vec{X: 0, Y: 1, Z: 0}
	)
	{ // Hat function of a on the reference triangle is 1-x-y
		g := GradT(a, b, c)
		assert.True(t, nearVec([]float64{-1, -1, 0}, []float64{g.X, g.Y, g.Z}, 1.e-12))
	}
	{ // Hat functions of b and c are x and y
		g := GradT(b, c, a)
		assert.True(t, nearVec([]float64{1, 0, 0}, []float64{g.X, g.Y, g.Z}, 1.e-12))
		g = GradT(c, a, b)
		assert.True(t, nearVec([]float64{0, 1, 0}, []float64{g.X, g.Y, g.Z}, 1.e-12))
	}
	{ // The three gradients of any triangle sum to zero
		var (
			p = r3.Vec{X: 1.2, Y: -0.4, Z: 2.5}
			q = r3.Vec{X: -0.3, Y: 1.9, Z: 2.2}
			r = r3.Vec{X: 0.6, Y: 0.7, Z: 1.1}
		)
		sum := GradT(p, q, r).Add(GradT(q, r, p)).Add(GradT(r, p, q))
		assert.True(t, near(0, r3.Norm(sum), 1.e-12))
	}
	{ // Gradient lies in the triangle plane
		var (
			p = r3.Vec{X: 1.2, Y: -0.4, Z: 2.5}
			q = r3.Vec{X: -0.3, Y: 1.9, Z: 2.2}
			r = r3.Vec{X: 0.6, Y: 0.7, Z: 1.1}
		)
		n := TriangleNormal(p, q, r)
		assert.True(t, near(0, GradT(p, q, r).Dot(n), 1.e-10))
	}
}

func TestBarycentric(t *testing.T) {
	var (
		a = r3.Vec{X: 1, Y: 0, Z: 0}
		b = r3.Vec{X: 0, Y: 1, Z: 0}
		c = r3.Vec{X: 0, Y: 0, Z: 1}
	)
	{ // Corner rays map to unit barycentric coordinates
		u, v, w, tt := Barycentric(a.Scale(5), a, b, c)
		assert.True(t, nearVec([]float64{1, 0, 0}, []float64{u, v, w}, 1.e-12))
		assert.True(t, near(0.2, tt, 1.e-12))
	}
	{ // Centroid direction
		p := TriangleCentroid(a, b, c)
		u, v, w, _ := Barycentric(p, a, b, c)
		assert.True(t, nearVec([]float64{1. / 3., 1. / 3., 1. / 3.}, []float64{u, v, w}, 1.e-12))
	}
	{ // Containment, inside and outside
		assert.True(t, InTriangle(r3.Vec{X: 1, Y: 1, Z: 1}, a, b, c))
		assert.False(t, InTriangle(r3.Vec{X: -1, Y: 0.1, Z: 0.1}, a, b, c))
		// Antipodal ray must not match
		assert.False(t, InTriangle(r3.Vec{X: -1, Y: -1, Z: -1}, a, b, c))
	}
	{ // Latitude
		assert.True(t, near(90, LatitudeDeg(r3.Vec{X: 0, Y: 0, Z: 3}), 1.e-12))
		assert.True(t, near(-90, LatitudeDeg(r3.Vec{X: 0, Y: 0, Z: -3}), 1.e-12))
		assert.True(t, near(0, LatitudeDeg(r3.Vec{X: 1, Y: 1, Z: 0}), 1.e-12))
		assert.True(t, near(45, LatitudeDeg(r3.Vec{X: 1, Y: 0, Z: 1}), 1.e-12))
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
