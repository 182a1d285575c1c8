package geometry3D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// BARYTOL is the slack allowed on barycentric coordinates when testing
	// triangle containment, absorbing roundoff from the radial projection
	BARYTOL = 1.e-12
)

// TriangleArea computes the area of the triangle spanned by a, b, c
func TriangleArea(a, b, c r3.Vec) (area float64) {
	var (
		e1 = b.Sub(c)
		e2 = c.Sub(a)
	)
	area = 0.5 * r3.Norm(e1.Cross(e2))
	return
}

// TriangleNormal returns the unnormalized triangle normal (b-a)x(c-a),
// oriented by the corner order, with |n| = 2*area
func TriangleNormal(a, b, c r3.Vec) r3.Vec {
	return b.Sub(a).Cross(c.Sub(a))
}

func TriangleCentroid(a, b, c r3.Vec) r3.Vec {
	return a.Add(b).Add(c).Scale(1. / 3.)
}

// GradT returns the (constant) gradient of the linear nodal basis function
// that is 1 at vertex a and 0 at vertices b and c of triangle (a, b, c)
func GradT(a, b, c r3.Vec) (grad r3.Vec) {
	var (
		n  = TriangleNormal(a, b, c)
		nn = r3.Norm2(n)
	)
	if nn == 0. {
		panic("GradT: degenerate triangle")
	}
	grad = n.Cross(c.Sub(b)).Scale(1. / nn)
	return
}

// LatitudeDeg returns the latitude of p in degrees, positive north
func LatitudeDeg(p r3.Vec) float64 {
	return math.Atan2(p.Z, math.Hypot(p.X, p.Y)) * 180. / math.Pi
}

/*
Barycentric projects p radially onto the plane of triangle (a, b, c) and
returns the barycentric coordinates (u, v, w) of the projected point, with
u+v+w = 1, plus the ray scale t such that t*p lies in the plane. A
non-positive t means the ray from the origin through p points away from the
triangle's plane (the antipodal side for our spherical meshes).
*/
func Barycentric(p, a, b, c r3.Vec) (u, v, w, t float64) {
	var (
		n  = TriangleNormal(a, b, c)
		np = n.Dot(p)
	)
	if np == 0. { // ray parallel to the plane
		return 0, 0, 0, -1
	}
	t = n.Dot(a) / np
	var (
		q          = p.Scale(t)
		v0, v1, v2 = b.Sub(a), c.Sub(a), q.Sub(a)
		d00        = v0.Dot(v0)
		d01        = v0.Dot(v1)
		d11        = v1.Dot(v1)
		d20        = v2.Dot(v0)
		d21        = v2.Dot(v1)
		denom      = d00*d11 - d01*d01
	)
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1. - v - w
	return
}

// InTriangle reports whether the ray from the origin through p pierces
// triangle (a, b, c)
func InTriangle(p, a, b, c r3.Vec) bool {
	u, v, w, t := Barycentric(p, a, b, c)
	if t <= 0. {
		return false
	}
	return u >= -BARYTOL && v >= -BARYTOL && w >= -BARYTOL
}
