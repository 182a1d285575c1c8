package ionomesh

import (
	"fmt"
	"math"

	"github.com/nordlys/goiono/geometry3D"
	"gonum.org/v1/gonum/spatial/r3"
)

// ElementArea returns the surface area of element e.
func (g *Grid) ElementArea(e uint32) float64 {
	var (
		el = &g.Elements[e]
		a  = g.Nodes[el.Corners[0]].X
		b  = g.Nodes[el.Corners[1]].X
		c  = g.Nodes[el.Corners[2]].X
	)
	return geometry3D.TriangleArea(a, b, c)
}

// MappedElementArea returns the area of element e projected along the
// field lines up to the coupling boundary, or exactly 0 if any corner
// failed to map.
func (g *Grid) MappedElementArea(e uint32) float64 {
	var (
		el = &g.Elements[e]
		a  = g.Nodes[el.Corners[0]].XMapped
		b  = g.Nodes[el.Corners[1]].XMapped
		c  = g.Nodes[el.Corners[2]].XMapped
	)
	if r3.Norm(a) == 0. || r3.Norm(b) == 0. || r3.Norm(c) == 0. {
		return 0
	}
	return geometry3D.TriangleArea(a, b, c)
}

// NodeNeighbourArea returns the summed surface area of the elements
// touching node n.
func (g *Grid) NodeNeighbourArea(n uint32) (area float64) {
	nd := &g.Nodes[n]
	for i := 0; i < nd.NumTouchingElements; i++ {
		area += g.ElementArea(nd.TouchingElements[i])
	}
	return
}

// MappedNodeNeighbourArea is NodeNeighbourArea on the upmapped positions;
// elements with unmapped corners contribute nothing.
func (g *Grid) MappedNodeNeighbourArea(n uint32) (area float64) {
	nd := &g.Nodes[n]
	for i := 0; i < nd.NumTouchingElements; i++ {
		area += g.MappedElementArea(nd.TouchingElements[i])
	}
	return
}

func (g *Grid) ElementCentre(e uint32) r3.Vec {
	var (
		el = &g.Elements[e]
		a  = g.Nodes[el.Corners[0]].X
		b  = g.Nodes[el.Corners[1]].X
		c  = g.Nodes[el.Corners[2]].X
	)
	return geometry3D.TriangleCentroid(a, b, c)
}

// TotalArea returns the summed element area, approaching 4*pi*R^2 from
// below as the sphere refines.
func (g *Grid) TotalArea() (area float64) {
	for e := range g.Elements {
		area += g.ElementArea(uint32(e))
	}
	return
}

// LevelCounts returns the number of elements at each refinement level,
// indexed by level.
func (g *Grid) LevelCounts() (counts []int) {
	for _, el := range g.Elements {
		for el.RefLevel >= len(counts) {
			counts = append(counts, 0)
		}
		counts[el.RefLevel]++
	}
	return
}

// NumHangingNodes counts nodes currently carrying a hanging constraint.
func (g *Grid) NumHangingNodes() (num int) {
	for i := range g.Nodes {
		if g.Nodes[i].IsHanging(uint32(i)) {
			num++
		}
	}
	return
}

/*
ContainingElement locates the element pierced by the ray from the origin
through p and returns its index with the barycentric weights of the
piercing point, tiny negatives clamped and the weights renormalized to
sum to 1. When roundoff leaves the ray marginally outside every element,
the element whose smallest coordinate is least negative wins; -1 means no
element faces the ray at all.
*/
func (g *Grid) ContainingElement(p r3.Vec) (e int, u, v, w float64) {
	e = -1
	best := math.Inf(-1)
	for i := range g.Elements {
		var (
			el = &g.Elements[i]
			a  = g.Nodes[el.Corners[0]].X
			b  = g.Nodes[el.Corners[1]].X
			c  = g.Nodes[el.Corners[2]].X
		)
		bu, bv, bw, t := geometry3D.Barycentric(p, a, b, c)
		if t <= 0. {
			continue
		}
		if low := math.Min(bu, math.Min(bv, bw)); low > best {
			best = low
			e, u, v, w = i, bu, bv, bw
		}
		if best >= -geometry3D.BARYTOL {
			break
		}
	}
	if e < 0 {
		return
	}
	u, v, w = math.Max(u, 0.), math.Max(v, 0.), math.Max(w, 0.)
	s := u + v + w
	u, v, w = u/s, v/s, w/s
	return
}

// PrintStats writes a mesh summary.
func (g *Grid) PrintStats() {
	fmt.Printf("ionosphere grid: %d nodes, %d elements, %d hanging nodes\n",
		len(g.Nodes), len(g.Elements), g.NumHangingNodes())
	for level, count := range g.LevelCounts() {
		if count != 0 {
			fmt.Printf("  level %d: %8d elements\n", level, count)
		}
	}
	fmt.Printf("  total area %.6g (sphere %.6g)\n", g.TotalArea(), 4.*math.Pi*g.Radius*g.Radius)
}
