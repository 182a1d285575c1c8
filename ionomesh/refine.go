package ionomesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/nordlys/goiono/geometry3D"
)

// LatitudeBand selects elements whose centre latitude magnitude lies
// strictly between Min and Max degrees. Both hemispheres always refine
// symmetrically.
type LatitudeBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Refine runs one subdivision pass per configured band, rebuilding
// connectivity in between. Bands apply in order, so nested band lists
// produce gradually coarsening meshes away from the region of interest
// with at most one refinement level difference across any edge.
func (g *Grid) Refine(bands []LatitudeBand) {
	for _, band := range bands {
		g.refineBetweenLatitudes(band.Min, band.Max)
		g.UpdateConnectivity()
	}
}

func (g *Grid) refineBetweenLatitudes(minLat, maxLat float64) {
	var marked []uint32
	for e := range g.Elements {
		lat := math.Abs(geometry3D.LatitudeDeg(g.ElementCentre(uint32(e))))
		if lat > minLat && lat < maxLat {
			marked = append(marked, uint32(e))
		}
	}
	// Coarser elements split first so that a shared edge's midpoint exists
	// by the time a finer neighbour in the same pass splits the half edge
	sort.SliceStable(marked, func(i, j int) bool {
		return g.Elements[marked[i]].RefLevel < g.Elements[marked[j]].RefLevel
	})
	for _, e := range marked {
		g.SubdivideElement(e)
	}
}

/*
SubdivideElement splits element e into its 4 conforming children. The
centre child takes over slot e, the 3 corner children append to the
element list, all at RefLevel+1.

Midpoint nodes are shared through an edge keyed registry. Splitting an
edge whose other side is already refined finds the midpoint there and
frees it of its hanging constraint, both sides now conforming. Splitting
an edge whose other side is an unrefined element of the same level creates
the midpoint as a hanging node constrained to the edge endpoints and
registers it. Finding neither a registered midpoint nor a same level
neighbour means the other side is coarser than e, and subdividing would
put two refinement levels across one edge.
*/
func (g *Grid) SubdivideElement(e uint32) {
	var (
		el   = g.Elements[e] // copied, the slot is overwritten below
		mids [3]uint32
	)
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		c1, c2 := el.Corners[i], el.Corners[j]
		key := NewEdgeKey(c1, c2)
		if m, ok := g.midpoints[key]; ok {
			g.Nodes[m].SetSelfDependency(m)
			delete(g.midpoints, key)
			mids[i] = m
			continue
		}
		if g.FindElementNeighbour(e, i, j) == -1 {
			panic(fmt.Errorf(
				"subdividing element %d would span more than one refinement level across edge (%d,%d)",
				e, c1, c2))
		}
		m := g.addMidpointNode(c1, c2)
		g.Nodes[m].SetHangingDependency(c1, c2)
		g.midpoints[key] = m
		mids[i] = m
	}
	level := el.RefLevel + 1
	g.Elements[e] = Element{RefLevel: level, Corners: [3]uint32{mids[0], mids[1], mids[2]}}
	g.Elements = append(g.Elements,
		Element{RefLevel: level, Corners: [3]uint32{el.Corners[0], mids[0], mids[2]}},
		Element{RefLevel: level, Corners: [3]uint32{el.Corners[1], mids[1], mids[0]}},
		Element{RefLevel: level, Corners: [3]uint32{el.Corners[2], mids[2], mids[1]}},
	)
}

func (g *Grid) addMidpointNode(c1, c2 uint32) (m uint32) {
	n := Node{X: g.Nodes[c1].X.Add(g.Nodes[c2].X).Scale(0.5)}
	g.normalizeRadius(&n)
	m = uint32(len(g.Nodes))
	g.Nodes = append(g.Nodes, n)
	return
}
