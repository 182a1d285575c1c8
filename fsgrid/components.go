package fsgrid

// Component slots of the perturbed magnetic field derivative grid. The
// values are true spatial derivatives in T/m; the six cross derivatives
// are what the field aligned current needs for curl(B).
const (
	DPerBxdy = iota
	DPerBxdz
	DPerBydx
	DPerBydz
	DPerBzdx
	DPerBzdy
	NDPerB
)

// Component slots of the background magnetic field grid.
const (
	BGBX = iota
	BGBY
	BGBZ
	NBGB
)

// Component slots of the perturbed magnetic field grid.
const (
	PerBX = iota
	PerBY
	PerBZ
	NPerB
)

// Component slots of the electric field grid.
const (
	EX = iota
	EY
	EZ
	NE
)

// Per cell payloads of the field grids the boundary reads and writes.
type (
	DPerBCell  [NDPerB]float64
	BGBCell    [NBGB]float64
	PerBCell   [NPerB]float64
	EFieldCell [NE]float64
)
