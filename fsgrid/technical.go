package fsgrid

type BoundaryFlag uint8

const (
	BoundaryUnset BoundaryFlag = iota
	BoundaryNotSysboundary
	BoundaryIonosphere
	BoundaryOuter
)

var BoundaryNameMap = map[string]BoundaryFlag{
	"unset":      BoundaryUnset,
	"none":       BoundaryNotSysboundary,
	"ionosphere": BoundaryIonosphere,
	"outer":      BoundaryOuter,
}

func (bf BoundaryFlag) String() string {
	switch bf {
	case BoundaryUnset:
		return "unset"
	case BoundaryNotSysboundary:
		return "none"
	case BoundaryIonosphere:
		return "ionosphere"
	case BoundaryOuter:
		return "outer"
	}
	return "invalid"
}

// Technical carries the per cell bookkeeping of the field solver grid that
// the boundary subsystems read and write.
type Technical struct {
	SysBoundaryFlag  BoundaryFlag
	SysBoundaryLayer int // 1 on cells bordering the solved domain, growing inward; 0 outside boundary regions
}
