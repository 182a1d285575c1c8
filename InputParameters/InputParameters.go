package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/nordlys/goiono/ionomesh"
)

// RE is the Earth radius in metres, the natural length unit of the
// default configuration.
const RE = 6371.e3

// SpeciesParameters configure one plasma population for the external
// Vlasov solver at the boundary; carried through, not interpreted here.
type SpeciesParameters struct {
	Name             string     `yaml:"Name"`
	Rho              float64    `yaml:"Rho"`
	T                float64    `yaml:"T"`
	V0               [3]float64 `yaml:"V0"`
	Fluffiness       float64    `yaml:"Fluffiness"`
	NSpaceSamples    int        `yaml:"NSpaceSamples"`
	NVelocitySamples int        `yaml:"NVelocitySamples"`
}

// Parameters obtained from the YAML input file
type IonosphereParameters struct {
	Title            string     `yaml:"Title"`
	IonosphereRadius float64    `yaml:"IonosphereRadius"` // Radius of the ionosphere shell (m)
	InnerRadius      float64    `yaml:"InnerRadius"`      // Radius of the inner simulation boundary (m)
	Center           [3]float64 `yaml:"Center"`
	Geometry         int        `yaml:"Geometry"` // 0: inf-norm, 1: 1-norm, 2: 2-norm sphere, 3: polar plane cylinder

	BaseShape          string    `yaml:"BaseShape"` // icosahedron / tetrahedron
	RefineMinLatitudes []float64 `yaml:"RefineMinLatitudes"`
	RefineMaxLatitudes []float64 `yaml:"RefineMaxLatitudes"`

	DipoleMoment  float64 `yaml:"DipoleMoment"`  // T m^3, mu0/4pi absorbed
	SigmaParallel float64 `yaml:"SigmaParallel"` // Conductances in S
	SigmaPedersen float64 `yaml:"SigmaPedersen"`
	SigmaHall     float64 `yaml:"SigmaHall"`

	SolverMaxIterations int     `yaml:"SolverMaxIterations"`
	SolverTolerance     float64 `yaml:"SolverTolerance"`

	FsGridCells [3]int     `yaml:"FsGridCells"`
	FsGridMin   [3]float64 `yaml:"FsGridMin"`
	FsGridMax   [3]float64 `yaml:"FsGridMax"`

	Species []SpeciesParameters `yaml:"Species"`
}

// Default returns an Earth-like configuration: ionosphere shell 100 km up,
// inner boundary at 5 RE, polar caps refined twice.
func Default() *IonosphereParameters {
	return &IonosphereParameters{
		Title:               "Earth ionosphere",
		IonosphereRadius:    RE + 100.e3,
		InnerRadius:         5. * RE,
		Geometry:            2,
		BaseShape:           "icosahedron",
		RefineMinLatitudes:  []float64{50., 60.},
		RefineMaxLatitudes:  []float64{90., 90.},
		DipoleMoment:        8.e15,
		SigmaParallel:       1000.,
		SigmaPedersen:       5.,
		SigmaHall:           10.,
		SolverMaxIterations: 2000,
		SolverTolerance:     1.e-9,
		FsGridCells:         [3]int{32, 32, 32},
		FsGridMin:           [3]float64{-16. * RE, -16. * RE, -16. * RE},
		FsGridMax:           [3]float64{16. * RE, 16. * RE, 16. * RE},
		Species: []SpeciesParameters{{
			Name:             "proton",
			Rho:              1.e6,
			T:                0.5e6,
			Fluffiness:       0.,
			NSpaceSamples:    2,
			NVelocitySamples: 5,
		}},
	}
}

func (ip *IonosphereParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *IonosphereParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5g\t\t= IonosphereRadius\n", ip.IonosphereRadius)
	fmt.Printf("%8.5g\t\t= InnerRadius\n", ip.InnerRadius)
	fmt.Printf("[%s]\t\t= BaseShape\n", ip.BaseShape)
	fmt.Printf("[%d]\t\t\t\t= Geometry\n", ip.Geometry)
	for i := range ip.RefineMinLatitudes {
		fmt.Printf("Band[%d] = [%v, %v]\n", i, ip.RefineMinLatitudes[i], ip.RefineMaxLatitudes[i])
	}
	fmt.Printf("%8.5g\t\t= SigmaParallel\n", ip.SigmaParallel)
	fmt.Printf("%8.5g\t\t= SigmaPedersen\n", ip.SigmaPedersen)
	fmt.Printf("%8.5g\t\t= SigmaHall\n", ip.SigmaHall)
	fmt.Printf("[%d]\t\t\t= SolverMaxIterations\n", ip.SolverMaxIterations)
	fmt.Printf("%8.5g\t\t= SolverTolerance\n", ip.SolverTolerance)
	fmt.Printf("[%d %d %d]\t\t= FsGridCells\n", ip.FsGridCells[0], ip.FsGridCells[1], ip.FsGridCells[2])
	for _, sp := range ip.Species {
		fmt.Printf("Species[%s] = rho %v, T %v, V0 %v\n", sp.Name, sp.Rho, sp.T, sp.V0)
	}
}

// Bands zips the refinement latitude limits into mesh builder bands. The
// two lists must have equal length; callers validate that first.
func (ip *IonosphereParameters) Bands() (bands []ionomesh.LatitudeBand) {
	for i := range ip.RefineMinLatitudes {
		bands = append(bands, ionomesh.LatitudeBand{
			Min: ip.RefineMinLatitudes[i],
			Max: ip.RefineMaxLatitudes[i],
		})
	}
	return
}
