package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	var (
		ip   = Default()
		data = []byte(`
Title: polar cap test
IonosphereRadius: 1.0
InnerRadius: 2.5
BaseShape: tetrahedron
Geometry: 3
RefineMinLatitudes: [60]
RefineMaxLatitudes: [90]
SigmaPedersen: 2.0
SolverMaxIterations: 500
Species:
  - Name: proton
    Rho: 1.0e6
    T: 5.0e5
    V0: [0, 0, -100.0]
    NSpaceSamples: 2
    NVelocitySamples: 5
`)
	)
	assert.NoError(t, ip.Parse(data))
	assert.Equal(t, "polar cap test", ip.Title)
	assert.Equal(t, 1.0, ip.IonosphereRadius)
	assert.Equal(t, 2.5, ip.InnerRadius)
	assert.Equal(t, "tetrahedron", ip.BaseShape)
	assert.Equal(t, 3, ip.Geometry)
	assert.Equal(t, 2.0, ip.SigmaPedersen)
	assert.Equal(t, 500, ip.SolverMaxIterations)
	// Unset keys keep their defaults
	assert.Equal(t, 8.e15, ip.DipoleMoment)
	assert.Equal(t, 1, len(ip.Species))
	assert.Equal(t, -100.0, ip.Species[0].V0[2])

	bands := ip.Bands()
	assert.Equal(t, 1, len(bands))
	assert.Equal(t, 60.0, bands[0].Min)
	assert.Equal(t, 90.0, bands[0].Max)
}

func TestParseRejectsMalformed(t *testing.T) {
	ip := Default()
	assert.Error(t, ip.Parse([]byte("SolverMaxIterations: [not, an, int]")))
}
