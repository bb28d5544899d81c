// Public domain.

package spectrum_test

import (
	"math"
	"testing"

	"github.com/soniakeys/pointspec/spectrum"
)

func TestGradient(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params []float64
	}{
		{"PowerLaw", []float64{1e-11, 2.2}},
		{"PowerLawFlux", []float64{1e-7, 2.2}},
		{"PowerLawFlux", []float64{1e-7, 1}},
		{"SmoothBrokenPowerLaw", []float64{1e-11, 1.5, 2.5, 2e3}},
		{"LogParabola", []float64{1e-11, 2, .3, 2e3}},
		{"ExpCutoff", []float64{1e-11, 1.7, 3e3}},
		{"PLSuperExpCutoff", []float64{1e-11, 1.7, 3e3, .8}},
		{"Constant", []float64{2}},
	} {
		m, err := spectrum.New(tc.name, spectrum.WithParameters(tc.params...))
		if err != nil {
			t.Fatal(err)
		}
		p := m.Linear()
		for _, e := range []float64{150, 2500, 7e3} {
			g, ok := m.Gradient(e)
			if !ok {
				t.Fatalf("%s: no analytic gradient", tc.name)
			}
			f := m.Value(e)
			est := spectrum.ValueGradient(m, e)
			for i, d := range est {
				d /= p[i] * math.Ln10
				// scale of a derivative wrt p_i is f/p_i
				if math.Abs(d-g[i]) > 1e-6*f/p[i]+1e-6*math.Abs(g[i]) {
					t.Errorf("%s%v e=%g: d/d%s analytic %g, estimate %g",
						tc.name, tc.params, e, m.Names()[i], g[i], d)
				}
			}
		}
	}
}

func TestGradientOrEstimate(t *testing.T) {
	m, _ := spectrum.New("BrokenPowerLaw",
		spectrum.WithParameters(1e-11, 1.5, 2.5, 2e3))
	if _, ok := m.Gradient(1000); ok {
		t.Fatal("BrokenPowerLaw has no analytic gradient")
	}
	g := m.GradientOrEstimate(1000)
	if len(g) != 4 {
		t.Fatal(len(g))
	}
	// below the break, dN/dE = n0 (eb/e)**g1
	f := m.Value(1000)
	want := []float64{f / 1e-11, f * math.Log(2), 0}
	for i, w := range want {
		if math.Abs(g[i]-w) > 1e-6*f/m.Linear()[i] {
			t.Errorf("d/d%s = %g, want %g", m.Names()[i], g[i], w)
		}
	}
}

func TestFluxGradientNoSideEffects(t *testing.T) {
	m, _ := spectrum.New("ExpCutoff")
	before := m.LogParameters()
	g := spectrum.FluxGradient(m, 100, 1e5, spectrum.FluxOptions{})
	for i, x := range m.LogParameters() {
		if x != before[i] {
			t.Fatal("FluxGradient modified model")
		}
	}
	// photon flux is proportional to norm
	f, _ := m.IntegratedFlux(100, 1e5, spectrum.FluxOptions{})
	if !near(g[0], f.Value*math.Ln10, 1e-6) {
		t.Errorf("dF/dlog10(norm) = %g, want %g", g[0], f.Value*math.Ln10)
	}
	// softer index and higher cutoff both add flux above 100 MeV
	if !(g[1] > 0) || !(g[2] > 0) {
		t.Errorf("gradient signs %v", g)
	}
}
