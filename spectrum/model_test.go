// Public domain.

package spectrum_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/pointspec/param"
	"github.com/soniakeys/pointspec/spectrum"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func ExampleNew() {
	m, err := spectrum.New("PowerLaw", spectrum.WithParameters(1e-11, 2))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.FullName())
	fmt.Printf("%.3g\n", m.Value(1000))
	fmt.Printf("%.3g\n", m.Value(2000))
	// Output:
	// PowerLaw, e0=1000
	// 1e-11
	// 2.5e-12
}

func TestRegistry(t *testing.T) {
	names := spectrum.Names()
	if len(names) != 16 {
		t.Fatalf("%d names registered, want 16: %v", len(names), names)
	}
	for _, n := range names {
		m, err := spectrum.New(n)
		if err != nil {
			t.Errorf("%s: %v", n, err)
			continue
		}
		if n == spectrum.MixedName {
			continue
		}
		d, ok := spectrum.Lookup(n)
		if !ok {
			t.Errorf("%s: not found", n)
			continue
		}
		if m.Len() != len(d.ParamNames) || len(d.Defaults) != len(d.ParamNames) {
			t.Errorf("%s: %d params, %d names, %d defaults",
				n, m.Len(), len(d.ParamNames), len(d.Defaults))
		}
		if m.E0() != 1000 {
			t.Errorf("%s: e0 = %g", n, m.E0())
		}
		for _, e := range []float64{100, 1000, 1e4} {
			v := m.Value(e)
			if !(v > 0) || math.IsInf(v, 0) {
				t.Errorf("%s: value(%g) = %g", n, e, v)
			}
		}
	}
	// Lookup returns copies
	d, _ := spectrum.Lookup("PowerLaw")
	d.Defaults[0] = 5
	d.ParamNames[0] = "x"
	if d, _ = spectrum.Lookup("PowerLaw"); d.Defaults[0] != 1e-11 || d.ParamNames[0] != "Norm" {
		t.Fatal("registry modified through Lookup")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := spectrum.New("NoSuchModel"); !errors.Is(err, spectrum.ErrUnknownModel) {
		t.Errorf("unknown name: got %v", err)
	}
	_, err := spectrum.New("PowerLaw", spectrum.WithParameters(-1, 2))
	if !errors.Is(err, param.ErrNonPositive) {
		t.Errorf("negative norm: got %v", err)
	}
	_, err = spectrum.New("PowerLaw", spectrum.WithParameters(1e-11))
	if !errors.Is(err, param.ErrDimension) {
		t.Errorf("short params: got %v", err)
	}
	_, err = spectrum.New("PowerLaw", spectrum.WithE0(0))
	if !errors.Is(err, param.ErrNonPositive) {
		t.Errorf("e0 = 0: got %v", err)
	}
	_, err = spectrum.New("SmoothBrokenPowerLaw", spectrum.WithBeta(0))
	if !errors.Is(err, spectrum.ErrNotSupported) {
		t.Errorf("beta = 0: got %v", err)
	}
}

func TestShapes(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params []float64
		e      float64
		want   float64
	}{
		{"PowerLaw", []float64{1e-11, 2}, 2000, 2.5e-12},
		{"PowerLaw", []float64{1e-11, 2.5}, 1000, 1e-11},
		{"BrokenPowerLaw", []float64{1e-11, 1.5, 3, 2000}, 1000, 1e-11 * math.Pow(2, 1.5)},
		{"BrokenPowerLaw", []float64{1e-11, 1.5, 3, 2000}, 4000, 1e-11 / 8},
		{"BrokenPowerLawCutoff", []float64{1e-11, 1.5, 3, 2000, 1e4}, 4000,
			1e-11 / 8 * math.Exp(-.4)},
		{"SmoothBrokenPowerLaw", []float64{1e-11, 2, 2, 1000}, 1000,
			1e-11 * math.Pow(2, -.1)},
		{"DoublePowerLaw", []float64{5e-12, 2, 1, 1}, 2000, 5e-12 * (.25 + .5)},
		{"DoublePowerLawCutoff", []float64{5e-12, 2, 1, 2000, 1}, 2000,
			5e-12 * (.25*math.Exp(-1) + .5)},
		{"LogParabola", []float64{1e-11, 2, .5, 2000}, 2000, 1e-11},
		{"LogParabola", []float64{1e-11, 2, .5, 2000}, 2000 / math.E,
			1e-11 * math.Exp(1.5)},
		{"ExpCutoff", []float64{1e-11, 2, 2000}, 2000, 2.5e-12 * math.Exp(-1)},
		{"ExpCutoffPlusPL", []float64{1e-11, 2, 2000, 1e-12, 1}, 2000,
			2.5e-12*math.Exp(-1) + 5e-13},
		{"AllCutoff", []float64{1e-11, 1000}, 2000, 1e-11 * math.Exp(-2)},
		{"PLSuperExpCutoff", []float64{1e-11, 2, 1000, 2}, 2000, 2.5e-12 * math.Exp(-4)},
		{"Constant", []float64{3}, 1234, 3},
		{"InterpConstants", []float64{1, 2, 3, 4, 5}, 1000, 3},
		{"InterpConstants", []float64{1, 2, 3, 4, 5}, 10, 1},
		{"InterpConstants", []float64{1, 2, 3, 4, 5}, 1e7, 5},
		{"InterpConstants", []float64{1, 2, 3, 4, 5}, math.Sqrt(3e6), 3.5},
	} {
		m, err := spectrum.New(tc.name, spectrum.WithParameters(tc.params...))
		if err != nil {
			t.Fatal(tc.name, err)
		}
		if got := m.Value(tc.e); !near(got, tc.want, 1e-12) {
			t.Errorf("%s%v value(%g) = %g, want %g",
				tc.name, tc.params, tc.e, got, tc.want)
		}
	}
}

func TestFluxNormalized(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params []float64
	}{
		{"PowerLawFlux", []float64{1e-7, 2}},
		{"PowerLawFlux", []float64{1e-7, 1}},
		{"BrokenPowerLawFlux", []float64{1e-7, 1.5, 2.5, 1e3}},
		{"BrokenPowerLawFlux", []float64{1e-7, 1.5, 2.5, 50}},
		{"BrokenPowerLawFlux", []float64{1e-7, 1.5, 2.5, 3e6}},
	} {
		m, err := spectrum.New(tc.name, spectrum.WithParameters(tc.params...))
		if err != nil {
			t.Fatal(err)
		}
		c := m.Constants()
		f, err := m.FastFlux(c.Emin, c.Emax)
		if err != nil {
			t.Fatal(err)
		}
		if !near(f, tc.params[0], 1e-4) {
			t.Errorf("%s%v: flux over [%g, %g] = %g",
				tc.name, tc.params, c.Emin, c.Emax, f)
		}
	}
}

func TestInterpConstantsBreaks(t *testing.T) {
	m, err := spectrum.New("InterpConstants",
		spectrum.WithEnergyBreaks(100, 1000, 1e4))
	if err != nil {
		t.Fatal(err)
	}
	if n := m.Names(); len(n) != 3 || n[2] != "Scale_2" {
		t.Fatalf("names %v", n)
	}
	if v := m.Value(500); !near(v, 1, 1e-12) {
		t.Fatalf("default scale %g", v)
	}
	if _, err := spectrum.New("InterpConstants",
		spectrum.WithEnergyBreaks(1000, 100)); !errors.Is(err, spectrum.ErrNotSupported) {
		t.Fatalf("decreasing breaks: got %v", err)
	}
}

func TestCopy(t *testing.T) {
	m, _ := spectrum.New("ExpCutoff")
	m.SetFullCovariance(diagCov(1e-4, 1e-4, 1e-4))
	l0 := m.LogParameters()[0]
	c := m.Copy()
	c.SetFreeParameters([]float64{-10, .5, 4})
	c.Freeze("Cutoff", true)
	c.SetFullCovariance(diagCov(1, 1, 1))
	if c.SetE0(500) != nil {
		t.Fatal("SetE0 on copy")
	}
	if m.LogParameters()[0] != l0 || m.E0() != 1000 {
		t.Fatal("copy shares parameters or constants")
	}
	if m.NumFree() != 3 {
		t.Fatal("copy shares free mask")
	}
	if m.Covariance().At(0, 0) != 1e-4 {
		t.Fatal("copy shares covariance")
	}
}

func TestSetE0(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params []float64
	}{
		{"PowerLaw", []float64{1e-11, 2.2}},
		{"ExpCutoff", []float64{1e-11, 1.7, 3e3}},
		{"PLSuperExpCutoff", []float64{1e-11, 1.7, 3e3, .8}},
		{"SmoothBrokenPowerLaw", []float64{1e-11, 1.5, 2.5, 2e3}},
	} {
		m, err := spectrum.New(tc.name, spectrum.WithParameters(tc.params...))
		if err != nil {
			t.Fatal(err)
		}
		n := m.Len()
		v := make([]float64, n)
		for i := range v {
			v[i] = 1e-4
		}
		cov := diagCov(v...)
		cov.SetSym(0, 1, -5e-5)
		m.SetFullCovariance(cov)
		o := spectrum.FluxOptions{Error: true}
		f0, err := m.IntegratedFlux(100, 1e5, o)
		if err != nil {
			t.Fatal(err)
		}
		c := m.Copy()
		if err := c.SetE0(300); err != nil {
			t.Fatal(tc.name, err)
		}
		if c.E0() != 300 {
			t.Fatal(tc.name, "e0 not set")
		}
		for _, e := range []float64{100, 777, 1e4} {
			if a, b := m.Value(e), c.Value(e); !near(a, b, 1e-10) {
				t.Errorf("%s value(%g): %g, after SetE0 %g", tc.name, e, a, b)
			}
		}
		f1, err := c.IntegratedFlux(100, 1e5, o)
		if err != nil {
			t.Fatal(err)
		}
		if !near(f0.Err, f1.Err, 1e-3) {
			t.Errorf("%s flux error %g, after SetE0 %g", tc.name, f0.Err, f1.Err)
		}
	}
	m, _ := spectrum.New("LogParabola")
	if err := m.SetE0(300); !errors.Is(err, spectrum.ErrNotSupported) {
		t.Fatalf("LogParabola SetE0: got %v", err)
	}
}

func TestPivotEnergy(t *testing.T) {
	m, _ := spectrum.New("PowerLaw", spectrum.WithParameters(1e-11, 2.2))
	if _, err := m.PivotEnergy(); !errors.Is(err, spectrum.ErrFitRequired) {
		t.Fatalf("no covariance: got %v", err)
	}
	cov := diagCov(1e-3, 1e-4)
	cov.SetSym(0, 1, 2e-4)
	m.SetFullCovariance(cov)
	ep, err := m.PivotEnergy()
	if err != nil {
		t.Fatal(err)
	}
	if !(ep > 1000) {
		t.Fatalf("positive correlation gave pivot %g", ep)
	}
	if err := m.SetE0(ep); err != nil {
		t.Fatal(err)
	}
	c := m.CovarianceLinear(true)
	if r := c.At(0, 1) / math.Sqrt(c.At(0, 0)*c.At(1, 1)); math.Abs(r) > 1e-9 {
		t.Errorf("correlation at pivot %g", r)
	}
	ep2, err := m.PivotEnergy()
	if err != nil {
		t.Fatal(err)
	}
	if !near(ep, ep2, 1e-9) {
		t.Errorf("pivot %g, after SetE0 %g", ep, ep2)
	}
	e, _ := spectrum.New("ExpCutoff")
	if _, err := e.PivotEnergy(); !errors.Is(err, spectrum.ErrNotSupported) {
		t.Fatalf("ExpCutoff pivot: got %v", err)
	}
}

func TestToSuperExpCutoff(t *testing.T) {
	m, _ := spectrum.New("ExpCutoff", spectrum.WithParameters(1e-11, 1.7, 3e3))
	m.SetFullCovariance(diagCov(1e-4, 2e-4, 3e-4))
	s, err := spectrum.ToSuperExpCutoff(m)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "PLSuperExpCutoff" || s.Len() != 4 {
		t.Fatal(s.Name(), s.Len())
	}
	for _, e := range []float64{100, 3e3, 1e5} {
		if a, b := m.Value(e), s.Value(e); !near(a, b, 1e-12) {
			t.Errorf("value(%g): %g, converted %g", e, a, b)
		}
	}
	if f := s.Free(); f[3] {
		t.Error("b free")
	}
	c := s.Covariance()
	if c.At(2, 2) != 3e-4 || c.At(3, 3) != 0 {
		t.Error("covariance not carried")
	}
	if _, err := spectrum.ToSuperExpCutoff(s); !errors.Is(err, spectrum.ErrNotSupported) {
		t.Fatalf("convert PLSuperExpCutoff: got %v", err)
	}
}

// Random parameters within half a decade of defaults must give finite,
// non-negative values everywhere.
func TestValuesFinite(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(3)
	for _, n := range spectrum.Names() {
		if n == spectrum.MixedName {
			continue
		}
		d, _ := spectrum.Lookup(n)
		for trial := 0; trial < 50; trial++ {
			p := make([]float64, len(d.Defaults))
			for i, x := range d.Defaults {
				p[i] = x * math.Pow(10, rnd.Float64()-.5)
			}
			m, err := spectrum.New(n, spectrum.WithParameters(p...))
			if err != nil {
				t.Fatal(n, err)
			}
			e := make([]float64, 20)
			for i := range e {
				e[i] = math.Pow(10, 1.5+rnd.Float64()*4.5)
			}
			for i, v := range m.Values(e) {
				if !(v >= 0) || math.IsInf(v, 0) {
					t.Fatalf("%s%v value(%g) = %g", n, p, e[i], v)
				}
			}
		}
	}
}
