// Public domain.

package exposure_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/pointspec/exposure"
	"github.com/soniakeys/pointspec/spectrum"
)

func TestSeparation(t *testing.T) {
	for _, tc := range []struct {
		ra1, dec1, ra2, dec2, want float64 // degrees
	}{
		{0, 0, 90, 0, 90},
		{10, 20, 10, 20, 0},
		{0, 90, 123, 0, 90},
		{0, 30, 180, 30, 120},
		{350, 0, 10, 0, 20},
	} {
		a := exposure.NewSkyDir(tc.ra1, tc.dec1)
		b := exposure.NewSkyDir(tc.ra2, tc.dec2)
		if got := a.Separation(b).Deg(); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%v to %v: %g, want %g", a, b, got, tc.want)
		}
	}
}

func TestSkyDirString(t *testing.T) {
	s := exposure.NewSkyDir(83.63, 22.01).String()
	if !strings.Contains(s, "°") {
		t.Errorf("%q", s)
	}
}

func TestClasses(t *testing.T) {
	c := exposure.Classes{exposure.Uniform(2e10), exposure.Uniform(1e10)}
	dir := exposure.NewSkyDir(0, 0)
	for _, tc := range []struct {
		class int
		want  float64
	}{{0, 2e10}, {1, 1e10}, {-1, 3e10}} {
		f, err := c.At(tc.class, dir)
		if err != nil {
			t.Fatal(err)
		}
		if got := f(1000); got != tc.want {
			t.Errorf("class %d: %g, want %g", tc.class, got, tc.want)
		}
	}
	if _, err := c.At(2, dir); !errors.Is(err, exposure.ErrClass) {
		t.Errorf("class 2: got %v", err)
	}
}

func TestTabulated(t *testing.T) {
	p := exposure.NewSkyDir(0, 0)
	m, err := exposure.NewTabulated(p, unit.AngleFromDeg(70), 1e7,
		[]float64{100, 1e4, 1e6}, []float64{1e3, 1e4, 1e4})
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct{ e, want float64 }{
		{10, 1e3},
		{100, 1e3},
		{1000, math.Sqrt(1e7)},
		{1e5, 1e4},
		{1e8, 1e4},
	} {
		if got := m.Area(tc.e); math.Abs(got-tc.want) > 1e-9*tc.want {
			t.Errorf("area(%g) = %g, want %g", tc.e, got, tc.want)
		}
	}
	if v := m.Value(exposure.NewSkyDir(0, 60), 1e4); math.Abs(v-.5e11) > 1e2 {
		t.Errorf("exposure at 60° = %g", v)
	}
	if v := m.Value(exposure.NewSkyDir(0, 71), 1e4); v != 0 {
		t.Errorf("exposure outside field of view %g", v)
	}
	_, err = exposure.NewTabulated(p, 1, 1, []float64{100, 10}, []float64{1, 1})
	if !errors.Is(err, exposure.ErrTable) {
		t.Errorf("decreasing energies: got %v", err)
	}
	_, err = exposure.NewTabulated(p, 1, 1, []float64{100, 1000}, []float64{1, 0})
	if !errors.Is(err, exposure.ErrTable) {
		t.Errorf("zero area: got %v", err)
	}
}

func TestExpectedCounts(t *testing.T) {
	m, _ := spectrum.New("PowerLaw", spectrum.WithParameters(1e-11, 2))
	dir := exposure.NewSkyDir(83.63, 22.01)
	c := m.ExpectedCounts(100, 1e5, exposure.At(exposure.Uniform(1e11), dir), nil)
	f, _ := m.FastFlux(100, 1e5)
	if math.Abs(c-1e11*f) > 1e-4*c {
		t.Errorf("counts %g, want %g", c, 1e11*f)
	}
}
