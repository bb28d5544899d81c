// Public domain.

// Package exposure supplies the exposure, cm² s, that turns a photon flux
// density into expected counts.
//
// Exposure depends on sky direction and energy.  A Map gives it for one
// event class; Classes holds maps for several.  Use At to fix the
// direction, giving the function of energy that spectrum.Model
// ExpectedCounts takes.
package exposure

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/coord"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/interp"
)

var (
	ErrTable = errors.New("invalid exposure table")
	ErrClass = errors.New("no such event class")
)

// SkyDir is an equatorial direction.
type SkyDir struct {
	RA  unit.RA
	Dec unit.Angle
}

// NewSkyDir constructs a SkyDir from degrees.
func NewSkyDir(raDeg, decDeg float64) SkyDir {
	return SkyDir{unit.RAFromDeg(raDeg), unit.AngleFromDeg(decDeg)}
}

// Cart returns the unit vector of d.
func (d SkyDir) Cart() coord.Cart {
	sd, cd := math.Sincos(d.Dec.Rad())
	sr, cr := math.Sincos(d.RA.Rad())
	return coord.Cart{X: cd * cr, Y: cd * sr, Z: sd}
}

// Separation returns the angle between d and o.
func (d SkyDir) Separation(o SkyDir) unit.Angle {
	a, b := d.Cart(), o.Cart()
	c := math.Max(-1, math.Min(1, a.Dot(&b)))
	return unit.Angle(math.Acos(c))
}

func (d SkyDir) String() string {
	return fmt.Sprintf("%.1d %+.0d", sexa.FmtRA(d.RA), sexa.FmtAngle(d.Dec))
}

// Map is an exposure map for one event class.
type Map interface {
	Value(dir SkyDir, e float64) float64
}

// At returns exposure at dir as a function of energy.
func At(m Map, dir SkyDir) func(e float64) float64 {
	return func(e float64) float64 { return m.Value(dir, e) }
}

// Uniform is exposure independent of direction and energy.
type Uniform float64

func (u Uniform) Value(SkyDir, float64) float64 { return float64(u) }

// Classes holds one map per event class, as front and back converting
// events.
type Classes []Map

// At returns exposure of class at dir as a function of energy.  A
// negative class sums all classes.
func (c Classes) At(class int, dir SkyDir) (func(e float64) float64, error) {
	if class >= len(c) {
		return nil, fmt.Errorf("%w: %d of %d", ErrClass, class, len(c))
	}
	if class >= 0 {
		return At(c[class], dir), nil
	}
	return func(e float64) (s float64) {
		for _, m := range c {
			s += m.Value(dir, e)
		}
		return
	}, nil
}

// Tabulated is exposure from an effective area table for a fixed
// pointing.
//
// Effective area is interpolated linearly in log area and log energy,
// held constant beyond the table ends.  It is scaled by livetime and by
// the cosine of the angle from the pointing direction, and is zero
// outside the field of view.
type Tabulated struct {
	Pointing SkyDir
	FOV      unit.Angle // radius
	Livetime float64    // s
	le, la   []float64  // log10 energy, log10 area
	pl       interp.PiecewiseLinear
}

// NewTabulated constructs a Tabulated map.  energies, MeV, must increase;
// areas, cm², must be positive.
func NewTabulated(pointing SkyDir, fov unit.Angle, livetime float64,
	energies, areas []float64) (*Tabulated, error) {
	if len(energies) != len(areas) || len(energies) < 2 {
		return nil, fmt.Errorf("%w: %d energies, %d areas",
			ErrTable, len(energies), len(areas))
	}
	t := &Tabulated{
		Pointing: pointing,
		FOV:      fov,
		Livetime: livetime,
		le:       make([]float64, len(energies)),
		la:       make([]float64, len(areas)),
	}
	for i, e := range energies {
		if !(e > 0) || !(areas[i] > 0) {
			return nil, fmt.Errorf("%w: row %d: energy %g, area %g",
				ErrTable, i, e, areas[i])
		}
		if i > 0 && !(e > energies[i-1]) {
			return nil, fmt.Errorf("%w: energies must increase", ErrTable)
		}
		t.le[i] = math.Log10(e)
		t.la[i] = math.Log10(areas[i])
	}
	if err := t.pl.Fit(t.le, t.la); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTable, err)
	}
	return t, nil
}

// Area returns on-axis effective area at energy e.
func (t *Tabulated) Area(e float64) float64 {
	x := math.Max(t.le[0], math.Min(math.Log10(e), t.le[len(t.le)-1]))
	return math.Pow(10, t.pl.Predict(x))
}

func (t *Tabulated) Value(dir SkyDir, e float64) float64 {
	sep := t.Pointing.Separation(dir)
	if sep > t.FOV {
		return 0
	}
	return t.Area(e) * t.Livetime * math.Cos(sep.Rad())
}
