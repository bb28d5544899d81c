// Public domain.

package spectrum

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/soniakeys/pointspec/internal/quad"
)

// ErgPerMeV converts energy flux to cgs units.
const ErgPerMeV = 1.60218e-6

// Divergence guard.  If E·dN/dE is not falling between guardLo and
// guardHi MeV the upper integration limit is capped at guardCap.
const (
	guardLo  = 100.
	guardHi  = 1e5
	guardCap = 5e5
)

// FluxOptions select the quantity IntegratedFlux computes.
type FluxOptions struct {
	// EnergyWeight w integrates E**w dN/dE.  0 gives photon flux,
	// 1 energy flux.
	EnergyWeight float64
	CGS          bool // energy in erg rather than MeV
	Error        bool // propagate covariance into an error
	TwoSided     bool // log-normal high and low errors
}

// Flux is an integral flux with optional errors.
type Flux struct {
	Value  float64
	Err    float64 // symmetric error, with Error
	Hi, Lo float64 // with Error and TwoSided
}

func quantity(w float64) string {
	switch w {
	case 0:
		return "photon flux"
	case 1:
		return "energy flux"
	}
	return fmt.Sprintf("E^%g weighted flux", w)
}

// IntegratedFlux returns ∫ E**w dN/dE dE over [emin, emax].
//
// emax may be +Inf.  A spectrum that is not falling in E·dN/dE between
// 100 MeV and 100 GeV would diverge; for such spectra emax is capped at
// 500 GeV.
//
// With o.Error the log space covariance of free parameters is propagated
// through finite difference derivatives of the flux.  With o.TwoSided the
// flux is treated as log-normal for asymmetric errors.
//
// Failure returns a *FluxError.
func (m *Model) IntegratedFlux(emin, emax float64, o FluxOptions) (Flux, error) {
	emax = m.capEmax(emax)
	v, err := m.integrate(emin, emax, o.EnergyWeight, o.CGS)
	if err != nil {
		return Flux{}, err
	}
	f := Flux{Value: v}
	if !o.Error {
		return f, nil
	}
	fail := func(err error) (Flux, error) {
		return Flux{}, &FluxError{
			Quantity: quantity(o.EnergyWeight) + " error",
			Model:    m.FullName(),
			Emin:     emin,
			Emax:     emax,
			Err:      fmt.Errorf("%w: %v", ErrNumerical, err),
		}
	}
	if cov := m.FreeCovariance(); cov != nil {
		d := FluxGradient(m, emin, emax, o)
		free := m.Free()
		df := make([]float64, 0, len(d))
		for i, x := range d {
			if free[i] {
				df = append(df, x)
			}
		}
		dv := mat.NewVecDense(len(df), df)
		f.Err = math.Sqrt(mat.Inner(dv, cov, dv))
	}
	if math.IsNaN(f.Err) || math.IsInf(f.Err, 0) {
		return fail(fmt.Errorf("error is %g", f.Err))
	}
	if o.TwoSided {
		if !(v > 0) {
			return fail(fmt.Errorf("flux %g not positive", v))
		}
		rel := f.Err / v
		f.Hi = v * math.Expm1(rel)
		f.Lo = -v * math.Expm1(-rel)
	}
	return f, nil
}

func (m *Model) capEmax(emax float64) float64 {
	if guardLo*m.Value(guardLo) <= guardHi*m.Value(guardHi) {
		return math.Min(guardCap, emax)
	}
	return emax
}

// integrate does the quadrature for IntegratedFlux.  emax is already
// capped.
func (m *Model) integrate(emin, emax, w float64, cgs bool) (float64, error) {
	p := m.Linear()
	g := func(e float64) float64 { return m.shape.value(&m.c, p, e) }
	if w != 0 {
		g = func(e float64) float64 {
			return m.shape.value(&m.c, p, e) * math.Pow(e, w)
		}
	}
	units := 1.
	if cgs {
		units = math.Pow(ErgPerMeV, w)
	}
	fail := func(err error) (float64, error) {
		return 0, &FluxError{
			Quantity: quantity(w),
			Model:    m.FullName(),
			Emin:     emin,
			Emax:     emax,
			Err:      fmt.Errorf("%w: %w", ErrNumerical, err),
		}
	}
	// an absolute tolerance is needed since relative tolerance alone is
	// unreliable for steep spectra
	epsabs := g(emin) * 1e-4
	if math.IsNaN(epsabs) || math.IsInf(epsabs, 0) {
		return fail(fmt.Errorf("integrand is %g at %g MeV", epsabs, emin))
	}
	r, err := quad.Adaptive(g, emin, emax, &quad.Settings{
		AbsTol: math.Abs(epsabs),
		RelTol: 1.49e-8,
	})
	if err != nil {
		return fail(err)
	}
	if !r.Converged {
		slog.Debug("flux integral not converged",
			"model", m.FullName(), "emin", emin, "emax", emax,
			"value", r.Value, "abserr", r.AbsErr)
	}
	return units * r.Value, nil
}

// FastFlux returns photon flux over [emin, emax], in closed form for
// variants that have one, by quadrature otherwise.
func (m *Model) FastFlux(emin, emax float64) (float64, error) {
	if fs, ok := m.shape.(fluxShape); ok {
		return fs.fastFlux(&m.c, m.Linear(), emin, emax), nil
	}
	f, err := m.IntegratedFlux(emin, emax, FluxOptions{})
	return f.Value, err
}
