// Public domain.

// Package spectrum implements spectral models for point sources.
//
// A Model gives dN/dE, photon flux density in ph cm⁻² s⁻¹ MeV⁻¹, as a
// function of energy in MeV.  Parameters are held by an embedded
// param.Store in log space, so FreeParameters, SetFreeParameters, Freeze,
// Thaw, SetCovariance and Statistical are all available on a Model.
//
// Models are constructed by variant name from a fixed registry:
//
//	m, err := spectrum.New("PowerLaw",
//		spectrum.WithParameters(1e-11, 2),
//		spectrum.WithE0(1000))
//
// A Model is not safe for concurrent use.  Use Copy to give each
// goroutine its own.
package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/soniakeys/pointspec/param"
)

// Model is a spectral model instance.
type Model struct {
	*param.Store
	name       string
	pretty     string
	c          Constants
	background bool
	shape      shape
}

// shape is the function of a single variant.  p holds physical parameter
// values.
type shape interface {
	value(c *Constants, p []float64, e float64) float64
}

// gradShape is implemented by variants with analytic partial derivatives
// with respect to physical parameter values.
type gradShape interface {
	gradient(c *Constants, p []float64, e float64) []float64
}

// fluxShape is implemented by variants with a closed form photon flux.
type fluxShape interface {
	fastFlux(c *Constants, p []float64, emin, emax float64) float64
}

// e0Shape is implemented by variants with normalization defined at e0.
// normIndex returns γ such that the normalization scales as e0**γ.
type e0Shape interface {
	normIndex(c *Constants, p []float64) float64
}

// Option sets construction values that differ from registry defaults.
type Option func(*options)

type options struct {
	params     []float64
	free       []bool
	c          func(*Constants)
	components []string
	background bool
}

// WithParameters sets physical parameter values.
func WithParameters(p ...float64) Option {
	return func(o *options) { o.params = append([]float64(nil), p...) }
}

// WithFree sets the free mask.
func WithFree(free ...bool) Option {
	return func(o *options) { o.free = append([]bool(nil), free...) }
}

func withConstants(f func(*Constants)) Option {
	return func(o *options) {
		prev := o.c
		o.c = func(c *Constants) {
			if prev != nil {
				prev(c)
			}
			f(c)
		}
	}
}

// WithE0 sets the reference energy.
func WithE0(e0 float64) Option {
	return withConstants(func(c *Constants) { c.E0 = e0 })
}

// WithEnergyRange sets the integral flux range of flux normalized variants.
func WithEnergyRange(emin, emax float64) Option {
	return withConstants(func(c *Constants) { c.Emin, c.Emax = emin, emax })
}

// WithBeta sets the smoothing of SmoothBrokenPowerLaw.
func WithBeta(beta float64) Option {
	return withConstants(func(c *Constants) { c.Beta = beta })
}

// WithIndexOffset sets the PowerLaw index offset.
func WithIndexOffset(off float64) Option {
	return withConstants(func(c *Constants) { c.IndexOffset = off })
}

// WithEnergyBreaks sets InterpConstants break energies, in MeV.
func WithEnergyBreaks(e ...float64) Option {
	return withConstants(func(c *Constants) {
		c.EBreaks = make([]float64, len(e))
		for i, x := range e {
			c.EBreaks[i] = math.Log10(x)
		}
	})
}

// WithComponents names the simple variants of a MixedModel.
func WithComponents(names ...string) Option {
	return func(o *options) { o.components = append([]string(nil), names...) }
}

// WithBackground marks a model as a background model.  Display of
// background models omits derived fluxes.
func WithBackground(b bool) Option {
	return func(o *options) { o.background = b }
}

// New constructs a model by registry name.
//
// Parameter values are physical values and must be positive; they are
// converted to log space once, here.
func New(name string, opts ...Option) (*Model, error) {
	var o options
	for _, f := range opts {
		f(&o)
	}
	if name == MixedName {
		return newMixedByName(&o)
	}
	d, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	if o.c != nil {
		o.c(&d.Constants)
	}
	if err := validConstants(name, &d.Constants); err != nil {
		return nil, err
	}
	p := d.Defaults
	if o.params != nil {
		p = o.params
	}
	if name == "InterpConstants" && len(d.Constants.EBreaks) != len(d.ParamNames) {
		// custom breaks: one scale per break
		n := len(d.Constants.EBreaks)
		d.ParamNames = make([]string, n)
		for i := range d.ParamNames {
			d.ParamNames[i] = fmt.Sprintf("Scale_%d", i)
		}
		if o.params == nil {
			p = make([]float64, n)
			for i := range p {
				p[i] = 1
			}
		}
	}
	s, err := param.New(d.ParamNames, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if o.free != nil {
		if err := s.SetFree(o.free); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return &Model{
		Store:      s,
		name:       name,
		pretty:     name,
		c:          d.Constants,
		background: o.background,
		shape:      d.newShape(),
	}, nil
}

func validConstants(name string, c *Constants) error {
	switch {
	case !(c.E0 > 0):
		return fmt.Errorf("%s: %w: e0 = %g", name, param.ErrNonPositive, c.E0)
	case c.Emin < 0 || c.Emax < c.Emin:
		return fmt.Errorf("%s: %w: energy range [%g, %g]",
			name, param.ErrNonPositive, c.Emin, c.Emax)
	case name == "SmoothBrokenPowerLaw" && c.Beta == 0:
		return fmt.Errorf("%s: %w: beta = 0", name, ErrNotSupported)
	}
	for i := 1; i < len(c.EBreaks); i++ {
		if !(c.EBreaks[i] > c.EBreaks[i-1]) {
			return fmt.Errorf("%s: %w: energy breaks must increase",
				name, ErrNotSupported)
		}
	}
	if name == "InterpConstants" && len(c.EBreaks) < 2 {
		return fmt.Errorf("%s: %w: need at least two energy breaks",
			name, ErrNotSupported)
	}
	return nil
}

// Name returns the registry name of the variant.
func (m *Model) Name() string { return m.name }

// FullName returns a descriptive name including constants that matter.
func (m *Model) FullName() string {
	switch m.shape.(type) {
	case powerLaw:
		return fmt.Sprintf("%s, e0=%.0f", m.pretty, m.c.E0)
	case smoothBrokenPowerLaw:
		return fmt.Sprintf("%s, e0=%.0f, beta=%.3g", m.pretty, m.c.E0, m.c.Beta)
	}
	return m.pretty
}

// Constants returns a copy of the variant constants.
func (m *Model) Constants() Constants { return m.c.clone() }

// E0 returns the reference energy.
func (m *Model) E0() float64 { return m.c.E0 }

// Background reports whether the model is a background model.
func (m *Model) Background() bool { return m.background }

// Value returns dN/dE at energy e > 0.
func (m *Model) Value(e float64) float64 {
	return m.shape.value(&m.c, m.Linear(), e)
}

// Values evaluates the model element-wise.
func (m *Model) Values(e []float64) []float64 {
	p := m.Linear()
	v := make([]float64, len(e))
	for i, x := range e {
		v[i] = m.shape.value(&m.c, p, x)
	}
	return v
}

// Gradient returns analytic partial derivatives of dN/dE at e with respect
// to physical parameter values.  ok is false for variants without an
// analytic gradient; see GradientOrEstimate.
func (m *Model) Gradient(e float64) (g []float64, ok bool) {
	gs, ok := m.shape.(gradShape)
	if mx, isMixed := m.shape.(*mixed); isMixed {
		ok = mx.hasGradient()
	}
	if !ok {
		return nil, false
	}
	return gs.gradient(&m.c, m.Linear(), e), true
}

// Copy returns a deep copy.  Parameters, free mask, covariance and
// constants are all independent of m.
func (m *Model) Copy() *Model {
	c := *m
	c.Store = m.Store.Clone()
	c.c = m.c.clone()
	if mx, ok := m.shape.(*mixed); ok {
		c.shape = mx.clone()
	}
	return &c
}

// SetE0 moves the reference energy to e0p, rescaling the normalization
// so the function is unchanged.  The log space covariance is carried
// through the Jacobian of the change so derived errors are unchanged too.
func (m *Model) SetE0(e0p float64) error {
	es, ok := m.shape.(e0Shape)
	if !ok {
		return fmt.Errorf("%s: set e0: %w", m.name, ErrNotSupported)
	}
	if !(e0p > 0) {
		return fmt.Errorf("%s: %w: e0 = %g", m.name, param.ErrNonPositive, e0p)
	}
	lin := m.Linear()
	r := math.Log10(m.c.E0 / e0p)
	lp := m.LogParameters()
	lp[0] += es.normIndex(&m.c, lin) * r
	// dγ/dL1 = 10**L1 ln 10
	k := r * lin[1] * math.Ln10
	n := m.Len()
	j := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		j.Set(i, i, 1)
	}
	j.Set(0, 1, k)
	var jc, jcj mat.Dense
	jc.Mul(j, m.Covariance())
	jcj.Mul(&jc, j.T())
	cov := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			cov.SetSym(a, b, .5*(jcj.At(a, b)+jcj.At(b, a)))
		}
	}
	m.SetLogParameters(lp)
	m.SetFullCovariance(cov)
	m.c.E0 = e0p
	return nil
}

// PivotEnergy returns the energy at which normalization and index errors
// are uncorrelated.  Only PowerLaw supports it, and only after a fit.
func (m *Model) PivotEnergy() (float64, error) {
	if _, ok := m.shape.(powerLaw); !ok {
		return 0, fmt.Errorf("%s: pivot energy: %w", m.name, ErrNotSupported)
	}
	a := math.Pow(10, m.LogParameters()[0])
	c := m.CovarianceLinear(true)
	if c.At(1, 1) == 0 {
		return 0, fmt.Errorf("%s: pivot energy: %w", m.name, ErrFitRequired)
	}
	return m.c.E0 * math.Exp(c.At(0, 1)/(a*c.At(1, 1))), nil
}
