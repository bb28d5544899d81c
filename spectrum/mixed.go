// Public domain.

package spectrum

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/soniakeys/pointspec/param"
)

// mixed is the shape of a composite model, the sum of simple models.
//
// The composite Store holds the concatenated parameter vector.  off[i] is
// the offset of part i in that vector, fixed at construction; evaluation
// hands each part its sub-range.  Parts' own stores are not consulted.
type mixed struct {
	parts []*Model
	off   []int
}

func (s *mixed) value(_ *Constants, p []float64, e float64) (v float64) {
	for i, m := range s.parts {
		v += m.shape.value(&m.c, p[s.off[i]:s.off[i]+m.Len()], e)
	}
	return
}

// gradient is the concatenation of part gradients.  It is only used when
// every part has one; see Model.Gradient.
func (s *mixed) gradient(_ *Constants, p []float64, e float64) []float64 {
	g := make([]float64, 0, len(p))
	for i, m := range s.parts {
		gs := m.shape.(gradShape)
		g = append(g, gs.gradient(&m.c, p[s.off[i]:s.off[i]+m.Len()], e)...)
	}
	return g
}

func (s *mixed) hasGradient() bool {
	for _, m := range s.parts {
		if _, ok := m.shape.(gradShape); !ok {
			return false
		}
	}
	return true
}

func (s *mixed) clone() *mixed {
	c := &mixed{
		parts: make([]*Model, len(s.parts)),
		off:   append([]int(nil), s.off...),
	}
	for i, m := range s.parts {
		c.parts[i] = m.Copy()
	}
	return c
}

// NewMixed constructs a composite model summing copies of parts.
//
// The composite starts with the parts' parameter values, free masks, and
// a block diagonal covariance of the parts' covariances.
func NewMixed(parts ...*Model) (*Model, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s: %w: no components", MixedName, param.ErrDimension)
	}
	s := &mixed{
		parts: make([]*Model, len(parts)),
		off:   make([]int, len(parts)),
	}
	var names, pretty []string
	var lin, logp []float64
	var free []bool
	for i, m := range parts {
		if _, ok := m.shape.(*mixed); ok {
			return nil, fmt.Errorf("%s: %w: nested composite", MixedName, ErrNotSupported)
		}
		s.parts[i] = m.Copy()
		s.off[i] = len(lin)
		names = append(names, m.Names()...)
		pretty = append(pretty, m.name)
		lin = append(lin, m.Linear()...)
		logp = append(logp, m.LogParameters()...)
		free = append(free, m.Free()...)
	}
	st, err := param.New(names, lin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MixedName, err)
	}
	// exact log values of the parts, not a round trip through 10**p
	st.SetLogParameters(logp)
	st.SetFree(free)
	cov := mat.NewSymDense(len(lin), nil)
	for i, m := range s.parts {
		pc := m.Covariance()
		for a := 0; a < m.Len(); a++ {
			for b := a; b < m.Len(); b++ {
				cov.SetSym(s.off[i]+a, s.off[i]+b, pc.At(a, b))
			}
		}
	}
	st.SetFullCovariance(cov)
	return &Model{
		Store:  st,
		name:   MixedName,
		pretty: strings.Join(pretty, "+"),
		c:      Constants{E0: defaultE0},
		shape:  s,
	}, nil
}

// newMixedByName builds parts from registry defaults, PowerLaw if none
// are named.
func newMixedByName(o *options) (*Model, error) {
	names := o.components
	if len(names) == 0 {
		names = []string{"PowerLaw"}
	}
	parts := make([]*Model, len(names))
	for i, n := range names {
		if n == MixedName {
			return nil, fmt.Errorf("%s: %w: nested composite", MixedName, ErrNotSupported)
		}
		var popts []Option
		if o.c != nil {
			popts = append(popts, withConstants(o.c))
		}
		p, err := New(n, popts...)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	m, err := NewMixed(parts...)
	if err != nil {
		return nil, err
	}
	if o.params != nil {
		lin, err := param.New(m.Names(), o.params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", MixedName, err)
		}
		m.SetLogParameters(lin.LogParameters())
	}
	if o.free != nil {
		if err := m.SetFree(o.free); err != nil {
			return nil, fmt.Errorf("%s: %w", MixedName, err)
		}
	}
	m.background = o.background
	return m, nil
}

// Components returns copies of the parts of a composite model, with
// parameters and covariance taken from the composite.  It returns nil for
// simple models.
func (m *Model) Components() []*Model {
	s, ok := m.shape.(*mixed)
	if !ok {
		return nil
	}
	lp := m.LogParameters()
	free := m.Free()
	cov := m.Covariance()
	c := make([]*Model, len(s.parts))
	for i, part := range s.parts {
		p := part.Copy()
		o, n := s.off[i], part.Len()
		p.SetLogParameters(lp[o : o+n])
		p.SetFree(free[o : o+n])
		pc := mat.NewSymDense(n, nil)
		for a := 0; a < n; a++ {
			for b := a; b < n; b++ {
				pc.SetSym(a, b, cov.At(o+a, o+b))
			}
		}
		p.SetFullCovariance(pc)
		c[i] = p
	}
	return c
}
