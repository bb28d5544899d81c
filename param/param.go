// Public domain.

// Package param holds spectral model parameters.
//
// Parameters are stored as base 10 logarithms of their physical values.
// This allows unconstrained minimization of naturally positive parameters
// by an external fitter.  Alongside the log values a Store keeps a mask of
// free parameters and a covariance matrix, also in log space.
package param

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by Store methods.  They are wrapped with detail, test
// with errors.Is.
var (
	ErrNonPositive = errors.New("parameter must be positive")
	ErrDimension   = errors.New("dimension mismatch")
	ErrNotFound    = errors.New("parameter not found")
)

// log10(e), the factor relating natural and base 10 log space.
var log10e = math.Log10(math.E)

// Store is a parameter vector in log space with free mask and covariance.
type Store struct {
	names []string
	p     []float64 // log10 of physical values
	free  []bool
	cov   *mat.SymDense // log space, full size
}

// New validates physical values and returns a Store holding their logs.
//
// All parameters start free and the covariance starts at zero, meaning
// no fit has been done.  len(names) must equal len(values).
func New(names []string, values []float64) (*Store, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: %d names, %d values",
			ErrDimension, len(names), len(values))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no parameters", ErrDimension)
	}
	s := &Store{
		names: append([]string{}, names...),
		p:     make([]float64, len(values)),
		free:  make([]bool, len(values)),
		cov:   mat.NewSymDense(len(values), nil),
	}
	for i, v := range values {
		// NaN fails this test too
		if !(v > 0) {
			return nil, fmt.Errorf("%w: %s = %g", ErrNonPositive, names[i], v)
		}
		s.p[i] = math.Log10(v)
		s.free[i] = true
	}
	return s, nil
}

// Len returns the number of parameters.
func (s *Store) Len() int { return len(s.p) }

// Names returns parameter names in order.
func (s *Store) Names() []string { return append([]string{}, s.names...) }

// Index resolves a parameter name to its index, first match.
func (s *Store) Index(name string) (int, error) {
	for i, n := range s.names {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// LogParameters returns a copy of all parameters in log space.
func (s *Store) LogParameters() []float64 { return append([]float64{}, s.p...) }

// SetLogParameters replaces all parameters with log space values.
func (s *Store) SetLogParameters(v []float64) error {
	if len(v) != len(s.p) {
		return fmt.Errorf("%w: have %d parameters, got %d",
			ErrDimension, len(s.p), len(v))
	}
	copy(s.p, v)
	return nil
}

// Linear returns physical parameter values, 10**p.
func (s *Store) Linear() []float64 {
	l := make([]float64, len(s.p))
	for i, p := range s.p {
		l[i] = math.Pow(10, p)
	}
	return l
}

// Free returns a copy of the free mask.
func (s *Store) Free() []bool { return append([]bool{}, s.free...) }

// NumFree returns the count of free parameters.
func (s *Store) NumFree() (n int) {
	for _, f := range s.free {
		if f {
			n++
		}
	}
	return
}

// SetFree replaces the free mask.
func (s *Store) SetFree(mask []bool) error {
	if len(mask) != len(s.free) {
		return fmt.Errorf("%w: have %d parameters, mask has %d",
			ErrDimension, len(s.free), len(mask))
	}
	copy(s.free, mask)
	return nil
}

// FreeParameters returns, in parameter order, the log values of free
// parameters.  This is what a fitter varies.
func (s *Store) FreeParameters() []float64 {
	v := make([]float64, 0, len(s.p))
	for i, p := range s.p {
		if s.free[i] {
			v = append(v, p)
		}
	}
	return v
}

// SetFreeParameters writes log values into the free positions.
// len(v) must equal NumFree.
func (s *Store) SetFreeParameters(v []float64) error {
	if n := s.NumFree(); len(v) != n {
		return fmt.Errorf("%w: %d free parameters, got %d",
			ErrDimension, n, len(v))
	}
	j := 0
	for i := range s.p {
		if s.free[i] {
			s.p[i] = v[j]
			j++
		}
	}
	return nil
}

// Freeze freezes (frozen = true) or frees the named parameter.
func (s *Store) Freeze(name string, frozen bool) error {
	i, err := s.Index(name)
	if err != nil {
		return err
	}
	return s.FreezeIndex(i, frozen)
}

// FreezeIndex freezes or frees parameter i.
func (s *Store) FreezeIndex(i int, frozen bool) error {
	if i < 0 || i >= len(s.free) {
		return fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(s.free))
	}
	s.free[i] = !frozen
	return nil
}

// Thaw frees the named parameter.
func (s *Store) Thaw(name string) error { return s.Freeze(name, false) }

// ThawIndex frees parameter i.
func (s *Store) ThawIndex(i int) error { return s.FreezeIndex(i, false) }

// Clone returns a deep copy.  Nothing is shared with s.
func (s *Store) Clone() *Store {
	c := &Store{
		names: append([]string{}, s.names...),
		p:     append([]float64{}, s.p...),
		free:  append([]bool{}, s.free...),
		cov:   mat.NewSymDense(len(s.p), nil),
	}
	c.cov.CopySym(s.cov)
	return c
}
