// Public domain.

package param

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Covariance returns a copy of the full log space covariance matrix.
func (s *Store) Covariance() *mat.SymDense {
	c := mat.NewSymDense(len(s.p), nil)
	c.CopySym(s.cov)
	return c
}

// SetFullCovariance replaces the full log space covariance matrix,
// frozen rows and columns included.
func (s *Store) SetFullCovariance(c mat.Symmetric) error {
	if n := c.SymmetricDim(); n != len(s.p) {
		return fmt.Errorf("%w: covariance is %dx%d, have %d parameters",
			ErrDimension, n, n, len(s.p))
	}
	s.cov.CopySym(c)
	return nil
}

// SetCovariance writes a free×free log space covariance matrix, as returned
// by a fitter, into the free rows and columns of the full matrix.  Frozen
// rows and columns keep their prior values, normally zero.
func (s *Store) SetCovariance(c mat.Symmetric) error {
	fx := s.freeIndexes()
	if n := c.SymmetricDim(); n != len(fx) {
		return fmt.Errorf("%w: covariance is %dx%d, have %d free parameters",
			ErrDimension, n, n, len(fx))
	}
	for a, i := range fx {
		for b := a; b < len(fx); b++ {
			s.cov.SetSym(i, fx[b], c.At(a, b))
		}
	}
	return nil
}

// FreeCovariance returns the free×free block of the log space covariance.
func (s *Store) FreeCovariance() *mat.SymDense {
	fx := s.freeIndexes()
	if len(fx) == 0 {
		return nil
	}
	c := mat.NewSymDense(len(fx), nil)
	for a, i := range fx {
		for b := a; b < len(fx); b++ {
			c.SetSym(a, b, s.cov.At(i, fx[b]))
		}
	}
	return c
}

// HasCovariance reports whether any covariance has been set.  An all zero
// matrix means no fit has been done.
func (s *Store) HasCovariance() bool {
	n := len(s.p)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if s.cov.At(i, j) != 0 {
				return true
			}
		}
	}
	return false
}

// CovarianceLinear returns the covariance transformed out of log space.
//
// With absolute true the result is the covariance of physical values,
// p_i p_j C_ij / log10(e)².  With absolute false the Jacobian factor p is
// replaced by 1, giving the fractional covariance.
func (s *Store) CovarianceLinear(absolute bool) *mat.SymDense {
	n := len(s.p)
	p := s.Linear()
	if !absolute {
		for i := range p {
			p[i] = 1
		}
	}
	jsq := log10e * log10e
	c := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c.SetSym(i, j, p[i]*s.cov.At(i, j)*p[j]/jsq)
		}
	}
	return c
}

// FreeErrors returns square roots of the log space covariance diagonal
// for free parameters.
func (s *Store) FreeErrors() []float64 {
	fx := s.freeIndexes()
	e := make([]float64, len(fx))
	for a, i := range fx {
		e[a] = math.Sqrt(s.cov.At(i, i))
	}
	return e
}

// CorrCoef returns linear correlation coefficients of the covariance.
// Rows and columns of parameters with zero variance are zero.
func (s *Store) CorrCoef() *mat.SymDense {
	n := len(s.p)
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = math.Sqrt(s.cov.At(i, i))
	}
	r := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if d := sig[i] * sig[j]; d > 0 {
				r.SetSym(i, j, s.cov.At(i, j)/d)
			}
		}
	}
	return r
}

func (s *Store) freeIndexes() []int {
	fx := make([]int, 0, len(s.free))
	for i, f := range s.free {
		if f {
			fx = append(fx, i)
		}
	}
	return fx
}
