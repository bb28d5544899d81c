// Public domain.

package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// minSimpson is the minimum number of Simpson's rule intervals.
const minSimpson = 16

// ExpectedCounts integrates dN/dE times exposure over [emin, emax].
//
// Exposure is in cm² s.  The integral is a fixed Simpson's rule on a log
// spaced grid of about 10 points per decade, at least 16 intervals.
//
// If weight is not nil the result is instead the count weighted average of
// weight, as used for example for average PSF parameters under the model.
func (m *Model) ExpectedCounts(emin, emax float64,
	exposure, weight func(e float64) float64) float64 {
	lemin, lemax := math.Log10(emin), math.Log10(emax)
	n := int(math.Round((lemax-lemin)/.1)) >> 1 << 1
	if n < minSimpson {
		n = minSimpson
	}
	e := floats.LogSpan(make([]float64, n+1), emin, emax)
	// dE = E d(ln E)
	h := math.Log(emax/emin) / float64(3*n)
	c := make([]float64, n+1)
	for i, x := range e {
		var k float64
		switch {
		case i == 0 || i == n:
			k = 1
		case i%2 == 1:
			k = 4
		default:
			k = 2
		}
		c[i] = k * x * h * exposure(x)
	}
	floats.Mul(c, m.Values(e))
	expec := floats.Sum(c)
	if weight == nil {
		return expec
	}
	w := make([]float64, n+1)
	for i, x := range e {
		w[i] = weight(x)
	}
	return floats.Dot(w, c) / expec
}
