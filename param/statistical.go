// Public domain.

package param

import "math"

// Statistical returns physical parameter values and symmetric errors.
//
// Errors are fractional unless absolute is true, in which case they are
// scaled by the parameter value.  If no covariance has been set, errors
// are zero.
func (s *Store) Statistical(absolute bool) (p, err []float64) {
	p = s.Linear()
	err = make([]float64, len(p))
	if !s.HasCovariance() {
		return
	}
	frac := s.CovarianceLinear(false)
	for i := range err {
		err[i] = math.Sqrt(frac.At(i, i))
		if absolute {
			err[i] *= p[i]
		}
	}
	return
}

// StatisticalTwoSided returns physical parameter values and asymmetric
// errors.
//
// Log space errors are applied in each direction and differenced from the
// central value, hi = 10**(L+σ) - p, lo = p - 10**(L-σ).  Errors are
// fractional unless absolute is true.  If no covariance has been set,
// errors are zero.
func (s *Store) StatisticalTwoSided(absolute bool) (p, hi, lo []float64) {
	p = s.Linear()
	hi = make([]float64, len(p))
	lo = make([]float64, len(p))
	if !s.HasCovariance() {
		return
	}
	for i, l := range s.p {
		sig := math.Sqrt(s.cov.At(i, i))
		hi[i] = math.Pow(10, l+sig) - p[i]
		lo[i] = p[i] - math.Pow(10, l-sig)
		if !absolute {
			hi[i] /= p[i]
			lo[i] /= p[i]
		}
	}
	return
}
