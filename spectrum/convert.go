// Public domain.

package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToSuperExpCutoff converts an ExpCutoff model to an equivalent
// PLSuperExpCutoff with exponent b = 1, frozen.
//
// The covariance of the original parameters is kept; b gets zero rows
// and columns.
func ToSuperExpCutoff(m *Model) (*Model, error) {
	if m.name != "ExpCutoff" {
		return nil, fmt.Errorf("can't convert %s to PLSuperExpCutoff: %w",
			m.name, ErrNotSupported)
	}
	lin := append(m.Linear(), 1)
	nm, err := New("PLSuperExpCutoff",
		WithParameters(lin...),
		WithFree(append(m.Free(), false)...),
		WithE0(m.c.E0),
		WithBackground(m.background))
	if err != nil {
		return nil, err
	}
	lp := append(m.LogParameters(), 0)
	nm.SetLogParameters(lp)
	n := m.Len()
	cov := mat.NewSymDense(n+1, nil)
	c := m.Covariance()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, c.At(i, j))
		}
	}
	nm.SetFullCovariance(cov)
	return nm, nil
}
