// Public domain.

package spectrum

import (
	"errors"
	"fmt"
)

// Errors returned by this package.  Parameter errors come from package
// param: param.ErrNonPositive, param.ErrDimension, param.ErrNotFound.
var (
	ErrUnknownModel = errors.New("unknown spectral model")
	ErrNotSupported = errors.New("not supported for this model")
	ErrNumerical    = errors.New("numerical failure")
	ErrFitRequired  = errors.New("fit required")
)

// FluxError describes a flux that could not be computed.
//
// It wraps ErrNumerical.  A FluxError means "no flux estimate available"
// for one model; it is not a reason to abandon other work.
type FluxError struct {
	Quantity   string // "photon flux", "energy flux", ...
	Model      string
	Emin, Emax float64
	Err        error
}

func (e *FluxError) Error() string {
	return fmt.Sprintf("%s of %s over [%g, %g] MeV unavailable: %v",
		e.Quantity, e.Model, e.Emin, e.Emax, e.Err)
}

func (e *FluxError) Unwrap() error { return e.Err }
