// Public domain.

package spectrum

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// FDStep is the finite difference step in log10 parameter space.
const FDStep = 1e-5

// fdSettings is central differences, (f(x+δ) - f(x-δ)) / 2δ, evaluated
// serially since the closure mutates a scratch model.
var fdSettings = fd.Settings{Formula: fd.Central, Step: FDStep}

// logGradient differentiates q with respect to every log parameter of m.
// q is evaluated on a deep copy; m is never modified.
func logGradient(m *Model, q func(*Model) float64) []float64 {
	w := m.Copy()
	f := func(x []float64) float64 {
		w.SetLogParameters(x)
		return q(w)
	}
	return fd.Gradient(nil, f, m.LogParameters(), &fdSettings)
}

// FluxGradient estimates derivatives of the integral flux with respect to
// all log space parameters of m.
//
// The estimate does not depend on analytic gradients, so it serves both as
// fallback and as a check on them.  A flux that fails to integrate gives
// NaN derivatives.
func FluxGradient(m *Model, emin, emax float64, o FluxOptions) []float64 {
	return logGradient(m, func(w *Model) float64 {
		v, err := w.integrate(emin, w.capEmax(emax), o.EnergyWeight, o.CGS)
		if err != nil {
			return math.NaN()
		}
		return v
	})
}

// ValueGradient estimates derivatives of dN/dE at e with respect to all log
// space parameters of m.
func ValueGradient(m *Model, e float64) []float64 {
	return logGradient(m, func(w *Model) float64 { return w.Value(e) })
}

// GradientOrEstimate returns partial derivatives of dN/dE at e with
// respect to physical parameter values, analytic if the variant has them,
// otherwise converted from ValueGradient.
func (m *Model) GradientOrEstimate(e float64) []float64 {
	if g, ok := m.Gradient(e); ok {
		return g
	}
	g := ValueGradient(m, e)
	// dF/dp = dF/dL / (p ln 10)
	for i, p := range m.Linear() {
		g[i] /= p * math.Ln10
	}
	return g
}
