// Public domain.

package spectrum

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"gonum.org/v1/gonum/interp"
)

// Spectral indexes are absolute values: a PowerLaw with index 2 falls as
// E⁻².  Parameter slices hold physical values.

// nearOne is the tolerance for treating an index as exactly 1 where
// power law integrals degenerate to logs.
const nearOne = 1e-9

// powInt returns ∫ E**-g dE over [a, b].
func powInt(a, b, g float64) float64 {
	if math.Abs(1-g) < nearOne {
		return math.Log(b / a)
	}
	return (math.Pow(b, 1-g) - math.Pow(a, 1-g)) / (1 - g)
}

// PowerLaw: n0, gamma.
type powerLaw struct{}

func (powerLaw) value(c *Constants, p []float64, e float64) float64 {
	return p[0] * math.Pow(c.E0/e, p[1]-c.IndexOffset)
}

func (powerLaw) gradient(c *Constants, p []float64, e float64) []float64 {
	f := p[0] * math.Pow(c.E0/e, p[1]-c.IndexOffset)
	return []float64{f / p[0], f * math.Log(c.E0/e)}
}

func (powerLaw) fastFlux(c *Constants, p []float64, emin, emax float64) float64 {
	g := p[1] - c.IndexOffset
	return p[0] * math.Pow(c.E0, g) * powInt(emin, emax, g)
}

func (powerLaw) normIndex(c *Constants, p []float64) float64 {
	return p[1] - c.IndexOffset
}

// PowerLawFlux: integral flux over [Emin, Emax], gamma.
type powerLawFlux struct{}

func (powerLawFlux) value(c *Constants, p []float64, e float64) float64 {
	return p[0] / powInt(c.Emin, c.Emax, p[1]) * math.Pow(e, -p[1])
}

func (s powerLawFlux) gradient(c *Constants, p []float64, e float64) []float64 {
	flux, g := p[0], p[1]
	f := s.value(c, p, e)
	if math.Abs(1-g) < nearOne {
		// limit of the general expression as g -> 1
		mid := .5 * (math.Log(c.Emin) + math.Log(c.Emax))
		return []float64{f / flux, f * (mid - math.Log(e))}
	}
	d1 := math.Pow(c.Emax, 1-g)
	d0 := math.Pow(c.Emin, 1-g)
	t := (math.Log(c.Emin)*d0 - math.Log(c.Emax)*d1) / (d1 - d0)
	return []float64{f / flux, -f * (math.Log(e) + 1/(1-g) + t)}
}

func (powerLawFlux) fastFlux(c *Constants, p []float64, emin, emax float64) float64 {
	return p[0] * powInt(emin, emax, p[1]) / powInt(c.Emin, c.Emax, p[1])
}

// broken returns (eb/e)**g1 below the break, (eb/e)**g2 above.
func broken(g1, g2, eb, e float64) float64 {
	if e < eb {
		return math.Pow(eb/e, g1)
	}
	return math.Pow(eb/e, g2)
}

// BrokenPowerLaw: n0, gamma1, gamma2, e_break.
type brokenPowerLaw struct{}

func (brokenPowerLaw) value(c *Constants, p []float64, e float64) float64 {
	return p[0] * broken(p[1], p[2], p[3], e)
}

// BrokenPowerLawFlux: integral flux over [Emin, Emax], gamma1, gamma2,
// e_break.
type brokenPowerLawFlux struct{}

func (brokenPowerLawFlux) value(c *Constants, p []float64, e float64) float64 {
	flux, g1, g2, eb := p[0], p[1], p[2], p[3]
	var norm float64
	switch {
	case c.Emax < eb:
		norm = 1 / (math.Pow(eb, g1) * powInt(c.Emin, c.Emax, g1))
	case c.Emin > eb:
		norm = 1 / (math.Pow(eb, g2) * powInt(c.Emin, c.Emax, g2))
	default:
		norm = 1 / (math.Pow(eb, g1)*powInt(c.Emin, eb, g1) +
			math.Pow(eb, g2)*powInt(eb, c.Emax, g2))
	}
	return flux * norm * broken(g1, g2, eb, e)
}

// BrokenPowerLawCutoff: n0, gamma1, gamma2, e_break, cutoff.
type brokenPowerLawCutoff struct{}

func (brokenPowerLawCutoff) value(c *Constants, p []float64, e float64) float64 {
	return p[0] * broken(p[1], p[2], p[3], e) * math.Exp(-e/p[4])
}

// SmoothBrokenPowerLaw: n0, gamma1, gamma2, e_break.
//
// Index gamma1 below the break turns smoothly to gamma2 above, with
// Constants.Beta setting the width of the turn.  Beta is not fit.  For
// beta > 0 the spectrum always softens above the break, for beta < 0 it
// always hardens.
type smoothBrokenPowerLaw struct{}

func (smoothBrokenPowerLaw) value(c *Constants, p []float64, e float64) float64 {
	n0, g1, g2, eb := p[0], p[1], p[2], p[3]
	return n0 * math.Pow(c.E0/e, g1) *
		math.Pow(1+math.Pow(eb/e, (g1-g2)/c.Beta), -c.Beta)
}

// derivatives of log(dN/dE).  cross terms couple both indexes and the
// break.
func (s smoothBrokenPowerLaw) gradient(c *Constants, p []float64, e float64) []float64 {
	n0, g1, g2, eb := p[0], p[1], p[2], p[3]
	f := s.value(c, p, e)
	bottom := 1 + math.Pow(eb/e, -(g1-g2)/c.Beta)
	lb := math.Log(eb / e)
	return []float64{
		f / n0,
		f * (math.Log(c.E0/e) - lb/bottom),
		f * lb / bottom,
		-f * (g1 - g2) / eb / bottom,
	}
}

func (smoothBrokenPowerLaw) normIndex(c *Constants, p []float64) float64 {
	return p[1]
}

// DoublePowerLaw: n0, gamma1, gamma2, ratio.  Ratio is of the second
// component to the first at e0.
type doublePowerLaw struct{}

func (doublePowerLaw) value(c *Constants, p []float64, e float64) float64 {
	x := c.E0 / e
	return p[0] * (math.Pow(x, p[1]) + p[3]*math.Pow(x, p[2]))
}

// DoublePowerLawCutoff: n0, gamma1, gamma2, cutoff, ratio.  The cutoff
// applies to the first component.
type doublePowerLawCutoff struct{}

func (doublePowerLawCutoff) value(c *Constants, p []float64, e float64) float64 {
	x := c.E0 / e
	return p[0] * (math.Pow(x, p[1])*math.Exp(-e/p[3]) + p[4]*math.Pow(x, p[2]))
}

// LogParabola: n0, alpha, beta, e_break.
//
// log(dN/dE / n0) = alpha L - beta L², L = log(e_break/E).
type logParabola struct{}

func (logParabola) value(c *Constants, p []float64, e float64) float64 {
	l := math.Log(p[3] / e)
	return p[0] * math.Exp(base.Horner(l, 0, p[1], -p[2]))
}

func (s logParabola) gradient(c *Constants, p []float64, e float64) []float64 {
	alpha, beta, eb := p[1], p[2], p[3]
	f := s.value(c, p, e)
	l := math.Log(eb / e)
	return []float64{f / p[0], f * l, -f * l * l, f * (alpha - 2*beta*l) / eb}
}

// ExpCutoff: n0, gamma, cutoff.
type expCutoff struct{}

func (expCutoff) value(c *Constants, p []float64, e float64) float64 {
	return p[0] * math.Pow(c.E0/e, p[1]) * math.Exp(-e/p[2])
}

func (s expCutoff) gradient(c *Constants, p []float64, e float64) []float64 {
	f := s.value(c, p, e)
	return []float64{f / p[0], f * math.Log(c.E0/e), f * e / (p[2] * p[2])}
}

func (expCutoff) normIndex(c *Constants, p []float64) float64 { return p[1] }

// ExpCutoffPlusPL: n0_1, gamma_1, cutoff_1, n0_2, gamma_2.  A cutoff
// power law plus an independent power law, as pulsar plus nebula.
type expCutoffPlusPL struct{}

func (expCutoffPlusPL) value(c *Constants, p []float64, e float64) float64 {
	x := c.E0 / e
	return p[0]*math.Pow(x, p[1])*math.Exp(-e/p[2]) + p[3]*math.Pow(x, p[4])
}

// AllCutoff: n0, cutoff.  For cutoffs too low to constrain an index.
type allCutoff struct{}

func (allCutoff) value(c *Constants, p []float64, e float64) float64 {
	if p[1] < 0 {
		return 0
	}
	return p[0] * math.Exp(-e/p[1])
}

// PLSuperExpCutoff: n0, gamma, cutoff, b.
type plSuperExpCutoff struct{}

func (plSuperExpCutoff) value(c *Constants, p []float64, e float64) float64 {
	return p[0] * math.Pow(c.E0/e, p[1]) * math.Exp(-math.Pow(e/p[2], p[3]))
}

func (s plSuperExpCutoff) gradient(c *Constants, p []float64, e float64) []float64 {
	cut, b := p[2], p[3]
	f := s.value(c, p, e)
	xb := math.Pow(e/cut, b)
	return []float64{
		f / p[0],
		f * math.Log(c.E0/e),
		f * (b / cut) * xb,
		f * xb * math.Log(cut/e),
	}
}

func (plSuperExpCutoff) normIndex(c *Constants, p []float64) float64 { return p[1] }

// Constant: scale, independent of energy.
type constant struct{}

func (constant) value(c *Constants, p []float64, e float64) float64 { return p[0] }

func (constant) gradient(c *Constants, p []float64, e float64) []float64 {
	return []float64{1}
}

func (constant) fastFlux(c *Constants, p []float64, emin, emax float64) float64 {
	return (emax - emin) * p[0]
}

// InterpConstants: one scale per break energy, interpolated linearly in
// log energy.  Outside the breaks the end values hold.
type interpConstants struct{}

func (interpConstants) value(c *Constants, p []float64, e float64) float64 {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(c.EBreaks, p); err != nil {
		return math.NaN()
	}
	x := math.Log10(e)
	x = math.Max(c.EBreaks[0], math.Min(x, c.EBreaks[len(c.EBreaks)-1]))
	return pl.Predict(x)
}
