// Public domain.

package spectrum

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// display range for derived fluxes, MeV
const (
	displayEmin     = 100.
	displayEnergyHi = 3e5
)

// String formats parameters with fractional errors.
func (m *Model) String() string { return m.Format(false, "") }

// Format returns parameter values and errors, one per line, as given by
// StatisticalTwoSided.  Lines after the first are prefixed with indent.
//
// Unless the model is a background model, photon and energy flux in cgs
// units follow as derived values.  A flux that can not be computed is
// shown as unavailable.
func (m *Model) Format(absolute bool, indent string) string {
	p, hi, lo := m.StatisticalTwoSided(absolute)
	names := m.Names()
	free := m.Free()
	np := len(p)
	if !m.background {
		f, e := m.derivedFluxes(absolute)
		p = append(p, f.Value, e.Value)
		hi = append(hi, math.Abs(f.Hi), math.Abs(e.Hi))
		lo = append(lo, math.Abs(f.Lo), math.Abs(e.Lo))
		names = append(names, "Ph. Flux", "En. Flux")
	}
	hasErrors := false
	for _, x := range lo[:np] {
		if x != 0 {
			hasErrors = true
		}
	}
	l := make([]string, len(names))
	for i, name := range names {
		tag := ""
		switch {
		case i >= np:
			tag = "(DERIVED)"
		case !free[i]:
			tag = "(FROZEN)"
		}
		n := fmt.Sprintf("%-10s", name)
		switch {
		case math.IsNaN(p[i]) || math.IsInf(p[i], 0):
			l[i] = fmt.Sprintf("%s: unavailable %s", n, tag)
		case !hasErrors:
			l[i] = fmt.Sprintf("%s: %.3g %s", n, p[i], tag)
		case absolute:
			l[i] = fmt.Sprintf("%s: %.3g + %.3g - %.3g (avg = %.3g) %s",
				n, p[i], hi[i], lo[i], math.Sqrt(hi[i]*lo[i]), tag)
		default:
			h, lw := math.Max(0, hi[i]), math.Max(0, lo[i])
			if h > 1e2 || lw > 1e2 {
				h, lw = 0, 0
				tag = "(Failed fit)"
			}
			avg := math.Sqrt(h * lw)
			if math.IsNaN(h) || math.IsNaN(lw) || math.IsNaN(avg) {
				h, lw, avg = 0, 0, 0
			}
			l[i] = fmt.Sprintf("%s: (1 + %.3f - %.3f) (avg = %.3f) %-10.3g %s",
				n, h, lw, avg, p[i], tag)
		}
	}
	return strings.Join(l, "\n"+indent)
}

// derivedFluxes returns photon and energy flux for display.  Failures are
// logged and returned as NaN values.
func (m *Model) derivedFluxes(absolute bool) (f, e Flux) {
	get := func(emax float64, o FluxOptions) Flux {
		r, err := m.IntegratedFlux(displayEmin, emax, o)
		if err != nil {
			slog.Warn("derived flux", "err", err)
			return Flux{Value: math.NaN()}
		}
		if o.Error && !absolute {
			r.Hi /= r.Value
			r.Lo /= r.Value
		}
		return r
	}
	inf := math.Inf(1)
	if !m.HasCovariance() {
		return get(inf, FluxOptions{CGS: true}),
			get(displayEnergyHi, FluxOptions{EnergyWeight: 1, CGS: true})
	}
	return get(inf, FluxOptions{CGS: true, Error: true, TwoSided: true}),
		get(displayEnergyHi, FluxOptions{EnergyWeight: 1, CGS: true, Error: true, TwoSided: true})
}
