// Public domain.

// Package quad does adaptive numerical integration.
//
// Panels are integrated with Gauss-Legendre rules of two orders; the
// difference is the panel error estimate.  The panel with the largest
// error is bisected until the total error meets tolerance or the panel
// limit is reached.
package quad

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// ErrNonFinite is returned when the integrand or the result is NaN or Inf.
var ErrNonFinite = errors.New("non-finite integral")

// rule orders.  the higher order result is kept.
const (
	loOrder = 10
	hiOrder = 21
)

// Settings control convergence.  Integration stops when the error estimate
// is within either tolerance.  A nil *Settings selects tolerances of
// 1.49e-8; a zero Limit selects 50 panels.
type Settings struct {
	AbsTol float64
	RelTol float64
	Limit  int // maximum panels
}

// Result is the value of an integral with its error estimate.
type Result struct {
	Value     float64
	AbsErr    float64
	Panels    int
	Converged bool // false if Limit was reached first
}

type panel struct {
	a, b     float64
	val, err float64
}

// Adaptive integrates f over [a, b].
//
// b may be +Inf, in which case the interval is mapped to [0, 1) with
// x = a·exp(t/(1-t)) for a > 0, which turns power law tails into
// exponential ones, or with x = a + t/(1-t) otherwise.  If b < a the result is negated.  Failure to
// converge within the panel limit is not an error; Result.Converged
// reports it.
func Adaptive(f func(float64) float64, a, b float64, s *Settings) (Result, error) {
	cfg := Settings{AbsTol: 1.49e-8, RelTol: 1.49e-8, Limit: 50}
	if s != nil {
		cfg = *s
		if cfg.Limit <= 0 {
			cfg.Limit = 50
		}
	}
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return Result{}, fmt.Errorf("%w: NaN limit", ErrNonFinite)
	case a == b:
		return Result{Converged: true}, nil
	case b < a:
		r, err := Adaptive(f, b, a, &cfg)
		r.Value = -r.Value
		return r, err
	case math.IsInf(a, -1):
		return Result{}, fmt.Errorf("%w: infinite lower limit", ErrNonFinite)
	case math.IsInf(b, 1):
		// the integrand vanishes at t = 1 where x reaches +Inf
		g := func(t float64) float64 {
			u := 1 - t
			x := a + t/u
			if u == 0 || math.IsInf(x, 1) {
				return 0
			}
			return f(x) / (u * u)
		}
		if a > 0 {
			g = func(t float64) float64 {
				u := 1 - t
				x := a * math.Exp(t/u)
				if u == 0 || math.IsInf(x, 1) {
					return 0
				}
				return f(x) * x / (u * u)
			}
		}
		return adapt(g, 0, 1, cfg)
	}
	return adapt(f, a, b, cfg)
}

func adapt(f func(float64) float64, a, b float64, cfg Settings) (Result, error) {
	ps := []panel{newPanel(f, a, b)}
	for {
		var r Result
		worst := 0
		for i, p := range ps {
			r.Value += p.val
			r.AbsErr += p.err
			if p.err > ps[worst].err {
				worst = i
			}
		}
		r.Panels = len(ps)
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || math.IsNaN(r.AbsErr) {
			return r, fmt.Errorf("%w: over [%g, %g]", ErrNonFinite, a, b)
		}
		if r.AbsErr <= math.Max(cfg.AbsTol, cfg.RelTol*math.Abs(r.Value)) {
			r.Converged = true
			return r, nil
		}
		if len(ps) >= cfg.Limit {
			return r, nil
		}
		w := ps[worst]
		m := .5 * (w.a + w.b)
		if m <= w.a || m >= w.b {
			// panel can't be split further in float64
			return r, nil
		}
		ps[worst] = newPanel(f, w.a, m)
		ps = append(ps, newPanel(f, m, w.b))
	}
}

func newPanel(f func(float64) float64, a, b float64) panel {
	lo := quad.Fixed(f, a, b, loOrder, quad.Legendre{}, 0)
	hi := quad.Fixed(f, a, b, hiOrder, quad.Legendre{}, 0)
	return panel{a: a, b: b, val: hi, err: math.Abs(hi - lo)}
}
