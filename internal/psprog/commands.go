// Public domain.

package psprog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soniakeys/pointspec/internal/psconf"
	"github.com/soniakeys/pointspec/spectrum"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List spectral models with parameter defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, n := range spectrum.Names() {
				d, ok := spectrum.Lookup(n)
				if !ok {
					fmt.Fprintf(w, "%-22s sum of named components\n", n)
					continue
				}
				p := make([]string, len(d.ParamNames))
				for i, pn := range d.ParamNames {
					p[i] = fmt.Sprintf("%s=%g", pn, d.Defaults[i])
				}
				fmt.Fprintf(w, "%-22s %s\n", n, strings.Join(p, " "))
			}
			return nil
		},
	}
}

func newEvalCommand() *cobra.Command {
	var (
		params []float64
		e0     float64
	)
	cmd := &cobra.Command{
		Use:   "eval <model> <energy>...",
		Short: "Evaluate a model at energies in MeV",
		Long: `Evaluate dN/dE, ph cm⁻² s⁻¹ MeV⁻¹, and E² dN/dE, MeV cm⁻² s⁻¹, of a
model at each energy given.  Parameters default to registry defaults.`,
		Example: `  pointspec eval PowerLaw 100 1000 1e4
  pointspec eval ExpCutoff --params 1e-11,1.5,3000 1000`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []spectrum.Option
			if len(params) > 0 {
				opts = append(opts, spectrum.WithParameters(params...))
			}
			if e0 > 0 {
				opts = append(opts, spectrum.WithE0(e0))
			}
			m, err := spectrum.New(args[0], opts...)
			if err != nil {
				return err
			}
			e := make([]float64, len(args)-1)
			for i, a := range args[1:] {
				if e[i], err = strconv.ParseFloat(a, 64); err != nil {
					return err
				}
				if !(e[i] > 0) {
					return fmt.Errorf("energy %s not positive", a)
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, m.FullName())
			fmt.Fprintf(w, "%12s %12s %12s\n", "E", "dN/dE", "E²dN/dE")
			for i, v := range m.Values(e) {
				fmt.Fprintf(w, "%12.5g %12.5g %12.5g\n", e[i], v, e[i]*e[i]*v)
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&params, "params", nil, "physical parameter values")
	cmd.Flags().Float64Var(&e0, "e0", 0, "reference energy, MeV")
	return cmd
}

// sourceModel builds the model of s, logging failure.
func sourceModel(s *psconf.Source) (*spectrum.Model, string, bool) {
	m, err := s.Model.Build()
	if err != nil {
		slog.Error("build model", "source", s.Name, "err", err)
		return nil, fmt.Sprintf("%-12s %v", s.Name, err), false
	}
	return m, "", true
}

func newShowCommand() *cobra.Command {
	var absolute bool
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Show source models with errors and derived fluxes",
		Long: `Show parameters of each source in a source file, with errors from the
fit covariance when present, and derived photon and energy flux.

Errors are fractional unless --absolute.  A source file looks like

  sources:
    - name: crab
      ra: 83.63
      dec: 22.01
      model:
        name: PowerLaw
        params: [2.7e-11, 2.2]
        free: [true, true]
        covariance: [[1e-4, 0], [0, 1e-5]]
  exposure:
    - uniform: 3e10

Model keys are name, params, free, e0, emin, emax, beta, index_offset,
breaks, components, background, covariance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := psconf.Read(args[0])
			if err != nil {
				return err
			}
			eachSource(cmd.OutOrStdout(), c, func(s *psconf.Source) string {
				m, msg, ok := sourceModel(s)
				if !ok {
					return msg
				}
				return fmt.Sprintf("%s  %s  %s\n  %s",
					s.Name, s.Dir(), m.FullName(), m.Format(absolute, "  "))
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&absolute, "absolute", false, "absolute rather than fractional errors")
	return cmd
}

func newFluxCommand() *cobra.Command {
	var (
		emin, emax float64
		energy     bool
		cgs        bool
		withErr    bool
		twoSided   bool
	)
	cmd := &cobra.Command{
		Use:   "flux <file>",
		Short: "Integral photon or energy flux of each source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := psconf.Read(args[0])
			if err != nil {
				return err
			}
			o := spectrum.FluxOptions{
				CGS:      cgs,
				Error:    withErr || twoSided,
				TwoSided: twoSided,
			}
			if energy {
				o.EnergyWeight = 1
			}
			eachSource(cmd.OutOrStdout(), c, func(s *psconf.Source) string {
				m, msg, ok := sourceModel(s)
				if !ok {
					return msg
				}
				f, err := m.IntegratedFlux(emin, emax, o)
				switch {
				case err != nil:
					slog.Warn("flux", "source", s.Name, "err", err)
					return fmt.Sprintf("%-12s unavailable", s.Name)
				case o.TwoSided:
					return fmt.Sprintf("%-12s %.4g +%.2g -%.2g", s.Name, f.Value, f.Hi, f.Lo)
				case o.Error:
					return fmt.Sprintf("%-12s %.4g ± %.2g", s.Name, f.Value, f.Err)
				}
				return fmt.Sprintf("%-12s %.4g", s.Name, f.Value)
			})
			return nil
		},
	}
	cmd.Flags().Float64Var(&emin, "emin", 100, "lower energy, MeV")
	cmd.Flags().Float64Var(&emax, "emax", math.Inf(1), "upper energy, MeV")
	cmd.Flags().BoolVar(&energy, "energy", false, "energy flux rather than photon flux")
	cmd.Flags().BoolVar(&cgs, "cgs", false, "energy flux in erg rather than MeV")
	cmd.Flags().BoolVar(&withErr, "error", false, "propagate covariance into an error")
	cmd.Flags().BoolVar(&twoSided, "two-sided", false, "asymmetric log-normal errors")
	return cmd
}

func newCountsCommand() *cobra.Command {
	var emin, emax float64
	cmd := &cobra.Command{
		Use:   "counts <file>",
		Short: "Expected counts of each source under the file's exposure",
		Long: `Expected counts are dN/dE times exposure integrated over [emin, emax].
The file must give exposure, one entry per event class.  A source with
a class uses that class, otherwise exposure of all classes is summed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := psconf.Read(args[0])
			if err != nil {
				return err
			}
			if len(c.Exposure) == 0 {
				return errors.New(args[0] + ": no exposure")
			}
			cl, err := c.Classes()
			if err != nil {
				return err
			}
			if !(emin > 0 && emax > emin) || math.IsInf(emax, 0) {
				return fmt.Errorf("invalid energy range [%g, %g]", emin, emax)
			}
			eachSource(cmd.OutOrStdout(), c, func(s *psconf.Source) string {
				m, msg, ok := sourceModel(s)
				if !ok {
					return msg
				}
				x, err := cl.At(s.EventClass(), s.Dir())
				if err != nil {
					slog.Error("exposure", "source", s.Name, "err", err)
					return fmt.Sprintf("%-12s %v", s.Name, err)
				}
				return fmt.Sprintf("%-12s %.1f", s.Name, m.ExpectedCounts(emin, emax, x, nil))
			})
			return nil
		},
	}
	cmd.Flags().Float64Var(&emin, "emin", 100, "lower energy, MeV")
	cmd.Flags().Float64Var(&emax, "emax", 3e5, "upper energy, MeV")
	return cmd
}

func newPivotCommand() *cobra.Command {
	var set bool
	cmd := &cobra.Command{
		Use:   "pivot <file>",
		Short: "Pivot energy of PowerLaw sources",
		Long: `The pivot energy is where normalization and index errors are
uncorrelated.  It needs a fit covariance.  With --set the model is moved
to its pivot energy and shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := psconf.Read(args[0])
			if err != nil {
				return err
			}
			eachSource(cmd.OutOrStdout(), c, func(s *psconf.Source) string {
				m, msg, ok := sourceModel(s)
				if !ok {
					return msg
				}
				ep, err := m.PivotEnergy()
				if err != nil {
					slog.Warn("pivot", "source", s.Name, "err", err)
					return fmt.Sprintf("%-12s unavailable", s.Name)
				}
				r := fmt.Sprintf("%-12s %.1f MeV", s.Name, ep)
				if !set {
					return r
				}
				if err := m.SetE0(ep); err != nil {
					return fmt.Sprintf("%s  %v", r, err)
				}
				return fmt.Sprintf("%s  %s\n  %s", r, m.FullName(), m.Format(false, "  "))
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&set, "set", false, "move e0 to the pivot energy")
	return cmd
}
