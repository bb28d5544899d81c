// Public domain.

package spectrum

import (
	"math"
	"sort"
)

// Constants are variant specific values that are not fit.
type Constants struct {
	E0          float64   // reference energy, MeV
	Emin, Emax  float64   // integral flux range of flux normalized variants
	Beta        float64   // smoothing of SmoothBrokenPowerLaw
	IndexOffset float64   // subtracted from the PowerLaw index
	EBreaks     []float64 // log10 energies of InterpConstants
}

func (c Constants) clone() Constants {
	c.EBreaks = append([]float64(nil), c.EBreaks...)
	return c
}

// Descriptor is a registry entry for a model variant.
type Descriptor struct {
	Name       string
	Defaults   []float64 // physical values
	ParamNames []string
	Constants  Constants
	newShape   func() shape
}

// MixedName is the registry name of the composite model.
const MixedName = "MixedModel"

// defaultE0 is the reference energy for all variants.
const defaultE0 = 1000.

// registry is read only after package initialization.
var registry = map[string]Descriptor{}

func init() {
	for _, d := range []Descriptor{
		{"PowerLaw", []float64{1e-11, 2}, []string{"Norm", "Index"},
			Constants{}, func() shape { return powerLaw{} }},
		{"PowerLawFlux", []float64{1e-7, 2}, []string{"Int_Flux", "Index"},
			Constants{Emin: 100, Emax: 1e6}, func() shape { return powerLawFlux{} }},
		{"BrokenPowerLaw", []float64{1e-11, 2, 2, 1e3},
			[]string{"Norm", "Index_1", "Index_2", "E_break"},
			Constants{}, func() shape { return brokenPowerLaw{} }},
		{"BrokenPowerLawFlux", []float64{1e-7, 2, 2, 1e3},
			[]string{"Int_Flux", "Index_1", "Index_2", "E_break"},
			Constants{Emin: 100, Emax: 1e6}, func() shape { return brokenPowerLawFlux{} }},
		{"BrokenPowerLawCutoff", []float64{1e-11, 2, 2, 1e3, 3e3},
			[]string{"Norm", "Index_1", "Index_2", "E_break", "Cutoff"},
			Constants{}, func() shape { return brokenPowerLawCutoff{} }},
		{"SmoothBrokenPowerLaw", []float64{1e-11, 2, 2, 1e3},
			[]string{"Norm", "Index_1", "Index_2", "E_break"},
			Constants{Beta: .1}, func() shape { return smoothBrokenPowerLaw{} }},
		{"DoublePowerLaw", []float64{5e-12, 2, 2, 1},
			[]string{"Norm", "Index_1", "Index_2", "Ratio"},
			Constants{}, func() shape { return doublePowerLaw{} }},
		{"DoublePowerLawCutoff", []float64{5e-12, 2, 2, 1e3, 1},
			[]string{"Norm", "Index_1", "Index_2", "Cutoff", "Ratio"},
			Constants{}, func() shape { return doublePowerLawCutoff{} }},
		{"LogParabola", []float64{1e-11, 2, 1e-5, 2e3},
			[]string{"Norm", "Index", "beta", "E_break"},
			Constants{}, func() shape { return logParabola{} }},
		{"ExpCutoff", []float64{1e-11, 2, 2e3},
			[]string{"Norm", "Index", "Cutoff"},
			Constants{}, func() shape { return expCutoff{} }},
		{"ExpCutoffPlusPL", []float64{1e-11, 2, 2e3, 1e-12, 1.5},
			[]string{"Norm1", "Index1", "Cutoff1", "Norm2", "Index2"},
			Constants{}, func() shape { return expCutoffPlusPL{} }},
		{"AllCutoff", []float64{1e-11, 1e3}, []string{"Norm", "Cutoff"},
			Constants{}, func() shape { return allCutoff{} }},
		{"PLSuperExpCutoff", []float64{1e-11, 2, 2e3, 1},
			[]string{"Norm", "Index", "Cutoff", "b"},
			Constants{}, func() shape { return plSuperExpCutoff{} }},
		{"Constant", []float64{1}, []string{"Scale"},
			Constants{}, func() shape { return constant{} }},
		{"InterpConstants", []float64{1, 1, 1, 1, 1},
			[]string{"Scale_0", "Scale_1", "Scale_2", "Scale_3", "Scale_4"},
			Constants{EBreaks: []float64{
				2, math.Log10(300), 3, math.Log10(3000), math.Log10(3e5)}},
			func() shape { return interpConstants{} }},
	} {
		d.Constants.E0 = defaultE0
		registry[d.Name] = d
	}
}

// Names returns registered variant names, sorted, including MixedName.
func Names() []string {
	n := make([]string, 0, len(registry)+1)
	for k := range registry {
		n = append(n, k)
	}
	n = append(n, MixedName)
	sort.Strings(n)
	return n
}

// Lookup returns a copy of the registry entry for a simple variant.
// MixedName has no fixed descriptor and is not found.
func Lookup(name string) (Descriptor, bool) {
	d, ok := registry[name]
	if !ok {
		return Descriptor{}, false
	}
	d.Defaults = append([]float64(nil), d.Defaults...)
	d.ParamNames = append([]string(nil), d.ParamNames...)
	d.Constants = d.Constants.clone()
	return d, true
}
