// Public domain.

// Package psconf reads point source description files.
//
// A file lists sources, each with a position and a spectral model, and
// optionally the exposure to use for expected counts:
//
//	sources:
//	  - name: crab
//	    ra: 83.63
//	    dec: 22.01
//	    model:
//	      name: PowerLaw
//	      params: [2.7e-11, 2.2]
//	      covariance: [[1e-4, 0], [0, 1e-5]]
//	exposure:
//	  - uniform: 3e10
//
// Values are physical, energies in MeV.  Covariance is the full log10
// space matrix.
package psconf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/soniakeys/pointspec/exposure"
	"github.com/soniakeys/pointspec/param"
	"github.com/soniakeys/pointspec/spectrum"
)

var ErrConfig = errors.New("invalid source file")

var validate = validator.New()

// File is the top level of a source file.
type File struct {
	Sources  []Source   `yaml:"sources" validate:"required,min=1,dive"`
	Exposure []Exposure `yaml:"exposure" validate:"omitempty,dive"`
}

// Source is a point source.
type Source struct {
	Name  string  `yaml:"name" validate:"required"`
	RA    float64 `yaml:"ra" validate:"gte=0,lt=360"`   // degrees
	Dec   float64 `yaml:"dec" validate:"gte=-90,lte=90"` // degrees
	Class *int    `yaml:"class"`                         // event class, nil for all
	Model Model   `yaml:"model"`
}

// Model describes a spectral model.  Zero values select registry
// defaults.
type Model struct {
	Name        string      `yaml:"name" validate:"required"`
	Params      []float64   `yaml:"params" validate:"omitempty,dive,gt=0"`
	Free        []bool      `yaml:"free"`
	E0          float64     `yaml:"e0" validate:"omitempty,gt=0"`
	Emin        float64     `yaml:"emin" validate:"omitempty,gt=0"`
	Emax        float64     `yaml:"emax" validate:"omitempty,gtfield=Emin"`
	Beta        float64     `yaml:"beta"`
	IndexOffset float64     `yaml:"index_offset"`
	Breaks      []float64   `yaml:"breaks" validate:"omitempty,min=2,dive,gt=0"`
	Components  []string    `yaml:"components" validate:"omitempty,dive,required"`
	Background  bool        `yaml:"background"`
	Covariance  [][]float64 `yaml:"covariance"`
}

// Exposure is exposure for one event class, either uniform or from an
// effective area table.
type Exposure struct {
	Uniform float64 `yaml:"uniform" validate:"omitempty,gt=0"` // cm² s
	Table   *Table  `yaml:"table" validate:"omitempty"`
}

// Table is an effective area table.
type Table struct {
	RA       float64   `yaml:"ra" validate:"gte=0,lt=360"`
	Dec      float64   `yaml:"dec" validate:"gte=-90,lte=90"`
	FOV      float64   `yaml:"fov" validate:"gt=0,lte=180"` // radius, degrees
	Livetime float64   `yaml:"livetime" validate:"gt=0"`    // s
	Energies []float64 `yaml:"energies" validate:"min=2,dive,gt=0"`
	Areas    []float64 `yaml:"areas" validate:"min=2,dive,gt=0"`
}

// Read reads and validates a source file.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates source file content.  Unknown keys are
// errors.
func Parse(r io.Reader) (*File, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	var c File
	if err := d.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for i, x := range c.Exposure {
		if (x.Uniform > 0) == (x.Table != nil) {
			return nil, fmt.Errorf("%w: exposure %d: need one of uniform or table",
				ErrConfig, i)
		}
	}
	return &c, nil
}

// Dir returns the source position.
func (s *Source) Dir() exposure.SkyDir {
	return exposure.NewSkyDir(s.RA, s.Dec)
}

// EventClass returns the configured class, -1 for all classes.
func (s *Source) EventClass() int {
	if s.Class == nil {
		return -1
	}
	return *s.Class
}

// Build constructs the spectral model.
func (m *Model) Build() (*spectrum.Model, error) {
	var opts []spectrum.Option
	if len(m.Params) > 0 {
		opts = append(opts, spectrum.WithParameters(m.Params...))
	}
	if len(m.Free) > 0 {
		opts = append(opts, spectrum.WithFree(m.Free...))
	}
	if m.E0 > 0 {
		opts = append(opts, spectrum.WithE0(m.E0))
	}
	if m.Emax > 0 {
		if !(m.Emin > 0) {
			return nil, fmt.Errorf("%w: %s: emax without emin", ErrConfig, m.Name)
		}
		opts = append(opts, spectrum.WithEnergyRange(m.Emin, m.Emax))
	}
	if m.Beta != 0 {
		opts = append(opts, spectrum.WithBeta(m.Beta))
	}
	if m.IndexOffset != 0 {
		opts = append(opts, spectrum.WithIndexOffset(m.IndexOffset))
	}
	if len(m.Breaks) > 0 {
		opts = append(opts, spectrum.WithEnergyBreaks(m.Breaks...))
	}
	if len(m.Components) > 0 {
		opts = append(opts, spectrum.WithComponents(m.Components...))
	}
	opts = append(opts, spectrum.WithBackground(m.Background))
	sm, err := spectrum.New(m.Name, opts...)
	if err != nil {
		return nil, err
	}
	if len(m.Covariance) == 0 {
		return sm, nil
	}
	n := len(m.Covariance)
	for i, row := range m.Covariance {
		if len(row) != n {
			return nil, fmt.Errorf("%s covariance row %d: %w: %d columns, want %d",
				m.Name, i, param.ErrDimension, len(row), n)
		}
	}
	cov := mat.NewSymDense(n, nil)
	for i, row := range m.Covariance {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, .5*(row[j]+m.Covariance[j][i]))
		}
	}
	if err := sm.SetFullCovariance(cov); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return sm, nil
}

// Map constructs the exposure map.
func (x *Exposure) Map() (exposure.Map, error) {
	if x.Table == nil {
		return exposure.Uniform(x.Uniform), nil
	}
	t := x.Table
	m, err := exposure.NewTabulated(exposure.NewSkyDir(t.RA, t.Dec),
		unit.AngleFromDeg(t.FOV), t.Livetime, t.Energies, t.Areas)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Classes constructs exposure maps for all event classes.
func (c *File) Classes() (exposure.Classes, error) {
	cl := make(exposure.Classes, len(c.Exposure))
	for i := range c.Exposure {
		m, err := c.Exposure[i].Map()
		if err != nil {
			return nil, fmt.Errorf("exposure %d: %w", i, err)
		}
		cl[i] = m
	}
	return cl, nil
}
