/*
Command pointspec evaluates spectral models of gamma-ray point sources.

Contents

Version 0.3

  Program overview
  Installing
  Command line usage
  Source files
  Spectral models
  Numerical methods


Program overview

A spectral model gives photon flux density dN/dE, in ph cm⁻² s⁻¹ MeV⁻¹,
as a function of energy in MeV.  Models are selected by name from a fixed
set of variants: power laws, broken and smoothly broken power laws, log
parabolas, exponentially cut off power laws, constants, and sums of these.

Parameters are held in log10 space, as a likelihood fitter varies them.
When a fit covariance is supplied, pointspec propagates it into errors on
parameters and on derived fluxes.

Sample run:

A file crab.yaml,

  sources:
    - name: crab
      ra: 83.63
      dec: 22.01
      model:
        name: PowerLaw
        params: [2.7e-11, 2.2]
        covariance: [[1.2e-4, 4e-5], [4e-5, 2e-5]]

and the command "pointspec show crab.yaml" gives parameters with fractional
errors, then photon flux above 100 MeV and energy flux from 100 MeV to
300 GeV, both in cgs units.


Installing

You need Go 1.24 or later.  Then

  go install github.com/soniakeys/pointspec@latest

The packages param, spectrum, and exposure may also be imported directly
by programs that do their own fitting.


Command line usage

  pointspec models                  list variants and parameter defaults
  pointspec eval <model> <E>...     evaluate a model at energies
  pointspec show <file>             parameters, errors, derived fluxes
  pointspec flux <file>             integral photon or energy flux
  pointspec counts <file>           expected counts under exposure
  pointspec pivot <file>            pivot energies of power laws

Flag -v logs debug detail to stderr.  Each subcommand has -h for its own
flags.  Sources of a file are processed concurrently but output is always
in file order.


Source files

Source files are YAML.  Each source has a name, a position, RA and Dec in
degrees, and a model.  Model keys are

  name          variant name, required
  params        physical parameter values, all positive
  free          free mask, frozen parameters are false
  e0            reference energy
  emin, emax    integral flux range of flux normalized variants
  beta          smoothing of SmoothBrokenPowerLaw
  index_offset  subtracted from the PowerLaw index
  breaks        InterpConstants energies
  components    variant names of a MixedModel
  background    omit derived fluxes from display
  covariance    full log10 space covariance matrix

An optional exposure list gives exposure for each event class, either
"uniform: <cm² s>" or a table of effective area against energy with a
pointing direction, field of view radius, and livetime.


Spectral models

Normalizations are at reference energy e0, 1 GeV by default, except the
flux normalized variants, whose first parameter is integral flux over
[emin, emax].  Indexes are positive numbers for falling spectra.  Changing
e0 of PowerLaw, ExpCutoff, PLSuperExpCutoff, or SmoothBrokenPowerLaw
rescales the normalization and carries the covariance through so that
nothing derived from the model changes.

The pivot energy of a power law is the energy where normalization and
index errors are uncorrelated.


Numerical methods

Integral fluxes use adaptive Gauss-Legendre quadrature, 10 and 21 point
rules compared on each panel, bisecting the worst panel until tolerance or
50 panels.  Infinite upper limits are integrated in log energy, mapped to
a finite interval, so slowly falling power law tails converge.  A
spectrum whose E·dN/dE does not fall between 100 MeV and 100 GeV would
have a divergent flux; its integration limit is capped at 500 GeV.

Flux errors are propagated from the covariance through central finite
difference derivatives in log parameter space.  Two sided errors treat the
flux as log-normal.

Expected counts use Simpson's rule on a log spaced energy grid of about 10
points per decade.

-------------
Public domain.
*/
package main
