// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"

	"github.com/cpmech/gosl/num"

	"govle/eos"
)

// Pdiff returns the difference between the EOS pressure at rho and the set
// point pressure pset
func Pdiff(mdl eos.Model, rho, pset, T float64, x []float64) float64 {
	return mdl.Pressure(rho, T, x) - pset
}

// minPdiff2 minimises the squared pressure residual over [lo,hi] starting
// near rho0; used when a sign-changing bracket is not available
func minPdiff2(mdl eos.Model, rho0, pset, T float64, x []float64, lo, hi float64) float64 {
	if lo >= hi {
		return rho0
	}
	rho, e := brentMin(func(rho float64) float64 {
		d := Pdiff(mdl, rho, pset, T, x)
		return d * d
	}, lo, hi)
	if e != nil || math.IsNaN(rho) {
		return rho0
	}
	return rho
}

// refineRho performs the bracketed refinement of an initial density
// estimate: Brent's method on the pressure residual within ±1% of the
// estimate, the upper bound widened against the EOS maximum density. When
// the residual does not change sign in the bracket the estimate is kept.
func refineRho(mdl eos.Model, rho0, pset, T float64, x []float64, headNegative, noOpt bool) float64 {
	if math.IsNaN(rho0) {
		return rho0
	}
	lo, hi := rho0*0.99, rho0*1.01
	rhomax := mdl.DensityMax(x, T)
	if hi > rhomax*0.9999 {
		hi = rhomax * 0.9999
	}
	fa := Pdiff(mdl, lo, pset, T, x)
	fb := Pdiff(mdl, hi, pset, T, x)
	if fa*fb < 0 {
		rho, e := brentRoot(func(rho float64) float64 {
			return Pdiff(mdl, rho, pset, T, x)
		}, lo, hi)
		if e == nil && !math.IsNaN(rho) {
			return rho
		}
	}
	if headNegative {
		warn("density could not be bounded within [%g,%g]; keeping approximate value %g\n", lo, hi, rho0)
		return rho0
	}
	if noOpt {
		return rho0
	}
	return minPdiff2(mdl, rho0, pset, T, x, 1e-28, rhomax*0.99)
}

// tailRoot extrapolates the zero crossing of the curve tail from a linear
// fit of the last four samples; returns NaN when the tail does not head
// towards a crossing
func tailRoot(vlist, plist []float64) float64 {
	n := len(vlist)
	a, b := num.LinFit(vlist[n-4:], plist[n-4:])
	if b == 0 {
		return math.NaN()
	}
	vroot := -a / b
	if vroot <= 0 || math.IsNaN(vroot) || math.IsInf(vroot, 0) {
		return math.NaN()
	}
	return vroot
}

// Rhov computes the vapor density at pressure P, temperature T and
// composition yi, classifying the fluid state from the shape of the
// shifted P-v curve. The error is non-nil only when the curve itself
// cannot be built; unphysical points come back as (NaN, NoPhase).
func Rhov(mdl eos.Model, P, T float64, yi []float64, opt CurveData) (rho float64, st State, err error) {

	vlist, plist, err := Curve(mdl, T, yi, opt)
	if err != nil {
		return math.NaN(), NoPhase, err
	}
	for i := range plist {
		plist[i] -= P
	}
	spl, err := FitSpline(vlist, plist, opt.Sigma)
	if err != nil {
		return math.NaN(), NoPhase, err
	}
	n := len(vlist)
	noOpt := false

	switch {
	case spl.HasNaNRoots():
		rho = math.NaN()
		st = NoPhase
		warn("no fluid at P=%g Pa, T=%g K, yi=%v\n", P, T, yi)

	case len(spl.Roots) == 0:
		switch {
		case spl.At(vlist[n-1]) < 0:
			// curve ends below the shift line: dense branch only
			if len(spl.Extrema) == 0 {
				st = Critical
			} else {
				st = Liquid
			}
			rho = minPdiff2(mdl, 1.0/vlist[0], P, T, yi, 1e-28, mdl.DensityMax(yi, T)*0.99)
			noOpt = true
		case minFloats(plist)+P > 0:
			// whole curve above the target pressure
			vroot := tailRoot(vlist, plist)
			if math.IsNaN(vroot) || vroot <= vlist[n-1] {
				rho = math.NaN()
				st = IdealGas
			} else {
				rho = minPdiff2(mdl, 1.0/vroot, P, T, yi, 1e-28, 1.0/(0.999*vlist[n-1]))
				st = Vapor
			}
		default:
			rho = math.NaN()
			st = NoPhase
			warn("no fluid at P=%g Pa, T=%g K, yi=%v\n", P, T, yi)
		}

	case len(spl.Roots) == 1:
		rho = 1.0 / spl.Roots[0]
		switch {
		case len(spl.Extrema) == 0:
			st = Critical
		case spl.At(spl.Roots[0]) > spl.At(maxFloats(spl.Extrema)):
			st = Liquid
		default:
			st = Vapor
		}

	case len(spl.Roots) == 2:
		// the spline is P-shifted, so the raw curve value at the root is
		// spl.At(root)+P
		if spl.At(spl.Roots[0])+P < 0 {
			st = Liquid // under tension
			rho = 1.0 / spl.Roots[0]
		} else {
			st = Vapor
			vroot := tailRoot(vlist, plist)
			if math.IsNaN(vroot) {
				vroot = spl.Roots[1]
			}
			rho = minPdiff2(mdl, 1.0/vroot, P, T, yi, 1e-28, 1.0/(1.1*spl.Roots[1]))
		}

	default: // three or more roots
		st = Vapor
		rho = 1.0 / spl.Roots[len(spl.Roots)-1]
	}

	if st == Vapor || st == Critical {
		rho = refineRho(mdl, rho, P, T, yi, plist[0] < 0, noOpt)
	}
	return rho, st, nil
}

// Rhol computes the liquid density at pressure P, temperature T and
// composition xi. Mirror image of Rhov: it selects the smallest-volume
// root of the shifted curve.
func Rhol(mdl eos.Model, P, T float64, xi []float64, opt CurveData) (rho float64, st State, err error) {

	vlist, plist, err := Curve(mdl, T, xi, opt)
	if err != nil {
		return math.NaN(), NoPhase, err
	}
	for i := range plist {
		plist[i] -= P
	}
	spl, err := FitSpline(vlist, plist, opt.Sigma)
	if err != nil {
		return math.NaN(), NoPhase, err
	}
	n := len(vlist)
	noOpt := false

	if len(spl.Extrema) == 1 {
		warn("single extremum at v=%g; check the EOS parameters\n", spl.Extrema[0])
	}

	switch {
	case spl.HasNaNRoots():
		rho = math.NaN()
		st = NoPhase
		warn("no fluid at P=%g Pa, T=%g K, xi=%v\n", P, T, xi)

	case len(spl.Roots) == 0:
		switch {
		case spl.At(vlist[n-1]) != 0:
			if len(spl.Extrema) == 0 {
				st = Critical
			} else {
				st = Liquid
			}
			rho = minPdiff2(mdl, 1.0/vlist[0], P, T, xi, 1e-28, mdl.DensityMax(xi, T)*0.99)
			noOpt = true
		case minFloats(plist)+P > 0:
			vroot := tailRoot(vlist, plist)
			if math.IsNaN(vroot) || vroot <= vlist[n-1] {
				rho = math.NaN()
				st = IdealGas
			} else {
				rho = minPdiff2(mdl, 1.0/vroot, P, T, xi, 1e-28, 1.0/(0.999*vlist[n-1]))
				st = Vapor
			}
		default:
			rho = math.NaN()
			st = NoPhase
			warn("no fluid at P=%g Pa, T=%g K, xi=%v\n", P, T, xi)
		}

	case len(spl.Roots) == 1:
		switch {
		case len(spl.Extrema) == 0:
			st = Critical
			rho = 1.0 / interpRoot(spl.Roots[0], vlist, plist)
		case spl.At(spl.Roots[0]) > spl.At(maxFloats(spl.Extrema)):
			st = Liquid
			rho = 1.0 / spl.Roots[0]
		default:
			st = Vapor
			rho = 1.0 / spl.Roots[0]
		}

	case len(spl.Roots) == 2:
		// either under tension, or the sampled range stopped short of the
		// third (vapor) root; both belong to the liquid branch
		st = Liquid
		rho = 1.0 / spl.Roots[0]

	default:
		st = Liquid
		rho = 1.0 / spl.Roots[0]
	}

	if st == Liquid || st == Critical {
		rho = refineRho(mdl, rho, P, T, xi, plist[0] < 0, noOpt)
	}
	return rho, st, nil
}

// minFloats returns the smallest entry
func minFloats(a []float64) float64 {
	m := a[0]
	for _, v := range a[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// maxFloats returns the largest entry
func maxFloats(a []float64) float64 {
	m := a[0]
	for _, v := range a[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
