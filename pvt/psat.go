// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"

	"govle/eos"
)

// pconverged is the search floor for the saturation pressure [Pa]; below
// this the fluid is effectively under vacuum
const pconverged = 10.0

// Psat computes the saturation pressure, liquid density and vapor density
// of a single-component system at temperature T via the Maxwell equal-area
// construction. The composition must be pure (exactly one nonzero entry).
// A supercritical component comes back as (NaN,NaN,NaN) with nil error.
func Psat(mdl eos.Model, T float64, xi []float64, opt CurveData) (psat, rhol, rhov float64, err error) {

	psat, rhol, rhov = math.NaN(), math.NaN(), math.NaN()

	// composition must be pure
	nz := 0
	for _, x := range xi {
		if x != 0 {
			nz++
		}
	}
	if nz != 1 {
		nd, ind := 0, -1
		for i, x := range xi {
			if x > 0.1 {
				nd++
				ind = i
			}
		}
		if nd != 1 {
			err = chk.Err("multiple components have mole fractions above 10%%: %v", xi)
			return
		}
		names := mdl.Components()
		err = chk.Err("composition %v is not pure; did you mean the saturation pressure of %q (x=%g)?", xi, names[ind], xi[ind])
		return
	}

	vlist, plist, err := Curve(mdl, T, xi, opt)
	if err != nil {
		return
	}
	spl, err := FitSpline(vlist, plist, opt.Sigma)
	if err != nil {
		return
	}
	if len(spl.Extrema) < 2 || spl.HasNaNRoots() {
		warn("component is above its critical point at T=%g K; no saturation pressure\n", T)
		return
	}

	// search window: from just above vacuum (or the local minimum) up to
	// the local maximum of the liquid branch
	indMin := 0
	for i := 0; i+1 < len(plist); i++ {
		if plist[i+1] > plist[i] {
			indMin = i
			break
		}
	}
	indMax := indMin
	for i := indMin; i < len(plist); i++ {
		if plist[i] > plist[indMax] {
			indMax = i
		}
	}
	pmaxSearch := plist[indMax]
	pminSearch := math.Max(pconverged, minFloats(plist[indMin:indMax+1]))

	psat, err = brentMin(func(shift float64) float64 {
		return eqArea(shift, vlist, plist, opt.Sigma)
	}, pminSearch, pmaxSearch)
	if err != nil {
		err = chk.Err("equal-area minimisation failed in [%g,%g]: %v", pminSearch, pmaxSearch, err)
		return
	}

	// roots of the shifted curve give the coexisting volumes
	shifted := make([]float64, len(plist))
	for i := range plist {
		shifted[i] = plist[i] - psat
	}
	spl, err = FitSpline(vlist, shifted, opt.Sigma)
	if err != nil {
		return
	}
	roots := spl.Roots
	if len(roots) == 2 {
		// vapor branch was truncated by the sampled range: extrapolate the
		// third root and refine it
		vroot := tailRoot(vlist, shifted)
		if math.IsNaN(vroot) {
			vroot = minEps
		}
		rho := minPdiff2(mdl, 1.0/vroot, psat, T, xi, 1.0/(vroot*1e2), 1.0/(1.1*roots[1]))
		roots = append(roots, 1.0/rho)
	}
	if len(roots) < 3 {
		warn("equal-area construction left %d roots at T=%g K; no saturation point\n", len(roots), T)
		psat = math.NaN()
		return
	}
	rhol = 1.0 / roots[0]
	rhov = 1.0 / roots[2]
	return
}

// minEps is the smallest admissible specific volume when extrapolation
// turns negative
const minEps = 2.220446049250313e-16

// eqArea is the squared area-imbalance objective of the Maxwell
// construction: the positive area between the first two roots of the
// shifted curve must cancel the negative area between the second and
// third. When the curve has not decayed back to the shift line within the
// sampled range, the missing tail area is approximated as a triangle from
// a linear fit of the last four samples.
func eqArea(shift float64, vlist, plist []float64, sigma float64) float64 {
	shifted := make([]float64, len(plist))
	for i := range plist {
		shifted[i] = plist[i] - shift
	}
	spl, err := FitSpline(vlist, shifted, sigma)
	if err != nil {
		return math.MaxFloat64
	}
	roots := spl.Roots
	var a, b float64
	switch {
	case len(roots) >= 3:
		a = spl.Integral(roots[0], roots[1])
		b = spl.Integral(roots[1], roots[2])
	case len(roots) == 2:
		a = spl.Integral(roots[0], roots[1])
		n := len(vlist)
		alpha, beta := num.LinFit(vlist[n-4:], shifted[n-4:])
		vend := vlist[n-1]
		b = spl.Integral(roots[1], vend) + shifted[n-1]*(-alpha/beta-vend)/2.0
	default:
		// a shift without two crossings has no equal-area construction;
		// penalise it so the minimiser cannot settle here
		warn("pressure curve lost its cubic shape at shift %g; decrease minrhofrac\n", shift)
		return math.MaxFloat64
	}
	return (a + b) * (a + b)
}
