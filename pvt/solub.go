// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"

	"govle/eos"
)

// Rgas is the universal gas constant [J/(mol·K)]
const Rgas = 8.3144598

// Solubility computes the Hildebrand solubility parameter [Pa^½] at the
// liquid density rhol, temperature T and composition xi. The residual
// internal energy is obtained by integrating a central-difference estimate
// of the compressibility-factor temperature derivative from the liquid
// volume to the end of the sampled range; a positive residual energy is
// unphysical (the parameter would be imaginary) and yields a domain error.
//  Input:
//   dT  -- temperature step of the central difference, e.g. 0.1 [K]
//   tol -- decay cutoff for the integrand tail correction, e.g. 1e-4
func Solubility(mdl eos.Model, rhol, T float64, xi []float64, dT, tol float64, opt CurveData) (delta float64, err error) {

	rt := Rgas * T
	opt.MaxRho = rhol

	vlist, plist1, err := Curve(mdl, T-dT, xi, opt)
	if err != nil {
		return
	}
	_, plist2, err := Curve(mdl, T+dT, xi, opt)
	if err != nil {
		return
	}
	_, plist, err := Curve(mdl, T, xi, opt)
	if err != nil {
		return
	}

	integrand := make([]float64, len(vlist))
	for i := range vlist {
		integrand[i] = (plist2[i]-plist1[i])/(2.0*dT)/Rgas - plist[i]/rt
	}
	integrand = gaussianFilter(integrand, 0.1)

	var fit interp.AkimaSpline
	err = fit.Fit(vlist, integrand)
	if err != nil {
		return
	}
	n := len(vlist)
	grid := make([]float64, 401)
	vals := make([]float64, 401)
	a, b := 1.0/rhol, vlist[n-1]
	for i := range grid {
		grid[i] = a + (b-a)*float64(i)/400.0
		vals[i] = fit.Predict(grid[i])
	}
	ures := -rt * integrate.Simpsons(grid, vals)

	// tail correction when the integrand has not decayed
	if integrand[n-1] > tol {
		alpha, beta := num.LinFit(vlist[n-4:], integrand[n-4:])
		xroot := -alpha / beta
		ures += -rt * integrand[n-1] * (xroot - vlist[n-1]) / 2.0
	}

	if ures > 0 {
		return 0, chk.Err("residual internal energy %g is positive; the solubility parameter would be imaginary", ures)
	}
	delta = math.Sqrt(-ures * rhol)
	warn("T=%g K, xi=%v: solubility parameter %g Pa^1/2\n", T, xi, delta)
	return
}

// Dadt estimates the temperature derivative of the residual Helmholtz
// energy by central differences. The EOS must provide the optional
// Helmholtz capability.
func Dadt(mdl eos.Model, rho, T float64, xi []float64) (float64, error) {
	h, ok := mdl.(eos.Helmholtzer)
	if !ok {
		return 0, chk.Err("EOS does not expose the Helmholtz energy")
	}
	step := math.Sqrt(2.220446049250313e-16) * T * 1000.0
	ap := h.Helmholtz(rho, T+step, xi)
	am := h.Helmholtz(rho, T-step, xi)
	return (ap - am) / (2.0 * step), nil
}
