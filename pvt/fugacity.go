// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"

	"govle/eos"
)

// Phiv computes the vapor fugacity coefficients at (P,T,yi). IdealGas
// yields unit coefficients and zero density; NoPhase yields NaN
// coefficients of the correct length.
func Phiv(mdl eos.Model, P, T float64, yi []float64, opt CurveData) (phi []float64, rho float64, st State, err error) {
	rho, st, err = Rhov(mdl, P, T, yi, opt)
	if err != nil {
		return nil, math.NaN(), st, err
	}
	switch st {
	case IdealGas:
		phi = make([]float64, len(yi))
		for i := range phi {
			phi[i] = 1.0
		}
		rho = 0
	case NoPhase:
		phi = nanVector(len(yi))
	default:
		phi = mdl.FugCoef(P, rho, yi, T)
	}
	return
}

// Phil computes the liquid fugacity coefficients at (P,T,xi)
func Phil(mdl eos.Model, P, T float64, xi []float64, opt CurveData) (phi []float64, rho float64, st State, err error) {
	rho, st, err = Rhol(mdl, P, T, xi, opt)
	if err != nil {
		return nil, math.NaN(), st, err
	}
	if st == NoPhase {
		phi = nanVector(len(xi))
		return
	}
	phi = mdl.FugCoef(P, rho, xi, T)
	return
}

// nanVector allocates a NaN-filled vector
func nanVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}
	return v
}

// HasNaN tells whether any entry is NaN
func HasNaN(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
