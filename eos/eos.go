// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eos defines the equation-of-state capability consumed by the
// phase-equilibrium solvers. Any model able to report pressure, a maximum
// packing density and fugacity coefficients can be plugged in.
package eos

// Model is the capability contract between an equation of state and the
// numerical core. Implementations must be safe for repeated calls with the
// same arguments (the solvers re-evaluate points freely).
type Model interface {

	// Pressure computes the absolute pressure [Pa] at molar density rho
	// [mol/m³], temperature T [K] and composition x (Σx = 1)
	Pressure(rho, T float64, x []float64) float64

	// DensityMax returns the largest physically meaningful molar density
	// [mol/m³] for composition x at temperature T; e.g. from the hard
	// sphere packing fraction
	DensityMax(x []float64, T float64) float64

	// FugCoef computes the fugacity coefficient of each component at
	// system pressure P [Pa] and the previously solved density rho
	FugCoef(P, rho float64, x []float64, T float64) []float64

	// Components returns the component names, in composition order
	Components() []string
}

// Helmholtzer is an optional capability for models that expose the residual
// Helmholtz energy [J/mol]; required only by the dA/dT helper
type Helmholtzer interface {
	Helmholtz(rho, T float64, x []float64) float64
}
