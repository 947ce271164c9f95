// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Rgas is the universal gas constant [J/(mol·K)]
const Rgas = 8.3144598

// sqrt2 shows up in the Peng-Robinson mixture terms
var sqrt2 = math.Sqrt(2.0)

// PengRobinson implements Model with the 1976 Peng-Robinson cubic equation
// of state and van der Waals one-fluid mixing rules. It serves as the
// reference collaborator for the solvers; any SAFT-type model satisfying
// Model can replace it.
type PengRobinson struct {
	names []string  // component names
	tc    []float64 // critical temperatures [K]
	pc    []float64 // critical pressures [Pa]
	omega []float64 // acentric factors
	kij   [][]float64
}

// Init initialises the model from per-component parameter lists. Each prms
// entry must provide "Tc", "Pc" and "omega".
func (o *PengRobinson) Init(names []string, prms []dbf.Params, kij [][]float64) (err error) {
	n := len(names)
	if n < 1 {
		return chk.Err("at least one component is required")
	}
	if len(prms) != n {
		return chk.Err("got %d parameter sets for %d components", len(prms), n)
	}
	o.names = names
	o.tc = make([]float64, n)
	o.pc = make([]float64, n)
	o.omega = make([]float64, n)
	for i, ps := range prms {
		var hasTc, hasPc bool
		for _, p := range ps {
			switch p.N {
			case "Tc":
				o.tc[i] = p.V
				hasTc = true
			case "Pc":
				o.pc[i] = p.V
				hasPc = true
			case "omega":
				o.omega[i] = p.V
			}
		}
		if !hasTc || !hasPc {
			return chk.Err("component %q needs Tc and Pc parameters", names[i])
		}
		if o.tc[i] <= 0 || o.pc[i] <= 0 {
			return chk.Err("component %q: Tc and Pc must be positive", names[i])
		}
	}
	if kij == nil {
		kij = make([][]float64, n)
		for i := range kij {
			kij[i] = make([]float64, n)
		}
	}
	if len(kij) != n {
		return chk.Err("kij matrix must be %d x %d", n, n)
	}
	for i := range kij {
		if len(kij[i]) != n {
			return chk.Err("kij matrix must be %d x %d", n, n)
		}
	}
	o.kij = kij
	return
}

// GetPrms gets example parameters for one component
//  Input:
//   gas -- returns carbon dioxide properties instead of n-butane
func (o PengRobinson) GetPrms(gas bool) dbf.Params {
	if gas {
		return dbf.Params{ // carbon dioxide
			&dbf.P{N: "Tc", V: 304.13},     // [K]
			&dbf.P{N: "Pc", V: 7.3773e6},   // [Pa]
			&dbf.P{N: "omega", V: 0.22394}, // [-]
		}
	}
	return dbf.Params{ // n-butane
		&dbf.P{N: "Tc", V: 425.12},    // [K]
		&dbf.P{N: "Pc", V: 3.796e6},   // [Pa]
		&dbf.P{N: "omega", V: 0.2002}, // [-]
	}
}

// Components returns the component names, in composition order
func (o *PengRobinson) Components() []string {
	return o.names
}

// ai computes the pure-component attraction parameter at T
func (o *PengRobinson) ai(i int, T float64) float64 {
	k := 0.37464 + 1.54226*o.omega[i] - 0.26992*o.omega[i]*o.omega[i]
	alpha := 1.0 + k*(1.0-math.Sqrt(T/o.tc[i]))
	return 0.45724 * Rgas * Rgas * o.tc[i] * o.tc[i] / o.pc[i] * alpha * alpha
}

// bi computes the pure-component covolume
func (o *PengRobinson) bi(i int) float64 {
	return 0.07780 * Rgas * o.tc[i] / o.pc[i]
}

// mix computes the one-fluid mixture parameters a and b
func (o *PengRobinson) mix(T float64, x []float64) (a, b float64) {
	n := len(x)
	for i := 0; i < n; i++ {
		b += x[i] * o.bi(i)
		for j := 0; j < n; j++ {
			aij := math.Sqrt(o.ai(i, T)*o.ai(j, T)) * (1.0 - o.kij[i][j])
			a += x[i] * x[j] * aij
		}
	}
	return
}

// Pressure computes the absolute pressure [Pa] at molar density rho
func (o *PengRobinson) Pressure(rho, T float64, x []float64) float64 {
	a, b := o.mix(T, x)
	v := 1.0 / rho
	return Rgas*T/(v-b) - a/(v*(v+b)+b*(v-b))
}

// DensityMax returns the covolume-limited maximum molar density
func (o *PengRobinson) DensityMax(x []float64, T float64) float64 {
	_, b := o.mix(T, x)
	return 0.9 / b
}

// FugCoef computes the fugacity coefficient of each component at system
// pressure P and solved density rho
func (o *PengRobinson) FugCoef(P, rho float64, x []float64, T float64) []float64 {
	n := len(x)
	a, b := o.mix(T, x)
	A := a * P / (Rgas * Rgas * T * T)
	B := b * P / (Rgas * T)
	Z := P / (rho * Rgas * T)
	phi := make([]float64, n)
	lnarg := (Z + (1.0+sqrt2)*B) / (Z + (1.0-sqrt2)*B)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			aij := math.Sqrt(o.ai(i, T)*o.ai(j, T)) * (1.0 - o.kij[i][j])
			sum += x[j] * aij
		}
		bb := o.bi(i) / b
		lnphi := bb*(Z-1.0) - math.Log(Z-B) - A/(2.0*sqrt2*B)*(2.0*sum/a-bb)*math.Log(lnarg)
		phi[i] = math.Exp(lnphi)
	}
	return phi
}

// Helmholtz computes the residual molar Helmholtz energy [J/mol] at fixed
// temperature and density
func (o *PengRobinson) Helmholtz(rho, T float64, x []float64) float64 {
	a, b := o.mix(T, x)
	v := 1.0 / rho
	return -Rgas*T*math.Log((v-b)/v) - a/(2.0*sqrt2*b)*math.Log((v+(1.0+sqrt2)*b)/(v+(1.0-sqrt2)*b))
}
