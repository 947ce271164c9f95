// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func co2butane(tst *testing.T) (mdl *PengRobinson) {
	mdl = new(PengRobinson)
	prms := []dbf.Params{mdl.GetPrms(true), mdl.GetPrms(false)}
	err := mdl.Init([]string{"CO2", "n-butane"}, prms, [][]float64{{0, 0.12}, {0.12, 0}})
	if err != nil {
		tst.Fatalf("cannot initialise model:\n%v", err)
	}
	return
}

func Test_pr01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pr01. ideal gas limit")

	mdl := co2butane(tst)
	x := []float64{0.3, 0.7}
	T := 300.0

	// at low density the pressure approaches rho R T
	rho := 1.0
	P := mdl.Pressure(rho, T, x)
	io.Pforan("P = %v Pa (ideal %v Pa)\n", P, rho*Rgas*T)
	if math.Abs(P-rho*Rgas*T)/P > 0.05 {
		tst.Errorf("pressure too far from the ideal gas limit: %g\n", P)
	}

	// fugacity coefficients approach one
	P = 1000.0
	rho = P / (Rgas * T)
	phi := mdl.FugCoef(P, rho, x, T)
	chk.IntAssert(len(phi), 2)
	for i, p := range phi {
		chk.Float64(tst, io.Sf("phi%d", i), 1e-2, p, 1.0)
	}
}

func Test_pr02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pr02. liquid branch and mixing")

	mdl := co2butane(tst)
	x := []float64{0.0, 1.0}
	T := 270.0

	// densities must stay below the covolume limit
	rhomax := mdl.DensityMax(x, T)
	io.Pforan("rhomax = %v mol/m3\n", rhomax)
	if rhomax < 5000 || rhomax > 5e4 {
		tst.Errorf("covolume density limit out of range: %g\n", rhomax)
	}

	// the pressure is a decreasing then increasing function along the
	// isotherm of a subcritical fluid; check tension in between
	Plo := mdl.Pressure(100.0, T, x)
	Pmid := mdl.Pressure(0.5*rhomax, T, x)
	Phigh := mdl.Pressure(0.999*rhomax, T, x)
	io.Pforan("P(100) = %v, P(mid) = %v, P(high) = %v\n", Plo, Pmid, Phigh)
	if Plo <= 0 {
		tst.Errorf("vapor branch pressure must be positive: %g\n", Plo)
	}
	if Phigh <= Plo {
		tst.Errorf("repulsive branch must dominate at high density\n")
	}

	// residual Helmholtz energy is finite
	a := mdl.Helmholtz(1000.0, T, x)
	io.Pforan("a = %v\n", a)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		tst.Errorf("residual Helmholtz energy is not finite: %g\n", a)
	}
}
