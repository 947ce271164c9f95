// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_solub01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solub01. n-butane at 270 K")

	mdl := co2butane(tst)
	var copt CurveData
	copt.Init(nil)

	T := 270.0
	x := []float64{0.0, 1.0}
	rhol, st, err := Rhol(mdl, 2.0e5, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if !st.IsLiquidLike() {
		tst.Errorf("expected a liquid; got %v\n", st)
		return
	}

	delta, err := Solubility(mdl, rhol, T, x, 0.1, 1e-4, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("delta = %v Pa^1/2\n", delta)

	// the experimental Hildebrand parameter of n-butane is about
	// 14 MPa^1/2; accept a generous band around it
	if delta < 5e3 || delta > 3e4 {
		tst.Errorf("solubility parameter out of range: %g Pa^1/2\n", delta)
	}
}

func Test_dadt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dadt01. Helmholtz temperature derivative")

	mdl := co2butane(tst)
	T := 300.0
	x := []float64{0.3, 0.7}
	rho := 100.0

	dadt, err := Dadt(mdl, rho, T, x)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("dadT = %v\n", dadt)
	if math.IsNaN(dadt) || math.IsInf(dadt, 0) {
		tst.Errorf("derivative is not finite: %g\n", dadt)
	}

	// compare against a coarse finite difference
	h := 1.0
	a1 := mdl.Helmholtz(rho, T+h, x)
	a0 := mdl.Helmholtz(rho, T-h, x)
	chk.Float64(tst, "dadT", 5e-2*math.Abs(dadt)+1e-8, (a1-a0)/(2.0*h), dadt)
}
