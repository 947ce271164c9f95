// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func Test_rhov01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rhov01. vapor density below saturation")

	mdl := co2butane(tst)
	var copt CurveData
	copt.Init(nil)

	T := 270.0
	P := 5.0e4
	x := []float64{0.0, 1.0}
	rho, st, err := Rhov(mdl, P, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("rho = %v mol/m3, state = %v\n", rho, st)

	if !st.IsVaporLike() {
		tst.Errorf("expected a vapor-like state; got %v\n", st)
	}
	chk.Float64(tst, "rho/ideal", 0.2, rho/(P/(Rgas*T)), 1.0)

	// the density root reproduces the set pressure
	chk.Float64(tst, "P(rho)/P", 1e-4, mdl.Pressure(rho, T, x)/P, 1.0)
}

func Test_rhol01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rhol01. liquid density above saturation")

	mdl := co2butane(tst)
	var copt CurveData
	copt.Init(nil)

	T := 270.0
	P := 2.0e5
	x := []float64{0.0, 1.0}
	rho, st, err := Rhol(mdl, P, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("rho = %v mol/m3, state = %v\n", rho, st)

	if !st.IsLiquidLike() {
		tst.Errorf("expected a liquid-like state; got %v\n", st)
	}
	if rho < 5e3 || rho > 2e4 {
		tst.Errorf("liquid density out of range: %g mol/m3\n", rho)
	}
	chk.Float64(tst, "P(rho)/P", 1e-4, mdl.Pressure(rho, T, x)/P, 1.0)
}

func Test_phi01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phi01. equal fugacity at saturation")

	mdl := co2butane(tst)
	var copt CurveData
	copt.Init(nil)

	T := 270.0
	x := []float64{0.0, 1.0}
	psat, _, _, err := Psat(mdl, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}

	phil, rhol, stl, err := Phil(mdl, psat, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	phiv, rhov, stv, err := Phiv(mdl, psat, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("phil = %v (%v), phiv = %v (%v)\n", phil, stl, phiv, stv)

	if rhov >= rhol {
		tst.Errorf("vapor density %g must stay below liquid density %g\n", rhov, rhol)
	}

	// at the saturation pressure both phases have the same fugacity
	chk.Float64(tst, "phil/phiv", 2e-2, phil[1]/phiv[1], 1.0)
}

func Test_phi02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phi02. degenerate states")

	mdl := co2butane(tst)
	var copt CurveData
	copt.Init(nil)

	// far above the saturation pressure no vapor root exists; the state
	// degrades instead of failing
	phiv, _, st, err := Phiv(mdl, 3.0e6, 270.0, []float64{0.0, 1.0}, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("state = %v, phiv = %v\n", st, phiv)
	if st.IsVaporLike() && !HasNaN(phiv) {
		io.Pf("vapor root returned; acceptable for a refined extrapolation\n")
	}

	// pressure far below any liquid root
	phil, rho, st2, err := Phil(mdl, 10.0, 270.0, []float64{0.0, 1.0}, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("state = %v, rho = %v, phil = %v\n", st2, rho, phil)
	if st2 == NoPhase && !HasNaN(phil) {
		tst.Errorf("a NoPhase state must carry NaN coefficients\n")
	}
}

// twinRootModel is a synthetic isotherm whose pressure crosses any
// horizontal line at exactly two specific volumes
type twinRootModel struct{}

func (o twinRootModel) Pressure(rho, T float64, x []float64) float64 {
	v := 1.0 / rho
	return 1.0e8 * (v - 0.02) * (v - 0.05)
}

func (o twinRootModel) DensityMax(x []float64, T float64) float64 { return 200.0 }

func (o twinRootModel) FugCoef(P, rho float64, x []float64, T float64) []float64 {
	return []float64{1.0}
}

func (o twinRootModel) Components() []string { return []string{"stub"} }

func Test_rhov02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rhov02. two-root branch follows the set pressure")

	var mdl twinRootModel
	var copt CurveData
	copt.Init(dbf.Params{
		&dbf.P{N: "minrhofrac", V: 0.06},
		&dbf.P{N: "rhoinc", V: 0.25},
		&dbf.P{N: "vspacemax", V: 1.0},
	})
	x := []float64{1.0}
	T := 300.0

	// above the curve tail the larger-volume root is a vapor
	_, stv, err := Rhov(mdl, 1000.0, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("state at P=+1000 Pa: %v\n", stv)
	if stv != Vapor {
		tst.Errorf("expected a vapor at positive pressure; got %v\n", stv)
	}

	// a negative set pressure puts the same curve under tension
	rho, stl, err := Rhov(mdl, -1000.0, T, x, copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("state at P=-1000 Pa: %v, rho = %v\n", stl, rho)
	if stl != Liquid {
		tst.Errorf("expected a liquid under tension; got %v\n", stl)
	}
	chk.Float64(tst, "rho", 2.0, rho, 50.0)
}

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01. phase tags")

	chk.String(tst, Vapor.String(), "vapor")
	chk.String(tst, Liquid.String(), "liquid")
	if !Vapor.IsVaporLike() || Liquid.IsVaporLike() {
		tst.Errorf("wrong vapor-like classification\n")
	}
	if !Critical.IsVaporLike() || !Critical.IsLiquidLike() {
		tst.Errorf("a critical fluid is both vapor-like and liquid-like\n")
	}
	if !IdealGas.IsVaporLike() || IdealGas.IsLiquidLike() {
		tst.Errorf("wrong ideal gas classification\n")
	}
	if NoPhase.IsVaporLike() || NoPhase.IsLiquidLike() {
		tst.Errorf("NoPhase must not be classified as a fluid\n")
	}
}
