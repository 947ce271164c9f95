// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"govle/eos"
	"govle/pvt"
)

func co2butane(tst *testing.T) (mdl *eos.PengRobinson) {
	mdl = new(eos.PengRobinson)
	prms := []dbf.Params{mdl.GetPrms(true), mdl.GetPrms(false)}
	err := mdl.Init([]string{"CO2", "n-butane"}, prms, [][]float64{{0, 0.12}, {0.12, 0}})
	if err != nil {
		tst.Fatalf("cannot initialise model:\n%v", err)
	}
	return
}

func Test_yx01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("yx01. K relations")

	xi := []float64{0.2, 0.8}
	phil := []float64{2.0, 0.5}
	phiv := []float64{1.0, 1.0}

	yi := Yi(xi, phil, phiv)
	chk.Array(tst, "yi", 1e-15, yi, []float64{0.4, 0.4})

	xi2 := Xi(yi, phiv, phil)
	chk.Array(tst, "xi", 1e-15, xi2, []float64{0.2, 0.8})

	// zero fractions stay zero
	yi = Yi([]float64{0.0, 1.0}, phil, phiv)
	chk.Float64(tst, "yi[0]", 1e-17, yi[0], 0.0)
}

func Test_bubble01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bubble01. CO2/n-butane at 270 K")

	mdl := co2butane(tst)
	sv := NewSolver(mdl)

	T := 270.0
	xi := []float64{0.2, 0.8}
	P, yi, stv, stl, obj, err := sv.BubblePoint(T, xi, -1)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("P = %v Pa, yi = %v, stv = %v, stl = %v, obj = %v\n", P, yi, stv, stl, obj)

	// the bubble pressure sits between the pure saturation pressures
	if P < 1e5 || P > 3.5e6 {
		tst.Errorf("bubble pressure out of range: %g Pa\n", P)
	}

	// the vapor is enriched in the more volatile component
	if yi[0] <= xi[0] {
		tst.Errorf("the vapor must be enriched in CO2: yi=%v\n", yi)
	}
	chk.Float64(tst, "sum(yi)", 1e-6, yi[0]+yi[1], 1.0)

	if !stv.IsVaporLike() {
		tst.Errorf("expected a vapor-like state; got %v\n", stv)
	}
	if !stl.IsLiquidLike() {
		tst.Errorf("expected a liquid-like state; got %v\n", stl)
	}
	if math.Abs(obj) > 1e-3 {
		tst.Errorf("pressure objective did not vanish: %g\n", obj)
	}
}

func Test_dew01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dew01. CO2/n-butane at 270 K")

	mdl := co2butane(tst)
	sv := NewSolver(mdl)

	T := 270.0
	yi := []float64{0.7, 0.3}
	P, xi, stl, stv, obj, err := sv.DewPoint(T, yi, -1)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("P = %v Pa, xi = %v, stl = %v, stv = %v, obj = %v\n", P, xi, stl, stv, obj)

	if P < 5e4 || P > 3.5e6 {
		tst.Errorf("dew pressure out of range: %g Pa\n", P)
	}

	// the liquid is depleted in the more volatile component
	if xi[0] >= yi[0] {
		tst.Errorf("the liquid must be depleted in CO2: xi=%v\n", xi)
	}
	chk.Float64(tst, "sum(xi)", 1e-6, xi[0]+xi[1], 1.0)

	if math.Abs(obj) > 1e-3 {
		tst.Errorf("pressure objective did not vanish: %g\n", obj)
	}
}

func Test_warm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("warm01. warm started repetition")

	mdl := co2butane(tst)
	sv := NewSolver(mdl)

	T := 270.0
	xi := []float64{0.2, 0.8}
	P1, _, _, _, _, err := sv.BubblePoint(T, xi, -1)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}

	// the second call starts from the converged fractions and must land
	// on the same pressure
	P2, _, _, _, _, err := sv.BubblePoint(T, xi, -1)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("P1 = %v, P2 = %v\n", P1, P2)
	chk.Float64(tst, "P", 1e-3*P1, P2, P1)
}

func Test_fallback01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fallback01. supercritical placeholders")

	fb := DefaultPsatFallback()
	chk.Float64(tst, "CO2", 1e-15, fb["CO2"], 10377000.0)
	chk.Float64(tst, "N2", 1e-15, fb["N2"], 7377000.0)
	chk.Float64(tst, "CH4", 1e-15, fb["CH4"], 6377000.0)
	chk.Float64(tst, "CH3CH3", 1e-15, fb["CH3CH3"], 7377000.0)

	// solvers get an independent copy
	sv := NewSolver(co2butane(tst))
	sv.PsatFallback["CO2"] = 1.0
	if DefaultPsatFallback()["CO2"] != 10377000.0 {
		tst.Errorf("the default map must not be shared\n")
	}
}

func Test_inner01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inner01. relative change of degenerate fractions")

	// a healthy iterate measures the change of its smallest fraction
	chk.Float64(tst, "rel", 1e-15, relChange([]float64{0.25, 0.75}, []float64{0.2, 0.8}), 0.25)

	// without a positive fraction the change counts as total instead of
	// indexing out of range
	nan := math.NaN()
	chk.Float64(tst, "rel(nan)", 1e-15, relChange([]float64{nan, nan}, []float64{nan, nan}), 1.0)
	chk.Float64(tst, "rel(zero)", 1e-15, relChange([]float64{0.5, 0.5}, []float64{0.0, 0.0}), 1.0)
}

func Test_inner02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inner02. bisecting bouncing vapor fractions")

	mdl := co2butane(tst)
	sv := NewSolver(mdl)

	P := 5.0e5
	T := 270.0
	xi := []float64{0.2, 0.8}
	phil, _, stl, err := pvt.Phil(mdl, P, T, xi, sv.Copt)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if !stl.IsLiquidLike() {
		tst.Errorf("expected a liquid at P=%g Pa; got %v\n", P, stl)
		return
	}

	yi, obj, stv, err := sv.bracketYi(P, T, phil, xi, 0.01, 0.99)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("yi = %v, obj = %v, stv = %v\n", yi, obj, stv)

	if yi[0] < 0.01 || yi[0] > 0.99 {
		tst.Errorf("bisected fraction left the bounds: %v\n", yi)
	}
	chk.Float64(tst, "sum(yi)", 1e-15, yi[0]+yi[1], 1.0)
	if math.IsNaN(obj) || obj < 0 {
		tst.Errorf("invalid bracket objective: %g\n", obj)
	}
}
