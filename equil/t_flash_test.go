// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"govle/eos"
)

func Test_flash01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flash01. CO2/n-butane at 270 K, 5 bar")

	mdl := co2butane(tst)
	sv := NewSolver(mdl)

	P := 5.0e5
	T := 270.0
	xi, stl, yi, stv, obj, err := sv.Flash(P, T)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("xi = %v (%v), yi = %v (%v), obj = %v\n", xi, stl, yi, stv, obj)

	// both compositions are proper mole fractions
	for i := 0; i < 2; i++ {
		if xi[i] < 0 || xi[i] > 1 || yi[i] < 0 || yi[i] > 1 {
			tst.Errorf("fractions out of [0,1]: xi=%v, yi=%v\n", xi, yi)
			return
		}
	}
	chk.Float64(tst, "sum(xi)", 1e-8, xi[0]+xi[1], 1.0)
	chk.Float64(tst, "sum(yi)", 1e-8, yi[0]+yi[1], 1.0)

	// CO2 concentrates in the vapor, n-butane in the liquid
	if yi[0] <= xi[0] {
		tst.Errorf("the vapor must be enriched in CO2: xi=%v, yi=%v\n", xi, yi)
	}
	if obj > 1e-4 {
		tst.Errorf("flash did not converge: obj=%g\n", obj)
	}
}

func Test_flash02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flash02. only binary mixtures")

	mdl := new(eos.PengRobinson)
	var dummy eos.PengRobinson
	err := mdl.Init([]string{"CO2"}, []dbf.Params{dummy.GetPrms(true)}, nil)
	if err != nil {
		tst.Fatalf("cannot initialise model:\n%v", err)
	}
	sv := NewSolver(mdl)
	if _, _, _, _, _, err := sv.Flash(5.0e5, 270.0); err == nil {
		tst.Errorf("a single component flash must fail\n")
	}
}

func Test_flash03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flash03. K value seeding")

	// both above one: the entry closer to one survives, the other is
	// mirrored around it
	ki := []float64{1.5, 1.8}
	if err := mirrorK(ki); err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Array(tst, "ki>1", 1e-15, ki, []float64{0.2, 1.8})

	// both below one: mirror around the smaller entry
	ki = []float64{0.3, 0.8}
	if err := mirrorK(ki); err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Array(tst, "ki<1", 1e-15, ki, []float64{0.3, 1.7})

	// a straddling pair is already usable
	ki = []float64{0.5, 1.5}
	if err := mirrorK(ki); err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Array(tst, "ki straddle", 1e-15, ki, []float64{0.5, 1.5})

	// both far above one cannot be repaired
	ki = []float64{30.0, 90.0}
	if err := mirrorK(ki); err == nil {
		tst.Errorf("unrepairable K values must fail\n")
	}

	// the same rejection reaches the flash entry point at a pressure far
	// below both pure saturation pressures
	sv := NewSolver(co2butane(tst))
	if _, _, _, _, _, err := sv.Flash(1.0e3, 270.0); err == nil {
		tst.Errorf("a flash with huge K seeds must fail\n")
	}
}
