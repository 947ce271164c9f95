// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"govle/equil"
	"govle/inp"
	"govle/pvt"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".run", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.PfWhite("\nGovle -- Vapor-Liquid Equilibrium Calculations\n")
		io.Pf("Copyright 2026 The Govle Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}
	pvt.Verbose = verbose
	equil.Verbose = verbose

	// run definition
	dat, err := inp.Read(filepath.Dir(fnamepath), filepath.Base(fnamepath))
	if err != nil {
		chk.Panic("cannot read run file:\n%v", err)
	}
	sv := dat.MakeSolver()

	// calculations
	for i, c := range dat.Cases {
		io.Pf("\n=== case # %d: %s ===\n", i, c.Type)
		pguess := c.Pguess
		if pguess <= 0 {
			pguess = -1
		}
		switch c.Type {

		case "sat":
			psat, rhol, rhov, err := pvt.Psat(dat.Mdl, c.T, c.Xi, sv.Copt)
			if err != nil {
				chk.Panic("saturation pressure failed:\n%v", err)
			}
			io.Pf("Psat = %g Pa\nrhol = %g mol/m3\nrhov = %g mol/m3\n", psat, rhol, rhov)

		case "bubble":
			P, yi, stv, stl, obj, err := sv.BubblePoint(c.T, c.Xi, pguess)
			if err != nil {
				chk.Panic("bubble point failed:\n%v", err)
			}
			io.Pf("P    = %g Pa\nyi   = %v (%v)\nxi   = %v (%v)\nobj  = %g\n", P, yi, stv, c.Xi, stl, obj)

		case "dew":
			P, xi, stl, stv, obj, err := sv.DewPoint(c.T, c.Yi, pguess)
			if err != nil {
				chk.Panic("dew point failed:\n%v", err)
			}
			io.Pf("P    = %g Pa\nxi   = %v (%v)\nyi   = %v (%v)\nobj  = %g\n", P, xi, stl, c.Yi, stv, obj)

		case "flash":
			xi, stl, yi, stv, obj, err := sv.Flash(c.P, c.T)
			if err != nil {
				chk.Panic("flash failed:\n%v", err)
			}
			io.Pf("xi   = %v (%v)\nyi   = %v (%v)\nobj  = %g\n", xi, stl, yi, stv, obj)

		case "solub":
			P := c.P
			if P <= 0 {
				chk.Panic("the solubility parameter needs a positive pressure")
			}
			rhol, stl, err := pvt.Rhol(dat.Mdl, P, c.T, c.Xi, sv.Copt)
			if err != nil {
				chk.Panic("liquid density failed:\n%v", err)
			}
			dT, tol := c.DT, 1e-4
			if dT <= 0 {
				dT = 0.1
			}
			delta, err := pvt.Solubility(dat.Mdl, rhol, c.T, c.Xi, dT, tol, sv.Copt)
			if err != nil {
				chk.Panic("solubility parameter failed:\n%v", err)
			}
			io.Pf("rhol  = %g mol/m3 (%v)\ndelta = %g Pa^1/2\n", rhol, stl, delta)
		}
	}
}
