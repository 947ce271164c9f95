// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data format: a JSON run file defines the
// mixture, the equation of state parameters and the list of equilibrium
// calculations to perform
package inp

import (
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"govle/eos"
	"govle/equil"
)

// Component holds the definition of one mixture component
type Component struct {
	Name string   `json:"name"` // component name; e.g. "CO2"
	Prms dbf.Params `json:"prms"` // equation of state parameters: Tc, Pc, omega
}

// CaseData holds the definition of one calculation
type CaseData struct {
	Type   string    `json:"type"`   // calculation type; e.g. "bubble", "dew", "flash", "sat", "solub"
	T      float64   `json:"T"`      // temperature [K]
	P      float64   `json:"P"`      // pressure [Pa]; flash calculations only
	Pguess float64   `json:"pguess"` // initial pressure guess [Pa]; zero or negative asks for an estimate
	Xi     []float64 `json:"xi"`     // liquid mole fractions
	Yi     []float64 `json:"yi"`     // vapor mole fractions
	DT     float64   `json:"dT"`     // temperature step [K]; solubility parameter only
}

// Data holds all input data for a run
type Data struct {

	// input
	Name       string             `json:"name"`       // name of this run
	Components []*Component       `json:"components"` // the mixture components
	Kij        [][]float64        `json:"kij"`        // binary interaction parameters
	Curve      dbf.Params           `json:"curve"`      // pressure curve sampling parameters
	Inner      dbf.Params           `json:"inner"`      // inner composition loop parameters
	Root       dbf.Params           `json:"root"`       // outer pressure root search parameters
	Method     string             `json:"method"`     // root search method: "bisect", "brent", "newton"
	Psat       map[string]float64 `json:"psat"`       // saturation pressure fallbacks [Pa]
	Cases      []*CaseData        `json:"cases"`      // calculations to perform

	// derived
	Mdl *eos.PengRobinson // the initialised mixture model
}

// caseTypes lists the valid calculation types
var caseTypes = map[string]bool{
	"bubble": true,
	"dew":    true,
	"flash":  true,
	"sat":    true,
	"solub":  true,
}

// Read reads a run definition from a .run JSON file and initialises the
// mixture model
func Read(dir, fn string) (dat *Data, err error) {

	// read and decode
	dat = new(Data)
	b, err := readBytes(filepath.Join(dir, fn))
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, dat); err != nil {
		return nil, chk.Err("cannot parse run file %q:\n%v", fn, err)
	}

	// mixture model
	if len(dat.Components) < 1 {
		return nil, chk.Err("run file %q defines no components", fn)
	}
	names := make([]string, len(dat.Components))
	prms := make([]dbf.Params, len(dat.Components))
	for i, c := range dat.Components {
		names[i] = c.Name
		prms[i] = c.Prms
	}
	dat.Mdl = new(eos.PengRobinson)
	if err = dat.Mdl.Init(names, prms, dat.Kij); err != nil {
		return nil, err
	}

	// validate cases
	for i, c := range dat.Cases {
		if !caseTypes[c.Type] {
			return nil, chk.Err("case # %d has unknown type %q", i, c.Type)
		}
		if c.T <= 0 {
			return nil, chk.Err("case # %d (%s) needs a positive temperature; got %g", i, c.Type, c.T)
		}
		switch c.Type {
		case "bubble", "sat", "solub":
			if err = checkFractions(c.Xi, len(names), i, "xi"); err != nil {
				return nil, err
			}
		case "dew":
			if err = checkFractions(c.Yi, len(names), i, "yi"); err != nil {
				return nil, err
			}
		case "flash":
			if c.P <= 0 {
				return nil, chk.Err("case # %d (flash) needs a positive pressure; got %g", i, c.P)
			}
		}
	}
	return
}

// readBytes reads a whole file, converting the panic raised on a missing or
// unreadable file into an error
func readBytes(path string) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("cannot read %q: %v", path, r)
		}
	}()
	b = io.ReadFile(path)
	return
}

// checkFractions validates one mole fraction vector
func checkFractions(v []float64, n, icase int, label string) error {
	if len(v) != n {
		return chk.Err("case # %d: %s has %d entries but the mixture has %d components", icase, label, len(v), n)
	}
	s := 0.0
	for _, x := range v {
		if x < 0 {
			return chk.Err("case # %d: %s has a negative fraction: %v", icase, label, v)
		}
		s += x
	}
	if math.Abs(s-1.0) > 1e-8 {
		return chk.Err("case # %d: %s sums to %g instead of 1", icase, label, s)
	}
	return nil
}

// MakeSolver builds an equilibrium solver configured from the run data
func (o *Data) MakeSolver() (sv *equil.Solver) {
	sv = equil.NewSolver(o.Mdl)
	sv.Copt.Init(o.Curve)
	sv.Inn.Init(o.Inner)
	sv.Root.Init(o.Root)
	if o.Method != "" {
		sv.Root.Method = o.Method
	}
	for name, psat := range o.Psat {
		sv.PsatFallback[name] = psat
	}
	return
}
