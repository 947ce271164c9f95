// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"govle/eos"
)

// CurveData holds the tuning values for sampling the P-v curve
type CurveData struct {
	MinRhoFrac float64 // fraction of the maximum density used as the smallest sampled density
	RhoInc     float64 // density increment [mol/m³]
	VspaceMax  float64 // largest admissible specific-volume gap [m³/mol]
	MaxRho     float64 // overrides eos.DensityMax when positive [mol/m³]
	Sigma      float64 // gaussian smoothing width for the spline fit, in samples
}

// Init sets default values and then reads prms
func (o *CurveData) Init(prms dbf.Params) {
	o.MinRhoFrac = 1.0 / 500000.0
	o.RhoInc = 5.0
	o.VspaceMax = 1e-4
	o.MaxRho = 0
	o.Sigma = 1e-2
	for _, p := range prms {
		switch p.N {
		case "minrhofrac":
			o.MinRhoFrac = p.V
		case "rhoinc":
			o.RhoInc = p.V
		case "vspacemax":
			o.VspaceMax = p.V
		case "maxrho":
			o.MaxRho = p.V
		case "sigma":
			o.Sigma = p.V
		}
	}
}

// Curve samples the pressure against the specific volume at fixed T and
// composition x. Densities run from MinRhoFrac·rhomax up to rhomax with
// increment RhoInc; where the resulting specific-volume gaps exceed
// VspaceMax the low-density stretch is re-sampled at uniform specific
// volume instead, since uniform density under-resolves large volumes.
// Samples are returned ordered by increasing specific volume.
func Curve(mdl eos.Model, T float64, x []float64, opt CurveData) (vlist, plist []float64, err error) {

	maxrho := opt.MaxRho
	if maxrho <= 0 {
		maxrho = mdl.DensityMax(x, T)
	}
	minrho := maxrho * opt.MinRhoFrac
	if maxrho-minrho < opt.RhoInc {
		err = chk.Err("density range %g is smaller than the increment %g; check DensityMax", maxrho-minrho, opt.RhoInc)
		return
	}

	rholist := make([]float64, 0, int((maxrho-minrho)/opt.RhoInc)+1)
	for r := minrho; r < maxrho; r += opt.RhoInc {
		rholist = append(rholist, r)
	}

	// last index whose specific-volume gap is still too wide
	sw := -1
	for i := 0; i+1 < len(rholist); i++ {
		if 1.0/rholist[i]-1.0/rholist[i+1] > opt.VspaceMax {
			sw = i
		}
	}
	if sw >= 0 && sw+2 < len(rholist) {
		var vres []float64
		for v := 1.0 / rholist[sw+1]; v < 1.0/minrho; v += opt.VspaceMax {
			vres = append(vres, v)
		}
		newr := make([]float64, 0, len(vres)+len(rholist)-sw-2)
		for i := len(vres) - 1; i >= 0; i-- {
			newr = append(newr, 1.0/vres[i])
		}
		newr = append(newr, rholist[sw+2:]...)
		rholist = newr
	}

	n := len(rholist)
	vlist = make([]float64, n)
	plist = make([]float64, n)
	for i, rho := range rholist {
		j := n - 1 - i
		vlist[j] = 1.0 / rho
		plist[j] = mdl.Pressure(rho, T, x)
	}
	return
}
