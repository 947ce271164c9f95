// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"
)

// Spline wraps a smoothed cubic fit of pressure against specific volume,
// together with its P=0 crossings and local extrema. Lifetime is one
// density/saturation query; it is not reused across state points.
type Spline struct {
	V       []float64 // specific volumes, ascending [m³/mol]
	P       []float64 // smoothed pressures [Pa]
	Roots   []float64 // specific volumes where P crosses zero; [NaN] when samples are not finite
	Extrema []float64 // specific volumes of local extrema, capped at the first two
	fit     interp.AkimaSpline
}

// FitSpline smooths plist with a gaussian kernel of width sigma (in
// samples) and fits a cubic spline. Non-finite pressure samples make the
// roots unavailable (single NaN) instead of failing.
func FitSpline(vlist, plist []float64, sigma float64) (o *Spline, err error) {
	if len(vlist) != len(plist) || len(vlist) < 4 {
		err = chk.Err("need at least 4 (v,P) samples to fit a spline; got %d", len(vlist))
		return
	}
	o = new(Spline)
	o.V = vlist
	o.P = gaussianFilter(plist, sigma)
	err = o.fit.Fit(o.V, o.P)
	if err != nil {
		return
	}
	for _, p := range o.P {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			o.Roots = []float64{math.NaN()}
			return
		}
	}
	o.Roots = o.scanRoots()
	o.Extrema = o.scanExtrema()
	return
}

// At evaluates the fitted curve
func (o *Spline) At(v float64) float64 {
	return o.fit.Predict(v)
}

// DerivAt evaluates the slope of the fitted curve
func (o *Spline) DerivAt(v float64) float64 {
	return o.fit.PredictDerivative(v)
}

// Integral computes the definite integral of the fitted curve by Simpson
// quadrature on a fine uniform grid
func (o *Spline) Integral(a, b float64) float64 {
	if a == b {
		return 0
	}
	sign := 1.0
	if b < a {
		a, b = b, a
		sign = -1.0
	}
	xx := utl.LinSpace(a, b, 201)
	yy := make([]float64, len(xx))
	for i, x := range xx {
		yy[i] = o.fit.Predict(x)
	}
	return sign * integrate.Simpsons(xx, yy)
}

// scanRoots locates all zero crossings of the smoothed samples and refines
// each with Brent's method on the fitted curve
func (o *Spline) scanRoots() (roots []float64) {
	for i := 0; i+1 < len(o.V); i++ {
		pa, pb := o.P[i], o.P[i+1]
		if pa == 0 {
			roots = append(roots, o.V[i])
			continue
		}
		if pa*pb < 0 {
			vr, e := brentRoot(func(v float64) float64 { return o.fit.Predict(v) }, o.V[i], o.V[i+1])
			if e != nil {
				warn("spline root refinement failed in [%g,%g]: %v\n", o.V[i], o.V[i+1], e)
				vr = o.V[i] + (o.V[i+1]-o.V[i])*pa/(pa-pb)
			}
			roots = append(roots, vr)
		}
	}
	return
}

// scanExtrema locates sign changes of the fitted slope, keeping the first
// two found (the physically meaningful minimum/maximum pair)
func (o *Spline) scanExtrema() (extrema []float64) {
	dprev := o.fit.PredictDerivative(o.V[0])
	for i := 1; i < len(o.V); i++ {
		d := o.fit.PredictDerivative(o.V[i])
		if dprev*d < 0 {
			ve, e := brentRoot(func(v float64) float64 { return o.fit.PredictDerivative(v) }, o.V[i-1], o.V[i])
			if e != nil {
				ve = (o.V[i-1] + o.V[i]) / 2.0
			}
			extrema = append(extrema, ve)
			if len(extrema) == 2 {
				return
			}
		}
		dprev = d
	}
	return
}

// brentRoot locates a root of f within [xa,xb] with Brent's method,
// converting the panic-based failure report into an error
func brentRoot(f func(float64) float64, xa, xb float64) (x float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("%v", r)
		}
	}()
	x = num.NewBrent(f, nil).Root(xa, xb)
	return
}

// brentMin minimises f over [xa,xb] the same way
func brentMin(f func(float64) float64, xa, xb float64) (x float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("%v", r)
		}
	}()
	x = num.NewBrent(f, nil).Min(xa, xb)
	return
}

// HasNaNRoots tells whether root extraction was skipped on non-finite data
func (o *Spline) HasNaNRoots() bool {
	return len(o.Roots) == 1 && math.IsNaN(o.Roots[0])
}

// gaussianFilter applies a discrete gaussian kernel of width sigma (in
// samples) with the kernel truncated at 4·sigma and edges clamped. With
// sigma below half a sample the kernel collapses to the identity.
func gaussianFilter(y []float64, sigma float64) []float64 {
	out := make([]float64, len(y))
	radius := int(4.0*sigma + 0.5)
	if sigma <= 0 || radius < 1 {
		copy(out, y)
		return out
	}
	kernel := make([]float64, 2*radius+1)
	var ksum float64
	for k := -radius; k <= radius; k++ {
		w := math.Exp(-0.5 * float64(k*k) / (sigma * sigma))
		kernel[k+radius] = w
		ksum += w
	}
	for i := range y {
		var s float64
		for k := -radius; k <= radius; k++ {
			j := i + k
			if j < 0 {
				j = 0
			}
			if j >= len(y) {
				j = len(y) - 1
			}
			s += kernel[k+radius] * y[j]
		}
		out[i] = s / ksum
	}
	return out
}

// interpRoot checks an estimated specific-volume root against the raw
// samples and re-estimates it from the nearest sign change when it falls
// outside the bracketing pair. The cubic fit can misplace the root on the
// near-vertical liquid branch.
func interpRoot(v0 float64, vlist, plist []float64) float64 {

	// locate up to three sign changes
	var brackets []int
	sign := 1.0
	start := 0
	for len(brackets) < 3 {
		found := -1
		for i := start; i < len(plist); i++ {
			if plist[i]*sign < 0 {
				found = i
				break
			}
		}
		if found <= 0 {
			break
		}
		brackets = append(brackets, found)
		start = found
		sign = -sign
	}
	if len(brackets) == 0 {
		warn("no sign change found in pressure samples; keeping v=%g\n", v0)
		return v0
	}

	// nearest bracket to the estimate
	ind := brackets[0]
	best := math.Abs(vlist[ind] - v0)
	for _, i := range brackets[1:] {
		if d := math.Abs(vlist[i] - v0); d < best {
			best = d
			ind = i
		}
	}

	if v0 < vlist[ind-1] || v0 > vlist[ind] {
		m := (plist[ind] - plist[ind-1]) / (vlist[ind] - vlist[ind-1])
		return vlist[ind] - plist[ind]/m
	}
	return v0
}
