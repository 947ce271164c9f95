// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"govle/pvt"
)

// invphi is the inverse golden ratio used for deterministic jumps inside a
// pressure bracket
const invphi = 0.6180339887498949

func goldenPoint(lo, hi float64) float64 {
	return lo + invphi*(hi-lo)
}

// secantRoot extrapolates the zero crossing of a line through two samples
func secantRoot(x0, f0, x1, f1 float64) float64 {
	slope := (f1 - f0) / (x1 - x0)
	return x1 - f1/slope
}

// prangeXi brackets the bubble point pressure for liquid fractions xi: the
// pressure objective is positive at plo and negative at phi, and pini is a
// secant estimate of the crossing. The vapor fractions converged during the
// search are kept as the warm start.
func (o *Solver) prangeXi(T float64, xi, yi []float64) (plo, phi, pini float64, err error) {

	const pmin0 = 10000.0
	const maxit = 200
	const ptol = 1e-2

	// bracket from pmin0 up to the local max of the liquid branch
	vlist, plist, err := pvt.Curve(o.Mdl, T, xi, o.Copt)
	if err != nil {
		return
	}
	spl, err := pvt.FitSpline(vlist, plist, o.Copt.Sigma)
	if err != nil {
		return
	}
	pmax := 100000.0
	if len(spl.Extrema) > 0 {
		pmax = spl.At(spl.Extrema[0])
		for _, v := range spl.Extrema[1:] {
			pmax = math.Max(pmax, spl.At(v))
		}
	}
	plo, phi = pmin0, pmax

	var objlo, objhi float64
	yiRange := cloneVec(yi)
	flagLiqu := false

	// walk the lower bound up until the objective is positive with a
	// liquid root present
	p := plo
	found := false
	for z := 0; z < maxit; z++ {
		phil, _, stl, e := pvt.Phil(o.Mdl, p, T, xi, o.Copt)
		if e != nil {
			err = e
			return
		}
		if pvt.HasNaN(phil) {
			warn("estimated minimum pressure %g Pa is too low\n", p)
			plo += pmin0
			p = plo
			continue
		}
		if stl.IsLiquidLike() {
			var phivMin []float64
			if yiRange, phivMin, _, err = o.solveYi(yiRange, xi, phil, p, T); err != nil {
				return
			}
			obj := nanSum(Yi(xi, phil, phivMin)) - 1.0
			switch {
			case pvt.HasNaN(yiRange):
				warn("minimum pressure estimate %g Pa produces NaN fractions\n", p)
				plo, objlo = p, obj
				p /= 2.0
			case sumAbsDiff(xi, yiRange) < 1e-5:
				flagLiqu = true
				phi, objhi = p, obj
				warn("minimum pressure estimate %g Pa reproduces xi; obj=%g\n", p, obj)
				p *= 0.75
			case obj > 0:
				plo, objlo = p, obj
				warn("estimated minimum pressure %g Pa, obj=%g\n", p, obj)
				found = true
			case objlo < 0:
				warn("estimated minimum pressure %g Pa is too high, obj=%g\n", p, obj)
				phi, objhi = p, obj
				p /= 2.0
			default:
				p = goldenPoint(plo, phi)
			}
		} else {
			warn("estimated minimum pressure %g Pa produced a vapor\n", p)
			plo = p
			p = 2.0 * plo
		}
		if found {
			break
		}

		if plo > phi {
			plo, objlo = phi, objhi
		}
		if (p < plo && plo != phi) || (flagLiqu && p > phi) {
			p = goldenPoint(plo, phi)
		}
		if p <= 0 {
			err = chk.Err("pressure dropped to %g Pa; composition %v at T=%g K is supercritical without a coexistent fluid", p, xi, T)
			return
		}
	}
	if !found {
		err = chk.Err("no minimum pressure with a liquid root found within %d iterations", maxit)
		return
	}

	if phi <= plo {
		phi = plo * 1.1
		objhi = 0
	}

	// walk the upper bound until the objective changes sign
	flagMin := false
	p = phi
	parr := []float64{phi}
	objarr := []float64{objhi}
	found = false
	for z := 0; z < maxit && !found; z++ {
		phil, _, _, e := pvt.Phil(o.Mdl, p, T, xi, o.Copt)
		if e != nil {
			err = e
			return
		}
		if pvt.HasNaN(phil) {
			err = chk.Err("liquid fugacity coefficients are NaN at P=%g Pa; the pressure may be too high", p)
			return
		}
		var phivMax []float64
		var stv pvt.State
		if yiRange, phivMax, stv, err = o.solveYi(yiRange, xi, phil, p, T); err != nil {
			return
		}
		obj := nanSum(Yi(xi, phil, phivMax)) - 1.0

		switch {
		case !stv.IsVaporLike() || pvt.HasNaN(yiRange):
			flagLiqu = true
			phi, objhi = p, obj
			warn("new maximum pressure %g Pa is not a vapor (%v); range [%g,%g]\n", p, stv, plo, phi)
			p = (phi-plo)/2.0 + plo
		case obj < 0:
			if phi < p {
				plo, objlo = phi, objhi
			}
			phi, objhi = p, obj
			pini = secantRoot(plo, objlo, phi, objhi)
			warn("pressure range [%g,%g] Pa bracketed; initial guess %g Pa\n", plo, phi, pini)
			found = true
		default:
			parr = append(parr, p)
			objarr = append(objarr, obj)
			nn := len(objarr)
			switch {
			case flagLiqu:
				plo, objlo = p, obj
				p = (phi-plo)/2.0 + plo
				warn("new minimum pressure %g Pa, obj=%g\n", plo, objlo)
			case (z > 0 && objarr[nn-1] > 1.1*objarr[nn-2]) || flagMin:
				// the objective went through a positive minimum
				if !flagMin {
					flagMin = true
					plo, objlo = phi, objhi
				}
				if closestGap(parr) < ptol {
					err = chk.Err("pressure objective has a positive minimum near %g Pa (obj=%g); no equilibrium pressure exists", p, obj)
					return
				}
				if obj > objlo {
					phi, objhi = p, obj
					p = (phi-plo)/2.0 + plo
				} else {
					p = quadJump(parr, objarr, plo, phi)
				}
				if p < plo {
					p = goldenPoint(plo, phi)
				}
			default:
				if phi < p {
					plo, objlo = phi, objhi
				}
				phi, objhi = p, obj
				p = math.Max(secantRoot(plo, objlo, phi, objhi), 2.0*phi)
				warn("new maximum pressure %g Pa, obj=%g\n", phi, objhi)
			}
		}
	}
	if !found {
		err = chk.Err("no sign change of the bubble objective found within %d iterations", maxit)
		return
	}

	o.yiWarm = cloneVec(yiRange)
	return
}

// prangeYi brackets the dew point pressure for vapor fractions yi: the
// objective is negative at plo and positive at phi. The liquid fractions
// converged during the search are kept as the warm start.
func (o *Solver) prangeYi(T float64, xi, yi []float64) (plo, phi, pini float64, err error) {

	const maxit = 200

	vlist, plist, err := pvt.Curve(o.Mdl, T, yi, o.Copt)
	if err != nil {
		return
	}
	spl, err := pvt.FitSpline(vlist, plist, o.Copt.Sigma)
	if err != nil {
		return
	}

	var pmin, pmax float64
	if len(spl.Extrema) > 1 {
		pmin, pmax = spl.At(spl.Extrema[0]), spl.At(spl.Extrema[0])
		for _, v := range spl.Extrema[1:] {
			pmin = math.Min(pmin, spl.At(v))
			pmax = math.Max(pmax, spl.At(v))
		}
	} else {
		pmin = plist[0]
		for _, q := range plist[1:] {
			pmin = math.Min(pmin, q)
		}
		if pmin < 0 {
			pmin = 100.0
		}
		pmax = 10.0 * pmin
	}
	plo, phi = pmin, pmax

	var objlo, objhi float64
	xiRange := cloneVec(xi)
	flagVapor := false

	p := plo
	found := false
	for i := 0; i < maxit && !found; i++ {
		phiv, _, stv, e := pvt.Phiv(o.Mdl, p, T, yi, o.Copt)
		if e != nil {
			err = e
			return
		}
		var phil []float64
		if xiRange, phil, _, err = o.solveXi(xiRange, yi, phiv, p, T); err != nil {
			return
		}
		obj := nanSum(Xi(yi, phiv, phil)) - 1.0

		if i == 0 {
			if !stv.IsVaporLike() {
				err = chk.Err("no vapor is produced at the minimum pressure %g Pa", p)
				return
			}
			objlo = obj
			warn("estimated minimum pressure %g Pa, obj=%g\n", p, objlo)
			p = phi
			continue
		}
		if i == 1 {
			objhi = obj
			warn("estimated maximum pressure %g Pa, obj=%g\n", p, objhi)
		}

		switch {
		case !stv.IsVaporLike():
			flagVapor = true
			phi, objhi = p, obj
			warn("new maximum pressure %g Pa does not produce a vapor (%v)\n", phi, stv)
			p = (phi-plo)/2.0 + plo
		case obj > 0:
			if phi < p {
				plo, objlo = phi, objhi
			}
			phi, objhi = p, obj
			pini = secantRoot(plo, objlo, phi, objhi)
			warn("pressure range [%g,%g] Pa bracketed; initial guess %g Pa\n", plo, phi, pini)
			found = true
		case flagVapor:
			plo, objlo = p, obj
			p = (phi-plo)/2.0 + plo
			warn("new minimum pressure %g Pa, obj=%g\n", plo, objlo)
		default:
			if phi < p {
				plo, objlo = phi, objhi
			}
			phi, objhi = p, obj
			p = math.Max(secantRoot(plo, objlo, phi, objhi), 2.0*phi)
			warn("new maximum pressure %g Pa, obj=%g\n", phi, objhi)
		}
	}
	if !found {
		err = chk.Err("no sign change of the dew objective found within %d iterations", maxit)
		return
	}

	o.xiWarm = cloneVec(xiRange)
	return
}

// closestGap returns the smallest distance between the last sample and the
// earlier ones
func closestGap(v []float64) (gap float64) {
	gap = math.Inf(1)
	last := v[len(v)-1]
	for _, x := range v[:len(v)-1] {
		gap = math.Min(gap, math.Abs(last-x))
	}
	return
}

// quadJump fits a quadratic to the objective samples inside [lo,hi] and
// returns its root within the bracket, falling back to a golden section
// point when the fit has no usable root
func quadJump(parr, objarr []float64, lo, hi float64) float64 {

	type pt struct{ x, y float64 }
	var pts []pt
	for i := range parr {
		if parr[i] >= lo && parr[i] <= hi {
			pts = append(pts, pt{parr[i], objarr[i]})
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })

	// drop duplicated abscissae
	var xs, ys []float64
	for i, q := range pts {
		if i > 0 && q.x == pts[i-1].x {
			continue
		}
		xs = append(xs, q.x)
		ys = append(ys, q.y)
	}
	if len(xs) <= 3 {
		return goldenPoint(lo, hi)
	}

	// least squares fit of obj = c0 + c1 p + c2 p^2
	A := mat.NewDense(len(xs), 3, nil)
	for i, x := range xs {
		A.Set(i, 0, 1.0)
		A.Set(i, 1, x)
		A.Set(i, 2, x*x)
	}
	b := mat.NewVecDense(len(ys), ys)
	var c mat.VecDense
	if err := c.SolveVec(A, b); err != nil {
		return goldenPoint(lo, hi)
	}
	c0, c1, c2 := c.AtVec(0), c.AtVec(1), c.AtVec(2)
	if c2 == 0 {
		return goldenPoint(lo, hi)
	}
	disc := c1*c1 - 4.0*c2*c0
	if disc < 0 {
		return goldenPoint(lo, hi)
	}
	sq := math.Sqrt(disc)
	for _, r := range []float64{(-c1 - sq) / (2.0 * c2), (-c1 + sq) / (2.0 * c2)} {
		if r > lo && r < hi {
			return r
		}
	}
	return goldenPoint(lo, hi)
}
