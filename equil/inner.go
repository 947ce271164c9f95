// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"govle/pvt"
)

// solveYi finds the vapor fractions in equilibrium with liquid fractions xi
// at P and T, by successive substitution on the predicted mole numbers. The
// sum of mole numbers converges to one only at the equilibrium pressure, so
// the loop stops when the prediction reproduces itself, not when it sums to
// one. Compositions that fail to produce a vapor root, the trivial solution
// yi=xi and oscillation between two phase tags are each escaped once.
func (o *Solver) solveYi(yi, xi, phil []float64, P, T float64) (yires, phiv []float64, stv pvt.State, err error) {

	n := len(yi)
	yi = normalized(yi)
	yiTotal := []float64{1.0}
	checkVapor := true   // search for a vapor composition only once
	checkTrivial := true // escape the trivial solution only once
	warn("    solve yi: P=%g Pa, T=%g K, xi=%v\n", P, T, xi)

	var yiTmp, yinew, yi2, phiv1, phiv2 []float64
	var stv1, stv2 pvt.State
	converged := false
	exhausted := false

	for z := 0; ; z++ {
		if z >= o.Inn.MaxIterYi {
			exhausted = true
			break
		}
		yiTmp = normalized(yi)

		phiv1, _, stv1, err = pvt.Phiv(o.Mdl, P, T, yiTmp, o.Copt)
		if err != nil {
			return
		}

		switch {
		case (pvt.HasNaN(phiv1) || stv1 == pvt.Liquid) && checkVapor:
			checkVapor = false
			if n == 2 && allPositive(yiTmp) {
				warn("    composition does not produce a vapor; scanning for one\n")
				var alt []float64
				if alt, err = o.findNewYi(P, T, phil, xi); err != nil {
					warn("    %v\n", err)
					return yiTmp, nanVec(n), pvt.NoPhase, nil
				}
				if phiv1, _, stv1, err = pvt.Phiv(o.Mdl, P, T, alt, o.Copt); err != nil {
					return
				}
				yinew = Yi(xi, phil, phiv1)
			} else {
				yinew = cloneVec(yi)
			}

		case sumAbsDiff(xi, yiTmp) < 1e-5 && checkTrivial:
			checkTrivial = false
			var alt []float64
			if n == 2 && allPositive(yiTmp) {
				warn("    composition reproduces the liquid; scanning for another\n")
				if alt, err = o.findNewYi(P, T, phil, xi); err != nil {
					warn("    %v\n", err)
					return yiTmp, nanVec(n), pvt.NoPhase, nil
				}
			} else {
				alt = resetFractions(n)
			}
			if phiv1, _, stv1, err = pvt.Phiv(o.Mdl, P, T, alt, o.Copt); err != nil {
				return
			}
			yinew = Yi(xi, phil, phiv1)

		default:
			yinew = Yi(xi, phil, phiv1)
		}

		zeroNaNs(yinew)
		yi2 = normalized(yinew)
		if phiv2, _, stv2, err = pvt.Phiv(o.Mdl, P, T, yi2, o.Copt); err != nil {
			return
		}

		// escape oscillation between two phase tags by bisecting the
		// bouncing fractions
		m := len(yiTotal)
		if m > 3 {
			t1 := math.Abs(sumFloats(yinew)-yiTotal[m-2]) + math.Abs(yiTotal[m-1]-yiTotal[m-3])
			if t1 < math.Abs(sumFloats(yinew)-yiTotal[m-1]) && stv1 != stv2 {
				lo, hi := yiTmp[0], yi2[0]
				if lo > hi {
					lo, hi = hi, lo
				}
				var objb float64
				if yi2, objb, stv2, err = o.bracketYi(P, T, phil, xi, lo, hi); err != nil {
					return
				}
				if phiv2, _, stv2, err = pvt.Phiv(o.Mdl, P, T, yi2, o.Copt); err != nil {
					return
				}
				o.yiWarm = cloneVec(yi2)
				warn("    bracketed oscillating fractions: yi=%v, obj=%g\n", yi2, objb)
				converged = true
				break
			}
		}

		if math.Abs(sumFloats(yinew)-yiTotal[m-1]) < o.Inn.TolYi {
			ind := smallestFraction(yiTmp)
			if ind >= 0 && math.Abs(yi2[ind]-yiTmp[ind])/yiTmp[ind] < o.Inn.TolYi {
				o.yiWarm = cloneVec(yi2)
				warn("    converged yi=%v\n", yi2)
				converged = true
				break
			}
		}
		yiTotal = append(yiTotal, sumFloats(yinew))
		yi = yinew
	}

	if exhausted {
		yi2 = normalized(yinew)
		rel := relChange(yi2, yiTmp)
		warn("    more than %d iterations; error on smallest fraction %g%%\n", o.Inn.MaxIterYi, rel*100)
		if !converged && n == 2 {
			if rel > 0.1 {
				if alt, e := o.findNewYi(P, T, phil, xi); e == nil {
					yi2 = alt
				}
			}
			// last resort: minimise the single-dof objective
			y1, e := brentMin(func(y1 float64) float64 {
				ob, _, e2 := o.objYi(y1, P, T, phil, xi)
				if e2 != nil {
					return math.MaxFloat64
				}
				return ob
			}, 1e-3, 1.0-1e-3)
			if e == nil && !math.IsNaN(y1) && y1 > 0 && y1 < 1 {
				yi2 = []float64{y1, 1.0 - y1}
			}
			var ob float64
			if ob, _, err = o.objYi(yi2[0], P, T, phil, xi); err != nil {
				return
			}
			warn("    vapor fractions from minimisation: yi=%v, obj=%g\n", yi2, ob)
			if ob > o.Inn.TolYi && rel > 0.1 {
				warn("    could not converge vapor fractions\n")
				return yi2, nanVec(n), pvt.NoPhase, nil
			}
			if phiv2, _, stv2, err = pvt.Phiv(o.Mdl, P, T, yi2, o.Copt); err != nil {
				return
			}
		}
	}
	return yi2, phiv2, stv2, nil
}

// solveXi finds the liquid fractions in equilibrium with vapor fractions yi
// at P and T, the successive substitution mirror of solveYi
func (o *Solver) solveXi(xi, yi, phiv []float64, P, T float64) (xires, phil []float64, stl pvt.State, err error) {

	n := len(xi)
	xi = normalized(xi)
	xiTotal := []float64{1.0}
	warn("    solve xi: P=%g Pa, T=%g K, yi=%v\n", P, T, yi)

	var xiTmp, xinew, xi2 []float64
	converged := false

	for z := 0; z < o.Inn.MaxIterXi; z++ {
		xiTmp = normalized(xi)

		if phil, _, stl, err = pvt.Phil(o.Mdl, P, T, xiTmp, o.Copt); err != nil {
			return
		}

		if pvt.HasNaN(phil) || stl == pvt.Vapor {
			if n == 2 && allPositive(xiTmp) {
				warn("    composition does not produce a liquid; scanning for one\n")
				var alt []float64
				if alt, err = o.findNewXi(P, T, phiv, yi); err != nil {
					return
				}
				if phil, _, stl, err = pvt.Phil(o.Mdl, P, T, alt, o.Copt); err != nil {
					return
				}
				xinew = Xi(yi, phiv, phil)
			} else {
				xinew = cloneVec(xi)
			}
			if pvt.HasNaN(phil) {
				err = chk.Err("liquid fugacity coefficients are NaN at P=%g Pa, T=%g K", P, T)
				return
			}
		} else {
			xinew = Xi(yi, phiv, phil)
		}
		zeroNaNs(xinew)

		m := len(xiTotal)
		if math.Abs(sumFloats(xinew)-xiTotal[m-1]) < o.Inn.TolXi {
			ind := smallestFraction(xiTmp)
			xi2 = normalized(xinew)
			if ind >= 0 && math.Abs(xi2[ind]-xiTmp[ind])/xiTmp[ind] < o.Inn.TolXi {
				o.xiWarm = cloneVec(xiTmp)
				warn("    converged xi=%v\n", xiTmp)
				converged = true
				break
			}
		}
		xiTotal = append(xiTotal, sumFloats(xinew))
		xi = xinew
	}

	if !converged {
		xi2 = normalized(xinew)
		rel := relChange(xi2, xiTmp)
		warn("    more than %d iterations; error on smallest fraction %g%%\n", o.Inn.MaxIterXi, rel*100)
		if n == 2 {
			if rel > 0.1 {
				if alt, e := o.findNewXi(P, T, phiv, yi); e == nil {
					xi2 = alt
				}
			}
			x1, e := brentMin(func(x1 float64) float64 {
				ob, _, e2 := o.objXi(x1, P, T, phiv, yi)
				if e2 != nil {
					return math.MaxFloat64
				}
				return ob
			}, 1e-3, 1.0-1e-3)
			if e == nil && !math.IsNaN(x1) && x1 > 0 && x1 < 1 {
				xi2 = []float64{x1, 1.0 - x1}
			}
			var ob float64
			if ob, _, err = o.objXi(xi2[0], P, T, phiv, yi); err != nil {
				return
			}
			warn("    liquid fractions from minimisation: xi=%v, obj=%g\n", xi2, ob)
		}
		xiTmp = xi2
		if phil, _, stl, err = pvt.Phil(o.Mdl, P, T, xiTmp, o.Copt); err != nil {
			return
		}
	}
	return xiTmp, phil, stl, nil
}

// findNewYi scans binary vapor fractions for the estimate with the most
// self-consistent fugacity ratio, preferring compositions that produce a
// vapor-like root
func (o *Solver) findNewYi(P, T float64, phil, xi []float64) (yi []float64, err error) {

	const npoints = 30
	ys := utl.LinSpace(0.01, 0.99, npoints)

	bestY, bestObj := math.NaN(), math.Inf(1)
	bestVaporY, bestVaporObj := math.NaN(), math.Inf(1)

	for _, y1 := range ys {
		yi1 := []float64{y1, 1.0 - y1}
		phiv1, _, stv1, e := pvt.Phiv(o.Mdl, P, T, yi1, o.Copt)
		if e != nil {
			return nil, e
		}
		yinew := Yi(xi, phil, phiv1)
		yi2 := normalized(yinew)
		phiv2, _, _, e := pvt.Phiv(o.Mdl, P, T, yi2, o.Copt)
		if e != nil {
			return nil, e
		}
		ob := math.Abs(yi1[0]*phiv1[0]/(yi1[1]*phiv1[1]) - yi2[0]*phiv2[0]/(yi2[1]*phiv2[1]))
		if math.IsNaN(ob) {
			continue
		}
		if ob < bestObj {
			bestY, bestObj = y1, ob
		}
		if stv1.IsVaporLike() && ob < bestVaporObj {
			bestVaporY, bestVaporObj = y1, ob
		}
	}

	if !math.IsNaN(bestVaporY) {
		bestY, bestObj = bestVaporY, bestVaporObj
	}
	if math.IsNaN(bestY) {
		return nil, chk.Err("no valid vapor fraction found at P=%g Pa, T=%g K", P, T)
	}
	warn("    new guess y1=%g, obj=%g\n", bestY, bestObj)
	return []float64{bestY, 1.0 - bestY}, nil
}

// bracketYi bisects the first vapor fraction between lo and hi, where the
// two bounds produce different phase tags, and returns the side that still
// produces a vapor
func (o *Solver) bracketYi(P, T float64, phil, xi []float64, lo, hi float64) (yi []float64, obj float64, stv pvt.State, err error) {

	const maxit = 50
	const tol = 1e-7

	bounds := [2]float64{lo, hi}
	var objB [2]float64
	var stB [2]pvt.State
	if objB[0], stB[0], err = o.objYi(bounds[0], P, T, phil, xi); err != nil {
		return
	}
	if objB[1], stB[1], err = o.objYi(bounds[1], P, T, phil, xi); err != nil {
		return
	}

	if stB[0] == stB[1] {
		warn("    both fractions produce phase %v; keeping the upper bound\n", stB[0])
	} else {
		highVapor := false
		for i := 0; i < maxit; i++ {
			y1 := (bounds[0] + bounds[1]) / 2.0
			var ob float64
			var st pvt.State
			if ob, st, err = o.objYi(y1, P, T, phil, xi); err != nil {
				return
			}
			ind := 1
			if !highVapor {
				if stB[0] == st {
					ind = 0
				}
				if st == pvt.Vapor && ob > 1.0/tol {
					// the objective blows up on the vapor side; hunt
					// for the smallest objective instead
					highVapor = true
					bounds[0], objB[0], stB[0] = bounds[ind], objB[ind], stB[ind]
					ind = 1
				}
			} else if ob < objB[0] {
				ind = 0
			}
			bounds[ind], objB[ind], stB[ind] = y1, ob, st
			if math.Abs(bounds[1]-bounds[0]) < tol {
				break
			}
		}
	}

	ind := 1
	switch {
	case stB[0] == pvt.Vapor && stB[1] != pvt.Vapor:
		ind = 0
	case stB[1] == pvt.Vapor && stB[0] != pvt.Vapor:
		ind = 1
	case objB[0] <= objB[1]:
		ind = 0
	}
	y1 := bounds[ind]
	obj, stv = objB[ind], stB[ind]
	yi = []float64{y1, 1.0 - y1}
	return
}

// objYi measures how far a binary vapor guess is from reproducing itself
// through the fugacity coefficient prediction
func (o *Solver) objYi(y1, P, T float64, phil, xi []float64) (obj float64, stv pvt.State, err error) {
	yi := []float64{y1, 1.0 - y1}
	normalize(yi)
	phiv, _, stv, err := pvt.Phiv(o.Mdl, P, T, yi, o.Copt)
	if err != nil {
		return
	}
	yinew := Yi(xi, phil, phiv)
	yi2 := normalized(yinew)
	phiv2, _, _, err := pvt.Phiv(o.Mdl, P, T, yi2, o.Copt)
	if err != nil {
		return
	}
	for i := range yinew {
		obj += math.Abs(yinew[i] - xi[i]*phil[i]/phiv2[i])
	}
	return
}

// findNewXi scans binary liquid fractions for the estimate with the
// smallest change in predicted mole numbers between two substitutions,
// preferring compositions that produce a liquid-like root
func (o *Solver) findNewXi(P, T float64, phiv, yi []float64) (xi []float64, err error) {

	const npoints = 30
	xs := utl.LinSpace(0.001, 0.999, npoints)

	bestX, bestObj := math.NaN(), math.Inf(1)
	bestLiquX, bestLiquObj := math.NaN(), math.Inf(1)

	for _, x1 := range xs {
		ob, stl2, e := o.objXi(x1, P, T, phiv, yi)
		if e != nil {
			return nil, e
		}
		if math.IsNaN(ob) {
			continue
		}
		if ob < bestObj {
			bestX, bestObj = x1, ob
		}
		if stl2.IsLiquidLike() && ob < bestLiquObj {
			bestLiquX, bestLiquObj = x1, ob
		}
	}

	if !math.IsNaN(bestLiquX) {
		bestX, bestObj = bestLiquX, bestLiquObj
	}
	if math.IsNaN(bestX) {
		return nil, chk.Err("no valid liquid fraction found at P=%g Pa, T=%g K", P, T)
	}
	warn("    new guess x1=%g, obj=%g\n", bestX, bestObj)
	return []float64{bestX, 1.0 - bestX}, nil
}

// objXi measures the change in predicted liquid mole numbers between two
// successive substitutions for a binary liquid guess
func (o *Solver) objXi(x1, P, T float64, phiv, yi []float64) (obj float64, stl pvt.State, err error) {
	xi := []float64{x1, 1.0 - x1}
	phil, _, _, err := pvt.Phil(o.Mdl, P, T, xi, o.Copt)
	if err != nil {
		return
	}
	xinew := Xi(yi, phiv, phil)
	total1 := sumFloats(xinew)

	xi2 := normalized(xinew)
	phil2, _, stl, err := pvt.Phil(o.Mdl, P, T, xi2, o.Copt)
	if err != nil {
		return
	}
	total2 := sumFloats(Xi(yi, phiv, phil2))
	obj = math.Abs(total1 - total2)
	return
}

// auxiliary /////////////////////////////////////////////////////////////////

// relChange measures the relative change of the smallest positive fraction
// between two composition iterates; without a positive fraction the change
// counts as total
func relChange(a, b []float64) float64 {
	ind := smallestFraction(b)
	if ind < 0 {
		return 1.0
	}
	return math.Abs(a[ind]-b[ind]) / b[ind]
}

func sumAbsDiff(a, b []float64) (s float64) {
	for i := range a {
		s += math.Abs(a[i] - b[i])
	}
	return
}

func allPositive(v []float64) bool {
	for _, x := range v {
		if x <= 0 {
			return false
		}
	}
	return true
}

func zeroNaNs(v []float64) {
	for i, x := range v {
		if math.IsNaN(x) {
			v[i] = 0
		}
	}
}

func nanVec(n int) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}
	return
}

// resetFractions returns a deterministic non-uniform composition used to
// restart the substitution away from the trivial solution
func resetFractions(n int) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = float64(i + 1)
	}
	normalize(v)
	return
}
