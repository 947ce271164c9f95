// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package equil implements vapor-liquid equilibrium calculations on top of
// the pvt layer: bubble and dew point solvers with nested composition and
// pressure loops, and an isothermal flash for binary mixtures.
package equil

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"

	"govle/eos"
	"govle/pvt"
)

// Verbose enables diagnostic printing of the solver iterations
var Verbose bool

func warn(format string, args ...interface{}) {
	if Verbose {
		io.Pfyel(format, args...)
	}
}

// InnerData holds numerical parameters of the inner composition loops
type InnerData struct {
	MaxIterYi int     // iteration cap when solving vapor fractions
	MaxIterXi int     // iteration cap when solving liquid fractions
	TolYi     float64 // tolerance on the vapor mole-number sum
	TolXi     float64 // tolerance on the liquid mole-number sum
}

// Init initialises the inner loop parameters with default values
func (o *InnerData) Init(prms dbf.Params) {
	o.MaxIterYi = 30
	o.MaxIterXi = 20
	o.TolYi = 1e-8
	o.TolXi = 1e-6
	for _, p := range prms {
		switch p.N {
		case "maxityi":
			o.MaxIterYi = int(p.V)
		case "maxitxi":
			o.MaxIterXi = int(p.V)
		case "tolyi":
			o.TolYi = p.V
		case "tolxi":
			o.TolXi = p.V
		}
	}
}

// RootData holds parameters of the outer pressure root search
type RootData struct {
	Method  string  // one of "bisect", "brent", "newton"
	MaxIter int     // iteration cap for bisection
	Tol     float64 // absolute pressure tolerance [Pa]
}

// Init initialises the root search parameters with default values
func (o *RootData) Init(prms dbf.Params) {
	o.Method = "bisect"
	o.MaxIter = 100
	o.Tol = 10.0
	for _, p := range prms {
		switch p.N {
		case "maxit":
			o.MaxIter = int(p.V)
		case "tol":
			o.Tol = p.V
		}
	}
}

// DefaultPsatFallback returns placeholder saturation pressures [Pa] for
// components that are above their critical temperature, where the
// equal-area construction has no solution
func DefaultPsatFallback() map[string]float64 {
	return map[string]float64{
		"CO2":    10377000.0,
		"N2":     7377000.0,
		"CH4":    6377000.0,
		"CH3CH3": 7377000.0,
	}
}

// genericPsat is used for supercritical components with no fallback entry
const genericPsat = 7377000.0

// Solver computes phase equilibria for one mixture model. It keeps the
// converged compositions of the previous call as warm starts for the next
// one, so a Solver must not be shared between goroutines.
type Solver struct {

	// input
	Mdl  eos.Model     // the mixture equation of state
	Copt pvt.CurveData // pressure curve sampling parameters
	Inn  InnerData     // inner composition loop parameters
	Root RootData      // outer pressure root search parameters

	// saturation pressure placeholders for supercritical components
	PsatFallback map[string]float64

	// warm starts from the previous converged solve
	yiWarm []float64
	xiWarm []float64
}

// NewSolver returns a Solver with default numerical parameters
func NewSolver(mdl eos.Model) (o *Solver) {
	o = new(Solver)
	o.Mdl = mdl
	o.Copt.Init(nil)
	o.Inn.Init(nil)
	o.Root.Init(nil)
	o.PsatFallback = DefaultPsatFallback()
	return
}

// purePsat computes the saturation pressure of pure component i, falling
// back to a placeholder value when the component is supercritical
func (o *Solver) purePsat(T float64, i, n int) (psat float64, err error) {
	ui := make([]float64, n)
	ui[i] = 1.0
	psat, _, _, err = pvt.Psat(o.Mdl, T, ui, o.Copt)
	if err != nil {
		return
	}
	if math.IsNaN(psat) {
		name := o.Mdl.Components()[i]
		var ok bool
		if psat, ok = o.PsatFallback[name]; !ok {
			psat = genericPsat
			warn("component %q is above its critical point at T=%g K; assuming Psat=%g Pa\n", name, T, psat)
		}
	}
	return
}

// Yi predicts vapor mole numbers from liquid fractions and the two sets of
// fugacity coefficients. The sum equals one only at the equilibrium pressure.
func Yi(xi, phil, phiv []float64) (yi []float64) {
	yi = make([]float64, len(xi))
	for i, x := range xi {
		if x != 0 {
			yi[i] = x * phil[i] / phiv[i]
		}
	}
	return
}

// Xi predicts liquid mole numbers from vapor fractions and the two sets of
// fugacity coefficients
func Xi(yi, phiv, phil []float64) (xi []float64) {
	xi = make([]float64, len(yi))
	for i, y := range yi {
		if y != 0 {
			xi[i] = y * phiv[i] / phil[i]
		}
	}
	return
}

// BubblePoint computes the equilibrium pressure and vapor composition for a
// given liquid composition and temperature. A negative pguess requests an
// estimate from the pure component saturation pressures. On success stv and
// stl tag the vapor and liquid phases found and obj is the residual of the
// pressure objective.
func (o *Solver) BubblePoint(T float64, xi []float64, pguess float64) (P float64, yi []float64, stv, stl pvt.State, obj float64, err error) {

	n := len(xi)
	psat := make([]float64, n)
	for i := 0; i < n; i++ {
		if psat[i], err = o.purePsat(T, i, n); err != nil {
			return
		}
	}

	P = pguess
	if pguess < 0 {
		s := 0.0
		for i := 0; i < n; i++ {
			s += xi[i] / psat[i]
		}
		P = 1.0 / s
	}

	if o.yiWarm == nil || pvt.HasNaN(o.yiWarm) {
		o.yiWarm = make([]float64, n)
		for i := 0; i < n; i++ {
			o.yiWarm[i] = xi[i] * psat[i] / P
		}
		normalize(o.yiWarm)
	}
	yi = o.yiWarm

	plo, phi, pini, err := o.prangeXi(T, xi, yi)
	if err != nil {
		return
	}

	P, err = o.rootSolve(func(p float64) (float64, error) {
		return o.solvePxiT(p, T, xi)
	}, plo, phi, pini)
	if err != nil {
		return
	}

	// final evaluation with a tightened inner loop
	tolyi := o.Inn.TolYi
	if tolyi > 1e-10 {
		o.Inn.TolYi = 1e-10
	}
	obj, err = o.solvePxiT(P, T, xi)
	o.Inn.TolYi = tolyi
	if err != nil {
		return
	}

	yi = o.yiWarm
	_, _, stl, err = pvt.Phil(o.Mdl, P, T, xi, o.Copt)
	if err != nil {
		return
	}
	_, _, stv, err = pvt.Phiv(o.Mdl, P, T, yi, o.Copt)
	warn("bubble point: P=%g Pa, yi=%v, obj=%g\n", P, yi, obj)
	return
}

// DewPoint computes the equilibrium pressure and liquid composition for a
// given vapor composition and temperature. A negative pguess requests an
// estimate from the pure component saturation pressures.
func (o *Solver) DewPoint(T float64, yi []float64, pguess float64) (P float64, xi []float64, stl, stv pvt.State, obj float64, err error) {

	n := len(yi)
	psat := make([]float64, n)
	for i := 0; i < n; i++ {
		if psat[i], err = o.purePsat(T, i, n); err != nil {
			return
		}
	}

	P = pguess
	if pguess < 0 {
		s := 0.0
		for i := 0; i < n; i++ {
			s += yi[i] / psat[i]
		}
		P = 1.0 / s
	}

	if o.xiWarm == nil || pvt.HasNaN(o.xiWarm) {
		o.xiWarm = make([]float64, n)
		for i := 0; i < n; i++ {
			o.xiWarm[i] = P * yi[i] / psat[i]
		}
		normalize(o.xiWarm)
	}
	xi = o.xiWarm

	plo, phi, pini, err := o.prangeYi(T, xi, yi)
	if err != nil {
		return
	}

	P, err = o.rootSolve(func(p float64) (float64, error) {
		return o.solvePyiT(p, T, yi)
	}, plo, phi, pini)
	if err != nil {
		return
	}

	tolxi := o.Inn.TolXi
	if tolxi > 1e-10 {
		o.Inn.TolXi = 1e-10
	}
	obj, err = o.solvePyiT(P, T, yi)
	o.Inn.TolXi = tolxi
	if err != nil {
		return
	}

	xi = o.xiWarm
	_, _, stv, err = pvt.Phiv(o.Mdl, P, T, yi, o.Copt)
	if err != nil {
		return
	}
	_, _, stl, err = pvt.Phil(o.Mdl, P, T, xi, o.Copt)
	warn("dew point: P=%g Pa, xi=%v, obj=%g\n", P, xi, obj)
	return
}

// solvePxiT is the outer objective of the bubble point search. Its root in
// pressure satisfies sum(xi phil / phiv) = 1 with yi converged by the inner
// loop at every evaluation.
func (o *Solver) solvePxiT(P, T float64, xi []float64) (obj float64, err error) {
	if P < 0 {
		return 10.0, nil
	}
	phil, _, _, err := pvt.Phil(o.Mdl, P, T, xi, o.Copt)
	if err != nil {
		return
	}
	yinew, _, _, err := o.solveYi(o.yiWarm, xi, phil, P, T)
	if err != nil {
		return
	}
	o.yiWarm = normalized(yinew)
	phiv, _, _, err := pvt.Phiv(o.Mdl, P, T, o.yiWarm, o.Copt)
	if err != nil {
		return
	}
	obj = nanSum(Yi(xi, phil, phiv)) - 1.0
	warn("  P=%g Pa: bubble obj=%g\n", P, obj)
	return
}

// solvePyiT is the outer objective of the dew point search, the root in
// pressure of sum(yi phiv / phil) - 1 with xi converged by the inner loop
func (o *Solver) solvePyiT(P, T float64, yi []float64) (obj float64, err error) {
	if P < 0 {
		return 10.0, nil
	}
	phiv, _, _, err := pvt.Phiv(o.Mdl, P, T, yi, o.Copt)
	if err != nil {
		return
	}
	xinew, _, _, err := o.solveXi(o.xiWarm, yi, phiv, P, T)
	if err != nil {
		return
	}
	o.xiWarm = normalized(xinew)
	phil, _, _, err := pvt.Phil(o.Mdl, P, T, o.xiWarm, o.Copt)
	if err != nil {
		return
	}
	obj = nanSum(Xi(yi, phiv, phil)) - 1.0
	warn("  P=%g Pa: dew obj=%g\n", P, obj)
	return
}

// rootSolve finds the pressure root of f within [plo,phi] starting from
// pini, using the configured method
func (o *Solver) rootSolve(f func(p float64) (float64, error), plo, phi, pini float64) (P float64, err error) {
	switch o.Root.Method {
	case "brent":
		var fErr error
		P, err = brentRoot(func(p float64) float64 {
			v, e := f(p)
			if e != nil {
				if fErr == nil {
					fErr = e
				}
				return math.NaN()
			}
			return v
		}, plo, phi)
		if fErr != nil {
			err = fErr
		}
		if err != nil {
			err = chk.Err("pressure root search failed in [%g,%g]: %v", plo, phi, err)
		}
		return
	case "newton":
		var fErr error
		var nls num.NlSolver
		nls.Init(1, func(fx, x la.Vector) {
			v, e := f(x[0])
			if e != nil {
				if fErr == nil {
					fErr = e
				}
				v = math.NaN()
			}
			fx[0] = v
		}, nil, nil, true, false, nil)
		defer nls.Free()
		res := la.Vector{pini}
		err = nlSolve(&nls, res)
		if fErr != nil {
			err = fErr
		}
		if err != nil {
			err = chk.Err("pressure root search failed from %g: %v", pini, err)
			return
		}
		P = res[0]
		return
	default:
		return o.bisect(f, plo, phi)
	}
}

// bisect is a plain bisection on f over [plo,phi]
func (o *Solver) bisect(f func(p float64) (float64, error), plo, phi float64) (P float64, err error) {
	flo, err := f(plo)
	if err != nil {
		return
	}
	fhi, err := f(phi)
	if err != nil {
		return
	}
	if flo*fhi > 0 {
		return 0, chk.Err("pressure objective does not change sign in [%g,%g]: f=[%g,%g]", plo, phi, flo, fhi)
	}
	for it := 0; it < o.Root.MaxIter; it++ {
		P = (plo + phi) / 2.0
		var fm float64
		if fm, err = f(P); err != nil {
			return
		}
		if fm == 0 || phi-plo < o.Root.Tol {
			return
		}
		if flo*fm < 0 {
			phi = P
		} else {
			plo, flo = P, fm
		}
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

// nlSolve runs the Newton solver, converting the panic-based failure report
// into an error
func nlSolve(nls *num.NlSolver, x la.Vector) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("%v", r)
		}
	}()
	nls.Solve(x, true)
	return
}

// auxiliary vector helpers //////////////////////////////////////////////////

func sumFloats(v []float64) (s float64) {
	for _, x := range v {
		s += x
	}
	return
}

func nanSum(v []float64) (s float64) {
	for _, x := range v {
		if !math.IsNaN(x) {
			s += x
		}
	}
	return
}

func normalize(v []float64) {
	s := sumFloats(v)
	for i := range v {
		v[i] /= s
	}
}

func normalized(v []float64) (w []float64) {
	w = make([]float64, len(v))
	copy(w, v)
	normalize(w)
	return
}

func cloneVec(v []float64) (w []float64) {
	w = make([]float64, len(v))
	copy(w, v)
	return
}

// smallestFraction returns the index of the smallest positive entry
func smallestFraction(v []float64) (ind int) {
	ind = -1
	for i, x := range v {
		if x > 0 && (ind < 0 || x < v[ind]) {
			ind = i
		}
	}
	return
}
