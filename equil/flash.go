// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"govle/pvt"
)

// flash iteration parameters
const (
	flashMaxIter = 200
	flashTol     = 1e-9
)

// mirrorK fixes a K-value seed with both entries on the same side of one,
// which cannot satisfy the Rachford-Rice relation: the entry closer to one
// is kept and the other is mirrored around it. A straddling pair is left
// untouched.
func mirrorK(ki []float64) error {
	switch {
	case ki[0] > 1 && ki[1] > 1:
		ind := 0
		if ki[1] > ki[ind] && ki[1] < 2 || ki[ind] >= 2 {
			ind = 1
		}
		if ki[ind] >= 2 {
			return chk.Err("both K values are too large: %v", ki)
		}
		ki[1-ind] = 2.0 - ki[ind]
	case ki[0] < 1 && ki[1] < 1:
		ind := 0
		if ki[1] < ki[ind] {
			ind = 1
		}
		ki[1-ind] = 2.0 - ki[ind]
	}
	return nil
}

// Flash computes the vapor and liquid compositions of a binary mixture at a
// fixed pressure and temperature, by successive substitution on the K
// values Ki = phil_i / phiv_i starting from the Raoult estimate Psat_i / P
func (o *Solver) Flash(P, T float64) (xi []float64, stl pvt.State, yi []float64, stv pvt.State, obj float64, err error) {

	n := len(o.Mdl.Components())
	if n != 2 {
		err = chk.Err("flash calculations support binary mixtures only; %d components given", n)
		return
	}

	psat := make([]float64, 2)
	ki := make([]float64, 2)
	for i := 0; i < 2; i++ {
		if psat[i], err = o.purePsat(T, i, 2); err != nil {
			return
		}
		ki[i] = psat[i] / P
	}

	if err = mirrorK(ki); err != nil {
		err = chk.Err("cannot seed the flash at P=%g Pa, T=%g K: %v", P, T, err)
		return
	}

	xi = make([]float64, 2)
	yi = make([]float64, 2)
	kiPrev := cloneVec(ki)
	errPrev := 1.0
	converged := false

	for it := 0; it < flashMaxIter; it++ {

		// Rachford-Rice closure for a binary system
		xi[0] = (1.0 - ki[1]) / (ki[0] - ki[1])
		xi[1] = 1.0 - xi[0]
		yi[0], yi[1] = ki[0]*xi[0], ki[1]*xi[1]

		var phil, phiv []float64
		if phil, _, stl, err = pvt.Phil(o.Mdl, P, T, xi, o.Copt); err != nil {
			return
		}
		if phiv, _, stv, err = pvt.Phiv(o.Mdl, P, T, yi, o.Copt); err != nil {
			return
		}
		kinew := []float64{phil[0] / phiv[0], phil[1] / phiv[1]}

		d := math.Abs((kinew[0] - ki[0]) + (kinew[1] - ki[1]))
		if math.Abs(errPrev-d) < flashTol {
			obj = d
			converged = true
			break
		}
		errPrev = d
		warn("  K guess %v, new %v, error %g\n", ki, kinew, d)

		if d < flashTol {
			obj = relChange(kinew, ki)
			if obj < flashTol {
				converged = true
				break
			}
		}
		kiPrev = ki
		ki = kinew
	}

	if !converged {
		obj = relChange(ki, kiPrev)
		warn("more than %d flash iterations; remaining error %g\n", flashMaxIter, obj)
	}
	warn("flash at P=%g Pa, T=%g K: xi=%v (%v), yi=%v (%v), obj=%g\n", P, T, xi, stl, yi, stv, obj)
	return
}
