// Copyright 2026 The Govle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pvt implements the pressure-volume-temperature layer of the
// phase-equilibrium core: sampling of a pressure vs. specific-volume curve,
// spline root extraction, saturation pressure via the Maxwell equal-area
// construction, phase classification of density roots and the fugacity
// wrappers around an eos.Model.
package pvt

import "github.com/cpmech/gosl/io"

// Verbose enables diagnostic printing of the classification and
// construction steps
var Verbose bool

// warn prints a diagnostic line when Verbose is on
func warn(format string, args ...interface{}) {
	if Verbose {
		io.Pfyel(format, args...)
	}
}

// State classifies the fluid produced by a (P,T,composition) point
type State int

const (
	Vapor    State = iota // stable vapor branch
	Liquid                // stable liquid branch (possibly under tension)
	Critical              // single root without extrema: critical fluid
	NoPhase               // neither phase exists; results are NaN
	IdealGas              // pressure below the whole curve; treat as ideal gas
)

// String returns a human readable tag
func (o State) String() string {
	switch o {
	case Vapor:
		return "vapor"
	case Liquid:
		return "liquid"
	case Critical:
		return "critical"
	case NoPhase:
		return "nophase"
	case IdealGas:
		return "idealgas"
	}
	return "unknown"
}

// IsVaporLike reports whether a vapor-seeking solver accepts this state.
// IdealGas is accepted on the vapor side only.
func (o State) IsVaporLike() bool {
	return o == Vapor || o == Critical || o == IdealGas
}

// IsLiquidLike reports whether a liquid-seeking solver accepts this state
func (o State) IsLiquidLike() bool {
	return o == Liquid || o == Critical
}
