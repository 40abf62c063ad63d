// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

import (
	"math"

	"github.com/mattemangia/CTS-sub011/msolid"
)

// stability constants
const (
	DefaultSafety = 0.2    // default CFL safety factor
	MaxWaveSpeed  = 6000.0 // ceiling of the P-wave speed [m/s]
	MinTimeStep   = 1e-8   // smallest time step [s]
)

// WaveSpeed returns the P-wave speed vp = √((λ0+2μ0)/ρ) capped at MaxWaveSpeed
func WaveSpeed(mat *msolid.Material, ρ float64) float64 {
	vp := math.Sqrt((mat.Lam0 + 2.0*mat.Mu0) / floorDensity(ρ))
	return math.Min(vp, MaxWaveSpeed)
}

// TimeStep computes the stable time step of the explicit scheme
//  Δt = max(safety·h/vp, MinTimeStep) where vp uses the smallest density of the active material.
//  The reference density is used when there are no active voxels. safety ≤ 0 means DefaultSafety
func TimeStep(g *Grid, mat *msolid.Material, safety float64) (Δt, vp float64) {
	if safety <= 0 {
		safety = DefaultSafety
	}
	ρmin, ok := g.MinDensity()
	if !ok {
		ρmin = mat.RhoRef
	}
	vp = WaveSpeed(mat, ρmin)
	Δt = math.Max(safety*g.H/vp, MinTimeStep)
	return
}
