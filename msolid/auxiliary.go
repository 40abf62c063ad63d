// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// indices of stress components (Voigt order)
const (
	Ixx = iota // σxx
	Iyy        // σyy
	Izz        // σzz
	Ixy        // σxy
	Ixz        // σxz
	Iyz        // σyz
	Nsig       // number of stress components
)

// constants
const (
	MPa          = 1e6   // Pa per MPa
	DensityFloor = 100.0 // smallest density used as a divisor [kg/m³]
	MaxDamage    = 0.99  // upper bound of the damage variable
)

// LameFromEnu computes the Lamé coefficients from Young's modulus and Poisson's coefficient
//  μ = E / (2 (1+ν))
//  λ = E ν / ((1+ν) (1-2ν))
func LameFromEnu(E, ν float64) (λ, μ float64, err error) {
	if E <= 0 {
		return 0, 0, chk.Err("Young's modulus must be positive. E=%g is invalid", E)
	}
	if ν <= -1 || ν >= 0.5 {
		return 0, 0, chk.Err("Poisson's coefficient must be in (-1, 0.5). ν=%g is invalid", ν)
	}
	μ = E / (2.0 * (1.0 + ν))
	λ = E * ν / ((1.0 + ν) * (1.0 - 2.0*ν))
	return
}

// FrictionTrig returns sin(φ) and cos(φ) for φ given in degrees
func FrictionTrig(φdeg float64) (sinφ, cosφ float64) {
	φr := φdeg * math.Pi / 180.0
	return math.Sin(φr), math.Cos(φr)
}

// Invariants computes the mean stress and the second invariant of the deviatoric stress
//  m  = (σxx + σyy + σzz) / 3
//  J2 = ½ (sxx² + syy² + szz²) + σxy² + σxz² + σyz²
func Invariants(σ *[Nsig]float64) (m, J2 float64) {
	m = (σ[Ixx] + σ[Iyy] + σ[Izz]) / 3.0
	sxx := σ[Ixx] - m
	syy := σ[Iyy] - m
	szz := σ[Izz] - m
	J2 = 0.5*(sxx*sxx+syy*syy+szz*szz) + σ[Ixy]*σ[Ixy] + σ[Ixz]*σ[Ixz] + σ[Iyz]*σ[Iyz]
	return
}

// MaxNormal returns the largest normal stress (tension positive)
func MaxNormal(σ *[Nsig]float64) float64 {
	return math.Max(σ[Ixx], math.Max(σ[Iyy], σ[Izz]))
}

// DensityRatio returns max(ρ, DensityFloor) / ρref
func DensityRatio(ρ, ρref float64) float64 {
	if ρ < DensityFloor {
		ρ = DensityFloor
	}
	return ρ / ρref
}
