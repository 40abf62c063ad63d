// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// ElastTriax implements the homogeneous linear elastic solution of a specimen under
// axial pressure σa and confining pressure σc (compression positive)
//
//              σa
//          ↓ ↓ ↓ ↓ ↓
//         +---------+
//     σc →|         |← σc
//     σc →|         |← σc
//     σc →|         |← σc
//         +---------+
//          ↑ ↑ ↑ ↑ ↑
//              σa
//
//  The Mohr-Coulomb peak strength is also given for reference
type ElastTriax struct {

	// input
	E   float64 // Young's modulus [MPa]
	ν   float64 // Poisson's coefficient
	c   float64 // cohesion [MPa]
	φ   float64 // friction angle [deg]
	Rho float64 // density [kg/m³]

	// derived
	Lam float64 // Lamé's first parameter [MPa]
	G   float64 // shear modulus [MPa]
	K   float64 // bulk modulus [MPa]
}

// Init initialises this structure
func (o *ElastTriax) Init(prms dbf.Params) (err error) {

	// default values
	o.E = 70000  // [MPa] Young modulus
	o.ν = 0.25   // [-] Poisson's ratio
	o.c = 5      // [MPa] cohesion
	o.φ = 30     // [deg] friction angle
	o.Rho = 2700 // [kg/m³] density

	// parameters
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.ν = p.V
		case "c":
			o.c = p.V
		case "phi":
			o.φ = p.V
		case "rho":
			o.Rho = p.V
		}
	}

	// check
	if o.E <= 0 || o.ν <= -1 || o.ν >= 0.5 {
		return chk.Err("ElastTriax: E=%g and ν=%g are invalid", o.E, o.ν)
	}
	if o.φ < 0 || o.φ >= 90 {
		return chk.Err("ElastTriax: friction angle φ=%g is invalid", o.φ)
	}

	// derived
	o.G = o.E / (2 * (1 + o.ν))
	o.Lam = o.E * o.ν / ((1 + o.ν) * (1 - 2*o.ν))
	o.K = o.E / (3 * (1 - 2*o.ν))
	return
}

// Strains returns the axial and lateral strains (shortening positive)
func (o ElastTriax) Strains(σa, σc float64) (εa, εl float64) {
	εa = (σa - 2*o.ν*σc) / o.E
	εl = ((1-o.ν)*σc - o.ν*σa) / o.E
	return
}

// VolStrain returns the volumetric strain (compaction positive)
func (o ElastTriax) VolStrain(σa, σc float64) float64 {
	return (σa + 2*σc) / (3 * o.K)
}

// Secant returns the axial stress-strain slope of a test with constant confinement [MPa]
func (o ElastTriax) Secant() float64 {
	return o.E
}

// WaveSpeed returns the P-wave speed [m/s]
func (o ElastTriax) WaveSpeed() float64 {
	M := (o.Lam + 2*o.G) * 1e6
	return math.Sqrt(M / o.Rho)
}

// TimeStep returns the stable time step of the explicit scheme with voxel size h [m]
func (o ElastTriax) TimeStep(h, safety float64) float64 {
	return safety * h / o.WaveSpeed()
}

// Strength returns the Mohr-Coulomb peak axial stress at confinement σc [MPa]
func (o ElastTriax) Strength(σc float64) float64 {
	sφ, cφ := math.Sincos(o.φ * math.Pi / 180)
	return σc*(1+sφ)/(1-sφ) + 2*o.c*cφ/(1-sφ)
}
