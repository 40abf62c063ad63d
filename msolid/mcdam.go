// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements the constitutive model of voxel solids: rate-form elasticity with
// Mohr-Coulomb plastic correction and brittle damage
package msolid

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Behaviour is a bitmask of enabled constitutive behaviours
type Behaviour uint8

// behaviours
const (
	Elastic Behaviour = 1 << iota // rate-form Hooke predictor
	Plastic                       // Mohr-Coulomb correction
	Brittle                       // damage evolution
)

// Has tells whether all behaviours in f are enabled
func (o Behaviour) Has(f Behaviour) bool { return o&f == f }

// String returns e.g. "elastic+plastic"
func (o Behaviour) String() string {
	var l []string
	if o.Has(Elastic) {
		l = append(l, "elastic")
	}
	if o.Has(Plastic) {
		l = append(l, "plastic")
	}
	if o.Has(Brittle) {
		l = append(l, "brittle")
	}
	if len(l) == 0 {
		return "none"
	}
	return strings.Join(l, "+")
}

// VelGrad holds the velocity gradient L[i][j] = ∂v_i/∂x_j
type VelGrad [3][3]float64

// Material holds the reference parameters of the voxel material. Reference values correspond
// to ρ = RhoRef and D = 0; each voxel scales them by ρr = ρ/RhoRef and (1 - D)
type Material struct {

	// input (SI units)
	E      float64   // Young's modulus [Pa]
	Nu     float64   // Poisson's coefficient
	SigT0  float64   // tensile strength [Pa]
	C0     float64   // cohesion [Pa]
	Phi    float64   // friction angle [deg]
	Conf   float64   // confining pressure [Pa]
	RhoRef float64   // reference density [kg/m³]
	Flags  Behaviour // enabled behaviours
	Debug  bool      // accelerate damage for fast iterations

	// derived
	Lam0   float64 // λ0: Lamé coefficient [Pa]
	Mu0    float64 // μ0: shear modulus [Pa]
	SinPhi float64 // sin(φ)
	CosPhi float64 // cos(φ)

	// damage evolution
	Kp         float64 // rate of damage per unit plastic correction
	CapP       float64 // max plastic damage increment per step
	Kt         float64 // rate of damage per unit tensile excess
	CapT       float64 // max tensile damage increment per step
	BandLo     float64 // lower end of the failure band
	BandHi     float64 // upper end of the failure band
	BandBoost  float64 // multiplier of tensile damage inside the failure band
	DebugBoost float64 // multiplier of all damage increments in debug mode
	MaxRet     float64 // cap of the return factor f/τ
	TauMin     float64 // smallest τ triggering the plastic correction [Pa]
}

// SetDefault sets default values
func (o *Material) SetDefault() {
	o.RhoRef = 2700
	o.Flags = Elastic | Plastic | Brittle
	o.Kp = 1e-3
	o.CapP = 5e-4
	o.Kt = 0.05
	o.CapT = 0.01
	o.BandLo = 0.65
	o.BandHi = 0.75
	o.BandBoost = 1.5
	o.DebugBoost = 10
	o.MaxRet = 0.95
	o.TauMin = 1.0
}

// Init initialises the material with parameters given in engineering units
//  E, sigT, c and conf are given in MPa; phi in degrees; elastic, plastic, brittle and debug are flags (0 or 1)
func (o *Material) Init(prms dbf.Params) (err error) {
	o.SetDefault()
	flags := o.Flags
	setflag := func(f Behaviour, v float64) {
		if v > 0 {
			flags |= f
		} else {
			flags &^= f
		}
	}
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V * MPa
		case "nu":
			o.Nu = p.V
		case "sigT":
			o.SigT0 = p.V * MPa
		case "c":
			o.C0 = p.V * MPa
		case "phi":
			o.Phi = p.V
		case "conf":
			o.Conf = p.V * MPa
		case "rhoRef":
			o.RhoRef = p.V
		case "elastic":
			setflag(Elastic, p.V)
		case "plastic":
			setflag(Plastic, p.V)
		case "brittle":
			setflag(Brittle, p.V)
		case "debug":
			o.Debug = p.V > 0
		case "kp":
			o.Kp = p.V
		case "capp":
			o.CapP = p.V
		case "kt":
			o.Kt = p.V
		case "capt":
			o.CapT = p.V
		case "boost":
			o.BandBoost = p.V
		default:
			return chk.Err("mcdam: parameter named %q is incorrect\n", p.N)
		}
	}
	o.Flags = flags
	return o.CalcDerived()
}

// CalcDerived computes derived quantities after setting the input fields directly
func (o *Material) CalcDerived() (err error) {
	o.Lam0, o.Mu0, err = LameFromEnu(o.E, o.Nu)
	if err != nil {
		return
	}
	if o.RhoRef < DensityFloor {
		return chk.Err("reference density must be greater than %g. RhoRef=%g is invalid", DensityFloor, o.RhoRef)
	}
	if o.SigT0 < 0 || o.C0 < 0 || o.Conf < 0 {
		return chk.Err("strengths and confining pressure must be non-negative: sigT=%g c=%g conf=%g", o.SigT0, o.C0, o.Conf)
	}
	if o.Phi < 0 || o.Phi >= 90 {
		return chk.Err("friction angle must be in [0, 90). phi=%g is invalid", o.Phi)
	}
	o.SinPhi, o.CosPhi = FrictionTrig(o.Phi)
	return
}

// GetPrms gets (an example) of parameters
func (o Material) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 70000},
		&dbf.P{N: "nu", V: 0.25},
		&dbf.P{N: "sigT", V: 10},
		&dbf.P{N: "c", V: 5},
		&dbf.P{N: "phi", V: 30},
		&dbf.P{N: "conf", V: 10},
		&dbf.P{N: "rhoRef", V: 2700},
	}
}

// String returns a summary of the reference parameters
func (o Material) String() string {
	return io.Sf("E=%g MPa ν=%g λ0=%g MPa μ0=%g MPa σT0=%g MPa c0=%g MPa φ=%g° conf=%g MPa ρref=%g [%v]",
		o.E/MPa, o.Nu, o.Lam0/MPa, o.Mu0/MPa, o.SigT0/MPa, o.C0/MPa, o.Phi, o.Conf/MPa, o.RhoRef, o.Flags)
}

// Update updates stress and damage of one voxel
//  Input:
//   s  -- state at the beginning of the step (σ, D)
//   L  -- velocity gradient around the voxel
//   ρ  -- voxel density [kg/m³]
//   Δt -- time step [s]
//  Output:
//   s  -- updated state; s.DamInc holds ΔD and s.Dgam the plastic correction factor
func (o *Material) Update(s *State, L *VelGrad, ρ, Δt float64) {

	// set flags
	s.Loading = false
	s.Dgam = 0
	s.DamInc = 0

	// accessors
	σ := &s.Sig
	D0 := s.Dam
	ρr := DensityRatio(ρ, o.RhoRef)

	// elastic predictor
	if o.Flags.Has(Elastic) {
		λ := (1.0 - D0) * o.Lam0 * ρr
		μ := (1.0 - D0) * o.Mu0 * ρr
		exx, eyy, ezz := L[0][0], L[1][1], L[2][2]
		σ[Ixx] += Δt * ((λ+2.0*μ)*exx + λ*(eyy+ezz))
		σ[Iyy] += Δt * ((λ+2.0*μ)*eyy + λ*(exx+ezz))
		σ[Izz] += Δt * ((λ+2.0*μ)*ezz + λ*(exx+eyy))
		σ[Ixy] += Δt * μ * (L[0][1] + L[1][0])
		σ[Ixz] += Δt * μ * (L[0][2] + L[2][0])
		σ[Iyz] += Δt * μ * (L[1][2] + L[2][1])
	}

	// Mohr-Coulomb correction
	var ΔD float64
	if o.Flags.Has(Plastic) {
		m, J2 := Invariants(σ)
		τ := math.Sqrt(J2)
		p := -m
		f := τ + p*o.SinPhi - o.C0*ρr*o.CosPhi
		if f > 0 && τ > o.TauMin {
			γ := math.Min(f/τ, o.MaxRet)
			a := 1.0 - γ
			σ[Ixx] = m + a*(σ[Ixx]-m)
			σ[Iyy] = m + a*(σ[Iyy]-m)
			σ[Izz] = m + a*(σ[Izz]-m)
			σ[Ixy] *= a
			σ[Ixz] *= a
			σ[Iyz] *= a
			s.Dgam = γ
			s.Loading = true
			if o.Flags.Has(Brittle) {
				ΔD += math.Min(o.Kp*γ/ρr, o.CapP)
			}
		}
	}

	// tensile damage
	if o.Flags.Has(Brittle) && D0 < MaxDamage {
		σmax := MaxNormal(σ)
		σT := o.SigT0 * ρr
		if σmax > σT {
			d := math.Min(o.Kt*(σmax-σT)/(σT+1.0), o.CapT)
			if D0 >= o.BandLo && D0 <= o.BandHi {
				d *= o.BandBoost
			}
			ΔD += d
		}
	}
	if o.Debug {
		ΔD *= o.DebugBoost
	}

	// damage and softening
	if ΔD <= 0 {
		return
	}
	D := D0 + ΔD
	if D > MaxDamage {
		D = math.Max(MaxDamage, D0)
	}
	ΔD = D - D0
	if ΔD > 0 {
		soften := math.Max(0, 1.0-ΔD*ρr)
		for i := 0; i < Nsig; i++ {
			σ[i] *= soften
		}
	}
	s.Dam = D
	s.DamInc = ΔD
}
