// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

// State holds the constitutive data of one voxel
type State struct {

	// essential
	Sig [Nsig]float64 // σ: current Cauchy stress tensor (Voigt order; compression negative) [Pa]
	Dam float64       // D: damage variable in [0, MaxDamage]

	// for plasticity and damage (set by Update)
	Dgam    float64 // plastic correction factor applied in the last update (0 if elastic)
	DamInc  float64 // ΔD: damage increment of the last update
	Loading bool    // the last update hit the yield surface
}

// NewState returns a state with an isotropic stress -p and zero damage
func NewState(p float64) *State {
	var state State
	state.Sig[Ixx] = -p
	state.Sig[Iyy] = -p
	state.Sig[Izz] = -p
	return &state
}

// Set copies states
func (o *State) Set(other *State) {
	*o = *other
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := new(State)
	other.Set(o)
	return other
}
