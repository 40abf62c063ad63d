// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Path holds a constant velocity gradient path to drive a single voxel
type Path struct {
	L      VelGrad // velocity gradient applied at every step
	Dt     float64 // time step [s]
	Nsteps int     // number of steps
	Niout  int     // record state every Niout steps
	P0     float64 // initial isotropic pressure (compression positive) [Pa]
	Axis   int     // component of L used to compute the strain output
}

// SetAxial sets a compression path along axis with strain rate ε̇ (positive = shortening)
func (o *Path) SetAxial(axis int, rate, Δt float64, nsteps, niout int, p0 float64) (err error) {
	if axis < 0 || axis > 2 {
		return chk.Err("axis must be 0, 1 or 2. %d is invalid", axis)
	}
	o.L = VelGrad{}
	o.L[axis][axis] = -rate
	o.Dt = Δt
	o.Nsteps = nsteps
	o.Niout = niout
	o.P0 = p0
	o.Axis = axis
	return o.check()
}

func (o *Path) check() (err error) {
	if o.Dt <= 0 {
		return chk.Err("path: time step must be positive. Dt=%g is invalid", o.Dt)
	}
	if o.Nsteps < 1 {
		return chk.Err("path: number of steps must be at least 1. Nsteps=%d is invalid", o.Nsteps)
	}
	if o.Niout < 1 {
		o.Niout = 1
	}
	return
}

// Driver runs the constitutive model of one voxel along a path
type Driver struct {

	// input
	Rho     float64 // voxel density
	Verbose bool    // show messages

	// results
	Res []*State  // states recorded along the path
	Eps []float64 // accumulated strain along Path.Axis (positive = shortening)

	// model
	model *Material
}

// Init initialises driver
func (o *Driver) Init(mat *Material, ρ float64) (err error) {
	if mat == nil {
		return chk.Err("driver: material must not be nil")
	}
	o.model = mat
	o.Rho = ρ
	return
}

// Run runs the model along path and records results
func (o *Driver) Run(pth *Path) (err error) {

	// check
	if o.model == nil {
		return chk.Err("driver: Init must be called before Run")
	}
	err = pth.check()
	if err != nil {
		return
	}

	// initial state
	s := NewState(pth.P0)
	o.Res = []*State{s.GetCopy()}
	o.Eps = []float64{0}

	// time loop
	var ε float64
	for k := 1; k <= pth.Nsteps; k++ {
		o.model.Update(s, &pth.L, o.Rho, pth.Dt)
		ε -= pth.L[pth.Axis][pth.Axis] * pth.Dt
		if math.IsNaN(s.Sig[Ixx]) || math.IsNaN(s.Dam) {
			return chk.Err("driver: NaN found at step %d", k)
		}
		if k%pth.Niout == 0 || k == pth.Nsteps {
			o.Res = append(o.Res, s.GetCopy())
			o.Eps = append(o.Eps, ε)
			if o.Verbose {
				io.Pf("%6d : ε=%13.6e σ=%13.6e D=%8.5f\n", k, ε, s.Sig[pth.Axis], s.Dam)
			}
		}
	}
	return
}
