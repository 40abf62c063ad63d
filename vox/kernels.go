// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

import (
	"github.com/mattemangia/CTS-sub011/msolid"
)

// Params holds the data shared by all kernels of one run
type Params struct {
	Mat     *msolid.Material // reference material
	Dt      float64          // time step [s]
	Damping float64          // velocity damping factor per step
}

// Kernel is a per-voxel update executed over the whole grid by a backend
type Kernel func(g *Grid, f *Fields, p *Params, i, j, k int)

// StressAt updates stress and damage of voxel (i,j,k) from the velocity gradient
//  Only interior active voxels are updated
func StressAt(g *Grid, f *Fields, p *Params, i, j, k int) {
	if !g.Interior(i, j, k) {
		return
	}
	n := g.Idx(i, j, k)
	if !g.IsActive(n) {
		return
	}

	// velocity gradient: L[a][b] = ∂v_a/∂x_b
	var L msolid.VelGrad
	c := 0.5 / g.H
	for b := 0; b < 3; b++ {
		s := g.Stride[b]
		for a := 0; a < 3; a++ {
			L[a][b] = c * (f.Vel[a][n+s] - f.Vel[a][n-s])
		}
	}

	// constitutive update
	var state msolid.State
	for m := 0; m < msolid.Nsig; m++ {
		state.Sig[m] = f.Sig[m][n]
	}
	state.Dam = f.Dam[n]
	p.Mat.Update(&state, &L, g.Rho[n], p.Dt)
	for m := 0; m < msolid.Nsig; m++ {
		f.Sig[m][n] = state.Sig[m]
	}
	f.Dam[n] = state.Dam
}

// VelocityAt updates the velocity of voxel (i,j,k) from the divergence of stress
//  v ← (v + Δt·div(σ)/ρ)·(1 - damping)
func VelocityAt(g *Grid, f *Fields, p *Params, i, j, k int) {
	if !g.Interior(i, j, k) {
		return
	}
	n := g.Idx(i, j, k)
	if !g.IsActive(n) {
		return
	}
	c := 0.5 / g.H
	sx, sy, sz := g.Stride[0], g.Stride[1], g.Stride[2]
	d := func(σ []float64, s int) float64 { return c * (σ[n+s] - σ[n-s]) }
	σ := &f.Sig
	div := [3]float64{
		d(σ[msolid.Ixx], sx) + d(σ[msolid.Ixy], sy) + d(σ[msolid.Ixz], sz),
		d(σ[msolid.Ixy], sx) + d(σ[msolid.Iyy], sy) + d(σ[msolid.Iyz], sz),
		d(σ[msolid.Ixz], sx) + d(σ[msolid.Iyz], sy) + d(σ[msolid.Izz], sz),
	}
	ρ := floorDensity(g.Rho[n])
	keep := 1.0 - p.Damping
	for a := 0; a < 3; a++ {
		f.Vel[a][n] = (f.Vel[a][n] + p.Dt*div[a]/ρ) * keep
	}
}

// DisplacementAt integrates the displacement of voxel (i,j,k); the halo is included
func DisplacementAt(g *Grid, f *Fields, p *Params, i, j, k int) {
	n := g.Idx(i, j, k)
	if !g.IsActive(n) {
		return
	}
	for a := 0; a < 3; a++ {
		f.Disp[a][n] += f.Vel[a][n] * p.Dt
	}
}

// SetAxial overwrites the normal stresses of voxel n: -axial along axis and -conf along the
// other two axes
func SetAxial(f *Fields, n int, axis Axis, axial, conf float64) {
	for a := 0; a < 3; a++ {
		if Axis(a) == axis {
			f.Sig[a][n] = -axial
		} else {
			f.Sig[a][n] = -conf
		}
	}
}

// SetLateral overwrites the normal stress of voxel n along the lateral axis with -conf
func SetLateral(f *Fields, n int, lateral Axis, conf float64) {
	f.Sig[lateral][n] = -conf
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func floorDensity(ρ float64) float64 {
	if ρ < msolid.DensityFloor {
		return msolid.DensityFloor
	}
	return ρ
}
