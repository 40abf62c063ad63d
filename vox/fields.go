// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

import (
	"github.com/cpmech/gosl/chk"
	"github.com/mattemangia/CTS-sub011/msolid"
)

// Fields holds the dynamic per-voxel state as a structure of arrays
type Fields struct {
	Sig  [msolid.Nsig][]float64 // σ: stress components (Voigt order) [Pa]
	Vel  [3][]float64           // v: velocity [m/s]
	Disp [3][]float64           // u: displacement [m]
	Dam  []float64              // D: damage
}

// NewFields allocates fields for n voxels
func NewFields(n int) (o *Fields) {
	o = new(Fields)
	for i := 0; i < msolid.Nsig; i++ {
		o.Sig[i] = make([]float64, n)
	}
	for i := 0; i < 3; i++ {
		o.Vel[i] = make([]float64, n)
		o.Disp[i] = make([]float64, n)
	}
	o.Dam = make([]float64, n)
	return
}

// N returns the number of voxels
func (o *Fields) N() int { return len(o.Dam) }

// Reset sets the initial state: zero velocity, displacement and damage everywhere; isotropic
// stress -conf on active voxels and zero elsewhere
func (o *Fields) Reset(g *Grid, conf float64) {
	for n := 0; n < g.N(); n++ {
		ResetAt(g, o, n, conf)
	}
}

// ResetAt sets the initial state of voxel n
func ResetAt(g *Grid, f *Fields, n int, conf float64) {
	var p float64
	if g.IsActive(n) {
		p = conf
	}
	for i := 0; i < 3; i++ {
		f.Sig[i][n] = -p
		f.Sig[3+i][n] = 0
		f.Vel[i][n] = 0
		f.Disp[i][n] = 0
	}
	f.Dam[n] = 0
}

// CopyTo copies all fields to dst, which must have the same size
func (o *Fields) CopyTo(dst *Fields) {
	if dst.N() != o.N() {
		chk.Panic("cannot copy fields with %d voxels into fields with %d voxels", o.N(), dst.N())
	}
	for i := 0; i < msolid.Nsig; i++ {
		copy(dst.Sig[i], o.Sig[i])
	}
	for i := 0; i < 3; i++ {
		copy(dst.Vel[i], o.Vel[i])
		copy(dst.Disp[i], o.Disp[i])
	}
	copy(dst.Dam, o.Dam)
}

// Buffers returns all arrays in a fixed order: 6 stresses, 3 velocities, 3 displacements and damage
func (o *Fields) Buffers() (l [][]float64) {
	l = make([][]float64, 0, msolid.Nsig+7)
	l = append(l, o.Sig[:]...)
	l = append(l, o.Vel[:]...)
	l = append(l, o.Disp[:]...)
	return append(l, o.Dam)
}
