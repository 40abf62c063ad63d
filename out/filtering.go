// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements post-processing of voxel fields and stress-strain curves
package out

import (
	"github.com/mattemangia/CTS-sub011/vox"
)

// Locator defines interface for selecting active voxels of a grid
type Locator interface {
	Locate(g *vox.Grid) []int
}

// At implements locator at voxel {i, j, k}
type At [3]int

// AlongX implements line locator with {j, k}
type AlongX [2]int

// AlongY implements line locator with {i, k}
type AlongY [2]int

// AlongZ implements line locator with {i, j}
type AlongZ [2]int

// OnZplane implements locator for voxels on plane k = const
type OnZplane int

// AllActive selects all active voxels
type AllActive struct{}

// Locate finds voxels
func (o At) Locate(g *vox.Grid) (res []int) {
	if o[0] < 0 || o[1] < 0 || o[2] < 0 || o[0] >= g.Nx || o[1] >= g.Ny || o[2] >= g.Nz {
		return
	}
	n := g.Idx(o[0], o[1], o[2])
	if g.IsActive(n) {
		res = append(res, n)
	}
	return
}

// Locate finds voxels
func (o AlongX) Locate(g *vox.Grid) (res []int) {
	for i := 0; i < g.Nx; i++ {
		res = append(res, At{i, o[0], o[1]}.Locate(g)...)
	}
	return
}

// Locate finds voxels
func (o AlongY) Locate(g *vox.Grid) (res []int) {
	for j := 0; j < g.Ny; j++ {
		res = append(res, At{o[0], j, o[1]}.Locate(g)...)
	}
	return
}

// Locate finds voxels
func (o AlongZ) Locate(g *vox.Grid) (res []int) {
	for k := 0; k < g.Nz; k++ {
		res = append(res, At{o[0], o[1], k}.Locate(g)...)
	}
	return
}

// Locate finds voxels
func (o OnZplane) Locate(g *vox.Grid) (res []int) {
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			res = append(res, At{i, j, int(o)}.Locate(g)...)
		}
	}
	return
}

// Locate finds voxels
func (o AllActive) Locate(g *vox.Grid) (res []int) {
	for n := 0; n < g.N(); n++ {
		if g.IsActive(n) {
			res = append(res, n)
		}
	}
	return
}
