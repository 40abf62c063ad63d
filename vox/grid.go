// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vox implements the voxel grid, the field store layout and the per-voxel kernels of
// the explicit triaxial solver
package vox

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Axis is one of the three orthogonal grid axes
type Axis int

// axes
const (
	X Axis = iota
	Y
	Z
)

// String returns "x", "y" or "z"
func (o Axis) String() string {
	switch o {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return "invalid"
}

// Valid tells whether the axis is X, Y or Z
func (o Axis) Valid() bool { return o >= X && o <= Z }

// ParseAxis converts "x", "y" or "z" (or "0", "1", "2") to Axis
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X", "0":
		return X, nil
	case "y", "Y", "1":
		return Y, nil
	case "z", "Z", "2", "":
		return Z, nil
	}
	return Z, chk.Err("axis %q is invalid. use x, y or z", s)
}

// Grid holds the static data of a W×H×D voxel lattice
//  Voxels are stored with x running fastest: n = i + Nx·(j + Ny·k)
type Grid struct {
	Nx, Ny, Nz int       // number of voxels along x, y and z
	H          float64   // voxel pitch [m]
	Labels     []byte    // material label of each voxel
	Rho        []float64 // density of each voxel [kg/m³]
	Active     byte      // label of the active material (0 is the exterior)
	Stride     [3]int    // index increment along each axis
}

// NewGrid creates a new grid. labels and rho are not copied
func NewGrid(nx, ny, nz int, h float64, labels []byte, rho []float64, active byte) (o *Grid, err error) {
	if nx < 3 || ny < 3 || nz < 3 {
		return nil, chk.Err("grid is degenerate: %d×%d×%d. at least 3 voxels per axis are required", nx, ny, nz)
	}
	if h <= 0 || math.IsNaN(h) {
		return nil, chk.Err("voxel pitch must be positive. h=%g is invalid", h)
	}
	if active == 0 {
		return nil, chk.Err("active material label must not be 0 (exterior)")
	}
	n := nx * ny * nz
	if len(labels) != n {
		return nil, chk.Err("number of labels (%d) must be equal to number of voxels (%d)", len(labels), n)
	}
	if len(rho) != n {
		return nil, chk.Err("number of densities (%d) must be equal to number of voxels (%d)", len(rho), n)
	}
	for i, ρ := range rho {
		if ρ < 0 || math.IsNaN(ρ) {
			return nil, chk.Err("density of voxel %d is invalid: %g", i, ρ)
		}
	}
	o = &Grid{Nx: nx, Ny: ny, Nz: nz, H: h, Labels: labels, Rho: rho, Active: active}
	o.Stride = [3]int{1, nx, nx * ny}
	return
}

// N returns the number of voxels
func (o *Grid) N() int { return o.Nx * o.Ny * o.Nz }

// Dims returns the number of voxels along each axis
func (o *Grid) Dims() [3]int { return [3]int{o.Nx, o.Ny, o.Nz} }

// Idx returns the index of voxel (i,j,k)
func (o *Grid) Idx(i, j, k int) int { return i + o.Nx*(j+o.Ny*k) }

// Coords returns the (i,j,k) coordinates of voxel n
func (o *Grid) Coords(n int) (i, j, k int) {
	i = n % o.Nx
	j = (n / o.Nx) % o.Ny
	k = n / (o.Nx * o.Ny)
	return
}

// IsActive tells whether voxel n belongs to the active material
func (o *Grid) IsActive(n int) bool { return o.Labels[n] == o.Active }

// Interior tells whether (i,j,k) is not on the one-voxel halo of the grid
func (o *Grid) Interior(i, j, k int) bool {
	return i > 0 && j > 0 && k > 0 && i < o.Nx-1 && j < o.Ny-1 && k < o.Nz-1
}

// NumActive returns the number of active voxels
func (o *Grid) NumActive() (count int) {
	for _, l := range o.Labels {
		if l == o.Active {
			count++
		}
	}
	return
}

// Extent returns the smallest and largest index of active voxels along axis
//  ok is false if there are no active voxels
func (o *Grid) Extent(axis Axis) (lo, hi int, ok bool) {
	lo, hi = math.MaxInt32, -1
	for n, l := range o.Labels {
		if l != o.Active {
			continue
		}
		c := o.coord(n, axis)
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	if hi < 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

// Length returns the initial specimen length along axis [m]
func (o *Grid) Length(axis Axis) float64 {
	lo, hi, ok := o.Extent(axis)
	if !ok {
		return 0
	}
	return float64(hi-lo+1) * o.H
}

// MinDensity returns the smallest density of active voxels, floored at msolid.DensityFloor
//  ok is false if there are no active voxels
func (o *Grid) MinDensity() (ρmin float64, ok bool) {
	ρmin = math.MaxFloat64
	for n, l := range o.Labels {
		if l == o.Active {
			ok = true
			ρmin = math.Min(ρmin, o.Rho[n])
		}
	}
	if !ok {
		return 0, false
	}
	return floorDensity(ρmin), true
}

// NewBlock creates a grid with a homogeneous box of active material surrounded by pad exterior
// voxels on every side
func NewBlock(nx, ny, nz, pad int, h, ρ float64, active byte) (o *Grid, err error) {
	mx, my, mz := nx+2*pad, ny+2*pad, nz+2*pad
	labels := make([]byte, mx*my*mz)
	rho := make([]float64, mx*my*mz)
	for k := pad; k < pad+nz; k++ {
		for j := pad; j < pad+ny; j++ {
			for i := pad; i < pad+nx; i++ {
				n := i + mx*(j+my*k)
				labels[n] = active
				rho[n] = ρ
			}
		}
	}
	return NewGrid(mx, my, mz, h, labels, rho, active)
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func (o *Grid) coord(n int, axis Axis) int {
	i, j, k := o.Coords(n)
	switch axis {
	case X:
		return i
	case Y:
		return j
	}
	return k
}
