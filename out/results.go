// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/chk"
	"github.com/mattemangia/CTS-sub011/msolid"
	"github.com/mattemangia/CTS-sub011/vox"
	"gonum.org/v1/gonum/floats"
)

// GetField returns the field buffer corresponding to key
//  keys: sxx, syy, szz, sxy, sxz, syz, vx, vy, vz, ux, uy, uz, D
func GetField(f *vox.Fields, key string) ([]float64, error) {
	switch key {
	case "sxx":
		return f.Sig[msolid.Ixx], nil
	case "syy":
		return f.Sig[msolid.Iyy], nil
	case "szz":
		return f.Sig[msolid.Izz], nil
	case "sxy":
		return f.Sig[msolid.Ixy], nil
	case "sxz":
		return f.Sig[msolid.Ixz], nil
	case "syz":
		return f.Sig[msolid.Iyz], nil
	case "vx":
		return f.Vel[0], nil
	case "vy":
		return f.Vel[1], nil
	case "vz":
		return f.Vel[2], nil
	case "ux":
		return f.Disp[0], nil
	case "uy":
		return f.Disp[1], nil
	case "uz":
		return f.Disp[2], nil
	case "D":
		return f.Dam, nil
	}
	return nil, chk.Err("cannot find field %q", key)
}

// GetRes returns the values at the voxels selected by loc
func GetRes(g *vox.Grid, vals []float64, loc Locator) (res []float64) {
	ids := loc.Locate(g)
	res = make([]float64, len(ids))
	for i, n := range ids {
		res[i] = vals[n]
	}
	return
}

// GetDist returns the coordinates [m] along axis of the voxels selected by loc
func GetDist(g *vox.Grid, loc Locator, axis vox.Axis) (dist []float64) {
	ids := loc.Locate(g)
	dist = make([]float64, len(ids))
	for i, n := range ids {
		c := [3]int{}
		c[0], c[1], c[2] = g.Coords(n)
		dist[i] = (float64(c[axis]) + 0.5) * g.H
	}
	return
}

// Mean returns the mean value over the voxels selected by loc; zero if none is selected
func Mean(g *vox.Grid, vals []float64, loc Locator) float64 {
	res := GetRes(g, vals, loc)
	if len(res) == 0 {
		return 0
	}
	return floats.Sum(res) / float64(len(res))
}

// DamagedFraction returns the fraction of active voxels with damage D ≥ Dlim
func DamagedFraction(g *vox.Grid, dam []float64, Dlim float64) float64 {
	res := GetRes(g, dam, AllActive{})
	if len(res) == 0 {
		return 0
	}
	count := 0
	for _, D := range res {
		if D >= Dlim {
			count++
		}
	}
	return float64(count) / float64(len(res))
}

// Stats holds a summary of the voxel fields
type Stats struct {
	Damaged   float64 // fraction of active voxels with D ≥ Dlim
	MeanD     float64 // mean damage of active voxels
	MidD      float64 // mean damage on the plane crossing the middle of the specimen along z
	MeanAxial float64 // mean axial stress of active voxels [MPa]; compression positive
}

// GetStats summarises the fields of a specimen loaded along axis
func GetStats(g *vox.Grid, f *vox.Fields, axis vox.Axis, Dlim float64) (o Stats, err error) {
	if !axis.Valid() {
		return o, chk.Err("loading axis %d is invalid", axis)
	}
	σ, err := GetField(f, []string{"sxx", "syy", "szz"}[axis])
	if err != nil {
		return
	}
	o.Damaged = DamagedFraction(g, f.Dam, Dlim)
	o.MeanD = Mean(g, f.Dam, AllActive{})
	o.MidD = Mean(g, f.Dam, OnZplane(g.Nz/2))
	o.MeanAxial = -Mean(g, σ, AllActive{}) / msolid.MPa
	return
}
