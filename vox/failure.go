// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

import (
	"math"

	"github.com/mattemangia/CTS-sub011/msolid"
)

// critical damage fractions
const (
	CriticalBase      = 0.75 // critical damage at reference density
	CriticalBaseDebug = 0.15 // critical damage at reference density in debug mode
	DefaultThreshold  = 1.0  // default failure ratio
)

// Monitor scans damage snapshots for failed voxels
type Monitor struct {
	Base      float64 // critical damage at reference density
	Threshold float64 // failure is declared when D/critical ≥ Threshold
	RhoRef    float64 // reference density
}

// NewMonitor returns a monitor for the given material
func NewMonitor(mat *msolid.Material, threshold float64) *Monitor {
	base := CriticalBase
	if mat.Debug {
		base = CriticalBaseDebug
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Monitor{Base: base, Threshold: threshold, RhoRef: mat.RhoRef}
}

// Report holds the results of a scan
type Report struct {
	MaxRatio float64 // largest D/critical
	MaxVoxel int     // voxel with the largest ratio; -1 if there are no active voxels
	Failed   bool    // some voxel reached the threshold
	First    int     // first voxel (scan order) reaching the threshold; -1 if none
}

// Scan computes the damage ratio of every active voxel of a snapshot
func (o *Monitor) Scan(g *Grid, dam []float64) (r Report) {
	r.MaxVoxel, r.First = -1, -1
	r.MaxRatio = math.Inf(-1)
	for n, D := range dam {
		if !g.IsActive(n) {
			continue
		}
		critical := o.Base * msolid.DensityRatio(g.Rho[n], o.RhoRef)
		ratio := D / critical
		if ratio > r.MaxRatio {
			r.MaxRatio, r.MaxVoxel = ratio, n
		}
		if !r.Failed && ratio >= o.Threshold {
			r.Failed, r.First = true, n
		}
	}
	if r.MaxVoxel < 0 {
		r.MaxRatio = 0
	}
	return
}

// MaxDamage returns the active voxel with the largest damage; -1 if there are no active voxels
func MaxDamage(g *Grid, dam []float64) (voxel int, D float64) {
	voxel = -1
	for n, d := range dam {
		if g.IsActive(n) && (voxel < 0 || d > D) {
			voxel, D = n, d
		}
	}
	return
}
