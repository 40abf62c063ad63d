// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

import (
	"math"

	"github.com/mattemangia/CTS-sub011/msolid"
)

// Sample holds one point of the specimen response
type Sample struct {
	Inc    int     // increment index (1-based)
	Step   int     // micro-step index within the increment
	Strain float64 // axial strain (positive = shortening)
	Stress float64 // axial stress (positive = compression) [MPa]
	Target float64 // applied axial pressure [MPa]
}

// Measure computes the specimen axial strain and stress
//  strain = (max u_axis - min u_axis) / L0 over active voxels
//  stress = mean of -σ_axis over the axial faces, in MPa
//  target [Pa] is reported when there are no face voxels; zeros are returned without active voxels
func Measure(g *Grid, f *Fields, faces *Faces, L0, target float64) (strain, stress float64) {
	axis := faces.Axis
	umin, umax := math.MaxFloat64, -math.MaxFloat64
	found := false
	u := f.Disp[axis]
	for n := 0; n < g.N(); n++ {
		if !g.IsActive(n) {
			continue
		}
		found = true
		umin = math.Min(umin, u[n])
		umax = math.Max(umax, u[n])
	}
	if !found {
		return 0, 0
	}
	if L0 > 0 {
		strain = (umax - umin) / L0
	}
	if len(faces.Axial) == 0 {
		return strain, target / msolid.MPa
	}
	var sum float64
	σ := f.Sig[axis]
	for _, n := range faces.Axial {
		sum -= σ[n]
	}
	stress = sum / float64(len(faces.Axial)) / msolid.MPa
	return
}
