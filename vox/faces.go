// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

// Faces holds the indices of boundary voxels of the active material
type Faces struct {
	Axis    Axis     // loading axis
	Lo, Hi  int      // extent of the material along the loading axis
	Axial   []int    // active voxels on the Lo and Hi planes
	Lateral [3][]int // active voxels whose neighbour along a lateral axis is outside the grid or inactive
}

// NewFaces finds the axial and lateral faces of the active material for loading along axis
func NewFaces(g *Grid, axis Axis) (o *Faces) {
	o = &Faces{Axis: axis}
	var ok bool
	o.Lo, o.Hi, ok = g.Extent(axis)
	if !ok {
		return
	}
	dims := g.Dims()
	for n := 0; n < g.N(); n++ {
		if !g.IsActive(n) {
			continue
		}
		c := g.coord(n, axis)
		if c == o.Lo || c == o.Hi {
			o.Axial = append(o.Axial, n)
		}
		for a := X; a <= Z; a++ {
			if a == axis {
				continue
			}
			ca, s := g.coord(n, a), g.Stride[a]
			if ca == 0 || ca == dims[a]-1 || !g.IsActive(n-s) || !g.IsActive(n+s) {
				o.Lateral[a] = append(o.Lateral[a], n)
			}
		}
	}
	return
}

// NumLateral returns the number of lateral face entries
func (o *Faces) NumLateral() (count int) {
	for _, l := range o.Lateral {
		count += len(l)
	}
	return
}
