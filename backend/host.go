// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"runtime"

	"github.com/cpmech/gosl/chk"
	"github.com/mattemangia/CTS-sub011/vox"
	"golang.org/x/sync/errgroup"
)

func init() {
	Register("host", newHost)
}

// Host runs passes on host memory; whole z-planes are assigned to each worker
//  Workers = 1 is the sequential reference
type Host struct {
	Workers int         // number of workers
	grid    *vox.Grid   // grid
	faces   *vox.Faces  // boundary voxels
	prm     *vox.Params // kernel parameters
	fields  *vox.Fields // field store
}

func newHost(g *vox.Grid, faces *vox.Faces, prm *vox.Params, opts Options) (Backend, error) {
	o := &Host{Workers: opts.Workers, grid: g, faces: faces, prm: prm}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Workers > g.Nz {
		o.Workers = g.Nz
	}
	o.fields = vox.NewFields(g.N())
	return o, nil
}

// Name returns "host"
func (o *Host) Name() string { return "host" }

// Fields returns the field store; it must not be accessed while passes run
func (o *Host) Fields() *vox.Fields { return o.fields }

// Reset sets the initial state
func (o *Host) Reset(conf float64) error {
	o.fields.Reset(o.grid, conf)
	return nil
}

// StressPass updates stress and damage
func (o *Host) StressPass() error { return o.run(vox.StressAt) }

// VelocityPass updates velocities
func (o *Host) VelocityPass() error { return o.run(vox.VelocityAt) }

// DisplacementPass updates displacements
func (o *Host) DisplacementPass() error { return o.run(vox.DisplacementAt) }

// ApplyAxial overwrites normal stresses of axial face voxels
func (o *Host) ApplyAxial(axial, conf float64) error {
	for _, n := range o.faces.Axial {
		vox.SetAxial(o.fields, n, o.faces.Axis, axial, conf)
	}
	return nil
}

// ApplyLateral overwrites lateral normal stresses of lateral face voxels
func (o *Host) ApplyLateral(conf float64) error {
	for a, l := range o.faces.Lateral {
		for _, n := range l {
			vox.SetLateral(o.fields, n, vox.Axis(a), conf)
		}
	}
	return nil
}

// Broadcast overwrites normal stresses of every active voxel
func (o *Host) Broadcast(axial, conf float64) error {
	for n := 0; n < o.grid.N(); n++ {
		if o.grid.IsActive(n) {
			vox.SetAxial(o.fields, n, o.faces.Axis, axial, conf)
		}
	}
	return nil
}

// Sync does nothing since host passes are synchronous
func (o *Host) Sync() error { return nil }

// Snapshot copies damage into dam
func (o *Host) Snapshot(dam []float64) error {
	if len(dam) != o.grid.N() {
		return chk.Err("host: damage buffer has %d entries but grid has %d voxels", len(dam), o.grid.N())
	}
	copy(dam, o.fields.Dam)
	return nil
}

// CopyFields copies all fields into dst
func (o *Host) CopyFields(dst *vox.Fields) error {
	if dst.N() != o.grid.N() {
		return chk.Err("host: destination has %d voxels but grid has %d", dst.N(), o.grid.N())
	}
	o.fields.CopyTo(dst)
	return nil
}

// Close does nothing
func (o *Host) Close() error { return nil }

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

// run executes kernel over all voxels; each worker gets a contiguous range of z-planes
func (o *Host) run(kernel vox.Kernel) error {
	g := o.grid
	if o.Workers == 1 {
		return o.planes(kernel, 0, g.Nz)
	}
	var eg errgroup.Group
	chunk := (g.Nz + o.Workers - 1) / o.Workers
	for k0 := 0; k0 < g.Nz; k0 += chunk {
		k1 := k0 + chunk
		if k1 > g.Nz {
			k1 = g.Nz
		}
		k0 := k0
		eg.Go(func() error {
			return o.planes(kernel, k0, k1)
		})
	}
	return eg.Wait()
}

// planes executes kernel over the z-planes in [k0,k1)
func (o *Host) planes(kernel vox.Kernel, k0, k1 int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("host: kernel failed on planes [%d,%d): %v", k0, k1, r)
		}
	}()
	g := o.grid
	for k := k0; k < k1; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				kernel(g, o.fields, o.prm, i, j, k)
			}
		}
	}
	return
}
