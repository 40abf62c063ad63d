// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"github.com/cpmech/gosl/chk"
	"github.com/mattemangia/CTS-sub011/vox"
)

func init() {
	Register("device", newAccel)
}

// Accel keeps the field store in device memory and launches the passes as device kernels
type Accel struct {
	dev    *Device
	grid   *vox.Grid   // device copy of static data
	faces  *vox.Faces  // device copy of boundary voxels
	prm    *vox.Params // kernel parameters
	fields *vox.Fields // views of device buffers
	bufs   []*Buffer   // device buffers in vox.Fields.Buffers order
}

func newAccel(g *vox.Grid, faces *vox.Faces, prm *vox.Params, opts Options) (Backend, error) {
	o := &Accel{dev: NewDevice(opts.Workers, opts.Block), prm: prm}

	// static data
	dg := *g
	dg.Labels = append([]byte(nil), g.Labels...)
	dg.Rho = append([]float64(nil), g.Rho...)
	o.grid = &dg
	o.faces = &vox.Faces{Axis: faces.Axis, Lo: faces.Lo, Hi: faces.Hi, Axial: append([]int(nil), faces.Axial...)}
	for a := range faces.Lateral {
		o.faces.Lateral[a] = append([]int(nil), faces.Lateral[a]...)
	}

	// field store
	n := g.N()
	o.fields = new(vox.Fields)
	alloc := func() []float64 {
		b := o.dev.Alloc(n)
		o.bufs = append(o.bufs, b)
		return b.data
	}
	for i := range o.fields.Sig {
		o.fields.Sig[i] = alloc()
	}
	for i := range o.fields.Vel {
		o.fields.Vel[i] = alloc()
	}
	for i := range o.fields.Disp {
		o.fields.Disp[i] = alloc()
	}
	o.fields.Dam = alloc()
	return o, nil
}

// Name returns "device"
func (o *Accel) Name() string { return "device" }

// Device returns the underlying device
func (o *Accel) Device() *Device { return o.dev }

// Reset sets the initial state
func (o *Accel) Reset(conf float64) error {
	return o.dev.Launch1D("reset", o.grid.N(), func(n int) {
		vox.ResetAt(o.grid, o.fields, n, conf)
	})
}

// StressPass launches the stress kernel
func (o *Accel) StressPass() error { return o.launch("stress", vox.StressAt) }

// VelocityPass launches the velocity kernel
func (o *Accel) VelocityPass() error { return o.launch("velocity", vox.VelocityAt) }

// DisplacementPass launches the displacement kernel
func (o *Accel) DisplacementPass() error { return o.launch("displacement", vox.DisplacementAt) }

// ApplyAxial launches the axial loading kernel over the axial faces
func (o *Accel) ApplyAxial(axial, conf float64) error {
	faces := o.faces
	return o.dev.Launch1D("axial", len(faces.Axial), func(idx int) {
		vox.SetAxial(o.fields, faces.Axial[idx], faces.Axis, axial, conf)
	})
}

// ApplyLateral launches the confining kernel over each lateral face list
func (o *Accel) ApplyLateral(conf float64) error {
	for a, l := range o.faces.Lateral {
		a, l := vox.Axis(a), l
		err := o.dev.Launch1D("lateral", len(l), func(idx int) {
			vox.SetLateral(o.fields, l[idx], a, conf)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Broadcast launches the loading kernel over every active voxel
func (o *Accel) Broadcast(axial, conf float64) error {
	return o.dev.Launch1D("broadcast", o.grid.N(), func(n int) {
		if o.grid.IsActive(n) {
			vox.SetAxial(o.fields, n, o.faces.Axis, axial, conf)
		}
	})
}

// Sync waits for all launches
func (o *Accel) Sync() error { return o.dev.Sync() }

// Snapshot downloads damage into dam
func (o *Accel) Snapshot(dam []float64) error {
	return o.bufs[len(o.bufs)-1].Download(dam)
}

// CopyFields downloads all fields into dst
func (o *Accel) CopyFields(dst *vox.Fields) error {
	if dst.N() != o.grid.N() {
		return chk.Err("device: destination has %d voxels but grid has %d", dst.N(), o.grid.N())
	}
	for i, buf := range dst.Buffers() {
		err := o.bufs[i].Download(buf)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close stops the device
func (o *Accel) Close() error { return o.dev.Close() }

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func (o *Accel) launch(name string, kernel vox.Kernel) error {
	g := o.grid
	return o.dev.Launch(name, g.Dims(), func(i, j, k int) {
		kernel(g, o.fields, o.prm, i, j, k)
	})
}
