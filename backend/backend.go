// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package backend owns the field store of a run and executes the field update passes over the
// whole grid, either on host workers or on an (emulated) accelerator
package backend

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/mattemangia/CTS-sub011/vox"
)

// Backend executes whole-grid passes on a field store it owns
//  Passes may run asynchronously; Sync is the barrier after which field data may be read
type Backend interface {
	Name() string                         // name of backend
	Reset(conf float64) error             // initial state: zero v, u and D; -conf on active normals
	StressPass() error                    // stress and damage of interior active voxels
	VelocityPass() error                  // velocity of interior active voxels
	DisplacementPass() error              // displacement of every active voxel
	ApplyAxial(axial, conf float64) error // overwrite normals of axial face voxels [Pa]
	ApplyLateral(conf float64) error      // overwrite lateral normals of lateral face voxels [Pa]
	Broadcast(axial, conf float64) error  // overwrite normals of every active voxel [Pa]
	Sync() error                          // wait for all submitted work
	Snapshot(dam []float64) error         // barrier and copy of damage into dam
	CopyFields(dst *vox.Fields) error     // barrier and copy of all fields into dst
	Close() error                         // release resources
}

// Options holds backend settings
type Options struct {
	Workers int    // number of concurrent workers; ≤ 0 means number of CPUs
	Block   [3]int // thread block size of device launches; zeros mean DefaultBlock
}

// Step runs one micro-step: stress, velocity and displacement passes, in this order
func Step(b Backend) (err error) {
	err = b.StressPass()
	if err != nil {
		return
	}
	err = b.VelocityPass()
	if err != nil {
		return
	}
	return b.DisplacementPass()
}

// Allocator creates a backend for a grid
type Allocator func(g *vox.Grid, faces *vox.Faces, prm *vox.Params, opts Options) (Backend, error)

// allocators holds all available backends
var allocators = make(map[string]Allocator)

// Register makes a backend available under name
func Register(name string, allocator Allocator) {
	if allocator == nil {
		chk.Panic("cannot register backend %q with nil allocator", name)
	}
	allocators[name] = allocator
}

// Names returns the names of all registered backends
func Names() (l []string) {
	for name := range allocators {
		l = append(l, name)
	}
	sort.Strings(l)
	return
}

// New allocates a backend by name
func New(name string, g *vox.Grid, faces *vox.Faces, prm *vox.Params, opts Options) (Backend, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find backend named %q. available: %v", name, Names())
	}
	if g == nil || faces == nil || prm == nil || prm.Mat == nil {
		return nil, chk.Err("backend %q: grid, faces, parameters and material are required", name)
	}
	return allocator(g, faces, prm, opts)
}
