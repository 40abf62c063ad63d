// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triax

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"github.com/mattemangia/CTS-sub011/vox"
)

// Config holds the data given at construction
type Config struct {

	// sample
	Nx, Ny, Nz int       // number of voxels along x, y and z
	Pitch      float64   // voxel size [m]
	Labels     []byte    // [Nx·Ny·Nz] material labels; x runs fastest
	Density    []float64 // [Nx·Ny·Nz] densities [kg/m³]
	Active     byte      // label of the active material

	// material: E, nu, sigT, c and conf in MPa; phi in degrees; elastic, plastic, brittle and debug flags
	Material dbf.Params

	// solver
	Backend     string        // "host" or "device"
	Workers     int           // number of workers or compute units; 0 means number of CPUs
	Block       [3]int        // thread block of device launches
	Safety      float64       // CFL safety factor
	Damping     float64       // velocity damping per micro-step
	Threshold   float64       // failure ratio threshold
	RecordEvery int           // record a sample every RecordEvery micro-steps
	CheckEvery  int           // scan damage every CheckEvery micro-steps
	Broadcast   bool          // broadcast the target stress to every active voxel once per increment
	EventBuffer int           // capacity of the events channel available to progress events
	PollPeriod  time.Duration // sleep between checks while paused
}

// SetDefault sets default values of the solver settings
func (o *Config) SetDefault() {
	if o.Backend == "" {
		o.Backend = "host"
	}
	if o.Safety <= 0 {
		o.Safety = vox.DefaultSafety
	}
	if o.Damping <= 0 {
		o.Damping = 0.05
	}
	if o.Threshold <= 0 {
		o.Threshold = vox.DefaultThreshold
	}
	if o.RecordEvery <= 0 {
		o.RecordEvery = 10
	}
	if o.CheckEvery <= 0 {
		o.CheckEvery = 2
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = 64
	}
	if o.PollPeriod <= 0 {
		o.PollPeriod = 10 * time.Millisecond
	}
}

// RunParams holds the loading programme of one run
type RunParams struct {
	Conf     float64  // confining pressure [MPa]
	AxialIni float64  // initial axial pressure [MPa]
	AxialFin float64  // final axial pressure [MPa]
	Ninc     int      // number of pressure increments
	Axis     vox.Axis // loading axis
	Nsteps   int      // micro-steps per increment

	// AfterIncrement is called by the run loop after increment inc (1-based) is recorded
	AfterIncrement func(inc int)
}

// check checks the run parameters
func (o *RunParams) check() (err error) {
	if o.Ninc < 1 {
		return chk.Err("number of increments must be at least 1. Ninc=%d is invalid", o.Ninc)
	}
	if o.Nsteps < 1 {
		return chk.Err("number of micro-steps must be at least 1. Nsteps=%d is invalid", o.Nsteps)
	}
	if !o.Axis.Valid() {
		return chk.Err("loading axis %d is invalid", o.Axis)
	}
	if o.Conf < 0 || o.AxialIni < 0 || o.AxialFin < 0 {
		return chk.Err("pressures must be non-negative: conf=%g axialIni=%g axialFin=%g", o.Conf, o.AxialIni, o.AxialFin)
	}
	return
}

// Schedule returns the axial pressure of each increment [MPa]
//  A single increment applies the final pressure
func (o *RunParams) Schedule() []float64 {
	if o.Ninc == 1 {
		return []float64{o.AxialFin}
	}
	return utl.LinSpace(o.AxialIni, o.AxialFin, o.Ninc)
}
