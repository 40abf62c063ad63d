// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package triax implements the driver of triaxial compression runs on voxel samples
package triax

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/backend"
	"github.com/mattemangia/CTS-sub011/msolid"
	"github.com/mattemangia/CTS-sub011/vox"
	"github.com/sirupsen/logrus"
)

// errCancelled stops the run loop on cancellation
var errCancelled = errors.New("cancelled")

// reservedEvents is the number of channel slots kept for the failure, error and completion events
const reservedEvents = 3

// Driver runs triaxial compression simulations on one sample
//  A single background goroutine owns the field store while a run is in progress; other
//  goroutines read it through copy-out accessors only
type Driver struct {
	Log *logrus.Entry // logger

	// constants
	cfg  Config           // configuration
	grid *vox.Grid        // sample
	mat  *msolid.Material // reference material
	prm  *vox.Params      // kernel parameters
	mon  *vox.Monitor     // failure monitor
	ctl  Control          // run state

	// field store; fmu is held for every micro-step and copy-out
	fmu   sync.Mutex
	be    backend.Backend
	faces *vox.Faces
	host  *vox.Fields // host copy of fields for measurements
	dam   []float64   // host copy of damage for scans

	// results; rmu guards everything below
	rmu      sync.RWMutex
	events   chan Event
	samples  []vox.Sample
	strain   float64
	stress   float64
	failed   bool
	failInc  int
	failVox  int
	maxRatio float64
	runErr   error
	done     chan struct{}
}

// NewDriver validates the configuration and builds the sample
//  A sample without active material is accepted with a warning; Start will refuse to run it
func NewDriver(cfg Config, logger *logrus.Logger) (o *Driver, err error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	cfg.SetDefault()
	o = &Driver{cfg: cfg, failVox: -1}
	o.Log = logger.WithField("backend", cfg.Backend)

	// sample
	o.grid, err = vox.NewGrid(cfg.Nx, cfg.Ny, cfg.Nz, cfg.Pitch, cfg.Labels, cfg.Density, cfg.Active)
	if err != nil {
		o.Log.WithError(err).Error("invalid sample")
		return nil, err
	}
	nact := o.grid.NumActive()
	if nact == 0 {
		o.Log.WithField("active", cfg.Active).Warn("sample has no active material voxels; no measurements are available")
	}

	// material
	o.mat = new(msolid.Material)
	err = o.mat.Init(cfg.Material)
	if err != nil {
		o.Log.WithError(err).Error("invalid material")
		return nil, err
	}

	// stable time step
	Δt, vp := vox.TimeStep(o.grid, o.mat, cfg.Safety)
	o.prm = &vox.Params{Mat: o.mat, Dt: Δt, Damping: cfg.Damping}
	o.mon = vox.NewMonitor(o.mat, cfg.Threshold)
	o.dam = make([]float64, o.grid.N())
	o.host = vox.NewFields(o.grid.N())
	o.Log.WithFields(logrus.Fields{
		"grid":   io.Sf("%d×%d×%d", cfg.Nx, cfg.Ny, cfg.Nz),
		"active": nact,
		"dt":     Δt,
		"vp":     vp,
	}).Debug("driver created")
	return
}

// Material returns the reference material
func (o *Driver) Material() *msolid.Material { return o.mat }

// Grid returns the sample
func (o *Driver) Grid() *vox.Grid { return o.grid }

// TimeStep returns the time step of the micro-steps [s]
func (o *Driver) TimeStep() float64 { return o.prm.Dt }

// State returns the current run state
func (o *Driver) State() RunState { return o.ctl.State() }

// Start launches a run in the background and returns immediately
//  Cancelling ctx has the same effect as calling Cancel
func (o *Driver) Start(ctx context.Context, rp RunParams) (err error) {
	err = rp.check()
	if err != nil {
		return
	}
	if o.grid.NumActive() == 0 {
		o.Log.Error(ErrNoMaterial.Error())
		return ErrNoMaterial
	}
	err = o.ctl.Begin()
	if err != nil {
		return
	}

	// field store
	o.fmu.Lock()
	if o.be != nil {
		o.be.Close()
	}
	o.faces = vox.NewFaces(o.grid, rp.Axis)
	o.be, err = backend.New(o.cfg.Backend, o.grid, o.faces, o.prm, backend.Options{Workers: o.cfg.Workers, Block: o.cfg.Block})
	o.fmu.Unlock()
	if err != nil {
		o.Log.WithError(err).Error("cannot allocate backend")
		o.ctl.Set(Failed)
		return
	}

	// results
	events := make(chan Event, o.cfg.EventBuffer+reservedEvents)
	done := make(chan struct{})
	o.rmu.Lock()
	o.events, o.done = events, done
	o.samples = nil
	o.strain, o.stress = 0, 0
	o.failed, o.failInc, o.failVox = false, 0, -1
	o.maxRatio, o.runErr = 0, nil
	o.rmu.Unlock()

	go o.run(ctx, rp, events, done)
	return
}

// Events returns the notifications of the last run; the channel is closed after Completed
//  Progress events are dropped while the channel is full; failure and completion are always delivered
func (o *Driver) Events() <-chan Event {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return o.events
}

// Wait blocks until the last run finishes and returns its execution error
func (o *Driver) Wait() error {
	o.rmu.RLock()
	done := o.done
	o.rmu.RUnlock()
	if done == nil {
		return nil
	}
	<-done
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return o.runErr
}

// Pause pauses a running simulation between micro-steps
func (o *Driver) Pause() error { return o.ctl.Pause() }

// Resume resumes a paused simulation
func (o *Driver) Resume() error { return o.ctl.Resume() }

// Cancel stops the simulation; data gathered so far is kept
func (o *Driver) Cancel() error { return o.ctl.Cancel() }

// ContinueAfterFailure resumes a simulation paused on failure and disables failure detection
func (o *Driver) ContinueAfterFailure() error { return o.ctl.ContinueAfterFailure() }

// CurrentStrain returns the last measured axial strain
func (o *Driver) CurrentStrain() float64 {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return o.strain
}

// CurrentStress returns the last measured axial stress [MPa]
func (o *Driver) CurrentStress() float64 {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return o.stress
}

// History returns copies of the recorded strains and stresses [MPa]
func (o *Driver) History() (strains, stresses []float64) {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return split(o.samples)
}

// Samples returns a copy of the recorded samples
func (o *Driver) Samples() []vox.Sample {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return append([]vox.Sample(nil), o.samples...)
}

// Failure returns the increment and voxel of the first failure; ok is false if none was detected
func (o *Driver) Failure() (inc int, ijk [3]int, ok bool) {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	if !o.failed {
		return
	}
	ijk[0], ijk[1], ijk[2] = o.grid.Coords(o.failVox)
	return o.failInc, ijk, true
}

// MaxRatio returns the largest damage ratio found by the last scan
func (o *Driver) MaxRatio() float64 {
	o.rmu.RLock()
	defer o.rmu.RUnlock()
	return o.maxRatio
}

// CopyDamage copies the damage field into dst, which must have one entry per voxel
func (o *Driver) CopyDamage(dst []float64) error {
	if len(dst) != o.grid.N() {
		return chk.Err("damage buffer must have %d entries (%d×%d×%d). %d is invalid", o.grid.N(), o.grid.Nx, o.grid.Ny, o.grid.Nz, len(dst))
	}
	o.fmu.Lock()
	defer o.fmu.Unlock()
	if o.be == nil {
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}
	return o.be.Snapshot(dst)
}

// CopyFields copies stress, velocity, displacement and damage into dst
func (o *Driver) CopyFields(dst *vox.Fields) error {
	if dst.N() != o.grid.N() {
		return chk.Err("fields must have %d voxels. %d is invalid", o.grid.N(), dst.N())
	}
	o.fmu.Lock()
	defer o.fmu.Unlock()
	if o.be == nil {
		vox.NewFields(o.grid.N()).CopyTo(dst)
		return nil
	}
	return o.be.CopyFields(dst)
}

// MaxDamageVoxel returns the coordinates and damage of the most damaged active voxel
//  ok is false if there are no active voxels
func (o *Driver) MaxDamageVoxel() (ijk [3]int, D float64, ok bool) {
	dam := make([]float64, o.grid.N())
	if err := o.CopyDamage(dam); err != nil {
		o.Log.WithError(err).Error("cannot copy damage")
		return
	}
	n, D := vox.MaxDamage(o.grid, dam)
	if n < 0 {
		return
	}
	ijk[0], ijk[1], ijk[2] = o.grid.Coords(n)
	return ijk, D, true
}

// Close releases the field store; the driver must not be running
func (o *Driver) Close() (err error) {
	if s := o.ctl.State(); !s.Terminal() && s != Idle {
		return ErrBusy
	}
	o.fmu.Lock()
	defer o.fmu.Unlock()
	if o.be != nil {
		err = o.be.Close()
		o.be = nil
	}
	return
}

// run loop ///////////////////////////////////////////////////////////////////////////////////

// run executes the run loop and emits the terminal notifications
func (o *Driver) run(ctx context.Context, rp RunParams, events chan<- Event, done chan<- struct{}) {
	defer close(done)
	defer close(events)

	err := o.protect(func() error { return o.loop(ctx, rp, events) })

	// terminal state
	o.rmu.Lock()
	strains, stresses := split(o.samples)
	comp := Event{Kind: CompletedEvent, Strains: strains, Stresses: stresses, Failed: o.failed, FailureInc: o.failInc, Total: rp.Ninc}
	o.rmu.Unlock()
	log := o.Log.WithField("samples", len(strains))
	switch {
	case err == errCancelled:
		comp.Cancelled = true
		o.ctl.Set(Cancelled)
		log.Info("simulation cancelled")
	case err != nil:
		o.rmu.Lock()
		o.runErr = err
		o.rmu.Unlock()
		comp.Err, comp.ErrText = err, err.Error()
		o.ctl.Set(Failed)
		log.WithError(err).Error("simulation failed")
		events <- Event{Kind: ProgressEvent, Status: "Error: " + err.Error()}
	default:
		o.ctl.Set(Completed)
		log.Info("simulation completed")
	}
	events <- comp
}

// protect converts panics of f into errors
func (o *Driver) protect(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("run loop panicked: %v", r)
		}
	}()
	return f()
}

// loop runs all increments
func (o *Driver) loop(ctx context.Context, rp RunParams, events chan<- Event) (err error) {

	// initial state
	conf := rp.Conf * msolid.MPa
	o.mat.Conf = conf
	err = o.locked(func() error { return o.be.Reset(conf) })
	if err != nil {
		return
	}
	L0 := o.grid.Length(rp.Axis)
	pressures := rp.Schedule()
	err = o.ctl.Set(Running)
	if err != nil {
		if o.ctl.Cancelled() {
			return errCancelled
		}
		return
	}
	o.Log.WithFields(logrus.Fields{
		"axis":   rp.Axis,
		"conf":   rp.Conf,
		"axial":  io.Sf("%g→%g", rp.AxialIni, rp.AxialFin),
		"ninc":   rp.Ninc,
		"nsteps": rp.Nsteps,
		"dt":     o.prm.Dt,
	}).Info("simulation started")

	// increments
	for inc := 1; inc <= rp.Ninc; inc++ {
		if o.stopRequested(ctx) {
			return errCancelled
		}
		axial := pressures[inc-1] * msolid.MPa

		// boundary conditions
		err = o.locked(func() (e error) {
			if e = o.be.ApplyAxial(axial, conf); e != nil {
				return
			}
			if e = o.be.ApplyLateral(conf); e != nil {
				return
			}
			if o.cfg.Broadcast {
				e = o.be.Broadcast(axial, conf)
			}
			return
		})
		if err != nil {
			return
		}

		// micro-steps
		for step := 1; step <= rp.Nsteps; step++ {
			err = o.checkpoint(ctx)
			if err != nil {
				return
			}
			err = o.locked(func() error { return backend.Step(o.be) })
			if err != nil {
				return
			}
			if step%o.cfg.RecordEvery == 0 && step != rp.Nsteps {
				err = o.record(inc, step, L0, axial)
				if err != nil {
					return
				}
			}
			if (step%o.cfg.CheckEvery == 0 || step == rp.Nsteps) && !o.ctl.IgnoreFailure() {
				err = o.checkFailure(ctx, rp, inc, L0, axial, events)
				if err != nil {
					return
				}
			}
		}

		// end of increment
		err = o.record(inc, rp.Nsteps, L0, axial)
		if err != nil {
			return
		}
		o.send(events, Event{
			Kind:    ProgressEvent,
			Percent: 100 * float64(inc) / float64(rp.Ninc),
			Inc:     inc,
			Total:   rp.Ninc,
			Status:  io.Sf("increment %d of %d: axial=%g MPa", inc, rp.Ninc, pressures[inc-1]),
		})
		if rp.AfterIncrement != nil {
			rp.AfterIncrement(inc)
		}
	}
	return
}

// checkpoint honours cancellation and pause between micro-steps
func (o *Driver) checkpoint(ctx context.Context) error {
	for {
		if o.stopRequested(ctx) {
			return errCancelled
		}
		if o.ctl.State() != Paused {
			return nil
		}
		time.Sleep(o.cfg.PollPeriod)
	}
}

// stopRequested tells whether Cancel was called or ctx is done
func (o *Driver) stopRequested(ctx context.Context) bool {
	return o.ctl.Cancelled() || ctx.Err() != nil
}

// measure measures the specimen and updates the current strain and stress
func (o *Driver) measure(L0, axial float64) (strain, stress float64, err error) {
	err = o.locked(func() (e error) {
		if e = o.be.CopyFields(o.host); e != nil {
			return
		}
		strain, stress = vox.Measure(o.grid, o.host, o.faces, L0, axial)
		return
	})
	if err != nil {
		return
	}
	o.rmu.Lock()
	o.strain, o.stress = strain, stress
	o.rmu.Unlock()
	return
}

// record measures the specimen and appends a sample
func (o *Driver) record(inc, step int, L0, axial float64) (err error) {
	strain, stress, err := o.measure(L0, axial)
	if err != nil {
		return
	}
	o.rmu.Lock()
	o.samples = append(o.samples, vox.Sample{Inc: inc, Step: step, Strain: strain, Stress: stress, Target: axial / msolid.MPa})
	o.rmu.Unlock()
	return
}

// checkFailure scans damage; on failure, it notifies and blocks until ContinueAfterFailure or Cancel
func (o *Driver) checkFailure(ctx context.Context, rp RunParams, inc int, L0, axial float64, events chan<- Event) (err error) {
	err = o.locked(func() error { return o.be.Snapshot(o.dam) })
	if err != nil {
		return
	}
	rep := o.mon.Scan(o.grid, o.dam)
	o.rmu.Lock()
	o.maxRatio = rep.MaxRatio
	if !rep.Failed {
		o.rmu.Unlock()
		return
	}
	if !o.failed {
		o.failed, o.failInc, o.failVox = true, inc, rep.First
	}
	o.rmu.Unlock()
	strain, stress, err := o.measure(L0, axial)
	if err != nil {
		return
	}

	// notify and wait for the caller's decision
	i, j, k := o.grid.Coords(rep.First)
	o.Log.WithFields(logrus.Fields{
		"inc":    inc,
		"voxel":  io.Sf("(%d,%d,%d)", i, j, k),
		"ratio":  rep.MaxRatio,
		"stress": stress,
	}).Warn("failure detected")
	err = o.checkpoint(ctx)
	if err != nil {
		return
	}
	err = o.ctl.Set(PausedOnFailure)
	if err != nil {
		if o.ctl.Cancelled() {
			return errCancelled
		}
		return
	}
	events <- Event{Kind: FailureEvent, Stress: stress, Strain: strain, Inc: inc, Total: rp.Ninc, Voxel: [3]int{i, j, k}}
	for {
		if o.stopRequested(ctx) {
			return errCancelled
		}
		if o.ctl.State() == Running {
			o.Log.Info("continuing after failure")
			return nil
		}
		time.Sleep(o.cfg.PollPeriod)
	}
}

// send delivers a progress event; it is dropped when only the reserved slots are free
func (o *Driver) send(events chan<- Event, ev Event) {
	if len(events) < cap(events)-reservedEvents {
		events <- ev
		return
	}
	o.Log.WithField("inc", ev.Inc).Debug("events channel is full; progress event dropped")
}

// locked runs f while holding the field store
func (o *Driver) locked(f func() error) error {
	o.fmu.Lock()
	defer o.fmu.Unlock()
	return f()
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func split(samples []vox.Sample) (strains, stresses []float64) {
	strains = make([]float64, len(samples))
	stresses = make([]float64, len(samples))
	for i, s := range samples {
		strains[i], stresses[i] = s.Strain, s.Stress
	}
	return
}
