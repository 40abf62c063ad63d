// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triax

import (
	"errors"
	"sync"

	"github.com/cpmech/gosl/chk"
)

// RunState is the state of a simulation run
type RunState int

// run states
const (
	Idle RunState = iota
	Initializing
	Running
	Paused
	PausedOnFailure
	Completed
	Cancelled
	Failed
)

var stateNames = []string{"idle", "initializing", "running", "paused", "paused on failure", "completed", "cancelled", "failed"}

// String returns the name of the state
func (o RunState) String() string {
	if o < Idle || o > Failed {
		return "invalid"
	}
	return stateNames[o]
}

// Terminal tells whether a run in this state has finished
func (o RunState) Terminal() bool {
	return o == Completed || o == Cancelled || o == Failed
}

// transitions holds the allowed transitions
var transitions = map[RunState][]RunState{
	Idle:            {Initializing},
	Initializing:    {Running, Cancelled, Failed},
	Running:         {Paused, PausedOnFailure, Completed, Cancelled, Failed},
	Paused:          {Running, PausedOnFailure, Completed, Cancelled, Failed},
	PausedOnFailure: {Running, Cancelled, Failed},
	Completed:       {Initializing},
	Cancelled:       {Initializing},
	Failed:          {Initializing},
}

// control errors
var (
	ErrBusy       = errors.New("a simulation is already in progress")
	ErrNotRunning = errors.New("simulation is not running")
	ErrNotPaused  = errors.New("simulation is not paused")
	ErrNoFailure  = errors.New("simulation is not paused on failure")
	ErrNoMaterial = errors.New("sample has no active material voxels")
)

// Control holds the run state and the requests from other goroutines
type Control struct {
	mu            sync.Mutex
	state         RunState
	cancel        bool          // cancellation requested
	ignoreFailure bool          // failure detection is disabled for the rest of the run
	stop          chan struct{} // closed when cancellation is requested
}

// State returns the current state
func (o *Control) State() RunState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Begin moves to Initializing and clears all requests
func (o *Control) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !allowed(o.state, Initializing) {
		return ErrBusy
	}
	o.state = Initializing
	o.cancel = false
	o.ignoreFailure = false
	o.stop = make(chan struct{})
	return nil
}

// Set moves to state to
func (o *Control) Set(to RunState) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.set(to)
}

// Pause requests Running → Paused
func (o *Control) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Running {
		return ErrNotRunning
	}
	return o.set(Paused)
}

// Resume requests Paused → Running
func (o *Control) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Paused {
		return ErrNotPaused
	}
	return o.set(Running)
}

// ContinueAfterFailure requests PausedOnFailure → Running and disables failure detection
func (o *Control) ContinueAfterFailure() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != PausedOnFailure {
		return ErrNoFailure
	}
	o.ignoreFailure = true
	return o.set(Running)
}

// Cancel requests cancellation; the run loop observes it between micro-steps
func (o *Control) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case Initializing, Running, Paused, PausedOnFailure:
	default:
		return ErrNotRunning
	}
	if !o.cancel {
		o.cancel = true
		close(o.stop)
	}
	return nil
}

// Cancelled tells whether cancellation was requested
func (o *Control) Cancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancel
}

// IgnoreFailure tells whether failure detection is disabled
func (o *Control) IgnoreFailure() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ignoreFailure
}

// Stop returns a channel closed when cancellation is requested
func (o *Control) Stop() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stop
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func (o *Control) set(to RunState) error {
	if !allowed(o.state, to) {
		return chk.Err("invalid transition: %v → %v", o.state, to)
	}
	o.state = to
	return nil
}

func allowed(from, to RunState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
