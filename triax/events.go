// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triax

// EventKind identifies notifications
type EventKind int

// kinds of events
const (
	ProgressEvent EventKind = iota
	FailureEvent
	CompletedEvent
)

// String returns the name of the kind
func (o EventKind) String() string {
	switch o {
	case ProgressEvent:
		return "progress"
	case FailureEvent:
		return "failure"
	case CompletedEvent:
		return "completed"
	}
	return "invalid"
}

// Event is a notification from the run loop
//  Progress:        Percent, Inc, Status
//  FailureDetected: Stress, Strain, Inc, Total, Voxel
//  Completed:       Strains, Stresses, Failed, FailureInc, Cancelled, Err
type Event struct {
	Kind    EventKind `json:"kind"`
	Percent float64   `json:"percent,omitempty"` // percentage of increments completed
	Inc     int       `json:"inc,omitempty"`     // increment index (1-based)
	Total   int       `json:"total,omitempty"`   // number of increments
	Status  string    `json:"status,omitempty"`  // status text; "Error: ..." on execution errors

	// failure
	Stress float64 `json:"stress,omitempty"` // current stress [MPa]
	Strain float64 `json:"strain,omitempty"` // current strain
	Voxel  [3]int  `json:"voxel,omitempty"`  // first failed voxel (i,j,k)

	// completion
	Strains    []float64 `json:"strains,omitempty"`    // recorded strains
	Stresses   []float64 `json:"stresses,omitempty"`   // recorded stresses [MPa]
	Failed     bool      `json:"failed,omitempty"`     // failure was detected
	FailureInc int       `json:"failureInc,omitempty"` // increment of the first failure
	Cancelled  bool      `json:"cancelled,omitempty"`  // run was cancelled
	Err        error     `json:"-"`                    // execution error
	ErrText    string    `json:"error,omitempty"`      // execution error message
}
