// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triax

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/vox"
)

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01. control transitions")

	var ctl Control
	if ctl.State() != Idle {
		tst.Errorf("initial state should be idle\n")
	}
	if ctl.Pause() != ErrNotRunning {
		tst.Errorf("Pause on idle should fail\n")
	}
	if ctl.Cancel() != ErrNotRunning {
		tst.Errorf("Cancel on idle should fail\n")
	}
	if ctl.Set(Running) == nil {
		tst.Errorf("idle → running should be rejected\n")
	}

	// begin and run
	if err := ctl.Begin(); err != nil {
		tst.Errorf("Begin failed: %v\n", err)
		return
	}
	if ctl.Begin() != ErrBusy {
		tst.Errorf("second Begin should fail with ErrBusy\n")
	}
	if err := ctl.Set(Running); err != nil {
		tst.Errorf("Set failed: %v\n", err)
		return
	}

	// pause and resume
	if err := ctl.Pause(); err != nil {
		tst.Errorf("Pause failed: %v\n", err)
	}
	if ctl.State() != Paused {
		tst.Errorf("state should be paused. %v is incorrect\n", ctl.State())
	}
	if ctl.Pause() != ErrNotRunning {
		tst.Errorf("second Pause should fail\n")
	}
	if ctl.ContinueAfterFailure() != ErrNoFailure {
		tst.Errorf("ContinueAfterFailure without failure should fail\n")
	}
	if err := ctl.Resume(); err != nil {
		tst.Errorf("Resume failed: %v\n", err)
	}
	if ctl.Resume() != ErrNotPaused {
		tst.Errorf("second Resume should fail\n")
	}

	// failure and continue
	if err := ctl.Set(PausedOnFailure); err != nil {
		tst.Errorf("Set failed: %v\n", err)
	}
	if ctl.Resume() != ErrNotPaused {
		tst.Errorf("Resume cannot leave a failure pause\n")
	}
	if ctl.IgnoreFailure() {
		tst.Errorf("failure detection should be enabled\n")
	}
	if err := ctl.ContinueAfterFailure(); err != nil {
		tst.Errorf("ContinueAfterFailure failed: %v\n", err)
	}
	if !ctl.IgnoreFailure() || ctl.State() != Running {
		tst.Errorf("continue should disable failure detection and resume the run\n")
	}

	// cancel
	stop := ctl.Stop()
	if err := ctl.Cancel(); err != nil {
		tst.Errorf("Cancel failed: %v\n", err)
	}
	if err := ctl.Cancel(); err != nil {
		tst.Errorf("repeated Cancel should be accepted: %v\n", err)
	}
	select {
	case <-stop:
	default:
		tst.Errorf("stop channel should be closed\n")
	}
	if !ctl.Cancelled() {
		tst.Errorf("cancel flag should be set\n")
	}
	if err := ctl.Set(Cancelled); err != nil {
		tst.Errorf("Set failed: %v\n", err)
	}
	if !ctl.State().Terminal() {
		tst.Errorf("cancelled should be terminal\n")
	}
	if ctl.Set(Running) == nil {
		tst.Errorf("cancelled → running should be rejected\n")
	}

	// a new run clears the requests
	if err := ctl.Begin(); err != nil {
		tst.Errorf("Begin after cancellation failed: %v\n", err)
	}
	if ctl.Cancelled() || ctl.IgnoreFailure() {
		tst.Errorf("Begin should clear requests\n")
	}
	select {
	case <-ctl.Stop():
		tst.Errorf("new stop channel should be open\n")
	default:
	}
}

func Test_state02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state02. names")

	names := map[RunState]string{
		Idle:            "idle",
		Initializing:    "initializing",
		Running:         "running",
		Paused:          "paused",
		PausedOnFailure: "paused on failure",
		Completed:       "completed",
		Cancelled:       "cancelled",
		Failed:          "failed",
		RunState(42):    "invalid",
	}
	for s, name := range names {
		if s.String() != name {
			tst.Errorf("name of %d should be %q. %q is incorrect\n", int(s), name, s.String())
		}
	}
	terminal := 0
	for s := Idle; s <= Failed; s++ {
		if s.Terminal() {
			terminal++
		}
	}
	chk.Int(tst, "number of terminal states", terminal, 3)
}

func Test_summary01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary01. save and read")

	drv, err := NewDriver(fullSample(6, 2500, 1, 0, 0), testLogger())
	if err != nil {
		tst.Errorf("NewDriver failed: %v\n", err)
		return
	}
	defer drv.Close()
	rp := RunParams{Conf: 5, AxialIni: 10, AxialFin: 20, Ninc: 3, Axis: vox.X, Nsteps: 10}
	err = drv.Start(context.Background(), rp)
	if err != nil {
		tst.Errorf("Start failed: %v\n", err)
		return
	}
	drain(tst, drv, nil)
	sum := drv.Summary(rp)
	if sum.State != "completed" || sum.Cancelled || sum.Error != "" {
		tst.Errorf("summary flags are incorrect: %+v\n", sum)
	}
	chk.Int(tst, "number of samples", len(sum.Samples), 3)
	chk.Array(tst, "stresses", 1e-9, sum.Stresses(), []float64{10, 15, 20})

	dir := tst.TempDir()
	for _, enctype := range []string{"gob", "json"} {
		err = sum.Save(dir, "sample", enctype, chk.Verbose)
		if err != nil {
			tst.Errorf("Save(%s) failed: %v\n", enctype, err)
			return
		}
		res, err := ReadSummary(dir, "sample", enctype)
		if err != nil {
			tst.Errorf("ReadSummary(%s) failed: %v\n", enctype, err)
			return
		}
		io.Pforan("%s: %v\n", enctype, res.Stresses())
		chk.Int(tst, "axis", res.Axis, int(vox.X))
		chk.Int(tst, "ninc", res.Ninc, 3)
		chk.Float64(tst, "Δt", 1e-20, res.Dt, sum.Dt)
		chk.Array(tst, "strains", 1e-17, res.Strains(), sum.Strains())
		chk.Array(tst, "stresses", 1e-17, res.Stresses(), sum.Stresses())
	}
	if _, err = ReadSummary(dir, "missing", "json"); err == nil {
		tst.Errorf("reading a missing file should fail\n")
	}
}
