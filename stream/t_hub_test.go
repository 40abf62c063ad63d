// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/gorilla/websocket"
	"github.com/mattemangia/CTS-sub011/triax"
	"github.com/mattemangia/CTS-sub011/vox"
	"github.com/sirupsen/logrus"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	if chk.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// dial connects a client to srv and reads the initial state message
func dial(tst *testing.T, srv *httptest.Server) (conn *websocket.Conn, hello Message) {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		tst.Fatalf("Dial failed: %v\n", err)
	}
	conn.SetReadDeadline(time.Now().Add(time.Minute))
	err = conn.ReadJSON(&hello)
	if err != nil {
		tst.Fatalf("cannot read initial message: %v\n", err)
	}
	return
}

func send(tst *testing.T, conn *websocket.Conn, cmd string) (reply Message) {
	err := conn.WriteJSON(Command{Cmd: cmd})
	if err != nil {
		tst.Fatalf("WriteJSON failed: %v\n", err)
	}
	err = conn.ReadJSON(&reply)
	if err != nil {
		tst.Fatalf("ReadJSON failed: %v\n", err)
	}
	return
}

func Test_hub01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hub01. commands and broadcast")

	ctl := new(triax.Control)
	ctl.Begin()
	ctl.Set(triax.Running)

	hub := NewHub(ctl, testLogger())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, hello := dial(tst, srv)
	defer conn.Close()
	if hello.Type != StateMsg || hello.State != "running" {
		tst.Errorf("initial message is incorrect: %+v\n", hello)
	}
	chk.Int(tst, "number of clients", hub.NumClients(), 1)

	// commands
	cases := []struct {
		cmd, state string
		fails      bool
	}{
		{"pause", "paused", false},
		{"pause", "paused", true},
		{"resume", "running", false},
		{"continue", "running", true},
		{"explode", "running", true},
		{"state", "running", false},
	}
	for _, c := range cases {
		r := send(tst, conn, c.cmd)
		io.Pforan("%-8s → %+v\n", c.cmd, r)
		if r.Type != ReplyMsg || r.Cmd != c.cmd || r.State != c.state || (r.Error != "") != c.fails {
			tst.Errorf("reply to %q is incorrect: %+v\n", c.cmd, r)
		}
	}

	// events
	events := make(chan triax.Event, 3)
	events <- triax.Event{Kind: triax.ProgressEvent, Percent: 50, Inc: 1, Total: 2, Status: "increment 1 of 2"}
	events <- triax.Event{Kind: triax.FailureEvent, Inc: 2, Total: 2, Stress: 120, Voxel: [3]int{1, 2, 3}}
	events <- triax.Event{Kind: triax.CompletedEvent, Strains: []float64{0.001, 0.002}, Stresses: []float64{60, 120}, Failed: true, FailureInc: 2}
	close(events)
	hub.Pump(events)
	kinds := []string{"progress", "failure", "completed"}
	for _, kind := range kinds {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			tst.Errorf("ReadJSON failed: %v\n", err)
			return
		}
		if msg.Type != EventMsg || msg.Kind != kind || msg.Event == nil {
			tst.Errorf("event message is incorrect: %+v\n", msg)
			return
		}
		switch kind {
		case "progress":
			chk.Float64(tst, "percent", 1e-17, msg.Event.Percent, 50)
		case "failure":
			chk.Ints(tst, "voxel", msg.Event.Voxel[:], []int{1, 2, 3})
		case "completed":
			chk.Array(tst, "stresses", 1e-17, msg.Event.Stresses, []float64{60, 120})
			chk.Int(tst, "failure increment", msg.Event.FailureInc, 2)
		}
	}

	// cancellation
	r := send(tst, conn, "cancel")
	if r.Error != "" || !ctl.Cancelled() {
		tst.Errorf("cancel should be accepted: %+v\n", r)
	}

	// client leaves
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	deadline := time.Now().Add(time.Minute)
	for hub.NumClients() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	chk.Int(tst, "number of clients", hub.NumClients(), 0)
}

func Test_hub02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hub02. streaming a run")

	g, err := vox.NewBlock(6, 6, 6, 0, 1e-3, 2600, 1)
	if err != nil {
		tst.Errorf("NewBlock failed: %v\n", err)
		return
	}
	cfg := triax.Config{
		Nx: g.Nx, Ny: g.Ny, Nz: g.Nz, Pitch: g.H, Labels: g.Labels, Density: g.Rho, Active: 1,
		Material:   dbf.Params{&dbf.P{N: "E", V: 50000}, &dbf.P{N: "nu", V: 0.2}, &dbf.P{N: "plastic", V: 0}, &dbf.P{N: "brittle", V: 0}},
		PollPeriod: time.Millisecond,
	}
	drv, err := triax.NewDriver(cfg, testLogger())
	if err != nil {
		tst.Errorf("NewDriver failed: %v\n", err)
		return
	}
	defer drv.Close()

	hub := NewHub(drv, testLogger())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn, hello := dial(tst, srv)
	defer conn.Close()
	if hello.State != "idle" {
		tst.Errorf("initial state should be idle. %q is incorrect\n", hello.State)
	}

	err = drv.Start(context.Background(), triax.RunParams{Conf: 5, AxialIni: 10, AxialFin: 30, Ninc: 3, Axis: vox.Z, Nsteps: 20})
	if err != nil {
		tst.Errorf("Start failed: %v\n", err)
		return
	}
	go hub.Pump(drv.Events())

	nprogress := 0
	for {
		var msg Message
		err = conn.ReadJSON(&msg)
		if err != nil {
			tst.Errorf("ReadJSON failed: %v\n", err)
			return
		}
		if msg.Kind == "progress" {
			nprogress++
		}
		if msg.Kind == "completed" {
			chk.Int(tst, "number of stresses", len(msg.Event.Stresses), 6)
			if msg.Event.Cancelled || msg.Event.ErrText != "" {
				tst.Errorf("run should complete normally: %+v\n", msg.Event)
			}
			break
		}
	}
	chk.Int(tst, "number of progress messages", nprogress, 3)
	if drv.Wait() != nil {
		tst.Errorf("Wait should return nil\n")
	}
}
