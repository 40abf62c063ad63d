// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/triax"
	"github.com/mattemangia/CTS-sub011/vox"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc" yaml:"desc"`       // description of simulation
	DirOut  string `json:"dirout" yaml:"dirout"`   // directory for output; e.g. /tmp/ctsim
	Encoder string `json:"encoder" yaml:"encoder"` // encoder name; e.g. "gob" "json"
	Verbose bool   `json:"verbose" yaml:"verbose"` // show messages
}

// MatData holds the material parameters
//  E, nu, sigT, c and conf in MPa; phi in degrees; elastic, plastic, brittle and debug flags
type MatData struct {
	Name string     `json:"name" yaml:"name"` // name of material
	Prms dbf.Params `json:"prms" yaml:"prms"` // parameters
}

// SolverData holds the explicit solver data
type SolverData struct {
	Backend     string  `json:"backend" yaml:"backend"`         // "host" or "device"
	Workers     int     `json:"workers" yaml:"workers"`         // number of workers; 0 means number of CPUs
	Block       [3]int  `json:"block" yaml:"block"`             // thread block of device launches
	Safety      float64 `json:"safety" yaml:"safety"`           // CFL safety factor
	Damping     float64 `json:"damping" yaml:"damping"`         // velocity damping per micro-step
	Threshold   float64 `json:"threshold" yaml:"threshold"`     // failure ratio threshold
	RecordEvery int     `json:"recordevery" yaml:"recordevery"` // record a sample every RecordEvery micro-steps
	CheckEvery  int     `json:"checkevery" yaml:"checkevery"`   // scan damage every CheckEvery micro-steps
	Broadcast   bool    `json:"broadcast" yaml:"broadcast"`     // broadcast the target stress once per increment
	PollMs      int     `json:"pollms" yaml:"pollms"`           // sleep between checks while paused [ms]
}

// LoadData holds the loading programme
type LoadData struct {
	Conf     float64 `json:"conf" yaml:"conf"`         // confining pressure [MPa]
	AxialIni float64 `json:"axialini" yaml:"axialini"` // initial axial pressure [MPa]
	AxialFin float64 `json:"axialfin" yaml:"axialfin"` // final axial pressure [MPa]
	Ninc     int     `json:"ninc" yaml:"ninc"`         // number of increments
	Nsteps   int     `json:"nsteps" yaml:"nsteps"`     // micro-steps per increment
	Axis     string  `json:"axis" yaml:"axis"`         // loading axis: "x", "y" or "z"
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data     Data       `json:"data" yaml:"data"`         // global data
	Sample   SampleData `json:"sample" yaml:"sample"`     // sample geometry and density
	Material MatData    `json:"material" yaml:"material"` // material parameters
	Solver   SolverData `json:"solver" yaml:"solver"`     // solver data
	Load     LoadData   `json:"load" yaml:"load"`         // loading programme

	// derived
	Dir     string   // directory of the .sim file
	DirOut  string   // directory to save results
	Key     string   // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string   // encoder type
	Axis    vox.Axis // loading axis
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .sim file
//  Files ending in .yaml or .yml are decoded as YAML; all others as JSON
func ReadSim(simfilepath, alias string) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file %q\n%v", simfilepath, err)
	}

	// decode
	ext := strings.ToLower(filepath.Ext(simfilepath))
	o, err = DecodeSim(b, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, chk.Err("cannot decode simulation file %q\n%v", simfilepath, err)
	}

	// input directory and filename key
	o.Dir = os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/ctsim/" + fnkey
	}
	return
}

// DecodeSim decodes simulation data, sets default values and checks the input
func DecodeSim(b []byte, isyaml bool) (o *Simulation, err error) {

	// set default values
	o = new(Simulation)
	o.Sample.SetDefault()
	o.Solver.SetDefault()
	o.Load.SetDefault()

	// decode
	if isyaml {
		err = yaml.Unmarshal(b, o)
	} else {
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, err
	}

	// post-process
	err = o.PostProcess()
	if err != nil {
		return nil, err
	}
	return
}

// PostProcess checks the input and sets derived values
func (o *Simulation) PostProcess() (err error) {

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// sample
	err = o.Sample.check()
	if err != nil {
		return
	}

	// loading
	o.Axis, err = vox.ParseAxis(o.Load.Axis)
	if err != nil {
		return
	}
	if o.Load.Ninc < 1 || o.Load.Nsteps < 1 {
		return chk.Err("load: ninc and nsteps must be at least 1. ninc=%d nsteps=%d are invalid", o.Load.Ninc, o.Load.Nsteps)
	}
	if o.Load.Conf < 0 || o.Load.AxialIni < 0 || o.Load.AxialFin < 0 {
		return chk.Err("load: pressures must be non-negative. conf=%g axialini=%g axialfin=%g are invalid", o.Load.Conf, o.Load.AxialIni, o.Load.AxialFin)
	}
	if len(o.Material.Prms) == 0 {
		return chk.Err("material %q has no parameters", o.Material.Name)
	}
	return
}

// Config builds the sample and returns the driver configuration
func (o *Simulation) Config() (cfg triax.Config, err error) {
	labels, rho, err := o.Sample.Build(o.Dir)
	if err != nil {
		return
	}
	cfg = triax.Config{
		Nx:          o.Sample.Mx(),
		Ny:          o.Sample.My(),
		Nz:          o.Sample.Mz(),
		Pitch:       o.Sample.Pitch,
		Labels:      labels,
		Density:     rho,
		Active:      o.Sample.Active,
		Material:    o.Material.Prms,
		Backend:     o.Solver.Backend,
		Workers:     o.Solver.Workers,
		Block:       o.Solver.Block,
		Safety:      o.Solver.Safety,
		Damping:     o.Solver.Damping,
		Threshold:   o.Solver.Threshold,
		RecordEvery: o.Solver.RecordEvery,
		CheckEvery:  o.Solver.CheckEvery,
		Broadcast:   o.Solver.Broadcast,
		PollPeriod:  time.Duration(o.Solver.PollMs) * time.Millisecond,
	}
	return
}

// RunParams returns the loading programme
func (o *Simulation) RunParams() triax.RunParams {
	return triax.RunParams{
		Conf:     o.Load.Conf,
		AxialIni: o.Load.AxialIni,
		AxialFin: o.Load.AxialFin,
		Ninc:     o.Load.Ninc,
		Axis:     o.Axis,
		Nsteps:   o.Load.Nsteps,
	}
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {
	o.Backend = "host"
	o.Safety = vox.DefaultSafety
	o.Damping = 0.05
	o.Threshold = vox.DefaultThreshold
	o.RecordEvery = 10
	o.CheckEvery = 2
	o.PollMs = 10
}

// SetDefault sets defaults values
func (o *LoadData) SetDefault() {
	o.Ninc = 10
	o.Nsteps = 100
	o.Axis = "z"
}
