// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/vox"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

const simJSON = `{
  "data"     : { "desc" : "granite under 10 MPa", "encoder" : "json" },
  "sample"   : { "shape" : "block", "nx" : 6, "ny" : 5, "nz" : 8, "pad" : 1, "pitch" : 0.002, "rho" : 2650 },
  "material" : { "name" : "granite", "prms" : [
    { "n" : "E",    "v" : 60000 },
    { "n" : "nu",   "v" : 0.22 },
    { "n" : "sigT", "v" : 8 },
    { "n" : "c",    "v" : 20 },
    { "n" : "phi",  "v" : 45 }
  ]},
  "solver"   : { "backend" : "device", "workers" : 2, "block" : [4,4,4], "recordevery" : 5 },
  "load"     : { "conf" : 10, "axialini" : 10, "axialfin" : 200, "ninc" : 20, "nsteps" : 50, "axis" : "x" }
}`

const simYAML = `
data:
  desc: granite under 10 MPa
sample:
  shape: cylinder
  nx: 9
  ny: 9
  nz: 12
  rho: 2650
  rhocov: 0.1
  seed: 7
material:
  name: granite
  prms:
    - {n: E, v: 60000}
    - {n: nu, v: 0.22}
    - {n: sigT, v: 8}
    - {n: c, v: 20}
    - {n: phi, v: 45}
    - {n: plastic, v: 0}
load:
  conf: 5
  axialfin: 80
  ninc: 4
`

func writeSim(tst *testing.T, dir, fn, content string) string {
	p := filepath.Join(dir, fn)
	err := os.WriteFile(p, []byte(content), 0644)
	if err != nil {
		tst.Fatalf("cannot write %q: %v\n", p, err)
	}
	return p
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. JSON input file")

	dir := tst.TempDir()
	sim, err := ReadSim(writeSim(tst, dir, "granite.sim", simJSON), "a")
	if err != nil {
		tst.Errorf("ReadSim failed: %v\n", err)
		return
	}
	if sim.Key != "granite-a" {
		tst.Errorf("key %q is incorrect\n", sim.Key)
	}
	if sim.DirOut != "/tmp/ctsim/granite" || sim.EncType != "json" || sim.Axis != vox.X {
		tst.Errorf("derived values are incorrect: %q %q %v\n", sim.DirOut, sim.EncType, sim.Axis)
	}
	chk.Int(tst, "number of material parameters", len(sim.Material.Prms), 5)
	chk.Float64(tst, "E", 1e-17, sim.Material.Prms.Find("E").V, 60000)

	// defaults
	chk.Float64(tst, "safety", 1e-17, sim.Solver.Safety, vox.DefaultSafety)
	chk.Int(tst, "checkevery", sim.Solver.CheckEvery, 2)
	chk.Int(tst, "active", int(sim.Sample.Active), 1)

	// driver configuration
	cfg, err := sim.Config()
	if err != nil {
		tst.Errorf("Config failed: %v\n", err)
		return
	}
	chk.Ints(tst, "dims", []int{cfg.Nx, cfg.Ny, cfg.Nz}, []int{8, 7, 10})
	chk.Ints(tst, "block", cfg.Block[:], []int{4, 4, 4})
	chk.Int(tst, "workers", cfg.Workers, 2)
	chk.Int(tst, "recordevery", cfg.RecordEvery, 5)
	if cfg.Backend != "device" {
		tst.Errorf("backend %q is incorrect\n", cfg.Backend)
	}
	g, err := vox.NewGrid(cfg.Nx, cfg.Ny, cfg.Nz, cfg.Pitch, cfg.Labels, cfg.Density, cfg.Active)
	if err != nil {
		tst.Errorf("NewGrid failed: %v\n", err)
		return
	}
	chk.Int(tst, "number of active voxels", g.NumActive(), 6*5*8)
	chk.Float64(tst, "length along x", 1e-15, g.Length(vox.X), 6*0.002)
	ρmin, _ := g.MinDensity()
	chk.Float64(tst, "ρmin", 1e-17, ρmin, 2650)

	rp := sim.RunParams()
	chk.Int(tst, "ninc", rp.Ninc, 20)
	chk.Int(tst, "nsteps", rp.Nsteps, 50)
	chk.Float64(tst, "axialfin", 1e-17, rp.AxialFin, 200)

	var buf bytes.Buffer
	err = sim.GetInfo(&buf)
	if err != nil {
		tst.Errorf("GetInfo failed: %v\n", err)
	}
	io.Pforan("%s\n", buf.String())
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. YAML input file and heterogeneous cylinder")

	dir := tst.TempDir()
	sim, err := ReadSim(writeSim(tst, dir, "cyl.yaml", simYAML), "")
	if err != nil {
		tst.Errorf("ReadSim failed: %v\n", err)
		return
	}
	if sim.Axis != vox.Z || sim.EncType != "gob" || sim.Solver.Backend != "host" {
		tst.Errorf("defaults are incorrect: %v %q %q\n", sim.Axis, sim.EncType, sim.Solver.Backend)
	}
	chk.Int(tst, "nsteps", sim.Load.Nsteps, 100)
	plastic := sim.Material.Prms.Find("plastic")
	if plastic == nil {
		tst.Errorf("plastic flag is missing\n")
		return
	}
	chk.Float64(tst, "plastic", 1e-17, plastic.V, 0)

	labels, rho, err := sim.Sample.Build(sim.Dir)
	if err != nil {
		tst.Errorf("Build failed: %v\n", err)
		return
	}
	chk.Int(tst, "number of voxels", len(labels), 9*9*12)

	// circular cross-section; densities within the uniform bounds
	a := 0.1 * 1.7320508075688772
	nact := 0
	for n, lbl := range labels {
		if lbl == 0 {
			chk.Float64(tst, "ρ(exterior)", 1e-17, rho[n], 0)
			continue
		}
		nact++
		if rho[n] < 2650*(1-a) || rho[n] > 2650*(1+a) {
			tst.Errorf("density %g is out of bounds\n", rho[n])
			return
		}
	}
	if nact%12 != 0 || nact >= 9*9*12 || nact < 50*12 {
		tst.Errorf("number of active voxels %d is incorrect\n", nact)
	}
	corner := 0 + 9*(0+9*5)
	chk.Int(tst, "label(corner)", int(labels[corner]), 0)
	centre := 4 + 9*(4+9*5)
	chk.Int(tst, "label(centre)", int(labels[centre]), 1)

	// same seed, same sample
	_, rho2, err := sim.Sample.Build(sim.Dir)
	if err != nil {
		tst.Errorf("Build failed: %v\n", err)
		return
	}
	chk.Array(tst, "ρ(seed)", 1e-17, rho2, rho)
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. label file and invalid input")

	dir := tst.TempDir()
	vol := make([]byte, 4*4*4)
	for i := range vol {
		vol[i] = byte(1 + i%3)
	}
	err := os.WriteFile(filepath.Join(dir, "labels.raw"), vol, 0644)
	if err != nil {
		tst.Errorf("cannot write label file: %v\n", err)
		return
	}
	sample := SampleData{Shape: "file", Nx: 4, Ny: 4, Nz: 4, Pad: 2, Pitch: 1e-3, Active: 2, Rho: 2000, LabelFile: "labels.raw"}
	labels, rho, err := sample.Build(dir)
	if err != nil {
		tst.Errorf("Build failed: %v\n", err)
		return
	}
	chk.Int(tst, "number of voxels", len(labels), 8*8*8)
	n := 2 + 8*(2+8*2)
	chk.Int(tst, "label(2,2,2)", int(labels[n]), 1)
	chk.Int(tst, "label(3,2,2)", int(labels[n+1]), 2)
	chk.Float64(tst, "ρ(3,2,2)", 1e-17, rho[n+1], 2000)
	chk.Int(tst, "label(0,0,0)", int(labels[0]), 0)

	sample.Nz = 5
	if _, _, err = sample.Build(dir); err == nil {
		tst.Errorf("label file with the wrong size should be rejected\n")
	}

	// invalid files
	bad := []string{
		`{ "sample" : { "shape" : "sphere" } }`,
		`{ "sample" : { "pitch" : 0 } }`,
		`{ "sample" : { "rhocov" : 0.9 } }`,
		`{ "material" : { "prms" : [ {"n" : "E", "v" : 1} ] }, "load" : { "axis" : "w" } }`,
		`{ "material" : { "prms" : [ {"n" : "E", "v" : 1} ] }, "load" : { "ninc" : 0 } }`,
		`{ "material" : { "prms" : [ {"n" : "E", "v" : 1} ] }, "load" : { "conf" : -1 } }`,
		`{ "material" : { "name" : "empty" } }`,
		`{ "sample" : `,
	}
	for i, b := range bad {
		if _, err = DecodeSim([]byte(b), false); err == nil {
			tst.Errorf("input %d should have been rejected\n", i)
		}
	}
	if _, err = ReadSim(filepath.Join(dir, "missing.sim"), ""); err == nil {
		tst.Errorf("missing file should have been rejected\n")
	}
}
