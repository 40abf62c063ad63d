// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vox

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/msolid"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newMaterial returns a rock-like material with E=70 GPa and ν=0.25
func newMaterial(tst *testing.T, flags msolid.Behaviour) *msolid.Material {
	var mat msolid.Material
	err := mat.Init([]*dbf.P{
		&dbf.P{N: "E", V: 70000},
		&dbf.P{N: "nu", V: 0.25},
		&dbf.P{N: "sigT", V: 10},
		&dbf.P{N: "c", V: 5},
		&dbf.P{N: "phi", V: 30},
		&dbf.P{N: "conf", V: 10},
	})
	if err != nil {
		tst.Fatalf("cannot initialise material: %v\n", err)
	}
	mat.Flags = flags
	return &mat
}

func Test_grid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid01. indices and extent")

	g, err := NewBlock(4, 5, 6, 1, 1e-3, 2500, 3)
	if err != nil {
		tst.Errorf("NewBlock failed: %v\n", err)
		return
	}
	dims := g.Dims()
	chk.Ints(tst, "dims", dims[:], []int{6, 7, 8})
	chk.Int(tst, "N", g.N(), 6*7*8)
	chk.Int(tst, "NumActive", g.NumActive(), 4*5*6)
	chk.Ints(tst, "stride", g.Stride[:], []int{1, 6, 42})

	for _, n := range []int{0, 7, 41, 42, 100, g.N() - 1} {
		i, j, k := g.Coords(n)
		chk.Int(tst, io.Sf("idx(coords(%d))", n), g.Idx(i, j, k), n)
	}

	lo, hi, ok := g.Extent(Z)
	if !ok {
		tst.Errorf("extent should exist\n")
		return
	}
	chk.Ints(tst, "z extent", []int{lo, hi}, []int{1, 6})
	chk.Float64(tst, "Lz", 1e-15, g.Length(Z), 6e-3)
	chk.Float64(tst, "Lx", 1e-15, g.Length(X), 4e-3)

	ρmin, ok := g.MinDensity()
	chk.Float64(tst, "ρmin", 1e-17, ρmin, 2500)
	if !ok {
		tst.Errorf("ok should be true\n")
	}
	if g.Interior(0, 3, 3) || !g.Interior(1, 1, 1) || g.Interior(5, 3, 3) {
		tst.Errorf("Interior is incorrect\n")
	}
	if g.IsActive(0) || !g.IsActive(g.Idx(1, 1, 1)) {
		tst.Errorf("IsActive is incorrect\n")
	}
}

func Test_grid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid02. invalid grids and empty samples")

	labels := make([]byte, 27)
	rho := make([]float64, 27)
	if _, err := NewGrid(3, 3, 2, 1, labels[:18], rho[:18], 1); err == nil {
		tst.Errorf("degenerate grid should have been rejected\n")
	}
	if _, err := NewGrid(3, 3, 3, 0, labels, rho, 1); err == nil {
		tst.Errorf("zero pitch should have been rejected\n")
	}
	if _, err := NewGrid(3, 3, 3, 1, labels, rho, 0); err == nil {
		tst.Errorf("exterior label should have been rejected\n")
	}
	if _, err := NewGrid(3, 3, 3, 1, labels[:20], rho, 1); err == nil {
		tst.Errorf("wrong number of labels should have been rejected\n")
	}
	rho[4] = -1
	if _, err := NewGrid(3, 3, 3, 1, labels, rho, 1); err == nil {
		tst.Errorf("negative density should have been rejected\n")
	}
	rho[4] = 0

	// no active voxels
	g, err := NewGrid(3, 3, 3, 1, labels, rho, 1)
	if err != nil {
		tst.Errorf("NewGrid failed: %v\n", err)
		return
	}
	chk.Int(tst, "NumActive", g.NumActive(), 0)
	if _, _, ok := g.Extent(X); ok {
		tst.Errorf("extent of empty sample should not exist\n")
	}
	chk.Float64(tst, "L", 1e-17, g.Length(X), 0)
	if _, ok := g.MinDensity(); ok {
		tst.Errorf("min density of empty sample should not exist\n")
	}
	faces := NewFaces(g, Z)
	chk.Int(tst, "axial faces", len(faces.Axial), 0)
	chk.Int(tst, "lateral faces", faces.NumLateral(), 0)

	// density floor
	labels[13], rho[13] = 1, 20
	ρmin, _ := g.MinDensity()
	chk.Float64(tst, "ρmin", 1e-17, ρmin, msolid.DensityFloor)
}

func Test_grid03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid03. faces")

	g, err := NewBlock(4, 4, 4, 1, 1e-3, 2500, 1)
	if err != nil {
		tst.Errorf("NewBlock failed: %v\n", err)
		return
	}
	faces := NewFaces(g, Z)
	chk.Ints(tst, "lo,hi", []int{faces.Lo, faces.Hi}, []int{1, 4})
	chk.Int(tst, "axial", len(faces.Axial), 32)
	chk.Int(tst, "lateral x", len(faces.Lateral[X]), 32)
	chk.Int(tst, "lateral y", len(faces.Lateral[Y]), 32)
	chk.Int(tst, "lateral z", len(faces.Lateral[Z]), 0)
	for _, n := range faces.Axial {
		_, _, k := g.Coords(n)
		if k != 1 && k != 4 {
			tst.Errorf("voxel %d is not on an axial face\n", n)
		}
	}
	for _, n := range faces.Lateral[X] {
		i, _, _ := g.Coords(n)
		if i != 1 && i != 4 {
			tst.Errorf("voxel %d is not on a lateral x face\n", n)
		}
	}

	// sample filling the grid
	labels := make([]byte, 27)
	rho := make([]float64, 27)
	for i := range labels {
		labels[i], rho[i] = 2, 2700
	}
	g, err = NewGrid(3, 3, 3, 1, labels, rho, 2)
	if err != nil {
		tst.Errorf("NewGrid failed: %v\n", err)
		return
	}
	faces = NewFaces(g, X)
	chk.Int(tst, "axial", len(faces.Axial), 18)
	chk.Int(tst, "lateral x", len(faces.Lateral[X]), 0)
	chk.Int(tst, "lateral y", len(faces.Lateral[Y]), 18)
	chk.Int(tst, "lateral z", len(faces.Lateral[Z]), 18)

	_, err = ParseAxis("w")
	if err == nil {
		tst.Errorf("axis w should have been rejected\n")
	}
	a, _ := ParseAxis("y")
	chk.Int(tst, "axis", int(a), int(Y))
}
