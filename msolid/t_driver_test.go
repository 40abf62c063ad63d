// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_driver01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("driver01. elastic axial compression")

	mat := newTestMaterial(tst, Elastic)

	var pth Path
	err := pth.SetAxial(2, 1, 1e-6, 100, 10, 0)
	if err != nil {
		tst.Errorf("SetAxial failed: %v\n", err)
		return
	}

	var drv Driver
	drv.Verbose = chk.Verbose
	err = drv.Init(mat, 2700)
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}
	err = drv.Run(&pth)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}

	chk.Int(tst, "number of records", len(drv.Res), 11)
	chk.Int(tst, "number of strains", len(drv.Eps), 11)
	last := drv.Res[len(drv.Res)-1]
	io.Pforan("σ = %v\n", last.Sig)
	chk.Float64(tst, "ε", 1e-15, drv.Eps[len(drv.Eps)-1], 1e-4)
	chk.Float64(tst, "σzz", 1e-3, last.Sig[Izz], -8.4e6)
	chk.Float64(tst, "σxx", 1e-3, last.Sig[Ixx], -2.8e6)
	chk.Float64(tst, "σyy", 1e-3, last.Sig[Iyy], -2.8e6)
	chk.Float64(tst, "D", 1e-17, last.Dam, 0)
}

func Test_driver02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("driver02. all behaviours")

	mat := newTestMaterial(tst, Elastic|Plastic|Brittle)

	var pth Path
	err := pth.SetAxial(0, 50, 1e-6, 2000, 1, mat.Conf)
	if err != nil {
		tst.Errorf("SetAxial failed: %v\n", err)
		return
	}

	var drv Driver
	err = drv.Init(mat, 2500)
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}
	err = drv.Run(&pth)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}

	chk.Int(tst, "number of records", len(drv.Res), 2001)
	chk.Float64(tst, "σ0", 1e-17, drv.Res[0].Sig[Ixx], -mat.Conf)
	for i := 1; i < len(drv.Res); i++ {
		D0, D1 := drv.Res[i-1].Dam, drv.Res[i].Dam
		if D1 < D0 {
			tst.Errorf("damage decreased at record %d: %g → %g\n", i, D0, D1)
			return
		}
		if D1 > MaxDamage {
			tst.Errorf("damage exceeds upper bound at record %d: %g\n", i, D1)
			return
		}
	}
	io.Pforan("D = %v\n", drv.Res[len(drv.Res)-1].Dam)
}

func Test_driver03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("driver03. invalid input")

	var pth Path
	if pth.SetAxial(3, 1, 1e-6, 10, 1, 0) == nil {
		tst.Errorf("axis 3 should have been rejected\n")
	}
	if pth.SetAxial(0, 1, 0, 10, 1, 0) == nil {
		tst.Errorf("Δt=0 should have been rejected\n")
	}
	if pth.SetAxial(0, 1, 1e-6, 0, 1, 0) == nil {
		tst.Errorf("Nsteps=0 should have been rejected\n")
	}

	var drv Driver
	if drv.Init(nil, 2700) == nil {
		tst.Errorf("nil material should have been rejected\n")
	}
	err := pth.SetAxial(0, 1, 1e-6, 10, 0, 0)
	if err != nil {
		tst.Errorf("SetAxial failed: %v\n", err)
		return
	}
	chk.Int(tst, "Niout", pth.Niout, 1)
	if drv.Run(&pth) == nil {
		tst.Errorf("Run without Init should have failed\n")
	}
}
