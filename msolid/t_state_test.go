// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01")

	state0 := NewState(10)
	io.Pforan("state0 = %+v\n", state0)
	chk.Array(tst, "sig", 1.0e-17, state0.Sig[:], []float64{-10, -10, -10, 0, 0, 0})
	chk.Float64(tst, "dam", 1.0e-17, state0.Dam, 0)

	state0.Sig[3] = 13.0
	state0.Dam = 0.5
	state0.Loading = true

	state1 := NewState(0)
	state1.Set(state0)
	io.Pforan("state1 = %+v\n", state1)
	chk.Array(tst, "sig", 1.0e-17, state1.Sig[:], []float64{-10, -10, -10, 13, 0, 0})
	chk.Float64(tst, "dam", 1.0e-17, state1.Dam, 0.5)

	state2 := state1.GetCopy()
	state1.Sig[0] = 123
	io.Pforan("state2 = %+v\n", state2)
	chk.Array(tst, "sig", 1.0e-17, state2.Sig[:], []float64{-10, -10, -10, 13, 0, 0})
	if !state2.Loading {
		tst.Errorf("loading flag should have been copied\n")
	}
}
