// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/ana"
	"github.com/mattemangia/CTS-sub011/msolid"
	"github.com/mattemangia/CTS-sub011/vox"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pointFlags = []string{"E", "nu", "sigT", "c", "phi", "conf", "rho", "rate", "dt", "nsteps", "niout", "axis", "plastic", "brittle", "debug"}

var pointCmd = &cobra.Command{
	Use:   "point",
	Short: "Drive the constitutive model of a single voxel",
	Long: `Compresses a single voxel with a constant axial strain rate and lateral strains held
at zero, printing the axial stress and the damage along the path.`,
	Args: cobra.NoArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, pointFlags...)
	},
	RunE: func(cmd *cobra.Command, args []string) error {

		// material
		prms := dbf.Params{
			&dbf.P{N: "E", V: viper.GetFloat64("E")},
			&dbf.P{N: "nu", V: viper.GetFloat64("nu")},
			&dbf.P{N: "sigT", V: viper.GetFloat64("sigT")},
			&dbf.P{N: "c", V: viper.GetFloat64("c")},
			&dbf.P{N: "phi", V: viper.GetFloat64("phi")},
			&dbf.P{N: "conf", V: viper.GetFloat64("conf")},
			&dbf.P{N: "plastic", V: onoff(viper.GetBool("plastic"))},
			&dbf.P{N: "brittle", V: onoff(viper.GetBool("brittle"))},
			&dbf.P{N: "debug", V: onoff(viper.GetBool("debug"))},
		}
		var mat msolid.Material
		err := mat.Init(prms)
		if err != nil {
			return err
		}

		// path
		axis, err := vox.ParseAxis(viper.GetString("axis"))
		if err != nil {
			return err
		}
		var pth msolid.Path
		err = pth.SetAxial(int(axis), viper.GetFloat64("rate"), viper.GetFloat64("dt"),
			viper.GetInt("nsteps"), viper.GetInt("niout"), mat.Conf)
		if err != nil {
			return err
		}

		// run
		var drv msolid.Driver
		err = drv.Init(&mat, viper.GetFloat64("rho"))
		if err != nil {
			return err
		}
		drv.Verbose = io.Verbose
		err = drv.Run(&pth)
		if err != nil {
			return chk.Err("point driver failed:\n%v", err)
		}

		// table
		io.Verbose = true
		io.Pf("%6s %13s %13s %9s\n", "rec", "strain", "stress[MPa]", "D")
		for i, s := range drv.Res {
			io.Pf("%6d %13.6e %13.6e %9.5f\n", i, drv.Eps[i], -s.Sig[pth.Axis]/msolid.MPa, s.Dam)
		}

		// elastic reference
		var sol ana.ElastTriax
		err = sol.Init(dbf.Params{
			&dbf.P{N: "E", V: mat.E / msolid.MPa},
			&dbf.P{N: "nu", V: mat.Nu},
			&dbf.P{N: "c", V: mat.C0 / msolid.MPa},
			&dbf.P{N: "phi", V: mat.Phi},
			&dbf.P{N: "rho", V: drv.Rho},
		})
		if err != nil {
			return err
		}
		if len(drv.Res) > 1 && drv.Eps[1] > 0 {
			slope := (drv.Res[0].Sig[pth.Axis] - drv.Res[1].Sig[pth.Axis]) / msolid.MPa / drv.Eps[1]
			io.Pfblue2("\ninitial slope    : %g MPa (constrained modulus λ+2G = %g MPa)\n", slope, sol.Lam+2*sol.G)
		}
		io.Pf("wave speed       : %g m/s\n", sol.WaveSpeed())
		io.Pf("Mohr-Coulomb peak: %g MPa at confinement %g MPa\n", sol.Strength(mat.Conf/msolid.MPa), mat.Conf/msolid.MPa)
		return nil
	},
}

func init() {
	f := pointCmd.Flags()
	f.Float64("E", 50000, "Young's modulus [MPa]")
	f.Float64("nu", 0.25, "Poisson's coefficient")
	f.Float64("sigT", 10, "tensile strength [MPa]")
	f.Float64("c", 20, "cohesion [MPa]")
	f.Float64("phi", 30, "friction angle [deg]")
	f.Float64("conf", 10, "confining pressure [MPa]")
	f.Float64("rho", 2700, "density [kg/m³]")
	f.Float64("rate", 1, "axial strain rate [1/s]")
	f.Float64("dt", 1e-7, "time step [s]")
	f.Int("nsteps", 20000, "number of steps")
	f.Int("niout", 1000, "record every niout steps")
	f.String("axis", "z", "loading axis: x, y or z")
	f.Bool("plastic", true, "enable the plastic correction")
	f.Bool("brittle", true, "enable damage")
	f.Bool("debug", false, "accelerate damage")
	rootCmd.AddCommand(pointCmd)
}

func onoff(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
