// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/out"
	"github.com/mattemangia/CTS-sub011/triax"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportCmd = &cobra.Command{
	Use:   "report <dirout> <fnkey>",
	Short: "Analyse the stress-strain curve of a saved summary",
	Args:  cobra.ExactArgs(2),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, "enc", "lo", "hi")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := triax.ReadSummary(args[0], args[1], viper.GetString("enc"))
		if err != nil {
			return err
		}
		io.Verbose = true
		io.Pf("backend          : %s\n", sum.Backend)
		io.Pf("state            : %s\n", sum.State)
		io.Pf("confinement      : %g MPa\n", sum.Conf)
		io.Pf("increments       : %d × %d steps (dt = %g s)\n", sum.Ninc, sum.Nsteps, sum.Dt)
		io.Pf("samples          : %d\n", len(sum.Samples))
		if sum.Error != "" {
			io.PfRed("error            : %s\n", sum.Error)
		}
		if sum.Failed {
			io.Pforan("failure          : increment %d at voxel %v\n", sum.FailureInc, sum.FailureIJK)
		}
		io.Pf("max damage       : %g at voxel %v (ratio %g)\n", sum.MaxDamage, sum.MaxIJK, sum.MaxRatio)
		if len(sum.Samples) == 0 {
			return nil
		}

		crv, err := out.NewCurve(sum.Strains(), sum.Stresses())
		if err != nil {
			return err
		}
		_, εp, σp := crv.Peak()
		io.Pfblue2("peak stress      : %g MPa at strain %g\n", σp, εp)
		io.Pf("post-peak drop   : %.2f%%\n", 100*crv.PostPeakDrop())
		lo, hi := viper.GetFloat64("lo"), viper.GetFloat64("hi")
		if E, err := crv.Modulus(lo, hi); err == nil {
			io.Pf("tangent modulus  : %g MPa (%g–%g of peak)\n", E, lo, hi)
		} else {
			io.Pforan("tangent modulus  : %v\n", err)
		}
		if E, err := crv.Secant(0.5); err == nil {
			io.Pf("secant modulus   : %g MPa (half peak)\n", E)
		} else {
			io.Pforan("secant modulus   : %v\n", err)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("enc", "gob", "encoding of the summary: gob or json")
	reportCmd.Flags().Float64("lo", 0.2, "lower stress fraction of the peak for the tangent modulus")
	reportCmd.Flags().Float64("hi", 0.8, "upper stress fraction of the peak for the tangent modulus")
	rootCmd.AddCommand(reportCmd)
}
