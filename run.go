// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/inp"
	"github.com/mattemangia/CTS-sub011/out"
	"github.com/mattemangia/CTS-sub011/triax"
	"github.com/mattemangia/CTS-sub011/vox"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run <file.sim>",
	Short: "Run a triaxial simulation",
	Long: `Runs the simulation defined in a .sim file (JSON, or YAML for .yaml/.yml files).
The run summary is saved to the output directory together with the stress-strain table.`,
	Args: cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, "alias", "backend", "workers", "stop-on-failure")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		sim, drv, err := setup(args[0], logger)
		if err != nil {
			return err
		}
		defer drv.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		rp := sim.RunParams()
		err = drv.Start(ctx, rp)
		if err != nil {
			return err
		}
		stopOnFailure := viper.GetBool("stop-on-failure")
		for ev := range drv.Events() {
			logEvent(logger, ev)
			if ev.Kind == triax.FailureEvent {
				if stopOnFailure {
					drv.Cancel()
				} else {
					drv.ContinueAfterFailure()
				}
			}
		}
		return finish(sim, drv, rp, logger)
	},
}

func init() {
	runCmd.Flags().String("alias", "", "word to add to the simulation key")
	runCmd.Flags().String("backend", "", "backend overriding the .sim file: host or device")
	runCmd.Flags().Int("workers", 0, "number of workers overriding the .sim file")
	runCmd.Flags().Bool("stop-on-failure", false, "cancel the run when failure is detected")
	rootCmd.AddCommand(runCmd)
}

// bindFlags binds the flags of cmd to viper keys with the same names
func bindFlags(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		viper.BindPFlag(key, cmd.Flags().Lookup(key))
	}
}

// setup reads the .sim file and allocates the driver
func setup(simfilepath string, logger *logrus.Logger) (sim *inp.Simulation, drv *triax.Driver, err error) {
	sim, err = inp.ReadSim(simfilepath, viper.GetString("alias"))
	if err != nil {
		return
	}
	if b := viper.GetString("backend"); b != "" {
		sim.Solver.Backend = b
	}
	if w := viper.GetInt("workers"); w > 0 {
		sim.Solver.Workers = w
	}
	cfg, err := sim.Config()
	if err != nil {
		return
	}
	drv, err = triax.NewDriver(cfg, logger)
	if err != nil {
		return nil, nil, chk.Err("cannot allocate driver for %q\n%v", sim.Key, err)
	}
	io.Pf("simulation key   : %s\n", sim.Key)
	io.Pf("output directory : %s\n", sim.DirOut)
	io.Pf("backend          : %s\n", cfg.Backend)
	io.Pf("grid             : %d×%d×%d (%d active voxels)\n", cfg.Nx, cfg.Ny, cfg.Nz, drv.Grid().NumActive())
	io.Pf("time step        : %g s\n", drv.TimeStep())
	io.Pf("material         : %v\n\n", drv.Material())
	return
}

// logEvent logs a driver event
func logEvent(logger *logrus.Logger, ev triax.Event) {
	switch ev.Kind {
	case triax.ProgressEvent:
		logger.WithField("percent", ev.Percent).Info(ev.Status)
	case triax.FailureEvent:
		logger.WithFields(logrus.Fields{
			"inc":    ev.Inc,
			"stress": ev.Stress,
			"strain": ev.Strain,
			"voxel":  ev.Voxel,
		}).Warn("failure detected")
	case triax.CompletedEvent:
		logger.WithFields(logrus.Fields{
			"samples":   len(ev.Strains),
			"failed":    ev.Failed,
			"cancelled": ev.Cancelled,
		}).Info("run finished")
	}
}

// damagedLimit is the damage from which a voxel counts as damaged in the final statistics
const damagedLimit = 0.5

// finish saves the summary and the stress-strain table, then logs statistics of the final fields
func finish(sim *inp.Simulation, drv *triax.Driver, rp triax.RunParams, logger *logrus.Logger) error {
	sum := drv.Summary(rp)
	err := sum.Save(sim.DirOut, sim.Key, sim.EncType, io.Verbose)
	if err != nil {
		return err
	}
	if len(sum.Samples) > 0 {
		crv, err := out.NewCurve(sum.Strains(), sum.Stresses())
		if err != nil {
			return err
		}
		crv.WriteTable(sim.DirOut, sim.Key)
		_, εp, σp := crv.Peak()
		logger.WithFields(logrus.Fields{"peak stress": σp, "peak strain": εp}).Info("stress-strain curve saved")
	}

	// final fields
	fields := vox.NewFields(drv.Grid().N())
	err = drv.CopyFields(fields)
	if err != nil {
		return err
	}
	st, err := out.GetStats(drv.Grid(), fields, rp.Axis, damagedLimit)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"damaged":     st.Damaged,
		"mean D":      st.MeanD,
		"mid-plane D": st.MidD,
		"mean axial":  st.MeanAxial,
	}).Info("final fields")
	if sum.Error != "" {
		return chk.Err("run failed: %s", sum.Error)
	}
	return nil
}
