// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ctsim",
	Short: "Voxel triaxial compression simulator",
	Long: `Simulates triaxial compression tests on voxelised rock samples with an explicit
elastoplastic-damage solver running on the host or on the device backend.

Subcommands:
  run     - run a simulation defined in a .sim file (JSON or YAML)
  serve   - run a simulation and stream its events over websockets
  report  - analyse the stress-strain curve of a saved summary
  point   - drive the constitutive model of a single voxel`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		io.Verbose = viper.GetBool("verbose")
		if io.Verbose {
			io.PfWhite("\nctsim -- voxel triaxial compression simulator\n\n")
			io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
			io.Pf("Use of this source code is governed by a BSD-style\n")
			io.Pf("license that can be found in the LICENSE file.\n\n")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "show messages")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("CTSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newLogger returns the logger configured by the global flags
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	if viper.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		io.Verbose = true
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}
