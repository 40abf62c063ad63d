// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattemangia/CTS-sub011/stream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file.sim>",
	Short: "Run a simulation and stream its events over websockets",
	Long: `Runs the simulation defined in a .sim file and serves its events at ws://<addr>/ws.
Clients may send {"cmd": "pause"}, "resume", "cancel", "continue" or "state".
The run waits for a "continue" or "cancel" command when failure is detected.`,
	Args: cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, "alias", "backend", "workers", "addr", "linger")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		sim, drv, err := setup(args[0], logger)
		if err != nil {
			return err
		}
		defer drv.Close()

		// server
		hub := stream.NewHub(drv, logger)
		defer hub.Close()
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: viper.GetString("addr"), Handler: mux}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		rp := sim.RunParams()
		err = drv.Start(ctx, rp)
		if err != nil {
			return err
		}

		var g errgroup.Group
		g.Go(func() error {
			logger.WithField("addr", srv.Addr).Info("serving events at /ws")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				drv.Cancel()
				return err
			}
			return nil
		})
		g.Go(func() error {
			hub.Pump(drv.Events())
			select {
			case <-time.After(viper.GetDuration("linger")):
			case <-ctx.Done():
			}
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		errsrv := g.Wait()
		err = finish(sim, drv, rp, logger)
		if err != nil {
			return err
		}
		return errsrv
	},
}

func init() {
	serveCmd.Flags().String("alias", "", "word to add to the simulation key")
	serveCmd.Flags().String("backend", "", "backend overriding the .sim file: host or device")
	serveCmd.Flags().Int("workers", 0, "number of workers overriding the .sim file")
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().Duration("linger", 2*time.Second, "time to keep serving after the run finishes")
	rootCmd.AddCommand(serveCmd)
}
