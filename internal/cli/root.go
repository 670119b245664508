// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package cli implements the reactivelab command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joamaki/reactivelab/demos"
)

var errDemoFailed = errors.New("demo failed")

type options struct {
	configPath string
	debug      bool
	metrics    bool

	// logOutput overrides the log destination. Not exposed as a flag.
	logOutput []string
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd(&options{}).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errDemoFailed) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		cancel()
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reactivelab",
		Short:         "Runnable demos of reactive stream operators",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemos(cmd, opts, demos.MainSequence, false)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging with the development encoder")
	cmd.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "print scheduler metrics in prometheus text format after the run")

	cmd.AddCommand(listCmd(), runCmd(opts))
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Listing needs no schedulers or logging.
			c := newCatalog(nil, demos.DefaultOptions, nil, nil)
			for _, d := range c.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %s\n", d.Group+"/"+d.Name, d.Description)
			}
			return nil
		},
	}
}

func runCmd(opts *options) *cobra.Command {
	var all bool

	c := &cobra.Command{
		Use:   "run [demo...]",
		Short: "Run the named demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if all {
				if len(args) > 0 {
					return errors.New("--all takes no demo names")
				}
				names = nil
				for _, d := range newCatalog(nil, demos.DefaultOptions, nil, nil).All() {
					names = append(names, d.Name)
				}
			}
			if len(names) == 0 {
				return errors.New("no demos given, see 'reactivelab list'")
			}
			return runDemos(cmd, opts, names, true)
		},
	}

	c.Flags().BoolVar(&all, "all", false, "run every demo")
	return c
}
