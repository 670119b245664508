// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package cli

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/joamaki/reactivelab/demos"
	"github.com/joamaki/reactivelab/internal/config"
	"github.com/joamaki/reactivelab/internal/logger"
	"github.com/joamaki/reactivelab/scheduler"
	"github.com/joamaki/reactivelab/stream"
)

// app is the runtime of one invocation: logger, schedulers and the catalog
// wired from the configuration.
type app struct {
	log      *zap.Logger
	registry *prometheus.Registry
	elastic  scheduler.Scheduler
	parallel scheduler.Scheduler
	catalog  *demos.Catalog
	closeLog func() error
}

func newCatalog(log *zap.Logger, delays demos.Options, subscribeOn, publishOn stream.Scheduler) *demos.Catalog {
	if subscribeOn == nil {
		subscribeOn = stream.Immediate
	}
	if publishOn == nil {
		publishOn = stream.Immediate
	}
	return demos.NewCatalog(
		demos.NewPublisher(log),
		demos.NewOperators(log, delays),
		demos.NewScheduling(log, subscribeOn, publishOn))
}

func newApp(opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	closeLog, err := logger.Setup(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Debug:       opts.debug,
		OutputPaths: opts.logOutput,
	})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := scheduler.NewMetrics(registry)
	if err != nil {
		return nil, multierr.Append(err, closeLog())
	}

	a := &app{
		log:      logger.L(),
		registry: registry,
		elastic: scheduler.NewBoundedElastic("boundedElastic",
			cfg.Schedulers.ElasticMaxWorkers, cfg.Schedulers.ElasticIdleTTL,
			scheduler.WithMetrics(metrics)),
		parallel: scheduler.NewParallel("parallel", cfg.Schedulers.Parallelism,
			scheduler.WithMetrics(metrics)),
		closeLog: closeLog,
	}
	a.catalog = newCatalog(a.log.Named("demos"), cfg.Delays, a.elastic, a.parallel)

	a.log.Debug("config_loaded",
		zap.String("path", opts.configPath),
		zap.Int("parallelism", cfg.Schedulers.Parallelism),
		zap.Int("elastic_max_workers", cfg.Schedulers.ElasticMaxWorkers),
		zap.Duration("elastic_idle_ttl", cfg.Schedulers.ElasticIdleTTL))
	return a, nil
}

// run runs the demos in order. A failing demo does not stop the ones after it.
func (a *app) run(ctx context.Context, out io.Writer, names []string, headers bool) error {
	found := make([]demos.Demo, 0, len(names))
	for _, name := range names {
		d, ok := a.catalog.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown demo %q", name)
		}
		found = append(found, d)
	}

	failed := 0
	for _, d := range found {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if headers {
			fmt.Fprintf(out, "--- %s/%s\n", d.Group, d.Name)
		}

		start := time.Now()
		err := d.Run(ctx,
			func(item any) { fmt.Fprintln(out, format(item)) },
			func(err error) {
				fmt.Fprintf(out, "error: %s\n", err)
				a.log.Warn("demo_failed", zap.String("demo", d.Name), zap.Error(err))
			},
			func() {
				a.log.Debug("demo_completed", zap.String("demo", d.Name), zap.Duration("duration", time.Since(start)))
			})
		if err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(found), errDemoFailed)
	}
	return nil
}

// close disposes the schedulers, then dumps the metrics to 'metricsOut' when
// not nil and finally flushes the logger.
func (a *app) close(metricsOut io.Writer) error {
	err := multierr.Combine(a.elastic.Dispose(), a.parallel.Dispose())
	if metricsOut != nil {
		err = multierr.Append(err, a.dumpMetrics(metricsOut))
	}
	return multierr.Append(err, a.closeLog())
}

func (a *app) dumpMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func runDemos(cmd *cobra.Command, opts *options, names []string, headers bool) (err error) {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer func() {
		var metricsOut io.Writer
		if opts.metrics {
			metricsOut = cmd.OutOrStdout()
		}
		if cerr := a.close(metricsOut); cerr != nil {
			// Reported only. Syncing stderr fails on some platforms.
			fmt.Fprintf(cmd.ErrOrStderr(), "shutdown: %s\n", cerr)
		}
	}()
	return a.run(cmd.Context(), cmd.OutOrStdout(), names, headers)
}

func format(item any) string {
	switch reflect.ValueOf(item).Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Pointer:
		return pretty.Sprint(item)
	}
	return fmt.Sprint(item)
}
