// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command roofline builds empirical roofline charts from a profiled
// workload directory.
//
// Usage:
//
//	roofline -path dir [-device id] [-sort kernels|dispatches]
//	         [-mem-level list] [-dtype list] [-kernel-names]
//	         [-png] [-no-pdf] [-verbose]
//
// The workload directory must contain pmc_perf.csv (the per-dispatch
// hardware counter trace) and roofline.csv (the micro-benchmark peak
// table); both are produced by the profiling run. One chart is
// written per datatype view: FP32-class datatypes stand alone, FP16
// and INT8 share a combined figure.
//
// -device selects which device's micro-benchmark rows set the
// ceilings; the default "ALL" uses the first available measurement
// per metric. -mem-level restricts the bandwidth ceilings to a
// comma-separated subset of LDS, L1 (or vL1D), L2, HBM. -sort
// chooses whether counters aggregate per kernel name or per
// dispatch. -kernel-names keeps kernel labels in the model so each
// kernel gets a distinct marker shape.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/table"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/acceltools/roofline/roofcalc"
	"github.com/acceltools/roofline/rooffmt"
	"github.com/acceltools/roofline/roofplot"
)

var (
	flagPath        = flag.String("path", "", "workload directory containing pmc_perf.csv and roofline.csv")
	flagDevice      = flag.String("device", "ALL", "device id for ceiling extraction, or ALL")
	flagSort        = flag.String("sort", "kernels", "aggregation `key`: kernels or dispatches")
	flagMemLevel    = flag.String("mem-level", "ALL", "comma-separated memory `levels`, or ALL")
	flagDtype       = flag.String("dtype", "FP32,FP16,I8", "comma-separated `datatypes` to build views for")
	flagKernelNames = flag.Bool("kernel-names", false, "keep kernel names for per-kernel markers")
	flagPNG         = flag.Bool("png", false, "also write PNG charts")
	flagNoPDF       = flag.Bool("no-pdf", false, "skip PDF charts")
	flagVerbose     = flag.Bool("verbose", false, "log ceiling construction details")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: roofline -path dir [flags]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if *flagPath == "" || flag.NArg() > 0 {
		flag.Usage()
	}

	logger := newLogger(*flagVerbose)
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("roofline failed", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roofline: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func run(logger *zap.Logger) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	counters, err := readTable(rooffmt.ReadCounters, filepath.Join(*flagPath, "pmc_perf.csv"))
	if err != nil {
		return err
	}
	bench, err := readTable(rooffmt.ReadBenchmarks, filepath.Join(*flagPath, "roofline.csv"))
	if err != nil {
		return err
	}
	logger.Info("loaded workload",
		zap.String("path", *flagPath),
		zap.Int("dispatches", counters.Len()),
		zap.Int("benchmarks", bench.Len()))

	model, err := roofcalc.BuildRoofline(counters, bench, cfg, logger)
	if err != nil {
		return err
	}
	charts, err := roofplot.Render(model)
	if err != nil {
		return err
	}

	// A failed chart export should not stop the remaining charts;
	// collect and report everything at the end.
	var errs error
	for _, c := range charts {
		if !*flagNoPDF {
			if err := c.SavePDF(*flagPath); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			logger.Info("wrote chart", zap.String("file", c.Name+".pdf"))
		}
		if *flagPNG {
			if err := c.SavePNG(*flagPath); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			logger.Info("wrote chart", zap.String("file", c.Name+".png"))
		}
	}
	return errs
}

func parseConfig() (roofcalc.Config, error) {
	var cfg roofcalc.Config
	var err error
	if cfg.AggKey, err = roofcalc.ParseAggKey(*flagSort); err != nil {
		return cfg, err
	}
	if cfg.Levels, err = roofcalc.ParseLevels(splitList(*flagMemLevel)); err != nil {
		return cfg, err
	}
	if cfg.Datatypes, err = roofcalc.ParseDataTypes(splitList(*flagDtype)); err != nil {
		return cfg, err
	}
	cfg.Device = *flagDevice
	cfg.KernelNames = *flagKernelNames
	return cfg, nil
}

func readTable(read func(io.Reader, string) (*table.Table, error), path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f, filepath.Base(path))
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
