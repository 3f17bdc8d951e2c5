// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package roofcalc turns a hardware-counter trace and a
// micro-benchmark peak table into the numeric series of an empirical
// roofline model: one arithmetic-intensity point per kernel (or
// dispatch) per memory level, and one two-point log-log line per
// performance ceiling.
//
// Everything here is a pure function of its input tables. Structural
// problems (missing columns, missing benchmark rows, unknown level
// names) fail with a typed error; numeric degeneracies (zero bytes
// moved, a missing single measurement) propagate as NaN so a partial
// chart can still render.
package roofcalc

import (
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"

	"github.com/acceltools/roofline/rooffmt"
)

// An AggKey selects the grouping of counter rows: one group per
// kernel name, summing counters across its dispatches, or one group
// per dispatch row.
type AggKey int

const (
	ByKernel AggKey = iota
	ByDispatch
)

func (k AggKey) String() string {
	if k == ByDispatch {
		return "dispatches"
	}
	return "kernels"
}

// ParseAggKey maps an aggregation-key name to its AggKey. Both the
// singular and plural spellings are accepted.
func ParseAggKey(name string) (AggKey, error) {
	switch strings.ToLower(name) {
	case "kernel", "kernels":
		return ByKernel, nil
	case "dispatch", "dispatches":
		return ByDispatch, nil
	}
	return 0, fmt.Errorf("unknown aggregation key %q", name)
}

// A Series is a pair of aligned coordinate slices, one point per
// group.
type Series struct {
	X []float64 // arithmetic intensity, FLOPs/byte
	Y []float64 // achieved performance, FLOP/s
}

// An AIDataset holds the arithmetic-intensity points of one counter
// table: one Series per memory level, aligned by group index, plus
// the ordered group labels. All series have the same length and
// order, so a renderer can zip any of them with Kernels.
type AIDataset struct {
	Levels  map[Level]*Series
	Kernels []string
}

// opColumns are the per-datatype operation counters that sum into a
// group's total operations.
var opColumns = []string{
	rooffmt.ColFP64,
	rooffmt.ColFP32,
	rooffmt.ColFP16,
	rooffmt.ColINT8,
	rooffmt.ColMFMA,
}

// ComputeAI derives the arithmetic-intensity dataset of a counter
// table.
//
// Rows are grouped by key in first-appearance order; within a group,
// operation counters, byte counters, and durations are summed. Each
// group then yields AI = total ops / total bytes and performance =
// total ops / total duration at every memory level. A zero byte count
// yields a NaN intensity, not an error.
//
// Rows whose duration is zero (or unparseable) are profiling
// artifacts and are dropped before grouping. ComputeAI fails with
// *SchemaError if a required counter column is absent and with
// *EmptyInputError if no groups remain.
func ComputeAI(counters *table.Table, key AggKey) (*AIDataset, error) {
	if counters == nil {
		return nil, &EmptyInputError{}
	}
	if err := checkSchema(counters, key); err != nil {
		return nil, err
	}

	// Normalize the duration column so the artifact filter sees
	// float64 regardless of how the table was built.
	t := table.NewBuilder(counters).
		Add(rooffmt.ColDuration, rooffmt.Floats(counters.Column(rooffmt.ColDuration))).
		Done()
	kept := table.Flatten(table.Filter(t, func(d float64) bool { return d > 0 }, rooffmt.ColDuration))

	groupCol := rooffmt.ColKernel
	if key == ByDispatch {
		groupCol = rooffmt.ColDispatch
	}
	g := table.GroupBy(kept, groupCol)

	ds := &AIDataset{Levels: make(map[Level]*Series)}
	for _, l := range Hierarchy {
		ds.Levels[l] = new(Series)
	}
	for _, gid := range g.Tables() {
		sub := g.Table(gid)
		var ops float64
		for _, col := range opColumns {
			ops += vec.Sum(rooffmt.Floats(sub.Column(col)))
		}
		perf := ratio(ops, vec.Sum(rooffmt.Floats(sub.Column(rooffmt.ColDuration))))
		for _, l := range Hierarchy {
			s := ds.Levels[l]
			s.X = append(s.X, ratio(ops, vec.Sum(rooffmt.Floats(sub.Column(l.bytesColumn())))))
			s.Y = append(s.Y, perf)
		}
		ds.Kernels = append(ds.Kernels, groupLabel(key, gid, sub))
	}
	if len(ds.Kernels) == 0 {
		return nil, &EmptyInputError{}
	}
	return ds, nil
}

func checkSchema(counters *table.Table, key AggKey) error {
	required := append([]string{rooffmt.ColDuration}, opColumns...)
	for _, l := range Hierarchy {
		required = append(required, l.bytesColumn())
	}
	if key == ByKernel {
		required = append(required, rooffmt.ColKernel)
	} else {
		required = append(required, rooffmt.ColDispatch)
	}
	have := counters.Columns()
	for _, col := range required {
		found := false
		for _, h := range have {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			return &SchemaError{col}
		}
	}
	return nil
}

func groupLabel(key AggKey, gid table.GroupID, sub *table.Table) string {
	if key == ByDispatch {
		if names, ok := sub.Column(rooffmt.ColKernel).([]string); ok && len(names) > 0 {
			return fmt.Sprintf("%v: %s", gid.Label(), names[0])
		}
	}
	return fmt.Sprint(gid.Label())
}

// ratio returns a/b with the missing-measurement rule: a zero or NaN
// denominator yields NaN rather than an infinity or an error.
func ratio(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a / b
}
