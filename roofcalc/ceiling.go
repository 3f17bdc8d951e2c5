// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofcalc

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"

	"github.com/acceltools/roofline/rooffmt"
)

// The AI plot domain, in FLOPs/byte. Ceiling lines are anchored to
// this domain; AI points can fall outside it and the renderer extends
// the axes as needed.
const (
	AIMin = 1e-2
	AIMax = 1e3
)

// A Ceiling is one performance upper bound as a two-point line in
// log-log AI/performance space, plus the scalar peak rate that
// labels it. For a bandwidth ceiling the line runs from the low-AI
// anchor up to the knee, where it meets the compute roof; for a
// compute ceiling it is horizontal across the whole AI domain.
//
// X is in FLOPs/byte. Y is in GFLOP/s: a GB/s bandwidth multiplied by
// a FLOPs/byte intensity lands in the same coordinate system as a
// GFLOP/s compute peak. Peak keeps the benchmark table's native unit
// (GB/s for bandwidth, GFLOP/s for compute).
type Ceiling struct {
	X, Y [2]float64
	Peak float64
}

// A CeilingDataset maps lower-cased ceiling names ("hbm", "l2", "l1",
// "lds", "valu", "mfma") to their lines.
type CeilingDataset map[string]*Ceiling

// ConstructCeilings derives the ceiling lines of one datatype from a
// micro-benchmark peak table.
//
// device selects the benchmark rows to consult; "ALL" takes the first
// row per metric in table order, whatever device it came from. Each
// requested level contributes a bandwidth ceiling whose knee is set
// by the highest compute roof applicable to dtype; each applicable
// compute unit contributes a horizontal roof.
//
// A benchmark row that exists but holds no usable measurement (empty,
// zero, or negative) produces a NaN-bearing ceiling the renderer can
// skip. A missing row is structural and fails with
// *MetricNotFoundError.
func ConstructCeilings(bench *table.Table, dtype DataType, levels []Level, device string, log *zap.Logger) (CeilingDataset, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(levels) == 0 {
		levels = Hierarchy
	}
	peaks := indexPeaks(bench, device)

	ds := make(CeilingDataset)

	// Compute roofs. The knee of every bandwidth line is set by the
	// highest one so bandwidth segments never overshoot the plotted
	// roof.
	roof := math.NaN()
	for _, cm := range dtype.computeMetrics() {
		peak, ok := peaks[cm.metric]
		if !ok {
			return nil, &MetricNotFoundError{cm.metric, device}
		}
		y := positive(peak)
		ds[cm.key] = &Ceiling{
			X:    [2]float64{AIMin, AIMax},
			Y:    [2]float64{y, y},
			Peak: peak,
		}
		if math.IsNaN(roof) || y > roof {
			roof = y
		}
		log.Debug("compute ceiling",
			zap.String("metric", cm.metric),
			zap.Float64("gflops", peak))
	}

	// Bandwidth ceilings. y = bw*x up to the knee AI* = roof/bw,
	// where the line meets the compute roof by construction.
	for _, l := range levels {
		peak, ok := peaks[l.String()]
		if !ok {
			return nil, &MetricNotFoundError{l.String(), device}
		}
		bw := positive(peak)
		ds[l.Key()] = &Ceiling{
			X:    [2]float64{AIMin, ratio(roof, bw)},
			Y:    [2]float64{bw * AIMin, roof},
			Peak: peak,
		}
		log.Debug("bandwidth ceiling",
			zap.String("level", l.String()),
			zap.Float64("gbps", peak),
			zap.Float64("knee", ratio(roof, bw)))
	}
	return ds, nil
}

// indexPeaks maps metric name to peak for every benchmark row
// matching device, first row per metric winning.
func indexPeaks(bench *table.Table, device string) map[string]float64 {
	if bench == nil {
		return nil
	}
	metrics, ok := bench.Column(rooffmt.ColMetric).([]string)
	if !ok || bench.Column(rooffmt.ColPeak) == nil {
		return nil
	}
	var devices []string
	if col := bench.Column(rooffmt.ColDevice); col != nil {
		devices = stringColumn(col)
	}
	values := rooffmt.Floats(bench.Column(rooffmt.ColPeak))

	peaks := make(map[string]float64)
	for i, m := range metrics {
		if device != "ALL" && (devices == nil || devices[i] != device) {
			continue
		}
		if _, ok := peaks[m]; !ok {
			peaks[m] = values[i]
		}
	}
	return peaks
}

// stringColumn renders any column as strings so a numeric device id
// compares against its flag spelling.
func stringColumn(col table.Slice) []string {
	switch col := col.(type) {
	case []string:
		return col
	case []int:
		out := make([]string, len(col))
		for i, v := range col {
			out[i] = strconv.Itoa(v)
		}
		return out
	case []float64:
		out := make([]string, len(col))
		for i, v := range col {
			out[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return out
	}
	rv := reflect.ValueOf(col)
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out
}

// positive applies the strictly-positive invariant on peak rates: a
// zero, negative, or missing measurement degrades to NaN.
func positive(v float64) float64 {
	if !(v > 0) {
		return math.NaN()
	}
	return v
}
