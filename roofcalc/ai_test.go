// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofcalc

import (
	"errors"
	"math"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/acceltools/roofline/rooffmt"
)

type crow struct {
	id                           int
	kernel                       string
	dur                          float64 // sec
	fp64, fp32, fp16, int8, mfma float64
	lds, l1, l2, hbm             float64
}

func counterTable(rows []crow) *table.Table {
	n := len(rows)
	ids := make([]int, n)
	kernels := make([]string, n)
	cols := map[string][]float64{}
	for _, name := range []string{
		rooffmt.ColDuration,
		rooffmt.ColFP64, rooffmt.ColFP32, rooffmt.ColFP16, rooffmt.ColINT8, rooffmt.ColMFMA,
		rooffmt.ColLDSBytes, rooffmt.ColL1Bytes, rooffmt.ColL2Bytes, rooffmt.ColHBMBytes,
	} {
		cols[name] = make([]float64, n)
	}
	for i, r := range rows {
		ids[i], kernels[i] = r.id, r.kernel
		cols[rooffmt.ColDuration][i] = r.dur
		cols[rooffmt.ColFP64][i] = r.fp64
		cols[rooffmt.ColFP32][i] = r.fp32
		cols[rooffmt.ColFP16][i] = r.fp16
		cols[rooffmt.ColINT8][i] = r.int8
		cols[rooffmt.ColMFMA][i] = r.mfma
		cols[rooffmt.ColLDSBytes][i] = r.lds
		cols[rooffmt.ColL1Bytes][i] = r.l1
		cols[rooffmt.ColL2Bytes][i] = r.l2
		cols[rooffmt.ColHBMBytes][i] = r.hbm
	}
	b := new(table.Builder).Add(rooffmt.ColDispatch, ids).Add(rooffmt.ColKernel, kernels)
	for name, col := range cols {
		b.Add(name, col)
	}
	return b.Done()
}

func TestComputeAIByKernel(t *testing.T) {
	// Two dispatches of one kernel sum into one group.
	tab := counterTable([]crow{
		{id: 0, kernel: "vecCopy", dur: 1e-6, fp32: 1000, hbm: 2000, l2: 1000, l1: 500, lds: 100},
		{id: 1, kernel: "vecCopy", dur: 1e-6, fp32: 1000, hbm: 2000, l2: 1000, l1: 500, lds: 100},
	})
	ds, err := ComputeAI(tab, ByKernel)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(ds.Kernels) != 1 || ds.Kernels[0] != "vecCopy" {
		t.Fatalf("want one group [vecCopy], got %v", ds.Kernels)
	}
	if got := ds.Levels[HBM].X[0]; got != 0.5 {
		t.Errorf("AI(HBM) = %v, want 0.5", got)
	}
	if got := ds.Levels[L2].X[0]; got != 1.0 {
		t.Errorf("AI(L2) = %v, want 1.0", got)
	}
	if got := ds.Levels[HBM].Y[0]; got != 1e9 {
		t.Errorf("performance = %v, want 1e9", got)
	}
	// Every series is aligned with the label list.
	for _, l := range Hierarchy {
		s := ds.Levels[l]
		if len(s.X) != 1 || len(s.Y) != 1 {
			t.Errorf("%v series not aligned: %d/%d points", l, len(s.X), len(s.Y))
		}
	}
}

func TestComputeAIByDispatch(t *testing.T) {
	tab := counterTable([]crow{
		{id: 0, kernel: "vecCopy", dur: 1e-6, fp32: 1000, hbm: 2000},
		{id: 1, kernel: "gemm", dur: 2e-6, fp16: 4000, mfma: 4000, hbm: 1000},
	})
	ds, err := ComputeAI(tab, ByDispatch)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := []string{"0: vecCopy", "1: gemm"}
	if len(ds.Kernels) != 2 || ds.Kernels[0] != want[0] || ds.Kernels[1] != want[1] {
		t.Fatalf("want labels %v, got %v", want, ds.Kernels)
	}
	if got := ds.Levels[HBM].X[1]; got != 8.0 {
		t.Errorf("AI(HBM) for gemm = %v, want 8.0", got)
	}
	if got := ds.Levels[HBM].Y[1]; got != 4e9 {
		t.Errorf("performance for gemm = %v, want 4e9", got)
	}
}

func TestComputeAIAggregationEquivalence(t *testing.T) {
	// Summing per-dispatch counters by hand and grouping by kernel
	// must agree, since both op and byte sums are additive.
	rows := []crow{
		{id: 0, kernel: "a", dur: 1e-6, fp32: 100, fp16: 50, hbm: 400, l2: 200, l1: 100, lds: 50},
		{id: 1, kernel: "b", dur: 3e-6, fp64: 300, hbm: 900, l2: 450, l1: 300, lds: 90},
		{id: 2, kernel: "a", dur: 2e-6, fp32: 200, mfma: 60, hbm: 800, l2: 100, l1: 300, lds: 10},
		{id: 3, kernel: "b", dur: 1e-6, int8: 500, hbm: 100, l2: 50, l1: 25, lds: 10},
	}
	tab := counterTable(rows)
	ds, err := ComputeAI(tab, ByKernel)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(ds.Kernels) != 2 || ds.Kernels[0] != "a" || ds.Kernels[1] != "b" {
		t.Fatalf("want groups [a b], got %v", ds.Kernels)
	}

	sum := func(kernel string, f func(crow) float64) float64 {
		var s float64
		for _, r := range rows {
			if r.kernel == kernel {
				s += f(r)
			}
		}
		return s
	}
	ops := func(r crow) float64 { return r.fp64 + r.fp32 + r.fp16 + r.int8 + r.mfma }
	for i, kernel := range []string{"a", "b"} {
		o := sum(kernel, ops)
		if got, want := ds.Levels[HBM].X[i], o/sum(kernel, func(r crow) float64 { return r.hbm }); got != want {
			t.Errorf("%s: AI(HBM) = %v, want %v", kernel, got, want)
		}
		if got, want := ds.Levels[LDS].X[i], o/sum(kernel, func(r crow) float64 { return r.lds }); got != want {
			t.Errorf("%s: AI(LDS) = %v, want %v", kernel, got, want)
		}
		if got, want := ds.Levels[HBM].Y[i], o/sum(kernel, func(r crow) float64 { return r.dur }); got != want {
			t.Errorf("%s: performance = %v, want %v", kernel, got, want)
		}
	}
}

func TestComputeAIZeroBytes(t *testing.T) {
	// Zero traffic at a level is a degenerate point, not an error.
	tab := counterTable([]crow{
		{id: 0, kernel: "k", dur: 1e-6, fp32: 1000, hbm: 2000, lds: 0},
	})
	ds, err := ComputeAI(tab, ByKernel)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := ds.Levels[LDS].X[0]; !math.IsNaN(got) {
		t.Errorf("AI(LDS) with zero bytes = %v, want NaN", got)
	}
	if got := ds.Levels[LDS].Y[0]; got != 1e9 {
		t.Errorf("performance unaffected by zero bytes, got %v", got)
	}
}

func TestComputeAIZeroDuration(t *testing.T) {
	// A zero-duration dispatch is a profiling artifact: dropped
	// entirely, not emitted as NaN.
	tab := counterTable([]crow{
		{id: 0, kernel: "k", dur: 0, fp32: 9999, hbm: 1},
		{id: 1, kernel: "k", dur: 1e-6, fp32: 1000, hbm: 2000},
	})
	ds, err := ComputeAI(tab, ByKernel)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := ds.Levels[HBM].X[0]; got != 0.5 {
		t.Errorf("AI(HBM) = %v, want 0.5 (zero-duration row dropped)", got)
	}

	// If every row is an artifact there is nothing to aggregate.
	tab = counterTable([]crow{{id: 0, kernel: "k", dur: 0, fp32: 1}})
	_, err = ComputeAI(tab, ByKernel)
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("want *EmptyInputError, got %v", err)
	}
}

func TestComputeAISchemaError(t *testing.T) {
	tab := counterTable([]crow{{id: 0, kernel: "k", dur: 1e-6, fp32: 1}})
	tab = table.NewBuilder(tab).Add(rooffmt.ColHBMBytes, nil).Done()
	_, err := ComputeAI(tab, ByKernel)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("want *SchemaError, got %v", err)
	}
	if se.Column != rooffmt.ColHBMBytes {
		t.Errorf("want missing column %q, got %q", rooffmt.ColHBMBytes, se.Column)
	}
}

func TestComputeAIEmptyInput(t *testing.T) {
	_, err := ComputeAI(counterTable(nil), ByKernel)
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("want *EmptyInputError, got %v", err)
	}
}

func TestParseAggKey(t *testing.T) {
	test := func(name string, want AggKey) {
		t.Helper()
		got, err := ParseAggKey(name)
		if err != nil || got != want {
			t.Errorf("for %q, want %v, got %v, %v", name, want, got, err)
		}
	}
	test("kernel", ByKernel)
	test("kernels", ByKernel)
	test("dispatch", ByDispatch)
	test("Dispatches", ByDispatch)
	if _, err := ParseAggKey("waves"); err == nil {
		t.Errorf("want error for unknown aggregation key")
	}
}
