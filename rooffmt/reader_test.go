// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rooffmt

import (
	"math"
	"strings"
	"testing"
)

const countersCSV = `Dispatch_ID,Kernel_Name,Duration,FP64_Ops,FP32_Ops,FP16_Ops,INT8_Ops,MFMA_Ops,LDS_Bytes,L1_Bytes,L2_Bytes,HBM_Bytes
0,vecCopy,1000,0,1000,0,0,0,0,4000,3000,2000
1,vecCopy,1000,0,1000,0,0,0,0,4000,3000,2000
2,gemm,2000,0,0,8000,0,16000,512,1024,768,256
`

func TestReadCounters(t *testing.T) {
	tab, err := ReadCounters(strings.NewReader(countersCSV), "pmc_perf.csv")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tab.Len() != 3 {
		t.Fatalf("want 3 rows, got %d", tab.Len())
	}

	names, ok := tab.Column(ColKernel).([]string)
	if !ok || names[2] != "gemm" {
		t.Errorf("Kernel_Name not preserved as strings: %v", tab.Column(ColKernel))
	}

	// Durations are tidied from ns to sec on read.
	durs := Floats(tab.Column(ColDuration))
	if durs[0] != 1e-6 || durs[2] != 2e-6 {
		t.Errorf("durations not tidied to seconds: %v", durs)
	}

	ops := Floats(tab.Column(ColFP32))
	if ops[0] != 1000 || ops[2] != 0 {
		t.Errorf("bad FP32_Ops column: %v", ops)
	}
}

func TestReadCountersMissingHeader(t *testing.T) {
	_, err := ReadCounters(strings.NewReader(""), "pmc_perf.csv")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %v", err)
	}
	if file, _ := pe.Pos(); file != "pmc_perf.csv" {
		t.Errorf("want position in pmc_perf.csv, got %q", file)
	}
}

func TestReadCountersRaggedRow(t *testing.T) {
	in := "Dispatch_ID,Kernel_Name,Duration\n0,vecCopy\n"
	_, err := ReadCounters(strings.NewReader(in), "pmc_perf.csv")
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("want *ParseError for ragged row, got %v", err)
	}
}

func TestReadBenchmarks(t *testing.T) {
	in := `Device,Metric,Peak
0,HBM,1000
0,MFMA-FP32,5000
1,HBM,
`
	tab, err := ReadBenchmarks(strings.NewReader(in), "roofline.csv")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	// The empty cell blocks coercion; Floats applies the
	// missing-measurement rule.
	peaks := Floats(tab.Column(ColPeak))
	if peaks[0] != 1000 || peaks[1] != 5000 {
		t.Errorf("bad peaks: %v", peaks)
	}
	if !math.IsNaN(peaks[2]) {
		t.Errorf("missing peak should be NaN, got %v", peaks[2])
	}
}

func TestFloats(t *testing.T) {
	test := func(col interface{}, want []float64) {
		t.Helper()
		got := Floats(col)
		if len(got) != len(want) {
			t.Fatalf("want %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] && !(math.IsNaN(got[i]) && math.IsNaN(want[i])) {
				t.Errorf("want %v, got %v", want, got)
				return
			}
		}
	}
	test([]float64{1, 2.5}, []float64{1, 2.5})
	test([]int{1, 2}, []float64{1, 2})
	test([]string{"3", " 4.5", "", "None"}, []float64{3, 4.5, math.NaN(), math.NaN()})
}
