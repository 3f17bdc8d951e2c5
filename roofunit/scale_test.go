// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofunit

import (
	"math"
	"testing"
)

func TestScale(t *testing.T) {
	test := func(val float64, want string) {
		t.Helper()
		got := Scale(val)
		if got != want {
			t.Errorf("for %v, want %s, got %s", val, want, got)
		}
	}
	test(0, "0.000")
	test(1, "1.000")
	test(123456789, "123.5M")
	test(1.0e12, "1.000T")
	test(0.001, "1.000m")
	test(-123456789, "-123.5M")
}

func TestTidy(t *testing.T) {
	test := func(val float64, unit string, wantVal float64, wantUnit string) {
		t.Helper()
		gotVal, gotUnit := Tidy(val, unit)
		if gotVal != wantVal || gotUnit != wantUnit {
			t.Errorf("for %v %s, want %v %s, got %v %s", val, unit, wantVal, wantUnit, gotVal, gotUnit)
		}
	}
	test(1000, "ns", 1e-6, "sec")
	test(2.5, "ms", 2.5e-3, "sec")
	test(1000, "GB/s", 1000, "GB/s")
	test(5000, "GFLOP/s", 5000, "GFLOP/s")
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(1000, "GB/s"); got != "1000 GB/s" {
		t.Errorf("want 1000 GB/s, got %s", got)
	}
	if got := FormatRate(5000.7, "GFLOP/s"); got != "5000 GFLOP/s" {
		t.Errorf("want 5000 GFLOP/s, got %s", got)
	}
	if got := FormatRate(math.NaN(), "GB/s"); got != "? GB/s" {
		t.Errorf("want ? GB/s, got %s", got)
	}
}
