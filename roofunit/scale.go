// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package roofunit provides unit conversion and formatting for
// roofline quantities.
//
// Counter traces arrive in profiler-native units (durations in
// nanoseconds); micro-benchmark peaks arrive pre-scaled (GB/s,
// GFLOP/s). This package tidies the former to base units and formats
// the latter for ceiling labels.
package roofunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler represents a scaling factor for a number and
// its scientific representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Unit prefix ("k", "M", "G", etc)
}

// Format formats val and appends the unit prefix according to the
// given scale. For example, Format(123456789) with a "M" Scaler
// returns "123.4M".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

type factor struct {
	factor float64
	prefix string
	// Thresholds for 100.0, 10.00, 1.000.
	t100, t10, t1 float64
}

var siFactors = mkSIFactors()
var sigfigs, sigfigsBase = mkSigfigs()

func mkSIFactors() []factor {
	// To ensure that the thresholds for printing values with
	// various factors exactly match how printing itself will
	// round, we construct the thresholds by parsing the printed
	// representation.
	var factors []factor
	exp := 12
	for _, p := range []string{"T", "G", "M", "k", "", "m", "µ", "n"} {
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.995e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".99995e%d", exp), 64)
		factors = append(factors, factor{math.Pow(10, float64(exp)), p, t100, t10, t1})
		exp -= 3
	}
	return factors
}

func mkSigfigs() ([]float64, int) {
	var sigfigs []float64
	// Print up to 10 digits after the decimal place.
	for exp := -1; exp > -9; exp-- {
		thresh, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		sigfigs = append(sigfigs, thresh)
	}
	// sigfigs[0] is the threshold for 3 digits after the decimal.
	return sigfigs, 3
}

// Scale formats val using at least three significant digits,
// appending an SI prefix. Roofline rates are all decimal quantities,
// so there is no binary (IEC) class.
func Scale(val float64) string {
	return CommonScale([]float64{val}).Format(val)
}

// CommonScale returns a common Scaler to apply to all values in vals.
// This scale will show at least three significant digits for every
// value.
func CommonScale(vals []float64) Scaler {
	// The common scale is determined by the non-zero value
	// closest to zero.
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && !math.IsNaN(v) && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	for _, factor := range siFactors {
		switch {
		case min >= factor.t100:
			return Scaler{1, factor.factor, factor.prefix}
		case min >= factor.t10:
			return Scaler{2, factor.factor, factor.prefix}
		case min >= factor.t1:
			return Scaler{3, factor.factor, factor.prefix}
		}
	}

	// The value is less than the smallest factor. Print it using
	// the smallest factor and more precision to achieve the
	// desired sigfigs.
	factor := siFactors[len(siFactors)-1]
	val := min / factor.factor
	for i, thresh := range sigfigs {
		if val >= thresh || i == len(sigfigs)-1 {
			return Scaler{i + sigfigsBase, factor.factor, factor.prefix}
		}
	}

	panic("not reachable")
}

// FormatRate formats a peak rate for a ceiling label, e.g.
// FormatRate(1000, "GB/s") == "1000 GB/s". A NaN rate (a missing
// measurement) formats as "? <unit>" so a label can still be emitted
// for a degenerate ceiling.
func FormatRate(val float64, unit string) string {
	if math.IsNaN(val) {
		return "? " + unit
	}
	return fmt.Sprintf("%d %s", int64(val), unit)
}
