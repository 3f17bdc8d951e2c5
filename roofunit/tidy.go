// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofunit

// Tidy normalizes a value with a profiler-native unit into base
// units. Durations recorded in "ns" re-scale to "sec". Benchmark
// rates ("GB/s", "GFLOP/s") are already the ceiling coordinate system
// and pass through unchanged, as does anything Tidy does not
// recognize. It returns the re-scaled value and its new unit.
func Tidy(value float64, unit string) (tidiedValue float64, tidiedUnit string) {
	switch unit {
	case "ns":
		return value * 1e-9, "sec"
	case "us", "µs":
		return value * 1e-6, "sec"
	case "ms":
		return value * 1e-3, "sec"
	}
	return value, unit
}
