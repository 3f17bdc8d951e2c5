// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rooffmt reads the two tables a roofline computation
// consumes: the per-dispatch hardware counter trace written by the
// profiler and the micro-benchmark peak table written by the roofline
// benchmark.
//
// Both are CSV files. They are loaded into go-gg tables so that the
// engine can group and slice them without committing to a row struct;
// numeric columns are coerced on load, and any cell that fails to
// parse is carried as-is and becomes NaN when the engine extracts the
// column (see Floats).
package rooffmt

// Counter-table column names. One row per kernel dispatch. Operation
// counters count executed operations per datatype; byte counters
// count traffic per memory hierarchy level.
const (
	ColDispatch = "Dispatch_ID"
	ColKernel   = "Kernel_Name"
	ColDuration = "Duration" // ns in the file; tidied to sec on read

	ColFP64 = "FP64_Ops"
	ColFP32 = "FP32_Ops"
	ColFP16 = "FP16_Ops"
	ColINT8 = "INT8_Ops"
	ColMFMA = "MFMA_Ops"

	ColLDSBytes = "LDS_Bytes"
	ColL1Bytes  = "L1_Bytes"
	ColL2Bytes  = "L2_Bytes"
	ColHBMBytes = "HBM_Bytes"
)

// Benchmark-table column names. One row per (device, metric) pair.
// Bandwidth metrics ("LDS", "L1", "L2", "HBM") are in GB/s; compute
// metrics ("VALU-FP32", "MFMA-FP16", ...) are in GFLOP/s.
const (
	ColDevice = "Device"
	ColMetric = "Metric"
	ColPeak   = "Peak"
)
