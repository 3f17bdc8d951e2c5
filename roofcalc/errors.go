// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofcalc

import "fmt"

// The error types below are structural: the inputs cannot support the
// requested computation at all, so the call fails and the caller
// decides whether to abort or skip. Numeric degeneracies (zero bytes
// moved, a missing single measurement) are not errors; they propagate
// as NaN in the output series.

// A SchemaError reports a counter column required by the computation
// that is absent from the counter table.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("counter table is missing required column %q", e.Column)
}

// An EmptyInputError reports that the counter table had no usable
// groups: either it was empty, or every row was dropped as a
// profiling artifact.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "counter table has no groups to aggregate"
}

// A MetricNotFoundError reports that the benchmark table has no row
// for a requested metric on the selected device.
type MetricNotFoundError struct {
	Metric string
	Device string
}

func (e *MetricNotFoundError) Error() string {
	return fmt.Sprintf("benchmark table has no %q measurement for device %s", e.Metric, e.Device)
}

// An UnsupportedLevelError reports a memory-level name outside the
// known hierarchy.
type UnsupportedLevelError struct {
	Name string
}

func (e *UnsupportedLevelError) Error() string {
	return fmt.Sprintf("unknown memory level %q", e.Name)
}
