// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofcalc

import (
	"fmt"
	"strings"
)

// A DataType identifies one numeric precision with its own compute
// ceilings. The set is closed: everything that varies by datatype
// (benchmark metric names, which execution units apply) hangs off
// methods here rather than string comparisons at use sites.
type DataType int

const (
	FP64 DataType = iota
	FP32
	FP16
	INT8
)

// String returns the datatype tag used in benchmark metric names and
// ceiling labels.
func (d DataType) String() string {
	switch d {
	case FP64:
		return "FP64"
	case FP32:
		return "FP32"
	case FP16:
		return "FP16"
	case INT8:
		return "I8"
	}
	return "?"
}

// hasVALU reports whether the vector ALU has a distinct roof for this
// datatype. The packed FP16 and INT8 paths only run on the matrix
// unit, so their charts carry an MFMA roof alone.
func (d DataType) hasVALU() bool {
	return d == FP64 || d == FP32
}

// computeMetrics returns the benchmark metric name and dataset key of
// every compute ceiling applicable to this datatype.
func (d DataType) computeMetrics() []computeMetric {
	var ms []computeMetric
	if d.hasVALU() {
		ms = append(ms, computeMetric{"valu", "VALU-" + d.String()})
	}
	ms = append(ms, computeMetric{"mfma", "MFMA-" + d.String()})
	return ms
}

type computeMetric struct {
	key    string // dataset key, lower-cased
	metric string // benchmark table metric name
}

// ParseDataType maps a datatype tag to its DataType. "INT8" is
// accepted as a synonym for the canonical "I8".
func ParseDataType(name string) (DataType, error) {
	switch strings.ToUpper(name) {
	case "FP64":
		return FP64, nil
	case "FP32":
		return FP32, nil
	case "FP16":
		return FP16, nil
	case "I8", "INT8":
		return INT8, nil
	}
	return 0, fmt.Errorf("unknown datatype %q", name)
}

// ParseDataTypes maps a list of datatype tags, preserving order.
func ParseDataTypes(names []string) ([]DataType, error) {
	var ds []DataType
	for _, name := range names {
		d, err := ParseDataType(name)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}
