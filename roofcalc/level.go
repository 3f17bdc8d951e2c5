// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofcalc

import (
	"strings"

	"github.com/acceltools/roofline/rooffmt"
)

// A Level identifies one tier of the memory hierarchy. Each level has
// its own byte-traffic counter and its own bandwidth ceiling.
type Level int

const (
	LDS Level = iota
	L1
	L2
	HBM
	numLevels
)

// Hierarchy lists every supported level, closest to compute first.
// Bandwidth ceilings are monotonically non-increasing along this
// order.
var Hierarchy = []Level{LDS, L1, L2, HBM}

// String returns the canonical level name, which is also the metric
// name consulted in the benchmark table.
func (l Level) String() string {
	switch l {
	case LDS:
		return "LDS"
	case L1:
		return "L1"
	case L2:
		return "L2"
	case HBM:
		return "HBM"
	}
	return "?"
}

// Key returns the lower-cased name keying this level's ceiling and AI
// series in result datasets.
func (l Level) Key() string {
	return strings.ToLower(l.String())
}

// bytesColumn returns the counter-table column holding this level's
// byte traffic.
func (l Level) bytesColumn() string {
	switch l {
	case LDS:
		return rooffmt.ColLDSBytes
	case L1:
		return rooffmt.ColL1Bytes
	case L2:
		return rooffmt.ColL2Bytes
	case HBM:
		return rooffmt.ColHBMBytes
	}
	return "?"
}

// ParseLevel maps a memory-level name to its Level. The profiler's
// display name "vL1D" is a synonym for L1 and is normalized here,
// before any benchmark-table lookup.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(name) {
	case "LDS":
		return LDS, nil
	case "L1", "VL1D":
		return L1, nil
	case "L2":
		return L2, nil
	case "HBM":
		return HBM, nil
	}
	return 0, &UnsupportedLevelError{name}
}

// ParseLevels maps a list of level names to Levels, preserving order
// and dropping duplicates. The single sentinel "ALL" (or an empty
// list) selects the whole hierarchy.
func ParseLevels(names []string) ([]Level, error) {
	if len(names) == 0 || len(names) == 1 && strings.EqualFold(names[0], "ALL") {
		return append([]Level(nil), Hierarchy...), nil
	}
	var levels []Level
	var seen [numLevels]bool
	for _, name := range names {
		l, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		if !seen[l] {
			seen[l] = true
			levels = append(levels, l)
		}
	}
	return levels, nil
}
