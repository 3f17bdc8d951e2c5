// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rooffmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Floats converts a table column to []float64.
//
// Missing measurements become NaN rather than an error: profilers
// emit empty cells or "None" for counters a given dispatch did not
// sample, and a single missing value must degrade only the ratios it
// feeds, not the whole computation. Columns whose cells all parsed as
// numbers were already coerced on load and convert directly.
func Floats(col table.Slice) []float64 {
	switch col := col.(type) {
	case []float64:
		return append([]float64(nil), col...)
	case []string:
		out := make([]float64, len(col))
		for i, s := range col {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				v = math.NaN()
			}
			out[i] = v
		}
		return out
	}
	var out []float64
	slice.Convert(&out, col)
	return out
}
