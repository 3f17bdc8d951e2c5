// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roofcalc

import (
	"fmt"
	"strings"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
)

// A Config carries the whole configuration surface of a roofline
// computation. There are no process-wide defaults: a zero Device or
// empty Levels/Datatypes means "ALL".
type Config struct {
	Datatypes []DataType
	Levels    []Level
	AggKey    AggKey
	Device    string // benchmark device id, or "ALL"

	// KernelNames controls whether group labels are retained in
	// the model for legend/marker assignment. It does not affect
	// any numeric output.
	KernelNames bool
}

// A View is the material of one rendered chart: the ceilings of one
// or more datatypes sharing a figure. FP16 and INT8 are conventionally
// shown together; every other datatype stands alone.
type View struct {
	Name      string // e.g. "fp32", "int8_fp16"
	Datatypes []DataType
	Ceilings  map[DataType]CeilingDataset
}

// A Model is the full numeric input of a roofline renderer: the AI
// points (shared across views, since intensity does not depend on
// datatype) and one ceiling view per figure.
type Model struct {
	AI     *AIDataset
	Views  []*View
	Device string
}

// BuildRoofline computes the roofline model of a counter table
// against a benchmark table. The AI dataset is computed once and
// shared by every view; ceilings are constructed per datatype.
//
// Failures from the extractor and the constructor propagate
// unchanged, except that a ceiling failure is prefixed with the
// datatype whose computation failed.
func BuildRoofline(counters, bench *table.Table, cfg Config, log *zap.Logger) (*Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(cfg.Datatypes) == 0 {
		cfg.Datatypes = []DataType{FP32, FP16, INT8}
	}
	if cfg.Device == "" {
		cfg.Device = "ALL"
	}

	ai, err := ComputeAI(counters, cfg.AggKey)
	if err != nil {
		return nil, err
	}
	if !cfg.KernelNames {
		ai.Kernels = nil
	}

	m := &Model{AI: ai, Device: cfg.Device}
	for _, dtypes := range groupViews(cfg.Datatypes) {
		v := &View{
			Name:      viewName(dtypes),
			Datatypes: dtypes,
			Ceilings:  make(map[DataType]CeilingDataset),
		}
		for _, d := range dtypes {
			cd, err := ConstructCeilings(bench, d, cfg.Levels, cfg.Device, log)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", d, err)
			}
			v.Ceilings[d] = cd
		}
		m.Views = append(m.Views, v)
	}
	return m, nil
}

// groupViews splits the requested datatypes into per-figure groups,
// preserving request order. FP16 and INT8 merge into one combined
// group when both are requested.
func groupViews(dtypes []DataType) [][]DataType {
	var views [][]DataType
	combined := -1
	for _, d := range dtypes {
		if d == FP16 || d == INT8 {
			if combined < 0 {
				combined = len(views)
				views = append(views, []DataType{d})
			} else {
				views[combined] = append(views[combined], d)
			}
			continue
		}
		views = append(views, []DataType{d})
	}
	return views
}

// viewName derives the output file suffix of a view. The combined
// half-precision figure is always named int8_fp16, regardless of
// request order.
func viewName(dtypes []DataType) string {
	has := func(want DataType) bool {
		for _, d := range dtypes {
			if d == want {
				return true
			}
		}
		return false
	}
	if has(FP16) && has(INT8) {
		return "int8_fp16"
	}
	parts := make([]string, len(dtypes))
	for i, d := range dtypes {
		if d == INT8 {
			parts[i] = "int8"
			continue
		}
		parts[i] = strings.ToLower(d.String())
	}
	return strings.Join(parts, "_")
}
