// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rooffmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"

	"github.com/acceltools/roofline/roofunit"
)

// A ParseError represents a structural error on a particular line of
// a CSV input file.
type ParseError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *ParseError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// ReadCounters reads a counter trace from r into a table. fileName is
// used in error messages; it is purely diagnostic.
//
// The Duration column, recorded by the profiler in nanoseconds, is
// tidied to seconds so every downstream ratio is in base units.
func ReadCounters(r io.Reader, fileName string) (*table.Table, error) {
	t, err := readTable(r, fileName)
	if err != nil {
		return nil, err
	}
	if !contains(t.Columns(), ColDuration) {
		// Leave schema validation to the engine, which reports
		// the full set of required columns.
		return t, nil
	}
	durs := Floats(t.Column(ColDuration))
	secs := make([]float64, len(durs))
	for i, d := range durs {
		secs[i], _ = roofunit.Tidy(d, "ns")
	}
	return table.NewBuilder(t).Add(ColDuration, secs).Done(), nil
}

// ReadBenchmarks reads a micro-benchmark peak table from r. fileName
// is used in error messages; it is purely diagnostic.
func ReadBenchmarks(r io.Reader, fileName string) (*table.Table, error) {
	return readTable(r, fileName)
}

// readTable reads a CSV file with a header row into a table, coercing
// numeric columns.
func readTable(r io.Reader, fileName string) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		var ce *csv.ParseError
		if errors.As(err, &ce) {
			return nil, &ParseError{fileName, ce.Line, ce.Err.Error()}
		}
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &ParseError{fileName, 0, "missing header row"}
	}
	return table.TableFromStrings(recs[0], recs[1:], true), nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
