// Copyright 2024 The Roofline Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package roofplot renders roofline models to log-log charts.
//
// The engine in roofcalc emits numeric series only; this package is
// the display collaborator that turns them into figures and writes
// PNG or PDF files. Degenerate (NaN-bearing) ceilings and points are
// skipped, so a partial model still renders its valid parts.
package roofplot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/acceltools/roofline/roofcalc"
	"github.com/acceltools/roofline/roofunit"
)

// AI marker colors per memory level, matching the conventional
// roofline palette.
var levelColors = map[roofcalc.Level]color.Color{
	roofcalc.L1:  color.RGBA{0x00, 0xcc, 0x96, 0xff},
	roofcalc.L2:  color.RGBA{0xef, 0x55, 0x3b, 0xff},
	roofcalc.HBM: color.RGBA{0x63, 0x6e, 0xfa, 0xff},
	roofcalc.LDS: color.RGBA{0xab, 0x63, 0xfa, 0xff},
}

// Glyph shapes cycled per kernel when labels are retained, so the
// legend can map markers back to kernel names.
var kernelGlyphs = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.SquareGlyph{},
	draw.PyramidGlyph{},
	draw.RingGlyph{},
	draw.BoxGlyph{},
	draw.TriangleGlyph{},
	draw.CrossGlyph{},
	draw.PlusGlyph{},
}

// A Chart is one rendered roofline figure.
type Chart struct {
	Name string // output base name, without extension
	Plot *plot.Plot
}

// Render turns a roofline model into one chart per view: log-log
// axes, one line per ceiling, one scatter per memory level. AI
// performance arrives in FLOP/s and is drawn in GFLOP/s to share the
// ceiling axis.
//
// When the model retains kernel names, a trailing kernelName_legend
// chart keys the per-kernel marker shapes to the names.
func Render(m *roofcalc.Model) ([]*Chart, error) {
	var charts []*Chart
	for _, v := range m.Views {
		pl := plot.New()
		pl.Title.Text = "Empirical Roofline (" + dtypeList(v.Datatypes) + ")"
		pl.X.Label.Text = "Arithmetic Intensity (FLOPs/Byte)"
		pl.Y.Label.Text = "Performance (GFLOP/sec)"
		pl.X.Scale = plot.LogScale{}
		pl.Y.Scale = plot.LogScale{}
		pl.X.Tick.Marker = plot.LogTicks{Prec: -1}
		pl.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		pl.Legend.Top = true
		pl.Legend.Left = true

		for _, d := range v.Datatypes {
			if err := addCeilings(pl, v.Ceilings[d], d); err != nil {
				return nil, err
			}
		}
		if err := addAI(pl, m.AI, v.Ceilings[v.Datatypes[0]]); err != nil {
			return nil, err
		}

		charts = append(charts, &Chart{
			Name: fmt.Sprintf("empirRoof_gpu-%s_%s", m.Device, v.Name),
			Plot: pl,
		})
	}
	if len(m.AI.Kernels) > 0 {
		leg, err := kernelLegend(m.AI.Kernels)
		if err != nil {
			return nil, err
		}
		charts = append(charts, leg)
	}
	return charts, nil
}

// kernelLegend builds the marker key of the roofline charts: one
// legend entry per kernel, in glyph-cycle order, so the distinct
// shapes on the scatters can be read back to names.
func kernelLegend(kernels []string) (*Chart, error) {
	pl := plot.New()
	pl.Title.Text = "Kernel Names and Markers"
	pl.HideAxes()
	pl.Legend.Top = true
	pl.Legend.Left = true
	for i, name := range kernels {
		sc, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: float64(i)}})
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = kernelGlyphs[i%len(kernelGlyphs)]
		pl.Add(sc)
		pl.Legend.Add(name, sc)
	}
	return &Chart{Name: "kernelName_legend", Plot: pl}, nil
}

func addCeilings(pl *plot.Plot, ds roofcalc.CeilingDataset, d roofcalc.DataType) error {
	add := func(key, label, unit string) error {
		c, ok := ds[key]
		if !ok || hasNaN(c) {
			// Degenerate or unrequested ceiling.
			return nil
		}
		line, err := plotter.NewLine(plotter.XYs{
			{X: c.X[0], Y: c.Y[0]},
			{X: c.X[1], Y: c.Y[1]},
		})
		if err != nil {
			return err
		}
		line.Width = vg.Points(1.5)
		pl.Add(line)
		pl.Legend.Add(fmt.Sprintf("%s (%s)", label, roofunit.FormatRate(c.Peak, unit)), line)
		return nil
	}
	for _, l := range roofcalc.Hierarchy {
		if err := add(l.Key(), fmt.Sprintf("%v-%v", l, d), "GB/s"); err != nil {
			return err
		}
	}
	for _, key := range []string{"valu", "mfma"} {
		label := fmt.Sprintf("Peak %s-%v", map[string]string{"valu": "VALU", "mfma": "MFMA"}[key], d)
		if err := add(key, label, "GFLOP/s"); err != nil {
			return err
		}
	}
	return nil
}

// addAI draws the AI scatter for every level the view has a ceiling
// for, zipping points with ceilings of the same level.
func addAI(pl *plot.Plot, ai *roofcalc.AIDataset, ds roofcalc.CeilingDataset) error {
	for _, l := range roofcalc.Hierarchy {
		if _, ok := ds[l.Key()]; !ok {
			continue
		}
		s := ai.Levels[l]
		var xys plotter.XYs
		var idx []int // group index per kept point
		for i := range s.X {
			if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) || s.Y[i] <= 0 || s.X[i] <= 0 {
				continue
			}
			xys = append(xys, plotter.XY{X: s.X[i], Y: s.Y[i] / 1e9})
			idx = append(idx, i)
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		c := levelColors[l]
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Radius = vg.Points(3)
		if len(ai.Kernels) > 0 {
			sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
				return draw.GlyphStyle{
					Color:  c,
					Radius: vg.Points(3),
					Shape:  kernelGlyphs[idx[i]%len(kernelGlyphs)],
				}
			}
		}
		pl.Add(sc)
		pl.Legend.Add("ai_"+l.Key(), sc)
	}
	return nil
}

// SavePNG writes the chart to dir as a PNG.
func (c *Chart) SavePNG(dir string) error {
	canvas := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(24*vg.Centimeter, 16*vg.Centimeter),
		vgimg.UseDPI(150),
		vgimg.UseBackgroundColor(color.White),
	)}
	return c.save(dir, "png", canvas)
}

// SavePDF writes the chart to dir as a PDF.
func (c *Chart) SavePDF(dir string) error {
	return c.save(dir, "pdf", vgpdf.New(24*vg.Centimeter, 16*vg.Centimeter))
}

func (c *Chart) save(dir, sfx string, can vg.CanvasWriterTo) error {
	f, err := os.Create(filepath.Join(dir, c.Name+"."+sfx))
	if err != nil {
		return err
	}
	c.Plot.Draw(draw.New(can))
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func hasNaN(c *roofcalc.Ceiling) bool {
	for i := range c.X {
		if math.IsNaN(c.X[i]) || math.IsNaN(c.Y[i]) {
			return true
		}
	}
	return false
}

func dtypeList(ds []roofcalc.DataType) string {
	out := ""
	for i, d := range ds {
		if i > 0 {
			out += "/"
		}
		out += d.String()
	}
	return out
}
