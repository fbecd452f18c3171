// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/primer-ml/primer/pkg/errors"
)

// PlotHistory renders per-epoch metric curves to an image file. Each entry
// of curves maps a legend label to its per-epoch values; the file extension
// selects the format (.png, .svg, .pdf).
func PlotHistory(title, file string, curves map[string][]float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "value"

	for label, values := range curves {
		pts := make(plotter.XYs, len(values))
		for i, v := range values {
			pts[i].X = float64(i + 1)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(err, "train: building curve")
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(label, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		return errors.Wrap(err, "train: saving plot")
	}
	return nil
}
