package stats

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotHistory renders accepted and candidate counts per cycle to a PNG at
// path.
func PlotHistory(records []CycleRecord, path string) error {
	p := plot.New()
	p.Title.Text = "reactive-step history"
	p.X.Label.Text = "cycle"
	p.Y.Label.Text = "count"

	candidates := make(plotter.XYs, len(records))
	accepted := make(plotter.XYs, len(records))
	for i, rec := range records {
		candidates[i].X = float64(rec.Cycle)
		candidates[i].Y = float64(rec.Candidates)

		var totalAccepted int
		for _, n := range rec.Accepted {
			totalAccepted += n
		}
		accepted[i].X = float64(rec.Cycle)
		accepted[i].Y = float64(totalAccepted)
	}

	candidateLine, err := plotter.NewLine(candidates)
	if err != nil {
		return err
	}
	acceptedLine, err := plotter.NewLine(accepted)
	if err != nil {
		return err
	}
	acceptedLine.Color = plotter.DefaultGlyphStyle.Color

	p.Add(candidateLine, acceptedLine)
	p.Legend.Add("candidates", candidateLine)
	p.Legend.Add("accepted", acceptedLine)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
