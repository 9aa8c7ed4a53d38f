package rimage

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/awareness/awareness"
)

// PlotDepthHistogram saves a histogram of the usable depths of dm to path. The image format
// follows the extension: png, jpg, svg, pdf, eps or tif.
func PlotDepthHistogram(dm *awareness.DepthBuffer, bins int, path string) error {
	depths := make(plotter.Values, 0, dm.Len())
	for _, d := range dm.Samples() {
		if validDepth(d) {
			depths = append(depths, float64(d))
		}
	}
	if len(depths) == 0 {
		return ErrNoDepth
	}

	p := plot.New()
	p.Title.Text = "Depth"
	p.X.Label.Text = "depth (m)"
	p.Y.Label.Text = "samples"
	hist, err := plotter.NewHist(depths, max(1, bins))
	if err != nil {
		return err
	}
	p.Add(hist)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
