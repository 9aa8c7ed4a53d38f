package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/awareness/rimage"
)

// StatsAction prints the distribution of the last depth buffer, aligned to the viewport, and a
// histogram of it.
func StatsAction(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	_, registry, closeLogs := newLoggers(c, cfg)
	defer func() {
		err = multierr.Combine(err, closeLogs())
	}()
	p, err := newPipeline(cfg, registry)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, p.Close())
	}()
	if err := p.run(c.Int(pipelineFlagFrames), c.Duration(pipelineFlagLatency)); err != nil {
		return err
	}

	depth, _, pose := p.last()
	if depth == nil {
		return errNoFrame
	}
	aligned, _ := alignBuffer(depth, pose, cfg.Depth)
	summary, err := rimage.SummarizeDepth(aligned, c.Int(statsFlagBins))
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"size", fmt.Sprintf("%dx%d", aligned.Width(), aligned.Height())},
		{"valid", summary.Valid},
		{"invalid", summary.Invalid},
		{"min", fmt.Sprintf("%.3f m", summary.Min)},
		{"max", fmt.Sprintf("%.3f m", summary.Max)},
		{"mean", fmt.Sprintf("%.3f m", summary.Mean)},
		{"median", fmt.Sprintf("%.3f m", summary.Median)},
		{"stddev", fmt.Sprintf("%.3f m", summary.StdDev)},
		{"p10", fmt.Sprintf("%.3f m", summary.P10)},
		{"p90", fmt.Sprintf("%.3f m", summary.P90)},
		{"modes", summary.Modes(1)},
	})
	t.Render()
	if err := summary.FprintHistogram(c.App.Writer, c.Int(statsFlagWidth)); err != nil {
		return err
	}
	if path := c.String(statsFlagPlot); path != "" {
		if err := rimage.PlotDepthHistogram(aligned, c.Int(statsFlagBins), path); err != nil {
			return errors.Wrap(err, "cannot plot depth histogram")
		}
		printf(c.App.Writer, "wrote %s", path)
	}
	return nil
}
