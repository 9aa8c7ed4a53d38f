package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/awareness/awareness/processor"
)

// QueryAction prints the depth, distance, world position, surface normal and semantic channels
// the processors report at a viewport pixel.
func QueryAction(c *cli.Context) (err error) {
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
	if p.depth.State() != processor.Ready {
		return errNoFrame
	}

	x, y := c.Int(queryFlagX), c.Int(queryFlagY)
	viewport := p.depth.Viewport()
	if x < 0 || y < 0 || x >= viewport.Width || y >= viewport.Height {
		return errors.Errorf("pixel (%d, %d) is outside the %dx%d viewport", x, y, viewport.Width, viewport.Height)
	}

	position := p.depth.WorldPosition(x, y)
	normal := p.depth.SurfaceNormal(x, y)
	channels := p.semantic.ChannelNamesAt(x, y)
	if len(channels) == 0 {
		channels = []string{"none"}
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"viewport", fmt.Sprintf("%dx%d %s", viewport.Width, viewport.Height, viewport.Orientation)},
		{"pixel", fmt.Sprintf("(%d, %d)", x, y)},
		{"depth", fmt.Sprintf("%.3f m", p.depth.Depth(x, y))},
		{"distance", fmt.Sprintf("%.3f m", p.depth.Distance(x, y))},
		{"position", fmt.Sprintf("(%.3f, %.3f, %.3f)", position.X, position.Y, position.Z)},
		{"normal", fmt.Sprintf("(%.3f, %.3f, %.3f)", normal.X, normal.Y, normal.Z)},
		{"channels", strings.Join(channels, ", ")},
	})
	t.Render()
	return nil
}
