package cli

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/awareness/awareness/processor"
	"go.viam.com/awareness/pointcloud"
	"go.viam.com/awareness/rimage"
)

// CloudAction unprojects the viewport through the depth processor and writes the world space
// points, colored by semantic channel, to a pcd file.
func CloudAction(c *cli.Context) (err error) {
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

	palette := make([]color.Color, 0, p.semantic.ChannelCount())
	for _, clr := range rimage.Palette(p.semantic.ChannelCount()) {
		palette = append(palette, clr)
	}
	cloud, err := pointcloud.NewFromViewport(p.depth, p.semantic, palette, c.Int(cloudFlagStride))
	if err != nil {
		return err
	}

	outputType := pointcloud.PCDAscii
	if c.Bool(cloudFlagBinary) {
		outputType = pointcloud.PCDBinary
	}
	path := c.String(cloudFlagOut)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return errors.Wrap(err, "cannot create point cloud file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	if err := pointcloud.ToPCD(cloud, f, outputType); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %s (%d points, %s)", path, cloud.Size(), units.HumanSize(float64(info.Size())))
	return nil
}
