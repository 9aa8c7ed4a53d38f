package cli

import (
	"context"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/awareness/processor"
	"go.viam.com/awareness/config"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/rimage"
	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/utils"
)

var errNoFrame = errors.New("no frame was delivered")

type previewOptions struct {
	source    string
	channels  []string
	disparity bool
}

// previewRequest is what the preview flags ask for.
type previewRequest struct {
	previewOptions
	kinds   []string
	format  string
	scale   float64
	out     string
	frames  int
	latency time.Duration
}

type previewResult struct {
	path          string
	width, height int
}

// parsePreviewRequest validates the preview flags.
func parsePreviewRequest(c *cli.Context) (previewRequest, error) {
	req := previewRequest{
		previewOptions: previewOptions{
			source:    c.String(previewFlagSource),
			channels:  c.StringSlice(previewFlagChannels),
			disparity: c.Bool(previewFlagDisparity),
		},
		format:  strings.TrimPrefix(strings.ToLower(c.String(previewFlagFormat)), "."),
		scale:   c.Float64(previewFlagScale),
		out:     c.String(previewFlagOut),
		frames:  c.Int(pipelineFlagFrames),
		latency: c.Duration(pipelineFlagLatency),
	}
	kind := c.String(previewFlagKind)
	if err := oneOf(previewFlagKind, kind, previewKindDepth, previewKindSemantic, previewKindAll); err != nil {
		return req, err
	}
	req.kinds = []string{kind}
	if kind == previewKindAll {
		req.kinds = []string{previewKindDepth, previewKindSemantic}
	}
	if err := oneOf(previewFlagSource, req.source, previewSourceProcessor, previewSourceBuffer); err != nil {
		return req, err
	}
	if err := oneOf(previewFlagFormat, req.format, rimage.ImageFormats...); err != nil {
		return req, err
	}
	if req.disparity && req.source != previewSourceBuffer {
		warningf(c.App.ErrWriter, "--%s only applies to --%s %s", previewFlagDisparity, previewFlagSource, previewSourceBuffer)
	}
	return req, nil
}

// PreviewAction renders the aligned depth and semantic buffers of the configured producer to
// image files.
func PreviewAction(c *cli.Context) (err error) {
	req, err := parsePreviewRequest(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	_, registry, closeLogs := newLoggers(c, cfg)
	defer func() {
		err = multierr.Combine(err, closeLogs())
	}()
	return renderPreviews(c, cfg, registry, req)
}

// renderPreviews runs a pipeline for cfg and writes one image per requested kind.
func renderPreviews(c *cli.Context, cfg *config.Config, registry *logging.Registry, req previewRequest) (err error) {
	p, err := newPipeline(cfg, registry)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, p.Close())
	}()
	if err := p.run(req.frames, req.latency); err != nil {
		return err
	}

	renderers := map[string]func(previewOptions) (image.Image, error){
		previewKindDepth:    p.depthPreview,
		previewKindSemantic: p.semanticPreview,
	}
	results := make([]previewResult, len(req.kinds))
	jobs := make([]utils.SimpleFunc, 0, len(req.kinds))
	for i, k := range req.kinds {
		path := filepath.Join(req.out, k+"."+req.format)
		jobs = append(jobs, func(ctx context.Context) error {
			img, err := renderers[k](req.previewOptions)
			if err != nil {
				return errors.Wrapf(err, "cannot render %s preview", k)
			}
			img = rimage.ResizePreview(img, req.scale)
			if err := rimage.WriteImageToFile(path, img); err != nil {
				return err
			}
			results[i] = previewResult{path: path, width: img.Bounds().Dx(), height: img.Bounds().Dy()}
			return ctx.Err()
		})
	}
	elapsed, err := utils.RunInParallel(c.Context, jobs)
	if err != nil {
		return err
	}
	p.logger.Debugw("previews rendered", "elapsed", elapsed.String())
	for _, result := range results {
		printf(c.App.Writer, "wrote %s (%dx%d)", result.path, result.width, result.height)
	}
	return nil
}

func (p *pipeline) depthPreview(opts previewOptions) (image.Image, error) {
	if opts.source == previewSourceProcessor {
		var tex awareness.Texture
		if err := p.depth.Materialize(&tex, awareness.FormatRGBA32); err != nil {
			return nil, err
		}
		if !tex.Allocated() {
			return nil, errNoFrame
		}
		return tex.ToImage(), nil
	}

	depth, _, pose := p.last()
	if depth == nil {
		return nil, errNoFrame
	}
	aligned, bottomUp := alignBuffer(depth, pose, p.cfg.Depth)
	var img image.Image
	if opts.disparity {
		img = rimage.DisparityImage(aligned, rimage.DefaultMaxDisparity)
	} else {
		img = rimage.DepthToPrettyPicture(aligned, aligned.Near(), aligned.Far())
	}
	if bottomUp {
		img = rimage.FlipVertical(img)
	}
	return img, nil
}

func (p *pipeline) semanticPreview(opts previewOptions) (image.Image, error) {
	names := opts.channels
	table := awareness.NewChannelTable(p.semantic.Channels()...)
	for _, name := range names {
		if table.Index(name) < 0 {
			return nil, errors.Errorf("unknown channel %q", name)
		}
	}

	if opts.source == previewSourceProcessor {
		if len(names) == 0 {
			names = p.semantic.Channels()
		}
		var tex awareness.Texture
		if err := p.semantic.MaterializeNames(&tex, names...); err != nil {
			return nil, err
		}
		if !tex.Allocated() {
			return nil, errNoFrame
		}
		return tex.ToImage(), nil
	}

	semantics, _, pose := p.last()
	if semantics == nil {
		return nil, errNoFrame
	}
	if len(names) > 0 {
		mask := semantics.Channels().MaskForNames(names...)
		samples := semantics.Samples()
		masked := make([]uint32, len(samples))
		for i, s := range samples {
			masked[i] = s & mask
		}
		var err error
		if semantics, err = awareness.NewBuffer(semantics.Width(), semantics.Height(), masked, semantics.Metadata()); err != nil {
			return nil, err
		}
	}
	aligned, bottomUp := alignBuffer(semantics, pose, p.cfg.Semantic)
	img := rimage.SemanticsToPicture(aligned, rimage.Palette(aligned.Channels().Len()))
	if bottomUp {
		img = rimage.FlipVertical(img)
	}
	return img, nil
}

// alignBuffer compensates the camera motion since capture, turns the buffer upright for the
// viewport and crops it to the viewport's aspect ratio. bottomUp reports whether the crop left
// the rows in bottom-up order.
func alignBuffer[T awareness.Sample](
	buf *awareness.Buffer[T],
	pose awareness.CameraPose,
	cfg processor.Config,
) (aligned *awareness.Buffer[T], bottomUp bool) {
	aligned = buf
	if cfg.InterpolationEnabled() {
		aligned, _ = awareness.Interpolate(aligned, pose, cfg.InterpolationDistance())
	}
	// Rotate counts turns from the sensor's native orientation; the display transform counts them
	// from the orientation the buffer's aspect ratio implies.
	bufferOrientation := screen.FromSize(float64(buf.Width()), float64(buf.Height()))
	target := screen.SensorNative.Turn(screen.QuarterTurns(bufferOrientation, pose.Viewport.Orientation))
	aligned = awareness.Rotate(aligned, target)
	fitted, ok := awareness.FitToViewport(aligned, pose.Viewport.Width, pose.Viewport.Height)
	bottomUp = ok && (fitted.Width() != aligned.Width() || fitted.Height() != aligned.Height())
	return fitted, bottomUp
}
