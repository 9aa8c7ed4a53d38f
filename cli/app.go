package cli

import (
	"io"
	"slices"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	generalFlagConfig  = "config"
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"

	// Pipeline flags.
	pipelineFlagViewport    = "viewport"
	pipelineFlagOrientation = "orientation"
	pipelineFlagFrames      = "frames"
	pipelineFlagLatency     = "latency"

	// Preview flags.
	previewFlagKind      = "kind"
	previewFlagSource    = "source"
	previewFlagOut       = "out"
	previewFlagFormat    = "format"
	previewFlagChannels  = "channel"
	previewFlagScale     = "scale"
	previewFlagDisparity = "disparity"

	// Query flags.
	queryFlagX = "x"
	queryFlagY = "y"

	// Stats flags.
	statsFlagBins  = "bins"
	statsFlagWidth = "width"
	statsFlagPlot  = "plot"

	// Cloud flags.
	cloudFlagOut    = "out"
	cloudFlagBinary = "binary"
	cloudFlagStride = "stride"

	previewKindDepth    = "depth"
	previewKindSemantic = "semantic"
	previewKindAll      = "all"

	previewSourceProcessor = "processor"
	previewSourceBuffer    = "buffer"
)

var pipelineFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  pipelineFlagViewport,
		Usage: "viewport resolution as `WxH`, e.g. 1080x1920; defaults to the producer's",
	},
	&cli.StringFlag{
		Name:  pipelineFlagOrientation,
		Usage: "UI orientation of the viewport: portrait, portrait_upside_down, landscape_left or landscape_right",
	},
	&cli.IntFlag{
		Name:  pipelineFlagFrames,
		Value: 1,
		Usage: "number of frames to produce before rendering",
	},
	&cli.DurationFlag{
		Name:  pipelineFlagLatency,
		Usage: "age of the last frame when it is displayed; the camera keeps moving for this long",
	},
}

var previewFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  previewFlagKind,
		Value: previewKindAll,
		Usage: "buffers to render: depth, semantic or all",
	},
	&cli.StringFlag{
		Name:  previewFlagSource,
		Value: previewSourceProcessor,
		Usage: "processor materializes through the display sampler; buffer rotates, interpolates and crops the buffer itself",
	},
	&cli.StringFlag{
		Name:  previewFlagOut,
		Value: ".",
		Usage: "output `DIRECTORY`",
	},
	&cli.StringFlag{
		Name:  previewFlagFormat,
		Value: "png",
		Usage: "image format: png, jpg, webp, tiff, ppm or qoi",
	},
	&cli.StringSliceFlag{
		Name:  previewFlagChannels,
		Usage: "semantic channels to mask; all channels when omitted",
	},
	&cli.Float64Flag{
		Name:  previewFlagScale,
		Value: 1,
		Usage: "scale the written images by this factor",
	},
	&cli.BoolFlag{
		Name:  previewFlagDisparity,
		Usage: "render depth as grayscale inverse depth (buffer source only)",
	},
}

var app = &cli.App{
	Name:            "awareness",
	Usage:           "align and inspect depth and semantic awareness buffers",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    generalFlagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  generalFlagLogFile,
			Usage: "also write logs to `FILE`, rotating it as it grows",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "preview",
			Usage:     "render the aligned buffers of a fake producer to image files",
			UsageText: "awareness [global options] preview [options]",
			Flags:     slices.Concat(previewFlags, pipelineFlags),
			Action:    PreviewAction,
		},
		{
			Name:      "query",
			Usage:     "print what the processors report at a viewport pixel",
			UsageText: "awareness [global options] query --x X --y Y [options]",
			Flags: slices.Concat([]cli.Flag{
				&cli.IntFlag{
					Name:     queryFlagX,
					Required: true,
					Usage:    "viewport column, from the left",
				},
				&cli.IntFlag{
					Name:     queryFlagY,
					Required: true,
					Usage:    "viewport row, from the top",
				},
			}, pipelineFlags),
			Action: QueryAction,
		},
		{
			Name:      "stats",
			Usage:     "print the distribution of the aligned depth buffer",
			UsageText: "awareness [global options] stats [options]",
			Flags: slices.Concat([]cli.Flag{
				&cli.IntFlag{
					Name:  statsFlagBins,
					Value: 16,
					Usage: "number of histogram bins",
				},
				&cli.IntFlag{
					Name:  statsFlagWidth,
					Value: 40,
					Usage: "width of the widest histogram bar, in characters",
				},
				&cli.StringFlag{
					Name:  statsFlagPlot,
					Usage: "also plot the histogram to `FILE` (png, jpg, svg or pdf)",
				},
			}, pipelineFlags),
			Action: StatsAction,
		},
		{
			Name:      "cloud",
			Usage:     "write the world positions seen through the viewport to a pcd point cloud",
			UsageText: "awareness [global options] cloud [options]",
			Flags: slices.Concat([]cli.Flag{
				&cli.StringFlag{
					Name:  cloudFlagOut,
					Value: "awareness.pcd",
					Usage: "output `FILE`",
				},
				&cli.BoolFlag{
					Name:  cloudFlagBinary,
					Usage: "write binary rather than ascii point data",
				},
				&cli.IntFlag{
					Name:  cloudFlagStride,
					Value: 1,
					Usage: "unproject every n-th viewport pixel in each direction",
				},
			}, pipelineFlags),
			Action: CloudAction,
		},
		{
			Name:      "watch",
			Usage:     "render previews, then render them again whenever the config file changes",
			UsageText: "awareness --config FILE [global options] watch [options]",
			Flags:     slices.Concat(previewFlags, pipelineFlags),
			Action:    WatchAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of the config file",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
