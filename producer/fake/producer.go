// Package fake implements a producer that renders depth and semantic buffers of a synthetic
// scene: a flat floor below the camera and a backdrop beyond it.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.uber.org/atomic"
	"go.viam.com/utils"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/spatialmath"
	rutils "go.viam.com/awareness/utils"
)

// fakeIntrinsics describe a 4:3 phone camera image at the default image resolution.
var fakeIntrinsics = &transform.PinholeCameraIntrinsics{
	Width:  defaultImageWidth,
	Height: defaultImageHeight,
	Fx:     1450.5,
	Fy:     1450.5,
	Ppx:    960,
	Ppy:    720,
}

// imageIntrinsics scales fakeIntrinsics to the configured image resolution.
func imageIntrinsics(width, height int) *transform.PinholeCameraIntrinsics {
	widthRatio := float64(width) / float64(fakeIntrinsics.Width)
	heightRatio := float64(height) / float64(fakeIntrinsics.Height)
	return &transform.PinholeCameraIntrinsics{
		Width:  width,
		Height: height,
		Fx:     fakeIntrinsics.Fx * widthRatio,
		Fy:     fakeIntrinsics.Fy * heightRatio,
		Ppx:    fakeIntrinsics.Ppx * widthRatio,
		Ppy:    fakeIntrinsics.Ppy * heightRatio,
	}
}

// Producer publishes a depth and a semantic buffer per frame, either on demand with Step or at
// the configured rate after Start.
type Producer struct {
	cfg        Config
	logger     logging.Logger
	clock      clock.Clock
	image      *transform.PinholeCameraIntrinsics
	intrinsics *transform.PinholeCameraIntrinsics
	channels   awareness.ChannelTable
	epoch      time.Time

	depth     awareness.Broadcaster[float32]
	semantics awareness.Broadcaster[uint32]
	frames    atomic.Int64

	mu                      sync.Mutex
	started                 bool
	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewProducer returns a stopped producer. A nil clock uses the wall clock.
func NewProducer(cfg Config, clk clock.Clock, logger logging.Logger) (*Producer, error) {
	if _, err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	imageWidth, imageHeight := cfg.imageSize()
	width, height := cfg.size()
	img := imageIntrinsics(imageWidth, imageHeight)

	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	return &Producer{
		cfg:        cfg,
		logger:     logger,
		clock:      clk,
		image:      img,
		intrinsics: img.Rescale(width, height),
		channels:   awareness.NewChannelTable(cfg.channels()...),
		epoch:      clk.Now(),
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}, nil
}

// Depth returns the source of depth buffers.
func (p *Producer) Depth() awareness.BufferSource[float32] {
	return &p.depth
}

// Semantics returns the source of semantic buffers.
func (p *Producer) Semantics() awareness.BufferSource[uint32] {
	return &p.semantics
}

// Intrinsics returns the intrinsics of the produced buffers.
func (p *Producer) Intrinsics() *transform.PinholeCameraIntrinsics {
	return p.intrinsics
}

// Frames returns the number of frames published.
func (p *Producer) Frames() int64 {
	return p.frames.Load()
}

// Interval returns the time between frames at the configured rate.
func (p *Producer) Interval() time.Duration {
	return time.Duration(float64(time.Second) / p.cfg.fps())
}

// Elapsed returns the time since the producer was created, by its clock.
func (p *Producer) Elapsed() time.Duration {
	return p.clock.Since(p.epoch)
}

// Start publishes a frame every 1/fps seconds until Close. Starting twice is a no-op.
func (p *Producer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	interval := p.Interval()
	ticker := p.clock.Ticker(interval)
	p.logger.Debugw("starting fake producer", "interval", interval.String())

	p.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer p.activeBackgroundWorkers.Done()
		defer ticker.Stop()
		for {
			select {
			case <-p.cancelCtx.Done():
				return
			case <-ticker.C:
				p.Step()
			}
		}
	})
}

// Close stops the frame loop and waits for it to exit.
func (p *Producer) Close() error {
	p.cancelFunc()
	p.activeBackgroundWorkers.Wait()
	return nil
}

// Step renders and publishes one frame at the current clock time.
func (p *Producer) Step() {
	pose, sensorView := p.PoseAt(p.Elapsed())
	depth := p.RenderDepth(sensorView, pose)
	semantics := p.RenderSemantics(sensorView, pose)
	p.depth.Publish(depth, pose)
	p.semantics.Publish(semantics, pose)
	n := p.frames.Inc()
	p.logger.Debugw("published frame", "frame", n)
}

// PoseAt returns the camera pose after elapsed time, as delivered to consumers, along with the
// view matrix of the sensor itself before rotating it with the UI. The camera stands
// EyeHeight above the floor and turns about the world up axis at YawRate.
func (p *Producer) PoseAt(elapsed time.Duration) (awareness.CameraPose, spatialmath.Matrix4) {
	yaw := rutils.DegToRad(p.cfg.YawRate) * elapsed.Seconds()
	world := spatialmath.NewPoseMatrix4(
		r3.Vector{Y: p.cfg.eyeHeight()},
		(&spatialmath.R4AA{Theta: yaw, RY: 1}).ToQuat(),
	)
	sensorView, _ := world.Inverse()

	viewport := p.cfg.viewport()
	width, height := p.intrinsics.Width, p.intrinsics.Height
	bufferOrientation := screen.FromSize(float64(width), float64(height))
	uiRotation := spatialmath.NewRotationZMatrix4(-screen.Angle(bufferOrientation, viewport.Orientation))
	view := uiRotation.Mul(sensorView)

	sensorWidth, sensorHeight := viewport.Width, viewport.Height
	if viewport.Orientation.IsLandscape() != bufferOrientation.IsLandscape() {
		sensorWidth, sensorHeight = sensorHeight, sensorWidth
	}
	viewportIntrinsics := awareness.RotateIntrinsics(p.image.Rescale(sensorWidth, sensorHeight), viewport.Orientation)
	projection := spatialmath.NewPerspectiveMatrix4(
		viewportIntrinsics.FieldOfViewY(),
		float64(viewport.Width)/float64(viewport.Height),
		float64(p.cfg.near()),
		float64(p.cfg.far()),
	)
	return awareness.NewCameraPoseFromView(view, projection, viewportIntrinsics, viewport), sensorView
}

// hit is what the ray through one buffer pixel sees.
type hit struct {
	depth  float32
	ground bool
}

// trace casts the ray through every buffer pixel from the sensor pose.
func (p *Producer) trace(sensorView spatialmath.Matrix4, visit func(x, y int, h hit)) {
	cameraToWorld, _ := transform.ConvertViewToGraphics(sensorView).Inverse()
	origin := cameraToWorld.MultiplyPoint(r3.Vector{})
	near, far := p.cfg.near(), p.cfg.far()
	backdrop := rutils.Clamp(p.cfg.backdrop(), near, far)
	in := p.intrinsics

	rutils.ParallelForEachRow(in.Height, func(y int) {
		for x := 0; x < in.Width; x++ {
			ray := in.PixelToPoint(float64(x)+0.5, float64(y)+0.5, 1)
			direction := cameraToWorld.MultiplyPoint(ray).Sub(origin)
			h := hit{depth: backdrop}
			if direction.Y < 0 {
				// The ray has unit forward length, so the floor parameter is the perpendicular depth.
				if t := float32(-origin.Y / direction.Y); t <= far {
					h = hit{depth: rutils.Clamp(t, near, far), ground: true}
				}
			}
			visit(x, y, h)
		}
	})
}

// RenderDepth renders the depth buffer seen from sensorView. The buffer carries the producer
// view of pose.
func (p *Producer) RenderDepth(sensorView spatialmath.Matrix4, pose awareness.CameraPose) *awareness.DepthBuffer {
	in := p.intrinsics
	samples := make([]float32, in.Width*in.Height)
	p.trace(sensorView, func(x, y int, h hit) {
		samples[y*in.Width+x] = h.depth
	})
	buf, err := awareness.NewDepthBuffer(
		in.Width, in.Height, samples, pose.ProducerView(), in, p.cfg.near(), p.cfg.far())
	if err != nil {
		panic(err)
	}
	return buf
}

// RenderSemantics renders the semantic buffer seen from sensorView: "ground" where rays hit the
// floor and "sky" elsewhere, for whichever of those channels are configured.
func (p *Producer) RenderSemantics(sensorView spatialmath.Matrix4, pose awareness.CameraPose) *awareness.SemanticBuffer {
	in := p.intrinsics
	ground, sky := p.channels.MaskForName("ground"), p.channels.MaskForName("sky")
	samples := make([]uint32, in.Width*in.Height)
	p.trace(sensorView, func(x, y int, h hit) {
		if h.ground {
			samples[y*in.Width+x] = ground
		} else {
			samples[y*in.Width+x] = sky
		}
	})
	buf, err := awareness.NewSemanticBuffer(
		in.Width, in.Height, samples, pose.ProducerView(), in, p.channels.Names())
	if err != nil {
		panic(err)
	}
	return buf
}
