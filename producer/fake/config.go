package fake

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
)

const (
	defaultWidth       = 256
	defaultHeight      = 144
	defaultImageWidth  = 1920
	defaultImageHeight = 1440
	defaultNear        = 0.2
	defaultFar         = 100
	defaultFPS         = 10
	defaultBackdrop    = 20
	defaultEyeHeight   = 1.4
)

// Config are the attributes of the fake producer.
type Config struct {
	// Width and Height are the buffer resolution, in the sensor's native landscape orientation.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// ImageWidth and ImageHeight are the resolution of the camera image the intrinsics describe.
	ImageWidth  int      `json:"image_width,omitempty"`
	ImageHeight int      `json:"image_height,omitempty"`
	Near        float32  `json:"near,omitempty"`
	Far         float32  `json:"far,omitempty"`
	FPS         float64  `json:"fps,omitempty"`
	Channels    []string `json:"channels,omitempty"`
	// Depth is the distance of the backdrop that rays missing the floor hit, in meters.
	Depth float32 `json:"depth,omitempty"`
	// EyeHeight is the height of the camera above the floor, in meters.
	EyeHeight float64 `json:"eye_height,omitempty"`
	// YawRate turns the camera about the world up axis, in degrees per second.
	YawRate float64 `json:"yaw_rate_deg,omitempty"`
	// Viewport is the surface the frames are rendered on. Defaults to the buffer resolution.
	Viewport *transform.Viewport `json:"viewport,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Width < 0 || conf.Height < 0 {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("buffer resolution must not be negative, got %dx%d", conf.Width, conf.Height))
	}
	if conf.ImageWidth < 0 || conf.ImageHeight < 0 {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("image resolution must not be negative, got %dx%d", conf.ImageWidth, conf.ImageHeight))
	}
	near, far := conf.near(), conf.far()
	if near < 0 || far <= near {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("near (%v) must be positive and less than far (%v)", near, far))
	}
	if conf.FPS < 0 {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("fps must not be negative, got %v", conf.FPS))
	}
	if len(conf.Channels) > 32 {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("at most 32 channels are supported, got %d", len(conf.Channels)))
	}
	if dups := lo.FindDuplicates(conf.Channels); len(dups) > 0 {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("duplicate channels %q", dups))
	}
	if conf.Viewport != nil && !conf.Viewport.Valid() {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "viewport.width and viewport.height")
	}
	return nil, nil
}

func (conf *Config) size() (int, int) {
	w, h := conf.Width, conf.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

func (conf *Config) imageSize() (int, int) {
	w, h := conf.ImageWidth, conf.ImageHeight
	if w == 0 {
		w = defaultImageWidth
	}
	if h == 0 {
		h = defaultImageHeight
	}
	return w, h
}

func (conf *Config) near() float32 {
	if conf.Near == 0 {
		return defaultNear
	}
	return conf.Near
}

func (conf *Config) far() float32 {
	if conf.Far == 0 {
		return defaultFar
	}
	return conf.Far
}

func (conf *Config) fps() float64 {
	if conf.FPS == 0 {
		return defaultFPS
	}
	return conf.FPS
}

func (conf *Config) channels() []string {
	if len(conf.Channels) == 0 {
		return []string{"sky", "ground"}
	}
	return conf.Channels
}

func (conf *Config) backdrop() float32 {
	if conf.Depth == 0 {
		return defaultBackdrop
	}
	return conf.Depth
}

func (conf *Config) eyeHeight() float64 {
	if conf.EyeHeight == 0 {
		return defaultEyeHeight
	}
	return conf.EyeHeight
}

func (conf *Config) viewport() transform.Viewport {
	if conf.Viewport != nil {
		return *conf.Viewport
	}
	w, h := conf.size()
	return transform.Viewport{Width: w, Height: h, Orientation: screen.FromSize(float64(w), float64(h))}
}
