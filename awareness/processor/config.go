package processor

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/rimage/transform"
)

// Config tunes how processors align and sample buffers.
type Config struct {
	// Filter is "nearest" (the default) or "bilinear". Semantic processors always use nearest.
	Filter string `json:"filter,omitempty"`
	// Interpolate enables camera motion compensation. Defaults to true.
	Interpolate *bool `json:"interpolate,omitempty"`
	// BackProjectionDistance is the normalized depth, in (0, 1], of the interpolation plane.
	BackProjectionDistance float64 `json:"back_projection_distance,omitempty"`
	// InvertVertically flips the display transform for bottom-origin targets.
	InvertVertically bool `json:"invert_vertically,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if _, err := ParseFilter(cfg.Filter); err != nil {
		return nil, utils.NewConfigValidationError(path, err)
	}
	if cfg.BackProjectionDistance < 0 || cfg.BackProjectionDistance > 1 {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("back_projection_distance must be in (0, 1], got %v", cfg.BackProjectionDistance))
	}
	return nil, nil
}

// ParseFilter parses a filter name. The empty string selects nearest.
func ParseFilter(name string) (awareness.Filter, error) {
	switch name {
	case "", "nearest":
		return awareness.FilterNearest, nil
	case "bilinear":
		return awareness.FilterBilinear, nil
	default:
		return awareness.FilterNearest, errors.Errorf("unknown filter %q", name)
	}
}

func (cfg Config) filter() awareness.Filter {
	f, err := ParseFilter(cfg.Filter)
	if err != nil {
		return awareness.FilterNearest
	}
	return f
}

// InterpolationEnabled reports whether camera motion is compensated.
func (cfg Config) InterpolationEnabled() bool {
	return cfg.Interpolate == nil || *cfg.Interpolate
}

// InterpolationDistance returns the normalized depth of the interpolation plane.
func (cfg Config) InterpolationDistance() float64 {
	if cfg.BackProjectionDistance == 0 {
		return transform.DefaultBackProjectionDistance
	}
	return cfg.BackProjectionDistance
}
