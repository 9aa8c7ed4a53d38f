package processor

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/rimage/transform"
)

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	deps, err := cfg.Validate("processor")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldBeEmpty)
	test.That(t, cfg.InterpolationEnabled(), test.ShouldBeTrue)
	test.That(t, cfg.InterpolationDistance(), test.ShouldEqual, transform.DefaultBackProjectionDistance)
	test.That(t, cfg.filter(), test.ShouldEqual, awareness.FilterNearest)

	cfg = Config{Filter: "cubic"}
	_, err = cfg.Validate("processor")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "processor")
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown filter "cubic"`)

	cfg = Config{BackProjectionDistance: 1.5}
	_, err = cfg.Validate("processor")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "back_projection_distance")

	off := false
	cfg = Config{Filter: "bilinear", Interpolate: &off, BackProjectionDistance: 0.5}
	_, err = cfg.Validate("processor")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.InterpolationEnabled(), test.ShouldBeFalse)
	test.That(t, cfg.InterpolationDistance(), test.ShouldEqual, 0.5)
	test.That(t, cfg.filter(), test.ShouldEqual, awareness.FilterBilinear)
}
