package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/awareness/pointcloud"
	"go.viam.com/awareness/rimage"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"awareness"}, args...))
	return out.String(), errOut.String(), err
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	img, err := rimage.ReadImageFromFile(path)
	test.That(t, err, test.ShouldBeNil)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestParseResolution(t *testing.T) {
	w, h, err := parseResolution("1080x1920")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w, test.ShouldEqual, 1080)
	test.That(t, h, test.ShouldEqual, 1920)

	w, h, err = parseResolution(" 256 X 144 ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w, test.ShouldEqual, 256)
	test.That(t, h, test.ShouldEqual, 144)

	for _, bad := range []string{"", "1080", "1080x", "ax2", "0x10", "10x-1", "1x2x3"} {
		_, _, err = parseResolution(bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestPreviewProcessor(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runApp(t, "preview", "--out", dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, filepath.Join(dir, "depth.png"))
	test.That(t, out, test.ShouldContainSubstring, filepath.Join(dir, "semantic.png"))

	w, h := imageSize(t, filepath.Join(dir, "depth.png"))
	test.That(t, w, test.ShouldEqual, 256)
	test.That(t, h, test.ShouldEqual, 144)
	w, h = imageSize(t, filepath.Join(dir, "semantic.png"))
	test.That(t, w, test.ShouldEqual, 256)
	test.That(t, h, test.ShouldEqual, 144)
}

func TestPreviewBuffer(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runApp(t, "preview",
		"--source", "buffer",
		"--kind", "depth",
		"--viewport", "1080x1920",
		"--orientation", "portrait",
		"--scale", "2",
		"--format", "webp",
		"--out", dir,
	)
	test.That(t, err, test.ShouldBeNil)
	w, h := imageSize(t, filepath.Join(dir, "depth.webp"))
	test.That(t, w, test.ShouldEqual, 288)
	test.That(t, h, test.ShouldEqual, 512)

	_, err = os.Stat(filepath.Join(dir, "semantic.webp"))
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestPreviewBufferCropsSemantics(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runApp(t, "preview",
		"--source", "buffer",
		"--kind", "semantic",
		"--viewport", "200x100",
		"--channel", "ground",
		"--frames", "3",
		"--latency", "100ms",
		"--out", dir,
	)
	test.That(t, err, test.ShouldBeNil)
	w, h := imageSize(t, filepath.Join(dir, "semantic.png"))
	test.That(t, w, test.ShouldEqual, 256)
	test.That(t, h, test.ShouldEqual, 128)

	img, err := rimage.ReadImageFromFile(filepath.Join(dir, "semantic.png"))
	test.That(t, err, test.ShouldBeNil)
	// Only the ground, in the lower half, is painted.
	_, _, _, topAlpha := img.At(128, 5).RGBA()
	_, _, _, bottomAlpha := img.At(128, 120).RGBA()
	test.That(t, topAlpha, test.ShouldEqual, 0)
	test.That(t, bottomAlpha, test.ShouldBeGreaterThan, 0)
}

func TestPreviewErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runApp(t, "preview", "--kind", "thermal", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--kind")

	_, _, err = runApp(t, "preview", "--format", "bmp", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--format")

	_, _, err = runApp(t, "preview", "--orientation", "portrait", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--viewport")

	_, _, err = runApp(t, "preview", "--kind", "semantic", "--channel", "water", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown channel "water"`)

	_, _, err = runApp(t, "preview", "--frames", "0", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)

	_, errOut, err := runApp(t, "preview", "--kind", "depth", "--disparity", "--out", dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "Warning")
}

func TestPreviewWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "awareness.json5")
	test.That(t, os.WriteFile(path, []byte(`{
		// a small sensor with a single channel
		producer: {width: 64, height: 48, channels: ["floor"]},
		depth: {filter: "bilinear"},
	}`), 0o600), test.ShouldBeNil)

	_, _, err := runApp(t, "--config", path, "preview", "--kind", "depth", "--out", dir)
	test.That(t, err, test.ShouldBeNil)
	w, h := imageSize(t, filepath.Join(dir, "depth.png"))
	test.That(t, w, test.ShouldEqual, 64)
	test.That(t, h, test.ShouldEqual, 48)

	test.That(t, os.WriteFile(path, []byte(`{depth: {filter: "cubic"}}`), 0o600), test.ShouldBeNil)
	_, _, err = runApp(t, "--config", path, "preview", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cubic")
}

func TestQuery(t *testing.T) {
	out, _, err := runApp(t, "query", "--x", "128", "--y", "130")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "viewport")
	test.That(t, out, test.ShouldContainSubstring, "256x144 landscape_left")
	test.That(t, out, test.ShouldContainSubstring, "ground")
	test.That(t, out, test.ShouldNotContainSubstring, "sky")

	out, _, err = runApp(t, "query", "--x", "128", "--y", "5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "sky")
	test.That(t, out, test.ShouldNotContainSubstring, "ground")

	_, _, err = runApp(t, "query", "--x", "300", "--y", "5")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "outside")

	_, _, err = runApp(t, "query", "--x", "1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestStats(t *testing.T) {
	plotPath := filepath.Join(t.TempDir(), "depth.png")
	out, _, err := runApp(t, "stats", "--bins", "8", "--width", "20", "--plot", plotPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote "+plotPath)
	_, err = os.Stat(plotPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "256x144")
	test.That(t, out, test.ShouldContainSubstring, "median")
	test.That(t, out, test.ShouldContainSubstring, "modes")

	_, _, err = runApp(t, "stats", "--frames", "0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchema(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, `"$schema"`)
	test.That(t, out, test.ShouldContainSubstring, `"producer"`)
	test.That(t, out, test.ShouldContainSubstring, `"semantic"`)
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "awareness.log")
	_, _, err := runApp(t, "--debug", "--log-file", logPath, "preview", "--kind", "depth", "--out", dir)
	test.That(t, err, test.ShouldBeNil)

	contents, err := os.ReadFile(logPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "previews rendered")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "awareness.json5")
	test.That(t, os.WriteFile(path, []byte(`{producer: {width: 64, height: 48}}`), 0o600), test.ShouldBeNil)

	_, _, err := runApp(t, "watch", "--out", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--config")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out, errOut bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- NewApp(&out, &errOut).RunContext(ctx,
			[]string{"awareness", "--config", path, "watch", "--kind", "depth", "--out", dir})
	}()

	depthPath := filepath.Join(dir, "depth.png")
	waitForWidth := func(width int) bool {
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			if img, err := rimage.ReadImageFromFile(depthPath); err == nil && img.Bounds().Dx() == width {
				return true
			}
			time.Sleep(50 * time.Millisecond)
		}
		return false
	}
	test.That(t, waitForWidth(64), test.ShouldBeTrue)

	test.That(t, os.WriteFile(path, []byte(`{producer: {width: 80, height: 60}}`), 0o600), test.ShouldBeNil)
	test.That(t, waitForWidth(80), test.ShouldBeTrue)

	cancel()
	select {
	case err := <-done:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestCloud(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clouds", "awareness.pcd")
	out, _, err := runApp(t, "cloud", "--out", path, "--stride", "4", "--binary")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, path)
	test.That(t, out, test.ShouldContainSubstring, "points")

	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	cloud, err := pointcloud.ReadPCD(f)
	test.That(t, err, test.ShouldBeNil)
	// At most one point per sampled pixel of the 256x144 viewport.
	test.That(t, cloud.Size(), test.ShouldBeGreaterThan, 0)
	test.That(t, cloud.Size(), test.ShouldBeLessThanOrEqualTo, 64*36)
	test.That(t, cloud.MetaData().HasColor, test.ShouldBeTrue)
}
