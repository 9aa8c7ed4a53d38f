package rimage

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"go.viam.com/utils"
	"golang.org/x/image/tiff"

	// register the webp decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// ImageFormats lists the file extensions WriteImageToFile can encode, without the dot.
var ImageFormats = []string{"png", "jpg", "jpeg", "webp", "tif", "tiff", "ppm", "qoi"}

// ErrUnsupportedImageFormat is returned for file extensions that have no encoder.
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// WriteImageToFile encodes img according to the extension of path: .png, .jpg/.jpeg,
// .webp (lossless), .tif/.tiff, .ppm (alpha dropped) or .qoi. Missing parent directories are
// created.
func WriteImageToFile(path string, img image.Image) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".tif", ".tiff", ".ppm", ".qoi":
	default:
		return errors.Wrapf(ErrUnsupportedImageFormat, "%q", ext)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".ppm":
		err = ppm.Encode(f, img)
	case ".qoi":
		err = qoi.Encode(f, img)
	default:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	return f.Sync()
}

// ReadImageFromFile decodes any file WriteImageToFile writes.
func ReadImageFromFile(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}
