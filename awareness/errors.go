package awareness

import (
	"github.com/pkg/errors"
)

var (
	// ErrSizeMismatch is returned when a buffer's sample count does not equal width*height.
	ErrSizeMismatch = errors.New("sample count does not match buffer dimensions")
	// ErrFormatMismatch is returned when a texture is already allocated with a different pixel
	// format than the one requested.
	ErrFormatMismatch = errors.New("texture already allocated with a different pixel format")
)

// NewSizeMismatchError returns an ErrSizeMismatch naming the offending dimensions.
func NewSizeMismatchError(width, height, samples int) error {
	return errors.Wrapf(ErrSizeMismatch, "%dx%d buffer needs %d samples, got %d", width, height, width*height, samples)
}

// NewFormatMismatchError returns an ErrFormatMismatch naming both formats.
func NewFormatMismatchError(allocated, requested PixelFormat) error {
	return errors.Wrapf(ErrFormatMismatch, "allocated as %s, requested %s", allocated, requested)
}
