// Package webp encodes raw RGBA pixels to WebP through an external
// libwebp-compatible backend.
//
// The core entry point is EncodeRGBA: it forwards a tightly packed RGBA
// buffer to the encoder and hands back a Buffer that the caller owns and must
// Release. Any failure is reported as ErrEncodeFailed; callers cannot and need
// not tell failure causes apart.
package webp

import (
	"errors"
	"fmt"
	"image"
	"io"
)

// ErrEncodeFailed is returned whenever encoding did not produce output.
var ErrEncodeFailed = errors.New("webp: encoding did not produce output")

// MaxDimension is the largest width or height a WebP image can have.
const MaxDimension = 16383

// DefaultQuality matches the quality used for imageboard thumbnails.
const DefaultQuality = 80

// Options control a single encode.
type Options struct {
	// Quality is forwarded to the backend as is. libwebp treats it as
	// 0 (smallest) to 100 (best).
	Quality float32

	// Lossless selects VP8L encoding; Quality is then ignored by most
	// backends.
	Lossless bool

	// Backend names the encoder to use. Empty picks the registry default.
	Backend string
}

// DefaultOptions returns lossy encoding at DefaultQuality on the default
// backend.
func DefaultOptions() Options {
	return Options{Quality: DefaultQuality}
}

// EncodeRGBA encodes width×height pixels stored as tightly packed RGBA
// (stride width*4) using the default backend.
//
// On success the returned Buffer holds the WebP file and must be released
// exactly once. On failure the Buffer is nil and err wraps ErrEncodeFailed.
func EncodeRGBA(pix []byte, width, height int, quality float32) (*Buffer, error) {
	return EncodeRGBAWith(pix, width, height, width*4, Options{Quality: quality})
}

// EncodeRGBAWith is EncodeRGBA with an explicit row stride and options.
func EncodeRGBAWith(pix []byte, width, height, stride int, opts Options) (*Buffer, error) {
	px := Pixels{Pix: pix, Width: width, Height: height, Stride: stride}
	if err := px.validate(); err != nil {
		return nil, err
	}

	be, err := Backends().Resolve(opts)
	if err != nil {
		return nil, err
	}

	buf, err := be.Encode(px, opts.Quality, opts.Lossless)
	if err != nil {
		if !errors.Is(err, ErrEncodeFailed) {
			err = fmt.Errorf("%w: %s: %v", ErrEncodeFailed, be.Name(), err)
		}
		return nil, err
	}
	if buf == nil || buf.Len() == 0 {
		if buf != nil {
			buf.Release()
		}
		return nil, fmt.Errorf("%w: %s returned no data", ErrEncodeFailed, be.Name())
	}
	return buf, nil
}

// EncodeImage encodes img and returns the WebP file as a Go slice. The
// backend buffer is released before returning.
func EncodeImage(img image.Image, opts Options) ([]byte, error) {
	buf, err := encodeImage(img, opts)
	if err != nil {
		return nil, err
	}
	defer buf.Release()
	return buf.Clone(), nil
}

// Encode writes img to w as WebP.
func Encode(w io.Writer, img image.Image, opts Options) error {
	buf, err := encodeImage(img, opts)
	if err != nil {
		return err
	}
	defer buf.Release()
	_, err = w.Write(buf.Bytes())
	return err
}

func encodeImage(img image.Image, opts Options) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrEncodeFailed)
	}
	px := FromImage(img)
	return EncodeRGBAWith(px.Pix, px.Width, px.Height, px.Stride, opts)
}
