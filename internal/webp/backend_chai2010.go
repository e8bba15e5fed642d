//go:build cgo

package webp

import (
	"bytes"
	"image"

	chai "github.com/chai2010/webp"
)

// chai2010Backend uses the libwebp copy bundled with github.com/chai2010/webp.
type chai2010Backend struct{}

func (b *chai2010Backend) Name() string    { return "chai2010" }
func (b *chai2010Backend) Available() bool { return true }
func (b *chai2010Backend) Lossy() bool     { return true }

func (b *chai2010Backend) Encode(px Pixels, quality float32, lossless bool) (*Buffer, error) {
	var buf bytes.Buffer
	buf.Grow(px.Width * px.Height / 2)

	// chai2010 hands *image.RGBA pixels to WebPEncodeRGBA untouched, which is
	// what non-premultiplied input needs. Any other type gets premultiplied.
	rgba := &image.RGBA{Pix: px.Pix, Stride: px.Stride, Rect: image.Rect(0, 0, px.Width, px.Height)}
	err := chai.Encode(&buf, rgba, &chai.Options{
		Lossless: lossless,
		Quality:  quality,
		Exact:    lossless,
	})
	if err != nil {
		return nil, err
	}
	return newBuffer(buf.Bytes(), nil), nil
}
