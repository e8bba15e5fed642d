package webp

import (
	"bytes"

	"github.com/HugoSmits86/nativewebp"
)

// nativeBackend is a pure-Go VP8L encoder. It always produces lossless output
// and ignores quality.
type nativeBackend struct{}

func (b *nativeBackend) Name() string    { return "native" }
func (b *nativeBackend) Available() bool { return true }
func (b *nativeBackend) Lossy() bool     { return false }

func (b *nativeBackend) Encode(px Pixels, _ float32, _ bool) (*Buffer, error) {
	var buf bytes.Buffer
	buf.Grow(px.Width * px.Height)

	if err := nativewebp.Encode(&buf, px.NRGBA(), nil); err != nil {
		return nil, err
	}
	return newBuffer(buf.Bytes(), nil), nil
}
