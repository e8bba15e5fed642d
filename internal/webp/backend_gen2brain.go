package webp

import (
	"bytes"
	"image"
	"math"
	"sync"

	gen2brain "github.com/gen2brain/webp"
)

// gen2brainBackend runs libwebp through github.com/gen2brain/webp, which loads
// a shared libwebp with purego when present and otherwise falls back to an
// embedded wasm build. It needs no cgo.
type gen2brainBackend struct {
	once      sync.Once
	available bool
}

func (b *gen2brainBackend) Name() string { return "gen2brain" }
func (b *gen2brainBackend) Lossy() bool  { return true }

// Available runs one 1x1 encode to check that the runtime loads.
func (b *gen2brainBackend) Available() bool {
	b.once.Do(func() {
		probe := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		var buf bytes.Buffer
		b.available = gen2brain.Encode(&buf, probe, gen2brain.Options{Quality: DefaultQuality}) == nil &&
			buf.Len() > 0
	})
	return b.available
}

func (b *gen2brainBackend) Encode(px Pixels, quality float32, lossless bool) (*Buffer, error) {
	var buf bytes.Buffer
	buf.Grow(px.Width * px.Height / 2)

	// gen2brain reads Pix as if rows were packed and ignores Stride.
	err := gen2brain.Encode(&buf, px.Packed().NRGBA(), gen2brain.Options{
		Quality:  int(math.Round(float64(quality))),
		Lossless: lossless,
	})
	if err != nil {
		return nil, err
	}
	return newBuffer(buf.Bytes(), nil), nil
}
