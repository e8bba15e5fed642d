package webp

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Pixels describes a caller-owned, non-premultiplied RGBA buffer.
// Row y starts at Pix[y*Stride]; each row holds Width*4 meaningful bytes.
type Pixels struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// FromImage returns a pixel view of img. An *image.NRGBA is used in place,
// subimages included; every other image type is converted into a freshly
// allocated, tightly packed NRGBA buffer.
func FromImage(img image.Image) Pixels {
	b := img.Bounds()
	if m, ok := img.(*image.NRGBA); ok {
		return Pixels{Pix: m.Pix, Width: b.Dx(), Height: b.Dy(), Stride: m.Stride}
	}
	m := imaging.Clone(img)
	return Pixels{Pix: m.Pix, Width: b.Dx(), Height: b.Dy(), Stride: m.Stride}
}

// NRGBA wraps the buffer as an image without copying.
func (p Pixels) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Stride,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// Packed returns p with rows stored back to back (Stride == Width*4). p is
// returned as is when it is already packed; otherwise the rows are copied.
func (p Pixels) Packed() Pixels {
	row := p.Width * 4
	if p.Stride == row {
		return p
	}
	pix := make([]byte, row*p.Height)
	for y := 0; y < p.Height; y++ {
		copy(pix[y*row:(y+1)*row], p.Pix[y*p.Stride:y*p.Stride+row])
	}
	return Pixels{Pix: pix, Width: p.Width, Height: p.Height, Stride: row}
}

// minLen is the smallest buffer that covers every row. The last row does not
// need trailing padding.
func (p Pixels) minLen() int {
	return p.Stride*(p.Height-1) + p.Width*4
}

func (p Pixels) validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrEncodeFailed, p.Width, p.Height)
	case p.Width > MaxDimension || p.Height > MaxDimension:
		return fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrEncodeFailed, p.Width, p.Height, MaxDimension)
	case p.Stride < p.Width*4:
		return fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrEncodeFailed, p.Stride, p.Width)
	case p.Height > 1 && p.Stride > (math.MaxInt-p.Width*4)/(p.Height-1):
		return fmt.Errorf("%w: stride %d too large for %d rows", ErrEncodeFailed, p.Stride, p.Height)
	case len(p.Pix) < p.minLen():
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrEncodeFailed, len(p.Pix), p.minLen())
	}
	return nil
}
