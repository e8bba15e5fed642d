// Package thumbnail downsizes images and encodes them as WebP.
package thumbnail

import (
	"fmt"
	"image"

	"github.com/AnyUserName/webpthumb/internal/webp"
	"github.com/disintegration/imaging"
)

// Thumb is one encoded thumbnail.
type Thumb struct {
	Data   []byte
	Width  int
	Height int
}

// Fit scales img down to fit inside maxW×maxH keeping its aspect ratio.
// Images that already fit are returned unchanged; nothing is upscaled.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

// Make fits img into a box×box square and encodes the result.
func Make(img image.Image, box int, opts webp.Options) (Thumb, error) {
	if box <= 0 {
		return Thumb{}, fmt.Errorf("invalid thumbnail box %d", box)
	}

	scaled := Fit(img, box, box)
	data, err := webp.EncodeImage(scaled, opts)
	if err != nil {
		return Thumb{}, fmt.Errorf("encode %dpx thumbnail: %w", box, err)
	}

	b := scaled.Bounds()
	return Thumb{Data: data, Width: b.Dx(), Height: b.Dy()}, nil
}

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA:
		return !m.Opaque()
	case *image.RGBA:
		return !m.Opaque()
	case *image.YCbCr, *image.Gray, *image.CMYK:
		return false
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// AvgColor returns the mean RGB colour of img.
func AvgColor(img image.Image) [3]uint8 {
	b := img.Bounds()
	count := uint64(b.Dx()) * uint64(b.Dy())
	if count == 0 {
		return [3]uint8{0, 0, 0}
	}
	var rSum, gSum, bSum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(bl >> 8)
		}
	}
	return [3]uint8{
		uint8(rSum / count),
		uint8(gSum / count),
		uint8(bSum / count),
	}
}
