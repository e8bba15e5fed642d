//go:build ignore

// gen_fixtures creates small inputs for a manual webpthumb smoke run:
//
//	go run gen_fixtures.go /tmp/fx
//	webpthumb build /tmp/fx/images -o /tmp/fx/out -v
//	webpthumb raw /tmp/fx/red.rgba --width 2 --height 2
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	images := filepath.Join(dir, "images")
	if err := os.MkdirAll(filepath.Join(images, "posts"), 0o755); err != nil {
		panic(err)
	}

	// Wide photo-like JPEG: two thumbnails (150 and 300 retina).
	writeJPEG(filepath.Join(images, "banner.jpg"), gradient(800, 450))

	// Post images of assorted aspect ratios.
	for i, size := range [][2]int{{640, 480}, {300, 900}, {120, 90}} {
		name := fmt.Sprintf("post-%d.png", i+1)
		writePNG(filepath.Join(images, "posts", name), gradient(size[0], size[1]))
	}

	// Translucent sticker.
	writePNG(filepath.Join(images, "sticker.png"), alphaGradient(200, 200))

	// 2x2 opaque red as raw RGBA for the raw command.
	red := []byte{255, 0, 0, 255}
	var raw []byte
	for i := 0; i < 4; i++ {
		raw = append(raw, red...)
	}
	if err := os.WriteFile(filepath.Join(dir, "red.rgba"), raw, 0o644); err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 images and red.rgba in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
}
