//go:build cgo && libwebp

package webp

/*
#cgo LDFLAGS: -lwebp
#include <stdlib.h>
#include <webp/decode.h>
#include <webp/encode.h>

// encode_rgba runs a single libwebp encode and reports whether an output
// buffer was produced. Lossless output keeps the RGB values of fully
// transparent pixels (config.exact), matching cwebp -exact.
static int encode_rgba(const uint8_t* rgba, int width, int height, int stride,
                       float quality, int lossless,
                       uint8_t** output, size_t* output_size) {
	WebPConfig config;
	WebPPicture pic;
	WebPMemoryWriter writer;
	int ok;

	*output = NULL;
	*output_size = 0;
	if (!lossless) {
		*output_size = WebPEncodeRGBA(rgba, width, height, stride, quality, output);
		return *output != NULL;
	}

	if (!WebPConfigInit(&config) || !WebPPictureInit(&pic)) {
		return 0;
	}
	config.lossless = 1;
	config.exact = 1;
	config.quality = 70;
	pic.use_argb = 1;
	pic.width = width;
	pic.height = height;
	if (!WebPPictureImportRGBA(&pic, rgba, stride)) {
		WebPPictureFree(&pic);
		return 0;
	}

	WebPMemoryWriterInit(&writer);
	pic.writer = WebPMemoryWrite;
	pic.custom_ptr = &writer;
	ok = WebPEncode(&config, &pic);
	WebPPictureFree(&pic);
	if (!ok) {
		WebPMemoryWriterClear(&writer);
		return 0;
	}
	*output = writer.mem;
	*output_size = writer.size;
	return *output != NULL;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// libwebpBackend calls the system libwebp directly.
// Build with: go build -tags libwebp (needs libwebp-dev / brew install webp).
type libwebpBackend struct{}

func (b *libwebpBackend) Name() string    { return "libwebp" }
func (b *libwebpBackend) Available() bool { return true }
func (b *libwebpBackend) Lossy() bool     { return true }

func (b *libwebpBackend) Encode(px Pixels, quality float32, lossless bool) (*Buffer, error) {
	var (
		output     *C.uint8_t
		outputSize C.size_t
		mode       C.int
	)
	if lossless {
		mode = 1
	}

	ok := C.encode_rgba(
		(*C.uint8_t)(unsafe.Pointer(&px.Pix[0])),
		C.int(px.Width),
		C.int(px.Height),
		C.int(px.Stride),
		C.float(quality),
		mode,
		&output,
		&outputSize,
	)
	if ok == 0 || output == nil {
		return nil, fmt.Errorf("%w: libwebp returned no buffer", ErrEncodeFailed)
	}

	ptr := unsafe.Pointer(output)
	data := unsafe.Slice((*byte)(ptr), int(outputSize))
	return newBuffer(data, func() { C.WebPFree(ptr) }), nil
}
