//go:build !cgo || !libwebp

package webp

import "fmt"

// libwebpBackend is a placeholder when the binary is built without cgo or
// without the libwebp tag.
type libwebpBackend struct{}

func (b *libwebpBackend) Name() string    { return "libwebp" }
func (b *libwebpBackend) Available() bool { return false }
func (b *libwebpBackend) Lossy() bool     { return true }

func (b *libwebpBackend) Encode(Pixels, float32, bool) (*Buffer, error) {
	return nil, fmt.Errorf("%w: libwebp backend requires cgo and -tags libwebp", ErrEncodeFailed)
}
