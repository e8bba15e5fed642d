//go:build !cgo

package webp

import "fmt"

type chai2010Backend struct{}

func (b *chai2010Backend) Name() string    { return "chai2010" }
func (b *chai2010Backend) Available() bool { return false }
func (b *chai2010Backend) Lossy() bool     { return true }

func (b *chai2010Backend) Encode(Pixels, float32, bool) (*Buffer, error) {
	return nil, fmt.Errorf("%w: chai2010 backend requires cgo (build with CGO_ENABLED=1)", ErrEncodeFailed)
}
