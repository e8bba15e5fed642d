package webp

import (
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// cwebpBackend shells out to the cwebp tool shipped with libwebp.
// Install: brew install webp / apt install webp
type cwebpBackend struct {
	once      sync.Once
	available bool
	path      string
}

func (b *cwebpBackend) Name() string { return "cwebp" }
func (b *cwebpBackend) Lossy() bool  { return true }

func (b *cwebpBackend) Available() bool {
	b.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			b.available = true
			b.path = path
		}
	})
	return b.available
}

func (b *cwebpBackend) Encode(px Pixels, quality float32, lossless bool) (*Buffer, error) {
	if !b.Available() {
		return nil, fmt.Errorf("%w: cwebp not found in PATH", ErrEncodeFailed)
	}

	// cwebp reads files, so stage the pixels as PNG, which keeps them exact.
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("webpthumb_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	if err := png.Encode(srcFile, px.NRGBA()); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	dstFile, err := os.CreateTemp("", fmt.Sprintf("webpthumb_dst_%d_*.webp", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	args := []string{"-quiet", "-exact"}
	if lossless {
		args = append(args, "-lossless")
	} else {
		args = append(args, "-q", strconv.FormatFloat(float64(quality), 'f', -1, 32))
	}
	args = append(args, srcPath, "-o", dstPath)

	cmd := exec.Command(b.path, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	data, err := os.ReadFile(dstPath)
	if err != nil {
		return nil, fmt.Errorf("read cwebp output: %w", err)
	}
	return newBuffer(data, nil), nil
}
