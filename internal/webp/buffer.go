package webp

import "sync"

// Buffer is the output of a successful encode. Depending on the backend the
// bytes may live outside the Go heap, so a Buffer must be released once the
// caller is done with it, and Bytes must not be retained past Release.
type Buffer struct {
	mu       sync.Mutex
	data     []byte
	free     func()
	released bool
}

// newBuffer takes ownership of data. free, if non-nil, is invoked exactly
// once by Release.
func newBuffer(data []byte, free func()) *Buffer {
	return &Buffer{data: data, free: free}
}

// Bytes returns the encoded WebP file. It returns nil after Release.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the exact number of bytes readable through Bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Clone copies the encoded bytes onto the Go heap. The copy stays valid after
// Release.
func (b *Buffer) Clone() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Release hands the memory back to the backend that allocated it. Only the
// first call frees anything; later calls are no-ops.
func (b *Buffer) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	free := b.free
	b.data, b.free, b.released = nil, nil, true
	b.mu.Unlock()

	if free != nil {
		free()
	}
}
