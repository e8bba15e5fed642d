package webp

import (
	"fmt"
	"strings"
	"sync"
)

// Backend is an external WebP encoder.
type Backend interface {
	// Name returns the registry key (e.g. "libwebp", "gen2brain").
	Name() string

	// Available returns true if the backend is compiled in and usable.
	Available() bool

	// Lossy reports whether the backend honours quality-driven lossy
	// encoding. Lossless-only encoders return false.
	Lossy() bool

	// Encode compresses px. px has already been validated.
	Encode(px Pixels, quality float32, lossless bool) (*Buffer, error)
}

// priority is the order in which backends are preferred.
var priority = []string{"libwebp", "chai2010", "gen2brain", "cwebp", "native"}

// Registry holds all compiled-in backends and selects one per encode.
type Registry struct {
	all      []Backend
	backends map[string]Backend
}

// NewRegistry creates a registry, probing all backends for availability.
func NewRegistry() *Registry {
	return newRegistry(
		&libwebpBackend{},
		&chai2010Backend{},
		&gen2brainBackend{},
		&cwebpBackend{},
		&nativeBackend{},
	)
}

func newRegistry(all ...Backend) *Registry {
	r := &Registry{
		all:      all,
		backends: make(map[string]Backend),
	}
	for _, b := range all {
		if b.Available() {
			r.backends[b.Name()] = b
		}
	}
	return r
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// Backends returns the process-wide registry used by EncodeRGBA and friends.
func Backends() *Registry {
	return defaultRegistry()
}

// Get returns an available backend by name, or nil.
func (r *Registry) Get(name string) Backend {
	return r.backends[strings.ToLower(name)]
}

// Available returns the names of usable backends in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, name := range priority {
		if _, ok := r.backends[name]; ok {
			result = append(result, name)
		}
	}
	return result
}

// Default returns the highest priority backend able to serve the request,
// or nil if none is available.
func (r *Registry) Default(lossless bool) Backend {
	for _, name := range priority {
		b, ok := r.backends[name]
		if !ok {
			continue
		}
		if lossless || b.Lossy() {
			return b
		}
	}
	return nil
}

// Resolve picks the backend for opts. Failures wrap ErrEncodeFailed.
func (r *Registry) Resolve(opts Options) (Backend, error) {
	if opts.Backend == "" {
		b := r.Default(opts.Lossless)
		if b == nil {
			return nil, fmt.Errorf("%w: no backend available (%s)", ErrEncodeFailed, r)
		}
		return b, nil
	}

	b := r.Get(opts.Backend)
	if b == nil {
		return nil, fmt.Errorf("%w: backend %q not available (%s)", ErrEncodeFailed, opts.Backend, r)
	}
	if !opts.Lossless && !b.Lossy() {
		return nil, fmt.Errorf("%w: backend %q only supports lossless encoding", ErrEncodeFailed, b.Name())
	}
	return b, nil
}

// Status describes one compiled-in backend.
type Status struct {
	Name      string
	Available bool
	Lossy     bool
}

// Probe reports every backend the registry knows about, usable or not.
func (r *Registry) Probe() []Status {
	out := make([]Status, 0, len(r.all))
	for _, b := range r.all {
		_, ok := r.backends[b.Name()]
		out = append(out, Status{Name: b.Name(), Available: ok, Lossy: b.Lossy()})
	}
	return out
}

// String returns a summary of available backends.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no backends available"
	}
	return fmt.Sprintf("backends: %s", strings.Join(avail, ", "))
}
