package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/webpthumb/internal/manifest"
	"github.com/AnyUserName/webpthumb/internal/profile"
	"github.com/AnyUserName/webpthumb/internal/webp"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Backend       string // empty = registry default
	Workers       int
	Verbose       bool
	NoRegressSize bool // skip thumbnails not smaller than the source file
}

// Pipeline orchestrates thumbnail generation.
type Pipeline struct {
	cfg     Config
	backend webp.Backend
}

// New creates a configured pipeline. It fails if no WebP backend can serve
// the profile.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	be, err := webp.Backends().Resolve(webp.Options{
		Backend:  cfg.Backend,
		Lossless: cfg.Profile.Lossless,
	})
	if err != nil {
		return nil, fmt.Errorf("select encoder: %w", err)
	}
	cfg.Backend = be.Name()
	return &Pipeline{cfg: cfg, backend: be}, nil
}

// Options returns the encode options used for every thumbnail.
func (p *Pipeline) Options() webp.Options {
	return webp.Options{
		Quality:  p.cfg.Profile.Quality,
		Lossless: p.cfg.Profile.Lossless,
		Backend:  p.backend.Name(),
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[webpthumb] "+format+"\n", args...)
	}
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	p.logf("%s (using %s)", webp.Backends(), p.backend.Name())

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.logf("found %d images", len(sources))

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			p.logf("processing: %s", s.Key)
			results[idx] = p.processImage(s)
			if results[idx].err == nil {
				p.logf("done: %s (%d thumbnails)", s.Key, len(results[idx].asset.Thumbnails))
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	var totalSkipped, skippedAssets int
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		totalSkipped += r.skippedRegress
		if len(r.asset.Thumbnails) == 0 {
			// Every box regressed; the original is served as is.
			p.logf("skip: %s (no thumbnail smaller than the source)", r.key)
			skippedAssets++
			continue
		}
		m.Assets[r.key] = r.asset
	}

	// Partial failures are reported; only a total failure fails the build.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[webpthumb] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[webpthumb] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.Backend = p.backend.Name()
	m.BuildInfo = &manifest.BuildInfo{
		Workers:  p.cfg.Workers,
		Backend:  p.backend.Name(),
		Quality:  p.cfg.Profile.Quality,
		Lossless: p.cfg.Profile.Lossless,
	}
	m.Stats.SkippedRegress = totalSkipped
	m.Stats.SkippedAssets = skippedAssets
	m.Stats.Failed = len(errs)
	m.ComputeStats()
	return m, nil
}
