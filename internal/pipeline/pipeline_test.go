package pipeline

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/webpthumb/internal/manifest"
	"github.com/AnyUserName/webpthumb/internal/profile"
)

func writePNG(t *testing.T, path string, w, h int, alpha uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: alpha,
			})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4, 255)
	writePNG(t, filepath.Join(dir, "cards", "a.PNG"), 4, 4, 255)
	writePNG(t, filepath.Join(dir, ".cache", "hidden.png"), 4, 4, 255)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var keys []string
	for _, s := range sources {
		keys = append(keys, s.Key+":"+s.Format)
	}
	if got := strings.Join(keys, ","); got != "b:png,cards/a:png,photo:jpeg" {
		t.Errorf("got %s", got)
	}
	if sources[1].RelPath != "cards/a.PNG" || sources[1].Size == 0 {
		t.Errorf("source: got %+v", sources[1])
	}
}

func TestPipeline_Run(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(in, "banner.png"), 400, 225, 255)
	writePNG(t, filepath.Join(in, "cards", "card.png"), 200, 150, 255)
	writePNG(t, filepath.Join(in, "logo.png"), 100, 100, 128)

	p, err := New(Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   profile.Get("meguca"),
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	m, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if m.Stats.TotalAssets != 3 {
		t.Fatalf("assets: got %d", m.Stats.TotalAssets)
	}
	if m.BuildInfo == nil || m.BuildInfo.Backend == "" || m.BuildInfo.Workers != 2 {
		t.Errorf("build_info: got %+v", m.BuildInfo)
	}
	if m.BuildInfo != nil && m.Backend != m.BuildInfo.Backend {
		t.Errorf("backend: got %q, build_info says %q", m.Backend, m.BuildInfo.Backend)
	}

	banner := m.Assets["banner"]
	if len(banner.Thumbnails) != 2 {
		t.Fatalf("banner thumbnails: got %+v", banner.Thumbnails)
	}
	if th := banner.Thumbnails[0]; th.Box != 150 || th.Width != 150 || th.Height != 84 {
		t.Errorf("banner 150: got %+v", th)
	}
	if th := banner.Thumbnails[1]; th.Box != 300 || th.Width != 300 || th.Height != 168 {
		t.Errorf("banner 300: got %+v", th)
	}

	card := m.Assets["cards/card"]
	if len(card.Thumbnails) != 1 || !strings.HasPrefix(card.Thumbnails[0].Path, "cards/card.150.112.") {
		t.Errorf("card thumbnails: got %+v", card.Thumbnails)
	}

	logo := m.Assets["logo"]
	if !logo.Original.HasAlpha {
		t.Error("logo should have alpha")
	}
	if len(logo.Thumbnails) != 1 || logo.Thumbnails[0].Width != 100 {
		t.Errorf("logo thumbnails: got %+v", logo.Thumbnails)
	}

	m.ComputeStats()
	if errs := m.Validate(out); len(errs) != 0 {
		t.Errorf("validate: %v", errs)
	}
}

func TestPipeline_PartialFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(in, "ok.png"), 64, 64, 255)
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := New(Config{InputDir: in, OutputDir: out, Profile: profile.Get("minimal")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.Stats.TotalAssets != 1 || m.Stats.Failed != 1 {
		t.Errorf("stats: got %+v", m.Stats)
	}
}

func TestPipeline_AllFail(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Profile: profile.Get("minimal")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := p.Run(); err == nil || !strings.Contains(err.Error(), "all 1 images failed") {
		t.Errorf("got %v", err)
	}
}

func TestPipeline_Empty(t *testing.T) {
	p, err := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir(), Profile: profile.Get("minimal")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := p.Run(); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestProcessImage_NoRegressSize(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "photo.png")
	writePNG(t, src, 300, 200, 255)

	p, err := New(Config{InputDir: in, OutputDir: out, Profile: profile.Get("meguca"), NoRegressSize: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Pretend the source is one byte so every thumbnail is a regression.
	res := p.processImage(Source{AbsPath: src, RelPath: "photo.png", Key: "photo", Format: "png", Size: 1})
	if res.err != nil {
		t.Fatalf("process: %v", res.err)
	}
	if res.skippedRegress != 2 || len(res.asset.Thumbnails) != 0 {
		t.Errorf("got skipped=%d thumbnails=%+v", res.skippedRegress, res.asset.Thumbnails)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("skipped thumbnails were written: %v", entries)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Config{Profile: profile.Get("minimal"), Backend: "nope"})
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestPipeline_SkippedSourceValidates(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(in, "banner.png"), 400, 225, 255)

	// A 1x1 GIF is a few dozen bytes; no WebP of it is smaller.
	f, err := os.Create(filepath.Join(in, "dot.gif"))
	if err != nil {
		t.Fatal(err)
	}
	dot := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black})
	if err := gif.Encode(f, dot, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	p, err := New(Config{InputDir: in, OutputDir: out, Profile: profile.Get("meguca"), NoRegressSize: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := m.Assets["dot"]; ok {
		t.Errorf("fully skipped source recorded: %+v", m.Assets["dot"])
	}
	if m.Stats.TotalAssets != 1 || m.Stats.SkippedAssets != 1 || m.Stats.SkippedRegress == 0 {
		t.Errorf("stats: got %+v", m.Stats)
	}

	path := filepath.Join(out, manifest.FileName)
	if err := manifest.WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, _, err := manifest.ReadJSON(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if errs := got.Validate(out); len(errs) != 0 {
		t.Errorf("validate: %v", errs)
	}
	if got.Stats.SkippedAssets != 1 {
		t.Errorf("skipped_assets lost in round trip: %+v", got.Stats)
	}
}
