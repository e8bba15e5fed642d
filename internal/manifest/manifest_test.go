package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/webpthumb/internal/hasher"
)

// fakeWebP is just enough of a RIFF header to pass the format check.
var fakeWebP = []byte("RIFF\x04\x00\x00\x00WEBP")

func sample(t *testing.T, dir string) *Manifest {
	t.Helper()
	path := "test/image.150.113." + hasher.ContentHash(fakeWebP, 8) + ".webp"
	if err := os.MkdirAll(filepath.Join(dir, "test"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, path), fakeWebP, 0o644); err != nil {
		t.Fatal(err)
	}

	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, Backend: "gen2brain", Quality: 80}
	m.Assets["test/image"] = Asset{
		Original: OriginalInfo{
			Width: 800, Height: 600,
			Format: "jpeg", Size: 100000, HasAlpha: false,
		},
		AspectRatio: 1.3333,
		Thumbnails: []Thumbnail{
			{Box: 150, Width: 150, Height: 113, Size: int64(len(fakeWebP)),
				Hash: hasher.ContentHash(fakeWebP, 16), Path: path},
		},
	}
	m.ComputeStats()
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	dir := t.TempDir()
	m := sample(t, dir)
	m.Stats.SkippedRegress = 2

	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Reading the directory finds the manifest inside it.
	m2, got, err := ReadJSON(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != path {
		t.Errorf("path: got %q, want %q", got, path)
	}

	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.Backend != "gen2brain" || m2.BuildInfo.Workers != 4 {
		t.Fatalf("build_info: got %+v", m2.BuildInfo)
	}

	a, ok := m2.Assets["test/image"]
	if !ok {
		t.Fatal("asset test/image missing")
	}
	if len(a.Thumbnails) != 1 || a.Thumbnails[0].Box != 150 {
		t.Errorf("thumbnails: got %+v", a.Thumbnails)
	}

	if m2.Stats.TotalAssets != 1 || m2.Stats.TotalThumbnails != 1 {
		t.Errorf("stats: got %+v", m2.Stats)
	}
	if m2.Stats.SkippedRegress != 2 {
		t.Errorf("skipped_regress lost by ComputeStats: got %d", m2.Stats.SkippedRegress)
	}
	if m2.Stats.TotalOutputBytes != int64(len(fakeWebP)) {
		t.Errorf("total_output_bytes: got %d", m2.Stats.TotalOutputBytes)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "backend": "libwebp", "new_flag": true },
		"assets": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_assets": 0, "total_thumbnails": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 || m.BuildInfo.Backend != "libwebp" {
		t.Error("build_info not parsed correctly")
	}
}

func TestValidate_OK(t *testing.T) {
	dir := t.TempDir()
	m := sample(t, dir)
	if errs := m.Validate(dir); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_Problems(t *testing.T) {
	dir := t.TempDir()
	m := sample(t, dir)

	a := m.Assets["test/image"]
	a.Thumbnails = append(a.Thumbnails,
		Thumbnail{Box: 100, Width: 150, Height: 100, Hash: "x", Path: "missing.webp"},
		a.Thumbnails[0],
	)
	a.Thumbnails[0].Size = 999
	m.Assets["test/image"] = a
	m.Assets["empty"] = Asset{}
	m.Version = 7

	errs := strings.Join(m.Validate(dir), "\n")
	for _, want := range []string{
		"unsupported manifest version",
		`asset "empty": no thumbnails`,
		`asset "empty": invalid original dimensions`,
		"exceeds box 100",
		"file not found: missing.webp",
		"size mismatch",
		"duplicate path",
		"stats.total_assets mismatch",
		"stats.total_thumbnails mismatch",
	} {
		if !strings.Contains(errs, want) {
			t.Errorf("missing %q in:\n%s", want, errs)
		}
	}
}

func TestValidate_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	m := sample(t, dir)
	th := m.Assets["test/image"].Thumbnails[0]
	if err := os.WriteFile(filepath.Join(dir, th.Path), []byte("GIF89a-not-webp"), 0o644); err != nil {
		t.Fatal(err)
	}

	errs := strings.Join(m.Validate(dir), "\n")
	if !strings.Contains(errs, "not a WebP file") || !strings.Contains(errs, "hash mismatch") {
		t.Errorf("got:\n%s", errs)
	}
}
