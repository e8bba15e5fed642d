package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/webpthumb/internal/hasher"
)

// Validate checks the manifest for internal consistency and verifies that
// every thumbnail exists under baseDir with the recorded size and hash.
// It returns one message per problem found.
func (m *Manifest) Validate(baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for key, asset := range m.Assets {
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}
		if asset.AspectRatio <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid aspect ratio %.4f", key, asset.AspectRatio))
		}
		if len(asset.Thumbnails) == 0 {
			errs = append(errs, fmt.Sprintf("asset %q: no thumbnails", key))
		}

		seenPaths := map[string]bool{}
		for i, th := range asset.Thumbnails {
			if th.Width <= 0 || th.Height <= 0 {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: invalid dimensions %dx%d",
					key, i, th.Width, th.Height))
			}
			if th.Width > th.Box || th.Height > th.Box {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: %dx%d exceeds box %d",
					key, i, th.Width, th.Height, th.Box))
			}
			if th.Hash == "" {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: missing hash", key, i))
			}
			if th.Path == "" {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: missing path", key, i))
				continue
			}

			if seenPaths[th.Path] {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: duplicate path %q", key, i, th.Path))
			}
			seenPaths[th.Path] = true

			data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(th.Path)))
			if err != nil {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: file not found: %s", key, i, th.Path))
				continue
			}
			if th.Size > 0 && int64(len(data)) != th.Size {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, th.Size, len(data)))
			}
			if !bytes.HasPrefix(data, []byte("RIFF")) || len(data) < 12 || string(data[8:12]) != "WEBP" {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: not a WebP file: %s", key, i, th.Path))
			}
			if th.Hash != "" && hasher.ContentHash(data, len(th.Hash)) != th.Hash {
				errs = append(errs, fmt.Sprintf("asset %q thumbnail[%d]: hash mismatch", key, i))
			}
		}
	}

	assetCount := len(m.Assets)
	thumbCount := 0
	for _, a := range m.Assets {
		thumbCount += len(a.Thumbnails)
	}
	if m.Stats.TotalAssets != assetCount {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, assetCount))
	}
	if m.Stats.TotalThumbnails != thumbCount {
		errs = append(errs, fmt.Sprintf("stats.total_thumbnails mismatch: %d != %d", m.Stats.TotalThumbnails, thumbCount))
	}

	return errs
}
