package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"

	"github.com/AnyUserName/webpthumb/internal/hasher"
	"github.com/AnyUserName/webpthumb/internal/manifest"
	"github.com/AnyUserName/webpthumb/internal/thumbnail"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key            string
	asset          manifest.Asset
	err            error
	skippedRegress int // thumbnails skipped because not smaller than the source
}

// processImage handles a single source image: decode, fit, encode, write.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}

	img, err := decodeFile(src)
	if err != nil {
		result.err = err
		return result
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	if origW == 0 || origH == 0 {
		result.err = fmt.Errorf("decode %s: empty image", src.RelPath)
		return result
	}
	avg := thumbnail.AvgColor(img)

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:    origW,
			Height:   origH,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: thumbnail.HasAlpha(img),
		},
		AspectRatio: float64(origW) / float64(origH),
		AvgColor:    &avg,
	}

	keyDir := path.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(p.cfg.OutputDir, filepath.FromSlash(keyDir)), 0o755); err != nil {
			result.err = fmt.Errorf("create dir for %s: %w", src.Key, err)
			return result
		}
	}

	opts := p.Options()
	for _, box := range p.cfg.Profile.EffectiveBoxes(origW, origH) {
		th, err := thumbnail.Make(img, box, opts)
		if err != nil {
			p.logf("warn: %s@%d: %v", src.Key, box, err)
			continue
		}

		if p.cfg.NoRegressSize && int64(len(th.Data)) >= src.Size {
			p.logf("skip: %s@%d — encoded %d >= original %d bytes",
				src.Key, box, len(th.Data), src.Size)
			result.skippedRegress++
			continue
		}

		fileName := hasher.FileName(path.Base(src.Key), th.Width, th.Height, th.Data, "webp")
		relPath := path.Join(keyDir, fileName)

		outPath := filepath.Join(p.cfg.OutputDir, filepath.FromSlash(relPath))
		if err := os.WriteFile(outPath, th.Data, 0o644); err != nil {
			result.err = fmt.Errorf("write %s: %w", relPath, err)
			return result
		}

		result.asset.Thumbnails = append(result.asset.Thumbnails, manifest.Thumbnail{
			Box:    box,
			Width:  th.Width,
			Height: th.Height,
			Size:   int64(len(th.Data)),
			Hash:   hasher.ContentHash(th.Data, 16),
			Path:   relPath,
		})
	}

	if len(result.asset.Thumbnails) == 0 && result.skippedRegress == 0 {
		result.err = fmt.Errorf("%s: no thumbnail could be encoded", src.RelPath)
	}
	return result
}

func decodeFile(src Source) (image.Image, error) {
	f, err := os.Open(src.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.RelPath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.RelPath, err)
	}
	return img, nil
}
