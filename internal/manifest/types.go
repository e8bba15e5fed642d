package manifest

// FileName is the manifest written at the root of the output directory.
const FileName = "webpthumb.manifest.json"

// Manifest is the top-level output of a webpthumb build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Backend     string           `json:"backend"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers  int     `json:"workers"`
	Backend  string  `json:"backend"` // WebP encoder that produced the thumbnails
	Quality  float32 `json:"quality"`
	Lossless bool    `json:"lossless,omitempty"`
}

// Asset describes a single source image and its thumbnails.
type Asset struct {
	Original    OriginalInfo `json:"original"`
	AspectRatio float64      `json:"aspect_ratio"`        // width / height
	AvgColor    *[3]uint8    `json:"avg_color,omitempty"` // [R,G,B] 0-255
	Thumbnails  []Thumbnail  `json:"thumbnails"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Thumbnail is one WebP rendition of an asset.
type Thumbnail struct {
	Box    int    `json:"box"` // bounding square it was fitted into
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalThumbnails  int   `json:"total_thumbnails"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // thumbnails not smaller than the source
	SkippedAssets    int   `json:"skipped_assets,omitempty"`  // sources left out because every thumbnail was skipped
	Failed           int   `json:"failed,omitempty"`          // sources that could not be processed
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
