package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/webpthumb/internal/manifest"
	"github.com/AnyUserName/webpthumb/internal/pipeline"
	"github.com/AnyUserName/webpthumb/internal/profile"
	"github.com/spf13/cobra"
)

var (
	buildOutDir    string
	buildProfile   string
	buildWorkers   int
	buildBoxes     []int
	buildQuality   float32
	buildLossless  bool
	buildBackend   string
	buildNoRegress bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Generate WebP thumbnails for a directory of images + manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, gif, webp, bmp, tiff),
fits each into the profile's thumbnail boxes, encodes them as WebP and
writes a manifest file.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.webp`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./webpthumb_out", "output directory")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", profile.DefaultName, "thumbnail profile")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().IntSliceVar(&buildBoxes, "boxes", nil, "custom thumbnail boxes (overrides profile)")
	buildCmd.Flags().Float32VarP(&buildQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	buildCmd.Flags().BoolVar(&buildLossless, "lossless", false, "force lossless encoding")
	buildCmd.Flags().StringVar(&buildBackend, "backend", "", "encoder backend (default: best available)")
	buildCmd.Flags().BoolVar(&buildNoRegress, "no-regress-size", true, "skip thumbnails not smaller than the original file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile; flags win.
	prof := profile.Get(buildProfile)
	if buildBoxes != nil {
		prof.Boxes = buildBoxes
	}
	if buildQuality > 0 {
		prof.Quality = profile.ClampQuality(buildQuality)
	}
	if buildLossless {
		prof.Lossless = true
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (boxes=%v, quality=%.0f, lossless=%t)",
		prof.Name, prof.Boxes, prof.Quality, prof.Lossless)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Backend:       buildBackend,
		Workers:       buildWorkers,
		Verbose:       verbose,
		NoRegressSize: buildNoRegress,
	})
	if err != nil {
		return err
	}

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            webpthumb build complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Thumbnails:  %d\n", stats.TotalThumbnails)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d thumbnails (not smaller than original)\n", stats.SkippedRegress)
	}
	if stats.SkippedAssets > 0 {
		fmt.Printf("  Unchanged:   %d sources (no thumbnail smaller than original)\n", stats.SkippedAssets)
	}
	if stats.Failed > 0 {
		fmt.Printf("  Failed:      %d sources\n", stats.Failed)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Encoder:     %s  (%d workers)\n", m.BuildInfo.Backend, m.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 heaviest sources.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var outSum int64
			for _, th := range a.Thumbnails {
				outSum += th.Size
			}
			items = append(items, assetSize{key, a.Original.Size, outSum})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original → thumbnails):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
