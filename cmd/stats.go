package cmd

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/webpthumb/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built thumbnail directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	m, path, err := manifest.ReadJSON(args[0])
	if err != nil {
		return err
	}
	logVerbose("manifest: %s", path)

	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if bi := m.BuildInfo; bi != nil {
		mode := fmt.Sprintf("lossy q%.0f", bi.Quality)
		if bi.Lossless {
			mode = "lossless"
		}
		fmt.Printf("  Encoder:          %s (%s)\n", bi.Backend, mode)
		fmt.Printf("  Workers:          %d\n", bi.Workers)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Total thumbnails: %d\n", s.TotalThumbnails)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-source-format breakdown.
	formatCount := map[string]int{}
	for _, a := range m.Assets {
		formatCount[a.Original.Format]++
	}
	var formats []string
	for f := range formatCount {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Source formats:")
	for _, f := range formats {
		fmt.Printf("    %-6s  %4d files\n", f, formatCount[f])
	}
	fmt.Println()

	// Per-box breakdown.
	boxStats := map[int]struct {
		count int
		bytes int64
	}{}
	for _, a := range m.Assets {
		for _, th := range a.Thumbnails {
			bs := boxStats[th.Box]
			bs.count++
			bs.bytes += th.Size
			boxStats[th.Box] = bs
		}
	}
	var boxes []int
	for b := range boxStats {
		boxes = append(boxes, b)
	}
	sort.Ints(boxes)
	fmt.Println("  Box breakdown:")
	for _, b := range boxes {
		bs := boxStats[b]
		fmt.Printf("    %5dpx  %4d thumbnails  %s\n", b, bs.count, formatBytes(bs.bytes))
	}

	var warnings []string
	for key, a := range m.Assets {
		if len(a.Thumbnails) == 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q has no thumbnails", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
