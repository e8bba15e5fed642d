package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "webpthumb",
	Short: "WebP encoder and thumbnailer backed by libwebp",
	Long: `webpthumb — encodes RGBA pixels and ordinary images to WebP through
libwebp (linked directly, via chai2010/webp, or via gen2brain/webp) or a
pure-Go lossless encoder, and builds content-addressed WebP thumbnail
sets with a manifest.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"webpthumb %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[webpthumb] "+format+"\n", args...)
	}
}
