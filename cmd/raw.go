package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/webpthumb/internal/profile"
	"github.com/AnyUserName/webpthumb/internal/webp"
	"github.com/spf13/cobra"
)

var (
	rawWidth   int
	rawHeight  int
	rawQuality float32
	rawOut     string
)

var rawCmd = &cobra.Command{
	Use:   "raw <file.rgba>",
	Short: "Encode a raw, tightly packed RGBA buffer to WebP",
	Long: `Reads width × height × 4 bytes of non-premultiplied RGBA (rows packed,
no padding) and encodes them with the default backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func init() {
	rawCmd.Flags().IntVar(&rawWidth, "width", 0, "image width in pixels")
	rawCmd.Flags().IntVar(&rawHeight, "height", 0, "image height in pixels")
	rawCmd.Flags().Float32VarP(&rawQuality, "quality", "q", webp.DefaultQuality, "quality 0-100")
	rawCmd.Flags().StringVarP(&rawOut, "out", "o", "", "output file (default: <input>.webp)")
	_ = rawCmd.MarkFlagRequired("width")
	_ = rawCmd.MarkFlagRequired("height")
	rootCmd.AddCommand(rawCmd)
}

func runRaw(_ *cobra.Command, args []string) error {
	input := args[0]

	pix, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	logVerbose("read %d bytes for %dx%d", len(pix), rawWidth, rawHeight)

	buf, err := webp.EncodeRGBA(pix, rawWidth, rawHeight, profile.ClampQuality(rawQuality))
	if err != nil {
		return fmt.Errorf("encode %s: %w", input, err)
	}
	defer buf.Release()

	out := rawOut
	if out == "" {
		out = input + ".webp"
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("  %s → %s  %dx%d  %s\n", input, out, rawWidth, rawHeight, formatBytes(int64(buf.Len())))
	return nil
}
