package cmd

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/webpthumb/internal/profile"
	"github.com/AnyUserName/webpthumb/internal/thumbnail"
	"github.com/AnyUserName/webpthumb/internal/webp"
	"github.com/spf13/cobra"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	encodeOut      string
	encodeQuality  float32
	encodeLossless bool
	encodeBackend  string
	encodeBox      int
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input>",
	Short: "Encode a single image to WebP",
	Long: `Decodes <input> (png, jpeg, gif, bmp, tiff, webp), optionally fits it into a
--box × --box square, and writes it as WebP.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output file (default: <input>.webp)")
	encodeCmd.Flags().Float32VarP(&encodeQuality, "quality", "q", webp.DefaultQuality, "quality 0-100")
	encodeCmd.Flags().BoolVar(&encodeLossless, "lossless", false, "lossless VP8L encoding")
	encodeCmd.Flags().StringVar(&encodeBackend, "backend", "", "encoder backend (default: best available)")
	encodeCmd.Flags().IntVar(&encodeBox, "box", 0, "fit into a box×box square first (0 = keep size)")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(_ *cobra.Command, args []string) error {
	input := args[0]

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	logVerbose("decoded %s: %s %dx%d", input, format, img.Bounds().Dx(), img.Bounds().Dy())

	if encodeBox > 0 {
		img = thumbnail.Fit(img, encodeBox, encodeBox)
	}

	opts := webp.Options{
		Quality:  profile.ClampQuality(encodeQuality),
		Lossless: encodeLossless,
		Backend:  encodeBackend,
	}
	data, err := webp.EncodeImage(img, opts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", input, err)
	}

	out := encodeOut
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".webp"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	b := img.Bounds()
	fmt.Printf("  %s → %s  %dx%d  %s\n", input, out, b.Dx(), b.Dy(), formatBytes(int64(len(data))))
	return nil
}
