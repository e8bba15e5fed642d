package cmd

import (
	"fmt"

	"github.com/AnyUserName/webpthumb/internal/webp"
	"github.com/spf13/cobra"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List compiled-in WebP encoder backends",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		printBackends(webp.Backends())
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

func printBackends(r *webp.Registry) {
	fmt.Println()
	for _, st := range r.Probe() {
		mark, modes := "✗", "lossless"
		if st.Available {
			mark = "✓"
		}
		if st.Lossy {
			modes = "lossy, lossless"
		}
		fmt.Printf("  %s %-10s %s\n", mark, st.Name, modes)
	}
	fmt.Println()

	if d := r.Default(false); d != nil {
		fmt.Printf("  Default:  %s\n", d.Name())
	} else {
		fmt.Println("  Default:  none (lossless only)")
	}
	fmt.Println()
}
