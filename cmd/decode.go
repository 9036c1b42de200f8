package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/encoder"
	"github.com/spf13/cobra"
)

var (
	decodeWidth   int
	decodeHeight  int
	decodePunch   float32
	decodeOut     string
	decodeQuality int
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hash>",
	Short: "Render a BlurHash to an image file",
	Long: `Parses a BlurHash and renders it at the requested size.  The output
format follows the file extension: png and jpeg are built in, webp and avif
need cwebp / avifenc on PATH.

--punch scales the contrast of every AC component; 1 renders the encoded
contrast.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().IntVarP(&decodeWidth, "width", "W", 32, "output width in pixels")
	decodeCmd.Flags().IntVarP(&decodeHeight, "height", "H", 32, "output height in pixels")
	decodeCmd.Flags().Float32Var(&decodePunch, "punch", 1, "contrast multiplier for AC components")
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "", "output image path (required)")
	decodeCmd.Flags().IntVarP(&decodeQuality, "quality", "q", 0, "quality 1-100 for lossy formats (0 = encoder default)")
	_ = decodeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, args []string) error {
	hash := args[0]
	if decodeWidth < 1 || decodeHeight < 1 {
		return fmt.Errorf("output size %dx%d: width and height must be positive", decodeWidth, decodeHeight)
	}

	c, err := blurhash.Decode(hash, decodePunch)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	logVerbose("%s: %dx%d components, punch %g", hash, c.X, c.Y, decodePunch)

	enc, err := encoder.NewRegistry().ForPath(decodeOut)
	if err != nil {
		return err
	}
	data, err := enc.Encode(blurhash.RenderImage(c, decodeWidth, decodeHeight), decodeQuality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if err := os.WriteFile(decodeOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", decodeOut, err)
	}
	logVerbose("wrote %s (%dx%d %s, %s)", decodeOut, decodeWidth, decodeHeight, enc.Format(), formatBytes(int64(len(data))))
	return nil
}
