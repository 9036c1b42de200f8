package cmd

import (
	"fmt"

	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	encodeX       int
	encodeY       int
	encodeProfile string
	encodeMaxSize int
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image>...",
	Short: "Print the BlurHash of one or more images",
	Long: `Decodes each image (png, jpeg, gif, webp, bmp, tiff), downscales it to
the profile's working size and prints its BlurHash.

With several images each line is "<hash>  <path>".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().IntVarP(&encodeX, "components-x", "x", 0, "horizontal components 1-9 (0 = profile)")
	encodeCmd.Flags().IntVarP(&encodeY, "components-y", "y", 0, "vertical components 1-9 (0 = profile)")
	encodeCmd.Flags().StringVarP(&encodeProfile, "profile", "p", "default", "encoding profile")
	encodeCmd.Flags().IntVar(&encodeMaxSize, "max-size", -1, "long-edge working size (0 = original, -1 = profile)")
	rootCmd.AddCommand(encodeCmd)
}

// encodeProfileFor merges command-line overrides into the named profile.
func encodeProfileFor(name string, x, y, maxSize int) profile.Profile {
	prof := profile.Get(name)
	if x > 0 || y > 0 {
		prof.Auto = false
		if x > 0 {
			prof.X = x
		}
		if y > 0 {
			prof.Y = y
		}
	}
	if maxSize >= 0 {
		prof.MaxSize = maxSize
	}
	return prof
}

func runEncode(cmd *cobra.Command, args []string) error {
	prof := encodeProfileFor(encodeProfile, encodeX, encodeY, encodeMaxSize)
	logVerbose("profile: %s (components=%dx%d, auto=%v, max-size=%d)",
		prof.Name, prof.X, prof.Y, prof.Auto, prof.MaxSize)

	out := cmd.OutOrStdout()
	for _, path := range args {
		img, format, err := pipeline.DecodeFile(path)
		if err != nil {
			return err
		}
		ph, err := pipeline.Encode(img, prof)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logVerbose("%s: %s %dx%d → %dx%d components", path, format,
			ph.Width, ph.Height, ph.Coefficients.X, ph.Coefficients.Y)

		if len(args) == 1 {
			fmt.Fprintln(out, ph.Hash)
		} else {
			fmt.Fprintf(out, "%s  %s\n", ph.Hash, path)
		}
	}
	return nil
}
