package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truthcheck/internal/render"
)

// imageCmd represents the image command
var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Check an image for manipulation",
	Long: `Image uploads the file to the image analysis service and prints its verdict
and, when the service reports one, the confidence. Images are not added to history.

Example:
  truthcheck image photo.jpg`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	controller := a.pipeline.Controller(render.NewTerminal(cmd.OutOrStdout()))

	var (
		name string
		r    io.Reader
	)
	if len(args) == 1 {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	return reported(controller.CheckImage(cmd.Context(), name, r))
}
