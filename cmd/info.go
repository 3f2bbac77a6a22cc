package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/colormodel"
	"github.com/klippa-app/hsi-cli/pdf"
	"github.com/klippa-app/hsi-cli/slider"
)

func init() {
	addPDFOptions(infoCmd)
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info [input]",
	Short: "Get the information of an image",
	Long:  "Get the information of an image, like its size and its average colour in RGB and HSI.\n[input] can either be a file path or - for stdin.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if err := validFile(args[0]); err != nil {
			return fmt.Errorf("could not open input file %s: %w", args[0], newExitCodeError(err, ExitCodeInvalidInput))
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer pdf.ClosePdfium()

		b, err := loadImage(cmd, args[0])
		if err != nil {
			handleError(cmd, fmt.Errorf("could not open input file %s: %w", args[0], err), ExitCodeInvalidInput)
			return
		}

		state, _ := newSliderState()
		r, g, bl := b.Mean()
		for i, v := range []float64{r, g, bl} {
			state.SetFraction(slider.Red+slider.Slider(i), v/255)
		}
		h, s, in := colormodel.RGBToHSI(r/255, g/255, bl/255)
		state = state.WithHSIFromRGB()

		cmd.Printf("Size: %d x %d (%d pixels)\n", b.Width(), b.Height(), b.Len())
		cmd.Printf("Mean RGB: %.2f, %.2f, %.2f\n", r, g, bl)
		cmd.Printf("Mean HSI: %.4f, %.4f, %.4f\n", h, s, in)
		cmd.Printf("Slider positions: %s\n", state)
	},
}
