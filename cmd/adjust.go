package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/adjust"
	"github.com/klippa-app/hsi-cli/pdf"
	"github.com/klippa-app/hsi-cli/pixel"
	"github.com/klippa-app/hsi-cli/slider"
)

// Used for flags.
var sliderValues [slider.NumSliders]int

func addSliderOptions(command *cobra.Command) {
	for s := slider.Red; s <= slider.Intensity; s++ {
		command.Flags().IntVarP(&sliderValues[s], s.String(), "", 0, fmt.Sprintf("Position of the %s slider, see --rgb-max and --hsi-max for the ranges.", s))
	}
}

// adjustment is the slider input of a one-shot command.
type adjustment struct {
	state slider.State
	moved []slider.Slider
	group slider.Group
}

func newAdjustment(cmd *cobra.Command) (*adjustment, error) {
	state, err := newSliderState()
	if err != nil {
		return nil, newExitCodeError(err, ExitCodeInvalidArguments)
	}

	a := &adjustment{state: state}
	for s := slider.Red; s <= slider.Intensity; s++ {
		if !cmd.Flags().Changed(s.String()) {
			continue
		}
		if a.group != slider.NoneDriving && a.group != s.Group() {
			return nil, newExitCodeError(errors.New("use either the red, green and blue options or the hue, saturation and intensity options, not both"), ExitCodeInvalidArguments)
		}
		a.group = s.Group()
		a.moved = append(a.moved, s)
	}

	return a, nil
}

// apply runs the adjustment against in and returns the output image and the
// resulting slider positions.
func (a *adjustment) apply(in *pixel.Buffer) (*pixel.Buffer, slider.State) {
	// Several RGB sliders at once: scale all three channels together. A
	// release of each one in turn would only keep the last channel.
	if a.group == slider.RGBDriving && len(a.moved) > 1 {
		state := a.state
		for _, s := range a.moved {
			state.Set(s, sliderValues[s])
		}
		return adjust.Apply(in, state.Scales()), state.WithHSIFromRGB()
	}

	ctrl := slider.NewController(a.state, nil)
	_ = ctrl.Open("input", func() (*pixel.Buffer, error) { return in, nil })

	for _, s := range a.moved {
		ctrl.Dispatch(slider.Event{Kind: slider.ValueChanged, Slider: s, Value: sliderValues[s]})
	}
	if len(a.moved) > 0 {
		ctrl.Dispatch(slider.Event{Kind: slider.Released, Slider: a.moved[len(a.moved)-1]})
	}

	return ctrl.Output(), ctrl.State()
}

func init() {
	addPDFOptions(adjustCmd)
	addOutputOptions(adjustCmd)
	addSliderOptions(adjustCmd)

	rootCmd.AddCommand(adjustCmd)
}

var adjustCmd = &cobra.Command{
	Use:   "adjust [input] [output]",
	Short: "Adjust the colours of an image",
	Long:  "Adjust the colours of an image with RGB or HSI slider positions and save the result.\n[input] can either be a file path or - for stdin. PDF input is rendered with pdfium, see --page and --dpi.\n[output] can either be a file path or - for stdout.\nA single RGB slider scales one channel. Several RGB sliders scale their channels together. Any HSI slider converts the three HSI positions into RGB scales.",
	Example: "  hsi adjust photo.png out.png --red 128\n  hsi adjust photo.png out.png --hue 30 --saturation 50 --intensity 40",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if err := validFile(args[0]); err != nil {
			return fmt.Errorf("could not open input file %s: %w", args[0], newExitCodeError(err, ExitCodeInvalidInput))
		}

		if err := validOutput(args[1]); err != nil {
			return err
		}

		return validOutputOptions()
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer pdf.ClosePdfium()

		a, err := newAdjustment(cmd)
		if err != nil {
			handleError(cmd, err, ExitCodeInvalidArguments)
			return
		}

		in, err := loadImage(cmd, args[0])
		if err != nil {
			handleError(cmd, fmt.Errorf("could not open input file %s: %w", args[0], err), ExitCodeInvalidInput)
			return
		}

		out, state := a.apply(in)

		if err := writeImage(cmd, args[1], out); err != nil {
			handleError(cmd, fmt.Errorf("could not write output file %s: %w", args[1], err), ExitCodeInvalidOutput)
			return
		}

		if args[1] != stdFilename {
			cmd.Printf("Color adjusted >>\t%s\n", state)
			cmd.Printf("Saved %s into %s\n", args[0], args[1])
		}
	},
}
