package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/colormodel"
)

var inverse bool

func init() {
	convertCmd.Flags().BoolVarP(&inverse, "inverse", "", false, "Convert hue, saturation and intensity into red, green and blue instead.")

	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [r] [g] [b]",
	Short: "Convert a colour between RGB and HSI",
	Long:  "Convert a normalized RGB triple (each value between 0 and 1) into hue, saturation and intensity, or the other way around with --inverse. Hue is a fraction of a full turn.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(3)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if _, err := parseTriple(args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		v, _ := parseTriple(args)

		if inverse {
			r, g, b := colormodel.HSIToRGB(v[0], v[1], v[2])
			r, g, b = colormodel.Clamp01(r), colormodel.Clamp01(g), colormodel.Clamp01(b)
			cmd.Printf("R: %.6f G: %.6f B: %.6f\n", r, g, b)
			return
		}

		h, s, i := colormodel.RGBToHSI(v[0], v[1], v[2])
		cmd.Printf("H: %.6f S: %.6f I: %.6f\n", h, s, i)
	},
}

func parseTriple(args []string) ([3]float64, error) {
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return v, fmt.Errorf("%s is not a valid number", args[i])
		}
		v[i] = f
	}
	return v, nil
}
