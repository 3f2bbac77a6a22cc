package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/pixel"
)

var intensity int

func init() {
	flatCmd.Flags().IntVarP(&intensity, "intensity", "", 128, "The value of every channel, clamped between 0 and 255.")
	addOutputOptions(flatCmd)

	rootCmd.AddCommand(flatCmd)
}

var flatCmd = &cobra.Command{
	Use:   "flat [output]",
	Short: "Write an image of one flat intensity",
	Long:  fmt.Sprintf("Write a %dx%d image with every channel of every pixel set to the same intensity.\n[output] can either be a file path or - for stdout.", pixel.FlatWidth, pixel.FlatHeight),
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if err := validOutput(args[0]); err != nil {
			return err
		}

		return validOutputOptions()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeImage(cmd, args[0], pixel.NewFlat(intensity)); err != nil {
			handleError(cmd, fmt.Errorf("could not write output file %s: %w", args[0], err), ExitCodeInvalidOutput)
			return
		}

		if args[0] != stdFilename {
			cmd.Printf("Wrote flat intensity %d into %s\n", intensity, args[0])
		}
	},
}
