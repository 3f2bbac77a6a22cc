package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/samples"
)

func init() {
	addOutputOptions(samplesCmd)

	rootCmd.AddCommand(samplesCmd)
}

var samplesCmd = &cobra.Command{
	Use:   "samples [name] [output]",
	Short: "List or write the built-in sample images",
	Long:  "Without arguments, list the built-in sample images. With a name and an output, write that sample.\n[output] can either be a file path or - for stdout.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}

		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if _, err := samples.Lookup(args[0]); err != nil {
			return newExitCodeError(err, ExitCodeInvalidInput)
		}

		if err := validOutput(args[1]); err != nil {
			return err
		}

		return validOutputOptions()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			for _, s := range samples.List() {
				cmd.Printf(" - %s: %s\n", s.Name, s.Title)
			}
			return
		}

		s, _ := samples.Lookup(args[0])
		if err := writeImage(cmd, args[1], s.Generate()); err != nil {
			handleError(cmd, fmt.Errorf("could not write output file %s: %w", args[1], err), ExitCodeInvalidOutput)
			return
		}

		if args[1] != stdFilename {
			cmd.Printf("Wrote %s into %s\n", s.Title, args[1])
		}
	},
}
