package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/slider"
	"github.com/klippa-app/hsi-cli/version"
)

var (
	// Used for flags.
	verbose bool
	rgbMax  int
	hsiMax  int
	saveDir string

	rootCmd = &cobra.Command{
		Use:     "hsi",
		Short:   "Adjust images with RGB and HSI sliders",
		Long:    "hsi is a CLI tool that loads an image, scales its colour channels through RGB or HSI (hue, saturation, intensity) slider values and saves the result.",
		Version: version.VERSION,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			if _, err := newSliderState(); err != nil {
				return newExitCodeError(err, ExitCodeInvalidArguments)
			}

			return nil
		},
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information to stderr.")
	rootCmd.PersistentFlags().IntVarP(&rgbMax, "rgb-max", "", slider.DefaultRGBRange.Max, "Maximum position of the red, green and blue sliders.")
	rootCmd.PersistentFlags().IntVarP(&hsiMax, "hsi-max", "", slider.DefaultHSIRange.Max, "Maximum position of the hue, saturation and intensity sliders.")
	rootCmd.PersistentFlags().StringVarP(&saveDir, "save-dir", "", defaultSaveDir(), "Directory the session save command writes "+slider.TempFilename+" to.")
}

func newSliderState() (slider.State, error) {
	return slider.NewState(slider.Range{Min: 0, Max: rgbMax}, slider.Range{Min: 0, Max: hsiMax})
}

// defaultSaveDir is ~/Desktop when it exists, the working directory otherwise.
func defaultSaveDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		desktop := filepath.Join(home, "Desktop")
		if stat, err := os.Stat(desktop); err == nil && stat.IsDir() {
			return desktop
		}
	}
	return "."
}
