package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/imageio"
	"github.com/klippa-app/hsi-cli/pixel"
)

var (
	// Used for flags.
	fileType    string
	jpegQuality int
	compression int
)

func addOutputOptions(command *cobra.Command) {
	command.Flags().StringVarP(&fileType, "file-type", "", "", "The file type to write, png or jpeg. Defaults to the output file extension, png for stdout.")
	command.Flags().IntVarP(&jpegQuality, "jpeg-quality", "", imageio.DefaultJPEGQuality, "Quality to use when file type is jpeg")
	command.Flags().IntVarP(&compression, "compression", "", imageio.DefaultCompression, "PNG compression level from 0 (none) to 9 (smallest)")
}

func outputOptions(path string) imageio.Options {
	opts := imageio.Options{
		FileType:    fileType,
		Compression: compression,
		JPEGQuality: jpegQuality,
	}
	if opts.FileType == "" {
		opts.FileType = imageio.FileTypeFromPath(path)
	}
	return opts
}

func validOutputOptions() error {
	switch fileType {
	case "", imageio.FileTypePNG, imageio.FileTypeJPEG, "jpg":
	default:
		return newExitCodeError(fmt.Errorf("unsupported file type %s, use png or jpeg", fileType), ExitCodeInvalidArguments)
	}
	if compression < 0 || compression > 9 {
		return newExitCodeError(fmt.Errorf("compression level %d is not between 0 and 9", compression), ExitCodeInvalidArguments)
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		return newExitCodeError(fmt.Errorf("jpeg quality %d is not between 1 and 100", jpegQuality), ExitCodeInvalidArguments)
	}
	return nil
}

// validOutput checks that the folder the output goes to exists.
func validOutput(filename string) error {
	if filename == stdFilename {
		return nil
	}

	folderStat, err := os.Stat(filepath.Dir(filename))
	if err != nil {
		return fmt.Errorf("could not open output folder %s: %w", filepath.Dir(filename), newExitCodeError(err, ExitCodeInvalidOutput))
	}
	if !folderStat.IsDir() {
		return newExitCodeError(fmt.Errorf("output folder %s is not a folder", filepath.Dir(filename)), ExitCodeInvalidOutput)
	}

	return nil
}

// writeImage encodes b to filename, or to stdout for "-".
func writeImage(cmd *cobra.Command, filename string, b *pixel.Buffer) error {
	opts := outputOptions(filename)
	if filename == stdFilename {
		return imageio.Encode(cmd.OutOrStdout(), b, opts)
	}
	return imageio.EncodeFile(filename, b, opts)
}
