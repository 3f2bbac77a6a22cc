package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/imageio"
	"github.com/klippa-app/hsi-cli/pdf"
	"github.com/klippa-app/hsi-cli/pixel"
)

var (
	// Used for flags.
	password string
	page     int
	dpi      int
)

func addPDFOptions(command *cobra.Command) {
	command.Flags().StringVarP(&password, "password", "p", "", "Password on the input PDF file.")
	command.Flags().IntVarP(&page, "page", "", 1, "The page to load when the input is a PDF.")
	addDPIOption(command)
}

func addDPIOption(command *cobra.Command) {
	command.Flags().IntVarP(&dpi, "dpi", "", pdf.DefaultDPI, "The DPI to render PDF pages in.")
}

const stdFilename = "-"

func readInput(cmd *cobra.Command, filename string) ([]byte, error) {
	// Support reading the image from stdin.
	if filename == stdFilename {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(filename)
}

// loadImage decodes a raster image or renders a page of a PDF.
func loadImage(cmd *cobra.Command, filename string) (*pixel.Buffer, error) {
	data, err := readInput(cmd, filename)
	if err != nil {
		return nil, &imageio.DecodeError{Source: filename, Err: err}
	}

	if !imageio.IsPDF(data) {
		b, err := imageio.DecodeBytes(data)
		if err != nil {
			var decodeErr *imageio.DecodeError
			if errors.As(err, &decodeErr) {
				decodeErr.Source = filename
			}
			return nil, err
		}
		return b, nil
	}

	if err := pdf.LoadPdfium(); err != nil {
		return nil, fmt.Errorf("could not load pdfium: %w", newPdfiumError(err))
	}

	document, err := pdf.Open(data, password)
	if err != nil {
		return nil, newPdfiumError(err)
	}
	defer document.Close()

	b, err := document.RenderPage(page, dpi)
	if err != nil {
		return nil, newPdfiumError(err)
	}
	return b, nil
}

func validFile(filename string) error {
	if filename == stdFilename {
		return nil
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}

	return nil
}

type pdfiumError struct {
	originalError error
}

func (e *pdfiumError) Error() string {
	return e.originalError.Error()
}

func (e *pdfiumError) Unwrap() error {
	return e.originalError
}

func newPdfiumError(err error) *pdfiumError {
	return &pdfiumError{
		originalError: err,
	}
}

type ExitCodeError struct {
	originalError error
	exitCode      int
}

func (e *ExitCodeError) Error() string {
	return e.originalError.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.originalError
}

func (e *ExitCodeError) ExitCode() int {
	return e.exitCode
}

func newExitCodeError(err error, code int) *ExitCodeError {
	return &ExitCodeError{
		originalError: err,
		exitCode:      code,
	}
}

// exitCode picks the exit code for err, falling back to defaultCode.
func exitCode(err error, defaultCode int) int {
	errorCode := defaultCode

	exitCodeError := &ExitCodeError{}
	if errors.As(err, &exitCodeError) {
		errorCode = exitCodeError.ExitCode()
	}

	var decodeErr *imageio.DecodeError
	if errors.As(err, &decodeErr) {
		errorCode = ExitCodeDecodeError
	}

	var encodeErr *imageio.EncodeError
	if errors.As(err, &encodeErr) {
		errorCode = ExitCodeEncodeError
	}

	target := &pdfiumError{}
	if errors.As(err, &target) {
		errorMsg := rootCause(target).Error()
		if strings.HasPrefix(errorMsg, "1: ") {
			errorCode = ExitCodePdfiumUnknownError
		} else if strings.HasPrefix(errorMsg, "2: ") {
			errorCode = ExitCodePdfiumFileError
		} else if strings.HasPrefix(errorMsg, "3: ") {
			errorCode = ExitCodePdfiumBadFileError
		} else if strings.HasPrefix(errorMsg, "4: ") {
			errorCode = ExitCodePdfiumPasswordError
		} else if strings.HasPrefix(errorMsg, "5: ") {
			errorCode = ExitCodePdfiumSecurityError
		} else if strings.HasPrefix(errorMsg, "6: ") {
			errorCode = ExitCodePdfiumPageError
		} else {
			errorCode = ExitCodePdfiumError
		}
	}

	return errorCode
}

// rootCause follows the Unwrap chain down to the error pdfium returned.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func handleError(cmd *cobra.Command, err error, defaultCode int) {
	cmd.PrintErrln(err)
	os.Exit(exitCode(err, defaultCode))
}
