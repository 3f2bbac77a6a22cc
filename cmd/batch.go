package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pdf"
)

var pages string

func init() {
	batchCmd.Flags().StringVarP(&password, "password", "p", "", "Password on the input PDF file.")
	batchCmd.Flags().StringVarP(&pages, "pages", "", "first-last", "The pages or page ranges to adjust. Ranges are like '1-3,5', which will result in pages 1, 2, 3 and 5. You can use the keywords first and last. You can prepend a page number with r to start counting from the end. Examples: use '2-last' for the second page until the last page, use '3-r1' for page 3 until the second-last page.")
	addDPIOption(batchCmd)
	addOutputOptions(batchCmd)
	addSliderOptions(batchCmd)

	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [input] [output]",
	Short: "Adjust every page of a PDF",
	Long:  "Render the pages of a PDF into images and apply the same slider adjustment to each of them. The output filename should contain a \"%d\" placeholder for the page number, e.g. batch invoice.pdf invoice-%d.png --intensity 60, the result for a 2-page PDF will be invoice-1.png and invoice-2.png.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if _, err := os.Stat(args[0]); err != nil {
			return fmt.Errorf("could not open input file %s: %w", args[0], newExitCodeError(err, ExitCodeInvalidInput))
		}

		if !strings.Contains(args[1], "%d") {
			return newExitCodeError(fmt.Errorf("output string %s should contain page pattern %%d", args[1]), ExitCodeInvalidOutput)
		}

		if err := validOutput(args[1]); err != nil {
			return err
		}

		return validOutputOptions()
	},
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newAdjustment(cmd)
		if err != nil {
			handleError(cmd, err, ExitCodeInvalidArguments)
			return
		}

		err = pdf.LoadPdfium()
		if err != nil {
			handleError(cmd, fmt.Errorf("could not load pdfium: %w", newPdfiumError(err)), ExitCodePdfiumError)
			return
		}
		defer pdf.ClosePdfium()

		data, err := os.ReadFile(args[0])
		if err != nil {
			handleError(cmd, fmt.Errorf("could not open input file %s: %w", args[0], newExitCodeError(err, ExitCodeInvalidInput)), ExitCodeInvalidInput)
			return
		}

		document, err := pdf.Open(data, password)
		if err != nil {
			handleError(cmd, fmt.Errorf("could not open input file %s: %w", args[0], newPdfiumError(err)), ExitCodeInvalidInput)
			return
		}
		defer document.Close()

		parsedPages, err := pdf.ParsePageRange(document.PageCount(), pages)
		if err != nil {
			handleError(cmd, fmt.Errorf("invalid page range '%s': %w", pages, err), ExitCodeInvalidPageRange)
			return
		}

		// Pages are rendered one at a time by the single pdfium worker;
		// adjusting and encoding them runs alongside.
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(runtime.GOMAXPROCS(0) + 1)

		for _, pageNumber := range parsedPages {
			pageNumber := pageNumber
			if ctx.Err() != nil {
				break
			}

			in, err := document.RenderPage(pageNumber, dpi)
			if err != nil {
				handleError(cmd, fmt.Errorf("could not render page %d into image: %w", pageNumber, newPdfiumError(err)), ExitCodePdfiumError)
				return
			}

			newFilePath := strings.Replace(args[1], "%d", strconv.Itoa(pageNumber), -1)
			g.Go(func() error {
				out, state := a.apply(in)
				if err := writeImage(cmd, newFilePath, out); err != nil {
					return fmt.Errorf("could not write page %d into %s: %w", pageNumber, newFilePath, err)
				}

				logging.Logger().Info("adjusted page", "page", pageNumber, "path", newFilePath, "state", state.String())
				cmd.Printf("Adjusted page %d into %s\n", pageNumber, newFilePath)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			handleError(cmd, err, ExitCodeInvalidOutput)
			return
		}
	},
}
