package pdf

import (
	"errors"
	"fmt"

	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"

	"github.com/klippa-app/hsi-cli/imageio"
	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pixel"
)

// DefaultDPI is the resolution pages are rendered at unless asked otherwise.
const DefaultDPI = 150

// maxRenderSize caps the PNG produced for a single page.
const maxRenderSize = 200 * 1024 * 1024

// ErrNotLoaded is returned when PDFium has not been initialized.
var ErrNotLoaded = errors.New("pdfium is not loaded")

// Document is an open PDF held in memory.
type Document struct {
	ref       references.FPDF_DOCUMENT
	pageCount int
}

// Open opens a PDF from memory. Call LoadPdfium first and Close the document
// when done.
func Open(data []byte, password string) (*Document, error) {
	if !isLoaded {
		return nil, ErrNotLoaded
	}

	req := &requests.OpenDocument{File: &data}
	if password != "" {
		req.Password = &password
	}

	doc, err := PdfiumInstance.OpenDocument(req)
	if err != nil {
		return nil, fmt.Errorf("could not open document with pdfium: %w", err)
	}

	pageCount, err := PdfiumInstance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		PdfiumInstance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		return nil, fmt.Errorf("could not get page count: %w", err)
	}

	return &Document{ref: doc.Document, pageCount: pageCount.PageCount}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// Close releases the document.
func (d *Document) Close() error {
	_, err := PdfiumInstance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: d.ref})
	return err
}

// RenderPage renders the 1-based page at dpi into a pixel buffer.
func (d *Document) RenderPage(page, dpi int) (*pixel.Buffer, error) {
	if page < 1 || page > d.pageCount {
		return nil, fmt.Errorf("%d is not a valid page number, the document has %d page(s)", page, d.pageCount)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	rendered, err := PdfiumInstance.RenderToFile(&requests.RenderToFile{
		RenderPagesInDPI: &requests.RenderPagesInDPI{
			Pages: []requests.RenderPageInDPI{
				{
					Page: requests.Page{
						ByIndex: &requests.PageByIndex{
							Document: d.ref,
							Index:    page - 1, // pdfium is 0-index based
						},
					},
					DPI: dpi,
				},
			},
		},
		OutputFormat: requests.RenderToFileOutputFormatPNG,
		OutputTarget: requests.RenderToFileOutputTargetBytes,
		MaxFileSize:  maxRenderSize,
	})
	if err != nil {
		return nil, fmt.Errorf("could not render page %d: %w", page, err)
	}
	if rendered.ImageBytes == nil {
		return nil, fmt.Errorf("could not render page %d: no image returned", page)
	}

	b, err := imageio.DecodeBytes(*rendered.ImageBytes)
	if err != nil {
		return nil, fmt.Errorf("could not read rendered page %d: %w", page, err)
	}

	logging.Logger().Debug("rendered pdf page", "page", page, "dpi", dpi, "width", b.Width(), "height", b.Height())
	return b, nil
}

// RenderPage loads PDFium if needed, opens data and renders a single page.
func RenderPage(data []byte, page, dpi int) (*pixel.Buffer, error) {
	if err := LoadPdfium(); err != nil {
		return nil, fmt.Errorf("could not load pdfium: %w", err)
	}

	doc, err := Open(data, "")
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return doc.RenderPage(page, dpi)
}
