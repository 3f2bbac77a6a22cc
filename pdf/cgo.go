//go:build hsi_use_cgo

package pdf

import (
	"time"

	"github.com/klippa-app/go-pdfium/single_threaded"

	"github.com/klippa-app/hsi-cli/internal/logging"
)

// LoadPdfium initializes a native PDFium instance. Calling it again is a no-op.
func LoadPdfium() error {
	if isLoaded {
		return nil
	}

	var err error

	// Init the PDFium library and return the instance to open documents.
	pool = single_threaded.Init(single_threaded.Config{})

	PdfiumInstance, err = pool.GetInstance(time.Second * 30)
	if err != nil {
		return err
	}

	isLoaded = true
	logging.Logger().Debug("loaded pdfium", "backend", "cgo")

	return nil
}
