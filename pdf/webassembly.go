//go:build !hsi_use_cgo

package pdf

import (
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/klippa-app/hsi-cli/internal/logging"
)

// LoadPdfium initializes PDFium compiled to WebAssembly. Calling it again is
// a no-op.
func LoadPdfium() error {
	if isLoaded {
		return nil
	}

	var err error
	// A single worker: documents are rendered one page at a time.
	pool, err = webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return err
	}

	PdfiumInstance, err = pool.GetInstance(time.Second * 30)
	if err != nil {
		return err
	}

	isLoaded = true
	logging.Logger().Debug("loaded pdfium", "backend", "webassembly")

	return nil
}
