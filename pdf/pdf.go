// Package pdf renders PDF pages into pixel buffers with PDFium.
package pdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/klippa-app/go-pdfium"
)

// Be sure to close pools/instances when you're done with them.
var pool pdfium.Pool
var PdfiumInstance pdfium.Pdfium
var isLoaded bool

// ClosePdfium releases the instance and pool created by LoadPdfium.
func ClosePdfium() {
	if !isLoaded {
		return
	}

	PdfiumInstance.Close()
	pool.Close()
	isLoaded = false
}

// ParsePageRange expands a page range like "1-3,5", "first-last" or "2-r1"
// into 1-based page numbers. "first" and "last" name the first and last page,
// a number prefixed with r counts back from the end. Pages appear once, in
// the order they are first named.
func ParsePageRange(pageCount int, pageRange string) ([]int, error) {
	var pages []int
	seen := map[int]bool{}

	for _, part := range strings.Split(pageRange, ",") {
		bounds := strings.Split(part, "-")
		if len(bounds) > 2 {
			return nil, errors.New("a page range must contain 1 or 2 components")
		}

		numbers := make([]int, 0, 2)
		for _, bound := range bounds {
			n, err := parsePageNumber(pageCount, bound)
			if err != nil {
				return nil, err
			}
			numbers = append(numbers, n)
		}

		last := numbers[len(numbers)-1]
		for n := numbers[0]; n <= last; n++ {
			if !seen[n] {
				seen[n] = true
				pages = append(pages, n)
			}
		}
	}

	return pages, nil
}

func parsePageNumber(pageCount int, bound string) (int, error) {
	switch {
	case bound == "first":
		return 1, nil
	case bound == "last":
		return pageCount, nil
	case strings.HasPrefix(bound, "r"):
		fromEnd, err := strconv.Atoi(strings.TrimPrefix(bound, "r"))
		if err != nil {
			return 0, fmt.Errorf("%s is not a valid page number", strings.TrimPrefix(bound, "r"))
		}
		n := pageCount - fromEnd
		if n < 1 || n > pageCount {
			return 0, fmt.Errorf("%d is not a valid page number, the document has %d page(s)", n, pageCount)
		}
		return n, nil
	}

	n, err := strconv.Atoi(bound)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid page number", bound)
	}
	if n < 1 || n > pageCount {
		return 0, fmt.Errorf("%s is not a valid page number, the document has %d page(s)", bound, pageCount)
	}
	return n, nil
}
