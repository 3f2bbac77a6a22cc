package cmd

const (
	ExitCodePdfiumUnknownError  = 1
	ExitCodePdfiumFileError     = 2
	ExitCodePdfiumBadFileError  = 3
	ExitCodePdfiumPasswordError = 4
	ExitCodePdfiumSecurityError = 5
	ExitCodePdfiumPageError     = 6
	ExitCodePdfiumError         = 7
	ExitCodeInvalidArguments    = 8
	ExitCodeInvalidInput        = 9
	ExitCodeInvalidOutput       = 10
	ExitCodeInvalidPageRange    = 11
	ExitCodeDecodeError         = 12
	ExitCodeEncodeError         = 13
)
