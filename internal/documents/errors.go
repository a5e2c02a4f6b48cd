package documents

import "errors"

var (
	// ErrUnsupportedType is returned for uploads that are not PDF/JPEG/PNG.
	ErrUnsupportedType = errors.New("only PDF and image files are allowed")
	// ErrEmptyUpload is returned when the uploaded payload has no bytes.
	ErrEmptyUpload = errors.New("uploaded file is empty")
	// ErrExtractionFailed is returned when OCR yields no usable text.
	ErrExtractionFailed = errors.New("could not extract text from the uploaded file")
)
