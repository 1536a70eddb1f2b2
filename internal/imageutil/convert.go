// Package imageutil prepares uploaded documents for the vision model:
// PDFs are rasterized (first page only) and all images are normalized to
// PNG and bounded in size before upload.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// DecodeError reports a failure to decode an uploaded document. Like a
// spreadsheet read failure it is fatal: the vision path has no fallback.
type DecodeError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode document: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PDFToPNG rasterizes the first page of a PDF as PNG. Invoices are
// expected to fit on one page; later pages are ignored.
func PDFToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, &DecodeError{Op: "open_pdf", Err: err}
	}
	defer doc.Close()

	img, err := doc.ImageDPI(0, 300)
	if err != nil {
		return nil, &DecodeError{Op: "render_pdf_page", Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &DecodeError{Op: "encode_png", Err: err}
	}
	return buf.Bytes(), nil
}

// ToPNG decodes a standard image format (JPEG, PNG, GIF) and re-encodes
// it as PNG.
func ToPNG(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, &DecodeError{Op: "decode_image", Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &DecodeError{Op: "encode_png", Err: err}
	}
	return buf.Bytes(), nil
}

// Prepare converts an uploaded document to a PNG suitable for the vision
// model. PDF input is rasterized; image input is decoded and re-encoded.
// The result is downscaled when it exceeds the configured bound.
func Prepare(data []byte, ext string) ([]byte, error) {
	var pngData []byte
	var err error

	if ext == ".pdf" {
		pngData, err = PDFToPNG(data)
	} else {
		pngData, err = ToPNG(data)
	}
	if err != nil {
		return nil, err
	}

	return Downscale(pngData, DefaultMaxDimension)
}
