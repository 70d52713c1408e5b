package render

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PageSource renders document pages to images and extracts their text.
// Implementations must support concurrent RenderPage and PageText calls.
type PageSource interface {
	// PageCount returns the number of pages in the document
	PageCount() int

	// RenderPage rasterizes a page (1-indexed) at the given DPI
	RenderPage(pageNumber int, dpi int) (image.Image, error)

	// PageText extracts the embedded text of a page (1-indexed). Sources
	// without embedded text return an empty string.
	PageText(pageNumber int) (string, error)

	// Close releases the underlying document
	Close() error
}

// PDFSource renders PDF pages through MuPDF
type PDFSource struct {
	doc  *fitz.Document
	path string
}

// NewPDFSource opens a PDF document for rendering and text extraction
func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path}, nil
}

// PageCount returns the number of pages
func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

// RenderPage rasterizes a page at the given DPI. Each call opens its own
// document handle, so renders can run concurrently across workers.
func (s *PDFSource) RenderPage(pageNumber int, dpi int) (image.Image, error) {
	if err := s.checkPage(pageNumber); err != nil {
		return nil, err
	}

	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(pageNumber-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", pageNumber, err)
	}
	return img, nil
}

// PageText extracts the embedded text of a page
func (s *PDFSource) PageText(pageNumber int) (string, error) {
	if err := s.checkPage(pageNumber); err != nil {
		return "", err
	}

	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer workerDoc.Close()

	text, err := workerDoc.Text(pageNumber - 1)
	if err != nil {
		return "", fmt.Errorf("extracting text from page %d: %w", pageNumber, err)
	}
	return text, nil
}

// Close releases the document
func (s *PDFSource) Close() error {
	return s.doc.Close()
}

func (s *PDFSource) checkPage(pageNumber int) error {
	if pageNumber < 1 || pageNumber > s.doc.NumPage() {
		return fmt.Errorf("page %d out of range [1,%d]", pageNumber, s.doc.NumPage())
	}
	return nil
}
