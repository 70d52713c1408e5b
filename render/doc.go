// Package render provides page sources: abstractions that turn a document
// into rendered page images and extracted page text for downstream analysis.
//
// PDFSource wraps MuPDF via go-fitz and supports concurrent rendering.
// ImageSource treats a directory of page images as a document, for inputs
// that arrive pre-rasterized. Page numbers are 1-indexed throughout.
package render
