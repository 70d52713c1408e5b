// Package slidemap provides a fluent API for mapping the relationships
// between visual elements (charts, tables, figures, diagrams) and text
// content in PDF documents, as preparation for presentation generation.
//
// Basic usage:
//
//	mapping, warnings, err := slidemap.Open("report.pdf").Mapping()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", slidemap.FormatWarnings(warnings))
//	}
//
// With options:
//
//	mapping, _, err := slidemap.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    DPI(200).
//	    PageWindow(2).
//	    Mapping()
//
// For advanced use cases, the lower-level visual, segment, mapping, and
// render packages are also available.
package slidemap

import (
	"github.com/tsawler/slidemap/model"
	"github.com/tsawler/slidemap/render"
)

// Open opens a PDF file, a page image, or a directory of page images and
// returns an Analyzer for fluent configuration. The input format is sniffed
// from the file content. The returned Analyzer must be closed when done,
// either explicitly via Close() or implicitly when calling a terminal
// operation like Mapping().
//
// Example:
//
//	mapping, warnings, err := slidemap.Open("report.pdf").Mapping()
func Open(filename string) *Analyzer {
	return &Analyzer{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource creates an Analyzer from an already-opened page source.
// This is useful for pre-rasterized inputs (render.ImageSource) or when
// you need more control over the source lifecycle.
// Note: The caller is responsible for closing the source.
//
// Example:
//
//	src, err := render.NewImageSource("pages/")
//	if err != nil {
//	    // handle error
//	}
//	defer src.Close()
//	mapping, warnings, err := slidemap.FromSource(src).Mapping()
func FromSource(src render.PageSource) *Analyzer {
	return &Analyzer{
		source:       src,
		ownsSource:   false,
		sourceOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := slidemap.Must(slidemap.Open("report.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustMapping wraps a call to Mapping() and panics if the error is
// non-nil. It discards warnings and returns just the document mapping.
//
// Example:
//
//	dm := slidemap.MustMapping(slidemap.Open("report.pdf").Mapping())
func MustMapping(dm *model.DocumentMapping, _ []Warning, err error) *model.DocumentMapping {
	if err != nil {
		panic(err)
	}
	return dm
}
