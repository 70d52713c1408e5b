package slidemap

import (
	"fmt"
	"sort"

	"github.com/tsawler/slidemap/format"
	"github.com/tsawler/slidemap/mapping"
	"github.com/tsawler/slidemap/model"
	"github.com/tsawler/slidemap/render"
	"github.com/tsawler/slidemap/visual"
)

// Analyzer provides a fluent interface for mapping visual elements to text
// content in documents. Each configuration method returns a new Analyzer
// instance, making it safe for concurrent use and allowing method chaining.
type Analyzer struct {
	// Source
	filename string

	// Page source
	source render.PageSource

	// Lifecycle
	ownsSource   bool // true if we opened the source and should close it
	sourceOpened bool // true if the source has been opened

	// Configuration
	options AnalyzeOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Analyzer with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (a *Analyzer) clone() *Analyzer {
	return &Analyzer{
		filename:     a.filename,
		source:       a.source,
		ownsSource:   a.ownsSource,
		sourceOpened: a.sourceOpened,
		options:      a.options.clone(),
		err:          a.err,
		warnings:     append([]Warning(nil), a.warnings...),
	}
}

// ensureSource opens the page source if not already open.
func (a *Analyzer) ensureSource() error {
	if a.sourceOpened {
		return nil
	}
	if a.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	detected, err := format.DetectFromFile(a.filename)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}

	var src render.PageSource
	if detected.IsImage() {
		src, err = render.NewImageSource(a.filename)
	} else {
		src, err = render.NewPDFSource(a.filename)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s input: %w", detected, err)
	}
	a.source = src
	a.ownsSource = true
	a.sourceOpened = true
	return nil
}

// Close releases resources associated with the Analyzer.
// It is safe to call Close multiple times. A closed file-based Analyzer
// reopens its source on the next operation.
func (a *Analyzer) Close() error {
	if a.ownsSource && a.source != nil {
		err := a.source.Close()
		a.source = nil
		a.ownsSource = false
		a.sourceOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Analyzer instance)
// ============================================================================

// Pages specifies which pages to analyze (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	dm, _, err := slidemap.Open("report.pdf").Pages(1, 3, 5).Mapping()
func (a *Analyzer) Pages(pages ...int) *Analyzer {
	newA := a.clone()
	newA.options.pages = append(newA.options.pages, pages...)
	return newA
}

// PageRange specifies a range of pages to analyze (1-indexed, inclusive).
//
// Example:
//
//	dm, _, err := slidemap.Open("report.pdf").PageRange(5, 10).Mapping()
func (a *Analyzer) PageRange(start, end int) *Analyzer {
	newA := a.clone()
	for i := start; i <= end; i++ {
		newA.options.pages = append(newA.options.pages, i)
	}
	return newA
}

// DPI sets the resolution pages are rendered at before detection.
// Higher values find smaller elements at the cost of speed. Default is 150.
//
// Example:
//
//	dm, _, err := slidemap.Open("report.pdf").DPI(200).Mapping()
func (a *Analyzer) DPI(dpi int) *Analyzer {
	newA := a.clone()
	newA.options.dpi = dpi
	return newA
}

// Workers sets the number of pages analyzed concurrently.
// Zero (the default) uses one worker per logical CPU.
func (a *Analyzer) Workers(n int) *Analyzer {
	newA := a.clone()
	newA.options.workers = n
	return newA
}

// PageWindow sets the maximum page distance at which text may be related
// to a visual. 0 restricts mapping to same-page pairs. Default is 1.
//
// Example:
//
//	dm, _, err := slidemap.Open("report.pdf").PageWindow(2).Mapping()
func (a *Analyzer) PageWindow(window int) *Analyzer {
	newA := a.clone()
	newA.options.mapperConfig.PageWindow = window
	return newA
}

// MinScore sets the threshold below which relationships are discarded.
// Default is 0.3.
func (a *Analyzer) MinScore(score float64) *Analyzer {
	newA := a.clone()
	newA.options.mapperConfig.MinScore = score
	return newA
}

// Detector selects a registered detection strategy by name.
// The default is the contrast detector.
func (a *Analyzer) Detector(name string) *Analyzer {
	newA := a.clone()
	newA.options.detectorName = name
	return newA
}

// DetectorConfig sets custom detection parameters.
func (a *Analyzer) DetectorConfig(config visual.Config) *Analyzer {
	newA := a.clone()
	newA.options.detectorConfig = config
	return newA
}

// MapperConfig sets custom relationship scoring parameters, replacing any
// values set via PageWindow or MinScore.
func (a *Analyzer) MapperConfig(config mapping.Config) *Analyzer {
	newA := a.clone()
	newA.options.mapperConfig = config
	return newA
}

// WithPageText supplies page text from an external service (for example a
// vision model transcription), keyed by 1-indexed page number. Supplied
// pages skip the source's own text extraction.
//
// Example:
//
//	dm, _, err := slidemap.Open("scan.pdf").
//	    WithPageText(map[int]string{1: transcript}).
//	    Mapping()
func (a *Analyzer) WithPageText(pageText map[int]string) *Analyzer {
	newA := a.clone()
	if newA.options.pageText == nil {
		newA.options.pageText = make(map[int]string, len(pageText))
	}
	for page, text := range pageText {
		newA.options.pageText[page] = text
	}
	return newA
}

// AsHTML marks supplied page text as HTML markup, which is stripped to
// plain text before segmentation.
func (a *Analyzer) AsHTML() *Analyzer {
	newA := a.clone()
	newA.options.htmlText = true
	return newA
}

// WithRegionOCR enables OCR over detected visual regions, populating each
// element's ExtractedText. Requires the binary to be built with the "ocr"
// tag and Tesseract installed; otherwise a warning is emitted and analysis
// proceeds without OCR.
func (a *Analyzer) WithRegionOCR() *Analyzer {
	newA := a.clone()
	newA.options.ocrRegions = true
	return newA
}

// ============================================================================
// Terminal Operations (execute analysis and return results)
// ============================================================================

// Mapping analyzes the configured pages and returns the document-level
// mapping of visual elements to text sections.
// This is a terminal operation that closes the underlying source.
//
// Returns the mapping, any warnings encountered during processing, and an
// error if analysis failed. Warnings indicate non-fatal issues (e.g., a
// page that could not be rendered) where analysis succeeded but results
// may be incomplete.
//
// Example:
//
//	dm, warnings, err := slidemap.Open("report.pdf").Mapping()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", slidemap.FormatWarnings(warnings))
//	}
func (a *Analyzer) Mapping() (*model.DocumentMapping, []Warning, error) {
	pages, warnings, err := a.AnalyzePages()
	if err != nil {
		return nil, warnings, err
	}

	return mapping.Aggregate(pages), warnings, nil
}

// AnalyzePages analyzes the configured pages and returns the per-page
// results: detected visuals, segmented text sections, and scored mappings.
// This is a terminal operation that closes the underlying source.
//
// Example:
//
//	pages, warnings, err := slidemap.Open("report.pdf").AnalyzePages()
//	for _, page := range pages {
//	    fmt.Printf("page %d: %d visuals, %d sections\n",
//	        page.PageNumber, len(page.Visuals), len(page.Sections))
//	}
func (a *Analyzer) AnalyzePages() ([]model.PageAnalysis, []Warning, error) {
	if a.err != nil {
		return nil, nil, a.err
	}

	if err := a.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer a.Close()

	if err := a.options.detectorConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid detector config: %w", err)
	}
	if err := a.options.mapperConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid mapping config: %w", err)
	}

	pageNumbers, err := a.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	pages, warnings, err := a.analyzePages(pageNumbers)
	if err != nil {
		return nil, warnings, err
	}

	a.warnings = append(a.warnings, warnings...)
	return pages, a.warnings, nil
}

// PageCount returns the total number of pages in the document.
// Note: This does NOT close the source, allowing further operations.
//
// Example:
//
//	an := slidemap.Open("report.pdf")
//	defer an.Close()
//	count, err := an.PageCount()
func (a *Analyzer) PageCount() (int, error) {
	if a.err != nil {
		return 0, a.err
	}

	if err := a.ensureSource(); err != nil {
		return 0, err
	}

	return a.source.PageCount(), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolvePages validates the selected 1-indexed page numbers.
// If no pages were specified, all pages are selected.
func (a *Analyzer) resolvePages() ([]int, error) {
	pageCount := a.source.PageCount()

	if len(a.options.pages) == 0 {
		pageNumbers := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageNumbers[i] = i + 1
		}
		return pageNumbers, nil
	}

	seen := make(map[int]bool)
	var pageNumbers []int
	for _, p := range a.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pageNumbers = append(pageNumbers, p)
		}
	}

	sort.Ints(pageNumbers)
	return pageNumbers, nil
}
