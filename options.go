package slidemap

import (
	"github.com/tsawler/slidemap/mapping"
	"github.com/tsawler/slidemap/visual"
)

// AnalyzeOptions holds configuration for document analysis.
type AnalyzeOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Rendering
	dpi int

	// Concurrency (0 means one worker per CPU)
	workers int

	// Detection
	detectorName   string
	detectorConfig visual.Config

	// Relationship scoring
	mapperConfig mapping.Config

	// External page text supplied by the caller, keyed by 1-indexed page
	// number. Overrides the source's embedded text for those pages.
	pageText map[int]string

	// Treat supplied page text as HTML markup
	htmlText bool

	// Run OCR over detected visual regions
	ocrRegions bool
}

// defaultOptions returns the default analysis options.
func defaultOptions() AnalyzeOptions {
	return AnalyzeOptions{
		pages:          nil, // nil means all pages
		dpi:            150,
		workers:        0,
		detectorName:   "",
		detectorConfig: visual.DefaultConfig(),
		mapperConfig:   mapping.DefaultConfig(),
	}
}

// clone creates a deep copy of AnalyzeOptions.
func (o AnalyzeOptions) clone() AnalyzeOptions {
	newOpts := o

	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.pageText != nil {
		newOpts.pageText = make(map[int]string, len(o.pageText))
		for k, v := range o.pageText {
			newOpts.pageText[k] = v
		}
	}

	return newOpts
}
