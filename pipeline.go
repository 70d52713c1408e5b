package slidemap

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/slidemap/mapping"
	"github.com/tsawler/slidemap/model"
	"github.com/tsawler/slidemap/ocr"
	"github.com/tsawler/slidemap/segment"
	"github.com/tsawler/slidemap/visual"
)

// analyzePages runs the two-phase analysis pipeline: pages are rendered,
// detected, and segmented concurrently; once every page has been analyzed,
// relationships are scored so that cross-page windows see complete results.
// Page failures become warnings, not errors.
func (a *Analyzer) analyzePages(pageNumbers []int) ([]model.PageAnalysis, []Warning, error) {
	var warnings []Warning

	detector, err := visual.NewDetector(a.options.detectorName, a.options.detectorConfig)
	if err != nil {
		return nil, nil, err
	}

	mapper, err := mapping.NewMapperWithConfig(a.options.mapperConfig)
	if err != nil {
		return nil, nil, err
	}

	segmenter := segment.NewSegmenter()

	// OCR is optional: when unavailable, analysis proceeds without it
	var ocrClient *ocr.Client
	var ocrMu sync.Mutex
	if a.options.ocrRegions {
		client, ocrErr := ocr.New()
		if ocrErr != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("region OCR disabled: %v", ocrErr)})
		} else {
			ocrClient = client
			defer ocrClient.Close()
		}
	}

	workers := a.options.workers
	if workers <= 0 {
		workers = defaultWorkers()
	}
	if workers > len(pageNumbers) {
		workers = len(pageNumbers)
	}
	if workers < 1 {
		workers = 1
	}

	// Phase 1: per-page rendering, detection, and segmentation
	results := make([]model.PageAnalysis, len(pageNumbers))
	pageWarnings := make([][]Warning, len(pageNumbers))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, pageNum := range pageNumbers {
		g.Go(func() error {
			analysis, warns := a.analyzePage(pageNum, detector, segmenter, ocrClient, &ocrMu)
			results[i] = analysis
			pageWarnings[i] = warns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	for _, warns := range pageWarnings {
		warnings = append(warnings, warns...)
	}

	// Phase 2: relationship scoring. Each visual is scored against the
	// sections of every analyzed page within the mapper's page window.
	window := a.options.mapperConfig.PageWindow
	sectionsByPage := make(map[int][]model.TextSection, len(results))
	for _, page := range results {
		sectionsByPage[page.PageNumber] = page.Sections
	}

	for i := range results {
		page := &results[i]
		if len(page.Visuals) == 0 {
			continue
		}

		var windowSections []model.TextSection
		for offset := -window; offset <= window; offset++ {
			windowSections = append(windowSections, sectionsByPage[page.PageNumber+offset]...)
		}

		page.Mappings = mapper.Map(page.Visuals, windowSections)
	}

	return results, warnings, nil
}

// analyzePage renders one page and runs detection and segmentation on it.
// A page that cannot be rendered contributes an empty analysis and a warning.
func (a *Analyzer) analyzePage(pageNum int, detector visual.Detector, segmenter *segment.Segmenter, ocrClient *ocr.Client, ocrMu *sync.Mutex) (model.PageAnalysis, []Warning) {
	analysis := model.PageAnalysis{PageNumber: pageNum}
	var warnings []Warning

	img, err := a.source.RenderPage(pageNum, a.options.dpi)
	if err != nil {
		warnings = append(warnings, Warning{Page: pageNum, Message: fmt.Sprintf("render failed: %v", err)})
		img = nil
	}

	if img != nil {
		visuals, err := detector.Detect(img, pageNum)
		switch {
		case errors.Is(err, visual.ErrUnreadableImage):
			warnings = append(warnings, Warning{Page: pageNum, Message: "page image is unreadable, skipping detection"})
		case err != nil:
			warnings = append(warnings, Warning{Page: pageNum, Message: fmt.Sprintf("detection failed: %v", err)})
		default:
			analysis.Visuals = visuals
		}
	}

	if ocrClient != nil && img != nil {
		a.recognizeRegions(analysis.Visuals, img, ocrClient, ocrMu)
	}

	text, ok := a.options.pageText[pageNum]
	if !ok {
		text, err = a.source.PageText(pageNum)
		if err != nil {
			warnings = append(warnings, Warning{Page: pageNum, Message: fmt.Sprintf("text extraction failed: %v", err)})
			text = ""
		}
	}

	if a.options.htmlText && ok {
		analysis.Sections = segmenter.SegmentHTML(text, pageNum)
	} else {
		analysis.Sections = segmenter.Segment(text, pageNum)
	}

	return analysis, warnings
}

// recognizeRegions fills in ExtractedText for detected visuals. The OCR
// client is not safe for concurrent use, so calls are serialized.
func (a *Analyzer) recognizeRegions(visuals []model.VisualElement, img image.Image, client *ocr.Client, mu *sync.Mutex) {
	for i := range visuals {
		mu.Lock()
		text, err := client.RecognizeRegion(img, visuals[i].BBox)
		mu.Unlock()
		if err == nil {
			visuals[i].ExtractedText = text
		}
	}
}

// defaultWorkers returns the logical CPU count
func defaultWorkers() int {
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		return count
	}
	return runtime.NumCPU()
}
