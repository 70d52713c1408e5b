// Package visual detects candidate visual elements (charts, tables, figures,
// diagrams) on rendered page images using classical image-processing
// heuristics: Sobel edge detection and morphological dilation to find
// candidate regions, line-run analysis to recognize table grids, and
// density/aspect heuristics to tell charts from figures.
//
// Detection is intentionally conservative. Candidates below the configured
// confidence threshold are discarded rather than surfaced, and an unreadable
// page image yields ErrUnreadableImage, which callers should treat as a
// non-fatal, empty-page condition.
//
// Detectors are pluggable through the Detector interface and a named
// registry, so alternative strategies (e.g. an ML-backed detector) can be
// swapped in without changing callers:
//
//	det, err := visual.NewDetector("contrast", visual.DefaultConfig())
//	if err != nil {
//	    // handle error
//	}
//	elements, err := det.Detect(pageImage, pageNumber)
package visual
