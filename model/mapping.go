package model

// MappingBasis records which signals contributed to a relationship score
type MappingBasis uint8

const (
	// BasisReference indicates an exact numbered caption reference matched
	BasisReference MappingBasis = 1 << iota
	// BasisGenericReference indicates an unnumbered phrase like "as shown"
	BasisGenericReference
	// BasisKeyword indicates data-keyword overlap contributed
	BasisKeyword
	// BasisProximity indicates spatial proximity contributed
	BasisProximity
	// BasisCaption indicates the section is categorized as a caption
	BasisCaption
)

// Has reports whether the given signal contributed
func (b MappingBasis) Has(signal MappingBasis) bool {
	return b&signal != 0
}

// ContentVisualMapping is a scored link between one visual element and one
// text section. Mapping is many-to-many: a visual may map to several sections
// and a section to several visuals.
type ContentVisualMapping struct {
	// VisualID references the mapped VisualElement
	VisualID string

	// TextSectionID references the mapped TextSection
	TextSectionID string

	// Score is the relationship score in [0,1]
	Score float64

	// Basis records which signals contributed to Score
	Basis MappingBasis

	// PageDistance is the absolute page gap between the pair (0 = same page)
	PageDistance int
}

// PageAnalysis bundles the per-page outputs of detection, segmentation, and
// mapping. It is the unit of work the aggregator consumes; the per-page
// sequence handed to aggregation may contain holes for failed pages.
type PageAnalysis struct {
	PageNumber int
	Visuals    []VisualElement
	Sections   []TextSection
	Mappings   []ContentVisualMapping
}

// MappingStats summarizes a document-level mapping
type MappingStats struct {
	// TotalPages is the number of page results aggregated
	TotalPages int

	// VisualCount is the total number of detected visuals
	VisualCount int

	// SectionCount is the total number of text sections
	SectionCount int

	// HighConfidenceCount is the number of mappings with Score > 0.7
	HighConfidenceCount int
}

// DocumentMapping is the document-level result of aggregation: all retained
// mappings in page order, plus the visuals and sections that matched nothing.
// It is built once and read-only downstream.
type DocumentMapping struct {
	// Mappings are the retained mappings, ordered by page then score
	Mappings []ContentVisualMapping

	// UnmappedVisuals are visuals with no retained mapping
	UnmappedVisuals []VisualElement

	// UnmappedSections are text sections with no retained mapping
	UnmappedSections []TextSection

	// Stats summarizes the aggregation
	Stats MappingStats
}

// MappingsForVisual returns all mappings involving the given visual element,
// in aggregation order.
func (d *DocumentMapping) MappingsForVisual(visualID string) []ContentVisualMapping {
	var result []ContentVisualMapping
	for _, m := range d.Mappings {
		if m.VisualID == visualID {
			result = append(result, m)
		}
	}
	return result
}

// MappingsForSection returns all mappings involving the given text section,
// in aggregation order.
func (d *DocumentMapping) MappingsForSection(sectionID string) []ContentVisualMapping {
	var result []ContentVisualMapping
	for _, m := range d.Mappings {
		if m.TextSectionID == sectionID {
			result = append(result, m)
		}
	}
	return result
}

// BestMappingForVisual returns the highest-scoring mapping for a visual,
// or false if the visual has no mappings.
func (d *DocumentMapping) BestMappingForVisual(visualID string) (ContentVisualMapping, bool) {
	var best ContentVisualMapping
	found := false
	for _, m := range d.Mappings {
		if m.VisualID != visualID {
			continue
		}
		if !found || m.Score > best.Score {
			best = m
			found = true
		}
	}
	return best, found
}
