package mapping

import (
	"fmt"
	"sort"

	"github.com/tsawler/slidemap/model"
)

// highConfidenceThreshold marks mappings strong enough to place a visual
// directly alongside its text on a slide.
const highConfidenceThreshold = 0.7

// Aggregate merges per-page analysis results into a document-level mapping.
// Pages are processed in page-number order regardless of input order, and
// duplicate (visual, section) pairs keep their first occurrence, so the
// result is deterministic and aggregation is idempotent. An empty input
// yields an empty, non-nil result.
func Aggregate(pages []model.PageAnalysis) *model.DocumentMapping {
	doc := &model.DocumentMapping{
		Mappings:         []model.ContentVisualMapping{},
		UnmappedVisuals:  []model.VisualElement{},
		UnmappedSections: []model.TextSection{},
	}

	ordered := make([]model.PageAnalysis, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageNumber < ordered[j].PageNumber
	})

	seen := make(map[[2]string]bool)
	mappedVisuals := make(map[string]bool)
	mappedSections := make(map[string]bool)

	for _, page := range ordered {
		doc.Stats.TotalPages++
		doc.Stats.VisualCount += len(page.Visuals)
		doc.Stats.SectionCount += len(page.Sections)

		for _, m := range page.Mappings {
			key := [2]string{m.VisualID, m.TextSectionID}
			if seen[key] {
				continue
			}
			seen[key] = true
			mappedVisuals[m.VisualID] = true
			mappedSections[m.TextSectionID] = true

			doc.Mappings = append(doc.Mappings, m)
			if m.Score > highConfidenceThreshold {
				doc.Stats.HighConfidenceCount++
			}
		}
	}

	for _, page := range ordered {
		for _, v := range page.Visuals {
			if !mappedVisuals[v.ID] {
				doc.UnmappedVisuals = append(doc.UnmappedVisuals, v)
			}
		}
		for _, s := range page.Sections {
			if !mappedSections[s.ID] {
				doc.UnmappedSections = append(doc.UnmappedSections, s)
			}
		}
	}

	return doc
}

// UsageSuggestion returns presentation advice for a visual based on its best
// mapping in the document. Strongly mapped visuals belong next to their text,
// weakly mapped ones serve as supporting material, and unmapped ones get
// their own slide.
func UsageSuggestion(v model.VisualElement, doc *model.DocumentMapping) string {
	best, ok := doc.BestMappingForVisual(v.ID)
	if !ok {
		return fmt.Sprintf("Place %s %d from page %d on a standalone slide", v.Type, v.Ordinal, v.PageNumber)
	}
	if best.Score > highConfidenceThreshold {
		return fmt.Sprintf("Place %s %d alongside its related text from page %d", v.Type, v.Ordinal, v.PageNumber)
	}
	return fmt.Sprintf("Use %s %d from page %d as supporting material for its related text", v.Type, v.Ordinal, v.PageNumber)
}
