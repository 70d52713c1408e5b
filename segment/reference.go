package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/slidemap/model"
)

// exactRefPattern matches numbered references like "Figure 3" or "tbl. 2"
var exactRefPattern = regexp.MustCompile(`(?i)\b(figure|fig\.?|table|tbl\.?|chart|graph|plot|diagram)\s+(\d+)`)

// genericRefPatterns match unnumbered visual references
var genericRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsee\s+(above|below)\b`),
	regexp.MustCompile(`(?i)\bas\s+shown\b`),
	regexp.MustCompile(`(?i)\bdepicted\s+in\b`),
	regexp.MustCompile(`(?i)\billustrated\s+(in|by)\b`),
}

// ParseReferences extracts visual references from text, numbered references
// first, in order of appearance.
func ParseReferences(text string) []model.Reference {
	var refs []model.Reference

	for _, m := range exactRefPattern.FindAllStringSubmatch(text, -1) {
		ordinal, err := strconv.Atoi(m[2])
		if err != nil || ordinal < 1 {
			continue
		}
		refs = append(refs, model.Reference{
			Kind:    referenceKind(m[1]),
			Ordinal: ordinal,
			Text:    m[0],
		})
	}

	for _, pattern := range genericRefPatterns {
		if m := pattern.FindString(text); m != "" {
			refs = append(refs, model.Reference{
				Kind: model.VisualTypeUnknown,
				Text: m,
			})
		}
	}

	return refs
}

// referenceKind maps a reference word to the visual type it names
func referenceKind(word string) model.VisualType {
	switch strings.TrimSuffix(strings.ToLower(word), ".") {
	case "figure", "fig":
		return model.VisualTypeFigure
	case "table", "tbl":
		return model.VisualTypeTable
	case "chart", "graph", "plot":
		return model.VisualTypeChart
	case "diagram":
		return model.VisualTypeDiagram
	default:
		return model.VisualTypeUnknown
	}
}

// startsWithReference reports whether text opens with a numbered reference,
// the strongest indicator of a caption.
func startsWithReference(text string) bool {
	loc := exactRefPattern.FindStringIndex(text)
	return loc != nil && loc[0] == 0
}
