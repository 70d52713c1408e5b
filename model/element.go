package model

// VisualType represents the classified type of a detected visual element
type VisualType int

const (
	VisualTypeUnknown VisualType = iota
	VisualTypeChart
	VisualTypeTable
	VisualTypeFigure
	VisualTypeDiagram
)

func (vt VisualType) String() string {
	switch vt {
	case VisualTypeChart:
		return "chart"
	case VisualTypeTable:
		return "table"
	case VisualTypeFigure:
		return "figure"
	case VisualTypeDiagram:
		return "diagram"
	default:
		return "unknown"
	}
}

// VisualElement is a detected chart, table, figure, or diagram region on a
// rendered page image. Instances are immutable after detection.
type VisualElement struct {
	// ID uniquely identifies the element within a document
	ID string

	// PageNumber is the source page (1-indexed)
	PageNumber int

	// BBox is the element's bounding box in pixels of the rendered page image
	BBox BBox

	// PageBounds is the full extent of the rendered page image, used to
	// normalize positions when scoring proximity
	PageBounds BBox

	// Type is the classified visual type
	Type VisualType

	// Ordinal is the 1-based detection order of the element on its page.
	// Caption references like "Figure 2" are matched against it.
	Ordinal int

	// Confidence is the detection confidence in [0,1]
	Confidence float64

	// ExtractedText is OCR text recovered from the region, if OCR ran
	ExtractedText string
}

// NormalizedCenter returns the element's center scaled to [0,1] in both axes
// using PageBounds. Returns false if the page bounds are unknown.
func (v VisualElement) NormalizedCenter() (Point, bool) {
	if !v.PageBounds.IsValid() {
		return Point{}, false
	}
	c := v.BBox.Center()
	return Point{
		X: c.X / v.PageBounds.Width,
		Y: c.Y / v.PageBounds.Height,
	}, true
}

// SectionCategory represents the classified role of a text section
type SectionCategory int

const (
	CategoryBody SectionCategory = iota
	CategoryHeading
	CategoryCaption
	CategoryList
)

func (sc SectionCategory) String() string {
	switch sc {
	case CategoryHeading:
		return "heading"
	case CategoryCaption:
		return "caption"
	case CategoryList:
		return "list"
	default:
		return "body"
	}
}

// Reference is a parsed mention of a visual element found in text,
// such as "Figure 3", "Table 1", or a generic phrase like "as shown below".
type Reference struct {
	// Kind is the referenced visual type. VisualTypeUnknown for generic
	// phrases that name no particular kind.
	Kind VisualType

	// Ordinal is the referenced number (0 when the reference is unnumbered)
	Ordinal int

	// Text is the matched source text
	Text string
}

// IsExact reports whether the reference names a specific numbered visual
func (r Reference) IsExact() bool {
	return r.Ordinal > 0
}

// Matches reports whether an exact reference resolves to the given visual.
// A "figure" reference matches any visual type, since prose commonly calls
// charts and diagrams figures; other kinds must match the classified type.
func (r Reference) Matches(v VisualElement) bool {
	if !r.IsExact() || r.Ordinal != v.Ordinal {
		return false
	}
	if r.Kind == VisualTypeFigure || r.Kind == VisualTypeUnknown {
		return true
	}
	return r.Kind == v.Type
}

// TextSection is a contiguous, categorized unit of extracted page text.
// Instances are immutable after segmentation.
type TextSection struct {
	// ID uniquely identifies the section within a document
	ID string

	// PageNumber is the source page (1-indexed)
	PageNumber int

	// Text is the section content
	Text string

	// Category is the classified section role
	Category SectionCategory

	// Position is the section's reading-order index on its page.
	// A value of -1 means the section has no position evidence.
	Position int

	// Keywords are deduplicated lowercase data-related terms found in Text
	Keywords []string

	// References are parsed visual references found in Text
	References []Reference
}

// HasPosition reports whether the section carries page-position evidence
func (t TextSection) HasPosition() bool {
	return t.Position >= 0
}
