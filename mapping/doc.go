// Package mapping scores relationships between detected visual elements and
// text sections, and aggregates per-page results into a document-level
// mapping.
//
// Scoring combines several signals: exact numbered references ("Figure 2"),
// generic reference phrases ("as shown below"), data-keyword overlap, spatial
// proximity on the page, and caption categorization. The exact-reference
// weight exceeds the combined weight of every other signal, so a section that
// names a visual by number always outranks sections that merely sit near it.
//
// Pairs are only scored within a configurable page window, and scores decay
// geometrically with page distance.
//
//	mapper := mapping.NewMapper()
//	mappings := mapper.Map(page.Visuals, page.Sections)
package mapping
