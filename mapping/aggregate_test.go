package mapping

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/slidemap/model"
)

func TestAggregate_Empty(t *testing.T) {
	doc := Aggregate(nil)
	if doc == nil {
		t.Fatal("Expected non-nil document mapping")
	}
	if len(doc.Mappings) != 0 || len(doc.UnmappedVisuals) != 0 || len(doc.UnmappedSections) != 0 {
		t.Errorf("Expected empty result, got %+v", doc)
	}
	if doc.Stats != (model.MappingStats{}) {
		t.Errorf("Expected zero stats, got %+v", doc.Stats)
	}
}

func TestAggregate_PageOrderAndDedupe(t *testing.T) {
	shared := model.ContentVisualMapping{
		VisualID:      "v1",
		TextSectionID: "s2",
		Score:         0.6,
		Basis:         model.BasisReference,
		PageDistance:  1,
	}

	pageTwo := model.PageAnalysis{
		PageNumber: 2,
		Visuals:    []model.VisualElement{testVisual("v2", 2, 1, model.VisualTypeTable)},
		Sections:   []model.TextSection{testSection("s2", 2, 0)},
		Mappings: []model.ContentVisualMapping{
			{VisualID: "v2", TextSectionID: "s2", Score: 0.8, Basis: model.BasisReference},
			shared,
		},
	}
	pageOne := model.PageAnalysis{
		PageNumber: 1,
		Visuals:    []model.VisualElement{testVisual("v1", 1, 1, model.VisualTypeChart)},
		Sections:   []model.TextSection{testSection("s1", 1, 0)},
		Mappings:   []model.ContentVisualMapping{shared},
	}

	// Input deliberately out of page order
	doc := Aggregate([]model.PageAnalysis{pageTwo, pageOne})

	if len(doc.Mappings) != 2 {
		t.Fatalf("Expected duplicate collapsed to 2 mappings, got %d", len(doc.Mappings))
	}
	if doc.Mappings[0].VisualID != "v1" {
		t.Errorf("Expected page 1 mapping first, got visual %s", doc.Mappings[0].VisualID)
	}
	if doc.Mappings[1].VisualID != "v2" {
		t.Errorf("Expected page 2 mapping second, got visual %s", doc.Mappings[1].VisualID)
	}
}

func TestAggregate_UnmappedElements(t *testing.T) {
	pages := []model.PageAnalysis{
		{
			PageNumber: 1,
			Visuals: []model.VisualElement{
				testVisual("v1", 1, 1, model.VisualTypeChart),
				testVisual("v-lonely", 1, 2, model.VisualTypeFigure),
			},
			Sections: []model.TextSection{
				testSection("s1", 1, 0),
				testSection("s-lonely", 1, 1),
			},
			Mappings: []model.ContentVisualMapping{
				{VisualID: "v1", TextSectionID: "s1", Score: 0.9, Basis: model.BasisReference},
			},
		},
		{
			// A page with text but no visuals at all
			PageNumber: 2,
			Sections:   []model.TextSection{testSection("s-alone", 2, 0)},
		},
	}

	doc := Aggregate(pages)

	if len(doc.UnmappedVisuals) != 1 || doc.UnmappedVisuals[0].ID != "v-lonely" {
		t.Errorf("Unexpected unmapped visuals: %+v", doc.UnmappedVisuals)
	}
	if len(doc.UnmappedSections) != 2 {
		t.Fatalf("Expected 2 unmapped sections, got %d", len(doc.UnmappedSections))
	}
	if doc.UnmappedSections[0].ID != "s-lonely" || doc.UnmappedSections[1].ID != "s-alone" {
		t.Errorf("Unexpected unmapped sections: %+v", doc.UnmappedSections)
	}
}

func TestAggregate_Stats(t *testing.T) {
	pages := []model.PageAnalysis{
		{
			PageNumber: 1,
			Visuals:    []model.VisualElement{testVisual("v1", 1, 1, model.VisualTypeChart)},
			Sections: []model.TextSection{
				testSection("s1", 1, 0),
				testSection("s2", 1, 1),
			},
			Mappings: []model.ContentVisualMapping{
				{VisualID: "v1", TextSectionID: "s1", Score: 0.95, Basis: model.BasisReference},
				{VisualID: "v1", TextSectionID: "s2", Score: 0.45, Basis: model.BasisKeyword},
			},
		},
		{
			PageNumber: 2,
			Visuals:    []model.VisualElement{testVisual("v2", 2, 1, model.VisualTypeTable)},
		},
	}

	doc := Aggregate(pages)

	want := model.MappingStats{
		TotalPages:          2,
		VisualCount:         2,
		SectionCount:        2,
		HighConfidenceCount: 1,
	}
	if doc.Stats != want {
		t.Errorf("Stats = %+v, want %+v", doc.Stats, want)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	pages := []model.PageAnalysis{
		{
			PageNumber: 1,
			Visuals:    []model.VisualElement{testVisual("v1", 1, 1, model.VisualTypeChart)},
			Sections:   []model.TextSection{testSection("s1", 1, 0)},
			Mappings: []model.ContentVisualMapping{
				{VisualID: "v1", TextSectionID: "s1", Score: 0.8, Basis: model.BasisReference},
			},
		},
	}

	first := Aggregate(pages)
	second := Aggregate(pages)
	if !reflect.DeepEqual(first, second) {
		t.Error("Aggregation is not idempotent")
	}
}

func TestUsageSuggestion(t *testing.T) {
	mapped := testVisual("v1", 2, 1, model.VisualTypeChart)
	weak := testVisual("v2", 2, 2, model.VisualTypeTable)
	unmapped := testVisual("v3", 3, 1, model.VisualTypeFigure)

	doc := Aggregate([]model.PageAnalysis{
		{
			PageNumber: 2,
			Visuals:    []model.VisualElement{mapped, weak},
			Sections:   []model.TextSection{testSection("s1", 2, 0)},
			Mappings: []model.ContentVisualMapping{
				{VisualID: "v1", TextSectionID: "s1", Score: 0.9, Basis: model.BasisReference},
				{VisualID: "v2", TextSectionID: "s1", Score: 0.4, Basis: model.BasisKeyword},
			},
		},
		{
			PageNumber: 3,
			Visuals:    []model.VisualElement{unmapped},
		},
	})

	tests := []struct {
		name   string
		visual model.VisualElement
		want   string
	}{
		{"high confidence", mapped, "alongside"},
		{"low confidence", weak, "supporting material"},
		{"unmapped", unmapped, "standalone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UsageSuggestion(tt.visual, doc)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Suggestion %q does not contain %q", got, tt.want)
			}
		})
	}
}
