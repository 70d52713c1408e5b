package slidemap

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/slidemap/model"
)

// fakePage is one page of an in-memory document
type fakePage struct {
	img       image.Image
	text      string
	renderErr error
	textErr   error
}

// fakeSource serves pre-built pages, standing in for a rendered PDF
type fakeSource struct {
	pages []fakePage
}

func (s *fakeSource) PageCount() int {
	return len(s.pages)
}

func (s *fakeSource) RenderPage(pageNumber int, dpi int) (image.Image, error) {
	p := s.pages[pageNumber-1]
	if p.renderErr != nil {
		return nil, p.renderErr
	}
	return p.img, nil
}

func (s *fakeSource) PageText(pageNumber int) (string, error) {
	p := s.pages[pageNumber-1]
	if p.textErr != nil {
		return "", p.textErr
	}
	return p.text, nil
}

func (s *fakeSource) Close() error {
	return nil
}

// whitePage creates a blank page image
func whitePage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// paintRect paints a filled black rectangle
func paintRect(img *image.RGBA, x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.Set(x+dx, y+dy, color.Black)
		}
	}
}

// tablePage creates a page with a ruled grid that detects as a table
func tablePage() *image.RGBA {
	img := whitePage(400, 600)
	for i := 0; i < 4; i++ {
		paintRect(img, 50, 100+i*(200/3), 300, 2)
		paintRect(img, 50+i*(300/3), 100, 2, 200)
	}
	return img
}

func TestOpen_MissingFile(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")).Mapping()
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestOpen_NoFilename(t *testing.T) {
	_, _, err := Open("").Mapping()
	if err == nil {
		t.Error("Expected error for empty filename")
	}
}

func TestOpen_ReusableAfterTerminalOp(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "page1.png"))
	if err != nil {
		t.Fatalf("Failed to create page image: %v", err)
	}
	if err := png.Encode(f, whitePage(100, 100)); err != nil {
		t.Fatalf("Failed to encode page image: %v", err)
	}
	f.Close()

	an := Open(dir)
	if _, _, err := an.Mapping(); err != nil {
		t.Fatalf("First mapping failed: %v", err)
	}

	// Terminal operations auto-close the source; the next one reopens it
	dm, _, err := an.Mapping()
	if err != nil {
		t.Fatalf("Second mapping failed: %v", err)
	}
	if dm.Stats.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", dm.Stats.TotalPages)
	}
}

func TestMapping_TextOnlyDocument(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{img: whitePage(400, 600), text: "INTRODUCTION\n\nNothing visual on this page, just prose about methods."},
	}}

	dm, warnings, err := FromSource(src).Mapping()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", warnings)
	}

	if len(dm.Mappings) != 0 {
		t.Errorf("Expected no mappings, got %d", len(dm.Mappings))
	}
	if len(dm.UnmappedSections) != 2 {
		t.Errorf("Expected 2 unmapped sections, got %d", len(dm.UnmappedSections))
	}
	if dm.Stats.TotalPages != 1 || dm.Stats.VisualCount != 0 {
		t.Errorf("Unexpected stats: %+v", dm.Stats)
	}
}

func TestMapping_TableWithCaption(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{
			img:  tablePage(),
			text: "Table 1: Quarterly results by region\n\nRevenue grew steadily across all regions during the period.",
		},
	}}

	pages, _, err := FromSource(src).AnalyzePages()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pages))
	}
	if len(pages[0].Visuals) != 1 {
		t.Fatalf("Expected 1 visual, got %d", len(pages[0].Visuals))
	}

	table := pages[0].Visuals[0]
	if table.Type != model.VisualTypeTable {
		t.Errorf("Expected table, got %s", table.Type)
	}

	dm, _, err := FromSource(src).Mapping()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(dm.Mappings) == 0 {
		t.Fatal("Expected at least one mapping")
	}
	if len(dm.UnmappedVisuals) != 0 {
		t.Errorf("Expected table to be mapped, unmapped: %+v", dm.UnmappedVisuals)
	}

	// The caption names the table by number, so its mapping dominates
	best := dm.Mappings[0]
	if best.Score <= 0.8 {
		t.Errorf("Expected caption mapping above 0.8, got %g", best.Score)
	}
	if !best.Basis.Has(model.BasisReference) {
		t.Error("Expected reference basis on the caption mapping")
	}
	if !best.Basis.Has(model.BasisCaption) {
		t.Error("Expected caption basis on the caption mapping")
	}
}

func TestMapping_TextlessPageLeavesVisualUnmapped(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{img: tablePage()},
	}}

	dm, _, err := FromSource(src).Mapping()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(dm.Mappings) != 0 {
		t.Errorf("Expected no mappings without text, got %d", len(dm.Mappings))
	}
	if len(dm.UnmappedVisuals) != 1 {
		t.Fatalf("Expected 1 unmapped visual, got %d", len(dm.UnmappedVisuals))
	}
	if dm.UnmappedVisuals[0].Type != model.VisualTypeTable {
		t.Errorf("Expected unmapped table, got %s", dm.UnmappedVisuals[0].Type)
	}
}

func TestMapping_RenderFailureBecomesWarning(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{img: whitePage(400, 600), text: "First page text for the analysis, long enough to segment."},
		{renderErr: errors.New("corrupt page stream")},
	}}

	dm, warnings, err := FromSource(src).Mapping()
	if err != nil {
		t.Fatalf("Expected warnings rather than an error, got: %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Page != 2 {
		t.Errorf("Warning page = %d, want 2", warnings[0].Page)
	}
	if !strings.Contains(FormatWarnings(warnings), "corrupt page stream") {
		t.Errorf("Warning does not mention the cause: %v", warnings[0])
	}

	// The failed page still counts toward the aggregate
	if dm.Stats.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", dm.Stats.TotalPages)
	}
}

func TestMapping_NegativePageWindow(t *testing.T) {
	src := &fakeSource{pages: []fakePage{{img: whitePage(100, 100)}}}

	_, _, err := FromSource(src).PageWindow(-1).Mapping()
	if err == nil {
		t.Error("Expected error for negative page window")
	}
}

func TestMapping_PageOutOfRange(t *testing.T) {
	src := &fakeSource{pages: []fakePage{{img: whitePage(100, 100)}}}

	_, _, err := FromSource(src).Pages(5).Mapping()
	if err == nil {
		t.Error("Expected error for page out of range")
	}
	_, _, err = FromSource(src).Pages(0).Mapping()
	if err == nil {
		t.Error("Expected error for page 0 (1-indexed)")
	}
}

func TestWithPageText_OverridesSourceText(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{img: whitePage(400, 600), text: "embedded text that should be ignored entirely"},
	}}

	pages, _, err := FromSource(src).
		WithPageText(map[int]string{1: "Supplied transcript of the first page, used instead."}).
		AnalyzePages()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pages[0].Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(pages[0].Sections))
	}
	if !strings.Contains(pages[0].Sections[0].Text, "Supplied transcript") {
		t.Errorf("Section text came from the wrong source: %q", pages[0].Sections[0].Text)
	}
}

func TestWithPageText_HTML(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{img: whitePage(400, 600)},
	}}

	pages, _, err := FromSource(src).
		WithPageText(map[int]string{1: "<p>First paragraph from markup.</p><p>Second paragraph from markup.</p>"}).
		AsHTML().
		AnalyzePages()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pages[0].Sections) != 2 {
		t.Fatalf("Expected 2 sections from HTML blocks, got %d", len(pages[0].Sections))
	}
	if strings.Contains(pages[0].Sections[0].Text, "<p>") {
		t.Errorf("Markup leaked into section text: %q", pages[0].Sections[0].Text)
	}
}

func TestAnalyzer_ChainImmutability(t *testing.T) {
	src := &fakeSource{pages: []fakePage{{img: whitePage(100, 100)}}}

	base := FromSource(src)
	derived := base.Pages(1).DPI(300).PageWindow(2)

	if len(base.options.pages) != 0 {
		t.Error("Base analyzer pages mutated by chain")
	}
	if base.options.dpi != 150 {
		t.Errorf("Base analyzer DPI mutated: %d", base.options.dpi)
	}
	if derived.options.dpi != 300 || derived.options.mapperConfig.PageWindow != 2 {
		t.Errorf("Derived analyzer missing configuration: %+v", derived.options)
	}
}

func TestPageCount(t *testing.T) {
	src := &fakeSource{pages: []fakePage{
		{img: whitePage(100, 100)},
		{img: whitePage(100, 100)},
		{img: whitePage(100, 100)},
	}}

	an := FromSource(src)
	defer an.Close()

	count, err := an.PageCount()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("PageCount = %d, want 3", count)
	}
}

func TestFormatWarnings(t *testing.T) {
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("Expected empty string for no warnings, got %q", got)
	}

	warnings := []Warning{
		{Page: 2, Message: "render failed"},
		{Message: "region OCR disabled"},
	}
	got := FormatWarnings(warnings)
	if got != "page 2: render failed; region OCR disabled" {
		t.Errorf("Unexpected format: %q", got)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	settings := DefaultSettings()
	settings.DPI = 200
	settings.Mapping.PageWindow = 3
	settings.Detection.MinGridLines = 5

	path := filepath.Join(t.TempDir(), "slidemap.yaml")
	if err := WriteSettings(settings, path); err != nil {
		t.Fatalf("WriteSettings failed: %v", err)
	}

	loaded, err := ReadSettings(path)
	if err != nil {
		t.Fatalf("ReadSettings failed: %v", err)
	}
	if loaded != settings {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", loaded, settings)
	}
}

func TestReadSettings_Missing(t *testing.T) {
	if _, err := ReadSettings(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing settings file")
	}
}

func TestReadSettings_Invalid(t *testing.T) {
	settings := DefaultSettings()
	settings.Mapping.PageWindow = -4

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := WriteSettings(settings, path); err != nil {
		t.Fatalf("WriteSettings failed: %v", err)
	}

	if _, err := ReadSettings(path); err == nil {
		t.Error("Expected validation error for negative page window")
	}
}
