package segment

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/tsawler/slidemap/model"
)

// Config holds segmentation parameters
type Config struct {
	// Minimum rune count for a block to become a section
	MinSectionRunes int

	// Maximum rune count for a block to qualify as a heading
	MaxHeadingRunes int

	// Blocks at a position index below this qualify as headings by position
	HeadingPositionLimit int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinSectionRunes:      3,
		MaxHeadingRunes:      80,
		HeadingPositionLimit: 3,
	}
}

// Segmenter splits extracted page text into categorized sections
type Segmenter struct {
	config Config
}

// NewSegmenter creates a segmenter with default configuration
func NewSegmenter() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration
func NewSegmenterWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

// Segment splits page text into sections in reading order. Empty or
// whitespace-only input yields an empty result.
func (s *Segmenter) Segment(text string, pageNumber int) []model.TextSection {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sections []model.TextSection
	position := 0

	for _, block := range splitBlocks(text) {
		if len([]rune(block)) < s.config.MinSectionRunes {
			continue
		}

		sections = append(sections, model.TextSection{
			ID:         uuid.NewString(),
			PageNumber: pageNumber,
			Text:       block,
			Category:   s.categorize(block, position),
			Position:   position,
			Keywords:   ExtractKeywords(block),
			References: ParseReferences(block),
		})
		position++
	}

	return sections
}

// splitBlocks breaks text into paragraph blocks on blank lines
func splitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	for _, raw := range strings.Split(text, "\n\n") {
		block := strings.TrimSpace(raw)
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	return blocks
}

// categorize applies the classification rules in priority order: an opening
// visual reference is the strongest caption evidence and wins over the
// heading rules.
func (s *Segmenter) categorize(block string, position int) model.SectionCategory {
	if startsWithReference(block) {
		return model.CategoryCaption
	}
	if isList(block) {
		return model.CategoryList
	}
	if s.isHeading(block, position) {
		return model.CategoryHeading
	}
	return model.CategoryBody
}

// isHeading checks for a short, lightly punctuated single line that either
// sits high on the page or is set in all capitals.
func (s *Segmenter) isHeading(block string, position int) bool {
	if strings.Contains(block, "\n") {
		return false
	}
	if len([]rune(block)) > s.config.MaxHeadingRunes {
		return false
	}
	if countSentencePunctuation(block) > 1 || strings.HasSuffix(block, ".") {
		return false
	}
	return position < s.config.HeadingPositionLimit || isAllCaps(block)
}

// isList checks whether at least half of the block's lines carry a bullet
// or enumeration prefix.
func isList(block string) bool {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return false
	}

	prefixed := 0
	for _, line := range lines {
		if hasListPrefix(strings.TrimSpace(line)) {
			prefixed++
		}
	}

	return prefixed*2 >= len(lines)
}

// hasListPrefix recognizes bullet characters and "1." / "a)" enumerations
func hasListPrefix(line string) bool {
	if line == "" {
		return false
	}

	switch line[0] {
	case '-', '*', '+':
		return len(line) > 1 && line[1] == ' '
	}
	if r := []rune(line)[0]; r == '•' || r == '◦' || r == '▪' {
		return true
	}

	// Enumerations: digits or a single letter followed by '.' or ')'
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 && len(line) > 1 && unicode.IsLetter(rune(line[0])) {
		i = 1
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return len(line) > i+1 && line[i+1] == ' '
	}

	return false
}

// countSentencePunctuation counts sentence-terminating marks
func countSentencePunctuation(s string) int {
	count := 0
	for _, r := range s {
		switch r {
		case '.', '!', '?', ';', ':':
			count++
		}
	}
	return count
}

// isAllCaps reports whether the text contains letters and none are lowercase
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
