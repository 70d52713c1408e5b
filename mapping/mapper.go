package mapping

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/slidemap/model"
)

// Weights holds the contribution of each scoring signal. The sum of every
// non-reference weight (with keyword overlap at its cap) must stay at or
// below the reference weight for exact references to dominate.
type Weights struct {
	// Reference is the score for an exact numbered reference match
	Reference float64 `yaml:"reference"`

	// GenericReference is the score for an unnumbered reference phrase
	GenericReference float64 `yaml:"generic_reference"`

	// KeywordEach is the score per data keyword found in the section
	KeywordEach float64 `yaml:"keyword_each"`

	// KeywordCap bounds the total keyword contribution
	KeywordCap float64 `yaml:"keyword_cap"`

	// Proximity scales the spatial proximity contribution
	Proximity float64 `yaml:"proximity"`

	// CaptionBonus is added when the section is categorized as a caption
	CaptionBonus float64 `yaml:"caption_bonus"`
}

// Config holds relationship scoring parameters
type Config struct {
	// Weights are the per-signal score contributions
	Weights Weights `yaml:"weights"`

	// PageWindow is the maximum page distance at which pairs are scored.
	// 0 restricts mapping to same-page pairs.
	PageWindow int `yaml:"page_window"`

	// AdjacentDecay is the per-page geometric decay factor applied to
	// cross-page scores, in (0,1]
	AdjacentDecay float64 `yaml:"adjacent_decay"`

	// MinScore is the threshold below which mappings are discarded
	MinScore float64 `yaml:"min_score"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Reference:        0.8,
			GenericReference: 0.25,
			KeywordEach:      0.05,
			KeywordCap:       0.15,
			Proximity:        0.25,
			CaptionBonus:     0.1,
		},
		PageWindow:    1,
		AdjacentDecay: 0.75,
		MinScore:      0.3,
	}
}

// Validate checks configuration values
func (c Config) Validate() error {
	if c.PageWindow < 0 {
		return fmt.Errorf("page window must be non-negative, got %d", c.PageWindow)
	}
	if c.AdjacentDecay <= 0 || c.AdjacentDecay > 1 {
		return fmt.Errorf("adjacent decay must be in (0,1], got %g", c.AdjacentDecay)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("minimum score must be in [0,1], got %g", c.MinScore)
	}
	for name, w := range map[string]float64{
		"reference":         c.Weights.Reference,
		"generic reference": c.Weights.GenericReference,
		"keyword":           c.Weights.KeywordEach,
		"keyword cap":       c.Weights.KeywordCap,
		"proximity":         c.Weights.Proximity,
		"caption bonus":     c.Weights.CaptionBonus,
	} {
		if w < 0 {
			return fmt.Errorf("%s weight must be non-negative, got %g", name, w)
		}
	}
	return nil
}

// Mapper scores visual-to-text relationships
type Mapper struct {
	config Config
}

// NewMapper creates a mapper with default configuration
func NewMapper() *Mapper {
	return &Mapper{config: DefaultConfig()}
}

// NewMapperWithConfig creates a mapper with custom configuration
func NewMapperWithConfig(config Config) (*Mapper, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapping config: %w", err)
	}
	return &Mapper{config: config}, nil
}

// Map scores every visual/section pair within the page window and returns
// the mappings that clear the minimum score. The result is deterministic:
// ordered by score descending, then page distance, then visual ordinal,
// then section position.
func (m *Mapper) Map(visuals []model.VisualElement, sections []model.TextSection) []model.ContentVisualMapping {
	if len(visuals) == 0 || len(sections) == 0 {
		return nil
	}

	sectionsPerPage := make(map[int]int)
	for _, s := range sections {
		sectionsPerPage[s.PageNumber]++
	}

	var mappings []model.ContentVisualMapping
	order := make(map[string]int, len(visuals))

	for _, v := range visuals {
		for _, s := range sections {
			distance := pageDistance(v.PageNumber, s.PageNumber)
			if distance > m.config.PageWindow {
				continue
			}

			raw, basis := m.score(v, s, sectionsPerPage[s.PageNumber])
			if basis == 0 {
				continue
			}

			score := clamp01(raw) * math.Pow(m.config.AdjacentDecay, float64(distance))
			if score < m.config.MinScore {
				continue
			}

			order[v.ID] = v.Ordinal
			mappings = append(mappings, model.ContentVisualMapping{
				VisualID:      v.ID,
				TextSectionID: s.ID,
				Score:         score,
				Basis:         basis,
				PageDistance:  distance,
			})
		}
	}

	position := make(map[string]int, len(sections))
	for _, s := range sections {
		position[s.ID] = s.Position
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i], mappings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PageDistance != b.PageDistance {
			return a.PageDistance < b.PageDistance
		}
		if order[a.VisualID] != order[b.VisualID] {
			return order[a.VisualID] < order[b.VisualID]
		}
		return position[a.TextSectionID] < position[b.TextSectionID]
	})

	return mappings
}

// score sums the raw signal contributions for one pair and records which
// signals fired.
func (m *Mapper) score(v model.VisualElement, s model.TextSection, sectionCount int) (float64, model.MappingBasis) {
	w := m.config.Weights
	var total float64
	var basis model.MappingBasis

	exact, generic := false, false
	for _, ref := range s.References {
		if ref.IsExact() {
			if ref.Matches(v) {
				exact = true
			}
		} else {
			generic = true
		}
	}
	if exact {
		total += w.Reference
		basis |= model.BasisReference
	}
	if generic {
		total += w.GenericReference
		basis |= model.BasisGenericReference
	}

	if len(s.Keywords) > 0 {
		kw := float64(len(s.Keywords)) * w.KeywordEach
		if kw > w.KeywordCap {
			kw = w.KeywordCap
		}
		total += kw
		basis |= model.BasisKeyword
	}

	if prox := m.proximity(v, s, sectionCount); prox > 0 {
		total += prox
		basis |= model.BasisProximity
	}

	if s.Category == model.CategoryCaption {
		total += w.CaptionBonus
		basis |= model.BasisCaption
	}

	return total, basis
}

// proximity scores vertical closeness between the visual's center and the
// section's reading-order band on the page. It requires same-page pairs,
// known page bounds, and position evidence; otherwise it contributes nothing.
func (m *Mapper) proximity(v model.VisualElement, s model.TextSection, sectionCount int) float64 {
	if v.PageNumber != s.PageNumber || !s.HasPosition() || sectionCount == 0 {
		return 0
	}
	center, ok := v.NormalizedCenter()
	if !ok {
		return 0
	}

	band := (float64(s.Position) + 0.5) / float64(sectionCount)
	return m.config.Weights.Proximity * (1 - math.Abs(center.Y-band))
}

func pageDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
