package visual

import (
	"errors"
	"fmt"
	"image"

	"github.com/tsawler/slidemap/model"
)

// ErrUnreadableImage is returned when a page image is nil or has no pixels.
// Callers should treat it as a non-fatal condition: the page simply has no
// detectable visuals.
var ErrUnreadableImage = errors.New("page image is unreadable")

// Detector is the interface for visual element detection strategies
type Detector interface {
	// Detect finds visual elements on a rendered page image.
	// Elements are returned in reading order with 1-based ordinals.
	Detect(img image.Image, pageNumber int) ([]model.VisualElement, error)

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum region area in pixels² for a candidate element
	MinRegionArea int `yaml:"min_region_area"`

	// Gradient magnitude threshold for edge detection
	EdgeThreshold float64 `yaml:"edge_threshold"`

	// Dilation kernel size in pixels (connects nearby edges)
	DilationKernel int `yaml:"dilation_kernel"`

	// Number of dilation passes
	DilationPasses int `yaml:"dilation_passes"`

	// Minimum confidence for a detection to be surfaced (0-1)
	MinConfidence float64 `yaml:"min_confidence"`

	// Minimum aligned line runs (each axis) to classify a region as a table
	MinGridLines int `yaml:"min_grid_lines"`

	// Pages wider than this are downscaled before analysis (0 disables)
	MaxAnalysisWidth int `yaml:"max_analysis_width"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRegionArea:    3000,
		EdgeThreshold:    30.0,
		DilationKernel:   5,
		DilationPasses:   2,
		MinConfidence:    0.5,
		MinGridLines:     3,
		MaxAnalysisWidth: 1200,
	}
}

// Validate checks the configuration for contract violations
func (c Config) Validate() error {
	if c.MinRegionArea < 0 {
		return fmt.Errorf("min region area must not be negative, got %d", c.MinRegionArea)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be in [0,1], got %f", c.MinConfidence)
	}
	if c.DilationKernel < 1 {
		return fmt.Errorf("dilation kernel must be at least 1, got %d", c.DilationKernel)
	}
	return nil
}

// DetectorRegistry holds registered detector factories. Lookups construct a
// fresh detector per call, so a configured instance is never shared between
// concurrent analyses.
type DetectorRegistry struct {
	factories map[string]func() Detector
}

// NewRegistry creates a new detector registry
func NewRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		factories: make(map[string]func() Detector),
	}
}

// Register registers a detector factory under a name
func (r *DetectorRegistry) Register(name string, factory func() Detector) {
	r.factories[name] = factory
}

// Get constructs a new detector by name
func (r *DetectorRegistry) Get(name string) Detector {
	factory := r.factories[name]
	if factory == nil {
		return nil
	}
	return factory()
}

// List returns all registered detector names
func (r *DetectorRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterDetector registers a detector factory globally
func RegisterDetector(name string, factory func() Detector) {
	globalRegistry.Register(name, factory)
}

// NewDetector creates a configured detector by name. An empty name selects
// the default contrast detector.
func NewDetector(name string, config Config) (Detector, error) {
	if name == "" {
		name = "contrast"
	}
	det := globalRegistry.Get(name)
	if det == nil {
		return nil, fmt.Errorf("unknown detector: %s (registered: %v)", name, globalRegistry.List())
	}
	if err := det.Configure(config); err != nil {
		return nil, err
	}
	return det, nil
}

// ListDetectors returns all registered detector names
func ListDetectors() []string {
	return globalRegistry.List()
}

func init() {
	RegisterDetector("contrast", func() Detector { return NewContrastDetector() })
}
