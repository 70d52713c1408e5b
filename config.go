package slidemap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/slidemap/mapping"
	"github.com/tsawler/slidemap/visual"
)

// Settings is the serializable form of the analyzer configuration. It lets
// detection and scoring parameters be tuned per document collection without
// recompiling.
type Settings struct {
	DPI       int            `yaml:"dpi"`
	Workers   int            `yaml:"workers"`
	Detector  string         `yaml:"detector"`
	Detection visual.Config  `yaml:"detection"`
	Mapping   mapping.Config `yaml:"mapping"`
}

// DefaultSettings returns the default analyzer settings
func DefaultSettings() Settings {
	return Settings{
		DPI:       150,
		Workers:   0,
		Detector:  "",
		Detection: visual.DefaultConfig(),
		Mapping:   mapping.DefaultConfig(),
	}
}

// ReadSettings loads settings from a YAML file. Fields absent from the file
// keep their default values.
func ReadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := settings.Detection.Validate(); err != nil {
		return settings, fmt.Errorf("%s: %w", path, err)
	}
	if err := settings.Mapping.Validate(); err != nil {
		return settings, fmt.Errorf("%s: %w", path, err)
	}

	return settings, nil
}

// WriteSettings writes settings to a YAML file
func WriteSettings(settings Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// WithSettings applies loaded settings to the analyzer.
//
// Example:
//
//	settings, err := slidemap.ReadSettings("slidemap.yaml")
//	if err != nil {
//	    // handle error
//	}
//	dm, _, err := slidemap.Open("report.pdf").WithSettings(settings).Mapping()
func (a *Analyzer) WithSettings(settings Settings) *Analyzer {
	newA := a.clone()
	newA.options.dpi = settings.DPI
	newA.options.workers = settings.Workers
	newA.options.detectorName = settings.Detector
	newA.options.detectorConfig = settings.Detection
	newA.options.mapperConfig = settings.Mapping
	return newA
}
