package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig tunes the sidebar geometry and interaction engine. All
// values have working defaults; a YAML file overrides them per deployment.
type EngineConfig struct {
	// Gap is the vertical spacing between sidebar rows, in pixels.
	Gap float64 `yaml:"gap"`
	// FolderHeaderHeight is the header band of an expanded folder; its
	// children stack below it.
	FolderHeaderHeight float64 `yaml:"folder_header_height"`

	// GroupBandFraction is the fraction of a document row, centered
	// vertically, that counts as a grouping target.
	GroupBandFraction float64 `yaml:"group_band_fraction"`
	// GroupBandPadX widens the grouping band horizontally.
	GroupBandPadX float64 `yaml:"group_band_pad_x"`
	// FolderPad inflates folder hit boxes during drags and drops.
	FolderPad float64 `yaml:"folder_pad"`

	// ScrollThreshold is the edge band height that triggers auto-scroll.
	ScrollThreshold float64 `yaml:"scroll_threshold"`
	// ScrollMaxSpeed is the auto-scroll speed at the viewport edge.
	ScrollMaxSpeed float64 `yaml:"scroll_max_speed"`

	// ExitDuration, EnterDuration and Stagger shape the reorganization
	// animation timeline.
	ExitDuration  time.Duration `yaml:"exit_duration"`
	EnterDuration time.Duration `yaml:"enter_duration"`
	Stagger       time.Duration `yaml:"stagger"`

	// RemeasureDelay is how long clients are given to re-report heights
	// after a structural change before geometry answers are trusted.
	RemeasureDelay time.Duration `yaml:"remeasure_delay"`
}

// DefaultEngineConfig returns the compiled-in tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Gap:                8,
		FolderHeaderHeight: 48,
		GroupBandFraction:  0.5,
		GroupBandPadX:      8,
		FolderPad:          20,
		ScrollThreshold:    60,
		ScrollMaxSpeed:     14,
		ExitDuration:       300 * time.Millisecond,
		EnterDuration:      250 * time.Millisecond,
		Stagger:            60 * time.Millisecond,
		RemeasureDelay:     120 * time.Millisecond,
	}
}

// LoadEngineConfig reads tuning overrides from a YAML file. An empty path
// returns the defaults; missing keys keep their default values.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading engine config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing engine config: %w", err)
	}
	return cfg, nil
}
