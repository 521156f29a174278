// Package config holds the firm's reference data: labor rates, sampling
// defaults, hazard component lists, and the laboratory price book. The
// built-in defaults can be overridden with a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxConfigFileSize is the maximum allowed reference file size (1 MiB).
const maxConfigFileSize = 1 << 20

// TurnTimeConfig is one turnaround-time option offered by a laboratory.
type TurnTimeConfig struct {
	Label string `yaml:"label"`
	Hours int    `yaml:"hours"`
}

// TestConfig is one analytical test with its price per turnaround label.
type TestConfig struct {
	Name  string             `yaml:"name"`
	Rates map[string]float64 `yaml:"rates"`
}

// CategoryConfig is one service category and its tests.
type CategoryConfig struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Tests       []TestConfig `yaml:"tests"`
}

// LaboratoryConfig is one laboratory's full price book.
type LaboratoryConfig struct {
	Name        string           `yaml:"name"`
	Address     string           `yaml:"address"`
	ContactInfo string           `yaml:"contact_info"`
	TurnTimes   []TurnTimeConfig `yaml:"turn_times"`
	Categories  []CategoryConfig `yaml:"categories"`
}

// ReferenceData is the complete seedable reference dataset.
type ReferenceData struct {
	LaborRates       map[string]float64  `yaml:"labor_rates"`
	SamplingDefaults map[string]float64  `yaml:"sampling_defaults"`
	Components       map[string][]string `yaml:"components"`
	Laboratories     []LaboratoryConfig  `yaml:"laboratories"`
}

// Load reads a reference-data YAML file. The path must not contain
// traversal components.
func Load(path string) (*ReferenceData, error) {
	cleaned := filepath.Clean(path)
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part == ".." {
			return nil, fmt.Errorf("reference file path contains path traversal: %s", path)
		}
	}

	data, err := os.ReadFile(cleaned)
	if err != nil {
		return nil, fmt.Errorf("read reference file %s: %w", path, err)
	}
	if int64(len(data)) > maxConfigFileSize {
		return nil, fmt.Errorf("reference file %s exceeds maximum allowed size (1 MiB)", path)
	}

	var ref ReferenceData
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("parse reference file %s: %w", path, err)
	}
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("reference file %s: %w", path, err)
	}
	return &ref, nil
}

// Validate checks the dataset for entries that would corrupt estimates once
// seeded.
func (r *ReferenceData) Validate() error {
	for role, rate := range r.LaborRates {
		if role == "" {
			return fmt.Errorf("labor rate with empty role")
		}
		if rate < 0 {
			return fmt.Errorf("labor rate for %q is negative", role)
		}
	}
	for samplingType, minutes := range r.SamplingDefaults {
		if minutes <= 0 {
			return fmt.Errorf("sampling default for %q must be positive", samplingType)
		}
	}
	for _, lab := range r.Laboratories {
		if lab.Name == "" {
			return fmt.Errorf("laboratory with empty name")
		}
		labels := map[string]bool{}
		for _, tt := range lab.TurnTimes {
			if tt.Label == "" {
				return fmt.Errorf("laboratory %q has a turn time with empty label", lab.Name)
			}
			if labels[tt.Label] {
				return fmt.Errorf("laboratory %q has duplicate turn time %q", lab.Name, tt.Label)
			}
			labels[tt.Label] = true
		}
		for _, cat := range lab.Categories {
			if cat.Name == "" {
				return fmt.Errorf("laboratory %q has a category with empty name", lab.Name)
			}
			for _, test := range cat.Tests {
				if test.Name == "" {
					return fmt.Errorf("category %q has a test with empty name", cat.Name)
				}
				for label, price := range test.Rates {
					if !labels[label] {
						return fmt.Errorf("test %q prices unknown turn time %q", test.Name, label)
					}
					if price < 0 {
						return fmt.Errorf("test %q has a negative price for %q", test.Name, label)
					}
				}
			}
		}
	}
	return nil
}
