package domain

import (
	"fmt"
	"regexp"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats enumerates the recognized output formats.
var ValidFormats = []string{FormatText, FormatJSON}

// Config holds run configuration loaded from .speccloak.yml and CLI flags.
type Config struct {
	Base            string   `yaml:"base"             json:"base"`
	Format          string   `yaml:"format"           json:"format"`
	Exclude         []string `yaml:"exclude"          json:"exclude,omitempty"`
	ReportPath      string   `yaml:"report_path"      json:"report_path,omitempty"`
	Sections        []string `yaml:"sections"         json:"sections,omitempty"`
	ApplyExclusions bool     `yaml:"apply_exclusions" json:"apply_exclusions,omitempty"`
	History         bool     `yaml:"history"          json:"history,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Base:     "origin/main",
		Format:   FormatText,
		Sections: DefaultReportSections(),
	}
}

// DefaultReportSections returns the report sections tried in priority order.
func DefaultReportSections() []string {
	return []string{"RSpec", "unit_tests_0"}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if c.Format != "" && !isValidFormat(c.Format) {
		return fmt.Errorf("unknown format %q (valid: text, json)", c.Format)
	}

	for _, p := range c.Exclude {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}

	for i, s := range c.Sections {
		if s == "" {
			return fmt.Errorf("sections[%d] is empty", i)
		}
	}

	return nil
}

// Merge overlays the non-zero values of override on c.
func (c Config) Merge(override Config) Config {
	result := c
	if override.Base != "" {
		result.Base = override.Base
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if len(override.Exclude) > 0 {
		result.Exclude = override.Exclude
	}
	if override.ReportPath != "" {
		result.ReportPath = override.ReportPath
	}
	if len(override.Sections) > 0 {
		result.Sections = override.Sections
	}
	if override.ApplyExclusions {
		result.ApplyExclusions = true
	}
	if override.History {
		result.History = true
	}
	return result
}

func isValidFormat(f string) bool {
	for _, v := range ValidFormats {
		if f == v {
			return true
		}
	}
	return false
}
