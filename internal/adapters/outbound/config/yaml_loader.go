package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/speccloak/speccloak/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file.
const FileName = ".speccloak.yml"

// YAMLLoader implements domain.ConfigLoader by reading .speccloak.yml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .speccloak.yml from projectPath and overlays it on the defaults.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	// Validate the raw file so typos are reported against the user's input.
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return domain.DefaultConfig().Merge(cfg), nil
}
