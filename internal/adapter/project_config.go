package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "strum.dev/pkg/strum/internal/model"
)

// projectConfigFileName is looked up at the root of the scanned project.
const projectConfigFileName = "strum.yaml"

// ProjectConfig is the optional per-project configuration file. Its absence is
// not an error.
type ProjectConfig struct {
	// Preps lists unit ids whose catalog loaders run before discovery, so
	// fixture registrations are in place when execution starts.
	Preps []string `yaml:"preps"`

	// Exclude lists extra directory names the scanner skips.
	Exclude []string `yaml:"exclude"`
}

// LoadProjectConfig reads strum.yaml from the project root. A missing file
// yields the zero config and no error; a malformed file is an error.
func LoadProjectConfig(root m.Path) (ProjectConfig, error) {
	path := filepath.Join(string(root), projectConfigFileName)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProjectConfig{}, nil
		}

		return ProjectConfig{}, fmt.Errorf("read project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("parse project config %s: %w", path, err)
	}

	return cfg, nil
}
