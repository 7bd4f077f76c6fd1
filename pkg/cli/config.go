package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the optional YAML options file passed via --config.
// NullMarker is a pointer so an explicitly configured empty string can
// be told apart from an absent key.
type FileConfig struct {
	NullMarker *string `yaml:"null-marker"`
	Delimiter  string  `yaml:"delimiter"`
}

func loadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &fc, nil
}
