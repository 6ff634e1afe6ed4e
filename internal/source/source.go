// Package source loads the feed registry.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegionOverseas marks sources whose items get a Chinese translation.
const RegionOverseas = "海外"

// Source describes one configured feed. The list is ordered: earlier
// sources win dedupe conflicts downstream.
type Source struct {
	Name         string `yaml:"name" json:"name"`
	URL          string `yaml:"url" json:"url"`
	Platform     string `yaml:"platform" json:"platform"`
	Region       string `yaml:"region" json:"region"`
	KeywordsOnly bool   `yaml:"keywords_only" json:"keywords_only"`
}

// Load reads the source list from a yaml or json file, chosen by file
// extension.
func Load(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var sources []Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("parse sources json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("parse sources yaml: %w", err)
		}
	}
	return sources, nil
}
