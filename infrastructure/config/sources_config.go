package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SourceConfig describes one registered organiser source.
type SourceConfig struct {
	Organiser   string   `toml:"organiser"`
	Scraper     string   `toml:"scraper"`
	URLPatterns []string `toml:"url_patterns"`
}

// SourcesConfig is the on-disk registry of scrape sources.
type SourcesConfig struct {
	Sources []SourceConfig `toml:"source"`
}

// LoadSources reads and validates the sources file. A missing file yields
// an empty config, not an error; callers then rely on programmatic
// registrations only.
func LoadSources(path string) (*SourcesConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &SourcesConfig{}, nil
	}

	var cfg SourcesConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	for i, source := range cfg.Sources {
		if source.Organiser == "" {
			return nil, fmt.Errorf("source %d in %s is missing an organiser", i, path)
		}
		if source.Scraper == "" {
			return nil, fmt.Errorf("source %q in %s is missing a scraper name", source.Organiser, path)
		}
	}

	return &cfg, nil
}
