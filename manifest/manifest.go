// Package manifest handles pyrite.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a pyrite.toml runtime configuration.
type Manifest struct {
	Project Project     `toml:"project"`
	Log     LogConfig   `toml:"log"`
	Image   ImageConfig `toml:"image"`

	// Dir is the directory containing the pyrite.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// ImageConfig configures the image store.
type ImageConfig struct {
	Store string `toml:"store"`
	Name  string `toml:"name"`
}

// Load parses a pyrite.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "pyrite.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Image.Store == "" {
		m.Image.Store = filepath.Join(".pyrite", "images.db")
	}
	if m.Image.Name == "" {
		m.Image.Name = "default"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a pyrite.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "pyrite.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// StorePath returns the absolute path of the image store database.
func (m *Manifest) StorePath() string {
	if filepath.IsAbs(m.Image.Store) {
		return m.Image.Store
	}
	return filepath.Join(m.Dir, m.Image.Store)
}
