package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the project descriptor `zsc init`/`zsc new` scaffold
// (`zsc c` does not read it), mirroring the teacher's own
// YAML-based project configuration (`internal/ext/config.go`'s
// `Config`/`LoadConfig`/`FindConfig` trio), cut down to the fields a
// Z# project actually needs: a module name and where to find sources.
type Manifest struct {
	// Module is the project's module name, used as the root module's
	// Name when no other name is given.
	Module string `yaml:"module"`

	// SourceRoot is the directory (relative to the manifest) holding
	// `.zs` sources. Defaults to DefaultSourceRoot.
	SourceRoot string `yaml:"source_root,omitempty"`

	// SearchPath lists additional source directories. Nothing in this
	// module copies it into the import system's FileImporter.SearchPath.
	SearchPath []string `yaml:"search_path,omitempty"`
}

// NewManifest builds a Manifest for a freshly scaffolded project.
func NewManifest(module string) *Manifest {
	return &Manifest{Module: module, SourceRoot: DefaultSourceRoot}
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	m.setDefaults()
	return &m, nil
}

// Save writes m to path as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

func (m *Manifest) setDefaults() {
	if m.SourceRoot == "" {
		m.SourceRoot = DefaultSourceRoot
	}
}

// FindManifest searches dir and its parents for ManifestFileName,
// mirroring the teacher's FindConfig walk-up-to-root search (no
// command in cmd/zsc calls it). Returns an empty string, nil error if
// none is found.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
