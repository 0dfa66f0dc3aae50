package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Library represents one emitted library in the manifest.
type Library struct {
	Name string `yaml:"name" json:"name"`
	// Dir is the library directory relative to the output directory.
	Dir      string   `yaml:"dir" json:"dir"`
	Features string   `yaml:"features" json:"features"`
	Inputs   []string `yaml:"inputs" json:"inputs"`
	Files    []string `yaml:"files" json:"files"`
}

// Manifest tracks the libraries generated into one output directory.
type Manifest struct {
	Generator string    `yaml:"generator" json:"generator"`
	Libraries []Library `yaml:"libraries" json:"libraries"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// AddLibrary records a library, replacing an existing entry with the same
// name. Entries stay sorted by name so the file is stable across runs.
func (m *Manifest) AddLibrary(l Library) {
	sort.Strings(l.Files)
	defer sort.Slice(m.Libraries, func(i, j int) bool { return m.Libraries[i].Name < m.Libraries[j].Name })

	for i := range m.Libraries {
		if m.Libraries[i].Name == l.Name {
			m.Libraries[i] = l
			return
		}
	}

	m.Libraries = append(m.Libraries, l)
}

// Library returns the entry for name, if present.
func (m *Manifest) Library(name string) (Library, bool) {
	for _, l := range m.Libraries {
		if l.Name == name {
			return l, true
		}
	}
	return Library{}, false
}
