package config

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"
)

// Dataset maps a dataset name to its local source file and destination
// suffix. Descriptors are constructed once per run from the manifest and
// immutable afterwards.
type Dataset struct {
	// Name is the unique dataset identifier
	Name string `yaml:"name"`

	// Source is the local path of the delimited text file
	Source string `yaml:"source"`

	// Suffix is the dataset-specific destination path segment; defaults to
	// the dataset name
	Suffix string `yaml:"suffix,omitempty"`
}

// manifest is the on-disk shape of the dataset list.
type manifest struct {
	Datasets []Dataset `yaml:"datasets"`
}

// LoadManifest reads and validates the YAML dataset manifest at path.
// Names must be unique and non-empty, sources non-empty; a missing suffix
// defaults to the dataset name so the destination is deterministically
// derived from it.
func LoadManifest(fsys billy.Filesystem, path string) ([]Dataset, error) {
	raw, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("config: read manifest %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("config: parse manifest %s: %w", path, err)
	}
	if len(m.Datasets) == 0 {
		return nil, ErrNoDatasets
	}

	seen := make(map[string]bool, len(m.Datasets))
	for i := range m.Datasets {
		ds := &m.Datasets[i]
		if ds.Name == "" {
			return nil, fmt.Errorf("config: manifest %s: dataset %d has no name", path, i)
		}
		if ds.Source == "" {
			return nil, fmt.Errorf("config: manifest %s: dataset %q has no source", path, ds.Name)
		}
		if seen[ds.Name] {
			return nil, fmt.Errorf("config: manifest %s: duplicate dataset name %q", path, ds.Name)
		}
		seen[ds.Name] = true

		if ds.Suffix == "" {
			ds.Suffix = ds.Name
		}
	}

	return m.Datasets, nil
}
