package config

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantErr  string
		validate func(*testing.T, []Dataset)
	}{
		{
			name: "valid manifest",
			yaml: `datasets:
  - name: products
    source: data/raw/products.csv
  - name: sales
    source: data/raw/sales.csv
    suffix: sales/2024
`,
			validate: func(t *testing.T, datasets []Dataset) {
				require.Len(t, datasets, 2)
				assert.Equal(t, "products", datasets[0].Name)
				assert.Equal(t, "data/raw/products.csv", datasets[0].Source)
				assert.Equal(t, "products", datasets[0].Suffix, "suffix defaults to name")
				assert.Equal(t, "sales/2024", datasets[1].Suffix)
			},
		},
		{
			name:    "empty dataset list",
			yaml:    "datasets: []\n",
			wantErr: "no datasets",
		},
		{
			name: "duplicate names",
			yaml: `datasets:
  - name: products
    source: a.csv
  - name: products
    source: b.csv
`,
			wantErr: `duplicate dataset name "products"`,
		},
		{
			name: "missing name",
			yaml: `datasets:
  - source: a.csv
`,
			wantErr: "has no name",
		},
		{
			name: "missing source",
			yaml: `datasets:
  - name: products
`,
			wantErr: "has no source",
		},
		{
			name:    "invalid yaml",
			yaml:    "datasets: [oops\n",
			wantErr: "parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			require.NoError(t, util.WriteFile(fs, "datasets.yaml", []byte(tt.yaml), 0o644))

			datasets, err := LoadManifest(fs, "datasets.yaml")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.validate(t, datasets)
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(memfs.New(), "datasets.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read manifest")
}
