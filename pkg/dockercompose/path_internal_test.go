// This is not in dockercompose_test so that we can override the fs global
// variable.
package dockercompose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name         string
		files        []string
		env          map[string]string
		composePaths []string
		expMain      string
		expOverrides []string
		expNotExist  bool
	}{
		{
			name:        "no compose file",
			expNotExist: true,
		},
		{
			name:    "legacy name",
			files:   []string{"docker-compose.yml"},
			expMain: "docker-compose.yml",
		},
		{
			name:    "modern name preferred",
			files:   []string{"compose.yaml", "docker-compose.yml"},
			expMain: "compose.yaml",
		},
		{
			name:    "yaml extension preferred",
			files:   []string{"docker-compose.yaml", "docker-compose.yml"},
			expMain: "docker-compose.yaml",
		},
		{
			name:         "legacy override",
			files:        []string{"docker-compose.yml", "docker-compose.override.yml"},
			expMain:      "docker-compose.yml",
			expOverrides: []string{"docker-compose.override.yml"},
		},
		{
			name:         "modern override",
			files:        []string{"compose.yaml", "compose.override.yaml"},
			expMain:      "compose.yaml",
			expOverrides: []string{"compose.override.yaml"},
		},
		{
			name: "override matches found spelling",
			// The override for the other spelling shouldn't be picked up.
			files:   []string{"compose.yaml", "docker-compose.override.yml"},
			expMain: "compose.yaml",
		},
		{
			name:         "explicit flags",
			composePaths: []string{"base.yml", "prod.yml", "extra.yml"},
			expMain:      "base.yml",
			expOverrides: []string{"prod.yml", "extra.yml"},
		},
		{
			name: "explicit flags win over env",
			env: map[string]string{
				"COMPOSE_FILE": "env.yml",
			},
			composePaths: []string{"flag.yml"},
			expMain:      "flag.yml",
		},
		{
			name: "compose file env",
			env: map[string]string{
				"COMPOSE_FILE": "base.yml:override.yml",
			},
			expMain:      "base.yml",
			expOverrides: []string{"override.yml"},
		},
		{
			name: "compose file env custom separator",
			env: map[string]string{
				"COMPOSE_FILE":           "base.yml;override.yml",
				"COMPOSE_PATH_SEPARATOR": ";",
			},
			expMain:      "base.yml",
			expOverrides: []string{"override.yml"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			fs = afero.NewMemMapFs()
			for _, file := range test.files {
				require.NoError(t, afero.WriteFile(fs, file, []byte("services: {}"), 0644))
			}

			// Isolate the test from the developer's environment.
			t.Setenv("COMPOSE_FILE", "")
			t.Setenv("COMPOSE_PATH_SEPARATOR", "")
			for key, val := range test.env {
				t.Setenv(key, val)
			}

			main, overrides, err := GetPaths(test.composePaths)
			if test.expNotExist {
				assert.True(t, os.IsNotExist(err))
				return
			}
			require.NoError(t, err)

			assert.Equal(t, abs(t, test.expMain), main)

			var expOverrides []string
			for _, override := range test.expOverrides {
				expOverrides = append(expOverrides, abs(t, override))
			}
			assert.Equal(t, expOverrides, overrides)
		})
	}
}

func abs(t *testing.T, path string) string {
	absPath, err := filepath.Abs(path)
	require.NoError(t, err)
	return absPath
}
