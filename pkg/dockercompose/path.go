package dockercompose

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// fs is swapped out for an in-memory filesystem in the unit tests.
var fs = afero.NewOsFs()

const (
	composeFileEnv   = "COMPOSE_FILE"
	pathSeparatorEnv = "COMPOSE_PATH_SEPARATOR"
)

// defaultPrefixes are the file names probed in the working directory, in
// order of preference. This matches the precedence of Compose V2, which
// prefers the compose.yaml spelling over the legacy docker-compose.yaml.
var defaultPrefixes = []string{
	"compose",
	"docker-compose",
}

// GetPaths returns the Compose file to load, and any override files to merge
// into it. Explicit --file flags win, then the COMPOSE_FILE environment
// variable, and finally the default file names in the working directory.
func GetPaths(composePaths []string) (string, []string, error) {
	if len(composePaths) == 0 {
		composePaths = pathsFromEnv()
	}

	if len(composePaths) != 0 {
		var absPaths []string
		for _, composePath := range composePaths {
			p, err := filepath.Abs(composePath)
			if err != nil {
				return "", nil, err
			}
			absPaths = append(absPaths, p)
		}

		return absPaths[0], absPaths[1:], nil
	}

	getYamlFile := func(prefix string) (string, error) {
		paths := []string{
			prefix + ".yaml",
			prefix + ".yml",
		}

		var err error
		for _, path := range paths {
			if _, err = fs.Stat(path); err == nil {
				return filepath.Abs(path)
			}
		}

		// Return the error from the last path we tried to stat.
		return "", err
	}

	var composePath string
	var err error
	for _, prefix := range defaultPrefixes {
		composePath, err = getYamlFile(prefix)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", nil, err
	}

	// An override file is only picked up for the spelling that was actually
	// found, just like Compose does.
	overridePrefix := strings.TrimSuffix(filepath.Base(composePath), filepath.Ext(composePath)) + ".override"

	var overridePaths []string
	if overridePath, err := getYamlFile(overridePrefix); err == nil {
		overridePaths = []string{overridePath}
	}
	return composePath, overridePaths, nil
}

// pathsFromEnv parses the COMPOSE_FILE environment variable, which may list
// multiple files separated by COMPOSE_PATH_SEPARATOR (the OS path list
// separator by default).
func pathsFromEnv() []string {
	composeFile := os.Getenv(composeFileEnv)
	if composeFile == "" {
		return nil
	}

	separator := os.Getenv(pathSeparatorEnv)
	if separator == "" {
		separator = string(os.PathListSeparator)
	}

	var paths []string
	for _, path := range strings.Split(composeFile, separator) {
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}
