package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/poimap/pkg/errors"
)

// Default output location.
const (
	DefaultOutputDir  = "final"
	DefaultOutputName = "output"
)

// OutputPath returns <dir>/<name>.<format>, applying the defaults for empty
// dir and name.
func OutputPath(dir, name, format string) string {
	if dir == "" {
		dir = DefaultOutputDir
	}
	if name == "" {
		name = DefaultOutputName
	}
	return filepath.Join(dir, name+"."+format)
}

// WriteArtifacts writes each artifact to OutputPath and returns the paths
// in format order. The directory is created if needed.
func WriteArtifacts(dir, name string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := OutputPath(dir, name, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(path))
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
