package source

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

// File formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FileSource reads POIs from a local file.
type FileSource struct {
	Path   string
	Format string
}

// document is the keyed layout shared by the structured formats:
//
//	{"pois": [...]}   [[pois]] ...   pois: [...]
type document struct {
	POIs []poi.POI `json:"pois" toml:"pois" yaml:"pois"`
}

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) ([]poi.POI, error) {
	data, err := os.ReadFile(s.Path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "POI file %s not found", s.Path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read %s", s.Path)
	}
	pois, err := Decode(bytes.NewReader(data), s.Format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", s.Path)
	}
	return pois, nil
}

// Remote is false for files.
func (s *FileSource) Remote() bool { return false }

// Decode reads POIs in the given format from r. JSON and YAML accept either
// a bare list or a document with a "pois" key; TOML requires [[pois]] tables.
func Decode(r io.Reader, format string) ([]poi.POI, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return decodeJSON(r)
	case FormatTOML:
		var doc document
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
		return doc.POIs, nil
	case FormatYAML:
		return decodeYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedSource, "unsupported POI format %q", format)
	}
}

func decodeJSON(r io.Reader) ([]poi.POI, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pois []poi.POI
		if err := json.Unmarshal(data, &pois); err != nil {
			return nil, err
		}
		return pois, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.POIs, nil
}

func decodeYAML(r io.Reader) ([]poi.POI, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		var pois []poi.POI
		if err := root.Decode(&pois); err != nil {
			return nil, err
		}
		return pois, nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.POIs, nil
}
