// Package source loads POI records from files and databases.
//
// [Open] picks a loader from the location:
//
//	pois.csv, pois.json, pois.toml, pois.yaml   local files, by extension
//	mongodb://host/db                           MongoDB collection
//	postgres://user@host/db                     PostgreSQL table
//
// Every loader returns validated POIs in source order; the order matters
// because it fixes the draw order of overlapping marks.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

// Default collection and table names for database sources.
const (
	DefaultCollection = "pois"
	DefaultTable      = "pois"
)

// Source loads POIs from one location.
type Source interface {
	// Load reads every POI. Implementations do not validate; use [Load].
	Load(ctx context.Context) ([]poi.POI, error)
	// Remote reports whether reads go over the network and are worth caching.
	Remote() bool
}

// Options tune database sources. Zero values select the defaults.
type Options struct {
	Collection string
	Table      string
}

func (o Options) collection() string {
	if o.Collection == "" {
		return DefaultCollection
	}
	return o.Collection
}

func (o Options) table() string {
	if o.Table == "" {
		return DefaultTable
	}
	return o.Table
}

// Open returns the source for location.
func Open(location string, opts Options) (Source, error) {
	if location == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no POI source given")
	}
	if scheme, _, ok := strings.Cut(location, "://"); ok {
		switch strings.ToLower(scheme) {
		case "mongodb", "mongodb+srv":
			return &MongoSource{URI: location, Collection: opts.collection()}, nil
		case "postgres", "postgresql":
			return &PostgresSource{DSN: location, Table: opts.table()}, nil
		case "file":
			location = strings.TrimPrefix(location, scheme+"://")
		default:
			return nil, errors.New(errors.ErrCodeUnsupportedSource, "unsupported source scheme %q", scheme)
		}
	}
	format, err := formatFor(location)
	if err != nil {
		return nil, err
	}
	return &FileSource{Path: location, Format: format}, nil
}

// Load opens location, reads it and validates the result.
func Load(ctx context.Context, location string, opts Options) ([]poi.POI, error) {
	src, err := Open(location, opts)
	if err != nil {
		return nil, err
	}
	pois, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := poi.ValidateAll(pois); err != nil {
		return nil, err
	}
	return pois, nil
}

// Redact hides the password in a database URI for logging.
func Redact(location string) string {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return location
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return location
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return location
	}
	return fmt.Sprintf("%s://%s:***@%s", scheme, user, host)
}

func formatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedSource, "unsupported POI file type %q (want .csv, .json, .toml or .yaml)", ext)
	}
}
