// Package pipeline provides the load → build → render pipeline for poimap.
//
// The CLI and the preview server both go through a [Runner] so caching and
// validation behave the same everywhere.
//
// # Stages
//
//  1. Load: read POIs from a source (or take them from the request)
//  2. Build: run the dispatch table to produce an overlay.Scene
//  3. Render: turn the scene into PNG, SVG or JSON bytes
//
// Remote sources and rendered artifacts are cached; building a scene is
// cheap and always runs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.FromConfig(cfg)
//	opts.Formats = []string{"png"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"time"

	"github.com/matzehuels/poimap/pkg/cache"
	"github.com/matzehuels/poimap/pkg/config"
	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/poi"
	"github.com/matzehuels/poimap/pkg/render/icons"
	"github.com/matzehuels/poimap/pkg/render/sink"
	"github.com/matzehuels/poimap/pkg/source"
)

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input. Exactly one of Source, POIs or Scene is used, in reverse order
	// of precedence: a Scene skips loading and building, POIs skip loading.
	Source     string         `json:"source,omitempty"`
	SourceOpts source.Options `json:"-"`
	POIs       []poi.POI      `json:"pois,omitempty"`
	Scene      *overlay.Scene `json:"-"`

	// Overlay settings
	Frame  overlay.Frame   `json:"frame"`
	Style  overlay.Style   `json:"style"`
	Layout overlay.Options `json:"layout"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	IconDir        string   `json:"icon_dir,omitempty"`
	LinkBackground bool     `json:"link_background,omitempty"`

	// Refresh bypasses cached sources and artifacts.
	Refresh bool `json:"-"`
}

// FromConfig builds options from loaded settings. Formats are left empty.
func FromConfig(cfg config.Config) Options {
	return Options{
		Source:     cfg.Source.URI,
		SourceOpts: source.Options{Collection: cfg.Source.Collection, Table: cfg.Source.Table},
		Frame:      cfg.Frame(),
		Style:      cfg.OverlayStyle(),
		Layout:     cfg.Options(),
		IconDir:    cfg.Paths.Icons,
	}
}

// ValidateAndSetDefaults fills defaults and checks the options.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatPNG}
	}
	if err := sink.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.IconDir == "" {
		o.IconDir = icons.DefaultDir
	}
	if o.Scene != nil {
		return nil
	}
	if o.Source == "" && o.POIs == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no POI source given")
	}
	return o.Frame.Validate()
}

// ArtifactKeyOpts returns the non-scene inputs of the artifact for format.
func (o *Options) ArtifactKeyOpts(format string, s overlay.Scene) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == sink.FormatJSON {
		return opts
	}
	opts.IconsStamp = stamp(icons.NewStore(o.IconDir), s.Icons())
	opts.LinkedAsset = format == sink.FormatSVG && o.LinkBackground
	if s.Frame.Background != "" && !opts.LinkedAsset {
		opts.Background = fileStamp(s.Frame.Background)
	}
	return opts
}

// Result holds everything a run produced.
type Result struct {
	POIs      []poi.POI
	Scene     overlay.Scene
	SceneHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records timings and counts.
type Stats struct {
	POICount     int
	MarkCount    int
	MissingIcons []string
	LoadTime     time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	SourceHit bool
	RenderHit bool
}
