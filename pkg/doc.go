// Package pkg provides the core libraries for poimap overlay rendering.
//
// # Overview
//
// poimap draws points of interest onto a game map: each POI gets its icon,
// a circle of item icons and a few text labels, chosen by the POI's type
// code. The pkg directory is organized into:
//
//  1. [poi] - Data model and validation
//  2. [source] - Loaders for CSV, JSON, TOML, YAML, MongoDB and PostgreSQL
//  3. [overlay] - Frame setup, layout primitives and the A-O dispatch table
//  4. [render] - Icon lookup and the PNG, SVG and JSON sinks
//  5. [pipeline] - Orchestration (load → build → render) with caching
//  6. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
//	POI source (file or database)
//	         ↓
//	    [source] package (decode + validate)
//	         ↓
//	    [overlay] package (dispatch table → Scene display list)
//	         ↓
//	    [render/sink] package (rasterize / serialize)
//	         ↓
//	    PNG/SVG/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/poimap/pkg/overlay"
//	    "github.com/matzehuels/poimap/pkg/render/icons"
//	    "github.com/matzehuels/poimap/pkg/render/sink"
//	    "github.com/matzehuels/poimap/pkg/source"
//	)
//
//	pois, _ := source.Load(ctx, "pois.csv", source.Options{})
//	frame := overlay.Frame{
//	    Extent:      overlay.Extent{XMin: -400000, XMax: 400000, YMin: -400000, YMax: 400000},
//	    Background:  "map.png",
//	    DPI:         1600,
//	    WidthInches: 6.4,
//	}
//	scene, _ := overlay.Build(frame, overlay.DefaultStyle(), overlay.DefaultOptions(), pois)
//	png, _ := sink.RenderPNG(scene, sink.WithIcons(icons.NewStore("imgs")))
//
// Most callers go through [pipeline.Runner], which adds caching and is what
// the CLI and the preview server use.
package pkg
