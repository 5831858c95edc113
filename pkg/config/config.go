// Package config loads poimap settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (poimap.toml in the working directory unless a path is given)
//  3. POIMAP_* environment variables, after loading .env if present
//  4. command-line flags, applied by the caller
//
// A minimal file:
//
//	[map]
//	extent = [-1500000, 1500000, -1500000, 1500000]
//	background = "map.png"
//
//	[layout]
//	zoom = 0.01
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	perrors "github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "poimap.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POIMAP_"

// Config is the full set of settings.
type Config struct {
	Map    MapConfig    `toml:"map"`
	Layout LayoutConfig `toml:"layout"`
	Style  StyleConfig  `toml:"style"`
	Paths  PathsConfig  `toml:"paths"`
	Source SourceConfig `toml:"source"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// MapConfig places the background image.
type MapConfig struct {
	Extent      []float64 `toml:"extent"` // xmin, xmax, ymin, ymax
	Background  string    `toml:"background"`
	DPI         float64   `toml:"dpi"`
	WidthInches float64   `toml:"width_inches"`
	ShowGrid    bool      `toml:"show_grid"`
	TickStep    float64   `toml:"tick_step"`
}

// LayoutConfig mirrors overlay.Options.
type LayoutConfig struct {
	Zoom          float64  `toml:"zoom"`
	Dist          float64  `toml:"dist"`
	Scale         float64  `toml:"scale"`
	LabelOffset   float64  `toml:"label_offset"`
	CircleFactor  float64  `toml:"circle_factor"`
	LabelRotation float64  `toml:"label_rotation"`
	FullSizeIcons []string `toml:"full_size_icons"`
}

// StyleConfig mirrors overlay.Style.
type StyleConfig struct {
	LabelSize   float64 `toml:"label_size"`
	HaloWidth   float64 `toml:"halo_width"`
	CircleWidth float64 `toml:"circle_width"`
	Font        string  `toml:"font"`
}

// PathsConfig holds input and output locations.
type PathsConfig struct {
	Icons  string `toml:"icons"`
	Output string `toml:"output"`
	Name   string `toml:"name"`
}

// SourceConfig selects where POIs come from.
type SourceConfig struct {
	URI        string `toml:"uri"`
	Collection string `toml:"collection"`
	Table      string `toml:"table"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	RedisURL string `toml:"redis_url"`
	Dir      string `toml:"dir"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings. The extent has no default and must
// be configured before rendering.
func Default() Config {
	opts := overlay.DefaultOptions()
	style := overlay.DefaultStyle()
	return Config{
		Map: MapConfig{
			DPI:         1600,
			WidthInches: 6.4,
			TickStep:    opts.TickStep,
		},
		Layout: LayoutConfig{
			Zoom:          opts.Zoom,
			Dist:          opts.Dist,
			Scale:         opts.Scale,
			LabelOffset:   opts.LabelOffset,
			CircleFactor:  opts.CircleFactor,
			LabelRotation: opts.LabelRotation,
			FullSizeIcons: opts.FullSizeIcons,
		},
		Style: StyleConfig{
			LabelSize:   style.LabelSize,
			HaloWidth:   style.HaloWidth,
			CircleWidth: style.CircleWidth,
		},
		Paths: PathsConfig{
			Icons:  "imgs",
			Output: "final",
			Name:   "output",
		},
		Source: SourceConfig{
			Collection: "pois",
			Table:      "pois",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load builds a Config from defaults, the TOML file at path and the
// environment. An empty path reads DefaultFile if it exists; an explicit
// path that does not exist is an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(names, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from POIMAP_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	env := func(name string) string { return strings.TrimSpace(getenv(EnvPrefix + name)) }

	str := func(name string, dst *string) {
		if v := env(name); v != "" {
			*dst = v
		}
	}
	str("BACKGROUND", &c.Map.Background)
	str("ICONS", &c.Paths.Icons)
	str("OUTPUT", &c.Paths.Output)
	str("NAME", &c.Paths.Name)
	str("FONT", &c.Style.Font)
	str("SOURCE", &c.Source.URI)
	str("COLLECTION", &c.Source.Collection)
	str("TABLE", &c.Source.Table)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("CACHE_DIR", &c.Cache.Dir)
	str("ADDR", &c.Server.Addr)

	floats := []struct {
		name string
		dst  *float64
	}{
		{"DPI", &c.Map.DPI},
		{"WIDTH_INCHES", &c.Map.WidthInches},
		{"TICK_STEP", &c.Map.TickStep},
		{"ZOOM", &c.Layout.Zoom},
		{"DIST", &c.Layout.Dist},
		{"SCALE", &c.Layout.Scale},
		{"LABEL_OFFSET", &c.Layout.LabelOffset},
	}
	for _, f := range floats {
		v := env(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s%s=%q", EnvPrefix, f.name, v)
		}
		*f.dst = n
	}

	if v := env("EXTENT"); v != "" {
		ext, err := ParseExtent(v)
		if err != nil {
			return err
		}
		c.Map.Extent = ext
	}
	if v := env("FULL_SIZE_ICONS"); v != "" {
		c.Layout.FullSizeIcons = splitList(v)
	}
	if v := env("SHOW_GRID"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%sSHOW_GRID=%q", EnvPrefix, v)
		}
		c.Map.ShowGrid = b
	}
	if v := env("NO_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%sNO_CACHE=%q", EnvPrefix, v)
		}
		c.Cache.Disabled = b
	}
	return nil
}

// ParseExtent parses "xmin,xmax,ymin,ymax".
func ParseExtent(s string) ([]float64, error) {
	parts := splitList(s)
	if len(parts) != 4 {
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "extent needs 4 values xmin,xmax,ymin,ymax (got %q)", s)
	}
	ext := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "extent value %q", p)
		}
		ext[i] = v
	}
	return ext, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the settings needed to build a scene.
func (c Config) Validate() error {
	if len(c.Map.Extent) != 4 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "map.extent must have 4 values (got %d)", len(c.Map.Extent))
	}
	if err := c.Frame().Validate(); err != nil {
		return err
	}
	if !(c.Layout.Zoom > 0) {
		return perrors.New(perrors.ErrCodeInvalidConfig, "layout.zoom must be positive (got %v)", c.Layout.Zoom)
	}
	if c.Layout.Dist < 0 || c.Layout.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "layout.dist and layout.scale must not be negative")
	}
	if c.Map.ShowGrid && !(c.Map.TickStep > 0) {
		return perrors.New(perrors.ErrCodeInvalidConfig, "map.tick_step must be positive when show_grid is set")
	}
	if _, _, ok := overlay.GridTicks(c.Frame().Extent, c.Map.TickStep); c.Map.ShowGrid && !ok {
		return perrors.New(perrors.ErrCodeInvalidConfig,
			"map.tick_step %v draws more than %d grid lines per axis", c.Map.TickStep, overlay.MaxGridTicks)
	}
	if c.Paths.Name == "" || strings.ContainsAny(c.Paths.Name, `/\`) {
		return perrors.New(perrors.ErrCodeInvalidConfig, "paths.name must be a plain file name (got %q)", c.Paths.Name)
	}
	return nil
}

// Frame returns the canvas described by the map section.
func (c Config) Frame() overlay.Frame {
	var ext overlay.Extent
	if len(c.Map.Extent) == 4 {
		ext = overlay.Extent{XMin: c.Map.Extent[0], XMax: c.Map.Extent[1], YMin: c.Map.Extent[2], YMax: c.Map.Extent[3]}
	}
	return overlay.Frame{
		Extent:      ext,
		Background:  c.Map.Background,
		DPI:         c.Map.DPI,
		WidthInches: c.Map.WidthInches,
	}
}

// OverlayStyle returns the overlay style.
func (c Config) OverlayStyle() overlay.Style {
	s := overlay.DefaultStyle()
	s.LabelSize = c.Style.LabelSize
	s.HaloWidth = c.Style.HaloWidth
	s.CircleWidth = c.Style.CircleWidth
	s.Font = c.Style.Font
	return s
}

// Options returns the overlay layout options.
func (c Config) Options() overlay.Options {
	return overlay.Options{
		Zoom:          c.Layout.Zoom,
		Dist:          c.Layout.Dist,
		Scale:         c.Layout.Scale,
		LabelOffset:   c.Layout.LabelOffset,
		CircleFactor:  c.Layout.CircleFactor,
		LabelRotation: c.Layout.LabelRotation,
		FullSizeIcons: c.Layout.FullSizeIcons,
		ShowGrid:      c.Map.ShowGrid,
		TickStep:      c.Map.TickStep,
	}
}

// String renders the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
