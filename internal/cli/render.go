package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poimap/pkg/config"
	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/pipeline"
	"github.com/matzehuels/poimap/pkg/render/sink"
)

// sceneSuffix marks a JSON scene export that can be re-rendered without
// its source.
const sceneSuffix = ".scene.json"

// renderFlags holds render command flags. Only flags the user set override
// the config file.
type renderFlags struct {
	formats        string
	output         string
	name           string
	icons          string
	background     string
	extent         string
	font           string
	dpi            float64
	width          float64
	zoom           float64
	grid           bool
	noCache        bool
	refresh        bool
	linkBackground bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a POI overlay to PNG, SVG or JSON",
		Long: `Render a POI overlay to PNG, SVG or JSON.

The source is a .csv, .json, .toml or .yaml file, a mongodb:// or
postgres:// URI, or a previously exported *.scene.json. Without an argument
the source from the config file is used.

Outputs are written to <output>/<name>.<format> (default final/output.png).
Rendered artifacts are cached; use --refresh to re-render.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg, args); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default: final)")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "output file name without extension (default: output)")
	cmd.Flags().StringVar(&flags.icons, "icons", "", "icon directory (default: imgs)")
	cmd.Flags().StringVar(&flags.background, "background", "", "background map image")
	cmd.Flags().StringVar(&flags.extent, "extent", "", "data extent xmin,xmax,ymin,ymax")
	cmd.Flags().StringVar(&flags.font, "font", "", "label font name (default: embedded Go font)")
	cmd.Flags().Float64Var(&flags.dpi, "dpi", 0, "output resolution (default: 1600)")
	cmd.Flags().Float64Var(&flags.width, "width", 0, "canvas width in inches")
	cmd.Flags().Float64Var(&flags.zoom, "zoom", 0, "icon zoom")
	cmd.Flags().BoolVar(&flags.grid, "grid", false, "draw the coordinate grid")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached sources and artifacts")
	cmd.Flags().BoolVar(&flags.linkBackground, "link-background", false, "reference the background from SVG instead of embedding it")

	return cmd
}

// apply overlays the flags the user set onto cfg.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) error {
	set := cmd.Flags().Changed
	if len(args) == 1 {
		cfg.Source.URI = args[0]
	}
	if set("output") {
		cfg.Paths.Output = f.output
	}
	if set("name") {
		cfg.Paths.Name = f.name
	}
	if set("icons") {
		cfg.Paths.Icons = f.icons
	}
	if set("background") {
		cfg.Map.Background = f.background
	}
	if set("extent") {
		ext, err := config.ParseExtent(f.extent)
		if err != nil {
			return err
		}
		cfg.Map.Extent = ext
	}
	if set("font") {
		cfg.Style.Font = f.font
	}
	if set("dpi") {
		cfg.Map.DPI = f.dpi
	}
	if set("width") {
		cfg.Map.WidthInches = f.width
	}
	if set("zoom") {
		cfg.Layout.Zoom = f.zoom
	}
	if set("grid") {
		cfg.Map.ShowGrid = f.grid
	}
	if f.noCache {
		cfg.Cache.Disabled = true
	}
	if isSceneFile(cfg.Source.URI) {
		return nil
	}
	return cfg.Validate()
}

func isSceneFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), sceneSuffix)
}

// runRender runs the pipeline and writes its artifacts.
func (c *CLI) runRender(ctx context.Context, cfg config.Config, flags renderFlags) error {
	opts := pipeline.FromConfig(cfg)
	opts.Formats = sink.ParseFormats(flags.formats)
	opts.Refresh = flags.refresh
	opts.LinkBackground = flags.linkBackground
	if err := sink.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	if isSceneFile(cfg.Source.URI) {
		scene, err := readScene(cfg.Source.URI)
		if err != nil {
			return err
		}
		opts.Scene = &scene
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := pipeline.WriteArtifacts(cfg.Paths.Output, cfg.Paths.Name, result.Artifacts)
	if err != nil {
		return err
	}
	if opts.Scene != nil {
		prog.done(fmt.Sprintf("Rendered scene %s", cfg.Source.URI))
	} else {
		prog.done(fmt.Sprintf("Rendered %d POIs", result.Stats.POICount))
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	printStats(result.Stats.POICount, result.Stats.MarkCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if n := len(result.Stats.MissingIcons); n > 0 {
		printWarning("%d icon(s) missing: %s", n, strings.Join(result.Stats.MissingIcons, ", "))
	}
	return nil
}

// readScene loads a JSON scene export.
func readScene(path string) (overlay.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return overlay.Scene{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open scene %s", path)
	}
	defer f.Close()
	scene, err := sink.ReadJSON(f)
	if err != nil {
		return overlay.Scene{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scene %s", path)
	}
	return scene, nil
}
