package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/pipeline"
	"github.com/matzehuels/poimap/pkg/poi"
	"github.com/matzehuels/poimap/pkg/render/icons"
	"github.com/matzehuels/poimap/pkg/source"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var iconDir string

	cmd := &cobra.Command{
		Use:   "validate [source]",
		Short: "Check POI records and icons without rendering",
		Long: `Check POI records and icons without rendering.

Every record is validated and all problems are listed at once. The POIs are
then laid out and every icon the overlay would draw is looked up in the icon
directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Source.URI = args[0]
			}
			if cmd.Flags().Changed("icons") {
				cfg.Paths.Icons = iconDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := pipeline.FromConfig(cfg)
			pois, err := source.Load(cmd.Context(), opts.Source, opts.SourceOpts)
			if err != nil {
				printFieldErrors(err)
				return err
			}
			printSuccess("%d POIs valid", len(pois))
			for _, id := range outsideExtent(pois, opts.Frame.Extent) {
				printWarning("%s lies outside the map extent", id)
			}

			scene, err := overlay.Build(opts.Frame, opts.Style, opts.Layout, pois)
			if err != nil {
				return err
			}
			names := scene.Icons()
			missing := icons.NewStore(opts.IconDir).Missing(names)
			if len(missing) > 0 {
				for _, name := range missing {
					printError("icon %s not found in %s", name, opts.IconDir)
				}
				return errors.New(errors.ErrCodeIconNotFound, "%d of %d icons missing", len(missing), len(names))
			}
			printSuccess("%d icons found in %s", len(names), opts.IconDir)
			printNextStep("Render it", appName+" render "+source.Redact(opts.Source))
			return nil
		},
	}

	cmd.Flags().StringVar(&iconDir, "icons", "", "icon directory (default: imgs)")

	return cmd
}

// outsideExtent returns the IDs of POIs that would be drawn off the map,
// either themselves or through one of their placements.
func outsideExtent(pois []poi.POI, e overlay.Extent) []string {
	var ids []string
	for _, p := range pois {
		out := !e.Contains(p.X, p.Y)
		for _, pl := range p.Placements {
			out = out || !e.Contains(pl.X, pl.Y)
		}
		if out {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// printFieldErrors lists each field error of a validation failure.
func printFieldErrors(err error) {
	for _, f := range errors.Fields(err) {
		printError("%s", f.String())
	}
}
