package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/poimap/pkg/overlay"
)

// kindsCommand creates the kinds command listing the dispatch table.
func (c *CLI) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List POI type codes and how each is drawn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), kindsTable(overlay.Variants()))
			return nil
		},
	}
}

// kindRow flattens a variant into table cells.
func kindRow(v overlay.Variant) []string {
	centre := "poi"
	if v.Anchored {
		centre = "offset"
	}
	if v.Layout == overlay.LayoutActual {
		centre = "-"
	}
	labels := strings.Join(v.Labels(), ", ")
	if labels == "" {
		labels = "-"
	}
	doggo := ""
	if v.Doggo {
		doggo = iconSuccess
	}
	return []string{string(v.Kind), string(v.Layout), centre, labels, doggo, v.Description}
}

func kindsTable(variants []overlay.Variant) string {
	rows := make([][]string, len(variants))
	for i, v := range variants {
		rows[i] = kindRow(v)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Code", "Layout", "Centre", "Labels", "Doggo", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight.Bold(true)
			case col == 4:
				return StyleSuccess
			case col == 5:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}
