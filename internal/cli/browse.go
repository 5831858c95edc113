package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/pipeline"
	"github.com/matzehuels/poimap/pkg/poi"
	"github.com/matzehuels/poimap/pkg/source"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive POI browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [source]",
		Short: "Browse POI records interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Source.URI = args[0]
			}
			opts := pipeline.FromConfig(cfg)

			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			pois, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				printFieldErrors(err)
				return err
			}
			if len(pois) == 0 {
				printInfo("No POIs in %s", source.Redact(opts.Source))
				return nil
			}

			_, err = tea.NewProgram(NewPOIListModel(pois), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// POIListModel - Interactive POI list
// =============================================================================

// POIListModel is the bubbletea model for browsing POIs. Enter opens the
// detail view of the POI under the cursor.
type POIListModel struct {
	POIs   []poi.POI
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewPOIListModel creates a new POI list model.
func NewPOIListModel(pois []poi.POI) POIListModel {
	return POIListModel{
		POIs:   pois,
		Height: 15,
	}
}

func (m POIListModel) Init() tea.Cmd {
	return nil
}

func (m POIListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.POIs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m POIListModel) View() string {
	if m.Detail && m.Cursor < len(m.POIs) {
		return m.detailView(m.POIs[m.Cursor])
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("POIs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.POIs))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.POIs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			p.ID,
			string(p.Kind),
			p.Icon,
			formatCoord(p.X, p.Y),
			strconv.Itoa(p.TotalItems()),
			p.PointsLabel(),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Icon", "Position", "Items", "Points").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.POIs))))

	return b.String()
}

func (m POIListModel) detailView(p poi.POI) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(p.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	kind := string(p.Kind)
	if v, ok := overlay.VariantFor(p.Kind); ok {
		kind += "  " + StyleDim.Render(v.Description)
	}
	field := func(key, value string) {
		b.WriteString("  " + StyleDim.Render(fmt.Sprintf("%-10s", key)) + " " + StyleValue.Render(value) + "\n")
	}
	field("Type", kind)
	field("Icon", p.Icon)
	field("Position", formatCoord(p.X, p.Y))
	if p.OffsetX != 0 || p.OffsetY != 0 {
		field("Offset", formatCoord(p.OffsetX, p.OffsetY))
	}
	field("Points", p.PointsRaw()+" ("+p.PointsLabel()+")")
	if p.Requirement != "" {
		field("Requires", p.Requirement)
	}

	if len(p.Items) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render("  Items"))
		b.WriteString("\n")
		for _, it := range p.Items {
			line := fmt.Sprintf("    %-20s %s", it.Type, StyleNumber.Render("×"+strconv.Itoa(it.Count)))
			if it.Label != "" {
				line += "  " + StyleDim.Render(it.Label)
			}
			b.WriteString(line + "\n")
		}
	}
	if len(p.Placements) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render("  Placements"))
		b.WriteString("\n")
		for _, pl := range p.Placements {
			b.WriteString(fmt.Sprintf("    %-20s %s  %s\n", pl.Type,
				StyleNumber.Render("×"+strconv.Itoa(max(pl.Amount, 1))), StyleDim.Render(formatCoord(pl.X, pl.Y))))
		}
	}

	return b.String()
}

func formatCoord(x, y float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64) + ", " + strconv.FormatFloat(y, 'f', -1, 64)
}
