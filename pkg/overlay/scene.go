package overlay

import (
	"cmp"
	"slices"
)

// MarkType identifies the primitive a [Mark] draws.
type MarkType string

const (
	MarkImage  MarkType = "image"
	MarkCircle MarkType = "circle"
	MarkText   MarkType = "text"
	MarkLine   MarkType = "line"
)

// Z layers. Within a layer marks keep insertion order.
const (
	LayerGrid  = 0
	LayerMarks = 1
	LayerText  = 10
)

// Mark is a single drawing primitive in data coordinates.
type Mark struct {
	Type MarkType `json:"type"`
	Z    int      `json:"z"`
	POI  string   `json:"poi,omitempty"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	Icon string  `json:"icon,omitempty"` // image
	Zoom float64 `json:"zoom,omitempty"` // image

	Radius float64 `json:"radius,omitempty"` // circle, data units

	Text     string  `json:"text,omitempty"`     // text
	Rotation float64 `json:"rotation,omitempty"` // text, degrees counter-clockwise
	Size     float64 `json:"size,omitempty"`     // text, points; zero means Style.LabelSize

	X2 float64 `json:"x2,omitempty"` // line
	Y2 float64 `json:"y2,omitempty"` // line
}

// Style holds the stroke and typography settings shared by every mark.
type Style struct {
	LabelSize   float64 `json:"label_size"`   // points
	HaloWidth   float64 `json:"halo_width"`   // points
	CircleWidth float64 `json:"circle_width"` // points
	GridWidth   float64 `json:"grid_width"`   // points
	TickSize    float64 `json:"tick_size"`    // points
	Font        string  `json:"font,omitempty"`
}

// DefaultStyle returns the stroke and label settings used by the map tool.
func DefaultStyle() Style {
	return Style{
		LabelSize:   0.28,
		HaloWidth:   0.2,
		CircleWidth: 0.2,
		GridWidth:   0.1,
		TickSize:    5,
	}
}

// Scene is the complete display list for one overlay.
type Scene struct {
	Frame Frame  `json:"frame"`
	Style Style  `json:"style"`
	Marks []Mark `json:"marks"`
}

// Ordered returns the marks sorted by layer, keeping insertion order within a
// layer. The receiver is not modified.
func (s Scene) Ordered() []Mark {
	out := slices.Clone(s.Marks)
	slices.SortStableFunc(out, func(a, b Mark) int { return cmp.Compare(a.Z, b.Z) })
	return out
}

// Icons returns the distinct icon names referenced by the scene, sorted.
func (s Scene) Icons() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range s.Marks {
		if m.Type == MarkImage && !seen[m.Icon] {
			seen[m.Icon] = true
			names = append(names, m.Icon)
		}
	}
	slices.Sort(names)
	return names
}

// Count returns how many marks of type t the scene holds.
func (s Scene) Count(t MarkType) int {
	n := 0
	for _, m := range s.Marks {
		if m.Type == t {
			n++
		}
	}
	return n
}
