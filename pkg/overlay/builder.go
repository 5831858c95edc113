package overlay

import (
	"slices"
	"strconv"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

// Options controls icon sizing and the circular layouts.
type Options struct {
	Zoom          float64  `json:"zoom"`           // icon zoom for item icons and full-size POI icons
	Dist          float64  `json:"dist"`           // base ring radius, data units
	Scale         float64  `json:"scale"`          // ring growth per item, data units
	LabelOffset   float64  `json:"label_offset"`   // vertical gap between stacked labels, data units
	CircleFactor  float64  `json:"circle_factor"`  // outline radius = Zoom * CircleFactor
	LabelRotation float64  `json:"label_rotation"` // degrees
	FullSizeIcons []string `json:"full_size_icons"`
	ShowGrid      bool     `json:"show_grid"`
	TickStep      float64  `json:"tick_step"`
}

// DefaultOptions returns the layout constants used by the map tool.
func DefaultOptions() Options {
	return Options{
		Zoom:          0.01,
		Dist:          10000,
		Scale:         300,
		LabelOffset:   1250,
		CircleFactor:  1300000,
		LabelRotation: -20,
		FullSizeIcons: []string{"HardDrive"},
		TickStep:      100000,
	}
}

// Builder accumulates the marks for one scene.
// It is not safe for concurrent use.
type Builder struct {
	frame Frame
	style Style
	opts  Options
	marks []Mark
	owner string
}

// NewBuilder creates a builder for the given frame.
func NewBuilder(frame Frame, style Style, opts Options) *Builder {
	return &Builder{frame: frame, style: style, opts: opts}
}

// Build validates the frame and places every POI in order.
func Build(frame Frame, style Style, opts Options, pois []poi.POI) (Scene, error) {
	if err := frame.Validate(); err != nil {
		return Scene{}, err
	}
	b := NewBuilder(frame, style, opts)
	if opts.ShowGrid {
		b.Grid()
	}
	for _, p := range pois {
		if err := b.Place(p); err != nil {
			return Scene{}, err
		}
	}
	return b.Scene(), nil
}

// Scene returns the marks accumulated so far.
func (b *Builder) Scene() Scene {
	return Scene{Frame: b.frame, Style: b.style, Marks: slices.Clone(b.marks)}
}

// Place draws p's icon and then the variant its kind selects.
func (b *Builder) Place(p poi.POI) error {
	v, ok := lookup(p.Kind)
	if !ok {
		return errors.New(errors.ErrCodeUnknownKind, "poi %s: unknown type code %q", p.ID, string(p.Kind))
	}

	b.owner = p.ID
	defer func() { b.owner = "" }()

	zoom := b.opts.Zoom / 2
	if slices.Contains(b.opts.FullSizeIcons, p.Icon) {
		zoom = b.opts.Zoom
	}
	b.drawImage(p.Icon, zoom, p.X, p.Y)

	v.draw(b, p)
	return nil
}

// Grid adds tick lines and coordinate labels every TickStep data units,
// starting at the extent minimum and stopping short of the maximum. Nothing
// is drawn when the step would exceed MaxGridTicks on either axis.
func (b *Builder) Grid() {
	e := b.frame.Extent
	nx, ny, ok := GridTicks(e, b.opts.TickStep)
	if !ok {
		return
	}
	step := b.opts.TickStep
	inset := b.opts.LabelOffset
	for i := 0; i < nx; i++ {
		x := e.XMin + float64(i)*step
		b.add(Mark{Type: MarkLine, Z: LayerGrid, X: x, Y: e.YMin, X2: x, Y2: e.YMax})
		b.add(Mark{Type: MarkText, Z: LayerText, X: x, Y: e.YMin + inset, Size: b.style.TickSize,
			Text: strconv.FormatFloat(x, 'f', -1, 64)})
	}
	for i := 0; i < ny; i++ {
		y := e.YMin + float64(i)*step
		b.add(Mark{Type: MarkLine, Z: LayerGrid, X: e.XMin, Y: y, X2: e.XMax, Y2: y})
		b.add(Mark{Type: MarkText, Z: LayerText, X: e.XMin + inset, Y: y, Size: b.style.TickSize,
			Text: strconv.FormatFloat(y, 'f', -1, 64)})
	}
}

func (b *Builder) add(m Mark) {
	if m.POI == "" {
		m.POI = b.owner
	}
	b.marks = append(b.marks, m)
}

func (b *Builder) drawImage(icon string, zoom, x, y float64) {
	b.add(Mark{Type: MarkImage, Z: LayerMarks, Icon: icon, Zoom: zoom, X: x, Y: y})
}

func (b *Builder) drawCircle(x, y, radius float64) {
	b.add(Mark{Type: MarkCircle, Z: LayerMarks, X: x, Y: y, Radius: radius})
}

func (b *Builder) drawText(x, y float64, text string) {
	if text == "" {
		return
	}
	b.add(Mark{Type: MarkText, Z: LayerText, X: x, Y: y, Text: text, Rotation: b.opts.LabelRotation})
}

// circleItems draws the outline and one icon per item instance.
func (b *Builder) circleItems(p poi.POI, cx, cy float64) {
	b.drawCircle(cx, cy, b.opts.Zoom*b.opts.CircleFactor)

	pts := CirclePositions(cx, cy, p.TotalItems(), b.opts.Dist, b.opts.Scale)
	i := 0
	for _, it := range p.Items {
		for n := 0; n < it.Count; n++ {
			b.drawImage(it.Type, b.opts.Zoom, pts[i].X, pts[i].Y)
			i++
		}
	}
}

// circleUnique draws the outline and one icon per item type, each labelled
// with its display label (or its count when the label is empty).
func (b *Builder) circleUnique(p poi.POI, cx, cy float64) {
	b.drawCircle(cx, cy, b.opts.Zoom*b.opts.CircleFactor)

	pts := CirclePositions(cx, cy, len(p.Items), b.opts.Dist, b.opts.Scale)
	for i, it := range p.Items {
		b.drawImage(it.Type, b.opts.Zoom, pts[i].X, pts[i].Y)
		label := it.Label
		if label == "" {
			label = strconv.Itoa(it.Count)
		}
		b.drawText(pts[i].X, pts[i].Y, label)
	}
}

// actual draws every placement at its own coordinates.
func (b *Builder) actual(p poi.POI) {
	for _, pl := range p.Placements {
		b.drawImage(pl.Type, b.opts.Zoom, pl.X, pl.Y)
	}
}

// doggo draws the secondary icon at the offset and the ID at the POI itself.
func (b *Builder) doggo(p poi.POI) {
	ax, ay := p.Anchor()
	b.drawImage(p.Icon, b.opts.Zoom/2, ax, ay)
	b.drawText(p.X, p.Y, p.ID)
}
