package overlay

import (
	"math"

	"github.com/matzehuels/poimap/pkg/errors"
)

// Extent is the data-coordinate rectangle covered by the background image.
type Extent struct {
	XMin float64 `json:"xmin" toml:"xmin"`
	XMax float64 `json:"xmax" toml:"xmax"`
	YMin float64 `json:"ymin" toml:"ymin"`
	YMax float64 `json:"ymax" toml:"ymax"`
}

// Width returns the extent's horizontal span in data units.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the extent's vertical span in data units.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Contains reports whether (x, y) lies inside the extent, edges included.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax
}

// MaxGridTicks bounds the number of grid lines drawn along each axis.
const MaxGridTicks = 1000

// GridTicks returns how many ticks fit along each axis of e at the given
// step. ok is false for a non-positive step or when either axis would need
// more than MaxGridTicks.
func GridTicks(e Extent, step float64) (nx, ny int, ok bool) {
	if !(step > 0) {
		return 0, 0, false
	}
	fx, fy := math.Ceil(e.Width()/step), math.Ceil(e.Height()/step)
	if !(fx <= MaxGridTicks) || !(fy <= MaxGridTicks) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Frame describes the canvas a scene is drawn on.
type Frame struct {
	Extent      Extent  `json:"extent"`
	Background  string  `json:"background,omitempty"` // image path; empty means a white canvas
	DPI         float64 `json:"dpi"`
	WidthInches float64 `json:"width_inches"`
}

// Validate reports a degenerate extent or non-positive resolution.
func (f Frame) Validate() error {
	if !(f.Extent.Width() > 0) || !(f.Extent.Height() > 0) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"extent must have xmax > xmin and ymax > ymin (got %v)", f.Extent)
	}
	if !(f.DPI > 0) || !(f.WidthInches > 0) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"dpi and width_inches must be positive (got %v, %v)", f.DPI, f.WidthInches)
	}
	return nil
}

// Size returns the canvas size in pixels. The height follows the extent's
// aspect ratio so data units are square.
func (f Frame) Size() (w, h int) {
	fw := f.WidthInches * f.DPI
	fh := fw * f.Extent.Height() / f.Extent.Width()
	return max(1, int(math.Round(fw))), max(1, int(math.Round(fh)))
}

// ToPixel maps a data coordinate to a canvas pixel. ymin maps to the top row.
func (f Frame) ToPixel(x, y float64) (px, py float64) {
	w, h := f.Size()
	px = (x - f.Extent.XMin) / f.Extent.Width() * float64(w)
	py = (y - f.Extent.YMin) / f.Extent.Height() * float64(h)
	return px, py
}

// DataToPixels converts a data-unit length (e.g. a circle radius) to pixels.
func (f Frame) DataToPixels(d float64) float64 {
	w, _ := f.Size()
	return d / f.Extent.Width() * float64(w)
}

// PointsToPixels converts a typographic length in points to pixels.
func (f Frame) PointsToPixels(pt float64) float64 {
	return pt * f.DPI / 72
}
