package overlay

import (
	"testing"

	"github.com/matzehuels/poimap/pkg/errors"
)

func testFrame() Frame {
	return Frame{
		Extent:      Extent{XMin: 0, XMax: 1000, YMin: 0, YMax: 500},
		DPI:         100,
		WidthInches: 10,
	}
}

func TestFrameSize(t *testing.T) {
	w, h := testFrame().Size()
	if w != 1000 || h != 500 {
		t.Errorf("Size() = %dx%d, want 1000x500", w, h)
	}
}

func TestFrameToPixelInvertsY(t *testing.T) {
	f := testFrame()
	f.Extent = Extent{XMin: -500, XMax: 500, YMin: -250, YMax: 250}

	tests := []struct {
		x, y   float64
		px, py float64
	}{
		{-500, -250, 0, 0},
		{500, 250, 1000, 500},
		{0, 0, 500, 250},
		{-500, 250, 0, 500},
	}
	for _, tt := range tests {
		px, py := f.ToPixel(tt.x, tt.y)
		if !near(px, tt.px) || !near(py, tt.py) {
			t.Errorf("ToPixel(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, px, py, tt.px, tt.py)
		}
	}
}

func TestFrameConversions(t *testing.T) {
	f := testFrame()
	if got := f.DataToPixels(250); !near(got, 250) {
		t.Errorf("DataToPixels(250) = %v, want 250", got)
	}
	if got := f.PointsToPixels(72); !near(got, 100) {
		t.Errorf("PointsToPixels(72) = %v, want 100", got)
	}
}

func TestFrameValidate(t *testing.T) {
	if err := testFrame().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		frame Frame
	}{
		{"flat extent", Frame{Extent: Extent{XMax: 10}, DPI: 100, WidthInches: 1}},
		{"inverted extent", Frame{Extent: Extent{XMin: 10, XMax: 0, YMax: 10}, DPI: 100, WidthInches: 1}},
		{"zero dpi", Frame{Extent: Extent{XMax: 10, YMax: 10}, WidthInches: 1}},
		{"zero width", Frame{Extent: Extent{XMax: 10, YMax: 10}, DPI: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestExtentContains(t *testing.T) {
	e := Extent{XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	if !e.Contains(0, 10) || !e.Contains(5, 5) {
		t.Error("Contains should include interior and edges")
	}
	if e.Contains(-1, 5) || e.Contains(5, 11) {
		t.Error("Contains should exclude outside points")
	}
}

func TestGridTicks(t *testing.T) {
	e := testFrame().Extent
	tests := []struct {
		step   float64
		nx, ny int
		ok     bool
	}{
		{250, 4, 2, true},
		{300, 4, 2, true},
		{1, 1000, 500, true},
		{0.9, 0, 0, false},
		{0, 0, 0, false},
		{-5, 0, 0, false},
	}
	for _, tt := range tests {
		nx, ny, ok := GridTicks(e, tt.step)
		if nx != tt.nx || ny != tt.ny || ok != tt.ok {
			t.Errorf("GridTicks(%v) = %d, %d, %v, want %d, %d, %v", tt.step, nx, ny, ok, tt.nx, tt.ny, tt.ok)
		}
	}
}
