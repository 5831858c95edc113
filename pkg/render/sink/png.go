package sink

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/fonts"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/render/icons"
)

// haloSteps is the number of offsets used to approximate a stroked outline
// around label glyphs.
const haloSteps = 16

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	icons *icons.Store
	font  *truetype.Font
	faces map[float64]font.Face
}

// WithIcons sets the icon store (default: icons.DefaultDir).
func WithIcons(s *icons.Store) PNGOption {
	return func(r *pngRenderer) { r.icons = s }
}

// WithFont sets the label font (default: the embedded Go font).
func WithFont(f *truetype.Font) PNGOption {
	return func(r *pngRenderer) { r.font = f }
}

// RenderPNG rasterizes the scene.
func RenderPNG(s overlay.Scene, opts ...PNGOption) ([]byte, error) {
	dc, err := rasterize(s, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderImage rasterizes the scene and returns the canvas image.
func RenderImage(s overlay.Scene, opts ...PNGOption) (image.Image, error) {
	dc, err := rasterize(s, opts...)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func rasterize(s overlay.Scene, opts ...PNGOption) (*gg.Context, error) {
	r := pngRenderer{faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	if r.icons == nil {
		r.icons = icons.NewStore(icons.DefaultDir)
	}
	if r.font == nil {
		f, err := fonts.Load(s.Style.Font)
		if err != nil {
			return nil, err
		}
		r.font = f
	}
	defer r.closeFaces()

	if err := s.Frame.Validate(); err != nil {
		return nil, err
	}
	w, h := s.Frame.Size()
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if err := r.drawBackground(dc, s.Frame, w, h); err != nil {
		return nil, err
	}
	for _, m := range s.Ordered() {
		if err := r.drawMark(dc, s, m); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func (r *pngRenderer) drawBackground(dc *gg.Context, f overlay.Frame, w, h int) error {
	if f.Background == "" {
		return nil
	}
	bg, err := imaging.Open(f.Background)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open background %s", f.Background)
	}
	dc.DrawImage(imaging.Resize(bg, w, h, imaging.Lanczos), 0, 0)
	return nil
}

func (r *pngRenderer) drawMark(dc *gg.Context, s overlay.Scene, m overlay.Mark) error {
	f := s.Frame
	px, py := f.ToPixel(m.X, m.Y)

	switch m.Type {
	case overlay.MarkImage:
		img, err := r.icons.Scaled(m.Icon, m.Zoom*f.DPI/72)
		if err != nil {
			return err
		}
		dc.DrawImageAnchored(img, int(px+0.5), int(py+0.5), 0.5, 0.5)

	case overlay.MarkCircle:
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(f.PointsToPixels(s.Style.CircleWidth))
		dc.DrawCircle(px, py, f.DataToPixels(m.Radius))
		dc.Stroke()

	case overlay.MarkLine:
		x2, y2 := f.ToPixel(m.X2, m.Y2)
		dc.SetRGBA(0, 0, 0, 0.35)
		dc.SetLineWidth(f.PointsToPixels(s.Style.GridWidth))
		dc.DrawLine(px, py, x2, y2)
		dc.Stroke()

	case overlay.MarkText:
		size := m.Size
		if size == 0 {
			size = s.Style.LabelSize
		}
		r.drawLabel(dc, m.Text, px, py, m.Rotation,
			f.PointsToPixels(size), f.PointsToPixels(s.Style.HaloWidth))
	}
	return nil
}

// drawLabel draws centred text with a white halo. Rotation is in degrees
// counter-clockwise as seen on the canvas; gg rotates clockwise.
func (r *pngRenderer) drawLabel(dc *gg.Context, text string, x, y, rotation, sizePx, haloPx float64) {
	dc.Push()
	defer dc.Pop()

	dc.SetFontFace(r.face(sizePx))
	dc.RotateAbout(gg.Radians(-rotation), x, y)

	if halo := haloPx / 2; halo > 0 {
		dc.SetRGB(1, 1, 1)
		for i := 0; i < haloSteps; i++ {
			a := 2 * math.Pi * float64(i) / haloSteps
			dc.DrawStringAnchored(text, x+halo*math.Cos(a), y+halo*math.Sin(a), 0.5, 0.5)
		}
	}
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

func (r *pngRenderer) face(sizePx float64) font.Face {
	if f, ok := r.faces[sizePx]; ok {
		return f
	}
	f := fonts.Face(r.font, sizePx)
	r.faces[sizePx] = f
	return f
}

func (r *pngRenderer) closeFaces() {
	for _, f := range r.faces {
		_ = f.Close()
	}
}
