package sink

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/fonts"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/render/icons"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	icons          *icons.Store
	linkBackground bool
	ids            map[string]string // icon name -> element id
}

// WithSVGIcons sets the icon store (default: icons.DefaultDir).
func WithSVGIcons(s *icons.Store) SVGOption {
	return func(r *svgRenderer) { r.icons = s }
}

// WithLinkedBackground references the background image by path instead of
// embedding it. Output is much smaller but no longer self-contained.
func WithLinkedBackground() SVGOption {
	return func(r *svgRenderer) { r.linkBackground = true }
}

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s overlay.Scene, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.icons == nil {
		r.icons = icons.NewStore(icons.DefaultDir)
	}
	if err := s.Frame.Validate(); err != nil {
		return nil, err
	}

	w, h := s.Frame.Size()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="white"/>`+"\n", w, h)

	if err := r.renderBackground(&buf, s.Frame, w, h); err != nil {
		return nil, err
	}
	if err := r.renderDefs(&buf, s); err != nil {
		return nil, err
	}
	for _, m := range s.Ordered() {
		if err := r.renderMark(&buf, s, m); err != nil {
			return nil, err
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *svgRenderer) renderBackground(buf *bytes.Buffer, f overlay.Frame, w, h int) error {
	if f.Background == "" {
		return nil
	}
	href := f.Background
	if !r.linkBackground {
		data, err := os.ReadFile(f.Background)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open background %s", f.Background)
		}
		href = dataURI(f.Background, data)
	}
	fmt.Fprintf(buf, `  <image href="%s" x="0" y="0" width="%d" height="%d" preserveAspectRatio="none"/>`+"\n",
		escapeXML(href), w, h)
	return nil
}

// renderDefs embeds every referenced icon once at native size. Element ids
// are numbered in icon name order since names need not be valid XML ids.
func (r *svgRenderer) renderDefs(buf *bytes.Buffer, s overlay.Scene) error {
	names := s.Icons()
	r.ids = make(map[string]string, len(names))
	if len(names) == 0 {
		return nil
	}
	buf.WriteString("  <defs>\n")
	for i, name := range names {
		r.ids[name] = "icon-" + strconv.Itoa(i)
		img, err := r.icons.Load(name)
		if err != nil {
			return err
		}
		data, err := r.icons.Raw(name)
		if err != nil {
			return err
		}
		b := img.Bounds()
		fmt.Fprintf(buf, `    <image id="%s" width="%d" height="%d" href="%s"><title>%s</title></image>`+"\n",
			r.ids[name], b.Dx(), b.Dy(), dataURI(r.icons.Path(name), data), escapeXML(name))
	}
	buf.WriteString("  </defs>\n")
	return nil
}

func (r *svgRenderer) renderMark(buf *bytes.Buffer, s overlay.Scene, m overlay.Mark) error {
	f := s.Frame
	px, py := f.ToPixel(m.X, m.Y)

	switch m.Type {
	case overlay.MarkImage:
		img, err := r.icons.Load(m.Icon)
		if err != nil {
			return err
		}
		scale := m.Zoom * f.DPI / 72
		b := img.Bounds()
		tx := px - float64(b.Dx())*scale/2
		ty := py - float64(b.Dy())*scale/2
		fmt.Fprintf(buf, `  <use href="#%s" transform="translate(%.2f %.2f) scale(%.4f)"/>`+"\n",
			r.ids[m.Icon], tx, ty, scale)

	case overlay.MarkCircle:
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="black" stroke-width="%.2f"/>`+"\n",
			px, py, f.DataToPixels(m.Radius), f.PointsToPixels(s.Style.CircleWidth))

	case overlay.MarkLine:
		x2, y2 := f.ToPixel(m.X2, m.Y2)
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-opacity="0.35" stroke-width="%.2f"/>`+"\n",
			px, py, x2, y2, f.PointsToPixels(s.Style.GridWidth))

	case overlay.MarkText:
		size := m.Size
		if size == 0 {
			size = s.Style.LabelSize
		}
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" transform="rotate(%.2f %.2f %.2f)" font-family="%s" font-size="%.2f" `+
			`text-anchor="middle" dominant-baseline="central" fill="black" stroke="white" stroke-width="%.2f" paint-order="stroke">%s</text>`+"\n",
			px, py, -m.Rotation, px, py, fonts.FallbackFontFamily, f.PointsToPixels(size),
			f.PointsToPixels(s.Style.HaloWidth), escapeXML(m.Text))
	}
	return nil
}

func dataURI(path string, data []byte) string {
	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		typ = "image/png"
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
