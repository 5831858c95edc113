package pipeline

import (
	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/render/icons"
	"github.com/matzehuels/poimap/pkg/render/sink"
)

// RenderFormat renders one format.
func RenderFormat(s overlay.Scene, store *icons.Store, format string, linkBackground bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case sink.FormatPNG:
		data, err = sink.RenderPNG(s, sink.WithIcons(store))
	case sink.FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithSVGIcons(store)}
		if linkBackground {
			svgOpts = append(svgOpts, sink.WithLinkedBackground())
		}
		data, err = sink.RenderSVG(s, svgOpts...)
	case sink.FormatJSON:
		data, err = sink.RenderJSON(s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}
