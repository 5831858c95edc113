// Package fonts provides label font faces for the raster sink.
//
// The Go Regular font is embedded through golang.org/x/image/font/gofont,
// so labels render without any system fonts installed. A system font can be
// requested by file name (e.g. "DejaVuSans.ttf"); it is located with
// go-findfont and parsed once.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/poimap/pkg/errors"
)

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for SVG viewers without the Go font.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica', 'Arial', sans-serif`

var (
	embedded     *truetype.Font
	embeddedErr  error
	embeddedOnce sync.Once

	mu     sync.Mutex
	byName = map[string]*truetype.Font{}
)

// Default returns the embedded Go Regular font.
// The result is cached after first parse.
func Default() (*truetype.Font, error) {
	embeddedOnce.Do(func() {
		embedded, embeddedErr = truetype.Parse(goregular.TTF)
	})
	return embedded, embeddedErr
}

// Load returns the font with the given file name, searching the system font
// directories. An empty name returns [Default].
func Load(name string) (*truetype.Font, error) {
	if name == "" {
		return Default()
	}

	mu.Lock()
	defer mu.Unlock()
	if f, ok := byName[name]; ok {
		return f, nil
	}

	path, err := findfont.Find(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read font %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font %s", path)
	}
	byName[name] = f
	return f, nil
}

// Face returns a face of f at sizePx pixels.
func Face(f *truetype.Font, sizePx float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
