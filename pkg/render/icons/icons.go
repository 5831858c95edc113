// Package icons loads POI and item icons from an icon directory.
//
// Icons are looked up by bare name: "HardDrive" resolves to
// <dir>/HardDrive.png. Decoded images and their scaled copies are memoized
// per [Store], so a scene that places the same item icon hundreds of times
// decodes and resizes it once.
package icons

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/poimap/pkg/errors"
)

const (
	// Ext is the file extension icons are stored with.
	Ext = ".png"

	// DefaultDir is the icon directory used when none is configured.
	DefaultDir = "imgs"
)

type scaledKey struct {
	name   string
	factor float64
}

// Store resolves and caches icons from one directory.
// It is safe for concurrent use.
type Store struct {
	dir string

	mu     sync.Mutex
	raw    map[string]image.Image
	scaled map[scaledKey]image.Image
}

// NewStore creates a store reading icons from dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		raw:    make(map[string]image.Image),
		scaled: make(map[scaledKey]image.Image),
	}
}

// Dir returns the icon directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for icon name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+Ext)
}

// Load decodes icon name at its native size.
func (s *Store) Load(name string) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(name)
}

func (s *Store) load(name string) (image.Image, error) {
	if img, ok := s.raw[name]; ok {
		return img, nil
	}
	if err := errors.ValidateIconName(name); err != nil {
		return nil, err
	}
	img, err := imaging.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeIconNotFound, err, "icon %s", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode icon %s", name)
	}
	s.raw[name] = img
	return img, nil
}

// Raw returns the encoded bytes of icon name, for sinks that embed icons
// rather than rasterize them.
func (s *Store) Raw(name string) ([]byte, error) {
	if err := errors.ValidateIconName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeIconNotFound, err, "icon %s", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read icon %s", name)
	}
	return data, nil
}

// Scaled returns icon name resized by factor. Each side is at least one
// pixel so tiny zoom values still leave a visible mark.
func (s *Store) Scaled(name string, factor float64) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scaledKey{name, factor}
	if img, ok := s.scaled[key]; ok {
		return img, nil
	}
	src, err := s.load(name)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	img := image.Image(imaging.Resize(src, w, h, imaging.Lanczos))
	s.scaled[key] = img
	return img, nil
}

// Missing returns the names that do not resolve to a readable icon file.
func (s *Store) Missing(names []string) []string {
	var out []string
	for _, n := range names {
		if errors.ValidateIconName(n) != nil {
			out = append(out, n)
			continue
		}
		if _, err := os.Stat(s.Path(n)); err != nil {
			out = append(out, n)
		}
	}
	return out
}
