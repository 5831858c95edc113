package sink

import (
	"strings"

	"github.com/matzehuels/poimap/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

var validFormats = map[string]bool{FormatPNG: true, FormatSVG: true, FormatJSON: true}

// ValidateFormats checks that all requested formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %s (must be 'png', 'svg', or 'json')", f)
		}
	}
	return nil
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ParseFormats parses a comma-separated format list. Empty means PNG.
func ParseFormats(s string) []string {
	if s == "" {
		return []string{FormatPNG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
