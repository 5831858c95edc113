package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/poimap/pkg/render/icons"
)

// stamp summarizes the size and modification time of every named icon so
// edited icons invalidate cached artifacts.
func stamp(store *icons.Store, names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + fileStamp(store.Path(n))
	}
	return strings.Join(parts, ";")
}

// fileStamp returns "size:mtime" for path, or "missing".
func fileStamp(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return fmt.Sprintf("%d:%d", fi.Size(), fi.ModTime().UnixNano())
}
