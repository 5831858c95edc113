package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/poimap/pkg/cache"
	"github.com/matzehuels/poimap/pkg/config"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/poi"
)

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	want := []string{"render", "validate", "kinds", "browse", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestKindsTable(t *testing.T) {
	out := kindsTable(overlay.Variants())
	for _, v := range overlay.Variants() {
		if !strings.Contains(out, v.Description) {
			t.Errorf("kinds table missing %s (%s)", v.Kind, v.Description)
		}
	}
}

func TestKindRow(t *testing.T) {
	tests := []struct {
		kind   poi.Kind
		centre string
		labels string
		doggo  string
	}{
		{poi.KindActual, "-", "-", ""},
		{poi.KindUniqueDoggoPoints, "offset", "id, points", iconSuccess},
		{poi.KindItemsReqs, "poi", "id, requirement", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			v, ok := overlay.VariantFor(tt.kind)
			if !ok {
				t.Fatalf("no variant for %s", tt.kind)
			}
			row := kindRow(v)
			if row[2] != tt.centre || row[3] != tt.labels || row[4] != tt.doggo {
				t.Errorf("kindRow(%s) = %v", tt.kind, row)
			}
		})
	}
}

func TestRenderFlagsApply(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--extent", "0,100,0,50", "--dpi", "72", "--name", "map", "--no-cache"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	var flags renderFlags
	flags.extent, _ = cmd.Flags().GetString("extent")
	flags.dpi, _ = cmd.Flags().GetFloat64("dpi")
	flags.name, _ = cmd.Flags().GetString("name")
	flags.noCache, _ = cmd.Flags().GetBool("no-cache")

	if err := flags.apply(cmd, &cfg, []string{"pois.csv"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Source.URI != "pois.csv" || cfg.Map.DPI != 72 || cfg.Paths.Name != "map" || !cfg.Cache.Disabled {
		t.Errorf("config not overridden: %+v", cfg)
	}
	if cfg.Map.Extent[1] != 100 {
		t.Errorf("extent = %v", cfg.Map.Extent)
	}
	if cfg.Paths.Icons != "imgs" {
		t.Errorf("unset flag overrode icons: %q", cfg.Paths.Icons)
	}
}

func TestRenderFlagsApplyInvalid(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--extent", "0,100"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	flags := renderFlags{extent: "0,100"}
	if err := flags.apply(cmd, &cfg, nil); err == nil {
		t.Error("expected error for short extent")
	}
}

func TestIsSceneFile(t *testing.T) {
	tests := map[string]bool{
		"out.scene.json": true,
		"OUT.SCENE.JSON": true,
		"pois.json":      false,
		"pois.csv":       false,
	}
	for in, want := range tests {
		if got := isSceneFile(in); got != want {
			t.Errorf("isSceneFile(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCachePathFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "poimap.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \"/tmp/poimap-test\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(&bytes.Buffer{}, LogInfo)
	c.ConfigPath = cfgPath

	got, err := c.fileCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/poimap-test" {
		t.Errorf("fileCacheDir() = %q", got)
	}
}

func testPOIs() []poi.POI {
	return []poi.POI{
		{ID: "HD1", Kind: poi.KindUniquePoints, X: 1000, Y: 2000, Icon: "HardDrive", Points: 12345,
			Items: []poi.ItemStack{{Type: "Motor", Count: 2, Label: "x2"}}},
		{ID: "D1", Kind: poi.KindUniqueDoggo, X: 3000, Y: 1000, OffsetX: 200, Icon: "Doggo"},
		{ID: "A1", Kind: poi.KindActual, X: 10, Y: 10, Icon: "Crate",
			Placements: []poi.ItemPlacement{{Type: "Screw", X: 11, Y: 12}}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPOIListModelNavigation(t *testing.T) {
	var m tea.Model = NewPOIListModel(testPOIs())

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("down")) // clamps at the last row
	if got := m.(POIListModel).Cursor; got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	m, _ = m.Update(key("k"))
	if got := m.(POIListModel).Cursor; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}

	m, _ = m.Update(key("enter"))
	if !m.(POIListModel).Detail {
		t.Fatal("enter should open the detail view")
	}
	m, _ = m.Update(key("down"))
	if got := m.(POIListModel).Cursor; got != 1 {
		t.Errorf("cursor moved in detail view: %d", got)
	}
	m, cmd := m.Update(key("esc"))
	if m.(POIListModel).Detail || cmd != nil {
		t.Error("esc should close the detail view without quitting")
	}
	if _, cmd = m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestPOIListModelScroll(t *testing.T) {
	pois := make([]poi.POI, 20)
	for i := range pois {
		pois[i] = poi.POI{ID: string(rune('a' + i)), Kind: poi.KindUniquePoints, Icon: "x"}
	}
	var m tea.Model = NewPOIListModel(pois)
	m, _ = m.Update(tea.WindowSizeMsg{Height: 11})
	for n := 0; n < 10; n++ {
		m, _ = m.Update(key("down"))
	}
	got := m.(POIListModel)
	if got.Height != 5 || got.Offset != 6 {
		t.Errorf("height %d offset %d, want 5 and 6", got.Height, got.Offset)
	}
}

func TestPOIListModelView(t *testing.T) {
	m := NewPOIListModel(testPOIs())
	view := m.View()
	for _, want := range []string{"HD1", "D1", "A1", "12k", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("list view missing %q", want)
		}
	}

	m.Detail = true
	detail := m.View()
	for _, want := range []string{"HD1", "Motor", "x2", "12345 (12k)"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	m.Cursor = 2
	if !strings.Contains(m.View(), "Screw") {
		t.Error("detail view missing placements")
	}
}

func TestOutsideExtent(t *testing.T) {
	e := overlay.Extent{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	pois := []poi.POI{
		{ID: "in", X: 50, Y: 50},
		{ID: "edge", X: 100, Y: 0},
		{ID: "out", X: 150, Y: 50},
		{ID: "stray", X: 50, Y: 50, Placements: []poi.ItemPlacement{{Type: "Screw", X: 10, Y: -5}}},
	}
	got := outsideExtent(pois, e)
	if strings.Join(got, ",") != "out,stray" {
		t.Errorf("outsideExtent() = %v, want [out stray]", got)
	}
}

func TestKeyerFor(t *testing.T) {
	cfg := config.Default()
	if keyerFor(cfg) != nil {
		t.Error("memory cache should use the default keyer")
	}

	cfg.Cache.RedisURL = "redis://localhost:6379/0"
	k := keyerFor(cfg)
	if k == nil {
		t.Fatal("redis cache should get a scoped keyer")
	}
	if key := k.ArtifactKey("abc", cache.ArtifactKeyOpts{Format: "png"}); !strings.HasPrefix(key, "poimap:artifact:") {
		t.Errorf("ArtifactKey() = %q, want poimap:artifact: prefix", key)
	}

	cfg.Cache.Disabled = true
	if keyerFor(cfg) != nil {
		t.Error("disabled cache should use the default keyer")
	}
}

func TestCacheName(t *testing.T) {
	cfg := config.Default()
	if got := cacheName(cfg); got != "memory" {
		t.Errorf("cacheName() = %q, want memory", got)
	}
	cfg.Cache.RedisURL = "redis://:secret@cache:6379/0"
	if got := cacheName(cfg); strings.Contains(got, "secret") || !strings.HasPrefix(got, "redis ") {
		t.Errorf("cacheName() = %q", got)
	}
}
