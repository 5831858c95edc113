package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

const sampleCSV = `id,type,x,y,x_off,y_off,img,items,points,req,placements
HD1,E,1000,-2000,,,HardDrive,Motor:2:x2;Battery:1,12345,,
D7,B,500,500,3000,-3000,Doggo,Nut:4:4 nuts,,,

A1,a,0,0,,,Crate,,,,Motor:2@10:20;Battery@-5.5:7
`

func TestReadCSV(t *testing.T) {
	pois, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(pois) != 3 {
		t.Fatalf("got %d POIs, want 3 (blank rows skipped)", len(pois))
	}

	hd := pois[0]
	if hd.ID != "HD1" || hd.Kind != poi.KindUniquePoints || hd.Y != -2000 || hd.Points != 12345 {
		t.Errorf("HD1 = %+v", hd)
	}
	if len(hd.Items) != 2 || hd.Items[0] != (poi.ItemStack{Type: "Motor", Count: 2, Label: "x2"}) {
		t.Errorf("HD1 items = %+v", hd.Items)
	}
	if hd.Items[1].Count != 1 || hd.Items[1].Label != "" {
		t.Errorf("Battery stack = %+v", hd.Items[1])
	}

	if d := pois[1]; d.OffsetX != 3000 || d.OffsetY != -3000 || d.Items[0].Label != "4 nuts" {
		t.Errorf("D7 = %+v", d)
	}

	a := pois[2]
	if a.Kind != poi.KindActual {
		t.Errorf("type codes are upper-cased, got %q", a.Kind)
	}
	want := []poi.ItemPlacement{{Type: "Motor", Amount: 2, X: 10, Y: 20}, {Type: "Battery", Amount: 1, X: -5.5, Y: 7}}
	if len(a.Placements) != 2 || a.Placements[0] != want[0] || a.Placements[1] != want[1] {
		t.Errorf("placements = %+v", a.Placements)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing column", "id,type,x,y\nA,B,1,2\n", `"img"`},
		{"bad x", "id,type,x,y,img\nA,B,east,2,i\n", "line 2"},
		{"empty y", "id,type,x,y,img\nA,B,1,,i\n", "y: empty"},
		{"bad count", "id,type,x,y,img,items\nA,B,1,2,i,Motor:two\n", "count"},
		{"bad placement", "id,type,x,y,img,placements\nA,A,1,2,i,Motor:1\n", "@x:y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ReadCSV() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFormatItems(t *testing.T) {
	in := "Motor:2:x2;Battery:1"
	items, err := ParseItems(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatItems(items); got != in {
		t.Errorf("FormatItems = %q, want %q", got, in)
	}
}

func TestDecodeStructured(t *testing.T) {
	tests := []struct {
		format string
		in     string
	}{
		{FormatJSON, `[{"id":"HD1","type":"E","x":1,"y":2,"img":"HardDrive","items":[{"type":"Motor","count":2,"label":"x2"}],"points":5000}]`},
		{FormatJSON, `{"pois":[{"id":"HD1","type":"E","x":1,"y":2,"img":"HardDrive","items":[{"type":"Motor","count":2,"label":"x2"}],"points":5000}]}`},
		{FormatTOML, `
[[pois]]
id = "HD1"
type = "E"
x = 1.0
y = 2.0
img = "HardDrive"
points = 5000
items = [{type = "Motor", count = 2, label = "x2"}]
`},
		{FormatYAML, `
- id: HD1
  type: E
  x: 1
  y: 2
  img: HardDrive
  points: 5000
  items:
    - {type: Motor, count: 2, label: x2}
`},
		{FormatYAML, `
pois:
  - id: HD1
    type: E
    x: 1
    y: 2
    img: HardDrive
    points: 5000
    items:
      - {type: Motor, count: 2, label: x2}
`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			pois, err := Decode(strings.NewReader(tt.in), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(pois) != 1 {
				t.Fatalf("got %d POIs", len(pois))
			}
			p := pois[0]
			if p.ID != "HD1" || p.Kind != poi.KindUniquePoints || p.X != 1 || p.Y != 2 || p.Points != 5000 {
				t.Errorf("POI = %+v", p)
			}
			if len(p.Items) != 1 || p.Items[0] != (poi.ItemStack{Type: "Motor", Count: 2, Label: "x2"}) {
				t.Errorf("items = %+v", p.Items)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		loc    string
		want   string
		remote bool
	}{
		{"pois.csv", "*source.FileSource", false},
		{"data/pois.YML", "*source.FileSource", false},
		{"file://pois.json", "*source.FileSource", false},
		{"mongodb://localhost/maps", "*source.MongoSource", true},
		{"postgres://u:p@localhost/maps", "*source.PostgresSource", true},
	}
	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			src, err := Open(tt.loc, Options{})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if got := typeName(src); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.loc, got, tt.want)
			}
			if src.Remote() != tt.remote {
				t.Errorf("Remote() = %v", src.Remote())
			}
		})
	}

	for _, bad := range []string{"", "pois.xlsx", "s3://bucket/pois.json"} {
		if _, err := Open(bad, Options{}); err == nil {
			t.Errorf("Open(%q) should fail", bad)
		}
	}
	if _, err := Open("pois.xlsx", Options{}); !errors.Is(err, errors.ErrCodeUnsupportedSource) {
		t.Errorf("unsupported extension code = %v", errors.GetCode(err))
	}
}

func typeName(s Source) string {
	switch s.(type) {
	case *FileSource:
		return "*source.FileSource"
	case *MongoSource:
		return "*source.MongoSource"
	case *PostgresSource:
		return "*source.PostgresSource"
	}
	return "?"
}

func TestOpenDefaults(t *testing.T) {
	src, _ := Open("mongodb://localhost", Options{})
	if m := src.(*MongoSource); m.Collection != DefaultCollection {
		t.Errorf("Collection = %q", m.Collection)
	}
	src, _ = Open("postgres://localhost/db", Options{Table: "maps.pois"})
	if p := src.(*PostgresSource); p.Table != "maps.pois" {
		t.Errorf("Table = %q", p.Table)
	}
}

func TestLoadValidates(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "pois.csv")
	if err := os.WriteFile(good, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	pois, err := Load(context.Background(), good, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pois) != 3 {
		t.Errorf("got %d POIs", len(pois))
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"id":"X","type":"Z","x":0,"y":0,"img":"i"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), bad, Options{}); !errors.Is(err, errors.ErrCodeInvalidPOI) {
		t.Errorf("unknown type code: %v", err)
	}

	_, err = Load(context.Background(), filepath.Join(dir, "missing.csv"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
}

func TestRedact(t *testing.T) {
	tests := map[string]string{
		"postgres://user:secret@db:5432/maps": "postgres://user:***@db:5432/maps",
		"mongodb://localhost/maps":            "mongodb://localhost/maps",
		"mongodb://user@localhost/maps":       "mongodb://user@localhost/maps",
		"pois.csv":                            "pois.csv",
	}
	for in, want := range tests {
		if got := Redact(in); got != want {
			t.Errorf("Redact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMongoDatabase(t *testing.T) {
	tests := map[string]string{
		"mongodb://localhost":            DefaultDatabase,
		"mongodb://localhost:27017/maps": "maps",
	}
	for uri, want := range tests {
		got, err := mongoDatabase(uri)
		if err != nil || got != want {
			t.Errorf("mongoDatabase(%q) = %q, %v; want %q", uri, got, err, want)
		}
	}
	if _, err := mongoDatabase("mongodb://"); err == nil {
		t.Error("empty host should fail")
	}
}

func TestSelectQuery(t *testing.T) {
	q, err := selectQuery("maps.pois")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q, `FROM "maps"."pois" ORDER BY id`) {
		t.Errorf("query = %s", q)
	}
	for _, bad := range []string{"", "pois; drop table x", `po"is`, "a.b.c"} {
		if _, err := selectQuery(bad); err == nil {
			t.Errorf("selectQuery(%q) should fail", bad)
		}
	}
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r[i].(string)
		case *float64:
			*d = r[i].(float64)
		case *[]byte:
			if r[i] != nil {
				*d = []byte(r[i].(string))
			}
		case interface{ Scan(any) error }:
			if err := d.Scan(r[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestScanPOI(t *testing.T) {
	row := fakeRow{"HD1", "C", 1.0, 2.0, 300.0, nil, "HardDrive",
		`[{"type":"Motor","count":2,"label":"x2"}]`, nil, int64(9000), nil}
	p, err := scanPOI(row)
	if err != nil {
		t.Fatalf("scanPOI: %v", err)
	}
	if p.Kind != poi.KindUniqueDoggoPoints || p.OffsetX != 300 || p.OffsetY != 0 || p.Points != 9000 || p.Requirement != "" {
		t.Errorf("POI = %+v", p)
	}
	if len(p.Items) != 1 || p.Items[0].Count != 2 || p.Placements != nil {
		t.Errorf("items = %+v placements = %+v", p.Items, p.Placements)
	}

	row[7] = `{broken`
	if _, err := scanPOI(row); err == nil {
		t.Error("broken items JSON should fail")
	}
}
