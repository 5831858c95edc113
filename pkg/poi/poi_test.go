package poi

import (
	"math"
	"testing"

	"github.com/matzehuels/poimap/pkg/errors"
)

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 15 {
		t.Fatalf("expected 15 kinds, got %d", len(kinds))
	}
	if kinds[0] != "A" || kinds[14] != "O" {
		t.Errorf("kinds should run A..O, got %s..%s", kinds[0], kinds[14])
	}

	kinds[0] = "Z"
	if Kinds()[0] != "A" {
		t.Error("Kinds should return a copy")
	}
}

func TestKindKnownAndDoggo(t *testing.T) {
	tests := []struct {
		kind  Kind
		known bool
		doggo bool
	}{
		{"A", true, false},
		{"B", true, true},
		{"C", true, true},
		{"D", true, false},
		{"F", true, true},
		{"G", true, true},
		{"I", true, false},
		{"J", true, true},
		{"N", true, false},
		{"O", true, true},
		{"P", false, false},
		{"a", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Known(); got != tt.known {
				t.Errorf("Known() = %v, want %v", got, tt.known)
			}
			if got := tt.kind.Doggo(); got != tt.doggo {
				t.Errorf("Doggo() = %v, want %v", got, tt.doggo)
			}
		})
	}
}

func TestPointsLabel(t *testing.T) {
	tests := []struct {
		points int64
		want   string
	}{
		{0, "0k"},
		{999, "0k"},
		{1000, "1k"},
		{12345, "12k"},
		{250000, "250k"},
		{-1, "-1k"},
		{-1000, "-1k"},
		{-1500, "-2k"},
		{9007199254740993, "9007199254740k"},
		{math.MaxInt64, "9223372036854775k"},
		{math.MinInt64, "-9223372036854776k"},
	}
	for _, tt := range tests {
		p := POI{Points: tt.points}
		if got := p.PointsLabel(); got != tt.want {
			t.Errorf("PointsLabel(%d) = %q, want %q", tt.points, got, tt.want)
		}
	}

	if got := (POI{Points: 12345}).PointsRaw(); got != "12345" {
		t.Errorf("PointsRaw() = %q, want %q", got, "12345")
	}
}

func TestTotalItemsAndAnchor(t *testing.T) {
	p := POI{
		X: 100, Y: 200, OffsetX: 10, OffsetY: -20,
		Items: []ItemStack{{Type: "Screw", Count: 3}, {Type: "Plate", Count: 2}},
	}
	if got := p.TotalItems(); got != 5 {
		t.Errorf("TotalItems() = %d, want 5", got)
	}
	p.Items = append(p.Items, ItemStack{Type: "Bolt", Count: -4})
	if got := p.TotalItems(); got != 5 {
		t.Errorf("TotalItems() with negative count = %d, want 5", got)
	}
	x, y := p.Anchor()
	if x != 110 || y != 180 {
		t.Errorf("Anchor() = (%v, %v), want (110, 180)", x, y)
	}
}

func TestValidateAll(t *testing.T) {
	valid := POI{ID: "HD-1", Kind: KindUniquePoints, Icon: "HardDrive",
		Items: []ItemStack{{Type: "Screw", Count: 1}}}

	if err := ValidateAll([]POI{valid}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		pois []POI
	}{
		{"empty id", []POI{{Kind: "A", Icon: "HardDrive"}}},
		{"unknown kind", []POI{{ID: "x", Kind: "Z", Icon: "HardDrive"}}},
		{"bad icon", []POI{{ID: "x", Kind: "A", Icon: "../etc"}}},
		{"duplicate item type", []POI{{ID: "x", Kind: "E", Icon: "HardDrive",
			Items: []ItemStack{{Type: "Screw", Count: 1}, {Type: "Screw", Count: 2}}}}},
		{"negative count", []POI{{ID: "x", Kind: "E", Icon: "HardDrive",
			Items: []ItemStack{{Type: "Screw", Count: -1}}}}},
		{"duplicate id", []POI{valid, valid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAll(tt.pois)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidPOI) {
				t.Errorf("expected INVALID_POI, got %v", err)
			}
		})
	}
}
