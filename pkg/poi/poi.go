package poi

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/poimap/pkg/errors"
)

// ItemStack is one item type held by a POI.
type ItemStack struct {
	Type  string `json:"type" toml:"type" yaml:"type" bson:"type"`
	Count int    `json:"count" toml:"count" yaml:"count" bson:"count"`
	Label string `json:"label,omitempty" toml:"label" yaml:"label,omitempty" bson:"label,omitempty"`
}

// ItemPlacement is an item drawn at its own map coordinates (kind A).
type ItemPlacement struct {
	Type   string  `json:"type" toml:"type" yaml:"type" bson:"type"`
	Amount int     `json:"amount,omitempty" toml:"amount" yaml:"amount,omitempty" bson:"amount,omitempty"`
	X      float64 `json:"x" toml:"x" yaml:"x" bson:"x"`
	Y      float64 `json:"y" toml:"y" yaml:"y" bson:"y"`
}

// POI is a point of interest on the map.
type POI struct {
	ID          string          `json:"id" toml:"id" yaml:"id" bson:"id"`
	Kind        Kind            `json:"type" toml:"type" yaml:"type" bson:"type"`
	X           float64         `json:"x" toml:"x" yaml:"x" bson:"x"`
	Y           float64         `json:"y" toml:"y" yaml:"y" bson:"y"`
	OffsetX     float64         `json:"x_off,omitempty" toml:"x_off" yaml:"x_off,omitempty" bson:"x_off,omitempty"`
	OffsetY     float64         `json:"y_off,omitempty" toml:"y_off" yaml:"y_off,omitempty" bson:"y_off,omitempty"`
	Icon        string          `json:"img" toml:"img" yaml:"img" bson:"img"`
	Items       []ItemStack     `json:"items,omitempty" toml:"items" yaml:"items,omitempty" bson:"items,omitempty"`
	Placements  []ItemPlacement `json:"placements,omitempty" toml:"placements" yaml:"placements,omitempty" bson:"placements,omitempty"`
	Points      int64           `json:"points,omitempty" toml:"points" yaml:"points,omitempty" bson:"points,omitempty"`
	Requirement string          `json:"req,omitempty" toml:"req" yaml:"req,omitempty" bson:"req,omitempty"`
}

// TotalItems returns the number of item instances across all stacks.
// Negative counts contribute nothing.
func (p POI) TotalItems() int {
	n := 0
	for _, it := range p.Items {
		n += max(it.Count, 0)
	}
	return n
}

// Anchor returns the POI position shifted by its offset. Kinds that draw a
// secondary icon centre their item circle here.
func (p POI) Anchor() (x, y float64) {
	return p.X + p.OffsetX, p.Y + p.OffsetY
}

// PointsLabel formats the points estimate in thousands, e.g. 12345 -> "12k".
// Division floors, so -1500 becomes "-2k".
func (p POI) PointsLabel() string {
	k := p.Points / 1000
	if p.Points%1000 < 0 {
		k--
	}
	return strconv.FormatInt(k, 10) + "k"
}

// PointsRaw formats the points estimate unabbreviated.
func (p POI) PointsRaw() string {
	return strconv.FormatInt(p.Points, 10)
}

// Validate checks the invariants the overlay relies on and collects every
// violation into v. record names the POI in messages when its ID is empty.
func (p POI) Validate(v *errors.ValidationErrors, record string) {
	if p.ID != "" {
		record = p.ID
	} else {
		v.Add(record, "id", "must not be empty")
	}
	if !p.Kind.Known() {
		v.Add(record, "type", "unknown type code %q", string(p.Kind))
	}
	if err := errors.ValidateIconName(p.Icon); err != nil {
		v.Add(record, "img", "%s", errors.UserMessage(err))
	}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		v.Add(record, "x/y", "coordinates must be finite")
	}

	seen := make(map[string]bool, len(p.Items))
	for i, it := range p.Items {
		field := fmt.Sprintf("items[%d]", i)
		if err := errors.ValidateIconName(it.Type); err != nil {
			v.Add(record, field, "%s", errors.UserMessage(err))
		}
		if seen[it.Type] {
			v.Add(record, field, "duplicate item type %q", it.Type)
		}
		seen[it.Type] = true
		if it.Count < 0 {
			v.Add(record, field, "count must not be negative (got %d)", it.Count)
		}
	}
	for i, pl := range p.Placements {
		if err := errors.ValidateIconName(pl.Type); err != nil {
			v.Add(record, fmt.Sprintf("placements[%d]", i), "%s", errors.UserMessage(err))
		}
	}
}

// ValidateAll validates every POI and rejects duplicate IDs.
func ValidateAll(pois []POI) error {
	var v errors.ValidationErrors
	ids := make(map[string]bool, len(pois))
	for i, p := range pois {
		record := fmt.Sprintf("record %d", i+1)
		p.Validate(&v, record)
		if p.ID == "" {
			continue
		}
		if ids[p.ID] {
			v.Add(p.ID, "id", "duplicate POI id")
		}
		ids[p.ID] = true
	}
	return v.Err()
}
