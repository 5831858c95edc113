package overlay

import (
	"github.com/matzehuels/poimap/pkg/poi"
)

// Layout names the placement primitive a variant uses.
type Layout string

const (
	LayoutActual Layout = "actual" // items at their recorded coordinates
	LayoutUnique Layout = "unique" // one icon per item type around a circle
	LayoutItems  Layout = "items"  // one icon per item instance around a circle
)

// Label row relative to the layout centre, in multiples of LabelOffset.
const (
	rowAbove  = -1
	rowCentre = 0
	rowBelow  = 1
)

type label struct {
	name string
	row  float64
	text func(poi.POI) string
}

var (
	labelID        = func(row float64) label { return label{"id", row, func(p poi.POI) string { return p.ID }} }
	labelReq       = func(row float64) label { return label{"requirement", row, func(p poi.POI) string { return p.Requirement }} }
	labelPoints    = func(row float64) label { return label{"points", row, poi.POI.PointsLabel} }
	labelPointsRaw = func(row float64) label { return label{"points (raw)", row, poi.POI.PointsRaw} }
)

// Variant is one row of the dispatch table.
type Variant struct {
	Kind        poi.Kind
	Description string
	Layout      Layout
	Anchored    bool // circle centred on the POI offset rather than the POI
	Doggo       bool // secondary icon drawn at the offset

	labels []label
}

// Labels returns the names of the labels the variant writes, top to bottom.
func (v Variant) Labels() []string {
	names := make([]string, len(v.labels))
	for i, l := range v.labels {
		names[i] = l.name
	}
	return names
}

func (v Variant) draw(b *Builder, p poi.POI) {
	cx, cy := p.X, p.Y
	if v.Anchored {
		cx, cy = p.Anchor()
	}

	switch v.Layout {
	case LayoutActual:
		b.actual(p)
	case LayoutUnique:
		b.circleUnique(p, cx, cy)
	case LayoutItems:
		b.circleItems(p, cx, cy)
	}

	for _, l := range v.labels {
		b.drawText(cx, cy+l.row*b.opts.LabelOffset, l.text(p))
	}

	if v.Doggo {
		b.doggo(p)
	}
}

var variants = []Variant{
	{Kind: poi.KindActual, Layout: LayoutActual,
		Description: "all items at their actual coordinates"},
	{Kind: poi.KindUniqueDoggo, Layout: LayoutUnique, Anchored: true, Doggo: true,
		Description: "unique items in a circle for a doggo",
		labels:      []label{labelID(rowCentre)}},
	{Kind: poi.KindUniqueDoggoPoints, Layout: LayoutUnique, Anchored: true, Doggo: true,
		Description: "unique items in a circle for a doggo, with points estimate",
		labels:      []label{labelID(rowAbove), labelPoints(rowBelow)}},
	{Kind: poi.KindUniqueReqs, Layout: LayoutUnique,
		Description: "unique items in a circle, with ID and requirements",
		labels:      []label{labelID(rowAbove), labelReq(rowBelow)}},
	{Kind: poi.KindUniquePoints, Layout: LayoutUnique,
		Description: "unique items in a circle, with ID and points estimate",
		labels:      []label{labelID(rowAbove), labelPoints(rowBelow)}},
	{Kind: poi.KindItemsDoggo, Layout: LayoutItems, Anchored: true, Doggo: true,
		Description: "all items in a circle for a doggo",
		labels:      []label{labelID(rowCentre)}},
	{Kind: poi.KindItemsDoggoPoints, Layout: LayoutItems, Anchored: true, Doggo: true,
		Description: "all items in a circle for a doggo, with raw points",
		labels:      []label{labelID(rowAbove), labelPointsRaw(rowBelow)}},
	{Kind: poi.KindItemsReqs, Layout: LayoutItems,
		Description: "all items in a circle, with ID and requirements",
		labels:      []label{labelID(rowAbove), labelReq(rowBelow)}},
	{Kind: poi.KindItemsPoints, Layout: LayoutItems,
		Description: "all items in a circle, with ID and raw points",
		labels:      []label{labelID(rowAbove), labelPointsRaw(rowBelow)}},
	{Kind: poi.KindUniqueDoggoPointsNoID, Layout: LayoutUnique, Anchored: true, Doggo: true,
		Description: "unique items in a circle for a doggo, points only",
		labels:      []label{labelPoints(rowCentre)}},
	{Kind: poi.KindUniquePointsNoID, Layout: LayoutUnique,
		Description: "unique items in a circle, points only",
		labels:      []label{labelPoints(rowCentre)}},
	{Kind: poi.KindUniqueReqsNoID, Layout: LayoutUnique,
		Description: "unique items in a circle, requirements only",
		labels:      []label{labelReq(rowCentre)}},
	{Kind: poi.KindItemsPointsNoID, Layout: LayoutItems,
		Description: "all items in a circle, points only",
		labels:      []label{labelPoints(rowCentre)}},
	{Kind: poi.KindItemsReqsNoID, Layout: LayoutItems,
		Description: "all items in a circle, requirements only",
		labels:      []label{labelReq(rowCentre)}},
	{Kind: poi.KindItemsDoggoPointsNoID, Layout: LayoutItems, Anchored: true, Doggo: true,
		Description: "all items in a circle for a doggo, points only",
		labels:      []label{labelPoints(rowCentre)}},
}

var table = func() map[poi.Kind]Variant {
	m := make(map[poi.Kind]Variant, len(variants))
	for _, v := range variants {
		m[v.Kind] = v
	}
	return m
}()

func lookup(k poi.Kind) (Variant, bool) {
	v, ok := table[k]
	return v, ok
}

// Variants returns the dispatch table in kind order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

// VariantFor returns the variant registered for k.
func VariantFor(k poi.Kind) (Variant, bool) {
	return lookup(k)
}
