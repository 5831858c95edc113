// Package poi defines the point-of-interest records drawn onto a map overlay.
//
// A [POI] is immutable input: loaders in the source package build it, the
// overlay package reads it. Nothing in this module mutates a POI after
// [POI.Validate] has accepted it.
//
// # Kinds
//
// Every POI carries a one-letter display [Kind] ("A" through "O") that
// selects how its contents are laid out: at their actual coordinates, around
// a circle one icon per item instance, or around a circle one icon per
// distinct item type, with different label combinations.
//
// # Items
//
// Items are kept as an ordered slice rather than a map. Circular layouts
// assign angles in slice order, so the order of the source record is part of
// the rendered output. Item types must be unique within a POI.
package poi
