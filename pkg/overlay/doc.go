// Package overlay turns POI records into a display list for a map overlay.
//
// # Overview
//
// A [Builder] walks a slice of [poi.POI] and, for each one, draws the POI's
// own icon and then runs the drawing variant selected by its kind. Variants
// are combinations of two circular layout primitives plus label
// annotations; the full table is returned by [Variants].
//
// Nothing is rasterized here. The result is a [Scene]: the [Frame] (canvas
// size, data extent, background image) and an ordered list of [Mark]s in
// data coordinates. Sinks in the render/sink package turn a Scene into PNG,
// SVG or JSON.
//
// # Coordinates
//
// Marks use map (data) coordinates. The y axis is inverted: the extent's
// minimum y is the top edge of the canvas. [Frame.ToPixel] performs the
// mapping.
//
// # Circular Layout
//
// [CirclePositions] is the single placement formula shared by every circular
// variant: n points evenly spaced around (cx, cy) at radius dist + scale*n,
// starting at angle zero and advancing counter-clockwise in data space.
//
//	pts := overlay.CirclePositions(0, 0, 4, 1000, 100)
//	// (1400,0) (0,1400) (-1400,0) (0,-1400)
package overlay
