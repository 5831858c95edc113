// Package sink turns an [overlay.Scene] into output bytes.
//
// # Formats
//
//   - [RenderPNG]: raster image drawn with fogleman/gg. Icons are decoded and
//     resized through an [icons.Store]; labels use freetype faces from the
//     fonts package.
//   - [RenderSVG]: vector image. Each distinct icon is embedded once as a
//     base64 data URI and referenced with <use>.
//   - [RenderJSON]: the scene itself, readable again with [ReadJSON].
//
// All sinks draw marks in [overlay.Scene.Ordered] order, so labels always
// end up above icons and circles.
//
// [overlay.Scene]: github.com/matzehuels/poimap/pkg/overlay.Scene
// [overlay.Scene.Ordered]: github.com/matzehuels/poimap/pkg/overlay.Scene.Ordered
// [icons.Store]: github.com/matzehuels/poimap/pkg/render/icons.Store
package sink
