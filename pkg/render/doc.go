// Package render groups the output side of poimap.
//
//   - [icons]: icon lookup by name, decoding and zoom scaling
//   - [sink]: turn an overlay.Scene into PNG, SVG or JSON bytes
//
// Sinks never lay anything out; every position, size and label in the
// output comes from the scene.
package render
