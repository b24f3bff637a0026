// Package geom turns shape descriptions into paths and stroke outlines.
//
// Paths are [ppath.Path] values. The helpers here add what the scene layer
// needs on top of them: primitive builders with per-corner radii, bounds and
// winding on flattened curves, a global corner-rounding rewrite, aligned and
// dashed strokes, and variable-width stroke outlines.
//
// Everything in this package is pure and allocation-only; there is no shared
// state.
package geom
