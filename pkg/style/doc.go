// Package style keeps series styles consistent across the cells of a
// faceted figure.
//
// A [Coordinator] maps (dimension, value) keys to a [Bundle] of color,
// marker and dash pattern taken from the theme pools in first-seen order.
// Once assigned, a key keeps its bundle, so a series drawn in several
// cells or in several layered passes always looks the same.
//
// [Bundle.Restrict] narrows a bundle to the single attribute a layer maps
// its series dimension to, leaving the other attributes neutral.
package style
