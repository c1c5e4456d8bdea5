// Package legend assembles one coherent set of legends from the many
// per-cell drawing calls of a faceted figure.
//
// # Registration
//
// Every drawing call that produces an artist adds an [Entry] to the
// session's [Registry]. Entries keep registration order, and with
// deduplication on, the first entry registered for a label masks later
// ones.
//
// # Finalization
//
// [Manager.Finalize] turns the registry into a [Plan] according to a
// [Strategy]:
//
//	per_cell            a legend inside every cell that produced entries
//	figure_wide         one legend below the grid
//	grouped_by_channel  one legend per visual channel, titled by the channel
//	none                nothing
//
// Finalization closes the registry; a new figure needs a new registry.
//
// # Positioning
//
// [LayoutFor] places figure-level legends in bands below the grid and
// reports the margins the grid must leave free. All coordinates are
// fractions of the figure size. Explicit anchors and margins in [Config]
// always win over computed ones.
package legend
