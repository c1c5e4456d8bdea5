// Package session builds faceted figures.
//
// A [Session] is the unit of figure building. It owns one style
// coordinator and one legend registry, and every [Session.Plot] call draws
// one layer into the same grid of cells:
//
//	s := session.New(session.Config{Title: "Benchmarks"}, logger)
//	_, err := s.Plot(ctx, ds, req, session.Layer{Kind: render.Line})
//	_, err = s.Plot(ctx, ds, req, session.Layer{Kind: render.Scatter, Channel: style.ChannelMarker})
//	err = s.Encode(w, render.FormatSVG)
//
// The first Plot call fixes the grid shape. Later calls must compute the
// same shape or fail with GRID_SHAPE_MISMATCH. A series value keeps the
// style it was first assigned for the lifetime of the session, no matter
// which cell or layer draws it.
//
// [Session.Finalize] builds the legend plan and closes the session; Plot
// then fails with SESSION_FINALIZED. Sessions are single-threaded and never
// shared.
package session
