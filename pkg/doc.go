// Package pkg provides the core libraries for facetgrid small-multiple charts.
//
// # Overview
//
// Facetgrid splits a table by one or two columns and draws one chart per
// group in a grid of cells. Series keep the same color, marker and dash
// pattern in every cell and every layer, and legend entries are collected
// once for the whole figure.
//
// # Architecture
//
// The typical data flow through facetgrid:
//
//	CSV / TSV / XLSX / JSON file
//	         ↓
//	    [dataset] package (load and filter rows)
//	         ↓
//	    [facet] package (dimensions → grid → targets → cell subsets)
//	         ↓
//	    [session] package (styles + drawing, one call per layer)
//	         ↓
//	    [legend] package (registry → strategy → placement)
//	         ↓
//	    [render] package (SVG/PNG/PDF output)
//
// # Quick Start
//
//	ds, _ := dataset.Load("runs.csv")
//	s := session.New(session.Config{Title: "Benchmarks"}, logger)
//	req := facet.Request{RowsBy: "metric", ColsBy: "dataset", SeriesBy: "model", X: "step", Y: "value"}
//	_, _ = s.Plot(ctx, ds, req, session.Layer{Kind: render.Line})
//	_ = s.Encode(w, render.FormatSVG)
//
// # Main Packages
//
// ## Domain Logic
//
// [facet] - Request validation, dimension analysis, grid computation,
// cell targeting and per-cell data subsets.
//
// [style] - Per-series style assignment shared by all cells of a figure.
//
// [theme] - Color, marker and dash pools plus presets.
//
// [legend] - Entry registry, legend strategies and figure-level placement.
//
// [render] - Plot kinds, the figure canvas and format encoders.
//
// [session] - One figure built from one or more layers.
//
// ## Infrastructure
//
// [pipeline] - Load → facet → render with caching and hooks, used by every
// entry point.
//
// [cache] - File and Redis backends for rendered figures.
//
// [config] - TOML and YAML figure files.
//
// [observability] - Pipeline and cache hooks.
//
// [errors] - Coded errors shared by all packages.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/facet/...    # Specific package
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/dataset
// [facet]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/facet
// [style]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/style
// [theme]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/theme
// [legend]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/legend
// [render]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/render
// [session]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/facetgrid/pkg/errors
package pkg
