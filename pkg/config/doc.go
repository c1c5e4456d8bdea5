// Package config reads facetgrid config files.
//
// A config file describes a whole figure: the facet request, the drawing
// layers, the legend configuration, the output settings and theme
// overrides. TOML and YAML are supported; the format follows the file
// extension.
//
//	[facet]
//	rows_by = "metric"
//	cols_by = "dataset"
//	series_by = "model"
//	x = "step"
//	y = "value"
//
//	[[layers]]
//	kind = "line"
//
//	[[layers]]
//	kind = "scatter"
//	channel = "marker"
//
//	[legend]
//	strategy = "grouped_by_channel"
//
//	[theme]
//	preset = "dark"
//	colors = ["#1b9e77", "#d95f02", "#7570b3"]
//
// Unknown keys are rejected so that typos surface early. Command-line flags
// override values read from a file.
package config
