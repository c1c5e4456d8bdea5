// Package dataset provides the tabular input consumed by the faceting engine.
//
// A [Dataset] is a small columnar table of string cells. Faceting only ever
// compares dimension values for equality and orders them for display, so
// cells stay as text; numeric columns used for the x and y axes are parsed
// on demand with [Dataset.Floats].
//
// # Row Identity
//
// Each row keeps the index it had when the table was loaded. Filters such
// as [Dataset.Where] and [Dataset.Filter] preserve that identity, which lets
// [Dataset.Concat] rebuild the union of several overlapping subsets without
// duplicates.
//
// # Loading
//
// [Load] picks a decoder from the file extension:
//
//	ds, err := dataset.Load("results.csv")   // header row + records
//	ds, err := dataset.Load("results.xlsx")  // first worksheet
//	ds, err := dataset.Load("results.json")  // array of flat objects
//
// The decoders are also available directly as [ReadCSV], [ReadXLSX] and
// [ReadJSON] for callers that already hold an io.Reader.
package dataset
