// Package charts renders telemetry tables into PNG-ready images: single
// time-series panels described by declarative PlotSpecs, grids composing
// several panels under one title, and an annotated correlation heatmap.
package charts

// LineSpec names one column of a multi-line panel with its legend label and
// stroke dash pattern (nil means a solid line).
type LineSpec struct {
	Column string
	Label  string
	Dash   []float64
}

// PlotSpec is the declarative description of one chart panel. Exactly one of
// Column or Lines drives the panel: Column for a single-metric panel (with
// an optional dashed ExtraColumn overlay), Lines for a composite panel where
// each named column is plotted independently.
type PlotSpec struct {
	Column      string
	Title       string
	YLabel      string
	ExtraColumn string
	ExtraLabel  string
	Lines       []LineSpec
}
