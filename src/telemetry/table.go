// Package telemetry loads and cleans the timestamped performance-log CSVs
// exported by the driver's logging feature: one "Hardware" file with
// GPU/CPU/memory sensors and one "FPS.Latency" file with game-performance
// metrics. Cleaned data is held as a Table: rows keyed by timestamp, every
// metric column numeric with NaN marking cells that could not be parsed.
package telemetry

import (
	"math"
	"sort"
	"time"
)

// Table is the cleaned in-memory representation of one input file.
// All column slices have exactly Len() entries; Process is nil when the
// source file has no PROCESS column.
type Table struct {
	Label   string // diagnostic label, e.g. "Hardware" or "FPS.Latency"
	Times   []time.Time
	Columns []string // metric column names in file order (excludes TIME STAMP and PROCESS)
	Values  map[string][]float64
	Process []string
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Times) }

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool { return t == nil || len(t.Times) == 0 }

// HasColumn reports whether a metric column of that name was present in the file.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Values[name]
	return ok
}

// Column returns the values of a metric column, or nil when absent.
func (t *Table) Column(name string) []float64 {
	if t == nil {
		return nil
	}
	return t.Values[name]
}

// ColumnHasData reports whether the column exists and holds at least one
// non-NaN value. A column that is present but entirely missing is treated
// the same as an absent one by the chart renderer.
func (t *Table) ColumnHasData(name string) bool {
	for _, v := range t.Column(name) {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// SortByTime reorders all rows so timestamps are non-decreasing. The sort is
// stable so rows sharing a timestamp keep their file order.
func (t *Table) SortByTime() {
	if t.Len() < 2 {
		return
	}
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return t.Times[idx[a]].Before(t.Times[idx[b]]) })
	times := make([]time.Time, len(idx))
	for i, j := range idx {
		times[i] = t.Times[j]
	}
	t.Times = times
	for name, col := range t.Values {
		out := make([]float64, len(idx))
		for i, j := range idx {
			out[i] = col[j]
		}
		t.Values[name] = out
	}
	if t.Process != nil {
		out := make([]string, len(idx))
		for i, j := range idx {
			out[i] = t.Process[j]
		}
		t.Process = out
	}
}

// TimeRange returns the earliest and latest timestamps. Zero times when empty.
func (t *Table) TimeRange() (time.Time, time.Time) {
	if t.Empty() {
		return time.Time{}, time.Time{}
	}
	min, max := t.Times[0], t.Times[0]
	for _, ts := range t.Times[1:] {
		if ts.Before(min) {
			min = ts
		}
		if ts.After(max) {
			max = ts
		}
	}
	return min, max
}

// DistinctProcesses returns the unique PROCESS values in first-seen order.
func (t *Table) DistinctProcesses() []string {
	if t == nil || t.Process == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, p := range t.Process {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
