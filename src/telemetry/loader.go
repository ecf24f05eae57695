package telemetry

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// TimeColumn is the required timestamp header; a file without it yields
	// an empty table.
	TimeColumn = "TIME STAMP"
	// ProcessColumn is the optional free-text column exempt from numeric coercion.
	ProcessColumn = "PROCESS"
	// missingSentinel is the driver's literal for an unavailable sensor reading.
	missingSentinel = "N/A"
)

// timeLayouts are tried in order when coercing TIME STAMP cells. The driver
// has shipped several formats over the years; fractional seconds are
// accepted by the .000 variants.
var timeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05.000",
	"02-01-2006 15:04:05",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"15:04:05.000",
	"15:04:05",
}

// LoadAndClean reads one delimited log file into a Table. label is used for
// diagnostics only. Every failure mode short of a programming error is
// non-fatal: a missing file, an unreadable file or a missing TIME STAMP
// header all produce an empty (but valid) table with the reason logged.
// Rows whose timestamp cannot be parsed are dropped; any other cell that is
// not numeric becomes NaN and the row is kept.
func LoadAndClean(path, label string) *Table {
	defer TimeTrack(time.Now(), "load/clean "+label)
	empty := &Table{Label: label, Values: map[string][]float64{}}
	if path == "" {
		Errorf("%s: no input file found", label)
		return empty
	}
	f, err := os.Open(path)
	if err != nil {
		Errorf("%s: cannot open %s: %v", label, path, err)
		return empty
	}
	defer f.Close()

	Infof("processing %s data: %s", label, filepath.Base(path))
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		Errorf("%s: cannot read header: %v", label, err)
		return empty
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	tsIdx := -1
	for i, h := range header {
		if h == TimeColumn {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		Errorf("%s: missing %q column", label, TimeColumn)
		return empty
	}

	t := &Table{Label: label, Values: map[string][]float64{}}
	procIdx := -1
	var metricIdx []int
	for i, h := range header {
		switch {
		case i == tsIdx:
		case h == ProcessColumn && procIdx < 0:
			procIdx = i
			t.Process = []string{}
		case h == "":
			// trailing delimiter artifact
		case t.Values[h] != nil:
			// A repeated header would make the column twice as long as the
			// table; keep the first occurrence only.
			Warnf("%s: duplicate column %q, keeping the first occurrence", label, h)
		default:
			metricIdx = append(metricIdx, i)
			t.Columns = append(t.Columns, h)
			t.Values[h] = []float64{}
		}
	}

	firstRow := true
	dropped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			Warnf("%s: read error, stopping: %v", label, err)
			break
		}
		cell := func(i int) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		tsCell := cell(tsIdx)
		if firstRow {
			firstRow = false
			// The exporter sometimes emits one blank-timestamp artifact row
			// right after the header; skip it without counting it as bad data.
			if tsCell == "" || tsCell == missingSentinel {
				continue
			}
		}
		ts, ok := parseTimestamp(tsCell)
		if !ok {
			dropped++
			continue
		}
		t.Times = append(t.Times, ts)
		if procIdx >= 0 {
			t.Process = append(t.Process, cell(procIdx))
		}
		for _, i := range metricIdx {
			h := header[i]
			t.Values[h] = append(t.Values[h], parseNumeric(cell(i)))
		}
	}
	if dropped > 0 {
		Warnf("%s: dropped %d rows with unparseable timestamps", label, dropped)
	}
	if t.Empty() {
		Warnf("%s: no usable records after cleaning", label)
		return t
	}
	min, max := t.TimeRange()
	Infof("%s: loaded %d records, time range %s -> %s", label, t.Len(),
		min.Format("2006-01-02 15:04:05"), max.Format("2006-01-02 15:04:05"))
	if procs := t.DistinctProcesses(); len(procs) > 0 {
		Infof("%s: processes involved: %s", label, strings.Join(procs, ", "))
	}
	return t
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" || s == missingSentinel {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseNumeric(s string) float64 {
	if s == "" || s == missingSentinel {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
