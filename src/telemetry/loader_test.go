package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAndCleanBasic(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Hardware.CSV",
		"TIME STAMP, GPU 1 UTIL, CPU UTIL, PROCESS\n"+
			"2025-08-29 12:00:00, 55, 21.5, game.exe\n"+
			"2025-08-29 12:00:01, 60, 22.0, game.exe\n"+
			"2025-08-29 12:00:02, 65, 23.5, other.exe\n")
	tbl := LoadAndClean(path, "Hardware")
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows got %d", tbl.Len())
	}
	if got := tbl.Column("GPU 1 UTIL"); got[1] != 60 {
		t.Fatalf("expected GPU 1 UTIL[1]=60 got %v", got[1])
	}
	if got := tbl.Column("CPU UTIL"); got[2] != 23.5 {
		t.Fatalf("expected CPU UTIL[2]=23.5 got %v", got[2])
	}
	procs := tbl.DistinctProcesses()
	if len(procs) != 2 || procs[0] != "game.exe" || procs[1] != "other.exe" {
		t.Fatalf("unexpected processes %v", procs)
	}
	if tbl.HasColumn(ProcessColumn) {
		t.Fatalf("PROCESS must not be coerced into a numeric column")
	}
}

func TestLoadAndCleanMissingTimestampColumn(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Hardware.CSV",
		"DATE, GPU 1 UTIL\n2025-08-29, 55\n")
	tbl := LoadAndClean(path, "Hardware")
	if !tbl.Empty() {
		t.Fatalf("expected empty table without %q column, got %d rows", TimeColumn, tbl.Len())
	}
}

func TestLoadAndCleanDropsUnparseableTimestamps(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Hardware.CSV",
		"TIME STAMP, GPU 1 UTIL\n"+
			"2025-08-29 12:00:00, 55\n"+
			"not a time, 60\n"+
			"2025-08-29 12:00:02, 65\n")
	tbl := LoadAndClean(path, "Hardware")
	if tbl.Len() != 2 {
		t.Fatalf("expected the bad-timestamp row dropped: got %d rows", tbl.Len())
	}
	if got := tbl.Column("GPU 1 UTIL"); got[0] != 55 || got[1] != 65 {
		t.Fatalf("unexpected surviving values %v", got)
	}
}

func TestLoadAndCleanNonNumericCellBecomesMissing(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Hardware.CSV",
		"TIME STAMP, GPU 1 UTIL, GPU 1 FAN\n"+
			"2025-08-29 12:00:00, N/A, 1200\n"+
			"2025-08-29 12:00:01, oops, 1250\n")
	tbl := LoadAndClean(path, "Hardware")
	if tbl.Len() != 2 {
		t.Fatalf("rows with bad numeric cells must be kept: got %d rows", tbl.Len())
	}
	util := tbl.Column("GPU 1 UTIL")
	if !math.IsNaN(util[0]) || !math.IsNaN(util[1]) {
		t.Fatalf("expected NaN for unparseable cells, got %v", util)
	}
	if fan := tbl.Column("GPU 1 FAN"); fan[0] != 1200 || fan[1] != 1250 {
		t.Fatalf("expected fan values intact, got %v", fan)
	}
}

func TestLoadAndCleanSkipsLeadingArtifactRow(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Hardware.CSV",
		"TIME STAMP, GPU 1 UTIL\n"+
			", \n"+
			"2025-08-29 12:00:00, 55\n")
	tbl := LoadAndClean(path, "Hardware")
	if tbl.Len() != 1 {
		t.Fatalf("expected the artifact row skipped, got %d rows", tbl.Len())
	}
}

func TestLoadAndCleanDuplicateHeaderKeepsFirst(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "FPS.Latency.CSV",
		"TIME STAMP, FPS, FPS\n"+
			"2025-08-29 12:00:00, 60, 99\n"+
			"2025-08-29 12:00:01, 61, 99\n")
	tbl := LoadAndClean(path, "FPS.Latency")
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows got %d", tbl.Len())
	}
	if got := tbl.Column("FPS"); len(got) != tbl.Len() {
		t.Fatalf("column FPS has %d entries for %d rows", len(got), tbl.Len())
	} else if got[0] != 60 || got[1] != 61 {
		t.Fatalf("expected the first FPS occurrence kept, got %v", got)
	}
	n := 0
	for _, c := range tbl.Columns {
		if c == "FPS" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected FPS listed once in Columns, got %d", n)
	}
}

func TestLoadAndCleanMissingFile(t *testing.T) {
	if tbl := LoadAndClean("", "FPS.Latency"); !tbl.Empty() {
		t.Fatalf("expected empty table for empty path")
	}
	if tbl := LoadAndClean(filepath.Join(t.TempDir(), "nope.CSV"), "FPS.Latency"); !tbl.Empty() {
		t.Fatalf("expected empty table for missing file")
	}
}

func TestLoadAndCleanZeroUsableRowsIsNonFatal(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "FPS.Latency.CSV",
		"TIME STAMP, FPS\nbroken, 60\nalso broken, 61\n")
	tbl := LoadAndClean(path, "FPS.Latency")
	if tbl == nil || !tbl.Empty() {
		t.Fatalf("expected a valid empty table")
	}
}
