package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/telemetry"
)

// makeTable builds a table with n rows at the given interval from start; each
// column's value at row i is base+i.
func makeTable(label string, start time.Time, n int, step time.Duration, cols map[string]float64) *telemetry.Table {
	t := &telemetry.Table{Label: label, Values: map[string][]float64{}}
	for name := range cols {
		t.Columns = append(t.Columns, name)
	}
	for i := 0; i < n; i++ {
		t.Times = append(t.Times, start.Add(time.Duration(i)*step))
		for name, base := range cols {
			t.Values[name] = append(t.Values[name], base+float64(i))
		}
	}
	return t
}

func TestMergeNearestWithinTolerance(t *testing.T) {
	base := time.Date(2025, 8, 29, 12, 0, 0, 0, time.Local)
	fps := makeTable("FPS.Latency", base, 10, time.Second, map[string]float64{"FPS": 60})
	// hardware sampled 300ms after every FPS row
	hw := makeTable("Hardware", base.Add(300*time.Millisecond), 10, time.Second, map[string]float64{"GPU 1 UTIL": 50})

	merged, unmatched := MergeNearest(fps, hw, 2*time.Second)
	if unmatched != 0 {
		t.Fatalf("expected all rows matched, %d unmatched", unmatched)
	}
	if merged.Len() != 10 {
		t.Fatalf("merge must keep every left row: got %d", merged.Len())
	}
	util := merged.Column("GPU 1 UTIL")
	for i := range util {
		if util[i] != 50+float64(i) {
			t.Fatalf("row %d joined wrong hardware sample: %v", i, util[i])
		}
	}
	if fpsCol := merged.Column("FPS"); fpsCol[3] != 63 {
		t.Fatalf("left columns must be preserved: %v", fpsCol[3])
	}
}

func TestMergeNearestToleranceExceededEverywhere(t *testing.T) {
	base := time.Date(2025, 8, 29, 12, 0, 0, 0, time.Local)
	fps := makeTable("FPS.Latency", base, 5, time.Second, map[string]float64{"FPS": 60})
	hw := makeTable("Hardware", base.Add(time.Hour), 5, time.Second, map[string]float64{"GPU 1 UTIL": 50})

	merged, unmatched := MergeNearest(fps, hw, 2*time.Second)
	if unmatched != 5 {
		t.Fatalf("expected every row unmatched, got %d", unmatched)
	}
	if merged.Len() != 5 {
		t.Fatalf("unmatched rows must be retained: got %d rows", merged.Len())
	}
	for i, v := range merged.Column("GPU 1 UTIL") {
		if !math.IsNaN(v) {
			t.Fatalf("row %d should hold NaN joined fields, got %v", i, v)
		}
	}
}

func TestMergeNearestPicksClosestNeighbor(t *testing.T) {
	base := time.Date(2025, 8, 29, 12, 0, 0, 0, time.Local)
	fps := &telemetry.Table{
		Label:   "FPS.Latency",
		Times:   []time.Time{base.Add(1400 * time.Millisecond)},
		Columns: []string{"FPS"},
		Values:  map[string][]float64{"FPS": {60}},
	}
	hw := makeTable("Hardware", base, 3, time.Second, map[string]float64{"GPU 1 UTIL": 10})

	merged, unmatched := MergeNearest(fps, hw, 2*time.Second)
	if unmatched != 0 {
		t.Fatalf("expected a match")
	}
	// 1.4s sits between the 1s and 2s samples; 1s is closer
	if got := merged.Column("GPU 1 UTIL")[0]; got != 11 {
		t.Fatalf("expected nearest sample (11), got %v", got)
	}
}

func TestMergeNearestKeepsLeftColumnOnCollision(t *testing.T) {
	base := time.Date(2025, 8, 29, 12, 0, 0, 0, time.Local)
	fps := makeTable("FPS.Latency", base, 3, time.Second, map[string]float64{"FPS": 60})
	hw := makeTable("Hardware", base, 3, time.Second, map[string]float64{"FPS": 999, "GPU 1 UTIL": 50})

	merged, _ := MergeNearest(fps, hw, 2*time.Second)
	if got := merged.Column("FPS")[0]; got != 60 {
		t.Fatalf("left column must win a name collision, got %v", got)
	}
	names := map[string]int{}
	for _, c := range merged.Columns {
		names[c]++
	}
	if names["FPS"] != 1 {
		t.Fatalf("colliding column listed %d times", names["FPS"])
	}
}
