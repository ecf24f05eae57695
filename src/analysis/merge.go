// Package analysis temporally aligns the two cleaned telemetry tables and
// computes the cross-metric Pearson correlation matrix rendered as the run's
// heatmap.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/telemetry"
)

// MergeNearest joins right's columns onto left by nearest timestamp: each
// left row receives the values of the closest right row within tol, or NaN
// for every joined column when no right row is near enough (the row itself
// is always retained). Both tables are sorted by timestamp in place first.
// Column name collisions keep left's column. Returns the merged table and
// the count of left rows that found no match.
func MergeNearest(left, right *telemetry.Table, tol time.Duration) (*telemetry.Table, int) {
	left.SortByTime()
	right.SortByTime()

	merged := &telemetry.Table{
		Label:  left.Label + "+" + right.Label,
		Times:  append([]time.Time(nil), left.Times...),
		Values: map[string][]float64{},
	}
	for _, col := range left.Columns {
		merged.Columns = append(merged.Columns, col)
		merged.Values[col] = append([]float64(nil), left.Values[col]...)
	}

	var joined []string
	for _, col := range right.Columns {
		if merged.Values[col] != nil {
			telemetry.Warnf("merge: duplicate column %q, keeping %s's values", col, left.Label)
			continue
		}
		joined = append(joined, col)
		merged.Columns = append(merged.Columns, col)
		merged.Values[col] = make([]float64, left.Len())
	}

	unmatched := 0
	for i, ts := range left.Times {
		j, ok := nearestIndex(right.Times, ts, tol)
		if !ok {
			unmatched++
			for _, col := range joined {
				merged.Values[col][i] = math.NaN()
			}
			continue
		}
		for _, col := range joined {
			merged.Values[col][i] = right.Values[col][j]
		}
	}
	if unmatched > 0 {
		telemetry.Debugf("merge: %d of %d rows had no %s sample within %s", unmatched, left.Len(), right.Label, tol)
	}
	return merged, unmatched
}

// nearestIndex finds the index of the timestamp in sorted times closest to
// ts, provided the distance is within tol.
func nearestIndex(times []time.Time, ts time.Time, tol time.Duration) (int, bool) {
	if len(times) == 0 {
		return 0, false
	}
	i := sort.Search(len(times), func(k int) bool { return !times[k].Before(ts) })
	best, bestDist := -1, tol+1
	for _, k := range []int{i - 1, i} {
		if k < 0 || k >= len(times) {
			continue
		}
		d := times[k].Sub(ts)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if best < 0 || bestDist > tol {
		return 0, false
	}
	return best, true
}
