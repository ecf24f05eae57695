package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/telemetry"
)

// CorrelationMatrix holds pairwise Pearson coefficients for Columns;
// Data[i][j] corresponds to (Columns[i], Columns[j]). Cells with fewer than
// two complete observation pairs are NaN.
type CorrelationMatrix struct {
	Columns []string
	Data    [][]float64
}

// Correlation computes the pairwise Pearson matrix over the intersection of
// candidates and the columns present in t, using only rows where both
// metrics are non-missing. ok=false when fewer than two candidate columns
// are present; the analysis is then skipped, not failed.
func Correlation(t *telemetry.Table, candidates []string) (*CorrelationMatrix, bool) {
	var present []string
	for _, col := range candidates {
		if t.HasColumn(col) {
			present = append(present, col)
		}
	}
	if len(present) < 2 {
		telemetry.Infof("correlation skipped: only %d of the candidate metrics present, need at least 2", len(present))
		return nil, false
	}

	m := &CorrelationMatrix{Columns: present, Data: make([][]float64, len(present))}
	for i, col := range present {
		m.Data[i] = make([]float64, len(present))
		// The diagonal follows the same fewer-than-two-observations rule as
		// the off-diagonal cells: a column with no usable values gets NaN,
		// not a misleading 1.
		if countValues(t.Column(col)) >= 2 {
			m.Data[i][i] = 1
		} else {
			m.Data[i][i] = math.NaN()
		}
	}
	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			r := pairwisePearson(t.Column(present[i]), t.Column(present[j]))
			m.Data[i][j] = r
			m.Data[j][i] = r
		}
	}
	return m, true
}

func countValues(col []float64) int {
	n := 0
	for _, v := range col {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// pairwisePearson correlates the rows where both columns hold values.
func pairwisePearson(a, b []float64) float64 {
	xs := make([]float64, 0, len(a))
	ys := make([]float64, 0, len(b))
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		xs = append(xs, a[k])
		ys = append(ys, b[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
