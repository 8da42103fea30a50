package dataprocessing

import (
	"fmt"
	"math"

	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
)

// DropBasedOnPct prunes sparse data. A column is kept when its non-null count
// reaches minNonNull(columnThreshold, rows); then, over the surviving columns,
// a row is kept when its non-null count reaches minNonNull(rowThreshold,
// columns). A count exactly at the minimum is kept. A threshold of 0.6 keeps a
// column once at least 40% of its cells are set.
func DropBasedOnPct(t *frame.Table, columnThreshold, rowThreshold float64) (*frame.Table, error) {
	if err := checkThreshold("column", columnThreshold); err != nil {
		return nil, err
	}
	if err := checkThreshold("row", rowThreshold); err != nil {
		return nil, err
	}

	minCol := minNonNull(columnThreshold, t.Len())
	var keep []string
	for _, c := range t.Columns() {
		if t.NonNullCount(c) >= minCol {
			keep = append(keep, c)
		}
	}
	pruned := t.Select(keep...)

	minRow := minNonNull(rowThreshold, pruned.Width())
	counts := pruned.RowNonNullCounts()
	return pruned.Filter(func(i int) bool {
		return counts[i] >= minRow
	}), nil
}

// minNonNull is ceil((1-threshold)*n). The product is rounded to 1e-9 first so
// that 0.4*10 counts as 4 and not 4.000000000000001.
func minNonNull(threshold float64, n int) int {
	need := (1 - threshold) * float64(n)
	need = math.Round(need*1e9) / 1e9
	return int(math.Ceil(need))
}

func checkThreshold(axis string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s threshold must be within [0,1], got %v", axis, v))
	}
	return nil
}
